package point_cloud

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-galaxy/engine/scene"
	"github.com/Carmen-Shannon/oxy-galaxy/galaxy"
)

// sceneHost adapts a scene.Scene to the galaxy.SceneHost the controller swaps point clouds in.
type sceneHost struct {
	scene  scene.Scene
	logger *slog.Logger
}

var _ galaxy.SceneHost = &sceneHost{}

// NewSceneHost returns a SceneHost that adds point clouds to s as drawables.
//
// Parameters:
//   - s: the scene the galaxy is drawn in
//
// Returns:
//   - galaxy.SceneHost: the host
func NewSceneHost(s scene.Scene) galaxy.SceneHost {
	return &sceneHost{scene: s, logger: slog.Default()}
}

func (h *sceneHost) AddChild(p galaxy.Points) {
	d, ok := p.(scene.Drawable)
	if !ok {
		h.logger.Warn("galaxy points are not drawable, skipping", "scene", h.scene.Name())
		return
	}
	h.scene.Add(d)
}

func (h *sceneHost) RemoveChild(p galaxy.Points) {
	if d, ok := p.(scene.Drawable); ok {
		h.scene.Remove(d)
	}
}

func (h *sceneHost) Exclusive(fn func()) {
	h.scene.Exclusive(fn)
}
