package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-galaxy/engine/camera"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer/shader"
)

// cameraVarName is the shader variable the camera uniform is bound to.
const cameraVarName = "camera"

// Drawable is anything the scene can draw with one instanced draw call.
type Drawable interface {
	// PipelineKey returns the key of the registered pipeline to draw with.
	PipelineKey() string

	// Mesh returns the provider holding the vertex and index buffers.
	Mesh() bind_group_provider.BindGroupProvider

	// InstanceCount returns the number of instances to draw.
	InstanceCount() uint32

	// BindGroups returns the providers for groups 1..n. Group 0 is always the camera.
	BindGroups() []bind_group_provider.BindGroupProvider
}

// Scene holds the drawables of one view along with its camera and renderer.
// Drawables are added and removed from any goroutine; Render runs on the render goroutine.
// Exclusive runs a function while no frame is in progress, so a group of changes is seen by
// frames either entirely or not at all.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Add appends a drawable. Adding a drawable twice has no effect.
	//
	// Parameters:
	//   - d: the drawable to add
	Add(d Drawable)

	// Remove removes a drawable.
	//
	// Parameters:
	//   - d: the drawable to remove
	//
	// Returns:
	//   - bool: false if d was not in the scene
	Remove(d Drawable) bool

	// Count returns the number of drawables.
	Count() int

	// Exclusive runs fn while holding the frame lock. fn may call Add and Remove.
	//
	// Parameters:
	//   - fn: the changes to apply between frames
	Exclusive(fn func())

	// Update advances the camera. Called from the tick goroutine.
	Update()

	// Render uploads the camera uniform and draws one frame: BeginFrame, a draw call per drawable,
	// EndFrame and Present. A frame that cannot start returns renderer.ErrSurfaceUnavailable.
	//
	// Returns:
	//   - error: the first draw or frame error
	Render() error
}

type scene struct {
	// mu guards drawables.
	mu *sync.RWMutex
	// frameMu is held for the whole of a frame and by Exclusive.
	frameMu *sync.Mutex

	name      string
	logger    *slog.Logger
	cam       camera.Camera
	r         renderer.Renderer
	drawables []Drawable

	cameraBinding int

	// drawBindGroupsPool is reused by every draw call of a frame.
	drawBindGroupsPool []bind_group_provider.BindGroupProvider
}

var _ Scene = &scene{}

// NewScene creates a Scene. The pipeline's vertex shader must declare the camera uniform as a
// variable named "camera"; its group becomes the camera's bind group and is created on the GPU here.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to draw from
//   - r: the renderer to draw with
//   - p: a pipeline whose vertex shader declares the camera uniform
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
//   - error: an error if the camera group is missing or its bind group cannot be created
func NewScene(name string, cam camera.Camera, r renderer.Renderer, p pipeline.Pipeline, options ...SceneBuilderOption) (Scene, error) {
	if cam == nil || r == nil || p == nil {
		return nil, errors.New("scene: camera, renderer and pipeline are required")
	}

	s := &scene{
		mu:                 &sync.RWMutex{},
		frameMu:            &sync.Mutex{},
		name:               name,
		logger:             slog.Default(),
		cam:                cam,
		r:                  r,
		drawBindGroupsPool: make([]bind_group_provider.BindGroupProvider, 0, 4),
	}
	for _, option := range options {
		option(s)
	}

	group, binding, ok := findCameraBinding(p)
	if !ok {
		return nil, fmt.Errorf("scene %s: pipeline %q declares no %q variable", name, p.PipelineKey(), cameraVarName)
	}
	if group != 0 {
		return nil, fmt.Errorf("scene %s: camera must be bound to group 0, found group %d", name, group)
	}
	s.cameraBinding = binding

	if err := r.InitBindGroup(cam.BindGroupProvider(), p.BindGroupLayoutDescriptor(group), nil, nil); err != nil {
		return nil, fmt.Errorf("scene %s: camera bind group: %w", name, err)
	}
	return s, nil
}

// findCameraBinding locates the camera uniform in the pipeline's vertex shader.
func findCameraBinding(p pipeline.Pipeline) (group, binding int, ok bool) {
	vs := p.Shader(shader.ShaderTypeVertex)
	if vs == nil {
		return 0, 0, false
	}
	for g := range p.BindGroupLayoutDescriptors() {
		if b, found := vs.BindGroupFromVarName(g, cameraVarName); found {
			return g, b, true
		}
	}
	return 0, 0, false
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Add(d Drawable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.drawables, d) {
		return
	}
	s.drawables = append(s.drawables, d)
	s.logger.Debug("scene: drawable added", "scene", s.name, "pipeline", d.PipelineKey(), "count", len(s.drawables))
}

func (s *scene) Remove(d Drawable) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.drawables, d)
	if i < 0 {
		return false
	}
	s.drawables = slices.Delete(s.drawables, i, i+1)
	s.logger.Debug("scene: drawable removed", "scene", s.name, "count", len(s.drawables))
	return true
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drawables)
}

func (s *scene) Exclusive(fn func()) {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	fn()
}

func (s *scene) Update() {
	s.cam.Update()
}

func (s *scene) Render() error {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()

	uniform := s.cam.Uniform()
	s.r.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: s.cam.BindGroupProvider(),
		Binding:  s.cameraBinding,
		Data:     uniform.Marshal(),
	}})

	if err := s.r.BeginFrame(); err != nil {
		return err
	}

	drawErr := s.drawCalls()

	s.r.EndFrame()
	s.r.Present()
	return drawErr
}

// drawCalls issues one draw per drawable. Caller must hold frameMu.
func (s *scene) drawCalls() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var errs []error
	camBGP := s.cam.BindGroupProvider()
	for _, d := range s.drawables {
		groups := append(s.drawBindGroupsPool[:0], camBGP)
		groups = append(groups, d.BindGroups()...)
		if err := s.r.DrawCall(d.PipelineKey(), d.Mesh(), d.InstanceCount(), groups); err != nil {
			errs = append(errs, err)
		}
		s.drawBindGroupsPool = groups
	}
	return errors.Join(errs...)
}
