package app

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-galaxy/config"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/camera"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/renderer"
	"github.com/Carmen-Shannon/oxy-galaxy/engine/window"
	"github.com/Carmen-Shannon/oxy-galaxy/galaxy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCamera() camera.Camera {
	return camera.NewCamera(
		camera.WithViewport(800, 600),
		camera.WithController(camera.NewOrbitController(camera.WithDamping(1))),
	)
}

func TestPointer_LeftDragOrbits(t *testing.T) {
	cam := newTestCamera()
	before := position(cam)
	p := newPointer(cam)

	p.down(window.MouseLeft, 100, 100)
	p.move(160, 100)
	cam.Update()

	after := position(cam)
	assert.NotEqual(t, before, after)
	assert.Equal(t, [3]float32{}, target(cam), "orbiting keeps the target")
	assert.InDelta(t, length(before), length(after), 1e-4, "orbiting keeps the distance")
}

func TestPointer_RightDragPans(t *testing.T) {
	cam := newTestCamera()
	p := newPointer(cam)

	p.down(window.MouseRight, 0, 0)
	p.move(50, 20)
	cam.Update()

	assert.NotEqual(t, [3]float32{}, target(cam), "panning moves the target")
}

func TestPointer_MoveWithoutButtonIsIgnored(t *testing.T) {
	cam := newTestCamera()
	before := position(cam)
	p := newPointer(cam)

	p.move(10, 10)
	p.down(window.MouseMiddle, 10, 10)
	p.move(90, 90)
	p.down(window.MouseLeft, 0, 0)
	p.up(window.MouseLeft, 0, 0)
	p.move(40, 40)
	cam.Update()

	after := position(cam)
	for i := range before {
		assert.InDelta(t, before[i], after[i], 1e-5)
	}
}

func TestPointer_ScrollZooms(t *testing.T) {
	cam := newTestCamera()
	before := cam.Controller().Radius()
	p := newPointer(cam)

	p.scroll(1)
	cam.Update()
	assert.Less(t, cam.Controller().Radius(), before)
}

func TestVariantParams(t *testing.T) {
	structured, err := variantParams(config.VariantStructured)
	require.NoError(t, err)
	assert.Equal(t, galaxy.DefaultParameters(), structured)

	flat, err := variantParams(config.VariantFlat)
	require.NoError(t, err)
	assert.Equal(t, galaxy.SpinBakedIn, flat.SpinMode)

	_, err = variantParams("elliptical")
	assert.Error(t, err)
}

func TestRendererSettings(t *testing.T) {
	assert.Equal(t, renderer.PresentModeUncapped, presentMode("uncapped"))
	assert.Equal(t, renderer.PresentModeVSync, presentMode("vsync"))
	assert.Equal(t, renderer.MSAAOff, msaaSamples(1))
	assert.Equal(t, renderer.MSAA4x, msaaSamples(4))
	assert.Equal(t, renderer.MSAA16x, msaaSamples(16))
}

func position(cam camera.Camera) [3]float32 {
	x, y, z := cam.Controller().Position()
	return [3]float32{x, y, z}
}

func target(cam camera.Camera) [3]float32 {
	x, y, z := cam.Controller().Target()
	return [3]float32{x, y, z}
}

func length(v [3]float32) float64 {
	return math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]))
}
