package galaxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-galaxy/panel"
)

func newTestController(host *fakeHost, factory *fakeFactory, options ...ControllerBuilderOption) Controller {
	opts := append([]ControllerBuilderOption{
		WithParams(smallParams()),
		WithGenerator(NewSequentialGenerator(NewRandomSource(1))),
	}, options...)
	return NewController(host, factory, opts...)
}

func TestController_RegenerateAttaches(t *testing.T) {
	_, host, factory := newFakes()
	c := newTestController(host, factory)

	assert.False(t, c.Attached())
	require.NoError(t, c.Regenerate())

	assert.True(t, c.Attached())
	assert.Equal(t, 64, c.StarCount())
	require.Len(t, host.children, 1)
	assert.Zero(t, host.outsideSwap)
}

func TestController_RegenerateSwapsWithoutShortCircuit(t *testing.T) {
	log, host, factory := newFakes()
	c := newTestController(host, factory)

	require.NoError(t, c.Regenerate())
	log.events = nil
	require.NoError(t, c.Regenerate())

	assert.Len(t, factory.points, 2, "unchanged parameters still rebuild")
	require.Len(t, host.children, 1)
	assert.Same(t, factory.points[1], host.children[0])
	assert.Equal(t, []string{
		"remove points 1",
		"release geometry 1",
		"release material 1",
		"add points 2",
	}, log.events)
	assert.Equal(t, 2, host.exclusives)
	assert.Zero(t, host.outsideSwap)
}

func TestController_ConfigurationErrorKeepsPrevious(t *testing.T) {
	_, host, factory := newFakes()
	c := newTestController(host, factory)
	require.NoError(t, c.Regenerate())

	p := c.Params()
	p.StarCount = 0
	c.SetParams(p)

	err := c.Regenerate()
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))

	assert.Len(t, factory.geometries, 1, "no GPU work after a rejected configuration")
	require.Len(t, host.children, 1)
	assert.Same(t, factory.points[0], host.children[0])
	assert.Zero(t, factory.geometries[0].released)
}

func TestController_ResourceErrorKeepsPrevious(t *testing.T) {
	tests := []struct {
		name            string
		fail            func(f *fakeFactory)
		geometryRelease int
		materialRelease int
	}{
		{name: "geometry", fail: func(f *fakeFactory) { f.failGeometry = errGPU }},
		{name: "material", fail: func(f *fakeFactory) { f.failMaterial = errGPU }, geometryRelease: 1},
		{name: "points", fail: func(f *fakeFactory) { f.failPoints = errGPU }, geometryRelease: 1, materialRelease: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, host, factory := newFakes()
			c := newTestController(host, factory)
			require.NoError(t, c.Regenerate())

			tt.fail(factory)
			err := c.Regenerate()
			require.Error(t, err)
			assert.True(t, IsResource(err))
			assert.ErrorIs(t, err, errGPU)

			require.Len(t, host.children, 1)
			assert.Same(t, factory.points[0], host.children[0])
			assert.Zero(t, factory.geometries[0].released)
			assert.Zero(t, factory.materials[0].released)

			if len(factory.geometries) > 1 {
				assert.Equal(t, tt.geometryRelease, factory.geometries[1].released)
			}
			if len(factory.materials) > 1 {
				assert.Equal(t, tt.materialRelease, factory.materials[1].released)
			}
		})
	}
}

func TestController_UpdateIsNoOpWhenUnbuilt(t *testing.T) {
	_, host, factory := newFakes()
	c := newTestController(host, factory)

	assert.NotPanics(t, func() { c.Update(3) })
	assert.Empty(t, factory.materials)
}

func TestController_UpdateDrivesMaterial(t *testing.T) {
	_, host, factory := newFakes()
	p := smallParams()
	p.RotationSpeed = 0.5
	c := newTestController(host, factory, WithParams(p))
	require.NoError(t, c.Regenerate())

	c.Update(4)

	m := factory.materials[0]
	assert.Equal(t, float32(4), m.time)
	assert.Equal(t, float32(2), m.rotation)
}

func TestController_MaterialUniforms(t *testing.T) {
	tests := []struct {
		name     string
		ratio    float64
		mode     SpinMode
		wantSize float32
		wantSpin float32
	}{
		{name: "ratio below cap", ratio: 1.5, mode: SpinUniformDriven, wantSize: 7.5, wantSpin: 0.05},
		{name: "ratio capped at two", ratio: 3, mode: SpinUniformDriven, wantSize: 10, wantSpin: 0.05},
		{name: "baked spin has no shader spin", ratio: 1, mode: SpinBakedIn, wantSize: 5, wantSpin: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, host, factory := newFakes()
			p := smallParams()
			p.SpinMode = tt.mode
			c := newTestController(host, factory,
				WithParams(p),
				WithPixelRatio(func() float64 { return tt.ratio }),
			)
			require.NoError(t, c.Regenerate())

			u := factory.materials[0].uniforms
			assert.InDelta(t, tt.wantSize, u.StarSize, 1e-6)
			assert.InDelta(t, tt.wantSpin, u.SpinSpeed, 1e-6)
			assert.Equal(t, PatternDisc, u.Pattern)
		})
	}
}

func TestController_DisposeIsIdempotent(t *testing.T) {
	log, host, factory := newFakes()
	c := newTestController(host, factory)
	require.NoError(t, c.Regenerate())
	log.events = nil

	c.Dispose()
	c.Dispose()

	assert.Equal(t, []string{
		"remove points 1",
		"release geometry 1",
		"release material 1",
	}, log.events)
	assert.Empty(t, host.children)
	assert.False(t, c.Attached())
	assert.Equal(t, 1, factory.geometries[0].released)
}

func TestResource_ZeroValueIsUnbuilt(t *testing.T) {
	var r Resource
	assert.IsType(t, Unbuilt{}, r.State())
	assert.False(t, r.Attached())
	assert.NotPanics(t, r.Dispose)
	assert.Zero(t, r.Count())
}

func TestController_BindCommitsRegenerate(t *testing.T) {
	_, host, factory := newFakes()
	clock := &fakeClock{}
	c := newTestController(host, factory, WithClock(clock))
	require.NoError(t, c.Regenerate())

	var failures []string
	reg := panel.NewRegistry(panel.WithErrorHandler(func(name string, err error) {
		failures = append(failures, name)
	}))
	require.NoError(t, c.Bind(reg))

	require.NoError(t, reg.Apply(ControlBranches, 3))
	assert.Equal(t, 3, c.Params().Branches)
	assert.Len(t, factory.points, 2)

	require.NoError(t, reg.Apply(ControlInsideColor, "#00FF00"))
	assert.Equal(t, "#00ff00", c.Params().InsideColor.Hex())
	assert.Len(t, factory.points, 3)

	require.NoError(t, reg.Apply(ControlPattern, "Light Point"))
	assert.Equal(t, PatternLightPoint, c.Params().Pattern)

	require.NoError(t, reg.Apply(ControlInsideColor, "green"))
	assert.Equal(t, []string{ControlInsideColor}, failures)
	assert.Len(t, factory.points, 4, "a rejected edit does not regenerate")

	require.NoError(t, reg.Commit(ControlReplaySpin))
	assert.Equal(t, 1, clock.resets)
	assert.Len(t, factory.points, 4)
}

func TestController_BindClampsToRange(t *testing.T) {
	_, host, factory := newFakes()
	c := newTestController(host, factory)
	reg := panel.NewRegistry()
	require.NoError(t, c.Bind(reg))

	require.NoError(t, reg.Edit(ControlStarCount, 500000))
	assert.Equal(t, 200000, c.Params().StarCount)

	require.NoError(t, reg.Edit(ControlRadius, -3.0))
	assert.Equal(t, 0.0, c.Params().Radius)
	assert.Empty(t, factory.points, "edits without commit do not regenerate")
}

func TestController_DisposeReleasesBindings(t *testing.T) {
	_, host, factory := newFakes()
	c := newTestController(host, factory)
	reg := panel.NewRegistry()
	require.NoError(t, c.Bind(reg))
	assert.Equal(t, 13, reg.Len())

	c.Dispose()
	assert.Zero(t, reg.Len())

	// binding again after dispose is allowed since the names are free
	require.NoError(t, c.Bind(reg))
}
