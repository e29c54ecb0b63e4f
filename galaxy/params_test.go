package galaxy

import (
	"errors"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetsAreValid(t *testing.T) {
	assert.NoError(t, DefaultParameters().Validate())
	assert.NoError(t, FlatParameters().Validate())

	assert.Equal(t, SpinUniformDriven, DefaultParameters().SpinMode)
	assert.Equal(t, SpinBakedIn, FlatParameters().SpinMode)
	assert.Equal(t, "#1f33c7", DefaultParameters().InsideColor.Hex())
	assert.Equal(t, "#da281b", DefaultParameters().OutsideColor.Hex())
}

func TestParameterSet_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *ParameterSet)
		field  string
	}{
		{name: "zero stars", mutate: func(p *ParameterSet) { p.StarCount = 0 }, field: "starCount"},
		{name: "negative stars", mutate: func(p *ParameterSet) { p.StarCount = -5 }, field: "starCount"},
		{name: "zero size", mutate: func(p *ParameterSet) { p.StarSize = 0 }, field: "starSize"},
		{name: "unknown pattern", mutate: func(p *ParameterSet) { p.Pattern = 9 }, field: "particlePattern"},
		{name: "negative radius", mutate: func(p *ParameterSet) { p.Radius = -0.1 }, field: "radius"},
		{name: "zero branches", mutate: func(p *ParameterSet) { p.Branches = 0 }, field: "branches"},
		{name: "negative randomness", mutate: func(p *ParameterSet) { p.Randomness = -1 }, field: "randomness"},
		{name: "negative power", mutate: func(p *ParameterSet) { p.RandomnessPower = -1 }, field: "randomnessPower"},
		{name: "zero concentration", mutate: func(p *ParameterSet) { p.Concentration = 0 }, field: "concentration"},
		{name: "inside color out of range", mutate: func(p *ParameterSet) { p.InsideColor = colorful.Color{R: 2} }, field: "insideColor"},
		{name: "outside color out of range", mutate: func(p *ParameterSet) { p.OutsideColor = colorful.Color{B: -1} }, field: "outsideColor"},
		{name: "unknown spin mode", mutate: func(p *ParameterSet) { p.SpinMode = 4 }, field: "spinMode"},
		{name: "NaN radius", mutate: func(p *ParameterSet) { p.Radius = math.NaN() }, field: "radius"},
		{name: "infinite spin", mutate: func(p *ParameterSet) { p.SpinSpeed = math.Inf(-1) }, field: "spinSpeed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParameters()
			tt.mutate(&p)

			err := p.Validate()
			require.Error(t, err)
			assert.True(t, IsConfiguration(err))

			var gerr *Error
			require.True(t, errors.As(err, &gerr))
			assert.Equal(t, tt.field, gerr.Field)
		})
	}
}

func TestParameterSet_ValidateAllowsEdgeValues(t *testing.T) {
	p := DefaultParameters()
	p.Radius = 0
	p.Randomness = 0
	p.RandomnessPower = 0
	p.Branches = 1
	p.SpinSpeed = -25
	assert.NoError(t, p.Validate())
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("insideColor", "#ff0000")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", c.Hex())

	_, err = ParseColor("insideColor", "red")
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
	assert.Contains(t, err.Error(), "insideColor")
}

func TestErrorTypes(t *testing.T) {
	err := WrapResource("failed to create geometry", errGPU)
	assert.True(t, IsResource(err))
	assert.False(t, IsConfiguration(err))
	assert.ErrorIs(t, err, errGPU)
	assert.Equal(t, ErrorType(""), GetType(errGPU))
}
