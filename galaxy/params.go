package galaxy

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Pattern selects how a single star sprite is shaded in the fragment stage.
type Pattern int

const (
	PatternDisc Pattern = iota
	PatternDiffusePoint
	PatternLightPoint
)

func (p Pattern) String() string {
	switch p {
	case PatternDisc:
		return "Disc"
	case PatternDiffusePoint:
		return "Diffuse Point"
	case PatternLightPoint:
		return "Light Point"
	default:
		return "Unknown"
	}
}

// Valid reports whether p is one of the known patterns.
func (p Pattern) Valid() bool {
	return p >= PatternDisc && p <= PatternLightPoint
}

// SpinMode selects the animation strategy for the spiral arms.
//
// SpinUniformDriven leaves generated positions spin-free and rotates each star in the vertex stage by
// time*spinSpeed/distance. SpinBakedIn adds radius*spinSpeed to each star's angle during generation and
// reverses the color gradient direction.
type SpinMode int

const (
	SpinUniformDriven SpinMode = iota
	SpinBakedIn
)

func (m SpinMode) String() string {
	switch m {
	case SpinUniformDriven:
		return "Uniform Driven"
	case SpinBakedIn:
		return "Baked In"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is one of the known spin modes.
func (m SpinMode) Valid() bool {
	return m == SpinUniformDriven || m == SpinBakedIn
}

// ParameterSet is the galaxy's shape and appearance configuration.
// Every field is independently mutable and any change is a candidate regeneration trigger.
type ParameterSet struct {
	StarCount       int
	StarSize        float64
	Pattern         Pattern
	Radius          float64
	Branches        int
	Randomness      float64
	RandomnessPower float64
	InsideColor     colorful.Color
	OutsideColor    colorful.Color
	SpinSpeed       float64
	SpinMode        SpinMode

	// Concentration reshapes the radial distribution as radius * rand^Concentration.
	// A value of 1 gives a uniform radial sample.
	Concentration float64

	// RotationSpeed is a constant model rotation about the Y axis, in radians per second.
	RotationSpeed float64
}

// DefaultParameters returns the parameters of the structured galaxy.
func DefaultParameters() ParameterSet {
	return ParameterSet{
		StarCount:       100000,
		StarSize:        5,
		Pattern:         PatternDisc,
		Radius:          1.5,
		Branches:        5,
		Randomness:      0.3,
		RandomnessPower: 3,
		InsideColor:     mustHex("#1f33c7"),
		OutsideColor:    mustHex("#da281b"),
		SpinSpeed:       0.05,
		SpinMode:        SpinUniformDriven,
		Concentration:   1,
		RotationSpeed:   0,
	}
}

// FlatParameters returns the parameters of the flat galaxy variant, which bakes the spin into the star
// positions and slowly rotates the whole cloud.
func FlatParameters() ParameterSet {
	return ParameterSet{
		StarCount:       100000,
		StarSize:        2,
		Pattern:         PatternLightPoint,
		Radius:          0.35,
		Branches:        6,
		Randomness:      0.75,
		RandomnessPower: 3,
		InsideColor:     mustHex("#1f33c7"),
		OutsideColor:    mustHex("#da281b"),
		SpinSpeed:       -4.5,
		SpinMode:        SpinBakedIn,
		Concentration:   2,
		RotationSpeed:   0.0015,
	}
}

// Validate checks every field of the ParameterSet.
//
// Returns:
//   - error: a configuration error naming the first invalid field, or nil
func (p ParameterSet) Validate() error {
	if p.StarCount <= 0 {
		return Configurationf("starCount", "must be positive, got %d", p.StarCount)
	}
	if err := checkFinite("starSize", p.StarSize); err != nil {
		return err
	}
	if p.StarSize <= 0 {
		return Configurationf("starSize", "must be positive, got %g", p.StarSize)
	}
	if !p.Pattern.Valid() {
		return Configurationf("particlePattern", "unknown pattern %d", int(p.Pattern))
	}
	if err := checkFinite("radius", p.Radius); err != nil {
		return err
	}
	if p.Radius < 0 {
		return Configurationf("radius", "must not be negative, got %g", p.Radius)
	}
	if p.Branches < 1 {
		return Configurationf("branches", "must be at least 1, got %d", p.Branches)
	}
	if err := checkFinite("randomness", p.Randomness); err != nil {
		return err
	}
	if p.Randomness < 0 {
		return Configurationf("randomness", "must not be negative, got %g", p.Randomness)
	}
	if err := checkFinite("randomnessPower", p.RandomnessPower); err != nil {
		return err
	}
	if p.RandomnessPower < 0 {
		return Configurationf("randomnessPower", "must not be negative, got %g", p.RandomnessPower)
	}
	if err := checkFinite("concentration", p.Concentration); err != nil {
		return err
	}
	if p.Concentration <= 0 {
		return Configurationf("concentration", "must be positive, got %g", p.Concentration)
	}
	if !p.InsideColor.IsValid() {
		return Configurationf("insideColor", "channels out of range: %v", p.InsideColor)
	}
	if !p.OutsideColor.IsValid() {
		return Configurationf("outsideColor", "channels out of range: %v", p.OutsideColor)
	}
	if err := checkFinite("spinSpeed", p.SpinSpeed); err != nil {
		return err
	}
	if !p.SpinMode.Valid() {
		return Configurationf("spinMode", "unknown spin mode %d", int(p.SpinMode))
	}
	if err := checkFinite("rotationSpeed", p.RotationSpeed); err != nil {
		return err
	}
	return nil
}

// ParseColor parses a "#rrggbb" or "#rgb" string into a color.
//
// Parameters:
//   - field: the parameter name used in the returned error
//   - hex: the color string
//
// Returns:
//   - colorful.Color: the parsed color
//   - error: a configuration error if hex is not a hex color
func ParseColor(field, hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, &Error{
			Type:    ErrorTypeConfiguration,
			Field:   field,
			Message: "invalid hex color " + hex,
			Err:     err,
		}
	}
	return c, nil
}

func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Configurationf(field, "must be finite, got %g", v)
	}
	return nil
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
