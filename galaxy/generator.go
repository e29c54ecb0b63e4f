package galaxy

import (
	"github.com/chewxy/math32"
)

// AttributeBuffers holds the per-star attribute arrays of one generated galaxy.
// Index i of every buffer describes the same star.
type AttributeBuffers struct {
	Positions  []float32 // xyz, 3 per star, jitter included
	Colors     []float32 // linear rgb, 3 per star
	Scales     []float32 // 1 per star, in [0, 1)
	Randomness []float32 // xyz jitter, 3 per star
}

// NewAttributeBuffers allocates zeroed buffers for n stars.
func NewAttributeBuffers(n int) *AttributeBuffers {
	return &AttributeBuffers{
		Positions:  make([]float32, 3*n),
		Colors:     make([]float32, 3*n),
		Scales:     make([]float32, n),
		Randomness: make([]float32, 3*n),
	}
}

// Count returns the number of stars held by the buffers.
func (b *AttributeBuffers) Count() int {
	return len(b.Scales)
}

// Generator produces a complete set of attribute buffers for a ParameterSet.
type Generator interface {
	Generate(params ParameterSet, count int) (*AttributeBuffers, error)
}

// GenerateAttributes computes the attribute buffers of count stars.
//
// Each star consumes exactly eight draws from src, in this order: radius, scale, then a magnitude and a sign
// for each of the x, y and z jitter axes. Branch membership is round-robin on the star index and never
// depends on src.
//
// Parameters:
//   - params: the galaxy parameters
//   - count: the number of stars to generate
//   - src: the random source the draws are taken from
//
// Returns:
//   - *AttributeBuffers: the generated buffers
//   - error: a configuration error if params or count are invalid
func GenerateAttributes(params ParameterSet, count int, src RandomSource) (*AttributeBuffers, error) {
	if err := checkGenerate(params, count); err != nil {
		return nil, err
	}
	buffers := NewAttributeBuffers(count)
	newStarShaper(params).fill(buffers, 0, count, src)
	return buffers, nil
}

func checkGenerate(params ParameterSet, count int) error {
	if count <= 0 {
		return Configurationf("starCount", "must be positive, got %d", count)
	}
	return params.Validate()
}

// starShaper holds the per-generation constants so the per-star loop only does per-star work.
type starShaper struct {
	radius        float32
	branches      int
	branchStep    float32
	randomness    float32
	power         float32
	concentration float32
	spin          float32
	from          [3]float32
	to            [3]float32
}

func newStarShaper(p ParameterSet) starShaper {
	inside := linearRGB(p.InsideColor.LinearRgb())
	outside := linearRGB(p.OutsideColor.LinearRgb())

	s := starShaper{
		radius:        float32(p.Radius),
		branches:      p.Branches,
		branchStep:    2 * math32.Pi / float32(p.Branches),
		randomness:    float32(p.Randomness),
		power:         float32(p.RandomnessPower),
		concentration: float32(p.Concentration),
		from:          outside,
		to:            inside,
	}
	if p.SpinMode == SpinBakedIn {
		s.spin = float32(p.SpinSpeed)
		s.from, s.to = inside, outside
	}
	return s
}

// fill writes stars [start, end) into b using draws from src.
func (s starShaper) fill(b *AttributeBuffers, start, end int, src RandomSource) {
	for i := start; i < end; i++ {
		i3 := i * 3

		r := s.radius
		if s.concentration == 1 {
			r *= float32(src.Next())
		} else {
			r *= math32.Pow(float32(src.Next()), s.concentration)
		}
		b.Scales[i] = float32(src.Next())

		angle := float32(i%s.branches)*s.branchStep + r*s.spin
		sin, cos := math32.Sincos(angle)

		jx := s.jitter(src) * r
		jy := s.jitter(src) * r * 0.5
		jz := s.jitter(src) * r

		b.Positions[i3] = cos*r + jx
		b.Positions[i3+1] = jy
		b.Positions[i3+2] = sin*r + jz

		b.Randomness[i3] = jx
		b.Randomness[i3+1] = jy
		b.Randomness[i3+2] = jz

		var t float32
		if s.radius > 0 {
			t = clamp01(r / s.radius)
		}
		for c := 0; c < 3; c++ {
			b.Colors[i3+c] = clamp01(s.from[c] + (s.to[c]-s.from[c])*t)
		}
	}
}

// jitter draws a signed magnitude scaled by the randomness factor.
func (s starShaper) jitter(src RandomSource) float32 {
	magnitude := math32.Pow(float32(src.Next()), s.power)
	sign := float32(-1)
	if src.Next() < 0.5 {
		sign = 1
	}
	return magnitude * sign * s.randomness
}

func linearRGB(r, g, b float64) [3]float32 {
	return [3]float32{float32(r), float32(g), float32(b)}
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}

// SequentialGenerator generates every star on the calling goroutine from a single source.
type SequentialGenerator struct {
	Source RandomSource
}

var _ Generator = &SequentialGenerator{}

// NewSequentialGenerator creates a generator drawing from src.
func NewSequentialGenerator(src RandomSource) *SequentialGenerator {
	return &SequentialGenerator{Source: src}
}

func (g *SequentialGenerator) Generate(params ParameterSet, count int) (*AttributeBuffers, error) {
	return GenerateAttributes(params, count, g.Source)
}
