package galaxy

import (
	"math/rand/v2"
	"time"
)

// RandomSource yields uniformly distributed values in [0, 1).
// Implementations are not required to be safe for concurrent use.
type RandomSource interface {
	Next() float64
}

type pcgSource struct {
	r *rand.Rand
}

var _ RandomSource = &pcgSource{}

// NewRandomSource creates a PCG-backed RandomSource.
// A seed of 0 seeds the source from the current time, so successive generations differ.
//
// Parameters:
//   - seed: the PCG seed, or 0 for a time-based seed
//
// Returns:
//   - RandomSource: the new source
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return newStreamSource(seed, 0)
}

func newStreamSource(seed, stream uint64) *pcgSource {
	return &pcgSource{r: rand.New(rand.NewPCG(seed, stream))}
}

func (s *pcgSource) Next() float64 {
	return s.r.Float64()
}

type sequenceSource struct {
	values []float64
	next   int
}

var _ RandomSource = &sequenceSource{}

// NewSequenceSource returns a RandomSource that replays values in order and wraps around when exhausted.
// It is meant for deterministic tests. Values outside [0, 1) are passed through unchanged.
//
// Parameters:
//   - values: the sequence to replay, must not be empty
//
// Returns:
//   - RandomSource: the replaying source
func NewSequenceSource(values ...float64) RandomSource {
	if len(values) == 0 {
		panic("galaxy: sequence source needs at least one value")
	}
	return &sequenceSource{values: values}
}

func (s *sequenceSource) Next() float64 {
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}
