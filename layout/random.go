package layout

import "math/rand"

// RandomSource yields uniformly-distributed addresses for the random region
// search. The real source is the platform entropy generator; this interface
// exists so boot code can be driven by whatever the platform provides.
type RandomSource interface {
	// GenerateRandomRange returns a uniformly-distributed value in the closed
	// interval [low, high].
	GenerateRandomRange(low, high uintptr) uintptr
}

// UniformRandomSource is a deterministic, seedable RandomSource. It is not a
// platform entropy source; it exists for hosted testing and simulation of the
// boot sequence.
type UniformRandomSource struct {
	rng *rand.Rand
}

func NewUniformRandomSource(seed int64) *UniformRandomSource {
	return &UniformRandomSource{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (s *UniformRandomSource) GenerateRandomRange(low, high uintptr) uintptr {
	span := uint64(high - low + 1)
	if span == 0 {
		// The interval covers the whole address width.
		return uintptr(s.rng.Uint64())
	}

	return low + uintptr(s.rng.Uint64()%span)
}
