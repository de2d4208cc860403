// Package random provides the seedable randomness shared by geometry detail
// choices and debris generation.
package random

import "math/rand/v2"

// Source yields uniformly distributed values in [0, 1).
type Source interface {
	Float64() float64
}

// New returns a PCG-backed source. Equal seeds replay identical sequences.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Range returns a value in [lo, hi).
func Range(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Symmetric returns a value in [-amp, amp).
func Symmetric(src Source, amp float64) float64 {
	return Range(src, -amp, amp)
}

// Chance reports true with probability p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Scripted replays a fixed list of values, cycling when exhausted.
// An empty script always yields 0.
type Scripted struct {
	Values []float64
	pos    int
}

// Float64 implements Source.
func (s *Scripted) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.pos%len(s.Values)]
	s.pos++
	return v
}

// Constant always yields the same value.
type Constant float64

// Float64 implements Source.
func (c Constant) Float64() float64 { return float64(c) }
