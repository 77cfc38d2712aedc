package engine

import (
	"math/rand/v2"
	"time"
)

// RandomSource is the single injectable random stream of the simulation
// Reload timers, turret jitter and release lifetimes all draw from it
type RandomSource interface {
	// Float64 returns a value in [0, 1)
	Float64() float64
}

// NewRandom returns a seeded PCG source
func NewRandom(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// FixedRand replays a fixed sequence, cycling when exhausted
// Empty sequence always yields 0
type FixedRand struct {
	Values []float64
	next   int
}

// NewFixedRand creates a sequence source
func NewFixedRand(values ...float64) *FixedRand {
	return &FixedRand{Values: values}
}

func (f *FixedRand) Float64() float64 {
	if len(f.Values) == 0 {
		return 0
	}
	v := f.Values[f.next%len(f.Values)]
	f.next++
	return v
}

// RandRange samples uniformly in [lo, hi)
func RandRange(r RandomSource, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// RandDuration samples uniformly in [lo, hi)
func RandDuration(r RandomSource, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(r.Float64()*float64(hi-lo))
}
