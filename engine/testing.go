package engine

import (
	"github.com/lixenwraith/siege/config"
	"github.com/lixenwraith/siege/physics"
)

// NewTestWorld creates a world with default configuration, the given physics engine and random source
// A nil rnd keeps the seeded default
func NewTestWorld(pw physics.World, rnd RandomSource) *World {
	cfg := config.Default()
	w := NewWorld(&cfg)
	w.Resources.Physics.World = pw
	if rnd != nil {
		w.Resources.Rand = rnd
	}
	return w
}
