package component

import "time"

// LifetimeComponent counts down until the projectile is destroyed
type LifetimeComponent struct {
	Remaining time.Duration
	Forced    bool  // Zeroed by a collision rather than by age
	ForcedAt  int64 // Frame of the forcing, destruction waits for a later frame
}
