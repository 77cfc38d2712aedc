package component

import (
	"time"

	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/vmath"
)

// RadarComponent is a sensor whose probe origin and axis come from its antenna node
type RadarComponent struct {
	Antenna core.Entity
}

// TurretComponent groups the firing units discovered under a turret asset
type TurretComponent struct {
	Barrels []core.Entity
}

// BarrelComponent holds aim state of one firing unit
// A barrel holds at most one target
type BarrelComponent struct {
	Turret core.Entity

	Target core.Entity // NoEntity when unassigned
	Ready  bool        // Aligned with target within threshold
	Aim    vmath.Vec3F // Jittered aim point of the last update

	LastFire time.Duration // Session time of the last burst
	HasFired bool
	Bursts   int
}

// FieldComponent marks the defended structure
type FieldComponent struct{}
