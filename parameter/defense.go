package parameter

import "time"

// Radar probe
var RadarProbeSize = [3]float64{50, 100, 50}

const (
	RadarForwardOffset = 5.0
	RadarRange         = 150.0
)

// Layout around the fortress
const (
	RadarLateral  = 100.0
	RadarForward  = 100.0
	TurretInboard = 20.0
)

// Turret
const (
	TurretCooldown   = 500 * time.Millisecond
	TurretBurst      = 12
	TurretMuzzle     = 15.0 // Distance along barrel forward of the first bullet
	TurretSpacing    = 1.0  // Added per bullet in a burst
	TurretImpulse    = 1000.0
	TurretBulletLife = 2 * time.Second
	TurretSlewRate   = 50.0
	TurretJitter     = 0.2
	TurretAlignDot   = 0.95
)
