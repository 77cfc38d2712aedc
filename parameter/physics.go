package parameter

// Reference engine integration
const (
	Gravity         = -9.81
	PhysicsSubsteps = 12
	GroundHeight    = 0.0

	// DefaultFriction and DefaultRestitution are the surface values of ordinary bodies
	DefaultFriction    = 0.5
	DefaultRestitution = 0.1

	// ContactSlop is the penetration tolerated before correction
	ContactSlop = 1e-3
)
