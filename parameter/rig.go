package parameter

// Arm
const (
	ArmLength   = 15.0
	ArmWidth    = 1.0
	ArmDensity  = 1.0
	PivotOffset = 0.3 // Fraction of ArmLength from centre to the pivot, toward the counterweight
)

// Counterweight
const (
	CounterWeightRadius  = 2.0
	CounterWeightHeight  = 4.0
	CounterWeightDensity = 10.0
	CounterWeightDrop    = 1.5 // Distance from joint to counterweight centre
)

// Sling
const (
	SlingLengthRatio = 0.8 // Fraction of ArmLength
	SlingSegments    = 4
	SlingThickness   = 0.1
	SlingDensity     = 50.0
	ReleaseEndRadius = 0.2
)

// Hill collider density and friction
const (
	HillFriction = 0.8
)
