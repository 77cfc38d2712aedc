package parameter

import "time"

// Reload timer, uniform in [ReloadMin, ReloadMax)
const (
	ReloadMin = 5 * time.Second
	ReloadMax = 10 * time.Second
)

// Tension link
const (
	// LinkMinLength and LinkMaxLength are the initial distance limits of the Tension link
	LinkMinLength = 0.1
	LinkMaxLength = 20.0

	// LinkMaxFloor is where winching switches from limit shrink to anchor shrink
	LinkMaxFloor = 1.0

	// LinkLimitStep is the per-tick decrement of the upper limit
	LinkLimitStep = 0.05

	// LinkAnchorStep is the per-tick decrement of the bar anchor Z offset
	LinkAnchorStep = 0.05

	// ArmTiltThreshold is the height of the arm's long end below which Tension ends
	ArmTiltThreshold = 1.0
)

// LinkBarAnchor is the initial bar-local anchor of the Tension link
var LinkBarAnchor = [3]float64{0, 1, 8}

// Damping applied to the pivot joint
const (
	PivotDampingBuild   = 10.0
	PivotDampingTension = 1000.0
	PivotDampingRest    = 0.1
)

// Sling coupling during Loose
const (
	CoupleCompliance    = 1e-4
	CoupleLinearDamping = 100.0
)

// Release
const (
	// ReleaseDot is the dot(up) threshold of the release-end direction that unhooks the ball
	ReleaseDot = 0.99

	// ReleaseCenterHeight is the height above the launcher of the release reference point
	ReleaseCenterHeight = 5.0

	ReleaseLifetimeMin = 15 * time.Second
	ReleaseLifetimeMax = 20 * time.Second
)

// Ball loading
var (
	// BallDropNudge is the launcher-local offset of the drop point from the release end
	// Off-centre so the ball rolls off the frictionless end instead of resting on it
	BallDropNudge = [3]float64{0.35, 0, 0}
)

const (
	// BallDropHeight is the gap between the dropped ball and the release end
	BallDropHeight = 1.0

	// ArmingRetry is how long Arming waits for engagement before replacing the ball
	ArmingRetry = 4 * time.Second
)
