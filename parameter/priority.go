package parameter

// System execution priorities (lower runs first within the systems phase)
const (
	PriorityReadiness  = 5
	PriorityDiscovery  = 10
	PriorityRigBuilder = 20
	PriorityLauncher   = 30
	PriorityRadar      = 40
	PriorityTurret     = 50
	PriorityProjectile = 60
	PriorityTransform  = 80
	PriorityTelemetry  = 90
	PriorityAudio      = 95
)
