package event

// EventType represents the type of simulation event
type EventType int

const (
	// EventTick is reserved for FSM auto-transitions and is never pushed
	EventTick EventType = iota

	// === Rig Events ===

	// EventRigExplored signals that every required part of a launcher was bound
	// Trigger: DiscoverySystem, once per launcher
	// Consumer: RigBuilderSystem | Payload: *RigPayload
	EventRigExplored

	// EventRigBuilt signals that bodies and joints of a launcher exist
	// Trigger: RigBuilderSystem
	// Consumer: LauncherSystem, TelemetrySystem | Payload: *RigPayload
	EventRigBuilt

	// === Launcher Events ===

	// EventLaunchCommand forces an idle launcher into Tension
	// Trigger: viewer key, HTTP API
	// Consumer: LauncherSystem | Payload: *LaunchCommandPayload
	EventLaunchCommand

	// EventLauncherStateChanged reports a launcher FSM transition
	// Trigger: LauncherSystem
	// Consumer: AudioSystem, TelemetrySystem | Payload: *LauncherStatePayload
	EventLauncherStateChanged

	// === Projectile Events ===

	// EventProjectileSpawnRequest asks for a ball or bullet
	// Trigger: LauncherSystem (Arming), TurretSystem (burst)
	// Consumer: ProjectileSystem | Payload: *ProjectileSpawnRequestPayload
	EventProjectileSpawnRequest

	// EventProjectileSpawned reports a created projectile
	// Trigger: ProjectileSystem
	// Consumer: TelemetrySystem | Payload: *ProjectilePayload
	EventProjectileSpawned

	// EventProjectileReleased reports a ball unhooked from the sling
	// Trigger: LauncherSystem (Loose exit)
	// Consumer: AudioSystem, TelemetrySystem | Payload: *ProjectileReleasedPayload
	EventProjectileReleased

	// EventProjectileDestroyed reports a projectile removed by timeout or collision
	// Trigger: ProjectileSystem
	// Consumer: AudioSystem, TelemetrySystem | Payload: *ProjectileDestroyedPayload
	EventProjectileDestroyed

	// === Physics Events ===

	// EventCollisionEnded carries a pair whose contact ended during the last physics step
	// Trigger: Clock after physics step
	// Consumer: LauncherSystem, ProjectileSystem | Payload: *CollisionEndedPayload
	EventCollisionEnded

	// === Defense Events ===

	// EventTargetAssigned broadcasts a newly registered target
	// Trigger: RadarSystem
	// Consumer: TurretSystem | Payload: *TargetPayload
	EventTargetAssigned

	// EventTargetIneligible signals that a target lost its eligibility marker
	// Trigger: ProjectileSystem
	// Consumer: RadarSystem (registry removal), TurretSystem | Payload: *TargetPayload
	EventTargetIneligible

	// EventTurretFired reports a burst
	// Trigger: TurretSystem
	// Consumer: AudioSystem, TelemetrySystem | Payload: *TurretFiredPayload
	EventTurretFired

	// === Session Events ===

	// EventGamePhaseChanged reports the Loading to Game switch
	// Trigger: ReadinessSystem
	// Consumer: TelemetrySystem | Payload: *GamePhasePayload
	EventGamePhaseChanged

	// EventSystemCommand enables or disables one system by name
	// Trigger: viewer, HTTP API
	// Consumer: every system | Payload: *SystemCommandPayload
	EventSystemCommand
)

// GameEvent represents a single queued event
type GameEvent struct {
	Type    EventType
	Payload any
	Frame   int64 // Tick that produced the event
}
