package event

import (
	"time"

	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/vmath"
)

// RigPayload names a launcher entity
type RigPayload struct {
	Launcher core.Entity
}

// LaunchCommandPayload targets one launcher, NoEntity means every launcher
type LaunchCommandPayload struct {
	Launcher core.Entity
}

// LauncherStatePayload carries an FSM transition
type LauncherStatePayload struct {
	Launcher core.Entity
	From     component.LaunchState
	To       component.LaunchState
}

// ProjectileSpawnRequestPayload describes a projectile to create
// Zero Lifetime means no countdown and no target eligibility
type ProjectileSpawnRequestPayload struct {
	Kind      component.ProjectileKind
	Owner     core.Entity
	Position  vmath.Vec3F
	Direction vmath.Vec3F // Zero vector keeps identity rotation
	Impulse   vmath.Vec3F // Zero vector applies nothing
	Lifetime  time.Duration
}

// ProjectilePayload names a created projectile
type ProjectilePayload struct {
	Projectile core.Entity
	Kind       component.ProjectileKind
	Owner      core.Entity
}

// ProjectileReleasedPayload carries the ball a launcher let go
type ProjectileReleasedPayload struct {
	Launcher   core.Entity
	Projectile core.Entity
	Lifetime   time.Duration
}

// ProjectileDestroyedPayload reports removal cause
type ProjectileDestroyedPayload struct {
	Projectile core.Entity
	Kind       component.ProjectileKind
	Collided   bool // Countdown was forced by a collision
}

// CollisionEndedPayload is an unordered pair of entities
type CollisionEndedPayload struct {
	A core.Entity
	B core.Entity
}

// Other returns the partner of e in the pair, or NoEntity if e is not part of it
func (p *CollisionEndedPayload) Other(e core.Entity) core.Entity {
	switch e {
	case p.A:
		return p.B
	case p.B:
		return p.A
	default:
		return core.NoEntity
	}
}

// TargetPayload names a target projectile
type TargetPayload struct {
	Target core.Entity
}

// TurretFiredPayload reports a burst from one barrel
type TurretFiredPayload struct {
	Barrel core.Entity
	Target core.Entity
	Count  int
}

// GamePhasePayload carries the new phase
type GamePhasePayload struct {
	Phase component.GamePhase
}

// SystemCommandPayload switches a system; a disabled system drops events and skips updates
type SystemCommandPayload struct {
	System  string
	Enabled bool
}
