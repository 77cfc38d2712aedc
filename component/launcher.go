package component

import (
	"time"

	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/physics"
	"github.com/lixenwraith/siege/vmath"
)

// LaunchState is the launcher FSM state tag
type LaunchState uint8

const (
	LaunchIdle LaunchState = iota + 1
	LaunchTension
	LaunchArming
	LaunchLoose
)

func (s LaunchState) String() string {
	switch s {
	case LaunchIdle:
		return "Idle"
	case LaunchTension:
		return "Tension"
	case LaunchArming:
		return "Arming"
	case LaunchLoose:
		return "Loose"
	default:
		return "None"
	}
}

// LauncherParts holds handles of the rig, never ownership
type LauncherParts struct {
	Arm           core.Entity
	Pivot         core.Entity
	CounterWeight core.Entity
	Bar           core.Entity
	Lock          core.Entity
	Hills         []core.Entity

	// Built by the rig builder
	Sling      []core.Entity
	ReleaseEnd core.Entity
}

// Complete reports whether every required role is bound
func (p *LauncherParts) Complete() bool {
	return p.Arm.Valid() && p.Pivot.Valid() && p.CounterWeight.Valid() && p.Bar.Valid()
}

// LauncherComponent is the per-launcher controller state
// Link is present only in Tension, Arming and Loose; zero means absent
type LauncherComponent struct {
	State     LaunchState // Zero until the rig is built
	StateTime time.Duration

	Parts      LauncherParts
	Explored   bool
	PivotJoint physics.JointID
	Link       physics.JointID

	// Loader is the drop point above the release end at build pose, used when the end has no body
	Loader   vmath.Vec3F
	Carried  core.Entity   // Ball coupled to the release end during Loose
	BallWait time.Duration // Time since the Arming ball was requested

	// Reload is the sampled Idle duration, ReloadRemaining mirrors it for readers
	Reload          time.Duration
	ReloadRemaining time.Duration

	// LastTransitionFrame bounds transitions to one per tick
	LastTransitionFrame int64
	Launches            int
}

// NotReadyComponent marks an entity whose rig or sensor is not yet discovered and built
type NotReadyComponent struct {
	Reported bool // Incomplete asset already logged
}
