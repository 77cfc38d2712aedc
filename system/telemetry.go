package system

import (
	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/engine"
	"github.com/lixenwraith/siege/event"
	"github.com/lixenwraith/siege/parameter"
)

// TelemetrySystem is the only writer of session stats and feeds the metrics sink
type TelemetrySystem struct {
	world *engine.World

	enabled bool
}

func NewTelemetrySystem(world *engine.World) engine.System {
	s := &TelemetrySystem{
		world: world,
	}
	s.Init()
	return s
}

func (s *TelemetrySystem) Init() {
	*s.world.Resources.Stats = engine.StatsResource{}
	s.enabled = true
}

func (s *TelemetrySystem) Name() string {
	return "telemetry"
}

func (s *TelemetrySystem) Priority() int {
	return parameter.PriorityTelemetry
}

func (s *TelemetrySystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventRigBuilt,
		event.EventLauncherStateChanged,
		event.EventProjectileSpawned,
		event.EventProjectileReleased,
		event.EventProjectileDestroyed,
		event.EventTurretFired,
		event.EventGamePhaseChanged,
		event.EventSystemCommand,
	}
}

func (s *TelemetrySystem) HandleEvent(ev event.GameEvent) {
	if ev.Type == event.EventSystemCommand {
		if payload, ok := ev.Payload.(*event.SystemCommandPayload); ok && payload.System == s.Name() {
			s.enabled = payload.Enabled
		}
		return
	}

	if !s.enabled {
		return
	}

	res := &s.world.Resources
	stats := res.Stats
	sink := res.Metrics

	switch payload := ev.Payload.(type) {
	case *event.RigPayload:
		res.Log.Debug("rig ready", "launcher", payload.Launcher, "frame", ev.Frame)

	case *event.LauncherStatePayload:
		if payload.To == component.LaunchTension {
			stats.Launches++
		}
		if sink.Enabled() {
			sink.Sink.LauncherTransition(payload.From, payload.To)
		}

	case *event.ProjectilePayload:
		switch payload.Kind {
		case component.ProjectileBall:
			stats.BallsSpawned++
		case component.ProjectileBullet:
			stats.BulletsSpawned++
		}
		if sink.Enabled() {
			sink.Sink.ProjectileSpawned(payload.Kind)
		}

	case *event.ProjectileReleasedPayload:
		stats.Releases++

	case *event.ProjectileDestroyedPayload:
		if payload.Kind == component.ProjectileBall {
			if payload.Collided {
				stats.Intercepts++
			} else {
				stats.Expired++
			}
		}
		if sink.Enabled() {
			sink.Sink.ProjectileDestroyed(payload.Kind, payload.Collided)
		}

	case *event.TurretFiredPayload:
		stats.Bursts++
		if sink.Enabled() {
			sink.Sink.TurretFired(payload.Count)
		}

	case *event.GamePhasePayload:
		res.Log.Debug("phase changed", "phase", payload.Phase, "frame", ev.Frame)
	}
}

func (s *TelemetrySystem) Update() {
	if !s.enabled {
		return
	}
	res := &s.world.Resources
	if res.Metrics.Enabled() {
		res.Metrics.Sink.SetLive(s.world.Components.Projectile.CountEntities(), res.Targets.Len())
	}
}
