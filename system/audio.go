package system

import (
	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/engine"
	"github.com/lixenwraith/siege/event"
	"github.com/lixenwraith/siege/parameter"
)

// AudioSystem maps simulation events to sound cues
// Decouples simulation systems from direct player access; a missing player is silent
type AudioSystem struct {
	world *engine.World

	enabled bool
}

// NewAudioSystem creates an audio system playing through Resources.Audio
func NewAudioSystem(world *engine.World) engine.System {
	s := &AudioSystem{
		world: world,
	}
	s.Init()
	return s
}

// Init resets session state
func (s *AudioSystem) Init() {
	s.enabled = s.world.Resources.Config.Config.Audio.Enabled
}

func (s *AudioSystem) Name() string {
	return "audio"
}

// Priority returns the system's priority
func (s *AudioSystem) Priority() int {
	return parameter.PriorityAudio
}

// EventTypes returns the event types AudioSystem handles
func (s *AudioSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventLauncherStateChanged,
		event.EventProjectileReleased,
		event.EventProjectileDestroyed,
		event.EventTurretFired,
		event.EventSystemCommand,
	}
}

// HandleEvent plays the cue of an event, if any
func (s *AudioSystem) HandleEvent(ev event.GameEvent) {
	if ev.Type == event.EventSystemCommand {
		if payload, ok := ev.Payload.(*event.SystemCommandPayload); ok && payload.System == s.Name() {
			s.enabled = payload.Enabled
		}
		return
	}

	if !s.enabled {
		return
	}
	if cue, ok := cueFor(ev); ok {
		s.world.Resources.Audio.Play(cue)
	}
}

// Update implements System interface (no tick-based logic)
func (s *AudioSystem) Update() {}

// cueFor selects the cue of an event; only arm swings, releases, bursts and intercepts are audible
func cueFor(ev event.GameEvent) (core.SoundType, bool) {
	switch payload := ev.Payload.(type) {
	case *event.LauncherStatePayload:
		if payload.To == component.LaunchLoose {
			return core.SoundLaunch, true
		}
	case *event.ProjectileReleasedPayload:
		return core.SoundRelease, true
	case *event.TurretFiredPayload:
		return core.SoundBurst, true
	case *event.ProjectileDestroyedPayload:
		if payload.Kind == component.ProjectileBall && payload.Collided {
			return core.SoundImpact, true
		}
	}
	return 0, false
}
