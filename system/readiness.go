package system

import (
	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/engine"
	"github.com/lixenwraith/siege/event"
	"github.com/lixenwraith/siege/parameter"
)

// ReadinessSystem is the cooperative loading barrier
// Loading ends when no NotReady marker remains or the loading timeout elapses
type ReadinessSystem struct {
	world *engine.World

	enabled bool
}

func NewReadinessSystem(world *engine.World) engine.System {
	s := &ReadinessSystem{
		world: world,
	}
	s.Init()
	return s
}

func (s *ReadinessSystem) Init() {
	s.enabled = true
}

func (s *ReadinessSystem) Name() string {
	return "readiness"
}

func (s *ReadinessSystem) Priority() int {
	return parameter.PriorityReadiness
}

func (s *ReadinessSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventSystemCommand,
	}
}

func (s *ReadinessSystem) HandleEvent(ev event.GameEvent) {
	if ev.Type == event.EventSystemCommand {
		if payload, ok := ev.Payload.(*event.SystemCommandPayload); ok && payload.System == s.Name() {
			s.enabled = payload.Enabled
		}
		return
	}
}

func (s *ReadinessSystem) Update() {
	if !s.enabled {
		return
	}

	res := &s.world.Resources
	if res.Game.Phase != component.PhaseLoading {
		return
	}

	stalled := s.world.Components.NotReady.GetAllEntities()
	timedOut := res.Time.Elapsed >= res.Config.Config.Sim.LoadingTimeout
	if len(stalled) > 0 && !timedOut {
		return
	}
	for _, e := range stalled {
		res.Log.Warn("entity never became ready", "entity", e)
	}

	res.Game.Phase = component.PhaseGame
	res.Game.PhaseSince = res.Time.Elapsed
	res.Log.Info("game phase", "phase", res.Game.Phase, "stalled", len(stalled), "elapsed", res.Time.Elapsed)
	s.world.PushEvent(event.EventGamePhaseChanged, &event.GamePhasePayload{Phase: component.PhaseGame})
}
