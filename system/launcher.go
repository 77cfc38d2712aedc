package system

import (
	"fmt"
	"slices"

	"github.com/lixenwraith/siege/asset"
	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/engine"
	"github.com/lixenwraith/siege/engine/fsm"
	"github.com/lixenwraith/siege/event"
	"github.com/lixenwraith/siege/parameter"
)

// launcherCtx is the FSM context of one launcher for the duration of one evaluation
// l is a working copy written back after the machine returns
type launcherCtx struct {
	s      *LauncherSystem
	entity core.Entity
	l      *component.LauncherComponent
	ev     *event.GameEvent // Event being routed, nil on tick evaluation

	// ball is the engaged candidate found by the BallEngaged guard
	ball core.Entity
}

// LauncherSystem drives every built launcher through the shared launch cycle graph
// Events are buffered during dispatch and evaluated in the update phase with tick guards
// A launcher takes at most one transition per tick
type LauncherSystem struct {
	world *engine.World

	machine   *fsm.Machine[*launcherCtx]
	instances map[core.Entity]*fsm.Instance
	states    map[fsm.StateID]component.LaunchState

	pending []event.GameEvent
	started []core.Entity

	enabled bool
}

// NewLauncherSystem builds the system with the embedded launch cycle
// Panics if the embedded graph does not load
func NewLauncherSystem(world *engine.World) engine.System {
	s, err := NewLauncherSystemWithGraph(world, []byte(asset.DefaultLauncherFSMConfig))
	if err != nil {
		panic(fmt.Sprintf("launcher FSM: %v", err))
	}
	return s
}

// NewLauncherSystemWithGraph builds the system from a YAML graph
// The graph must name the Idle, Tension, Arming and Loose states
func NewLauncherSystemWithGraph(world *engine.World, graph []byte) (*LauncherSystem, error) {
	s := &LauncherSystem{
		world:     world,
		machine:   fsm.NewMachine[*launcherCtx](),
		instances: make(map[core.Entity]*fsm.Instance),
	}
	registerLauncherFSM(s.machine)
	if err := s.machine.LoadConfig(graph); err != nil {
		return nil, fmt.Errorf("load launch cycle: %w", err)
	}

	s.states = make(map[fsm.StateID]component.LaunchState, 4)
	for _, ls := range []component.LaunchState{
		component.LaunchIdle, component.LaunchTension, component.LaunchArming, component.LaunchLoose,
	} {
		id, ok := s.machine.GetStateID(ls.String())
		if !ok {
			return nil, fmt.Errorf("launch cycle missing state %s", ls)
		}
		s.states[id] = ls
	}

	s.Init()
	return s, nil
}

func (s *LauncherSystem) Init() {
	s.pending = s.pending[:0]
	s.started = s.started[:0]
	clear(s.instances)
	s.enabled = true
}

func (s *LauncherSystem) Name() string {
	return "launcher"
}

func (s *LauncherSystem) Priority() int {
	return parameter.PriorityLauncher
}

func (s *LauncherSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventRigBuilt,
		event.EventLaunchCommand,
		event.EventCollisionEnded,
		event.EventSystemCommand,
	}
}

func (s *LauncherSystem) HandleEvent(ev event.GameEvent) {
	if ev.Type == event.EventSystemCommand {
		if payload, ok := ev.Payload.(*event.SystemCommandPayload); ok && payload.System == s.Name() {
			s.enabled = payload.Enabled
		}
		return
	}

	if !s.enabled {
		return
	}

	switch ev.Type {
	case event.EventRigBuilt:
		if payload, ok := ev.Payload.(*event.RigPayload); ok {
			s.started = append(s.started, payload.Launcher)
		}
	default:
		s.pending = append(s.pending, ev)
	}
}

func (s *LauncherSystem) Update() {
	if !s.enabled {
		return
	}

	w := s.world
	frame := w.Resources.Time.FrameNumber
	dt := w.Resources.Time.DeltaTime

	for _, e := range s.started {
		s.start(e, frame)
	}
	s.started = s.started[:0]

	pending := s.pending
	s.pending = nil

	entities := w.Components.Launcher.GetAllEntities()
	slices.Sort(entities)

	for _, e := range entities {
		inst, ok := s.instances[e]
		if !ok {
			continue
		}
		l, ok := w.Components.Launcher.GetComponent(e)
		if !ok {
			continue
		}

		ctx := &launcherCtx{s: s, entity: e, l: &l}
		before := s.states[inst.ActiveStateID]

		if l.LastTransitionFrame != frame {
			fired := false
			for i := range pending {
				ctx.ev = &pending[i]
				if s.machine.HandleEvent(ctx, inst, pending[i].Type) {
					fired = true
					break
				}
			}
			ctx.ev = nil
			if !fired {
				fired = s.machine.Update(ctx, inst, dt)
			}
			if fired {
				s.commit(ctx, inst, before, frame)
			}
		}

		l.StateTime = inst.TimeInState
		if l.State == component.LaunchIdle {
			l.ReloadRemaining = max(0, l.Reload-inst.TimeInState)
		} else {
			l.ReloadRemaining = 0
		}
		w.Components.Launcher.SetComponent(e, l)
	}
}

// start enters Idle for a freshly built launcher; the start counts as the launcher's transition for this tick
func (s *LauncherSystem) start(e core.Entity, frame int64) {
	if _, ok := s.instances[e]; ok {
		return
	}
	l, ok := s.world.Components.Launcher.GetComponent(e)
	if !ok {
		return
	}

	inst := &fsm.Instance{}
	ctx := &launcherCtx{s: s, entity: e, l: &l}
	if err := s.machine.Start(ctx, inst); err != nil {
		s.world.Resources.Log.Error("launcher start failed", "launcher", e, "err", err)
		return
	}
	s.instances[e] = inst
	s.commit(ctx, inst, l.State, frame)
	s.world.Components.Launcher.SetComponent(e, l)
}

// commit records the new state and reports the transition
func (s *LauncherSystem) commit(ctx *launcherCtx, inst *fsm.Instance, from component.LaunchState, frame int64) {
	to := s.states[inst.ActiveStateID]
	ctx.l.State = to
	ctx.l.LastTransitionFrame = frame

	s.world.Resources.Log.Debug("launcher transition", "launcher", ctx.entity, "from", from, "to", to)
	s.world.PushEvent(event.EventLauncherStateChanged, &event.LauncherStatePayload{
		Launcher: ctx.entity,
		From:     from,
		To:       to,
	})
}

// State returns the FSM state of a launcher, LaunchState zero when not started
func (s *LauncherSystem) State(e core.Entity) component.LaunchState {
	inst, ok := s.instances[e]
	if !ok {
		return 0
	}
	return s.states[inst.ActiveStateID]
}
