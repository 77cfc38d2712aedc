package system

import (
	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/engine"
	"github.com/lixenwraith/siege/event"
	"github.com/lixenwraith/siege/parameter"
)

// TransformSyncSystem copies integrated body poses into transforms after each physics step
type TransformSyncSystem struct {
	world *engine.World

	enabled bool
}

func NewTransformSyncSystem(world *engine.World) engine.System {
	s := &TransformSyncSystem{
		world: world,
	}
	s.Init()
	return s
}

func (s *TransformSyncSystem) Init() {
	s.enabled = true
}

func (s *TransformSyncSystem) Name() string {
	return "transformsync"
}

func (s *TransformSyncSystem) Priority() int {
	return parameter.PriorityTransform
}

func (s *TransformSyncSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventSystemCommand,
	}
}

func (s *TransformSyncSystem) HandleEvent(ev event.GameEvent) {
	if ev.Type == event.EventSystemCommand {
		if payload, ok := ev.Payload.(*event.SystemCommandPayload); ok && payload.System == s.Name() {
			s.enabled = payload.Enabled
		}
		return
	}
}

func (s *TransformSyncSystem) Update() {}

// PostStep runs after the physics step of every tick
func (s *TransformSyncSystem) PostStep() {
	if !s.enabled {
		return
	}
	pw := s.world.Resources.Physics.World
	if pw == nil {
		return
	}

	c := &s.world.Components
	for _, e := range c.Body.GetAllEntities() {
		b, ok := c.Body.GetComponent(e)
		if !ok {
			continue
		}
		state, ok := pw.Body(b.Body)
		if !ok {
			continue
		}
		c.Transform.SetComponent(e, component.TransformComponent{Position: state.Position, Rotation: state.Rotation})
	}
}
