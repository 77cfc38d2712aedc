package system

import (
	"slices"

	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/engine"
	"github.com/lixenwraith/siege/event"
	"github.com/lixenwraith/siege/parameter"
	"github.com/lixenwraith/siege/physics"
	"github.com/lixenwraith/siege/vmath"
)

// RadarSystem sweeps a box probe along each antenna and registers released balls as targets
// The target registry has this system as its only writer
type RadarSystem struct {
	world *engine.World

	// Ineligible targets collected during dispatch, removed in update
	ineligible []core.Entity

	enabled bool
}

func NewRadarSystem(world *engine.World) engine.System {
	s := &RadarSystem{
		world: world,
	}
	s.Init()
	return s
}

func (s *RadarSystem) Init() {
	s.ineligible = s.ineligible[:0]
	s.enabled = true
}

func (s *RadarSystem) Name() string {
	return "radar"
}

func (s *RadarSystem) Priority() int {
	return parameter.PriorityRadar
}

func (s *RadarSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventTargetIneligible,
		event.EventSystemCommand,
	}
}

func (s *RadarSystem) HandleEvent(ev event.GameEvent) {
	if ev.Type == event.EventSystemCommand {
		if payload, ok := ev.Payload.(*event.SystemCommandPayload); ok && payload.System == s.Name() {
			s.enabled = payload.Enabled
		}
		return
	}

	if !s.enabled {
		return
	}
	if payload, ok := ev.Payload.(*event.TargetPayload); ok {
		s.ineligible = append(s.ineligible, payload.Target)
	}
}

func (s *RadarSystem) Update() {
	if !s.enabled {
		return
	}

	w := s.world
	targets := w.Resources.Targets

	// Removal of an absent handle is a no-op
	for _, e := range s.ineligible {
		targets.Remove(e)
	}
	s.ineligible = s.ineligible[:0]

	if w.Resources.Game.Phase != component.PhaseGame {
		return
	}
	pw := w.Resources.Physics.World
	if pw == nil {
		return
	}

	radars := w.Components.Radar.GetAllEntities()
	slices.Sort(radars)

	for _, r := range radars {
		hit, ok := s.scan(pw, r)
		if !ok {
			continue
		}
		if !s.eligible(hit) {
			continue
		}
		if targets.Add(hit) {
			w.Resources.Log.Debug("target acquired", "radar", r, "target", hit)
			w.PushEvent(event.EventTargetAssigned, &event.TargetPayload{Target: hit})
		}
	}
}

// scan casts the probe of one radar, returning the owner of the nearest hit
func (s *RadarSystem) scan(pw physics.World, radar core.Entity) (core.Entity, bool) {
	c := &s.world.Components
	rc, ok := c.Radar.GetComponent(radar)
	if !ok {
		return core.NoEntity, false
	}
	antenna, ok := c.Transform.GetComponent(rc.Antenna)
	if !ok {
		return core.NoEntity, false
	}

	cfg := s.world.Resources.Config.Config.Radar
	fwd := antenna.Forward()
	hit, ok := pw.ShapeCast(physics.ShapeCastQuery{
		Origin:      vmath.V3FAddScaled(antenna.Position, fwd, cfg.ForwardOffset),
		Rotation:    antenna.Rotation,
		HalfExtents: vmath.V3FScale(cfg.ProbeSize.V(), 0.5),
		Direction:   fwd,
		MaxDistance: cfg.Range,
		Mask:        physics.LayerAttacker,
	})
	if !ok {
		return core.NoEntity, false
	}
	return hit.Owner, hit.Owner.Valid()
}

// eligible accepts released balls only
func (s *RadarSystem) eligible(e core.Entity) bool {
	c := &s.world.Components
	p, ok := c.Projectile.GetComponent(e)
	return ok && p.Kind == component.ProjectileBall && c.Released.HasEntity(e)
}
