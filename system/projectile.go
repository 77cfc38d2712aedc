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

// ProjectileSystem owns the lifecycle of balls and bullets
// Spawns on request, counts lifetimes down and destroys on expiry
// A collision on a released projectile zeroes its countdown; destruction happens on a later tick
// A destroyed target leaves the registry in the same update, the ineligibility notice follows for the radar
type ProjectileSystem struct {
	world *engine.World

	enabled bool
}

func NewProjectileSystem(world *engine.World) engine.System {
	s := &ProjectileSystem{
		world: world,
	}
	s.Init()
	return s
}

func (s *ProjectileSystem) Init() {
	s.enabled = true
}

func (s *ProjectileSystem) Name() string {
	return "projectile"
}

func (s *ProjectileSystem) Priority() int {
	return parameter.PriorityProjectile
}

func (s *ProjectileSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventProjectileSpawnRequest,
		event.EventCollisionEnded,
		event.EventSystemCommand,
	}
}

func (s *ProjectileSystem) HandleEvent(ev event.GameEvent) {
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
	case event.EventProjectileSpawnRequest:
		if payload, ok := ev.Payload.(*event.ProjectileSpawnRequestPayload); ok {
			s.spawn(payload)
		}
	case event.EventCollisionEnded:
		if payload, ok := ev.Payload.(*event.CollisionEndedPayload); ok {
			s.force(payload.A, payload.B)
			s.force(payload.B, payload.A)
		}
	}
}

func (s *ProjectileSystem) Update() {
	if !s.enabled {
		return
	}

	w := s.world
	frame := w.Resources.Time.FrameNumber
	dt := w.Resources.Time.DeltaTime

	entities := w.Components.Lifetime.GetAllEntities()
	slices.Sort(entities)

	for _, e := range entities {
		lt, ok := w.Components.Lifetime.GetComponent(e)
		if !ok {
			continue
		}
		if lt.Forced && lt.ForcedAt == frame {
			continue
		}
		if lt.Remaining > 0 {
			lt.Remaining -= dt
			w.Components.Lifetime.SetComponent(e, lt)
		}
		if lt.Remaining <= 0 {
			s.destroy(e, lt.Forced)
		}
	}
}

// spawn creates a projectile immediately and returns its entity
func (s *ProjectileSystem) spawn(req *event.ProjectileSpawnRequestPayload) core.Entity {
	w := s.world
	cfg := w.Resources.Config.Config.Projectile

	var radius, density float64
	var layers, mask physics.Layer
	switch req.Kind {
	case component.ProjectileBall:
		radius, density = cfg.BallRadius, cfg.BallDensity
		layers, mask = physics.LayerAttacker, physics.LayerAll
	case component.ProjectileBullet:
		radius, density = cfg.BulletRadius, cfg.BulletDensity
		layers, mask = physics.LayerDefender, physics.LayerAttacker|physics.LayerEnv
	default:
		w.Resources.Log.Warn("unknown projectile kind", "kind", req.Kind, "owner", req.Owner)
		return core.NoEntity
	}

	rot := vmath.QuatIdentity
	if req.Direction != vmath.V3FZero {
		rot = vmath.QLookTo(vmath.V3FNormalize(req.Direction), vmath.V3FUnitY)
	}

	e := w.CreateEntity()
	w.Components.Projectile.SetComponent(e, component.ProjectileComponent{Kind: req.Kind, Owner: req.Owner})
	w.Components.Transform.SetComponent(e, component.TransformComponent{Position: req.Position, Rotation: rot})

	if pw := w.Resources.Physics.World; pw != nil {
		id := pw.CreateBody(physics.BodyDesc{
			Kind:        physics.Dynamic,
			Shape:       physics.Sphere(radius),
			Density:     density,
			Position:    req.Position,
			Rotation:    rot,
			Friction:    parameter.DefaultFriction,
			Restitution: parameter.DefaultRestitution,
			Layers:      layers,
			Mask:        mask,
			Owner:       e,
		})
		w.Components.Body.SetComponent(e, component.BodyComponent{Body: id})
		if req.Impulse != vmath.V3FZero {
			pw.ApplyImpulse(id, req.Impulse)
		}
	}

	if req.Lifetime > 0 {
		w.Components.Lifetime.SetComponent(e, component.LifetimeComponent{Remaining: req.Lifetime})
		w.Components.Released.SetComponent(e, component.ReleasedComponent{})
	}

	w.PushEvent(event.EventProjectileSpawned, &event.ProjectilePayload{
		Projectile: e,
		Kind:       req.Kind,
		Owner:      req.Owner,
	})
	return e
}

// force zeroes the countdown of a released projectile touched by other
// Contacts with the owning launcher's own rig are ignored
func (s *ProjectileSystem) force(e, other core.Entity) {
	c := &s.world.Components
	if !c.Released.HasEntity(e) {
		return
	}
	p, ok := c.Projectile.GetComponent(e)
	if !ok {
		return
	}
	if p.Owner.Valid() && s.partOf(other, p.Owner) {
		return
	}
	frame := s.world.Resources.Time.FrameNumber
	c.Lifetime.Mutate(e, func(lt *component.LifetimeComponent) {
		if lt.Forced {
			return
		}
		lt.Remaining = 0
		lt.Forced = true
		lt.ForcedAt = frame
	})
}

// partOf reports whether e is root or a descendant of it
func (s *ProjectileSystem) partOf(e, root core.Entity) bool {
	h := s.world.Components.Hierarchy
	for depth := 0; e.Valid() && depth < parameter.HierarchyMaxDepth; depth++ {
		if e == root {
			return true
		}
		node, ok := h.GetComponent(e)
		if !ok {
			return false
		}
		e = node.Parent
	}
	return false
}

func (s *ProjectileSystem) destroy(e core.Entity, collided bool) {
	w := s.world
	p, _ := w.Components.Projectile.GetComponent(e)
	released := w.Components.Released.HasEntity(e)

	w.DestroyEntity(e)
	if released {
		w.Resources.Targets.Remove(e)
	}

	w.PushEvent(event.EventProjectileDestroyed, &event.ProjectileDestroyedPayload{
		Projectile: e,
		Kind:       p.Kind,
		Collided:   collided,
	})
	if released {
		w.PushEvent(event.EventTargetIneligible, &event.TargetPayload{Target: e})
	}
}
