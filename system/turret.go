package system

import (
	"slices"

	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/engine"
	"github.com/lixenwraith/siege/event"
	"github.com/lixenwraith/siege/parameter"
	"github.com/lixenwraith/siege/vmath"
)

// TurretSystem assigns targets to barrels, slews them with jittered tracking and fires bursts
// Each barrel holds at most one target; a target is given to at most one barrel
type TurretSystem struct {
	world *engine.World

	assigned   []core.Entity
	ineligible []core.Entity

	enabled bool
}

func NewTurretSystem(world *engine.World) engine.System {
	s := &TurretSystem{
		world: world,
	}
	s.Init()
	return s
}

func (s *TurretSystem) Init() {
	s.assigned = s.assigned[:0]
	s.ineligible = s.ineligible[:0]
	s.enabled = true
}

func (s *TurretSystem) Name() string {
	return "turret"
}

func (s *TurretSystem) Priority() int {
	return parameter.PriorityTurret
}

func (s *TurretSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventTargetAssigned,
		event.EventTargetIneligible,
		event.EventSystemCommand,
	}
}

func (s *TurretSystem) HandleEvent(ev event.GameEvent) {
	if ev.Type == event.EventSystemCommand {
		if payload, ok := ev.Payload.(*event.SystemCommandPayload); ok && payload.System == s.Name() {
			s.enabled = payload.Enabled
		}
		return
	}

	if !s.enabled {
		return
	}
	payload, ok := ev.Payload.(*event.TargetPayload)
	if !ok {
		return
	}
	switch ev.Type {
	case event.EventTargetAssigned:
		s.assigned = append(s.assigned, payload.Target)
	case event.EventTargetIneligible:
		s.ineligible = append(s.ineligible, payload.Target)
	}
}

func (s *TurretSystem) Update() {
	if !s.enabled {
		return
	}

	c := &s.world.Components
	barrels := c.Barrel.GetAllEntities()
	slices.Sort(barrels)

	for _, t := range s.ineligible {
		for _, b := range barrels {
			c.Barrel.Mutate(b, func(bc *component.BarrelComponent) {
				if bc.Target == t {
					bc.Target = core.NoEntity
					bc.Ready = false
				}
			})
		}
	}
	s.ineligible = s.ineligible[:0]

	for _, t := range s.assigned {
		s.assign(barrels, t)
	}
	s.assigned = s.assigned[:0]

	for _, b := range barrels {
		s.track(b)
	}
}

// assign hands target to the nearest barrel without a target, dropping it when none is free
func (s *TurretSystem) assign(barrels []core.Entity, target core.Entity) {
	c := &s.world.Components
	tt, ok := c.Transform.GetComponent(target)
	if !ok {
		return
	}

	best := core.NoEntity
	bestDist := 0.0
	for _, b := range barrels {
		bc, ok := c.Barrel.GetComponent(b)
		if !ok {
			continue
		}
		if bc.Target == target {
			return
		}
		if bc.Target.Valid() {
			continue
		}
		d := vmath.V3FDistSq(s.aimPoint(b), tt.Position)
		if !best.Valid() || d < bestDist {
			best, bestDist = b, d
		}
	}
	if !best.Valid() {
		s.world.Resources.Log.Debug("no free barrel", "target", target)
		return
	}

	c.Barrel.Mutate(best, func(bc *component.BarrelComponent) {
		bc.Target = target
		bc.Ready = false
	})
	s.world.Resources.Log.Debug("target assigned", "barrel", best, "target", target)
}

// aimPoint is the barrel's muzzle point
func (s *TurretSystem) aimPoint(b core.Entity) vmath.Vec3F {
	t, ok := s.world.Components.Transform.GetComponent(b)
	if !ok {
		return vmath.V3FZero
	}
	return vmath.V3FAddScaled(t.Position, t.Forward(), s.world.Resources.Config.Config.Turret.Muzzle)
}

// track slews one barrel toward its target and fires when aligned and cooled down
func (s *TurretSystem) track(b core.Entity) {
	w := s.world
	c := &w.Components
	bc, ok := c.Barrel.GetComponent(b)
	if !ok || !bc.Target.Valid() {
		return
	}
	bt, ok := c.Transform.GetComponent(b)
	if !ok {
		return
	}

	tt, ok := c.Transform.GetComponent(bc.Target)
	if !ok || !c.Released.HasEntity(bc.Target) {
		s.drop(b, &bc, "stale")
		return
	}

	rel := vmath.V3FSub(tt.Position, bt.Position)
	if rel.Y < 0 || vmath.V3FDot(rel, s.mountForward(bc.Turret, bt)) < 0 {
		s.drop(b, &bc, "envelope")
		return
	}

	cfg := w.Resources.Config.Config.Turret
	rnd := w.Resources.Rand
	j := cfg.Jitter
	jittered := vmath.V3F(
		rel.X*engine.RandRange(rnd, 1-j, 1+j),
		rel.Y*engine.RandRange(rnd, 1-j, 1+j),
		rel.Z*engine.RandRange(rnd, 1-j, 1+j),
	)
	bc.Aim = vmath.V3FAdd(bt.Position, jittered)

	dt := w.Resources.Time.DeltaTime.Seconds()
	desired := vmath.QLookTo(vmath.V3FNormalize(jittered), vmath.V3FUnitY)
	rot := vmath.QSlerp(bt.Rotation, desired, min(1, cfg.SlewRate*dt))
	bt.Rotation = rot
	c.Transform.SetComponent(b, bt)

	fwd := vmath.QForward(rot)
	bc.Ready = vmath.V3FDot(fwd, vmath.V3FNormalize(rel)) > cfg.AlignDot

	now := w.Resources.Time.Elapsed
	if bc.Ready && (!bc.HasFired || now-bc.LastFire >= cfg.Cooldown) {
		s.fire(b, &bc, bt.Position, fwd)
		bc.LastFire = now
		bc.HasFired = true
		bc.Bursts++
	}
	c.Barrel.SetComponent(b, bc)
}

// mountForward is the facing of the turret root, falling back to the barrel's own
func (s *TurretSystem) mountForward(turret core.Entity, barrel component.TransformComponent) vmath.Vec3F {
	if t, ok := s.world.Components.Transform.GetComponent(turret); ok {
		return t.Forward()
	}
	return barrel.Forward()
}

func (s *TurretSystem) drop(b core.Entity, bc *component.BarrelComponent, reason string) {
	s.world.Resources.Log.Debug("target dropped", "barrel", b, "target", bc.Target, "reason", reason)
	bc.Target = core.NoEntity
	bc.Ready = false
	s.world.Components.Barrel.SetComponent(b, *bc)
}

// fire requests one burst of bullets spread along the barrel axis
func (s *TurretSystem) fire(b core.Entity, bc *component.BarrelComponent, pos, fwd vmath.Vec3F) {
	w := s.world
	cfg := w.Resources.Config.Config.Turret
	impulse := vmath.V3FScale(fwd, cfg.Impulse)

	for i := range cfg.Burst {
		w.PushEvent(event.EventProjectileSpawnRequest, &event.ProjectileSpawnRequestPayload{
			Kind:      component.ProjectileBullet,
			Owner:     b,
			Position:  vmath.V3FAddScaled(pos, fwd, cfg.Muzzle+float64(i)*cfg.Spacing),
			Direction: fwd,
			Impulse:   impulse,
			Lifetime:  cfg.BulletLife,
		})
	}
	w.PushEvent(event.EventTurretFired, &event.TurretFiredPayload{
		Barrel: b,
		Target: bc.Target,
		Count:  cfg.Burst,
	})
}
