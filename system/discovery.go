package system

import (
	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/engine"
	"github.com/lixenwraith/siege/event"
	"github.com/lixenwraith/siege/parameter"
)

// DiscoverySystem binds tagged scene nodes to typed roles under each not-ready asset root
// Polls every tick so assets whose hierarchy completes late are picked up
// Launchers stay NotReady until the rig builder runs; sensors, turrets and the field are ready once bound
type DiscoverySystem struct {
	world *engine.World

	enabled bool
}

func NewDiscoverySystem(world *engine.World) engine.System {
	s := &DiscoverySystem{
		world: world,
	}
	s.Init()
	return s
}

func (s *DiscoverySystem) Init() {
	s.enabled = true
}

func (s *DiscoverySystem) Name() string {
	return "discovery"
}

func (s *DiscoverySystem) Priority() int {
	return parameter.PriorityDiscovery
}

func (s *DiscoverySystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventSystemCommand,
	}
}

func (s *DiscoverySystem) HandleEvent(ev event.GameEvent) {
	if ev.Type == event.EventSystemCommand {
		if payload, ok := ev.Payload.(*event.SystemCommandPayload); ok && payload.System == s.Name() {
			s.enabled = payload.Enabled
		}
		return
	}
}

func (s *DiscoverySystem) Update() {
	if !s.enabled {
		return
	}

	c := &s.world.Components
	for _, root := range c.NotReady.GetAllEntities() {
		switch {
		case c.Launcher.HasEntity(root):
			s.discoverLauncher(root)
		case c.Radar.HasEntity(root):
			s.discoverRadar(root)
		case c.Turret.HasEntity(root):
			s.discoverTurret(root)
		case c.Field.HasEntity(root):
			s.discoverField(root)
		}
	}
}

// walk visits descendants of root depth-first, pre-order, calling fn for each tagged node
// Stale child handles are skipped
func (s *DiscoverySystem) walk(root core.Entity, fn func(e core.Entity, role component.Role)) {
	c := &s.world.Components
	stack := []core.Entity{root}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if e != root {
			if tag, ok := c.Tag.GetComponent(e); ok {
				if role, ok := component.RoleFromTag(tag.Tag); ok {
					fn(e, role)
				}
			}
		}

		h, ok := c.Hierarchy.GetComponent(e)
		if !ok {
			continue
		}
		// Push in reverse so the first child is visited first
		for i := len(h.Children) - 1; i >= 0; i-- {
			stack = append(stack, h.Children[i])
		}
	}
}

func (s *DiscoverySystem) mark(e core.Entity, role component.Role) {
	s.world.Components.Role.SetComponent(e, component.RoleComponent{Role: role})
}

func (s *DiscoverySystem) discoverLauncher(root core.Entity) {
	c := &s.world.Components
	l, ok := c.Launcher.GetComponent(root)
	if !ok || l.Explored {
		return
	}

	var parts component.LauncherParts
	s.walk(root, func(e core.Entity, role component.Role) {
		bind := func(slot *core.Entity) {
			if !slot.Valid() {
				*slot = e
				s.mark(e, role)
			}
		}
		switch role {
		case component.RoleArm:
			bind(&parts.Arm)
		case component.RolePivot:
			bind(&parts.Pivot)
		case component.RoleCounterWeight:
			bind(&parts.CounterWeight)
		case component.RoleBar:
			bind(&parts.Bar)
		case component.RoleLock:
			bind(&parts.Lock)
		case component.RoleHill:
			parts.Hills = append(parts.Hills, e)
			s.mark(e, role)
		}
	})

	if !parts.Complete() {
		s.reportIncomplete(root, "launcher",
			"arm", parts.Arm.Valid(),
			"pivot", parts.Pivot.Valid(),
			"counterweight", parts.CounterWeight.Valid(),
			"bar", parts.Bar.Valid(),
		)
		return
	}

	c.Launcher.Mutate(root, func(l *component.LauncherComponent) {
		l.Parts = parts
		l.Explored = true
	})
	s.world.Resources.Log.Debug("launcher explored", "launcher", root, "hills", len(parts.Hills))
	s.world.PushEvent(event.EventRigExplored, &event.RigPayload{Launcher: root})
}

func (s *DiscoverySystem) discoverRadar(root core.Entity) {
	var antenna core.Entity
	s.walk(root, func(e core.Entity, role component.Role) {
		if role == component.RoleAntenna && !antenna.Valid() {
			antenna = e
			s.mark(e, role)
		}
	})
	if !antenna.Valid() {
		s.reportIncomplete(root, "radar", "antenna", false)
		return
	}

	c := &s.world.Components
	c.Radar.SetComponent(root, component.RadarComponent{Antenna: antenna})
	c.NotReady.RemoveEntity(root)
	s.world.Resources.Log.Debug("radar ready", "radar", root, "antenna", antenna)
}

func (s *DiscoverySystem) discoverTurret(root core.Entity) {
	c := &s.world.Components
	var barrels []core.Entity
	s.walk(root, func(e core.Entity, role component.Role) {
		if role == component.RoleBarrel {
			barrels = append(barrels, e)
			s.mark(e, role)
		}
	})
	if len(barrels) == 0 {
		s.reportIncomplete(root, "turret", "barrels", false)
		return
	}

	for _, b := range barrels {
		c.Barrel.SetComponent(b, component.BarrelComponent{Turret: root})
	}
	c.Turret.SetComponent(root, component.TurretComponent{Barrels: barrels})
	c.NotReady.RemoveEntity(root)
	s.world.Resources.Log.Debug("turret ready", "turret", root, "barrels", len(barrels))
}

func (s *DiscoverySystem) discoverField(root core.Entity) {
	var target core.Entity
	s.walk(root, func(e core.Entity, role component.Role) {
		if role == component.RoleFieldTarget && !target.Valid() {
			target = e
			s.mark(e, role)
		}
	})
	if !target.Valid() {
		s.reportIncomplete(root, "field", "target", false)
		return
	}

	c := &s.world.Components
	t, ok := c.Transform.GetComponent(target)
	if !ok {
		return
	}
	s.world.Resources.Fortress.Position = t.Position
	s.world.Resources.Fortress.Set = true
	c.NotReady.RemoveEntity(root)
	s.world.Resources.Log.Debug("field ready", "field", root, "position", t.Position)
}

// reportIncomplete logs a stalled asset once; it stays NotReady
func (s *DiscoverySystem) reportIncomplete(root core.Entity, kind string, found ...any) {
	s.world.Components.NotReady.Mutate(root, func(nr *component.NotReadyComponent) {
		if nr.Reported {
			return
		}
		nr.Reported = true
		args := append([]any{"kind", kind, "entity", root}, found...)
		s.world.Resources.Log.Warn("incomplete asset", args...)
	})
}
