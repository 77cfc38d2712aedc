package system

import (
	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/config"
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/engine"
	"github.com/lixenwraith/siege/event"
	"github.com/lixenwraith/siege/parameter"
	"github.com/lixenwraith/siege/physics"
	"github.com/lixenwraith/siege/vmath"
)

// Rig collision filter: environment bodies touch balls and terrain, never bullets
const (
	rigLayers = physics.LayerEnv
	rigMask   = physics.LayerAttacker | physics.LayerEnv
)

// RigBuilderSystem attaches bodies and joints to an explored launcher exactly once
// Triggered by the explored edge, never polled
type RigBuilderSystem struct {
	world *engine.World

	// skipped holds launchers whose build was refused, each reported once
	skipped map[core.Entity]bool

	enabled bool
}

func NewRigBuilderSystem(world *engine.World) engine.System {
	s := &RigBuilderSystem{
		world:   world,
		skipped: make(map[core.Entity]bool),
	}
	s.Init()
	return s
}

func (s *RigBuilderSystem) Init() {
	clear(s.skipped)
	s.enabled = true
}

func (s *RigBuilderSystem) Name() string {
	return "rigbuilder"
}

func (s *RigBuilderSystem) Priority() int {
	return parameter.PriorityRigBuilder
}

func (s *RigBuilderSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventRigExplored,
		event.EventSystemCommand,
	}
}

func (s *RigBuilderSystem) HandleEvent(ev event.GameEvent) {
	if ev.Type == event.EventSystemCommand {
		if payload, ok := ev.Payload.(*event.SystemCommandPayload); ok && payload.System == s.Name() {
			s.enabled = payload.Enabled
		}
		return
	}

	if !s.enabled {
		return
	}
	if payload, ok := ev.Payload.(*event.RigPayload); ok {
		s.build(payload.Launcher)
	}
}

func (s *RigBuilderSystem) Update() {}

// build creates the rig; a launcher that already has a release end is left untouched
func (s *RigBuilderSystem) build(root core.Entity) {
	w := s.world
	pw := w.Resources.Physics.World
	if pw == nil {
		s.skip(root, "no physics world")
		return
	}
	l, ok := w.Components.Launcher.GetComponent(root)
	if !ok {
		s.skip(root, "not a launcher")
		return
	}
	if l.Parts.ReleaseEnd.Valid() {
		return
	}
	if !l.Explored {
		s.skip(root, "not explored")
		return
	}
	rootT, ok := w.Components.Transform.GetComponent(root)
	if !ok {
		s.skip(root, "launcher has no transform")
		return
	}
	pivotT, ok := w.Components.Transform.GetComponent(l.Parts.Pivot)
	if !ok {
		s.skip(root, "pivot has no transform")
		return
	}
	armT, ok := w.Components.Transform.GetComponent(l.Parts.Arm)
	if !ok {
		s.skip(root, "arm has no transform")
		return
	}

	cfg := w.Resources.Config.Config
	rig := cfg.Rig
	group := uint32(root)
	up := vmath.V3FUnitY
	half := rig.ArmLength / 2

	// Arm pose derives from the pivot and the authored arm orientation
	pivotOffset := rig.ArmLength * rig.PivotOffset
	armRot := armT.Rotation
	armPos := vmath.V3FAdd(pivotT.Position, vmath.QRotate(armRot, vmath.V3F(0, 0, pivotOffset)))
	shortEnd := vmath.V3FAdd(armPos, vmath.QRotate(armRot, vmath.V3F(0, 0, -half)))
	tip := vmath.V3FAdd(armPos, vmath.QRotate(armRot, vmath.V3F(0, 0, half)))

	pivotBody := s.attach(l.Parts.Pivot, physics.BodyDesc{
		Kind:     physics.Static,
		Shape:    physics.Box(s.size(l.Parts.Pivot)),
		Position: pivotT.Position,
		Rotation: pivotT.Rotation,
	}, group)

	armBody := s.attach(l.Parts.Arm, physics.BodyDesc{
		Kind:     physics.Dynamic,
		Shape:    physics.Box(vmath.V3F(rig.ArmWidth, rig.ArmWidth, rig.ArmLength)),
		Density:  rig.ArmDensity,
		Position: armPos,
		Rotation: armRot,
	}, group)

	cwPos := vmath.V3FAddScaled(shortEnd, up, -rig.CounterWeightDrop)
	cwBody := s.attach(l.Parts.CounterWeight, physics.BodyDesc{
		Kind:     physics.Dynamic,
		Shape:    physics.Cylinder(rig.CounterWeightRadius, rig.CounterWeightHeight),
		Density:  rig.CounterWeightDensity,
		Position: cwPos,
		Rotation: rootT.Rotation,
	}, group)

	if barT, ok := w.Components.Transform.GetComponent(l.Parts.Bar); ok {
		s.attach(l.Parts.Bar, physics.BodyDesc{
			Kind:     physics.Static,
			Shape:    physics.Box(s.size(l.Parts.Bar)),
			Position: barT.Position,
			Rotation: barT.Rotation,
		}, group)
	}

	for _, hill := range l.Parts.Hills {
		ht, ok := w.Components.Transform.GetComponent(hill)
		if !ok {
			continue
		}
		id := pw.CreateBody(physics.BodyDesc{
			Kind:     physics.Static,
			Shape:    physics.Box(s.size(hill)),
			Position: ht.Position,
			Rotation: ht.Rotation,
			Friction: parameter.HillFriction,
			Layers:   physics.LayerEnv,
			Mask:     physics.LayerAll,
			Owner:    hill,
		})
		w.Components.Body.SetComponent(hill, component.BodyComponent{Body: id})
	}

	pivotJoint := pw.CreateJoint(physics.JointDesc{
		Kind:           physics.Revolute,
		A:              pivotBody,
		B:              armBody,
		AnchorB:        vmath.V3F(0, 0, -pivotOffset),
		Axis:           vmath.V3FUnitX,
		AngularDamping: cfg.Launcher.PivotDampingBuild,
	})
	pw.CreateJoint(physics.JointDesc{
		Kind:    physics.Revolute,
		A:       armBody,
		B:       cwBody,
		AnchorA: vmath.V3F(0, 0, -half),
		AnchorB: vmath.V3F(0, rig.CounterWeightDrop, 0),
		Axis:    vmath.V3FUnitX,
	})

	if lockT, ok := w.Components.Transform.GetComponent(l.Parts.Lock); ok {
		s.attach(l.Parts.Lock, physics.BodyDesc{
			Kind:     physics.Static,
			Shape:    physics.Box(s.size(l.Parts.Lock)),
			Position: lockT.Position,
			Rotation: lockT.Rotation,
		}, group)
	}

	sling, releaseEnd := s.buildSling(root, armBody, tip, rootT.Rotation, group)

	w.Components.Launcher.Mutate(root, func(l *component.LauncherComponent) {
		l.PivotJoint = pivotJoint
		l.Parts.Sling = sling
		l.Parts.ReleaseEnd = releaseEnd
		if et, ok := w.Components.Transform.GetComponent(releaseEnd); ok {
			l.Loader = ballDropPoint(cfg, et.Position, rootT.Rotation)
		}
	})
	w.Components.NotReady.RemoveEntity(root)

	w.Resources.Log.Info("rig built", "launcher", root, "segments", len(sling))
	w.PushEvent(event.EventRigBuilt, &event.RigPayload{Launcher: root})
}

// skip reports a refused build once per launcher; the launcher stays NotReady
func (s *RigBuilderSystem) skip(root core.Entity, reason string) {
	if s.skipped[root] {
		return
	}
	s.skipped[root] = true
	s.world.Resources.Log.Warn("rig build skipped", "launcher", root, "reason", reason)
}

// buildSling hangs N segments below the arm tip, chained by ball joints, ending in the release end
func (s *RigBuilderSystem) buildSling(root core.Entity, arm physics.BodyID, tip vmath.Vec3F, rot vmath.Quat, group uint32) ([]core.Entity, core.Entity) {
	w := s.world
	pw := w.Resources.Physics.World
	rig := w.Resources.Config.Config.Rig

	n := max(rig.SlingSegments, 1)
	segLen := rig.SlingLengthRatio * rig.ArmLength / float64(n)
	down := vmath.V3F(0, -1, 0)

	sling := make([]core.Entity, 0, n)
	prev := arm
	prevAnchor := vmath.V3F(0, 0, rig.ArmLength/2)

	for i := 0; i < n; i++ {
		seg := w.CreateEntity()
		pos := vmath.V3FAddScaled(tip, down, segLen*(float64(i)+0.5))
		w.Components.Transform.SetComponent(seg, component.TransformComponent{Position: pos, Rotation: rot})
		w.Components.Hierarchy.SetComponent(seg, component.HierarchyComponent{Parent: root})

		id := s.attach(seg, physics.BodyDesc{
			Kind:     physics.Dynamic,
			Shape:    physics.Box(vmath.V3F(rig.SlingThickness, segLen, rig.SlingThickness)),
			Density:  rig.SlingDensity,
			Position: pos,
			Rotation: rot,
		}, group)
		pw.CreateJoint(physics.JointDesc{
			Kind:    physics.Spherical,
			A:       prev,
			B:       id,
			AnchorA: prevAnchor,
			AnchorB: vmath.V3F(0, segLen/2, 0),
		})

		sling = append(sling, seg)
		prev = id
		prevAnchor = vmath.V3F(0, -segLen/2, 0)
	}

	end := w.CreateEntity()
	r := rig.ReleaseEndRadius
	pos := vmath.V3FAddScaled(tip, down, segLen*float64(n)+r)
	w.Components.Transform.SetComponent(end, component.TransformComponent{Position: pos, Rotation: rot})
	w.Components.Hierarchy.SetComponent(end, component.HierarchyComponent{Parent: root})

	// Zero friction and restitution: a pure contact sensor for the loaded ball
	id := pw.CreateBody(physics.BodyDesc{
		Kind:     physics.Dynamic,
		Shape:    physics.Sphere(r),
		Density:  rig.SlingDensity,
		Position: pos,
		Rotation: rot,
		Layers:   rigLayers,
		Mask:     rigMask,
		Group:    group,
		Owner:    end,
	})
	w.Components.Body.SetComponent(end, component.BodyComponent{Body: id})
	pw.CreateJoint(physics.JointDesc{
		Kind:    physics.Spherical,
		A:       prev,
		B:       id,
		AnchorA: prevAnchor,
		AnchorB: vmath.V3F(0, r, 0),
	})
	return sling, end
}

// ballDropPoint is where a ball is spawned to fall onto a release end at end
func ballDropPoint(cfg *config.Config, end vmath.Vec3F, rot vmath.Quat) vmath.Vec3F {
	lift := cfg.Projectile.BallRadius + cfg.Rig.ReleaseEndRadius + cfg.Launcher.BallDropHeight
	p := vmath.V3FAdd(end, vmath.QRotate(rot, cfg.Launcher.BallDropNudge.V()))
	p.Y += lift
	return p
}

// attach creates a rig body owned by e with the rig filter and group
func (s *RigBuilderSystem) attach(e core.Entity, desc physics.BodyDesc, group uint32) physics.BodyID {
	desc.Friction = parameter.DefaultFriction
	desc.Restitution = parameter.DefaultRestitution
	desc.Layers = rigLayers
	desc.Mask = rigMask
	desc.Group = group
	desc.Owner = e
	id := s.world.Resources.Physics.World.CreateBody(desc)
	s.world.Components.Body.SetComponent(e, component.BodyComponent{Body: id})
	s.world.Components.Transform.SetComponent(e, component.TransformComponent{Position: desc.Position, Rotation: desc.Rotation})
	return id
}

// size returns the authored box extent of a node, unit cube when absent
func (s *RigBuilderSystem) size(e core.Entity) vmath.Vec3F {
	if tag, ok := s.world.Components.Tag.GetComponent(e); ok && tag.Size != vmath.V3FZero {
		return tag.Size
	}
	return vmath.V3FOne
}
