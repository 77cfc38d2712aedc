// Package physicstest provides a scripted physics.World for controller tests
// Bodies never move unless posed; collisions and cast hits are injected
package physicstest

import (
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/physics"
	"github.com/lixenwraith/siege/vmath"
)

// Body is a recorded body with a mutable pose
type Body struct {
	Desc    physics.BodyDesc
	State   physics.BodyState
	Impulse vmath.Vec3F // Sum of applied impulses
}

// Engine is a deterministic fake; zero value is not usable, call New
type Engine struct {
	Bodies map[physics.BodyID]*Body
	Joints map[physics.JointID]*physics.JointDesc

	// Cast answers ShapeCast; nil means no hit
	Cast  func(q physics.ShapeCastQuery) (physics.Hit, bool)
	Casts []physics.ShapeCastQuery

	// OnStep runs inside Step, after the step counter increments
	OnStep func(e *Engine, dt float64)
	Steps  int

	pending   []physics.CollisionPair
	nextBody  physics.BodyID
	nextJoint physics.JointID
}

var _ physics.World = (*Engine)(nil)

func New() *Engine {
	return &Engine{
		Bodies: make(map[physics.BodyID]*Body),
		Joints: make(map[physics.JointID]*physics.JointDesc),
	}
}

func (e *Engine) CreateBody(desc physics.BodyDesc) physics.BodyID {
	e.nextBody++
	rot := desc.Rotation
	if rot == (vmath.Quat{}) {
		rot = vmath.QuatIdentity
	}
	e.Bodies[e.nextBody] = &Body{
		Desc: desc,
		State: physics.BodyState{
			Position: desc.Position,
			Rotation: rot,
			Mass:     desc.Density,
			Owner:    desc.Owner,
		},
	}
	return e.nextBody
}

func (e *Engine) RemoveBody(id physics.BodyID) {
	delete(e.Bodies, id)
	for jid, j := range e.Joints {
		if j.A == id || j.B == id {
			delete(e.Joints, jid)
		}
	}
}

func (e *Engine) Body(id physics.BodyID) (physics.BodyState, bool) {
	b, ok := e.Bodies[id]
	if !ok {
		return physics.BodyState{}, false
	}
	return b.State, true
}

func (e *Engine) ApplyImpulse(id physics.BodyID, impulse vmath.Vec3F) bool {
	b, ok := e.Bodies[id]
	if !ok {
		return false
	}
	b.Impulse = vmath.V3FAdd(b.Impulse, impulse)
	return true
}

func (e *Engine) CreateJoint(desc physics.JointDesc) physics.JointID {
	if _, ok := e.Bodies[desc.A]; !ok {
		return 0
	}
	if _, ok := e.Bodies[desc.B]; !ok {
		return 0
	}
	e.nextJoint++
	d := desc
	e.Joints[e.nextJoint] = &d
	return e.nextJoint
}

func (e *Engine) Joint(id physics.JointID) (physics.JointDesc, bool) {
	j, ok := e.Joints[id]
	if !ok {
		return physics.JointDesc{}, false
	}
	return *j, true
}

func (e *Engine) UpdateJoint(id physics.JointID, desc physics.JointDesc) bool {
	j, ok := e.Joints[id]
	if !ok {
		return false
	}
	desc.Kind, desc.A, desc.B = j.Kind, j.A, j.B
	*j = desc
	return true
}

func (e *Engine) RemoveJoint(id physics.JointID) {
	delete(e.Joints, id)
}

func (e *Engine) ShapeCast(q physics.ShapeCastQuery) (physics.Hit, bool) {
	e.Casts = append(e.Casts, q)
	if e.Cast == nil {
		return physics.Hit{}, false
	}
	return e.Cast(q)
}

func (e *Engine) Step(dt float64) {
	e.Steps++
	if e.OnStep != nil {
		e.OnStep(e, dt)
	}
}

func (e *Engine) DrainCollisionEnded() []physics.CollisionPair {
	out := e.pending
	e.pending = nil
	return out
}

// EndCollision queues a pair for the next drain
func (e *Engine) EndCollision(a, b core.Entity) {
	e.pending = append(e.pending, physics.CollisionPair{A: a, B: b})
}

// Pose moves a body
func (e *Engine) Pose(id physics.BodyID, pos vmath.Vec3F, rot vmath.Quat) {
	if b, ok := e.Bodies[id]; ok {
		b.State.Position = pos
		b.State.Rotation = rot
	}
}

// BodyOf finds the body owned by an entity
func (e *Engine) BodyOf(owner core.Entity) (physics.BodyID, bool) {
	for id, b := range e.Bodies {
		if b.Desc.Owner == owner {
			return id, true
		}
	}
	return 0, false
}

// JointsOfKind returns live joints of one kind
func (e *Engine) JointsOfKind(kind physics.JointKind) []physics.JointDesc {
	var out []physics.JointDesc
	for _, j := range e.Joints {
		if j.Kind == kind {
			out = append(out, *j)
		}
	}
	return out
}
