// Package pbd is a small extended position based dynamics solver implementing physics.World
// Substepped integration with joint, contact and ground constraints
package pbd

import (
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/parameter"
	"github.com/lixenwraith/siege/physics"
	"github.com/lixenwraith/siege/vmath"
)

// Config tunes the solver
type Config struct {
	Gravity  vmath.Vec3F
	Substeps int
	// Ground enables a static plane at GroundHeight that collides with every layer
	Ground       bool
	GroundHeight float64
}

// DefaultConfig mirrors parameter defaults
func DefaultConfig() Config {
	return Config{
		Gravity:      vmath.Vec3F{Y: parameter.Gravity},
		Substeps:     parameter.PhysicsSubsteps,
		Ground:       true,
		GroundHeight: parameter.GroundHeight,
	}
}

type pairKey struct {
	lo, hi physics.BodyID
}

func makePair(a, b physics.BodyID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// groundID is a pseudo body id used only in contact pair keys
const groundID physics.BodyID = 0

type joint struct {
	id   physics.JointID
	desc physics.JointDesc
	// relRot is rot(A)^-1 * rot(B) at creation, used by Fixed joints
	relRot vmath.Quat
}

// Engine implements physics.World
// Not safe for concurrent use; the simulation clock owns it
type Engine struct {
	cfg Config

	bodies map[physics.BodyID]*body
	order  []*body // Creation order for deterministic solving

	joints     map[physics.JointID]*joint
	jointOrder []*joint
	jointed    map[pairKey]int

	nextBody  physics.BodyID
	nextJoint physics.JointID

	touching map[pairKey]contactOwners // Pairs in contact during the previous step
	ended    []physics.CollisionPair

	contacts   []contact // Scratch, reused across substeps
	groundBody *body
}

type contactOwners struct {
	a, b core.Entity
}

var _ physics.World = (*Engine)(nil)

func New(cfg Config) *Engine {
	if cfg.Substeps < 1 {
		cfg.Substeps = 1
	}
	return &Engine{
		cfg:        cfg,
		bodies:     make(map[physics.BodyID]*body),
		joints:     make(map[physics.JointID]*joint),
		jointed:    make(map[pairKey]int),
		touching:   make(map[pairKey]contactOwners),
		groundBody: newGround(cfg.GroundHeight),
	}
}

func (e *Engine) CreateBody(desc physics.BodyDesc) physics.BodyID {
	e.nextBody++
	b := newBody(e.nextBody, desc)
	e.bodies[b.id] = b
	e.order = append(e.order, b)
	return b.id
}

func (e *Engine) RemoveBody(id physics.BodyID) {
	b, ok := e.bodies[id]
	if !ok {
		return
	}
	for _, j := range append([]*joint(nil), e.jointOrder...) {
		if j.desc.A == id || j.desc.B == id {
			e.RemoveJoint(j.id)
		}
	}
	delete(e.bodies, id)
	for i, ob := range e.order {
		if ob == b {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	for k := range e.touching {
		if k.lo == id || k.hi == id {
			delete(e.touching, k)
		}
	}
}

func (e *Engine) Body(id physics.BodyID) (physics.BodyState, bool) {
	b, ok := e.bodies[id]
	if !ok {
		return physics.BodyState{}, false
	}
	return b.state(), true
}

func (e *Engine) ApplyImpulse(id physics.BodyID, impulse vmath.Vec3F) bool {
	b, ok := e.bodies[id]
	if !ok {
		return false
	}
	if b.dynamic() {
		b.vel = vmath.V3FAddScaled(b.vel, impulse, b.invMass)
	}
	return true
}

func (e *Engine) CreateJoint(desc physics.JointDesc) physics.JointID {
	a, okA := e.bodies[desc.A]
	b, okB := e.bodies[desc.B]
	if !okA || !okB {
		return 0
	}
	if desc.Kind == physics.Distance && desc.MaxLength < desc.MinLength {
		desc.MaxLength = desc.MinLength
	}
	e.nextJoint++
	j := &joint{
		id:     e.nextJoint,
		desc:   desc,
		relRot: vmath.QMul(vmath.QConj(a.rot), b.rot),
	}
	e.joints[j.id] = j
	e.jointOrder = append(e.jointOrder, j)
	e.jointed[makePair(desc.A, desc.B)]++
	return j.id
}

func (e *Engine) Joint(id physics.JointID) (physics.JointDesc, bool) {
	j, ok := e.joints[id]
	if !ok {
		return physics.JointDesc{}, false
	}
	return j.desc, true
}

// UpdateJoint keeps the original kind and bodies
func (e *Engine) UpdateJoint(id physics.JointID, desc physics.JointDesc) bool {
	j, ok := e.joints[id]
	if !ok {
		return false
	}
	desc.Kind = j.desc.Kind
	desc.A = j.desc.A
	desc.B = j.desc.B
	if desc.Kind == physics.Distance && desc.MaxLength < desc.MinLength {
		desc.MaxLength = desc.MinLength
	}
	j.desc = desc
	return true
}

func (e *Engine) RemoveJoint(id physics.JointID) {
	j, ok := e.joints[id]
	if !ok {
		return
	}
	delete(e.joints, id)
	for i, oj := range e.jointOrder {
		if oj == j {
			e.jointOrder = append(e.jointOrder[:i], e.jointOrder[i+1:]...)
			break
		}
	}
	key := makePair(j.desc.A, j.desc.B)
	if e.jointed[key]--; e.jointed[key] <= 0 {
		delete(e.jointed, key)
	}
}

// BodyCount returns live bodies
func (e *Engine) BodyCount() int {
	return len(e.order)
}

// JointCount returns live joints
func (e *Engine) JointCount() int {
	return len(e.jointOrder)
}

// Step advances the simulation by dt seconds split into substeps
func (e *Engine) Step(dt float64) {
	if dt <= 0 {
		return
	}
	h := dt / float64(e.cfg.Substeps)
	current := make(map[pairKey]contactOwners, len(e.touching))

	for s := 0; s < e.cfg.Substeps; s++ {
		e.integrate(h)

		e.contacts = e.contacts[:0]
		e.collectContacts()
		for i := range e.contacts {
			c := &e.contacts[i]
			current[c.key] = c.owners
		}

		for _, j := range e.jointOrder {
			e.solveJoint(j, h)
		}
		for i := range e.contacts {
			e.solveContactPosition(&e.contacts[i])
		}

		e.updateVelocities(h)

		for _, j := range e.jointOrder {
			e.dampJoint(j, h)
		}
		for i := range e.contacts {
			e.solveContactVelocity(&e.contacts[i], h)
		}
	}

	for k, owners := range e.touching {
		if _, still := current[k]; !still {
			if owners.a.Valid() || owners.b.Valid() {
				e.ended = append(e.ended, physics.CollisionPair{A: owners.a, B: owners.b})
			}
		}
	}
	e.touching = current
}

func (e *Engine) DrainCollisionEnded() []physics.CollisionPair {
	out := e.ended
	e.ended = nil
	return out
}

func (e *Engine) integrate(h float64) {
	for _, b := range e.order {
		b.prevPos = b.pos
		b.prevRot = b.rot
		if !b.dynamic() {
			continue
		}
		b.vel = vmath.V3FAddScaled(b.vel, e.cfg.Gravity, h)
		if d := b.desc.LinearDamping; d > 0 {
			b.vel = vmath.V3FScale(b.vel, 1/(1+h*d))
		}
		b.pos = vmath.V3FAddScaled(b.pos, b.vel, h)
		b.rot = vmath.QIntegrate(b.rot, b.angVel, h)
	}
}

func (e *Engine) updateVelocities(h float64) {
	for _, b := range e.order {
		if !b.dynamic() {
			continue
		}
		b.vel = vmath.V3FScale(vmath.V3FSub(b.pos, b.prevPos), 1/h)
		b.angVel = vmath.QAngularVelocity(b.prevRot, b.rot, h)
	}
}
