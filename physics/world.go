// Package physics defines the rigid-body contract consumed by the simulation core
// Implementations: pbd (reference XPBD solver) and physicstest (scripted fake)
package physics

import (
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/vmath"
)

// BodyID is an opaque body handle, zero is never allocated
type BodyID uint64

// JointID is an opaque joint handle, zero is never allocated
type JointID uint64

// World is the engine surface the core depends on
// All calls happen on the clock goroutine between ticks, implementations need no locking
type World interface {
	CreateBody(desc BodyDesc) BodyID
	RemoveBody(id BodyID)
	// Body returns current state, false when the handle is stale
	Body(id BodyID) (BodyState, bool)
	ApplyImpulse(id BodyID, impulse vmath.Vec3F) bool

	CreateJoint(desc JointDesc) JointID
	// Joint returns the current description, false when the handle is stale
	Joint(id JointID) (JointDesc, bool)
	// UpdateJoint replaces limits, anchors and damping of a live joint
	UpdateJoint(id JointID, desc JointDesc) bool
	RemoveJoint(id JointID)

	// ShapeCast sweeps a box and reports the nearest hit
	ShapeCast(q ShapeCastQuery) (Hit, bool)

	// Step integrates dt seconds
	Step(dt float64)
	// DrainCollisionEnded returns pairs whose contact ended since the last drain
	DrainCollisionEnded() []CollisionPair
}

// BodyKind selects integration behaviour
type BodyKind int

const (
	Static BodyKind = iota
	Dynamic
	Kinematic
)

// ShapeKind enumerates collider primitives
type ShapeKind int

const (
	ShapeSphere ShapeKind = iota
	ShapeBox
	ShapeCylinder
)

// Shape is a collider primitive in body-local space
// Sphere uses Radius, Box uses HalfExtents, Cylinder uses Radius and HalfHeight along local Y
type Shape struct {
	Kind        ShapeKind
	Radius      float64
	HalfExtents vmath.Vec3F
	HalfHeight  float64
}

func Sphere(radius float64) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

// Box takes full dimensions
func Box(size vmath.Vec3F) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: vmath.V3FScale(size, 0.5)}
}

// Cylinder takes radius and full height
func Cylinder(radius, height float64) Shape {
	return Shape{Kind: ShapeCylinder, Radius: radius, HalfHeight: height / 2}
}

// BodyDesc describes a rigid body; zero Layers collides with nothing
type BodyDesc struct {
	Kind        BodyKind
	Shape       Shape
	Density     float64 // Mass is density times shape volume
	Position    vmath.Vec3F
	Rotation    vmath.Quat
	Friction    float64
	Restitution float64
	Layers      Layer // Membership
	Mask        Layer // Layers this body collides with
	// LinearDamping is applied per second
	LinearDamping float64
	// Group bodies sharing a nonzero group never collide with each other
	Group uint32
	// Owner is the simulation entity reported in hits and collision pairs
	Owner core.Entity
}

// BodyState is the integrated pose of a body
type BodyState struct {
	Position        vmath.Vec3F
	Rotation        vmath.Quat
	LinearVelocity  vmath.Vec3F
	AngularVelocity vmath.Vec3F
	Mass            float64
	Owner           core.Entity
}

// JointKind enumerates supported constraints
type JointKind int

const (
	// Revolute aligns Axis on both bodies and pins the anchors
	Revolute JointKind = iota
	// Spherical pins the anchors with free rotation
	Spherical
	// Distance bounds the anchor separation to [MinLength, MaxLength]
	Distance
	// Fixed pins anchors and relative rotation
	Fixed
)

// JointDesc describes a two-body constraint, anchors are body-local
type JointDesc struct {
	Kind    JointKind
	A       BodyID
	B       BodyID
	AnchorA vmath.Vec3F
	AnchorB vmath.Vec3F
	// Axis is body-local on both bodies for Revolute
	Axis      vmath.Vec3F
	MinLength float64
	MaxLength float64
	// Compliance is inverse stiffness, 0 is rigid
	Compliance float64
	// AngularDamping resists relative angular velocity
	AngularDamping float64
	// LinearDamping resists relative linear velocity
	LinearDamping float64
}

// ShapeCastQuery sweeps a box from Origin along Direction
type ShapeCastQuery struct {
	Origin      vmath.Vec3F
	Rotation    vmath.Quat
	HalfExtents vmath.Vec3F
	Direction   vmath.Vec3F
	MaxDistance float64
	Mask        Layer
	// IgnoreOriginPenetration skips bodies already overlapping the shape at distance zero
	IgnoreOriginPenetration bool
}

// Hit is the nearest shape-cast result
type Hit struct {
	Body     BodyID
	Owner    core.Entity
	Distance float64
}

// CollisionPair names two entities whose contact ended
type CollisionPair struct {
	A core.Entity
	B core.Entity
}
