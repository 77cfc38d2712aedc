package pbd

import (
	"math"

	"github.com/lixenwraith/siege/physics"
	"github.com/lixenwraith/siege/vmath"
)

type body struct {
	id   physics.BodyID
	desc physics.BodyDesc

	pos, prevPos vmath.Vec3F
	rot, prevRot vmath.Quat
	vel, angVel  vmath.Vec3F

	mass       float64
	invMass    float64
	invInertia vmath.Vec3F // Body-local diagonal
	bound      float64     // Bounding sphere radius
}

func newBody(id physics.BodyID, desc physics.BodyDesc) *body {
	if desc.Rotation == (vmath.Quat{}) {
		desc.Rotation = vmath.QuatIdentity
	}
	b := &body{
		id:      id,
		desc:    desc,
		pos:     desc.Position,
		prevPos: desc.Position,
		rot:     vmath.QNormalize(desc.Rotation),
	}
	b.prevRot = b.rot
	b.mass = desc.Density * volume(desc.Shape)
	b.bound = boundingRadius(desc.Shape)

	if desc.Kind == physics.Dynamic && b.mass > 0 {
		b.invMass = 1 / b.mass
		inertia := inertiaDiag(desc.Shape, b.mass)
		b.invInertia = vmath.Vec3F{X: inv(inertia.X), Y: inv(inertia.Y), Z: inv(inertia.Z)}
	}
	return b
}

func inv(x float64) float64 {
	if x == 0 {
		return 0
	}
	return 1 / x
}

func (b *body) dynamic() bool {
	return b.invMass > 0
}

func volume(s physics.Shape) float64 {
	switch s.Kind {
	case physics.ShapeSphere:
		return 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius
	case physics.ShapeBox:
		h := s.HalfExtents
		return 8 * h.X * h.Y * h.Z
	case physics.ShapeCylinder:
		return math.Pi * s.Radius * s.Radius * 2 * s.HalfHeight
	}
	return 0
}

// inertiaDiag returns principal moments around local axes
func inertiaDiag(s physics.Shape, m float64) vmath.Vec3F {
	switch s.Kind {
	case physics.ShapeSphere:
		i := 0.4 * m * s.Radius * s.Radius
		return vmath.Vec3F{X: i, Y: i, Z: i}
	case physics.ShapeBox:
		h := s.HalfExtents
		return vmath.Vec3F{
			X: m / 3 * (h.Y*h.Y + h.Z*h.Z),
			Y: m / 3 * (h.X*h.X + h.Z*h.Z),
			Z: m / 3 * (h.X*h.X + h.Y*h.Y),
		}
	case physics.ShapeCylinder:
		r2 := s.Radius * s.Radius
		l := 2 * s.HalfHeight
		side := m / 12 * (3*r2 + l*l)
		return vmath.Vec3F{X: side, Y: 0.5 * m * r2, Z: side}
	}
	return vmath.Vec3F{}
}

func boundingRadius(s physics.Shape) float64 {
	switch s.Kind {
	case physics.ShapeSphere:
		return s.Radius
	case physics.ShapeBox:
		return vmath.V3FMag(s.HalfExtents)
	case physics.ShapeCylinder:
		return math.Hypot(s.Radius, s.HalfHeight)
	}
	return 0
}

// localHalfExtents is the body-local box enclosing the shape
func localHalfExtents(s physics.Shape) vmath.Vec3F {
	switch s.Kind {
	case physics.ShapeSphere:
		return vmath.Vec3F{X: s.Radius, Y: s.Radius, Z: s.Radius}
	case physics.ShapeBox:
		return s.HalfExtents
	case physics.ShapeCylinder:
		return vmath.Vec3F{X: s.Radius, Y: s.HalfHeight, Z: s.Radius}
	}
	return vmath.Vec3F{}
}

// worldHalfExtents is the axis-aligned half size of a rotated box
func worldHalfExtents(rot vmath.Quat, half vmath.Vec3F) vmath.Vec3F {
	ax := vmath.V3FAbs(vmath.QRotate(rot, vmath.Vec3F{X: half.X}))
	ay := vmath.V3FAbs(vmath.QRotate(rot, vmath.Vec3F{Y: half.Y}))
	az := vmath.V3FAbs(vmath.QRotate(rot, vmath.Vec3F{Z: half.Z}))
	return vmath.V3FAdd(vmath.V3FAdd(ax, ay), az)
}

// invInertiaMul applies the world-space inverse inertia tensor to v
func (b *body) invInertiaMul(v vmath.Vec3F) vmath.Vec3F {
	if !b.dynamic() {
		return vmath.Vec3F{}
	}
	local := vmath.QRotate(vmath.QConj(b.rot), v)
	local = vmath.V3FMul(local, b.invInertia)
	return vmath.QRotate(b.rot, local)
}

// generalizedInvMass is w = 1/m + (r x n)^T I^-1 (r x n)
func (b *body) generalizedInvMass(r, n vmath.Vec3F) float64 {
	if !b.dynamic() {
		return 0
	}
	rn := vmath.V3FCross(r, n)
	return b.invMass + vmath.V3FDot(rn, b.invInertiaMul(rn))
}

// angularInvMass is n^T I^-1 n
func (b *body) angularInvMass(n vmath.Vec3F) float64 {
	if !b.dynamic() {
		return 0
	}
	return vmath.V3FDot(n, b.invInertiaMul(n))
}

// applyPositional moves the body by impulse p at world offset r
func (b *body) applyPositional(p, r vmath.Vec3F, sign float64) {
	if !b.dynamic() {
		return
	}
	b.pos = vmath.V3FAddScaled(b.pos, p, b.invMass*sign)
	dw := b.invInertiaMul(vmath.V3FCross(r, p))
	b.rot = vmath.QApplyRotationVector(b.rot, dw, sign)
}

// applyRotational rotates the body by angular impulse p
func (b *body) applyRotational(p vmath.Vec3F, sign float64) {
	if !b.dynamic() {
		return
	}
	dw := b.invInertiaMul(p)
	b.rot = vmath.QApplyRotationVector(b.rot, dw, sign)
}

// applyVelocity adds impulse p at offset r
func (b *body) applyVelocity(p, r vmath.Vec3F, sign float64) {
	if !b.dynamic() {
		return
	}
	b.vel = vmath.V3FAddScaled(b.vel, p, b.invMass*sign)
	b.angVel = vmath.V3FAddScaled(b.angVel, b.invInertiaMul(vmath.V3FCross(r, p)), sign)
}

func (b *body) worldPoint(local vmath.Vec3F) vmath.Vec3F {
	return vmath.V3FAdd(b.pos, vmath.QRotate(b.rot, local))
}

// pointVelocity is the velocity of a world offset r from the centre
func (b *body) pointVelocity(r vmath.Vec3F) vmath.Vec3F {
	return vmath.V3FAdd(b.vel, vmath.V3FCross(b.angVel, r))
}

func (b *body) state() physics.BodyState {
	return physics.BodyState{
		Position:        b.pos,
		Rotation:        b.rot,
		LinearVelocity:  b.vel,
		AngularVelocity: b.angVel,
		Mass:            b.mass,
		Owner:           b.desc.Owner,
	}
}
