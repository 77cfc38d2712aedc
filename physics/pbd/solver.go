package pbd

import (
	"math"

	"github.com/lixenwraith/siege/physics"
	"github.com/lixenwraith/siege/vmath"
)

const epsilon = 1e-9

// positional drives world anchors pa (on a) and pb (on b) together by error c along n
// n points from pa toward pb, a moves along +n
func positional(a, b *body, pa, pb, n vmath.Vec3F, c, compliance, h float64) {
	ra := vmath.V3FSub(pa, a.pos)
	rb := vmath.V3FSub(pb, b.pos)
	w := a.generalizedInvMass(ra, n) + b.generalizedInvMass(rb, n)
	alpha := compliance / (h * h)
	if w+alpha < epsilon {
		return
	}
	lambda := c / (w + alpha)
	p := vmath.V3FScale(n, lambda)
	a.applyPositional(p, ra, 1)
	b.applyPositional(p, rb, -1)
}

// angular rotates a by +theta*wa/w and b by the rest around axis n
func angular(a, b *body, n vmath.Vec3F, theta, compliance, h float64) {
	w := a.angularInvMass(n) + b.angularInvMass(n)
	alpha := compliance / (h * h)
	if w+alpha < epsilon {
		return
	}
	p := vmath.V3FScale(n, theta/(w+alpha))
	a.applyRotational(p, 1)
	b.applyRotational(p, -1)
}

func (e *Engine) solveJoint(j *joint, h float64) {
	a, okA := e.bodies[j.desc.A]
	b, okB := e.bodies[j.desc.B]
	if !okA || !okB {
		return
	}
	d := j.desc

	switch d.Kind {
	case physics.Revolute:
		alignAxes(a, b, d.Axis, d.Compliance, h)
		attach(a, b, d.AnchorA, d.AnchorB, 0, 0, d.Compliance, h)
	case physics.Spherical:
		attach(a, b, d.AnchorA, d.AnchorB, 0, 0, d.Compliance, h)
	case physics.Distance:
		attach(a, b, d.AnchorA, d.AnchorB, d.MinLength, d.MaxLength, d.Compliance, h)
	case physics.Fixed:
		alignRotation(a, b, j.relRot, d.Compliance, h)
		attach(a, b, d.AnchorA, d.AnchorB, 0, 0, d.Compliance, h)
	}
}

// attach keeps anchor separation within [minLen, maxLen]
func attach(a, b *body, anchorA, anchorB vmath.Vec3F, minLen, maxLen, compliance, h float64) {
	pa := a.worldPoint(anchorA)
	pb := b.worldPoint(anchorB)
	delta := vmath.V3FSub(pb, pa)
	dist := vmath.V3FMag(delta)
	if dist < epsilon {
		return
	}

	var c float64
	switch {
	case dist > maxLen:
		c = dist - maxLen
	case dist < minLen:
		c = dist - minLen
	default:
		return
	}
	positional(a, b, pa, pb, vmath.V3FScale(delta, 1/dist), c, compliance, h)
}

// alignAxes rotates both bodies so their local axis coincides in world space
func alignAxes(a, b *body, axis vmath.Vec3F, compliance, h float64) {
	if vmath.V3FMagSq(axis) < epsilon {
		return
	}
	axis = vmath.V3FNormalize(axis)
	wa := vmath.QRotate(a.rot, axis)
	wb := vmath.QRotate(b.rot, axis)
	dq := vmath.V3FCross(wa, wb)
	theta := vmath.V3FMag(dq)
	if theta < epsilon {
		return
	}
	angular(a, b, vmath.V3FScale(dq, 1/theta), math.Asin(math.Min(theta, 1)), compliance, h)
}

// alignRotation holds rot(B) at rot(A) * rel
func alignRotation(a, b *body, rel vmath.Quat, compliance, h float64) {
	target := vmath.QMul(a.rot, rel)
	qErr := vmath.QMul(target, vmath.QConj(b.rot))
	v := vmath.Vec3F{X: 2 * qErr.X, Y: 2 * qErr.Y, Z: 2 * qErr.Z}
	if qErr.W < 0 {
		v = vmath.V3FNeg(v)
	}
	theta := vmath.V3FMag(v)
	if theta < epsilon {
		return
	}
	angular(b, a, vmath.V3FScale(v, 1/theta), theta, compliance, h)
}

// dampJoint removes a fraction of relative velocity per substep
func (e *Engine) dampJoint(j *joint, h float64) {
	a, okA := e.bodies[j.desc.A]
	b, okB := e.bodies[j.desc.B]
	if !okA || !okB {
		return
	}

	if mu := j.desc.AngularDamping; mu > 0 {
		rel := vmath.V3FSub(a.angVel, b.angVel)
		delta := vmath.V3FScale(rel, math.Min(mu*h, 1))
		if mag := vmath.V3FMag(delta); mag > epsilon {
			n := vmath.V3FScale(delta, 1/mag)
			w := a.angularInvMass(n) + b.angularInvMass(n)
			if w > epsilon {
				p := vmath.V3FScale(n, mag/w)
				a.angVel = vmath.V3FSub(a.angVel, a.invInertiaMul(p))
				b.angVel = vmath.V3FAdd(b.angVel, b.invInertiaMul(p))
			}
		}
	}

	if mu := j.desc.LinearDamping; mu > 0 {
		rel := vmath.V3FSub(a.vel, b.vel)
		delta := vmath.V3FScale(rel, math.Min(mu*h, 1))
		w := a.invMass + b.invMass
		if w > epsilon {
			p := vmath.V3FScale(delta, 1/w)
			a.vel = vmath.V3FSub(a.vel, vmath.V3FScale(p, a.invMass))
			b.vel = vmath.V3FAdd(b.vel, vmath.V3FScale(p, b.invMass))
		}
	}
}
