package pbd

import (
	"math"

	"github.com/lixenwraith/siege/parameter"
	"github.com/lixenwraith/siege/physics"
	"github.com/lixenwraith/siege/vmath"
)

// contact pushes a along n away from b
// Anchors are body-local so depth can be re-measured after joint corrections
type contact struct {
	key    pairKey
	owners contactOwners
	a, b   *body
	n      vmath.Vec3F

	localA, localB vmath.Vec3F
	lambda         float64
	vnPre          float64

	friction, restitution float64
}

func newGround(height float64) *body {
	b := &body{
		id:  groundID,
		rot: vmath.QuatIdentity,
		pos: vmath.Vec3F{Y: height},
	}
	b.prevRot = b.rot
	b.prevPos = b.pos
	b.desc.Friction = parameter.DefaultFriction
	b.desc.Layers = physics.LayerAll
	b.desc.Mask = physics.LayerAll
	return b
}

func (e *Engine) collectContacts() {
	for i, a := range e.order {
		for _, b := range e.order[i+1:] {
			if !a.dynamic() && !b.dynamic() {
				continue
			}
			if a.desc.Group != 0 && a.desc.Group == b.desc.Group {
				continue
			}
			if !physics.Interacts(a.desc.Layers, a.desc.Mask, b.desc.Layers, b.desc.Mask) {
				continue
			}
			if e.jointed[makePair(a.id, b.id)] > 0 {
				continue
			}
			reach := a.bound + b.bound + parameter.ContactSlop
			if vmath.V3FDistSq(a.pos, b.pos) > reach*reach {
				continue
			}
			e.narrow(a, b)
		}
	}

	if !e.cfg.Ground {
		return
	}
	g := e.groundBody
	for _, a := range e.order {
		if !a.dynamic() || a.desc.Layers == 0 {
			continue
		}
		if a.pos.Y-a.bound > e.cfg.GroundHeight+parameter.ContactSlop {
			continue
		}
		for _, p := range featurePoints(a) {
			if p.Y-p.radius(a) < e.cfg.GroundHeight {
				depth := e.cfg.GroundHeight - (p.Y - p.radius(a))
				pa := vmath.V3FSub(p.Vec3F, vmath.Vec3F{Y: p.radius(a)})
				pb := vmath.V3FAdd(pa, vmath.Vec3F{Y: depth})
				e.addContact(a, g, vmath.V3FUnitY, pa, pb)
			}
		}
	}
}

// featurePoint is a test point of a body; spheres test their centre with radius
type featurePoint struct {
	vmath.Vec3F
	sphere bool
}

func (p featurePoint) radius(b *body) float64 {
	if p.sphere {
		return b.desc.Shape.Radius
	}
	return 0
}

// featurePoints returns world points whose penetration stands in for the shape
func featurePoints(b *body) []featurePoint {
	s := b.desc.Shape
	switch s.Kind {
	case physics.ShapeSphere:
		return []featurePoint{{Vec3F: b.pos, sphere: true}}
	case physics.ShapeBox:
		h := s.HalfExtents
		pts := make([]featurePoint, 0, 8)
		for _, sx := range [2]float64{-1, 1} {
			for _, sy := range [2]float64{-1, 1} {
				for _, sz := range [2]float64{-1, 1} {
					pts = append(pts, featurePoint{Vec3F: b.worldPoint(vmath.Vec3F{X: sx * h.X, Y: sy * h.Y, Z: sz * h.Z})})
				}
			}
		}
		return pts
	case physics.ShapeCylinder:
		const rim = 8
		pts := make([]featurePoint, 0, rim*2)
		for i := 0; i < rim; i++ {
			sin, cos := math.Sincos(2 * math.Pi * float64(i) / rim)
			x, z := cos*s.Radius, sin*s.Radius
			pts = append(pts,
				featurePoint{Vec3F: b.worldPoint(vmath.Vec3F{X: x, Y: s.HalfHeight, Z: z})},
				featurePoint{Vec3F: b.worldPoint(vmath.Vec3F{X: x, Y: -s.HalfHeight, Z: z})},
			)
		}
		return pts
	}
	return nil
}

func (e *Engine) narrow(a, b *body) {
	switch {
	case a.desc.Shape.Kind == physics.ShapeSphere:
		e.pointContact(a, featurePoint{Vec3F: a.pos, sphere: true}, b)
	case b.desc.Shape.Kind == physics.ShapeSphere:
		e.pointContact(b, featurePoint{Vec3F: b.pos, sphere: true}, a)
	default:
		for _, p := range featurePoints(a) {
			e.pointContact(a, p, b)
		}
		for _, p := range featurePoints(b) {
			e.pointContact(b, p, a)
		}
	}
}

// pointContact tests a feature point of a against the shape of other
func (e *Engine) pointContact(a *body, p featurePoint, other *body) {
	r := p.radius(a)
	n, surface, depth, ok := penetration(p.Vec3F, r, other)
	if !ok || depth <= 0 {
		return
	}
	pa := vmath.V3FSub(p.Vec3F, vmath.V3FScale(n, r))
	e.addContact(a, other, n, pa, surface)
}

func (e *Engine) addContact(a, b *body, n, pa, pb vmath.Vec3F) {
	c := contact{
		key:         makePair(a.id, b.id),
		owners:      contactOwners{a: a.desc.Owner, b: b.desc.Owner},
		a:           a,
		b:           b,
		n:           n,
		localA:      vmath.QRotate(vmath.QConj(a.rot), vmath.V3FSub(pa, a.pos)),
		localB:      vmath.QRotate(vmath.QConj(b.rot), vmath.V3FSub(pb, b.pos)),
		friction:    (a.desc.Friction + b.desc.Friction) / 2,
		restitution: math.Max(a.desc.Restitution, b.desc.Restitution),
	}
	ra := vmath.V3FSub(pa, a.pos)
	rb := vmath.V3FSub(pb, b.pos)
	c.vnPre = vmath.V3FDot(n, vmath.V3FSub(a.pointVelocity(ra), b.pointVelocity(rb)))
	e.contacts = append(e.contacts, c)
}

// penetration returns the outward normal of other at the point, the surface point and depth
func penetration(p vmath.Vec3F, radius float64, other *body) (vmath.Vec3F, vmath.Vec3F, float64, bool) {
	s := other.desc.Shape
	switch s.Kind {
	case physics.ShapeSphere:
		d := vmath.V3FSub(p, other.pos)
		dist := vmath.V3FMag(d)
		depth := radius + s.Radius - dist
		if depth <= 0 {
			return vmath.Vec3F{}, vmath.Vec3F{}, 0, false
		}
		n := vmath.V3FUnitY
		if dist > epsilon {
			n = vmath.V3FScale(d, 1/dist)
		}
		return n, vmath.V3FAddScaled(other.pos, n, s.Radius), depth, true

	case physics.ShapeBox:
		return boxPenetration(p, radius, other, s.HalfExtents)

	case physics.ShapeCylinder:
		return cylinderPenetration(p, radius, other, s.Radius, s.HalfHeight)
	}
	return vmath.Vec3F{}, vmath.Vec3F{}, 0, false
}

func boxPenetration(p vmath.Vec3F, radius float64, other *body, half vmath.Vec3F) (vmath.Vec3F, vmath.Vec3F, float64, bool) {
	if !vmath.InsideOBB(p, other.pos, other.rot, half) {
		closest := vmath.ClosestPointOBB(p, other.pos, other.rot, half)
		d := vmath.V3FSub(p, closest)
		dist := vmath.V3FMag(d)
		depth := radius - dist
		if depth <= 0 || dist < epsilon {
			return vmath.Vec3F{}, vmath.Vec3F{}, 0, false
		}
		return vmath.V3FScale(d, 1/dist), closest, depth, true
	}

	// Inside: exit through the nearest face
	local := vmath.QRotate(vmath.QConj(other.rot), vmath.V3FSub(p, other.pos))
	lc := [3]float64{local.X, local.Y, local.Z}
	hc := [3]float64{half.X, half.Y, half.Z}
	axis, best := 0, math.Inf(1)
	for i := 0; i < 3; i++ {
		if gap := hc[i] - math.Abs(lc[i]); gap < best {
			axis, best = i, gap
		}
	}
	var nl vmath.Vec3F
	sign := vmath.Signum(lc[axis])
	if sign == 0 {
		sign = 1
	}
	face := local
	switch axis {
	case 0:
		nl.X, face.X = sign, sign*half.X
	case 1:
		nl.Y, face.Y = sign, sign*half.Y
	case 2:
		nl.Z, face.Z = sign, sign*half.Z
	}
	n := vmath.QRotate(other.rot, nl)
	return n, other.worldPoint(face), radius + best, true
}

func cylinderPenetration(p vmath.Vec3F, radius float64, other *body, r, hh float64) (vmath.Vec3F, vmath.Vec3F, float64, bool) {
	local := vmath.QRotate(vmath.QConj(other.rot), vmath.V3FSub(p, other.pos))
	radial := math.Hypot(local.X, local.Z)

	if radial <= r && math.Abs(local.Y) <= hh {
		sideGap := r - radial
		capGap := hh - math.Abs(local.Y)
		var nl, face vmath.Vec3F
		var gap float64
		if capGap < sideGap || radial < epsilon {
			sign := vmath.Signum(local.Y)
			if sign == 0 {
				sign = 1
			}
			nl = vmath.Vec3F{Y: sign}
			face = vmath.Vec3F{X: local.X, Y: sign * hh, Z: local.Z}
			gap = capGap
		} else {
			nl = vmath.Vec3F{X: local.X / radial, Z: local.Z / radial}
			face = vmath.Vec3F{X: nl.X * r, Y: local.Y, Z: nl.Z * r}
			gap = sideGap
		}
		return vmath.QRotate(other.rot, nl), other.worldPoint(face), radius + gap, true
	}

	closest := local
	if radial > r {
		closest.X *= r / radial
		closest.Z *= r / radial
	}
	closest.Y = math.Max(-hh, math.Min(hh, closest.Y))
	cw := other.worldPoint(closest)
	d := vmath.V3FSub(p, cw)
	dist := vmath.V3FMag(d)
	depth := radius - dist
	if depth <= 0 || dist < epsilon {
		return vmath.Vec3F{}, vmath.Vec3F{}, 0, false
	}
	return vmath.V3FScale(d, 1/dist), cw, depth, true
}

func (e *Engine) solveContactPosition(c *contact) {
	pa := c.a.worldPoint(c.localA)
	pb := c.b.worldPoint(c.localB)
	depth := vmath.V3FDot(vmath.V3FSub(pb, pa), c.n)
	if depth <= 0 {
		return
	}
	ra := vmath.V3FSub(pa, c.a.pos)
	rb := vmath.V3FSub(pb, c.b.pos)
	w := c.a.generalizedInvMass(ra, c.n) + c.b.generalizedInvMass(rb, c.n)
	if w < epsilon {
		return
	}
	c.lambda = depth / w
	p := vmath.V3FScale(c.n, c.lambda)
	c.a.applyPositional(p, ra, 1)
	c.b.applyPositional(p, rb, -1)
}

func (e *Engine) solveContactVelocity(c *contact, h float64) {
	if c.lambda <= 0 {
		return
	}
	ra := vmath.QRotate(c.a.rot, c.localA)
	rb := vmath.QRotate(c.b.rot, c.localB)
	v := vmath.V3FSub(c.a.pointVelocity(ra), c.b.pointVelocity(rb))
	vn := vmath.V3FDot(c.n, v)
	vt := vmath.V3FSub(v, vmath.V3FScale(c.n, vn))

	// Friction, bounded by the normal impulse
	if vtMag := vmath.V3FMag(vt); vtMag > epsilon && c.friction > 0 {
		t := vmath.V3FScale(vt, 1/vtMag)
		wt := c.a.generalizedInvMass(ra, t) + c.b.generalizedInvMass(rb, t)
		if wt > epsilon {
			impulse := math.Min(vtMag/wt, c.friction*c.lambda/h)
			p := vmath.V3FScale(t, -impulse)
			c.a.applyVelocity(p, ra, 1)
			c.b.applyVelocity(p, rb, -1)
		}
	}

	// Restitution, suppressed for resting contact
	restitution := c.restitution
	if math.Abs(vn) <= 2*vmath.V3FMag(e.cfg.Gravity)*h {
		restitution = 0
	}
	target := math.Max(-restitution*c.vnPre, 0)
	dv := target - vn
	if dv <= 0 {
		return
	}
	wn := c.a.generalizedInvMass(ra, c.n) + c.b.generalizedInvMass(rb, c.n)
	if wn < epsilon {
		return
	}
	p := vmath.V3FScale(c.n, dv/wn)
	c.a.applyVelocity(p, ra, 1)
	c.b.applyVelocity(p, rb, -1)
}
