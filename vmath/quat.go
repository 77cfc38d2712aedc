package vmath

import "math"

// Quat is a unit rotation quaternion
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity is the no-rotation quaternion
var QuatIdentity = Quat{0, 0, 0, 1}

// QFromAxisAngle builds a rotation of angle radians around axis
func QFromAxisAngle(axis Vec3F, angle float64) Quat {
	a := V3FNormalize(axis)
	s, c := math.Sincos(angle * 0.5)
	return Quat{a.X * s, a.Y * s, a.Z * s, c}
}

// QFromRotationY rotates around the up axis
func QFromRotationY(angle float64) Quat {
	return QFromAxisAngle(V3FUnitY, angle)
}

func QMul(a, b Quat) Quat {
	return Quat{
		a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
		a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}

// QConj is the inverse of a unit quaternion
func QConj(q Quat) Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

func QDot(a, b Quat) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

func QNormalize(q Quat) Quat {
	m := math.Sqrt(QDot(q, q))
	if m == 0 {
		return QuatIdentity
	}
	inv := 1 / m
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// QRotate applies q to v
func QRotate(q Quat, v Vec3F) Vec3F {
	u := Vec3F{q.X, q.Y, q.Z}
	t := V3FScale(V3FCross(u, v), 2)
	return V3FAdd(V3FAdd(v, V3FScale(t, q.W)), V3FCross(u, t))
}

// QForward is the rotated -Z axis
func QForward(q Quat) Vec3F {
	return QRotate(q, V3FForward)
}

// QUp is the rotated +Y axis
func QUp(q Quat) Vec3F {
	return QRotate(q, V3FUnitY)
}

// QRight is the rotated +X axis
func QRight(q Quat) Vec3F {
	return QRotate(q, V3FUnitX)
}

// QLookTo returns the rotation whose forward (-Z) points along dir with the given up hint
// Degenerate input (zero dir or dir parallel to up) falls back to another up axis
func QLookTo(dir, up Vec3F) Quat {
	back := V3FNormalize(V3FNeg(dir))
	if V3FMagSq(back) == 0 {
		return QuatIdentity
	}
	right := V3FCross(up, back)
	if V3FMagSq(right) < 1e-12 {
		right = V3FCross(V3FUnitX, back)
		if V3FMagSq(right) < 1e-12 {
			right = V3FCross(V3FUnitZ, back)
		}
	}
	right = V3FNormalize(right)
	newUp := V3FCross(back, right)
	return qFromBasis(right, newUp, back)
}

// QLookAt points forward from eye toward target
func QLookAt(eye, target, up Vec3F) Quat {
	return QLookTo(V3FSub(target, eye), up)
}

// qFromBasis converts orthonormal column vectors to a quaternion
func qFromBasis(x, y, z Vec3F) Quat {
	m00, m01, m02 := x.X, y.X, z.X
	m10, m11, m12 := x.Y, y.Y, z.Y
	m20, m21, m22 := x.Z, y.Z, z.Z

	trace := m00 + m11 + m22
	var q Quat
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1) * 2
		q = Quat{(m21 - m12) / s, (m02 - m20) / s, (m10 - m01) / s, 0.25 * s}
	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		q = Quat{0.25 * s, (m01 + m10) / s, (m02 + m20) / s, (m21 - m12) / s}
	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		q = Quat{(m01 + m10) / s, 0.25 * s, (m12 + m21) / s, (m02 - m20) / s}
	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		q = Quat{(m02 + m20) / s, (m12 + m21) / s, 0.25 * s, (m10 - m01) / s}
	}
	return QNormalize(q)
}

// QSlerp interpolates along the shortest arc, t clamped to [0,1]
func QSlerp(a, b Quat, t float64) Quat {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	d := QDot(a, b)
	if d < 0 {
		b = Quat{-b.X, -b.Y, -b.Z, -b.W}
		d = -d
	}
	if d > 0.9995 {
		return QNormalize(Quat{
			a.X + (b.X-a.X)*t,
			a.Y + (b.Y-a.Y)*t,
			a.Z + (b.Z-a.Z)*t,
			a.W + (b.W-a.W)*t,
		})
	}
	theta := math.Acos(d)
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	return Quat{
		a.X*wa + b.X*wb,
		a.Y*wa + b.Y*wb,
		a.Z*wa + b.Z*wb,
		a.W*wa + b.W*wb,
	}
}

// QIntegrate advances q by angular velocity omega (world frame) over dt
func QIntegrate(q Quat, omega Vec3F, dt float64) Quat {
	w := Quat{omega.X, omega.Y, omega.Z, 0}
	dq := QMul(w, q)
	h := 0.5 * dt
	return QNormalize(Quat{q.X + dq.X*h, q.Y + dq.Y*h, q.Z + dq.Z*h, q.W + dq.W*h})
}

// QAngularVelocity recovers the world angular velocity that rotates prev into curr over dt
func QAngularVelocity(prev, curr Quat, dt float64) Vec3F {
	if dt <= 0 {
		return Vec3F{}
	}
	dq := QMul(curr, QConj(prev))
	s := 2 / dt
	if dq.W < 0 {
		s = -s
	}
	return Vec3F{dq.X * s, dq.Y * s, dq.Z * s}
}

// QApplyRotationVector rotates q by the small world rotation vector v (XPBD orientation update)
func QApplyRotationVector(q Quat, v Vec3F, sign float64) Quat {
	w := Quat{v.X, v.Y, v.Z, 0}
	dq := QMul(w, q)
	h := 0.5 * sign
	return QNormalize(Quat{q.X + dq.X*h, q.Y + dq.Y*h, q.Z + dq.Z*h, q.W + dq.W*h})
}
