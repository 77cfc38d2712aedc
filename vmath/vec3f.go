package vmath

import (
	"math"
)

// Vec3F is a float64 3D vector for physics-heavy calculations
type Vec3F struct {
	X, Y, Z float64
}

// Axis constants, right-handed, Y up, -Z forward
var (
	V3FZero    = Vec3F{}
	V3FOne     = Vec3F{1, 1, 1}
	V3FUnitX   = Vec3F{1, 0, 0}
	V3FUnitY   = Vec3F{0, 1, 0}
	V3FUnitZ   = Vec3F{0, 0, 1}
	V3FForward = Vec3F{0, 0, -1}
)

func V3F(x, y, z float64) Vec3F {
	return Vec3F{x, y, z}
}

func V3FAdd(a, b Vec3F) Vec3F {
	return Vec3F{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3FSub(a, b Vec3F) Vec3F {
	return Vec3F{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3FScale(v Vec3F, s float64) Vec3F {
	return Vec3F{v.X * s, v.Y * s, v.Z * s}
}

// V3FMul is the component-wise product
func V3FMul(a, b Vec3F) Vec3F {
	return Vec3F{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

// V3FAddScaled returns a + b*s
func V3FAddScaled(a, b Vec3F, s float64) Vec3F {
	return Vec3F{a.X + b.X*s, a.Y + b.Y*s, a.Z + b.Z*s}
}

func V3FNeg(v Vec3F) Vec3F {
	return Vec3F{-v.X, -v.Y, -v.Z}
}

func V3FDot(a, b Vec3F) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func V3FCross(a, b Vec3F) Vec3F {
	return Vec3F{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func V3FMagSq(v Vec3F) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3FMag(v Vec3F) float64 {
	return math.Sqrt(V3FMagSq(v))
}

func V3FDistSq(a, b Vec3F) float64 {
	return V3FMagSq(V3FSub(a, b))
}

func V3FNormalize(v Vec3F) Vec3F {
	mag := V3FMag(v)
	if mag == 0 {
		return Vec3F{}
	}
	inv := 1.0 / mag
	return Vec3F{v.X * inv, v.Y * inv, v.Z * inv}
}

// V3FLerp interpolates linearly, t unclamped
func V3FLerp(a, b Vec3F, t float64) Vec3F {
	return Vec3F{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// V3FAbs returns component-wise absolute values
func V3FAbs(v Vec3F) Vec3F {
	return Vec3F{math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)}
}

// Signum returns -1, 0 or 1 matching the sign of x
func Signum(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// V3FWithY replaces the Y component
func V3FWithY(v Vec3F, y float64) Vec3F {
	v.Y = y
	return v
}

// V3FNearlyEqual compares within an absolute tolerance per axis
func V3FNearlyEqual(a, b Vec3F, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}
