package vmath

import "math"

// SeparateOverlap3DF pushes overlapping spheres apart weighted by inverse mass
// Static bodies pass invMass 0
// Returns (newPosA, newPosB, separated)
func SeparateOverlap3DF(posA, posB Vec3F, radiusA, radiusB, invA, invB float64) (Vec3F, Vec3F, bool) {
	delta := V3FSub(posB, posA)
	dist := V3FMag(delta)
	minDist := radiusA + radiusB

	if dist >= minDist || dist == 0 {
		return posA, posB, false
	}

	invSum := invA + invB
	if invSum == 0 {
		return posA, posB, false
	}

	overlap := minDist - dist
	n := V3FScale(delta, 1/dist)

	newPosA := V3FSub(posA, V3FScale(n, overlap*invA/invSum))
	newPosB := V3FAdd(posB, V3FScale(n, overlap*invB/invSum))
	return newPosA, newPosB, true
}

// ContactImpulse3DF resolves approaching velocity along normal n (A toward B)
// Returns (newVelA, newVelB, applied)
func ContactImpulse3DF(velA, velB, n Vec3F, invA, invB, restitution float64) (Vec3F, Vec3F, bool) {
	relVel := V3FSub(velA, velB)
	vn := V3FDot(relVel, n)

	// Already separating
	if vn <= 0 {
		return velA, velB, false
	}

	invSum := invA + invB
	if invSum == 0 {
		return velA, velB, false
	}

	// j = (1 + e) * vn / (1/mA + 1/mB)
	j := (1 + restitution) * vn / invSum

	return V3FSub(velA, V3FScale(n, j*invA)), V3FAdd(velB, V3FScale(n, j*invB)), true
}

// FrictionImpulse3DF removes tangential relative velocity up to mu times the normal correction
func FrictionImpulse3DF(velA, velB, n Vec3F, invA, invB, mu, normalDelta float64) (Vec3F, Vec3F) {
	invSum := invA + invB
	if invSum == 0 || mu <= 0 {
		return velA, velB
	}
	rel := V3FSub(velA, velB)
	tangent := V3FSub(rel, V3FScale(n, V3FDot(rel, n)))
	tMag := V3FMag(tangent)
	if tMag == 0 {
		return velA, velB
	}
	dv := math.Min(tMag, mu*math.Abs(normalDelta))
	t := V3FScale(tangent, dv/(tMag*invSum))
	return V3FSub(velA, V3FScale(t, invA)), V3FAdd(velB, V3FScale(t, invB))
}

// ReflectAxis3DF clamps a component at a floor and reflects its velocity
func ReflectAxis3DF(pos, vel *float64, lo, restitution float64) bool {
	if *pos >= lo {
		return false
	}
	*pos = lo
	if *vel < 0 {
		*vel = -*vel * restitution
	}
	return true
}

// ClosestPointOBB returns the point of an oriented box nearest to p
func ClosestPointOBB(p, center Vec3F, rot Quat, half Vec3F) Vec3F {
	local := QRotate(QConj(rot), V3FSub(p, center))
	local.X = clamp(local.X, -half.X, half.X)
	local.Y = clamp(local.Y, -half.Y, half.Y)
	local.Z = clamp(local.Z, -half.Z, half.Z)
	return V3FAdd(center, QRotate(rot, local))
}

// InsideOBB reports whether p lies inside the oriented box
func InsideOBB(p, center Vec3F, rot Quat, half Vec3F) bool {
	local := QRotate(QConj(rot), V3FSub(p, center))
	return math.Abs(local.X) <= half.X && math.Abs(local.Y) <= half.Y && math.Abs(local.Z) <= half.Z
}

// SegmentAABB intersects the segment from+dir*t, t in [0,maxT], with an axis-aligned box
// Returns the entry parameter and whether the segment hits
func SegmentAABB(from, dir, min, max Vec3F, maxT float64) (float64, bool) {
	tMin, tMax := 0.0, maxT
	o := [3]float64{from.X, from.Y, from.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	lo := [3]float64{min.X, min.Y, min.Z}
	hi := [3]float64{max.X, max.Y, max.Z}
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / d[i]
		t1 := (lo[i] - o[i]) * inv
		t2 := (hi[i] - o[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits t to [0,1]
func Clamp01(t float64) float64 {
	return clamp(t, 0, 1)
}
