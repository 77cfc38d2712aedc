package pbd

import (
	"math"

	"github.com/lixenwraith/siege/physics"
	"github.com/lixenwraith/siege/vmath"
)

// ShapeCast sweeps the probe box against each body's bounds
// Bounds are axis aligned boxes enlarged by the probe's own world extent
func (e *Engine) ShapeCast(q physics.ShapeCastQuery) (physics.Hit, bool) {
	dir := vmath.V3FNormalize(q.Direction)
	if vmath.V3FMagSq(dir) == 0 || q.MaxDistance <= 0 {
		return physics.Hit{}, false
	}
	rot := q.Rotation
	if rot == (vmath.Quat{}) {
		rot = vmath.QuatIdentity
	}
	probe := worldHalfExtents(rot, q.HalfExtents)

	best := physics.Hit{Distance: math.Inf(1)}
	found := false
	for _, b := range e.order {
		if b.desc.Layers&q.Mask == 0 {
			continue
		}
		half := vmath.V3FAdd(worldHalfExtents(b.rot, localHalfExtents(b.desc.Shape)), probe)
		t, ok := vmath.SegmentAABB(q.Origin, dir, vmath.V3FSub(b.pos, half), vmath.V3FAdd(b.pos, half), q.MaxDistance)
		if !ok {
			continue
		}
		if t == 0 && q.IgnoreOriginPenetration {
			continue
		}
		if t < best.Distance {
			best = physics.Hit{Body: b.id, Owner: b.desc.Owner, Distance: t}
			found = true
		}
	}
	if !found {
		return physics.Hit{}, false
	}
	return best, true
}
