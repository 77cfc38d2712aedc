// Package render draws a top-down terminal view of the battlefield with tcell
package render

import (
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/engine"
	"github.com/lixenwraith/siege/parameter"
)

// RenderContext is the per-frame input shared by every renderer
type RenderContext struct {
	Snapshot   *engine.Snapshot
	Projection Projection
	Selected   core.Entity

	Width, Height int // Full screen
}

// NewRenderContext fits the map area of a width x height screen to the snapshot
func NewRenderContext(s *engine.Snapshot, width, height int, selected core.Entity) *RenderContext {
	return &RenderContext{
		Snapshot:   s,
		Projection: Fit(s, width, max(1, height-parameter.ViewStatusRows)),
		Selected:   selected,
		Width:      width,
		Height:     height,
	}
}

// Projection maps the world XZ plane onto screen cells, +Z toward the top
type Projection struct {
	minX, maxZ     float64
	scaleX, scaleZ float64 // Cells per world unit
	width, height  int
}

// Fit frames every placed structure of s with padding, keeping the cell aspect
func Fit(s *engine.Snapshot, width, height int) Projection {
	minX, maxX, minZ, maxZ := 0.0, 0.0, 0.0, 0.0
	first := true
	grow := func(p engine.Point) {
		if first {
			minX, maxX, minZ, maxZ = p[0], p[0], p[2], p[2]
			first = false
			return
		}
		minX, maxX = min(minX, p[0]), max(maxX, p[0])
		minZ, maxZ = min(minZ, p[2]), max(maxZ, p[2])
	}

	grow(s.Fortress)
	for _, l := range s.Launchers {
		grow(l.Position)
	}
	for _, r := range s.Radars {
		grow(r)
	}
	for _, b := range s.Barrels {
		grow(b.Position)
	}

	pad := parameter.ViewMapPadding
	minX, maxX, minZ, maxZ = minX-pad, maxX+pad, minZ-pad, maxZ+pad

	sz := float64(height) / (maxZ - minZ)
	sx := float64(width) / (maxX - minX) / parameter.ViewCellAspect
	s0 := min(sx, sz)

	// Center the short axis
	spanX := float64(width) / (s0 * parameter.ViewCellAspect)
	spanZ := float64(height) / s0
	cx, cz := (minX+maxX)/2, (minZ+maxZ)/2

	return Projection{
		minX:   cx - spanX/2,
		maxZ:   cz + spanZ/2,
		scaleX: s0 * parameter.ViewCellAspect,
		scaleZ: s0,
		width:  width,
		height: height,
	}
}

// Project returns the cell of p, false when it falls outside the map area
func (p Projection) Project(pt engine.Point) (x, y int, ok bool) {
	fx := (pt[0] - p.minX) * p.scaleX
	fy := (p.maxZ - pt[2]) * p.scaleZ
	if fx < 0 || fy < 0 {
		return 0, 0, false
	}
	x, y = int(fx), int(fy)
	if x >= p.width || y >= p.height {
		return 0, 0, false
	}
	return x, y, true
}
