package engine

import (
	"slices"

	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/vmath"
)

// Point is a compact wire form of a vector
type Point [3]float64

func toPoint(v vmath.Vec3F) Point {
	return Point{v.X, v.Y, v.Z}
}

// Snapshot is an immutable copy of the observable world for viewers and network readers
type Snapshot struct {
	SessionID string  `json:"session_id" msgpack:"session_id"`
	Frame     int64   `json:"frame" msgpack:"frame"`
	Elapsed   float64 `json:"elapsed" msgpack:"elapsed"` // Seconds
	Phase     string  `json:"phase" msgpack:"phase"`
	Fortress  Point   `json:"fortress" msgpack:"fortress"`

	Launchers   []LauncherView   `json:"launchers" msgpack:"launchers"`
	Projectiles []ProjectileView `json:"projectiles" msgpack:"projectiles"`
	Barrels     []BarrelView     `json:"barrels" msgpack:"barrels"`
	Radars      []Point          `json:"radars" msgpack:"radars"`
	Targets     []uint64         `json:"targets" msgpack:"targets"`
	Stats       StatsResource    `json:"stats" msgpack:"stats"`
}

// LauncherView is a launcher's public state
type LauncherView struct {
	ID         uint64  `json:"id" msgpack:"id"`
	State      string  `json:"state" msgpack:"state"`
	Ready      bool    `json:"ready" msgpack:"ready"`
	Position   Point   `json:"position" msgpack:"position"`
	ReleaseEnd Point   `json:"release_end" msgpack:"release_end"`
	Reload     float64 `json:"reload" msgpack:"reload"` // Seconds remaining in Idle
	Linked     bool    `json:"linked" msgpack:"linked"`
	Launches   int     `json:"launches" msgpack:"launches"`
}

// ProjectileView is a live projectile
type ProjectileView struct {
	ID       uint64  `json:"id" msgpack:"id"`
	Kind     string  `json:"kind" msgpack:"kind"`
	Position Point   `json:"position" msgpack:"position"`
	Released bool    `json:"released" msgpack:"released"`
	Lifetime float64 `json:"lifetime" msgpack:"lifetime"` // Seconds, zero when untimed
}

// BarrelView is one firing unit
type BarrelView struct {
	ID       uint64 `json:"id" msgpack:"id"`
	Position Point  `json:"position" msgpack:"position"`
	Forward  Point  `json:"forward" msgpack:"forward"`
	Target   uint64 `json:"target" msgpack:"target"`
	Ready    bool   `json:"ready" msgpack:"ready"`
	Bursts   int    `json:"bursts" msgpack:"bursts"`
}

// Snapshot copies observable state under the world lock
func (w *World) Snapshot() *Snapshot {
	var s *Snapshot
	w.RunSafe(func() {
		s = w.SnapshotLocked()
	})
	return s
}

// SnapshotLocked copies observable state, caller holds the world lock
func (w *World) SnapshotLocked() *Snapshot {
	res := &w.Resources
	s := &Snapshot{
		SessionID: res.Game.SessionID.String(),
		Frame:     res.Time.FrameNumber,
		Elapsed:   res.Time.Elapsed.Seconds(),
		Phase:     res.Game.Phase.String(),
		Fortress:  toPoint(res.Fortress.Position),
		Stats:     *res.Stats,
	}

	c := &w.Components
	launchers := c.Launcher.GetAllEntities()
	slices.Sort(launchers)
	for _, e := range launchers {
		l, ok := c.Launcher.GetComponent(e)
		if !ok {
			continue
		}
		view := LauncherView{
			ID:       uint64(e),
			State:    l.State.String(),
			Ready:    !c.NotReady.HasEntity(e),
			Reload:   l.ReloadRemaining.Seconds(),
			Linked:   l.Link != 0,
			Launches: l.Launches,
		}
		if t, ok := c.Transform.GetComponent(e); ok {
			view.Position = toPoint(t.Position)
		}
		if t, ok := c.Transform.GetComponent(l.Parts.ReleaseEnd); ok {
			view.ReleaseEnd = toPoint(t.Position)
		}
		s.Launchers = append(s.Launchers, view)
	}

	projectiles := c.Projectile.GetAllEntities()
	slices.Sort(projectiles)
	for _, e := range projectiles {
		p, ok := c.Projectile.GetComponent(e)
		if !ok {
			continue
		}
		view := ProjectileView{
			ID:       uint64(e),
			Kind:     p.Kind.String(),
			Released: c.Released.HasEntity(e),
		}
		if t, ok := c.Transform.GetComponent(e); ok {
			view.Position = toPoint(t.Position)
		}
		if lt, ok := c.Lifetime.GetComponent(e); ok {
			view.Lifetime = lt.Remaining.Seconds()
		}
		s.Projectiles = append(s.Projectiles, view)
	}

	barrels := c.Barrel.GetAllEntities()
	slices.Sort(barrels)
	for _, e := range barrels {
		b, ok := c.Barrel.GetComponent(e)
		if !ok {
			continue
		}
		view := BarrelView{
			ID:     uint64(e),
			Target: uint64(b.Target),
			Ready:  b.Ready,
			Bursts: b.Bursts,
		}
		if t, ok := c.Transform.GetComponent(e); ok {
			view.Position = toPoint(t.Position)
			view.Forward = toPoint(t.Forward())
		}
		s.Barrels = append(s.Barrels, view)
	}

	for _, p := range res.Radars.Positions {
		s.Radars = append(s.Radars, toPoint(p))
	}
	for _, t := range res.Targets.Snapshot() {
		s.Targets = append(s.Targets, uint64(t))
	}
	return s
}

// Launcher returns the view of one launcher, false if e is not a launcher
func (s *Snapshot) Launcher(e core.Entity) (LauncherView, bool) {
	for _, l := range s.Launchers {
		if l.ID == uint64(e) {
			return l, true
		}
	}
	return LauncherView{}, false
}
