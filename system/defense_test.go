package system

import (
	"math"
	"testing"

	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/event"
	"github.com/lixenwraith/siege/physics"
	"github.com/lixenwraith/siege/vmath"
)

// outward faces +Z, toward the launchers
var outward = vmath.QFromRotationY(math.Pi)

// addRadar creates a ready radar whose antenna sits at pos facing +Z
func (h *harness) addRadar(pos vmath.Vec3F) core.Entity {
	c := &h.w.Components
	antenna := h.w.CreateEntity()
	c.Transform.SetComponent(antenna, component.TransformComponent{Position: pos, Rotation: outward})
	r := h.w.CreateEntity()
	c.Transform.SetComponent(r, component.TransformComponent{Position: pos, Rotation: outward})
	c.Radar.SetComponent(r, component.RadarComponent{Antenna: antenna})
	return r
}

// addTurret creates a ready turret with barrels at the given lateral offsets
func (h *harness) addTurret(pos vmath.Vec3F, offsets ...float64) (core.Entity, []core.Entity) {
	c := &h.w.Components
	root := h.w.CreateEntity()
	c.Transform.SetComponent(root, component.TransformComponent{Position: pos, Rotation: outward})
	var barrels []core.Entity
	for _, x := range offsets {
		b := h.w.CreateEntity()
		c.Transform.SetComponent(b, component.TransformComponent{Position: vmath.V3FAdd(pos, vmath.V3F(x, 3, 0)), Rotation: outward})
		c.Barrel.SetComponent(b, component.BarrelComponent{Turret: root})
		barrels = append(barrels, b)
	}
	c.Turret.SetComponent(root, component.TurretComponent{Barrels: barrels})
	return root, barrels
}

func (h *harness) barrel(e core.Entity) component.BarrelComponent {
	h.t.Helper()
	b, ok := h.w.Components.Barrel.GetComponent(e)
	if !ok {
		h.t.Fatalf("Expected barrel component on %d", e)
	}
	return b
}

// TestRadarRegistersOnce verifies detection is idempotent and assignment is broadcast once
func TestRadarRegistersOnce(t *testing.T) {
	h := newHarness(t)
	h.w.Resources.Game.Phase = component.PhaseGame
	h.addRadar(vmath.V3F(100, 10, 100))
	ball := h.releasedBall(vmath.V3F(100, 10, 200))
	h.pw.Cast = func(q physics.ShapeCastQuery) (physics.Hit, bool) {
		return physics.Hit{Owner: ball, Distance: 95}, true
	}

	h.tick(3)
	if got := h.w.Resources.Targets.Len(); got != 1 {
		t.Errorf("Expected 1 registered target, got %d", got)
	}
	if got := h.rec.count(event.EventTargetAssigned); got != 1 {
		t.Errorf("Expected 1 assignment broadcast, got %d", got)
	}

	q := h.pw.Casts[0]
	if q.Mask != physics.LayerAttacker || q.MaxDistance != 150 {
		t.Errorf("Expected attacker probe of range 150, got mask %v range %v", q.Mask, q.MaxDistance)
	}
	if !vmath.V3FNearlyEqual(q.Origin, vmath.V3F(100, 10, 105), 1e-9) {
		t.Errorf("Expected probe origin ahead of antenna, got %v", q.Origin)
	}
	if !vmath.V3FNearlyEqual(q.HalfExtents, vmath.V3F(25, 50, 25), 1e-9) {
		t.Errorf("Expected half extents (25,50,25), got %v", q.HalfExtents)
	}
}

// TestRadarRejectsIneligible verifies unreleased balls and bullets are never registered
func TestRadarRejectsIneligible(t *testing.T) {
	h := newHarness(t)
	h.w.Resources.Game.Phase = component.PhaseGame
	h.addRadar(vmath.V3F(0, 10, 0))

	loaded := h.w.CreateEntity()
	h.w.Components.Projectile.SetComponent(loaded, component.ProjectileComponent{Kind: component.ProjectileBall})
	bullet := h.w.CreateEntity()
	h.w.Components.Projectile.SetComponent(bullet, component.ProjectileComponent{Kind: component.ProjectileBullet})
	h.w.Components.Released.SetComponent(bullet, component.ReleasedComponent{})

	hits := []core.Entity{loaded, bullet, core.NoEntity}
	i := 0
	h.pw.Cast = func(q physics.ShapeCastQuery) (physics.Hit, bool) {
		e := hits[i%len(hits)]
		i++
		return physics.Hit{Owner: e}, true
	}
	h.tick(3)
	if got := h.w.Resources.Targets.Len(); got != 0 {
		t.Errorf("Expected no targets, got %d", got)
	}
}

// TestRadarIdleWhileLoading verifies no probe is cast before the game phase
func TestRadarIdleWhileLoading(t *testing.T) {
	h := newHarness(t)
	h.addRadar(vmath.V3F(0, 10, 0))
	stall := h.w.CreateEntity()
	h.w.Components.NotReady.SetComponent(stall, component.NotReadyComponent{})

	h.tick(2)
	if len(h.pw.Casts) != 0 {
		t.Errorf("Expected no casts while loading, got %d", len(h.pw.Casts))
	}
}

// TestRegistryRemovalOnIneligible verifies removal by identity and the no-op removal
func TestRegistryRemovalOnIneligible(t *testing.T) {
	h := newHarness(t)
	reg := h.w.Resources.Targets
	a, b := core.Entity(100), core.Entity(101)
	reg.Add(a)
	reg.Add(b)

	h.w.PushEvent(event.EventTargetIneligible, &event.TargetPayload{Target: a})
	h.w.PushEvent(event.EventTargetIneligible, &event.TargetPayload{Target: core.Entity(555)})
	h.tick(1)
	if reg.Len() != 1 || reg.Contains(a) || !reg.Contains(b) {
		t.Errorf("Expected only %d to remain, got %v", b, reg.Snapshot())
	}
}

// TestTurretAssignsNearest verifies nearest-free selection and one target per barrel
func TestTurretAssignsNearest(t *testing.T) {
	h := newHarness(t, 0.5)
	_, barrels := h.addTurret(vmath.V3F(0, 0, 100), -1.5, 1.5)
	left, right := barrels[0], barrels[1]

	first := h.releasedBall(vmath.V3F(20, 20, 160))
	second := h.releasedBall(vmath.V3F(22, 20, 160))
	third := h.releasedBall(vmath.V3F(-20, 20, 160))

	h.w.PushEvent(event.EventTargetAssigned, &event.TargetPayload{Target: first})
	h.w.PushEvent(event.EventTargetAssigned, &event.TargetPayload{Target: second})
	h.w.PushEvent(event.EventTargetAssigned, &event.TargetPayload{Target: third})
	h.tick(1)

	if got := h.barrel(right).Target; got != first {
		t.Errorf("Expected right barrel on nearest target %d, got %d", first, got)
	}
	if got := h.barrel(left).Target; got != second {
		t.Errorf("Expected left barrel on the remaining free slot %d, got %d", second, got)
	}
	for _, b := range barrels {
		if h.barrel(b).Target == third {
			t.Error("Expected third target dropped with no free barrel")
		}
	}

	// Re-announcing an assigned target changes nothing
	h.w.PushEvent(event.EventTargetAssigned, &event.TargetPayload{Target: first})
	h.tick(1)
	if h.barrel(right).Target != first || h.barrel(left).Target != second {
		t.Error("Expected assignments unchanged on duplicate announcement")
	}
}

// TestTurretCooldown verifies bursts from one barrel are spaced by the cooldown
func TestTurretCooldown(t *testing.T) {
	h := newHarness(t, 0.5)
	_, barrels := h.addTurret(vmath.V3F(0, 0, 100), 0)
	b := barrels[0]
	target := h.releasedBall(vmath.V3F(0, 30, 160))
	cfg := h.w.Resources.Config.Config.Turret

	h.w.PushEvent(event.EventTargetAssigned, &event.TargetPayload{Target: target})
	h.tick(1)
	bc := h.barrel(b)
	if !bc.Ready || bc.Bursts != 1 {
		t.Fatalf("Expected aligned first burst, got ready %v bursts %d", bc.Ready, bc.Bursts)
	}
	first := bc.LastFire

	h.tick(1)
	bullets := 0
	for _, e := range h.w.Components.Projectile.GetAllEntities() {
		if p, _ := h.w.Components.Projectile.GetComponent(e); p.Kind == component.ProjectileBullet && p.Owner == b {
			bullets++
		}
	}
	if bullets != cfg.Burst {
		t.Errorf("Expected %d bullets in a burst, got %d", cfg.Burst, bullets)
	}

	ticksPerCooldown := int(cfg.Cooldown / testTick)
	h.tick(ticksPerCooldown - 2)
	if got := h.barrel(b).Bursts; got != 1 {
		t.Errorf("Expected no burst inside the cooldown, got %d", got)
	}
	h.tick(1)
	bc = h.barrel(b)
	if bc.Bursts != 2 {
		t.Fatalf("Expected second burst after cooldown, got %d", bc.Bursts)
	}
	if gap := bc.LastFire - first; gap < cfg.Cooldown {
		t.Errorf("Expected bursts spaced by at least %v, got %v", cfg.Cooldown, gap)
	}
}

// TestTurretDropsOutOfEnvelope verifies targets behind or below are released without firing
func TestTurretDropsOutOfEnvelope(t *testing.T) {
	tests := []struct {
		name string
		pos  vmath.Vec3F
	}{
		{"behind", vmath.V3F(0, 30, 20)},
		{"below", vmath.V3F(0, -5, 160)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, 0.5)
			_, barrels := h.addTurret(vmath.V3F(0, 0, 100), 0)
			target := h.releasedBall(tt.pos)
			h.w.PushEvent(event.EventTargetAssigned, &event.TargetPayload{Target: target})
			h.tick(1)

			bc := h.barrel(barrels[0])
			if bc.Target.Valid() || bc.Ready || bc.Bursts != 0 {
				t.Errorf("Expected assignment dropped without fire, got target %d ready %v bursts %d", bc.Target, bc.Ready, bc.Bursts)
			}
		})
	}
}

// TestTurretClearsOnIneligible verifies a destroyed target clears the barrel without firing
func TestTurretClearsOnIneligible(t *testing.T) {
	h := newHarness(t, 0.5)
	_, barrels := h.addTurret(vmath.V3F(0, 0, 100), 0)
	target := h.releasedBall(vmath.V3F(0, 30, 160))
	h.w.PushEvent(event.EventTargetAssigned, &event.TargetPayload{Target: target})
	h.tick(1)

	h.w.PushEvent(event.EventTargetIneligible, &event.TargetPayload{Target: target})
	h.tick(1)
	bc := h.barrel(barrels[0])
	if bc.Target.Valid() || bc.Ready {
		t.Errorf("Expected cleared barrel, got target %d ready %v", bc.Target, bc.Ready)
	}
	if bc.Bursts != 1 {
		t.Errorf("Expected no extra burst after clearing, got %d", bc.Bursts)
	}
}

// TestSystemCommandPausesRadar verifies a disabled radar casts nothing until enabled again
func TestSystemCommandPausesRadar(t *testing.T) {
	h := newHarness(t)
	h.w.Resources.Game.Phase = component.PhaseGame
	h.addRadar(vmath.V3F(100, 10, 100))

	h.tick(1)
	if got := len(h.pw.Casts); got != 1 {
		t.Fatalf("Expected 1 cast while enabled, got %d", got)
	}

	h.w.PushEvent(event.EventSystemCommand, &event.SystemCommandPayload{System: "radar", Enabled: false})
	h.w.PushEvent(event.EventSystemCommand, &event.SystemCommandPayload{System: "launcher", Enabled: true})
	h.tick(3)
	if got := len(h.pw.Casts); got != 1 {
		t.Errorf("Expected no casts while disabled, got %d", got-1)
	}

	h.w.PushEvent(event.EventSystemCommand, &event.SystemCommandPayload{System: "radar", Enabled: true})
	h.tick(1)
	if got := len(h.pw.Casts); got != 2 {
		t.Errorf("Expected casts to resume, got %d total", got)
	}
}
