package system

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/engine"
	"github.com/lixenwraith/siege/event"
	"github.com/lixenwraith/siege/physics"
	"github.com/lixenwraith/siege/physics/physicstest"
	"github.com/lixenwraith/siege/scene"
	"github.com/lixenwraith/siege/vmath"
)

const testTick = 100 * time.Millisecond

// recorder captures routed events of the listed types
type recorder struct {
	types  []event.EventType
	events []event.GameEvent
}

func (r *recorder) HandleEvent(ev event.GameEvent) { r.events = append(r.events, ev) }
func (r *recorder) EventTypes() []event.EventType { return r.types }

func (r *recorder) count(t event.EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

// harness is a world with every system installed over the scripted physics fake
type harness struct {
	t     *testing.T
	w     *engine.World
	pw    *physicstest.Engine
	clock *engine.ClockScheduler
	rec   *recorder
}

func newHarness(t *testing.T, rnd ...float64) *harness {
	t.Helper()
	pw := physicstest.New()
	w := engine.NewTestWorld(pw, engine.NewFixedRand(rnd...))
	cs := engine.NewClockScheduler(w, testTick)
	Install(w, cs)

	rec := &recorder{types: []event.EventType{
		event.EventLauncherStateChanged,
		event.EventProjectileSpawned,
		event.EventProjectileReleased,
		event.EventProjectileDestroyed,
		event.EventTargetAssigned,
		event.EventTargetIneligible,
		event.EventTurretFired,
		event.EventGamePhaseChanged,
	}}
	cs.RegisterEventHandler(rec)

	return &harness{t: t, w: w, pw: pw, clock: cs, rec: rec}
}

func (h *harness) tick(n int) {
	h.clock.RunTicks(n)
}

// addLauncher instantiates the default trebuchet facing -Z
func (h *harness) addLauncher(pos vmath.Vec3F) core.Entity {
	h.t.Helper()
	lib, err := scene.DefaultLibrary()
	if err != nil {
		h.t.Fatalf("Expected default library, got %v", err)
	}
	a, err := lib.Get("trebuchet")
	if err != nil {
		h.t.Fatalf("Expected trebuchet asset, got %v", err)
	}
	return scene.Instantiate(h.w, a, pos, vmath.QuatIdentity)
}

// buildLauncher adds a launcher and ticks through discovery, build and start
func (h *harness) buildLauncher(pos vmath.Vec3F) core.Entity {
	h.t.Helper()
	e := h.addLauncher(pos)
	h.tick(3)
	if got := h.launcher(e).State; got != component.LaunchIdle {
		h.t.Fatalf("Expected Idle after build, got %v", got)
	}
	return e
}

func (h *harness) launcher(e core.Entity) component.LauncherComponent {
	h.t.Helper()
	l, ok := h.w.Components.Launcher.GetComponent(e)
	if !ok {
		h.t.Fatalf("Expected launcher component on %d", e)
	}
	return l
}

func (h *harness) bodyOf(e core.Entity) physics.BodyID {
	h.t.Helper()
	b, ok := h.w.Components.Body.GetComponent(e)
	if !ok {
		h.t.Fatalf("Expected body on %d", e)
	}
	return b.Body
}

func (h *harness) joint(id physics.JointID) physics.JointDesc {
	h.t.Helper()
	j, ok := h.pw.Joint(id)
	if !ok {
		h.t.Fatalf("Expected live joint %d", id)
	}
	return j
}

// ballOf returns the single ball owned by a launcher
func (h *harness) ballOf(owner core.Entity) core.Entity {
	h.t.Helper()
	found := core.NoEntity
	for _, e := range h.w.Components.Projectile.GetAllEntities() {
		p, _ := h.w.Components.Projectile.GetComponent(e)
		if p.Kind == component.ProjectileBall && p.Owner == owner {
			if found.Valid() {
				h.t.Fatalf("Expected one ball of %d, found %d and %d", owner, found, e)
			}
			found = e
		}
	}
	if !found.Valid() {
		h.t.Fatalf("Expected a ball owned by %d", owner)
	}
	return found
}

// releasedBall creates a target-eligible ball without a body
func (h *harness) releasedBall(pos vmath.Vec3F) core.Entity {
	c := &h.w.Components
	e := h.w.CreateEntity()
	c.Projectile.SetComponent(e, component.ProjectileComponent{Kind: component.ProjectileBall})
	c.Released.SetComponent(e, component.ReleasedComponent{})
	c.Lifetime.SetComponent(e, component.LifetimeComponent{Remaining: time.Minute})
	c.Transform.SetComponent(e, component.TransformComponent{Position: pos, Rotation: vmath.QuatIdentity})
	return e
}

func nearly(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
