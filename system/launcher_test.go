package system

import (
	"bytes"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/event"
	"github.com/lixenwraith/siege/physics"
	"github.com/lixenwraith/siege/vmath"
)

// TestRigBuiltOnce verifies bodies and joints are attached once per explored launcher
func TestRigBuiltOnce(t *testing.T) {
	h := newHarness(t)
	e := h.buildLauncher(vmath.V3FZero)

	l := h.launcher(e)
	if h.w.Components.NotReady.HasEntity(e) {
		t.Error("Expected NotReady cleared after build")
	}
	if len(l.Parts.Sling) != 4 {
		t.Errorf("Expected 4 sling segments, got %d", len(l.Parts.Sling))
	}
	if len(l.Parts.Hills) != 2 {
		t.Errorf("Expected 2 hills, got %d", len(l.Parts.Hills))
	}

	// pivot, arm, counterweight, bar, lock, 2 hills, 4 segments, release end
	if got := len(h.pw.Bodies); got != 12 {
		t.Errorf("Expected 12 bodies, got %d", got)
	}
	if got := len(h.pw.JointsOfKind(physics.Revolute)); got != 2 {
		t.Errorf("Expected 2 revolute joints, got %d", got)
	}
	if got := len(h.pw.JointsOfKind(physics.Spherical)); got != 5 {
		t.Errorf("Expected 5 spherical joints, got %d", got)
	}

	end := h.pw.Bodies[h.bodyOf(l.Parts.ReleaseEnd)]
	if end.Desc.Friction != 0 || end.Desc.Restitution != 0 {
		t.Errorf("Expected frictionless release end, got friction %v restitution %v", end.Desc.Friction, end.Desc.Restitution)
	}
	if end.Desc.Group != uint32(e) {
		t.Errorf("Expected release end in launcher group %d, got %d", e, end.Desc.Group)
	}
	if pivot := h.pw.Bodies[h.bodyOf(l.Parts.Pivot)]; pivot.Desc.Kind != physics.Static {
		t.Errorf("Expected static pivot, got %v", pivot.Desc.Kind)
	}
	if lock := h.pw.Bodies[h.bodyOf(l.Parts.Lock)]; lock.Desc.Kind != physics.Static || lock.Desc.Group != uint32(e) {
		t.Errorf("Expected static lock pin in launcher group, got kind %v group %d", lock.Desc.Kind, lock.Desc.Group)
	}
	if arm := h.pw.Bodies[h.bodyOf(l.Parts.Arm)]; arm.Desc.Kind != physics.Dynamic {
		t.Errorf("Expected dynamic arm, got %v", arm.Desc.Kind)
	}
	if pj := h.joint(l.PivotJoint); pj.AngularDamping != h.w.Resources.Config.Config.Launcher.PivotDampingBuild {
		t.Errorf("Expected build damping on pivot, got %v", pj.AngularDamping)
	}

	h.w.PushEvent(event.EventRigExplored, &event.RigPayload{Launcher: e})
	h.tick(1)
	if got := len(h.pw.Bodies); got != 12 {
		t.Errorf("Expected rebuild to be ignored, got %d bodies", got)
	}
}

// TestLaunchCycle walks one launcher through a whole cycle with scripted poses
func TestLaunchCycle(t *testing.T) {
	h := newHarness(t, 0.4)
	e := h.buildLauncher(vmath.V3FZero)
	cfg := h.w.Resources.Config.Config

	l := h.launcher(e)
	if l.Reload != 7*time.Second {
		t.Fatalf("Expected reload 7s, got %v", l.Reload)
	}
	if l.Link != 0 {
		t.Errorf("Expected no link in Idle, got %d", l.Link)
	}

	h.tick(69)
	if got := h.launcher(e).State; got != component.LaunchIdle {
		t.Fatalf("Expected Idle at 6.9s, got %v", got)
	}
	h.tick(1)
	l = h.launcher(e)
	if l.State != component.LaunchTension {
		t.Fatalf("Expected Tension at 7s, got %v", l.State)
	}
	link := h.joint(l.Link)
	if link.Kind != physics.Distance || link.MinLength != 0.1 || link.MaxLength != 20 {
		t.Errorf("Expected distance link (0.1, 20), got kind %v (%v, %v)", link.Kind, link.MinLength, link.MaxLength)
	}
	if link.A != h.bodyOf(l.Parts.ReleaseEnd) || link.B != h.bodyOf(l.Parts.Bar) {
		t.Errorf("Expected link between release end and bar, got %d-%d", link.A, link.B)
	}
	if pj := h.joint(l.PivotJoint); pj.AngularDamping != cfg.Launcher.PivotDampingTension {
		t.Errorf("Expected tension damping, got %v", pj.AngularDamping)
	}

	h.tick(1)
	if got := h.joint(l.Link).MaxLength; !nearly(got, 19.95) {
		t.Errorf("Expected upper limit 19.95 after one tighten, got %v", got)
	}

	// Lower the arm: long end below the tilt threshold, sling lying by the bar
	endBody := h.bodyOf(l.Parts.ReleaseEnd)
	h.pw.Pose(h.bodyOf(l.Parts.Arm), vmath.V3F(0, 0.5, 0), vmath.QuatIdentity)
	h.pw.Pose(endBody, vmath.V3F(0, 1, 12), vmath.QuatIdentity)
	h.tick(1)
	l = h.launcher(e)
	if l.State != component.LaunchArming {
		t.Fatalf("Expected Arming after tilt, got %v", l.State)
	}
	if _, ok := h.pw.Joint(l.Link); !ok {
		t.Error("Expected Tension link to persist into Arming")
	}
	if pj := h.joint(l.PivotJoint); pj.AngularDamping != cfg.Launcher.PivotDampingRest {
		t.Errorf("Expected rest damping after Tension, got %v", pj.AngularDamping)
	}

	// Spawn request is served on the next dispatch
	h.tick(1)
	ball := h.ballOf(e)
	if h.w.Components.Released.HasEntity(ball) {
		t.Error("Expected loaded ball not yet target-eligible")
	}
	bt, _ := h.w.Components.Transform.GetComponent(ball)
	// Radii 0.55 and 0.2 plus the drop gap above the end, nudged sideways
	if !vmath.V3FNearlyEqual(bt.Position, vmath.V3F(0.35, 2.75, 12), 1e-9) {
		t.Errorf("Expected ball dropped above release end at (0.35,2.75,12), got %v", bt.Position)
	}

	h.pw.Pose(endBody, vmath.V3F(0, 5, 20), vmath.QuatIdentity)
	h.pw.EndCollision(l.Parts.ReleaseEnd, ball)
	h.tick(2)
	l = h.launcher(e)
	if l.State != component.LaunchLoose {
		t.Fatalf("Expected Loose after engagement, got %v", l.State)
	}
	links := h.pw.JointsOfKind(physics.Distance)
	if len(links) != 1 {
		t.Fatalf("Expected exactly one link, got %d", len(links))
	}
	couple := h.joint(l.Link)
	rest := 2 * cfg.Projectile.BallRadius
	if couple.B != h.bodyOf(ball) || couple.MinLength != rest || couple.MaxLength != rest {
		t.Errorf("Expected ball coupling at %v, got body %d (%v, %v)", rest, couple.B, couple.MinLength, couple.MaxLength)
	}
	if couple.Compliance <= 0 || couple.LinearDamping <= 0 {
		t.Errorf("Expected compliant damped coupling, got compliance %v damping %v", couple.Compliance, couple.LinearDamping)
	}

	// Swing up past the release threshold
	h.pw.Pose(endBody, vmath.V3F(0, 15, 1), vmath.QuatIdentity)
	h.tick(1)
	l = h.launcher(e)
	if l.State != component.LaunchIdle {
		t.Fatalf("Expected Idle after release, got %v", l.State)
	}
	if l.Link != 0 || len(h.pw.JointsOfKind(physics.Distance)) != 0 {
		t.Errorf("Expected link destroyed on release, got %d", l.Link)
	}
	if !h.w.Components.Released.HasEntity(ball) {
		t.Error("Expected released ball to be target-eligible")
	}
	lt, ok := h.w.Components.Lifetime.GetComponent(ball)
	if !ok || lt.Remaining < 15*time.Second || lt.Remaining >= 20*time.Second {
		t.Errorf("Expected lifetime in [15s, 20s), got %v", lt.Remaining)
	}
	if l.Launches != 1 {
		t.Errorf("Expected 1 launch, got %d", l.Launches)
	}

	// State sequence follows the cycle, one change per frame
	h.tick(1)
	var seq []component.LaunchState
	var frames []int64
	for _, ev := range h.rec.events {
		if p, ok := ev.Payload.(*event.LauncherStatePayload); ok && p.Launcher == e {
			seq = append(seq, p.To)
			frames = append(frames, ev.Frame)
		}
	}
	want := []component.LaunchState{
		component.LaunchIdle, component.LaunchTension, component.LaunchArming, component.LaunchLoose, component.LaunchIdle,
	}
	if !slices.Equal(seq, want) {
		t.Errorf("Expected sequence %v, got %v", want, seq)
	}
	for i := 1; i < len(frames); i++ {
		if frames[i] <= frames[i-1] {
			t.Errorf("Expected one transition per frame, got frames %v", frames)
		}
	}
}

// TestTightenSwitchesToAnchor verifies the limit shrinks to the floor before the anchor moves
func TestTightenSwitchesToAnchor(t *testing.T) {
	h := newHarness(t)
	e := h.buildLauncher(vmath.V3FZero)
	h.w.PushEvent(event.EventLaunchCommand, &event.LaunchCommandPayload{Launcher: e})
	h.tick(1)

	l := h.launcher(e)
	if l.State != component.LaunchTension {
		t.Fatalf("Expected Tension on command, got %v", l.State)
	}
	h.pw.Joints[l.Link].MaxLength = 1.02

	h.tick(1)
	j := h.joint(l.Link)
	if j.MaxLength != 1.0 || j.AnchorB.Z != 8 {
		t.Errorf("Expected limit clamped to floor with anchor untouched, got max %v anchor %v", j.MaxLength, j.AnchorB.Z)
	}

	h.tick(1)
	j = h.joint(l.Link)
	if j.MaxLength != 1.0 || !nearly(j.AnchorB.Z, 7.95) {
		t.Errorf("Expected anchor shortening at floor, got max %v anchor %v", j.MaxLength, j.AnchorB.Z)
	}
	if j.MinLength != 0.1 {
		t.Errorf("Expected lower limit unchanged, got %v", j.MinLength)
	}
}

// TestOneTransitionPerTick verifies a satisfied tick guard waits for the tick after an event transition
func TestOneTransitionPerTick(t *testing.T) {
	h := newHarness(t)
	e := h.buildLauncher(vmath.V3FZero)
	l := h.launcher(e)

	h.pw.Pose(h.bodyOf(l.Parts.Arm), vmath.V3F(0, 0.5, 0), vmath.QuatIdentity)
	h.w.PushEvent(event.EventLaunchCommand, &event.LaunchCommandPayload{})
	h.tick(1)
	if got := h.launcher(e).State; got != component.LaunchTension {
		t.Fatalf("Expected Tension after command, got %v", got)
	}
	h.tick(1)
	if got := h.launcher(e).State; got != component.LaunchArming {
		t.Errorf("Expected Arming on the following tick, got %v", got)
	}
}

// TestLaunchCommandTargets verifies a command for one launcher leaves the others idle
func TestLaunchCommandTargets(t *testing.T) {
	h := newHarness(t)
	a := h.addLauncher(vmath.V3F(-40, 0, 200))
	b := h.addLauncher(vmath.V3F(40, 0, 200))
	h.tick(3)

	h.w.PushEvent(event.EventLaunchCommand, &event.LaunchCommandPayload{Launcher: b})
	h.tick(1)
	if got := h.launcher(a).State; got != component.LaunchIdle {
		t.Errorf("Expected untargeted launcher Idle, got %v", got)
	}
	if got := h.launcher(b).State; got != component.LaunchTension {
		t.Errorf("Expected targeted launcher in Tension, got %v", got)
	}
}

// TestArmingIgnoresForeignBall verifies only an own, unreleased ball engages the sling
func TestArmingIgnoresForeignBall(t *testing.T) {
	h := newHarness(t)
	e := h.buildLauncher(vmath.V3FZero)
	l := h.launcher(e)

	h.pw.Pose(h.bodyOf(l.Parts.Arm), vmath.V3F(0, 0.5, 0), vmath.QuatIdentity)
	h.w.PushEvent(event.EventLaunchCommand, &event.LaunchCommandPayload{Launcher: e})
	h.tick(3)
	if got := h.launcher(e).State; got != component.LaunchArming {
		t.Fatalf("Expected Arming, got %v", got)
	}

	foreign := h.releasedBall(vmath.V3F(0, 5, 5))
	h.pw.EndCollision(l.Parts.ReleaseEnd, foreign)
	h.pw.EndCollision(l.Parts.ReleaseEnd, core.Entity(9999))
	h.tick(2)
	if got := h.launcher(e).State; got != component.LaunchArming {
		t.Errorf("Expected Arming to hold on foreign contact, got %v", got)
	}
}

// TestStaleLinkSkipped verifies a despawned link is a soft miss
func TestStaleLinkSkipped(t *testing.T) {
	h := newHarness(t)
	e := h.buildLauncher(vmath.V3FZero)
	h.w.PushEvent(event.EventLaunchCommand, &event.LaunchCommandPayload{Launcher: e})
	h.tick(1)

	l := h.launcher(e)
	h.pw.RemoveJoint(l.Link)
	h.tick(5)
	if got := h.launcher(e).State; got != component.LaunchTension {
		t.Errorf("Expected Tension to continue without a link, got %v", got)
	}
}

// TestArmingRetriesUnengagedBall verifies a ball that never leaves the sling is replaced
func TestArmingRetriesUnengagedBall(t *testing.T) {
	h := newHarness(t)
	e := h.buildLauncher(vmath.V3FZero)
	l := h.launcher(e)

	h.pw.Pose(h.bodyOf(l.Parts.Arm), vmath.V3F(0, 0.5, 0), vmath.QuatIdentity)
	h.w.PushEvent(event.EventLaunchCommand, &event.LaunchCommandPayload{Launcher: e})
	h.tick(3)
	if got := h.launcher(e).State; got != component.LaunchArming {
		t.Fatalf("Expected Arming, got %v", got)
	}
	first := h.ballOf(e)

	retry := h.w.Resources.Config.Config.Launcher.ArmingRetry
	h.tick(int(retry/testTick) + 2)

	if got := h.launcher(e).State; got != component.LaunchArming {
		t.Errorf("Expected Arming to hold across a retry, got %v", got)
	}
	if h.w.Components.Projectile.HasEntity(first) {
		t.Error("Expected the stale ball destroyed")
	}
	second := h.ballOf(e)
	if second == first {
		t.Error("Expected a fresh ball")
	}
	if h.w.Components.Released.HasEntity(second) || h.w.Components.Lifetime.HasEntity(second) {
		t.Error("Expected the fresh ball loaded without a lifetime")
	}
	if got := h.rec.count(event.EventProjectileSpawned); got != 2 {
		t.Errorf("Expected 2 spawns, got %d", got)
	}
	if got := h.rec.count(event.EventTargetIneligible); got != 0 {
		t.Errorf("Expected no ineligible event for an unreleased ball, got %d", got)
	}

	h.pw.EndCollision(l.Parts.ReleaseEnd, second)
	h.tick(2)
	if got := h.launcher(e).State; got != component.LaunchLoose {
		t.Errorf("Expected the fresh ball to engage, got %v", got)
	}
}

// TestRigBuildSkipLogged verifies a refused build is reported once and leaves the launcher NotReady
func TestRigBuildSkipLogged(t *testing.T) {
	h := newHarness(t)
	var buf bytes.Buffer
	h.w.Resources.Log = log.New(&buf)

	e := h.addLauncher(vmath.V3FZero)
	for _, n := range h.w.Components.Tag.GetAllEntities() {
		if tag, _ := h.w.Components.Tag.GetComponent(n); tag.Tag == "Pivot" {
			h.w.Components.Transform.RemoveEntity(n)
		}
	}
	h.tick(3)

	for range 2 {
		h.w.PushEvent(event.EventRigExplored, &event.RigPayload{Launcher: e})
		h.tick(1)
	}

	if got := strings.Count(buf.String(), "rig build skipped"); got != 1 {
		t.Errorf("Expected skip reported once, got %d in %q", got, buf.String())
	}
	if !strings.Contains(buf.String(), "pivot has no transform") {
		t.Errorf("Expected reason in log, got %q", buf.String())
	}
	if !h.w.Components.NotReady.HasEntity(e) {
		t.Error("Expected launcher to stay NotReady")
	}
	if got := len(h.pw.Bodies); got != 0 {
		t.Errorf("Expected no bodies, got %d", got)
	}
}
