package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/event"
)

func testOptions() options {
	return options{logLevel: "error", seed: 7, seedSet: true}
}

// TestSessionHeadless verifies the default battlefield loads and reaches the game phase
func TestSessionHeadless(t *testing.T) {
	s, err := newSession(testOptions(), false)
	if err != nil {
		t.Fatalf("Expected session, got error %v", err)
	}
	defer s.Close()

	if s.cfg.Sim.Seed != 7 {
		t.Errorf("Expected seed override 7, got %d", s.cfg.Sim.Seed)
	}
	if len(s.layout.Launchers) == 0 {
		t.Fatal("Expected launchers on the default battlefield")
	}

	s.clock.RunTicks(10)

	snap := s.world.Snapshot()
	if snap.Phase != component.PhaseGame.String() {
		t.Errorf("Expected game phase, got %s", snap.Phase)
	}
	if len(snap.Launchers) != len(s.layout.Launchers) {
		t.Errorf("Expected %d launchers in snapshot, got %d", len(s.layout.Launchers), len(snap.Launchers))
	}
	for _, l := range snap.Launchers {
		if l.State == "None" {
			t.Errorf("Expected launcher %d started after readiness, got %s", l.ID, l.State)
		}
	}
}

// TestSessionSummary verifies the run report lists counters and launchers
func TestSessionSummary(t *testing.T) {
	s, err := newSession(testOptions(), false)
	if err != nil {
		t.Fatalf("Expected session, got error %v", err)
	}
	defer s.Close()
	s.clock.RunTicks(5)

	var buf bytes.Buffer
	s.summary(&buf)
	out := buf.String()
	for _, want := range []string{"session ", "launches ", "intercepts ", "launcher "} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in summary, got %q", want, out)
		}
	}
}

// TestRunCommandFlags verifies run rejects a non-positive tick count
func TestRunCommandFlags(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"run", "--ticks", "0", "--log-level", "error"})
	root.SetOut(&bytes.Buffer{})
	if err := root.Execute(); err == nil {
		t.Error("Expected error for zero ticks")
	}
}

// TestBadBattlefield verifies a missing battlefield file fails the session
func TestBadBattlefield(t *testing.T) {
	opts := testOptions()
	opts.battlefield = "does-not-exist.yaml"
	if _, err := newSession(opts, false); err == nil {
		t.Error("Expected error for missing battlefield")
	}
}

// eventCounter counts routed events by type
type eventCounter map[event.EventType]int

func (c eventCounter) HandleEvent(ev event.GameEvent) { c[ev.Type]++ }

func (c eventCounter) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventProjectileReleased,
		event.EventTargetAssigned,
		event.EventTurretFired,
	}
}

// TestSessionPipeline verifies the default battlefield on the reference engine
// completes a launch cycle and hands the released ball to a radar
func TestSessionPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("long simulation")
	}
	s, err := newSession(testOptions(), false)
	if err != nil {
		t.Fatalf("Expected session, got error %v", err)
	}
	defer s.Close()

	counts := eventCounter{}
	s.clock.RegisterEventHandler(counts)

	// Reload is at most 10s; two full cycles fit in two simulated minutes
	limit := 120 * s.cfg.Sim.TickRate
	ticks := 0
	for ; ticks < limit; ticks++ {
		s.clock.RunTicks(1)
		if counts[event.EventProjectileReleased] > 0 && counts[event.EventTargetAssigned] > 0 {
			break
		}
	}

	if counts[event.EventProjectileReleased] == 0 {
		states := make([]string, 0, len(s.layout.Launchers))
		for _, l := range s.world.Snapshot().Launchers {
			states = append(states, l.State)
		}
		t.Fatalf("Expected a release within %d ticks, launchers in %v", limit, states)
	}
	if counts[event.EventTargetAssigned] == 0 {
		t.Fatalf("Expected a radar assignment within %d ticks", limit)
	}
	if got := s.world.Resources.Stats.Releases; got == 0 {
		t.Errorf("Expected release counted in stats, got %d", got)
	}
	t.Logf("released and assigned after %d ticks, %d bursts", ticks, counts[event.EventTurretFired])
}
