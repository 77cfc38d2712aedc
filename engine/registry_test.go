package engine

import (
	"testing"
	"time"

	"github.com/lixenwraith/siege/core"
)

// TestTargetRegistryDedupe verifies no duplicate handles
func TestTargetRegistryDedupe(t *testing.T) {
	r := NewTargetRegistry()
	if !r.Add(3) {
		t.Fatal("Expected first add to insert")
	}
	if r.Add(3) {
		t.Error("Expected duplicate add to be a no-op")
	}
	if r.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", r.Len())
	}
}

// TestTargetRegistryRemove verifies swap-remove and absent removal
func TestTargetRegistryRemove(t *testing.T) {
	r := NewTargetRegistry()
	for _, e := range []core.Entity{1, 2, 3, 4} {
		r.Add(e)
	}

	if r.Remove(9) {
		t.Error("Expected removing absent handle to report false")
	}
	if r.Len() != 4 {
		t.Errorf("Expected size unchanged at 4, got %d", r.Len())
	}

	r.Remove(2)
	if r.Contains(2) {
		t.Error("Expected 2 removed")
	}
	for _, e := range []core.Entity{1, 3, 4} {
		if !r.Contains(e) {
			t.Errorf("Expected %d still present", e)
		}
	}
	r.Remove(4)
	r.Remove(1)
	snap := r.Snapshot()
	if len(snap) != 1 || snap[0] != 3 {
		t.Errorf("Expected [3], got %v", snap)
	}
}

// TestFixedRandCycle verifies sequence replay
func TestFixedRandCycle(t *testing.T) {
	r := NewFixedRand(0.25, 0.75)
	got := []float64{r.Float64(), r.Float64(), r.Float64()}
	if got[0] != 0.25 || got[1] != 0.75 || got[2] != 0.25 {
		t.Errorf("Expected cycling sequence, got %v", got)
	}
	if NewFixedRand().Float64() != 0 {
		t.Error("Expected empty sequence to yield 0")
	}
}

// TestRandDuration verifies range mapping
func TestRandDuration(t *testing.T) {
	r := NewFixedRand(0.5)
	if d := RandDuration(r, 5*time.Second, 10*time.Second); d != 7500*time.Millisecond {
		t.Errorf("Expected 7.5s, got %v", d)
	}
	if d := RandDuration(r, 5*time.Second, 5*time.Second); d != 5*time.Second {
		t.Errorf("Expected degenerate range to return lo, got %v", d)
	}
	if v := RandRange(NewFixedRand(0.5), -1, 1); v != 0 {
		t.Errorf("Expected 0, got %g", v)
	}
}

// TestSeededRandomDeterministic verifies equal seeds produce equal streams
func TestSeededRandomDeterministic(t *testing.T) {
	a, b := NewRandom(42), NewRandom(42)
	for i := 0; i < 10; i++ {
		va, vb := a.Float64(), b.Float64()
		if va != vb {
			t.Fatalf("Expected identical streams, diverged at %d", i)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("Expected [0,1), got %g", va)
		}
	}
}
