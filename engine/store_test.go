package engine

import (
	"testing"

	"github.com/lixenwraith/siege/core"
)

type mockComponent struct {
	Value int
}

// Test set, get, overwrite and swap-remove keep index consistent
func TestStoreLifecycle(t *testing.T) {
	s := NewStore[mockComponent]()
	for i := 1; i <= 4; i++ {
		s.SetComponent(core.Entity(i), mockComponent{Value: i * 10})
	}
	if s.CountEntities() != 4 {
		t.Fatalf("Expected 4 entities, got %d", s.CountEntities())
	}

	s.SetComponent(2, mockComponent{Value: 99})
	if v, _ := s.GetComponent(2); v.Value != 99 {
		t.Errorf("Expected overwrite to 99, got %d", v.Value)
	}
	if s.CountEntities() != 4 {
		t.Errorf("Expected overwrite to keep count 4, got %d", s.CountEntities())
	}

	// Removing the first moves the last into its slot
	s.RemoveEntity(1)
	if s.HasEntity(1) {
		t.Error("Expected entity 1 removed")
	}
	if v, ok := s.GetComponent(4); !ok || v.Value != 40 {
		t.Errorf("Expected entity 4 intact after swap, got %v %v", v, ok)
	}

	// Removing absent entity is a no-op
	s.RemoveEntity(1)
	s.RemoveEntity(77)
	if s.CountEntities() != 3 {
		t.Errorf("Expected 3 entities, got %d", s.CountEntities())
	}

	seen := make(map[core.Entity]bool)
	for _, e := range s.GetAllEntities() {
		seen[e] = true
	}
	for _, e := range []core.Entity{2, 3, 4} {
		if !seen[e] {
			t.Errorf("Expected entity %d in listing", e)
		}
	}
}

// Test mutate in place
func TestStoreMutate(t *testing.T) {
	s := NewStore[mockComponent]()
	s.SetComponent(5, mockComponent{Value: 1})

	if !s.Mutate(5, func(c *mockComponent) { c.Value++ }) {
		t.Fatal("Expected mutate to find entity")
	}
	if v, _ := s.GetComponent(5); v.Value != 2 {
		t.Errorf("Expected 2, got %d", v.Value)
	}
	if s.Mutate(6, func(c *mockComponent) { c.Value++ }) {
		t.Error("Expected mutate on absent entity to return false")
	}
}

// Test clear resets store
func TestStoreClear(t *testing.T) {
	s := NewStore[mockComponent]()
	s.SetComponent(1, mockComponent{})
	s.SetComponent(2, mockComponent{})
	s.ClearAllComponents()
	if s.CountEntities() != 0 || s.HasEntity(1) {
		t.Error("Expected empty store after clear")
	}
	s.SetComponent(3, mockComponent{Value: 3})
	if v, ok := s.GetComponent(3); !ok || v.Value != 3 {
		t.Error("Expected store usable after clear")
	}
}
