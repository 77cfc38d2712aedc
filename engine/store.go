package engine

import (
	"sync"

	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/parameter"
)

// Store is a generic container for a specific component type T
// Sparse set: dense value and entity slices plus an index map, O(1) swap-remove
type Store[T any] struct {
	mu       sync.RWMutex
	index    map[core.Entity]int
	entities []core.Entity
	values   []T
}

// NewStore creates a new component store for type T
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		index:    make(map[core.Entity]int, parameter.StoreInitialCapacity),
		entities: make([]core.Entity, 0, parameter.StoreInitialCapacity),
		values:   make([]T, 0, parameter.StoreInitialCapacity),
	}
}

// SetComponent inserts or updates a component for an entity
func (s *Store[T]) SetComponent(e core.Entity, val T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, exists := s.index[e]; exists {
		s.values[i] = val
		return
	}
	s.index[e] = len(s.entities)
	s.entities = append(s.entities, e)
	s.values = append(s.values, val)
}

// GetComponent retrieves a component for an entity
func (s *Store[T]) GetComponent(e core.Entity) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[e]
	if !ok {
		var zero T
		return zero, false
	}
	return s.values[i], true
}

// Mutate applies fn to the stored value in place, false if absent
func (s *Store[T]) Mutate(e core.Entity, fn func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[e]
	if !ok {
		return false
	}
	fn(&s.values[i])
	return true
}

// RemoveEntity deletes a component from an entity
func (s *Store[T]) RemoveEntity(e core.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, exists := s.index[e]
	if !exists {
		return
	}
	last := len(s.entities) - 1
	if i != last {
		moved := s.entities[last]
		s.entities[i] = moved
		s.values[i] = s.values[last]
		s.index[moved] = i
	}
	var zero T
	s.values[last] = zero
	s.entities = s.entities[:last]
	s.values = s.values[:last]
	delete(s.index, e)
}

// HasEntity checks if entity has this component
func (s *Store[T]) HasEntity(e core.Entity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[e]
	return ok
}

// GetAllEntities returns a copy of all entities with this component type
// Order is insertion order until the first removal
func (s *Store[T]) GetAllEntities() []core.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]core.Entity, len(s.entities))
	copy(result, s.entities)
	return result
}

// CountEntities returns number of entities with this component
func (s *Store[T]) CountEntities() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// ClearAllComponents removes all components from this store
func (s *Store[T]) ClearAllComponents() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = make(map[core.Entity]int, parameter.StoreInitialCapacity)
	s.entities = s.entities[:0]
	s.values = s.values[:0]
}
