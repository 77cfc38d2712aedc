package engine

import "github.com/lixenwraith/siege/core"

// TargetRegistry is the session-wide set of projectiles assigned to defenders
// Written only by systems during the update phase
type TargetRegistry struct {
	index   map[core.Entity]int
	targets []core.Entity
}

func NewTargetRegistry() *TargetRegistry {
	return &TargetRegistry{index: make(map[core.Entity]int)}
}

// Add inserts e, returns false if already present
func (r *TargetRegistry) Add(e core.Entity) bool {
	if _, ok := r.index[e]; ok {
		return false
	}
	r.index[e] = len(r.targets)
	r.targets = append(r.targets, e)
	return true
}

// Remove deletes e by swap-remove, returns false if absent
func (r *TargetRegistry) Remove(e core.Entity) bool {
	i, ok := r.index[e]
	if !ok {
		return false
	}
	last := len(r.targets) - 1
	if i != last {
		moved := r.targets[last]
		r.targets[i] = moved
		r.index[moved] = i
	}
	r.targets = r.targets[:last]
	delete(r.index, e)
	return true
}

func (r *TargetRegistry) Contains(e core.Entity) bool {
	_, ok := r.index[e]
	return ok
}

func (r *TargetRegistry) Len() int {
	return len(r.targets)
}

// Snapshot returns a copy of the current entries
func (r *TargetRegistry) Snapshot() []core.Entity {
	out := make([]core.Entity, len(r.targets))
	copy(out, r.targets)
	return out
}

// Clear empties the registry
func (r *TargetRegistry) Clear() {
	clear(r.index)
	r.targets = r.targets[:0]
}
