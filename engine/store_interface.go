package engine

import (
	"github.com/lixenwraith/siege/core"
)

// AnyStore provides type-erased operations for lifecycle management
// World uses it to remove a destroyed entity from every store without knowing concrete types
type AnyStore interface {
	RemoveEntity(e core.Entity)
	HasEntity(e core.Entity) bool
	CountEntities() int
	ClearAllComponents()
}

var _ AnyStore = (*Store[struct{}])(nil)
