// Package fsm is a generic hierarchical state machine whose graph is shared by many entities
// The graph is immutable after load; each entity keeps its own Instance
package fsm

import (
	"time"

	"github.com/lixenwraith/siege/event"
)

// StateID is a unique identifier for a node
type StateID int

const (
	StateNone StateID = 0
	StateRoot StateID = 1
)

// Machine is the graph plus its guard and action registries
// T is the context type passed to actions and guards
type Machine[T any] struct {
	// Graph data, immutable after load
	nodes map[StateID]*Node[T]
	names map[string]StateID

	InitialStateID StateID

	// Dependency injection
	guardReg        map[string]GuardFunc[T]
	guardFactoryReg map[string]GuardFactoryFunc[T]
	actionReg       map[string]ActionFunc[T]
}

// Node represents a state in the hierarchy
type Node[T any] struct {
	ID       StateID
	Name     string
	ParentID StateID

	// Pre-calculated path from Root to this node, used for LCA lookup
	Path []StateID

	OnEnter  []Action[T]
	OnUpdate []Action[T]
	OnExit   []Action[T]

	// Transitions in evaluation order
	Transitions []Transition[T]
}

// Transition defines a link between states
type Transition[T any] struct {
	TargetID StateID
	Event    event.EventType // 0 = Tick (auto-transition)
	Guard    GuardFunc[T]    // nil = Always true
}

// Action represents a side-effect
type Action[T any] struct {
	Func ActionFunc[T]
	Args any // Pre-compiled args from config
}

// Instance is the runtime position of one entity in the graph
type Instance struct {
	ActiveStateID StateID
	TimeInState   time.Duration
	ActivePath    []StateID
}

// Active reports whether the instance has been started
func (i *Instance) Active() bool {
	return i.ActiveStateID != StateNone
}

// GuardFunc returns true if the transition should occur
type GuardFunc[T any] func(ctx T, inst *Instance) bool

// ActionFunc executes a side effect
type ActionFunc[T any] func(ctx T, args any)

// GuardFactoryFunc creates a parameterized guard from config args
type GuardFactoryFunc[T any] func(args map[string]any) (GuardFunc[T], error)
