package fsm

import (
	"fmt"
	"time"

	"github.com/lixenwraith/siege/event"
)

// NewMachine creates an empty graph with the built-in guard factories registered
func NewMachine[T any]() *Machine[T] {
	m := &Machine[T]{
		nodes:           make(map[StateID]*Node[T]),
		names:           make(map[string]StateID),
		guardReg:        make(map[string]GuardFunc[T]),
		guardFactoryReg: make(map[string]GuardFactoryFunc[T]),
		actionReg:       make(map[string]ActionFunc[T]),
	}
	m.RegisterGuardFactory("StateTimeExceeds", stateTimeExceeds[T])
	return m
}

// stateTimeExceeds guards on time spent in the active state, args: {ms: N}
func stateTimeExceeds[T any](args map[string]any) (GuardFunc[T], error) {
	var ms float64
	switch v := args["ms"].(type) {
	case int:
		ms = float64(v)
	case float64:
		ms = v
	default:
		return nil, fmt.Errorf("StateTimeExceeds requires numeric 'ms'")
	}
	limit := time.Duration(ms * float64(time.Millisecond))
	return func(_ T, inst *Instance) bool {
		return inst.TimeInState >= limit
	}, nil
}

// RegisterGuard adds a predicate function to the registry
func (m *Machine[T]) RegisterGuard(name string, fn GuardFunc[T]) {
	m.guardReg[name] = fn
}

// RegisterGuardFactory adds a parameterized guard factory to the registry
func (m *Machine[T]) RegisterGuardFactory(name string, factory GuardFactoryFunc[T]) {
	m.guardFactoryReg[name] = factory
}

// RegisterAction adds a side-effect function to the registry
func (m *Machine[T]) RegisterAction(name string, fn ActionFunc[T]) {
	m.actionReg[name] = fn
}

// Start places inst in the initial state and runs OnEnter from Root down
func (m *Machine[T]) Start(ctx T, inst *Instance) error {
	return m.StartAt(ctx, inst, m.InitialStateID)
}

// StartAt places inst in an explicit state
func (m *Machine[T]) StartAt(ctx T, inst *Instance, id StateID) error {
	node, ok := m.nodes[id]
	if !ok {
		return fmt.Errorf("initial state ID %d not found", id)
	}

	inst.ActiveStateID = id
	inst.TimeInState = 0
	inst.ActivePath = append(inst.ActivePath[:0], node.Path...)

	for _, sid := range inst.ActivePath {
		if n, exists := m.nodes[sid]; exists {
			run(ctx, n.OnEnter)
		}
	}
	return nil
}

// Stop runs OnExit from the leaf up and clears inst
func (m *Machine[T]) Stop(ctx T, inst *Instance) {
	for i := len(inst.ActivePath) - 1; i >= 0; i-- {
		if n, ok := m.nodes[inst.ActivePath[i]]; ok {
			run(ctx, n.OnExit)
		}
	}
	inst.ActiveStateID = StateNone
	inst.TimeInState = 0
	inst.ActivePath = inst.ActivePath[:0]
}

// Update advances inst by dt
// Tick transitions (Event == 0) are evaluated leaf first, bubbling up; at most one fires
// OnUpdate of the leaf runs only when no transition fired
// Returns true on transition
func (m *Machine[T]) Update(ctx T, inst *Instance, dt time.Duration) bool {
	if inst.ActiveStateID == StateNone {
		return false
	}

	inst.TimeInState += dt

	if m.fire(ctx, inst, 0) {
		return true
	}

	if leaf, ok := m.nodes[inst.ActiveStateID]; ok {
		run(ctx, leaf.OnUpdate)
	}
	return false
}

// HandleEvent routes an event through the active path, leaf first
// Returns true if the event triggered a transition
func (m *Machine[T]) HandleEvent(ctx T, inst *Instance, eventType event.EventType) bool {
	if inst.ActiveStateID == StateNone || eventType == event.EventTick {
		return false
	}
	return m.fire(ctx, inst, eventType)
}

func (m *Machine[T]) fire(ctx T, inst *Instance, eventType event.EventType) bool {
	currID := inst.ActiveStateID
	for currID != StateNone {
		node, ok := m.nodes[currID]
		if !ok {
			return false
		}
		for _, trans := range node.Transitions {
			if trans.Event != eventType {
				continue
			}
			if trans.Guard == nil || trans.Guard(ctx, inst) {
				m.Transition(ctx, inst, trans.TargetID)
				return true
			}
		}
		currID = node.ParentID
	}
	return false
}

// Transition performs a state change: exit up to the LCA, enter down to target
// Self-transition is a no-op
func (m *Machine[T]) Transition(ctx T, inst *Instance, targetID StateID) {
	if inst.ActiveStateID == targetID {
		return
	}

	targetNode, ok := m.nodes[targetID]
	if !ok {
		panic(fmt.Sprintf("FSM: attempted transition to unknown state ID %d", targetID))
	}

	// Find LCA
	lcaIndex := -1
	currentPath := inst.ActivePath
	targetPath := targetNode.Path

	minLen := min(len(currentPath), len(targetPath))
	for i := 0; i < minLen; i++ {
		if currentPath[i] != targetPath[i] {
			break
		}
		lcaIndex = i
	}

	// Exit phase: walk up from current leaf to LCA (exclusive)
	for i := len(currentPath) - 1; i > lcaIndex; i-- {
		if node, exists := m.nodes[currentPath[i]]; exists {
			run(ctx, node.OnExit)
		}
	}

	// Commit before OnEnter so enter actions observe the new state
	inst.ActiveStateID = targetID
	inst.TimeInState = 0
	inst.ActivePath = append(inst.ActivePath[:0], targetPath...)

	// Enter phase: walk down from LCA (exclusive) to target leaf
	for i := lcaIndex + 1; i < len(targetPath); i++ {
		if node, exists := m.nodes[targetPath[i]]; exists {
			run(ctx, node.OnEnter)
		}
	}
}

func run[T any](ctx T, actions []Action[T]) {
	for _, a := range actions {
		a.Func(ctx, a.Args)
	}
}

// StateName returns the name of a state ID, empty if unknown
func (m *Machine[T]) StateName(id StateID) string {
	if n, ok := m.nodes[id]; ok {
		return n.Name
	}
	return ""
}

// GetStateID resolves a state name to ID
func (m *Machine[T]) GetStateID(name string) (StateID, bool) {
	id, ok := m.names[name]
	return id, ok
}

// InState reports whether id is on the active path of inst
func (m *Machine[T]) InState(inst *Instance, id StateID) bool {
	for _, sid := range inst.ActivePath {
		if sid == id {
			return true
		}
	}
	return false
}
