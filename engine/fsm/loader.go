package fsm

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/siege/event"
)

// LoadConfig parses a YAML graph and replaces the machine's nodes
// Validates all references (states, guards, actions, events); registries must be filled first
func (m *Machine[T]) LoadConfig(data []byte) error {
	var config RootConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to unmarshal FSM config: %w", err)
	}
	if config.States == nil {
		config.States = make(map[string]*StateConfig)
	}

	m.nodes = make(map[StateID]*Node[T])
	m.names = make(map[string]StateID)

	m.AddState(StateRoot, "Root", StateNone)
	nameToID := map[string]StateID{"Root": StateRoot}

	// Sort keys for deterministic ID generation
	stateNames := make([]string, 0, len(config.States))
	for name := range config.States {
		if name != "Root" {
			stateNames = append(stateNames, name)
		}
	}
	sort.Strings(stateNames)

	nextID := StateRoot + 1
	for _, name := range stateNames {
		nameToID[name] = nextID
		nextID++
	}

	// Parents first pass so children can reference any order
	for _, name := range stateNames {
		pName := config.States[name].Parent
		if pName == "" {
			pName = "Root"
		}
		parentID, ok := nameToID[pName]
		if !ok {
			return fmt.Errorf("state '%s' references unknown parent '%s'", name, pName)
		}
		m.AddState(nameToID[name], name, parentID)
	}

	for name, cfg := range config.States {
		if cfg == nil {
			continue
		}
		node := m.nodes[nameToID[name]]

		var err error
		if node.OnEnter, err = m.compileActions(cfg.OnEnter); err != nil {
			return fmt.Errorf("state '%s' on_enter: %w", name, err)
		}
		if node.OnUpdate, err = m.compileActions(cfg.OnUpdate); err != nil {
			return fmt.Errorf("state '%s' on_update: %w", name, err)
		}
		if node.OnExit, err = m.compileActions(cfg.OnExit); err != nil {
			return fmt.Errorf("state '%s' on_exit: %w", name, err)
		}
		if err := m.compileTransitions(node, cfg.Transitions, nameToID); err != nil {
			return fmt.Errorf("state '%s' transitions: %w", name, err)
		}
	}

	if err := m.CompilePaths(); err != nil {
		return err
	}

	initialID, ok := nameToID[config.InitialState]
	if !ok || initialID == StateRoot {
		return fmt.Errorf("initial state '%s' not found", config.InitialState)
	}
	m.InitialStateID = initialID
	return nil
}

// LoadFile reads and loads a graph file
func (m *Machine[T]) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read FSM config %s: %w", path, err)
	}
	return m.LoadConfig(data)
}

func (m *Machine[T]) compileActions(configs []ActionConfig) ([]Action[T], error) {
	actions := make([]Action[T], 0, len(configs))
	for _, cfg := range configs {
		fn, ok := m.actionReg[cfg.Action]
		if !ok {
			return nil, fmt.Errorf("unknown action function '%s'", cfg.Action)
		}
		actions = append(actions, Action[T]{Func: fn, Args: cfg.Args})
	}
	return actions, nil
}

func (m *Machine[T]) compileTransitions(node *Node[T], configs []TransitionConfig, nameToID map[string]StateID) error {
	for _, cfg := range configs {
		targetID, ok := nameToID[cfg.Target]
		if !ok {
			return fmt.Errorf("transition references unknown target '%s'", cfg.Target)
		}

		eventType, ok := event.GetEventType(cfg.Trigger)
		if !ok {
			return fmt.Errorf("unknown event type '%s'", cfg.Trigger)
		}

		var guard GuardFunc[T]
		if cfg.Guard != "" {
			if factory, ok := m.guardFactoryReg[cfg.Guard]; ok {
				g, err := factory(cfg.GuardArgs)
				if err != nil {
					return fmt.Errorf("guard '%s': %w", cfg.Guard, err)
				}
				guard = g
			} else if g, ok := m.guardReg[cfg.Guard]; ok {
				guard = g
			} else {
				return fmt.Errorf("unknown guard '%s'", cfg.Guard)
			}
		}

		node.Transitions = append(node.Transitions, Transition[T]{
			TargetID: targetID,
			Event:    eventType,
			Guard:    guard,
		})
	}
	return nil
}
