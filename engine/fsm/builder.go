package fsm

import "fmt"

// AddState registers a named node under parentID, replacing any node with the same id
func (m *Machine[T]) AddState(id StateID, name string, parentID StateID) *Node[T] {
	node := &Node[T]{ID: id, Name: name, ParentID: parentID}
	m.nodes[id] = node
	m.names[name] = id
	return node
}

// CompilePaths resolves the Root-to-node ancestry of every node
// Called once after load; Transition relies on the paths for its common-ancestor walk
func (m *Machine[T]) CompilePaths() error {
	paths := make(map[StateID][]StateID, len(m.nodes))
	visiting := make(map[StateID]bool)

	var resolve func(id StateID) ([]StateID, error)
	resolve = func(id StateID) ([]StateID, error) {
		if p, ok := paths[id]; ok {
			return p, nil
		}
		node, ok := m.nodes[id]
		if !ok {
			return nil, fmt.Errorf("missing parent %d", id)
		}
		if visiting[id] {
			return nil, fmt.Errorf("state '%s' is part of a parent cycle", node.Name)
		}
		visiting[id] = true
		defer delete(visiting, id)

		var path []StateID
		if node.ParentID != StateNone {
			parent, err := resolve(node.ParentID)
			if err != nil {
				return nil, fmt.Errorf("state '%s': %w", node.Name, err)
			}
			path = make([]StateID, len(parent), len(parent)+1)
			copy(path, parent)
		}
		path = append(path, id)
		paths[id] = path
		return path, nil
	}

	for id, node := range m.nodes {
		p, err := resolve(id)
		if err != nil {
			return err
		}
		node.Path = p
	}
	return nil
}
