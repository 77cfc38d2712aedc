package component

import (
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/vmath"
)

// TransformComponent is the world-space pose of a node
// Bodies are synced from physics after each step, other nodes are authored or driven by systems
type TransformComponent struct {
	Position vmath.Vec3F
	Rotation vmath.Quat
}

// Forward returns the rotated -Z axis
func (t TransformComponent) Forward() vmath.Vec3F {
	return vmath.QForward(t.Rotation)
}

// HierarchyComponent links a scene node to its parent and children by handle
// Handles may be stale; lookups must tolerate absence
type HierarchyComponent struct {
	Parent   core.Entity
	Children []core.Entity
}
