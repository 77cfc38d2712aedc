package component

import "github.com/lixenwraith/siege/core"

// ProjectileKind sizes and weights a projectile
type ProjectileKind uint8

const (
	ProjectileBall ProjectileKind = iota + 1
	ProjectileBullet
)

func (k ProjectileKind) String() string {
	switch k {
	case ProjectileBall:
		return "ball"
	case ProjectileBullet:
		return "bullet"
	default:
		return "unknown"
	}
}

// ProjectileComponent tags a spawned ball or bullet
type ProjectileComponent struct {
	Kind  ProjectileKind
	Owner core.Entity // Launcher or barrel that requested it
}

// ReleasedComponent marks a projectile as target-eligible
type ReleasedComponent struct{}
