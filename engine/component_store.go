package engine

import (
	"github.com/lixenwraith/siege/component"
)

// ComponentStore provides typed component stores
// Pointers remain valid for the world lifetime
type ComponentStore struct {
	// Scene
	Transform *Store[component.TransformComponent]
	Hierarchy *Store[component.HierarchyComponent]
	Tag       *Store[component.TagComponent]
	Role      *Store[component.RoleComponent]
	Body      *Store[component.BodyComponent]

	// Launcher
	Launcher *Store[component.LauncherComponent]
	NotReady *Store[component.NotReadyComponent]

	// Projectile
	Projectile *Store[component.ProjectileComponent]
	Released   *Store[component.ReleasedComponent]
	Lifetime   *Store[component.LifetimeComponent]

	// Defense
	Radar  *Store[component.RadarComponent]
	Turret *Store[component.TurretComponent]
	Barrel *Store[component.BarrelComponent]
	Field  *Store[component.FieldComponent]

	all []AnyStore
}

// initComponentStores creates every store and the type-erased list
func initComponentStores(w *World) {
	c := &w.Components
	c.Transform = register(c, NewStore[component.TransformComponent]())
	c.Hierarchy = register(c, NewStore[component.HierarchyComponent]())
	c.Tag = register(c, NewStore[component.TagComponent]())
	c.Role = register(c, NewStore[component.RoleComponent]())
	c.Body = register(c, NewStore[component.BodyComponent]())

	c.Launcher = register(c, NewStore[component.LauncherComponent]())
	c.NotReady = register(c, NewStore[component.NotReadyComponent]())

	c.Projectile = register(c, NewStore[component.ProjectileComponent]())
	c.Released = register(c, NewStore[component.ReleasedComponent]())
	c.Lifetime = register(c, NewStore[component.LifetimeComponent]())

	c.Radar = register(c, NewStore[component.RadarComponent]())
	c.Turret = register(c, NewStore[component.TurretComponent]())
	c.Barrel = register(c, NewStore[component.BarrelComponent]())
	c.Field = register(c, NewStore[component.FieldComponent]())
}

func register[T any](c *ComponentStore, s *Store[T]) *Store[T] {
	c.all = append(c.all, s)
	return s
}
