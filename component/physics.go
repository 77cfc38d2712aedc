package component

import "github.com/lixenwraith/siege/physics"

// BodyComponent links an entity to its physics body
type BodyComponent struct {
	Body physics.BodyID
}
