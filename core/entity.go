package core

// Entity is a stable handle into the world arena
// Zero is never allocated and means "no entity"
type Entity uint64

// NoEntity is the absent handle
const NoEntity Entity = 0

// Valid reports whether the handle was ever allocated
func (e Entity) Valid() bool {
	return e != NoEntity
}
