package physics

// Layer is a collision membership bitmask
type Layer uint32

const (
	LayerAttacker Layer = 1 << iota
	LayerDefender
	LayerEnv

	LayerAll Layer = LayerAttacker | LayerDefender | LayerEnv
)

// Interacts reports whether two bodies' layer filters allow contact in both directions
func Interacts(layersA, maskA, layersB, maskB Layer) bool {
	return layersA&maskB != 0 && layersB&maskA != 0
}

func (l Layer) String() string {
	switch l {
	case LayerAttacker:
		return "attacker"
	case LayerDefender:
		return "defender"
	case LayerEnv:
		return "env"
	case LayerAll:
		return "all"
	case 0:
		return "none"
	default:
		return "mixed"
	}
}
