package parameter

import "time"

// Simulation Loop & Engine Timing
const (
	// TickInterval is the fixed simulation step (60 Hz)
	TickInterval = time.Second / 60

	// LoadingTimeout is how long the readiness barrier waits before entering Game with stalled entities
	LoadingTimeout = 5 * time.Second

	// DefaultSeed seeds the simulation random source when none is configured
	DefaultSeed uint64 = 0x5eed
)

// ECS & Resources Limits
const (
	// EventQueueSize is the initial capacity of the event queue
	EventQueueSize = 256

	// StoreInitialCapacity is the preallocated entity slot count per component store
	StoreInitialCapacity = 256

	// HierarchyMaxDepth bounds parent walks over possibly stale scene links
	HierarchyMaxDepth = 32
)
