package event

import (
	"sync"

	"github.com/lixenwraith/siege/parameter"
)

// EventQueue is a FIFO of pending events
// Thread-Safety:
//   - Push: mutex guarded, multiple producers OK (HTTP and viewer goroutines push commands)
//   - Consume: single consumer (clock dispatch phase)
//
// Unlike a ring, nothing is ever overwritten; the buffer grows on demand
type EventQueue struct {
	mu      sync.Mutex
	pending []GameEvent
	spare   []GameEvent
}

func NewEventQueue() *EventQueue {
	return &EventQueue{
		pending: make([]GameEvent, 0, parameter.EventQueueSize),
		spare:   make([]GameEvent, 0, parameter.EventQueueSize),
	}
}

// Push appends an event. O(1) amortized
func (eq *EventQueue) Push(event GameEvent) {
	eq.mu.Lock()
	eq.pending = append(eq.pending, event)
	eq.mu.Unlock()
}

// Consume returns all pending events in FIFO order and empties the queue
// Events pushed while the caller iterates the result land in the next batch
// The returned slice is valid until the next Consume call
func (eq *EventQueue) Consume() []GameEvent {
	eq.mu.Lock()
	defer eq.mu.Unlock()

	if len(eq.pending) == 0 {
		return nil
	}
	out := eq.pending
	eq.pending = eq.spare[:0]
	eq.spare = out
	return out
}

// Len returns pending event count
func (eq *EventQueue) Len() int {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	return len(eq.pending)
}
