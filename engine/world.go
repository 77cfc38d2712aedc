package engine

import (
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/siege/config"
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/event"
)

// World contains all entities, their components and the session resources
type World struct {
	mu           sync.RWMutex
	nextEntityID core.Entity

	Components ComponentStore
	Resources  Resource

	eventQueue *event.EventQueue
	frame      atomic.Int64

	systems     []System
	updateMutex sync.Mutex
}

// NewWorld creates an empty world bound to cfg
func NewWorld(cfg *config.Config) *World {
	w := &World{
		nextEntityID: 1,
		Resources:    newResource(cfg),
		eventQueue:   event.NewEventQueue(),
		systems:      make([]System, 0),
	}

	initComponentStores(w)

	return w
}

// CreateEntity reserves a new entity ID
func (w *World) CreateEntity() core.Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextEntityID
	w.nextEntityID++
	return id
}

// DestroyEntity removes all components of an entity and its physics body
func (w *World) DestroyEntity(e core.Entity) {
	if body, ok := w.Components.Body.GetComponent(e); ok {
		if pw := w.Resources.Physics.World; pw != nil {
			pw.RemoveBody(body.Body)
		}
	}
	for _, s := range w.Components.all {
		s.RemoveEntity(e)
	}
}

// Alive reports whether any store still holds e
func (w *World) Alive(e core.Entity) bool {
	if !e.Valid() {
		return false
	}
	for _, s := range w.Components.all {
		if s.HasEntity(e) {
			return true
		}
	}
	return false
}

// Clear removes all entities and components from the world
func (w *World) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextEntityID = 1
	for _, s := range w.Components.all {
		s.ClearAllComponents()
	}
	w.Resources.Targets.Clear()
}

// AddSystem adds a system to the world and sorts by priority
func (w *World) AddSystem(system System) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.systems = append(w.systems, system)

	// Sort by priority (bubble sort, small N, stable)
	for i := 0; i < len(w.systems)-1; i++ {
		for j := 0; j < len(w.systems)-i-1; j++ {
			if w.systems[j].Priority() > w.systems[j+1].Priority() {
				w.systems[j], w.systems[j+1] = w.systems[j+1], w.systems[j]
			}
		}
	}
}

// Systems returns a copy of all registered systems in priority order
// Used by ClockScheduler for event handler auto-registration
func (w *World) Systems() []System {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]System, len(w.systems))
	copy(result, w.systems)
	return result
}

// RunSafe executes a function while holding the world's update lock
func (w *World) RunSafe(fn func()) {
	w.updateMutex.Lock()
	defer w.updateMutex.Unlock()
	fn()
}

// Lock acquires the world's update mutex
func (w *World) Lock() {
	w.updateMutex.Lock()
}

// Unlock releases the update mutex
func (w *World) Unlock() {
	w.updateMutex.Unlock()
}

// UpdateLocked runs all systems assuming the caller already holds updateMutex
func (w *World) UpdateLocked() {
	for _, system := range w.Systems() {
		system.Update()
	}
}

// FrameNumber returns the current tick index
func (w *World) FrameNumber() int64 {
	return w.frame.Load()
}

// EventQueue exposes the queue for router construction and external producers
func (w *World) EventQueue() *event.EventQueue {
	return w.eventQueue
}

// PushEvent emits a game event stamped with the current frame
// Safe from any goroutine; delivery happens in the next dispatch phase
func (w *World) PushEvent(eventType event.EventType, payload any) {
	w.eventQueue.Push(event.GameEvent{
		Type:    eventType,
		Payload: payload,
		Frame:   w.frame.Load(),
	})
}
