package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/event"
)

// ClockScheduler advances the simulation in fixed ticks
// Each tick runs three ordered phases under the world lock:
//  1. dispatch queued events (collisions of the previous step, commands, spawn requests)
//  2. systems update in priority order
//  3. physics step, collision-ended drain into the queue, post-step sync
type ClockScheduler struct {
	world  *World
	router *event.Router

	tickInterval time.Duration
	tickCount    atomic.Uint64

	// Observer runs after each tick outside the world lock
	observer func(frame int64)

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewClockScheduler creates a scheduler bound to the world's event queue
func NewClockScheduler(world *World, tickInterval time.Duration) *ClockScheduler {
	return &ClockScheduler{
		world:        world,
		router:       event.NewRouter(world.EventQueue()),
		tickInterval: tickInterval,
		stopChan:     make(chan struct{}),
	}
}

// RegisterEventHandler adds an event handler to router, must be called before Start()
func (cs *ClockScheduler) RegisterEventHandler(handler event.Handler) {
	cs.router.Register(handler)
}

// RegisterSystems routes events to every system added to the world so far
func (cs *ClockScheduler) RegisterSystems() {
	for _, s := range cs.world.Systems() {
		cs.router.Register(s)
	}
}

// SetObserver installs a callback run after every tick, must be called before Start()
func (cs *ClockScheduler) SetObserver(fn func(frame int64)) {
	cs.observer = fn
}

// TickInterval returns the fixed step
func (cs *ClockScheduler) TickInterval() time.Duration {
	return cs.tickInterval
}

// TickCount returns the number of completed ticks
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

// Tick executes one full clock cycle of length dt
func (cs *ClockScheduler) Tick(dt time.Duration) {
	start := time.Now()
	var frame int64

	cs.world.RunSafe(func() {
		w := cs.world
		frame = w.frame.Add(1)
		w.Resources.Time.Update(dt, frame)

		// Phase 1
		cs.router.DispatchAll()

		// Phase 2
		w.UpdateLocked()

		// Phase 3
		pw := w.Resources.Physics.World
		if pw == nil {
			return
		}
		pw.Step(dt.Seconds())
		for _, pair := range pw.DrainCollisionEnded() {
			w.PushEvent(event.EventCollisionEnded, &event.CollisionEndedPayload{A: pair.A, B: pair.B})
		}
		for _, s := range w.Systems() {
			if ps, ok := s.(PostStepper); ok {
				ps.PostStep()
			}
		}
	})

	cs.tickCount.Add(1)

	if m := cs.world.Resources.Metrics; m.Enabled() {
		m.Sink.ObserveTick(time.Since(start))
	}
	if cs.observer != nil {
		cs.observer(frame)
	}
}

// RunTicks executes n ticks back to back at the fixed interval
func (cs *ClockScheduler) RunTicks(n int) {
	for range n {
		cs.Tick(cs.tickInterval)
	}
}

// Run ticks on a wall-clock ticker until ctx is cancelled or Stop is called
func (cs *ClockScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(cs.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-cs.stopChan:
			return nil
		case <-ticker.C:
			cs.Tick(cs.tickInterval)
		}
	}
}

// Start begins the scheduler loop in a crash-handled goroutine
func (cs *ClockScheduler) Start(ctx context.Context) {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		core.Go(func() {
			defer cs.wg.Done()
			_ = cs.Run(ctx)
		})
	}
}

// Stop halts the scheduler loop and waits for the current tick to finish
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			close(cs.stopChan)
			cs.wg.Wait()
		}
	})
}
