package engine

import "github.com/lixenwraith/siege/event"

// System is a phase-2 participant: routed events first, then Update once per tick
type System interface {
	// Init resets session state
	Init()
	Name() string
	// Priority orders Update calls, lower first
	Priority() int
	event.Handler
	Update()
}

// PostStepper is implemented by systems that read physics results after the step
type PostStepper interface {
	PostStep()
}
