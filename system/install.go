// Package system holds the simulation systems run by the clock scheduler
package system

import "github.com/lixenwraith/siege/engine"

// NewSystems creates every simulation system bound to world
func NewSystems(world *engine.World) []engine.System {
	return []engine.System{
		NewReadinessSystem(world),
		NewDiscoverySystem(world),
		NewRigBuilderSystem(world),
		NewLauncherSystem(world),
		NewRadarSystem(world),
		NewTurretSystem(world),
		NewProjectileSystem(world),
		NewTransformSyncSystem(world),
		NewTelemetrySystem(world),
		NewAudioSystem(world),
	}
}

// Install adds every simulation system to world and routes their events through cs
func Install(world *engine.World, cs *engine.ClockScheduler) {
	for _, s := range NewSystems(world) {
		world.AddSystem(s)
	}
	cs.RegisterSystems()
}
