package engine

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/config"
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/physics"
	"github.com/lixenwraith/siege/vmath"
)

// Resource holds singleton simulation resources accessed via World.Resources
// Created with the world at scene setup and torn down with the session
type Resource struct {
	Time     *TimeResource
	Config   *ConfigResource
	Game     *GameStateResource
	Physics  *PhysicsResource
	Targets  *TargetRegistry
	Radars   *RadarPositions
	Fortress *FortressPosition
	Stats    *StatsResource

	Log  *log.Logger
	Rand RandomSource

	// Bridged services, nil-safe wrappers
	Audio   *AudioResource
	Metrics *MetricsResource
}

func newResource(cfg *config.Config) Resource {
	return Resource{
		Time:     &TimeResource{},
		Config:   &ConfigResource{Config: cfg},
		Game:     &GameStateResource{SessionID: uuid.New()},
		Physics:  &PhysicsResource{},
		Targets:  NewTargetRegistry(),
		Radars:   &RadarPositions{},
		Fortress: &FortressPosition{},
		Stats:    &StatsResource{},
		Log:      log.New(io.Discard),
		Rand:     NewRandom(cfg.Sim.Seed),
		Audio:    &AudioResource{},
		Metrics:  &MetricsResource{},
	}
}

// === World Resources ===

// TimeResource is updated by the ClockScheduler at the start of a tick
type TimeResource struct {
	// Elapsed is simulated session time
	Elapsed time.Duration

	// DeltaTime is the fixed step of the current tick
	DeltaTime time.Duration

	// FrameNumber is the current tick count
	FrameNumber int64
}

// Update modifies TimeResource fields in-place
// Must be called under world lock to prevent races with systems reads
func (tr *TimeResource) Update(dt time.Duration, frame int64) {
	tr.DeltaTime = dt
	tr.Elapsed += dt
	tr.FrameNumber = frame
}

// ConfigResource holds the validated session configuration
type ConfigResource struct {
	Config *config.Config
}

// GameStateResource holds the session phase
type GameStateResource struct {
	SessionID  uuid.UUID
	Phase      component.GamePhase
	PhaseSince time.Duration
}

// PhysicsResource wraps the physics engine contract
type PhysicsResource struct {
	World physics.World
}

// RadarPositions lists sensor origins written at scene setup
type RadarPositions struct {
	Positions []vmath.Vec3F
}

// FortressPosition is the defended point, populated by the field asset
type FortressPosition struct {
	Position vmath.Vec3F
	Set      bool
}

// StatsResource accumulates session counters, written by the telemetry system only
type StatsResource struct {
	Launches       int
	Releases       int
	BallsSpawned   int
	BulletsSpawned int
	Bursts         int
	Intercepts     int // Released balls destroyed by a collision
	Expired        int // Released balls destroyed by age
}

// === Bridged Resources ===

// AudioPlayer defines the minimal audio interface used by systems
type AudioPlayer interface {
	Play(core.SoundType) bool
}

// AudioResource wraps the audio player, Player may be nil
type AudioResource struct {
	Player AudioPlayer
}

// Play forwards to the player if one is attached
func (r *AudioResource) Play(s core.SoundType) bool {
	if r == nil || r.Player == nil {
		return false
	}
	return r.Player.Play(s)
}

// MetricsSink receives telemetry from the simulation loop
type MetricsSink interface {
	ObserveTick(d time.Duration)
	LauncherTransition(from, to component.LaunchState)
	ProjectileSpawned(kind component.ProjectileKind)
	ProjectileDestroyed(kind component.ProjectileKind, collided bool)
	TurretFired(bullets int)
	SetLive(projectiles, targets int)
}

// MetricsResource wraps the sink, Sink may be nil
type MetricsResource struct {
	Sink MetricsSink
}

// Enabled reports whether a sink is attached
func (r *MetricsResource) Enabled() bool {
	return r != nil && r.Sink != nil
}
