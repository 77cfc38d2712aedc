package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lixenwraith/siege/config"
	"github.com/lixenwraith/siege/engine"
	"github.com/lixenwraith/siege/parameter"
	"github.com/lixenwraith/siege/physics/pbd"
	"github.com/lixenwraith/siege/scene"
	"github.com/lixenwraith/siege/system"
	"github.com/lixenwraith/siege/vmath"
)

// options are the flags shared by every command
type options struct {
	configPath  string
	battlefield string
	seed        uint64
	seedSet     bool
	logLevel    string
}

// session is one loaded battlefield with its clock
type session struct {
	cfg    config.Config
	world  *engine.World
	clock  *engine.ClockScheduler
	layout *scene.Result
	log    *log.Logger
	closer io.Closer
}

// newSession resolves configuration, loads the battlefield over the reference physics engine
// and installs every system
func newSession(opts options, logToFile bool) (*session, error) {
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.seedSet {
		cfg.Sim.Seed = opts.seed
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	logger, closer, err := setupLogging(cfg.LogLevel, logToFile)
	if err != nil {
		return nil, err
	}

	w := engine.NewWorld(&cfg)
	w.Resources.Log = logger
	w.Resources.Physics.World = pbd.New(pbd.Config{
		Gravity:      vmath.Vec3F{Y: cfg.Physics.Gravity},
		Substeps:     cfg.Physics.Substeps,
		Ground:       cfg.Physics.Ground,
		GroundHeight: parameter.GroundHeight,
	})

	lib, err := scene.DefaultLibrary()
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("asset library: %w", err)
	}
	bf, err := scene.LoadBattlefield(opts.battlefield)
	if err != nil {
		closer.Close()
		return nil, err
	}
	layout, err := scene.Load(w, lib, bf)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("load battlefield: %w", err)
	}

	cs := engine.NewClockScheduler(w, cfg.Sim.TickInterval())
	system.Install(w, cs)

	logger.Info("session ready",
		"session", w.Resources.Game.SessionID,
		"seed", cfg.Sim.Seed,
		"launchers", len(layout.Launchers),
		"radars", len(layout.Radars),
		"turrets", len(layout.Turrets),
		"tick", cfg.Sim.TickInterval(),
	)

	return &session{
		cfg:    cfg,
		world:  w,
		clock:  cs,
		layout: layout,
		log:    logger,
		closer: closer,
	}, nil
}

func (s *session) Close() {
	s.clock.Stop()
	s.closer.Close()
}

// summary renders the session counters as a short report
func (s *session) summary(w io.Writer) {
	snap := s.world.Snapshot()
	fmt.Fprintf(w, "session %s  frame %d  %.1fs  phase %s\n", snap.SessionID, snap.Frame, snap.Elapsed, snap.Phase)
	st := snap.Stats
	fmt.Fprintf(w, "launches %d  releases %d  balls %d  bullets %d  bursts %d  intercepts %d  expired %d\n",
		st.Launches, st.Releases, st.BallsSpawned, st.BulletsSpawned, st.Bursts, st.Intercepts, st.Expired)
	for _, l := range snap.Launchers {
		fmt.Fprintf(w, "  launcher %d  %-7s  launches %d  ready %v\n", l.ID, l.State, l.Launches, l.Ready)
	}
}
