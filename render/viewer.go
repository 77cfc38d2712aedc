package render

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/engine"
	"github.com/lixenwraith/siege/event"
	"github.com/lixenwraith/siege/parameter"
)

// defenseSystems are the system names paused by the defense key
var defenseSystems = []string{"radar", "turret"}

// Simulation is the world surface the viewer reads and commands
type Simulation interface {
	Snapshot() *engine.Snapshot
	PushEvent(t event.EventType, payload any)
}

// Viewer renders snapshots at a fixed frame rate and turns keys into launch commands
type Viewer struct {
	screen tcell.Screen
	sim    Simulation
	orch   *RenderOrchestrator
	log    *log.Logger

	selected   core.Entity
	defenseOff bool
}

// NewViewer binds an initialized screen to the simulation with the default layers
func NewViewer(screen tcell.Screen, sim Simulation, logger *log.Logger) *Viewer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	v := &Viewer{
		screen: screen,
		sim:    sim,
		orch:   NewRenderOrchestrator(screen),
		log:    logger,
	}
	v.orch.Register(fieldRenderer{}, PriorityField)
	v.orch.Register(defenseRenderer{}, PriorityDefense)
	v.orch.Register(launcherRenderer{}, PriorityLaunchers)
	v.orch.Register(projectileRenderer{}, PriorityProjectiles)
	v.orch.Register(statusRenderer{}, PriorityUI)
	return v
}

// Run draws until ctx ends or the user quits
func (v *Viewer) Run(ctx context.Context) error {
	ticker := time.NewTicker(parameter.ViewFrameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return // Screen finalized
			}
			eventChan <- ev
		}
	})

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-eventChan:
			if !v.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			v.Draw()
		}
	}
}

// Draw renders one frame of the current snapshot
func (v *Viewer) Draw() {
	w, h := v.screen.Size()
	v.orch.RenderFrame(NewRenderContext(v.sim.Snapshot(), w, h, v.selected))
}

// HandleEvent applies one terminal event, false means quit
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventResize:
		v.screen.Sync()
		v.Draw()
	}
	return true
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		v.selectNext()
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch ev.Rune() {
	case 'q':
		return false
	case ' ':
		v.launch(v.selected)
	case 'a':
		v.launch(core.NoEntity)
	case 'd':
		v.toggleDefense()
	}
	return true
}

// launch queues a command for e, every launcher when e is NoEntity
func (v *Viewer) launch(e core.Entity) {
	v.sim.PushEvent(event.EventLaunchCommand, &event.LaunchCommandPayload{Launcher: e})
	v.log.Info("launch command", "launcher", e)
}

// toggleDefense switches radar and turrets together
func (v *Viewer) toggleDefense() {
	v.defenseOff = !v.defenseOff
	for _, name := range defenseSystems {
		v.sim.PushEvent(event.EventSystemCommand, &event.SystemCommandPayload{System: name, Enabled: !v.defenseOff})
	}
	v.log.Info("defense toggled", "enabled", !v.defenseOff)
}

// selectNext cycles through launchers in id order, wrapping back to none
func (v *Viewer) selectNext() {
	var ids []core.Entity
	for _, l := range v.sim.Snapshot().Launchers {
		ids = append(ids, core.Entity(l.ID))
	}
	slices.Sort(ids)

	i := slices.Index(ids, v.selected)
	if i+1 < len(ids) {
		v.selected = ids[i+1]
	} else {
		v.selected = core.NoEntity
	}
}

// Selected returns the launcher targeted by the launch key
func (v *Viewer) Selected() core.Entity {
	return v.selected
}
