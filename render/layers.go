package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/engine"
)

var (
	styleFortress = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleRadar    = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
	styleBarrel   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleAiming   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleBall     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFlying   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleBullet   = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleSling    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// launchStyles colors a launcher by launch state name
var launchStyles = map[string]tcell.Style{
	"Idle":    tcell.StyleDefault.Foreground(tcell.ColorGray),
	"Tension": tcell.StyleDefault.Foreground(tcell.ColorYellow),
	"Arming":  tcell.StyleDefault.Foreground(tcell.ColorBlue),
	"Loose":   tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
}

func plot(ctx *RenderContext, screen tcell.Screen, p engine.Point, r rune, style tcell.Style) {
	if x, y, ok := ctx.Projection.Project(p); ok {
		screen.SetContent(x, y, r, nil, style)
	}
}

func text(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// fieldRenderer marks the defended structure
type fieldRenderer struct{}

func (fieldRenderer) Render(ctx *RenderContext, screen tcell.Screen) {
	plot(ctx, screen, ctx.Snapshot.Fortress, '#', styleFortress)
}

// defenseRenderer draws radars and barrels; a barrel holding a target is highlighted
type defenseRenderer struct{}

func (defenseRenderer) Render(ctx *RenderContext, screen tcell.Screen) {
	for _, r := range ctx.Snapshot.Radars {
		plot(ctx, screen, r, 'R', styleRadar)
	}
	for _, b := range ctx.Snapshot.Barrels {
		style := styleBarrel
		if b.Target != 0 {
			style = styleAiming
		}
		plot(ctx, screen, b.Position, 'T', style)
	}
}

// launcherRenderer draws launchers by state, the selected one reversed
type launcherRenderer struct{}

func (launcherRenderer) Render(ctx *RenderContext, screen tcell.Screen) {
	for _, l := range ctx.Snapshot.Launchers {
		if l.Ready {
			plot(ctx, screen, l.ReleaseEnd, '*', styleSling)
		}
		style, ok := launchStyles[l.State]
		if !ok {
			style = tcell.StyleDefault
		}
		if core.Entity(l.ID) == ctx.Selected {
			style = style.Reverse(true)
		}
		plot(ctx, screen, l.Position, 'L', style)
	}
}

// projectileRenderer draws balls and bullets
type projectileRenderer struct{}

func (projectileRenderer) Render(ctx *RenderContext, screen tcell.Screen) {
	for _, p := range ctx.Snapshot.Projectiles {
		switch {
		case p.Kind == "bullet":
			plot(ctx, screen, p.Position, '.', styleBullet)
		case p.Released:
			plot(ctx, screen, p.Position, 'o', styleFlying)
		default:
			plot(ctx, screen, p.Position, 'o', styleBall)
		}
	}
}

// statusRenderer fills the rows below the map with session counters and key help
type statusRenderer struct{}

func (statusRenderer) Render(ctx *RenderContext, screen tcell.Screen) {
	s := ctx.Snapshot
	y := ctx.Height - 2
	if y < 0 {
		return
	}
	for x := range ctx.Width {
		screen.SetContent(x, y, ' ', nil, styleStatus)
	}
	line := fmt.Sprintf(" %s  t=%.1fs  launches %d  releases %d  intercepts %d  expired %d  bursts %d  targets %d",
		s.Phase, s.Elapsed, s.Stats.Launches, s.Stats.Releases, s.Stats.Intercepts, s.Stats.Expired, s.Stats.Bursts, len(s.Targets))
	text(screen, 0, y, line, styleStatus)

	help := " [tab] select  [space] launch  [a] launch all  [d] defense  [q] quit"
	if l, ok := s.Launcher(ctx.Selected); ok {
		help = fmt.Sprintf(" launcher %d %s reload %.1fs |%s", l.ID, l.State, l.Reload, help)
	}
	text(screen, 0, y+1, help, styleHelp)
}
