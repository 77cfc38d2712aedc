package render

import (
	"github.com/gdamore/tcell/v2"
)

type rendererEntry struct {
	renderer Renderer
	priority RenderPriority
	index    int // registration order for stable sort
}

// RenderOrchestrator runs registered renderers in priority order over one snapshot
type RenderOrchestrator struct {
	screen    tcell.Screen
	renderers []rendererEntry
	regCount  int
}

// NewRenderOrchestrator creates an orchestrator drawing to screen
func NewRenderOrchestrator(screen tcell.Screen) *RenderOrchestrator {
	return &RenderOrchestrator{
		screen:    screen,
		renderers: make([]rendererEntry, 0, 8),
	}
}

// Register adds a renderer at the specified priority. Maintains sorted order via insertion sort
func (o *RenderOrchestrator) Register(r Renderer, priority RenderPriority) {
	entry := rendererEntry{
		renderer: r,
		priority: priority,
		index:    o.regCount,
	}
	o.regCount++

	pos := len(o.renderers)
	for i, e := range o.renderers {
		if priority < e.priority || (priority == e.priority && entry.index < e.index) {
			pos = i
			break
		}
	}

	o.renderers = append(o.renderers, rendererEntry{})
	copy(o.renderers[pos+1:], o.renderers[pos:])
	o.renderers[pos] = entry
}

// RenderFrame clears the screen, renders every visible layer and shows the result
func (o *RenderOrchestrator) RenderFrame(ctx *RenderContext) {
	o.screen.Clear()
	for _, entry := range o.renderers {
		if vt, ok := entry.renderer.(VisibilityToggle); ok && !vt.IsVisible() {
			continue
		}
		entry.renderer.Render(ctx, o.screen)
	}
	o.screen.Show()
}
