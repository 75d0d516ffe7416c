// Package engine implements the launcher's interaction model: grid
// geometry, page scrolling physics, and the drag/reorder/folder state
// machine. It is rendering-agnostic; backends translate its state into
// draw calls and feed pointer input back in. All methods must be called
// from the UI thread.
package engine

import (
	"time"

	"fyne.io/fyne/v2"
)

type Engine struct {
	cfg     Config
	events  Events
	onFrame func()

	layout *GridLayout
	pages  *PageModel
	scroll *PageScrollController
	drag   *DragReorderController
	clock  *RenderClock

	container fyne.Size
}

// New wires the engine. dispatch marshals render ticks and timer callbacks
// onto the UI thread; the Fyne backend passes fyne.Do, tests pass nil to
// run inline.
func New(cfg Config, events Events, dispatch func(func())) *Engine {
	cfg = cfg.normalized()
	e := &Engine{cfg: cfg, events: events}

	e.layout = NewGridLayout(cfg, fyne.NewSize(0, 0))
	e.pages = NewPageModel(cfg.ItemsPerPage())
	e.scroll = NewPageScrollController(cfg, e.pages, events)
	sched := ClockScheduler{Dispatch: dispatch}
	e.drag = NewDragReorderController(cfg, e.layout, e.pages, e.scroll, events, sched)
	e.clock = NewRenderClock(cfg.FrameInterval, dispatch, events, e.tick)
	return e
}

func (e *Engine) Config() Config { return e.cfg }

// SetConfig applies a runtime configuration change: geometry caches are
// rebuilt and the page capacity re-derived.
func (e *Engine) SetConfig(cfg Config) {
	e.cfg = cfg.normalized()
	e.pages.SetPerPage(e.cfg.ItemsPerPage())
	e.scroll.SetConfig(e.cfg)
	e.drag.SetConfig(e.cfg)
	e.relayout()
}

// SetItems replaces the flat item list from a fresh catalog snapshot.
func (e *Engine) SetItems(items []Item) {
	e.pages.SetItems(items)
	e.scroll.ScrollToPage(e.pages.CurrentPage())
}

func (e *Engine) Items() []Item { return e.pages.Items() }

// Resize updates the container geometry.
func (e *Engine) Resize(size fyne.Size) {
	if size == e.container {
		return
	}
	e.container = size
	e.relayout()
}

func (e *Engine) relayout() {
	e.layout = NewGridLayout(e.cfg, e.container)
	e.drag.SetLayout(e.layout)
	e.scroll.SetPageWidth(e.layout.PageWidth())
}

func (e *Engine) Start() { e.clock.Start() }
func (e *Engine) Stop() {
	e.clock.Stop()
	e.drag.Cancel()
}

// Input forwarding. Pointer positions are viewport-local.

func (e *Engine) Press(p fyne.Position)   { e.drag.Press(p) }
func (e *Engine) Move(p fyne.Position)    { e.drag.Move(p) }
func (e *Engine) Release(p fyne.Position) { e.drag.Release(p) }
func (e *Engine) CancelDrag()             { e.drag.Cancel() }

func (e *Engine) BeginHandoff(it Item, p fyne.Position) { e.drag.BeginHandoff(it, p) }

func (e *Engine) Wheel(delta float32) { e.scroll.Wheel(delta) }
func (e *Engine) PanBegan()           { e.scroll.PanBegan() }
func (e *Engine) PanChanged(delta float32) {
	e.scroll.PanChanged(delta)
}
func (e *Engine) PanEnded()     { e.scroll.PanEnded() }
func (e *Engine) PanCancelled() { e.scroll.PanCancelled() }

// Component access for backends and tests.

func (e *Engine) Layout() *GridLayout           { return e.layout }
func (e *Engine) Pages() *PageModel             { return e.pages }
func (e *Engine) Scroll() *PageScrollController { return e.scroll }
func (e *Engine) Drag() *DragReorderController  { return e.drag }

// SetFrameFunc registers a callback run after each tick while motion is
// live (settle animation, user pan, or an active drag). Backends hook
// their redraw here.
func (e *Engine) SetFrameFunc(fn func()) { e.onFrame = fn }

func (e *Engine) tick(now time.Time) {
	stepped := e.scroll.SettleStep()
	e.drag.Tick(now)

	if e.onFrame == nil {
		return
	}
	if stepped || e.scroll.IsUserDriven() || e.drag.Phase() != DragIdle {
		e.onFrame()
	}
}
