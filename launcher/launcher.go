// Package launcher renders the application grid with Fyne and feeds
// pointer, wheel and key input into the interaction engine.
package launcher

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/alexballas/xlaunchpad/engine"
)

// Launcher is the paged application grid widget. All structural changes
// flow through the embedded engine; the widget only translates input and
// draws state.
type Launcher struct {
	widget.BaseWidget

	eng       *engine.Engine
	zoomLevel int

	// OnLaunch fires when an app (not a folder) is activated.
	OnLaunch func(engine.App)
	// OnSave fires after every committed layout change.
	OnSave func([]engine.Item)

	panning     bool
	lastPointer fyne.Position

	folder *folderOverlay
}

// New builds the widget with defaults overlaid by saved preferences.
func New() *Launcher {
	l := &Launcher{zoomLevel: loadZoomLevel()}

	cfg := loadPrefs(engine.DefaultConfig())
	events := engine.Events{
		OnItemActivated: l.activate,
		OnPageChanged:   func(int) { l.refreshGrid() },
		OnReorder:       func(int, int) { l.refreshGrid() },
		OnCreateFolder:  func(_, _ engine.App, _ int) { l.refreshGrid() },
		OnMoveToFolder:  func(engine.App, engine.Item) { l.refreshGrid() },
		OnRequestNewPage: func() {
			l.refreshGrid()
		},
		OnSave: func(items []engine.Item) {
			if l.OnSave != nil {
				l.OnSave(items)
			}
		},
	}
	l.eng = engine.New(cfg, events, fyne.Do)
	l.eng.SetFrameFunc(l.refreshGrid)

	l.ExtendBaseWidget(l)
	return l
}

// Engine exposes the interaction engine, mainly for tests.
func (l *Launcher) Engine() *engine.Engine { return l.eng }

// SetItems replaces the grid content and prewarms the icon cache.
func (l *Launcher) SetItems(items []engine.Item) {
	l.eng.SetItems(items)

	keys := make([]string, 0, len(items))
	for _, it := range items {
		if it.IconKey != "" {
			keys = append(keys, it.IconKey)
		}
		for _, a := range it.Apps {
			if a.IconKey != "" {
				keys = append(keys, a.IconKey)
			}
		}
	}
	GetIconManager().Prewarm(keys)
	l.Refresh()
}

func (l *Launcher) Items() []engine.Item { return l.eng.Items() }

// AddItem appends an item on the current page and persists the layout.
func (l *Launcher) AddItem(it engine.Item) {
	l.eng.Pages().Append(it, l.eng.Pages().CurrentPage())
	if l.OnSave != nil {
		l.OnSave(l.eng.Items())
	}
	if it.IconKey != "" {
		GetIconManager().Prewarm([]string{it.IconKey})
	}
	l.Refresh()
}

// Start runs the render clock; call once the widget is shown.
func (l *Launcher) Start() { l.eng.Start() }

// Stop halts the clock and cancels any live drag.
func (l *Launcher) Stop() { l.eng.Stop() }

// SetGrid changes the column/row counts and persists them.
func (l *Launcher) SetGrid(columns, rows int) {
	cfg := l.eng.Config()
	cfg.Columns = columns
	cfg.Rows = rows
	l.eng.SetConfig(cfg)
	saveGridPrefs(cfg)
	l.Refresh()
}

// ZoomStep moves the icon size through the zoom levels and persists the
// new level.
func (l *Launcher) ZoomStep(steps int) {
	level := clampZoomLevelIndex(l.zoomLevel + steps)
	if level == l.zoomLevel {
		return
	}
	l.zoomLevel = level
	saveZoomLevel(level)

	cfg := l.eng.Config()
	cfg.IconSize = iconSizeForZoomLevel(level)
	l.eng.SetConfig(cfg)
	l.Refresh()
}

func (l *Launcher) activate(it engine.Item, index int) {
	switch it.Kind {
	case engine.KindFolder:
		l.openFolder(it, index)
	case engine.KindApp:
		if app, ok := it.AsApp(); ok && l.OnLaunch != nil {
			l.OnLaunch(app)
		}
	case engine.KindMissing, engine.KindEmpty:
		// Missing apps cannot launch; empty slots never activate.
	}
}

func (l *Launcher) openFolder(it engine.Item, index int) {
	l.folder = newFolderOverlay(l, it, index)
	l.Refresh()
}

func (l *Launcher) closeFolder() {
	if l.folder == nil {
		return
	}
	l.folder = nil
	l.Refresh()
}

// refreshGrid repositions the grid for the current scroll offset and drag
// state without rebuilding widgets.
func (l *Launcher) refreshGrid() {
	l.Refresh()
}

func (l *Launcher) CreateRenderer() fyne.WidgetRenderer {
	return newLauncherRenderer(l)
}

// Pointer input. The engine treats all positions as viewport-local, which
// matches the widget-relative coordinates Fyne hands us.

var _ desktop.Mouseable = (*Launcher)(nil)

func (l *Launcher) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	l.lastPointer = e.Position
	l.eng.Press(e.Position)
}

func (l *Launcher) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	if l.panning {
		return
	}
	l.eng.Release(e.Position)
	l.Refresh()
}

var _ fyne.Draggable = (*Launcher)(nil)

func (l *Launcher) Dragged(e *fyne.DragEvent) {
	l.lastPointer = e.Position

	if l.eng.Drag().Phase() != engine.DragIdle {
		l.eng.Move(e.Position)
		l.Refresh()
		return
	}

	// No item under the press: the gesture pans the page strip.
	if !l.panning {
		l.panning = true
		l.eng.PanBegan()
	}
	l.eng.PanChanged(e.Dragged.DX)
	l.Refresh()
}

func (l *Launcher) DragEnd() {
	if l.panning {
		l.panning = false
		l.eng.PanEnded()
		return
	}
	l.eng.Release(l.lastPointer)
	l.Refresh()
}

var _ fyne.Scrollable = (*Launcher)(nil)

func (l *Launcher) Scrolled(e *fyne.ScrollEvent) {
	delta := e.Scrolled.DY
	if abs32(e.Scrolled.DX) > abs32(delta) {
		delta = e.Scrolled.DX
	}
	l.eng.Wheel(delta)
}

// Keyboard input.

var _ fyne.Focusable = (*Launcher)(nil)

func (l *Launcher) FocusGained() {}

func (l *Launcher) FocusLost() {
	// Losing focus mid-drag must not leave the grid half-mutated.
	l.eng.CancelDrag()
	l.panning = false
	l.Refresh()
}

func (l *Launcher) TypedRune(rune) {}

func (l *Launcher) TypedKey(e *fyne.KeyEvent) {
	switch e.Name {
	case fyne.KeyEscape:
		if l.folder != nil {
			l.closeFolder()
			return
		}
		l.eng.CancelDrag()
		l.Refresh()
	case fyne.KeyLeft:
		l.eng.Scroll().FlipPage(-1)
	case fyne.KeyRight:
		l.eng.Scroll().FlipPage(1)
	}
}
