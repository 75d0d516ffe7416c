package launcher

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/alexballas/xlaunchpad/engine"
)

const folderColumns = 4

// folderOverlay shows an opened folder's members above the grid. Tapping
// a member launches it, dragging one past the threshold hands it to the
// engine as a live drag out of the folder, and clicking the dimmed
// backdrop closes the overlay.
type folderOverlay struct {
	widget.BaseWidget

	l     *Launcher
	item  engine.Item
	index int

	backdrop *canvas.Rectangle
	panel    *canvas.Rectangle
	title    *widget.Label
	members  []*launchItem

	pressIdx    int
	pressPos    fyne.Position
	lastPointer fyne.Position
	handoff     bool
}

func newFolderOverlay(l *Launcher, item engine.Item, index int) *folderOverlay {
	o := &folderOverlay{
		l:        l,
		item:     item,
		index:    index,
		pressIdx: -1,
	}
	o.backdrop = canvas.NewRectangle(theme.Color(theme.ColorNameShadow))
	o.panel = canvas.NewRectangle(theme.Color(theme.ColorNameOverlayBackground))
	o.panel.CornerRadius = theme.InputRadiusSize() * 2
	o.title = widget.NewLabel(item.Name)
	o.title.Alignment = fyne.TextAlignCenter
	o.title.TextStyle = fyne.TextStyle{Bold: true}

	for _, a := range item.Apps {
		m := newLaunchItem()
		m.setItem(engine.NewAppItem(a), l.eng.Config().IconSize)
		o.members = append(o.members, m)
	}

	o.ExtendBaseWidget(o)
	return o
}

func (o *folderOverlay) CreateRenderer() fyne.WidgetRenderer {
	return &folderOverlayRenderer{o: o}
}

// Geometry. The overlay fills the launcher, so its local coordinates are
// interchangeable with the engine's viewport coordinates.

func (o *folderOverlay) cellSize() fyne.Size {
	iconSize := o.l.eng.Config().IconSize
	return fyne.NewSize(iconSize*1.6, iconSize+labelExtent)
}

func (o *folderOverlay) gridShape() (cols, rows int) {
	cols = len(o.members)
	if cols > folderColumns {
		cols = folderColumns
	}
	if cols < 1 {
		cols = 1
	}
	rows = (len(o.members) + cols - 1) / cols
	return cols, rows
}

func (o *folderOverlay) panelRect(size fyne.Size) (fyne.Position, fyne.Size) {
	cols, rows := o.gridShape()
	cell := o.cellSize()
	pad := theme.Padding() * 4

	w := float32(cols)*cell.Width + pad*2
	h := float32(rows)*cell.Height + pad*2 + o.title.MinSize().Height
	return fyne.NewPos((size.Width-w)/2, (size.Height-h)/2), fyne.NewSize(w, h)
}

func (o *folderOverlay) memberRect(i int, size fyne.Size) (fyne.Position, fyne.Size) {
	cols, _ := o.gridShape()
	cell := o.cellSize()
	pad := theme.Padding() * 4
	panelPos, _ := o.panelRect(size)

	col := i % cols
	row := i / cols
	x := panelPos.X + pad + float32(col)*cell.Width
	y := panelPos.Y + pad + o.title.MinSize().Height + float32(row)*cell.Height
	return fyne.NewPos(x, y), cell
}

func (o *folderOverlay) memberAt(p fyne.Position) int {
	size := o.Size()
	for i := range o.members {
		pos, cell := o.memberRect(i, size)
		if p.X >= pos.X && p.X < pos.X+cell.Width && p.Y >= pos.Y && p.Y < pos.Y+cell.Height {
			return i
		}
	}
	return -1
}

func (o *folderOverlay) inPanel(p fyne.Position) bool {
	pos, size := o.panelRect(o.Size())
	return p.X >= pos.X && p.X < pos.X+size.Width && p.Y >= pos.Y && p.Y < pos.Y+size.Height
}

// Input.

var _ desktop.Mouseable = (*folderOverlay)(nil)

func (o *folderOverlay) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	o.pressIdx = o.memberAt(e.Position)
	o.pressPos = e.Position
	o.lastPointer = e.Position
}

func (o *folderOverlay) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || o.handoff {
		return
	}
	idx := o.memberAt(e.Position)
	switch {
	case idx >= 0 && idx == o.pressIdx:
		app := o.item.Apps[idx]
		o.l.closeFolder()
		if o.l.OnLaunch != nil {
			o.l.OnLaunch(app)
		}
	case !o.inPanel(e.Position):
		o.l.closeFolder()
	}
	o.pressIdx = -1
}

var _ fyne.Draggable = (*folderOverlay)(nil)

func (o *folderOverlay) Dragged(e *fyne.DragEvent) {
	o.lastPointer = e.Position

	// Fyne keeps routing the gesture here even after the overlay closes,
	// so forward it to the engine for the rest of the drag.
	if o.handoff {
		o.l.eng.Move(e.Position)
		o.l.Refresh()
		return
	}
	if o.pressIdx < 0 {
		return
	}

	th := o.l.eng.Config().DragThreshold
	dx := e.Position.X - o.pressPos.X
	dy := e.Position.Y - o.pressPos.Y
	if dx*dx+dy*dy > th*th {
		o.startHandoff(e.Position)
	}
}

func (o *folderOverlay) DragEnd() {
	if !o.handoff {
		return
	}
	o.handoff = false
	o.l.eng.Release(o.lastPointer)
	o.l.Refresh()
}

// startHandoff pulls the pressed member out of the folder and continues
// the gesture as a grid drag.
func (o *folderOverlay) startHandoff(p fyne.Position) {
	app := o.item.Apps[o.pressIdx]
	updated := o.item.WithoutApp(app.ID)
	o.l.eng.Pages().ReplaceAt(o.index, updated)

	o.handoff = true
	o.l.closeFolder()
	o.l.eng.BeginHandoff(engine.NewAppItem(app), p)
	o.l.Refresh()
}

type folderOverlayRenderer struct {
	o *folderOverlay
}

func (r *folderOverlayRenderer) Layout(size fyne.Size) {
	o := r.o
	o.backdrop.Resize(size)

	panelPos, panelSize := o.panelRect(size)
	o.panel.Move(panelPos)
	o.panel.Resize(panelSize)

	o.title.Resize(fyne.NewSize(panelSize.Width, o.title.MinSize().Height))
	o.title.Move(fyne.NewPos(panelPos.X, panelPos.Y+theme.Padding()))

	for i, m := range o.members {
		pos, cell := o.memberRect(i, size)
		m.Move(pos)
		m.Resize(cell)
	}
}

func (r *folderOverlayRenderer) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

func (r *folderOverlayRenderer) Refresh() {
	r.o.backdrop.Refresh()
	r.o.panel.Refresh()
	r.o.title.Refresh()
	for _, m := range r.o.members {
		m.Refresh()
	}
}

func (r *folderOverlayRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{r.o.backdrop, r.o.panel, r.o.title}
	for _, m := range r.o.members {
		objs = append(objs, m)
	}
	return objs
}

func (r *folderOverlayRenderer) Destroy() {}
