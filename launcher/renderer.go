package launcher

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"

	"github.com/alexballas/xlaunchpad/engine"
)

const (
	dotDiameter = float32(8)
	dotSpacing  = float32(18)
	dotBaseline = float32(24)
)

type launcherRenderer struct {
	l *Launcher

	items   []*launchItem
	preview *launchItem
	dots    []*canvas.Circle
	zoom    *zoomScrollOverlay
	resize  resizeDebouncer
}

func newLauncherRenderer(l *Launcher) *launcherRenderer {
	r := &launcherRenderer{l: l}
	r.preview = newLaunchItem()
	r.preview.Hide()
	r.zoom = newZoomScrollOverlay(l.ZoomStep)
	r.resize.onResize = func(size fyne.Size) { saveWindowSize(size) }
	return r
}

func (r *launcherRenderer) Layout(size fyne.Size) {
	r.l.eng.Resize(size)
	r.resize.notify(size)
	r.sync(size)
}

func (r *launcherRenderer) MinSize() fyne.Size {
	return fyne.NewSize(480, 320)
}

func (r *launcherRenderer) Refresh() {
	r.sync(r.l.Size())
	for _, w := range r.items {
		w.Refresh()
	}
	for _, d := range r.dots {
		d.Refresh()
	}
	if r.preview.Visible() {
		r.preview.Refresh()
	}
	if r.l.folder != nil {
		r.l.folder.Refresh()
	}
}

// sync rebinds the widget pool to the engine state: item positions from
// grid geometry plus the live scroll offset, drop-target highlight, the
// ghosted drag source, the floating preview and the page dots.
func (r *launcherRenderer) sync(size fyne.Size) {
	eng := r.l.eng
	items := eng.Items()
	layout := eng.Layout()
	pages := eng.Pages()
	cfg := eng.Config()
	offset := eng.Scroll().Offset()
	perPage := pages.PerPage()

	drag := eng.Drag()
	dragging := drag.Phase() == engine.DragDragging
	srcIdx := drag.SourceIndex()
	pending, folderTarget, isFolderTarget := drag.DropTarget()

	for len(r.items) < len(items) {
		r.items = append(r.items, newLaunchItem())
	}
	for i := len(items); i < len(r.items); i++ {
		r.items[i].Hide()
	}

	for i, it := range items {
		w := r.items[i]
		w.Show()

		page := i / perPage
		local := i % perPage
		pos, cell := layout.CellRect(local, page)
		w.Move(fyne.NewPos(pos.X+offset, pos.Y))
		w.Resize(cell)
		w.setItem(it, cfg.IconSize)
		w.setGhosted(dragging && i == srcIdx)

		highlighted := dragging && ((isFolderTarget && i == folderTarget) ||
			(!isFolderTarget && i == pending && i != srcIdx))
		w.setHighlighted(highlighted)
	}

	if it, ok := drag.DraggedItem(); ok {
		r.preview.setItem(it, cfg.IconSize)
		_, cell := layout.CellRect(0, 0)
		r.preview.Resize(cell)
		r.preview.Move(drag.PreviewPos())
		r.preview.Show()
	} else {
		r.preview.Hide()
	}

	r.syncDots(size, pages)

	r.zoom.Resize(size)
	r.zoom.Move(fyne.NewPos(0, 0))

	if r.l.folder != nil {
		r.l.folder.Resize(size)
		r.l.folder.Move(fyne.NewPos(0, 0))
		r.l.folder.Show()
	}
}

func (r *launcherRenderer) syncDots(size fyne.Size, pages *engine.PageModel) {
	count := pages.PageCount()
	for len(r.dots) < count {
		r.dots = append(r.dots, canvas.NewCircle(theme.Color(theme.ColorNameDisabled)))
	}
	for i := count; i < len(r.dots); i++ {
		r.dots[i].Hide()
	}

	total := float32(count)*dotDiameter + float32(count-1)*(dotSpacing-dotDiameter)
	startX := (size.Width - total) / 2
	y := size.Height - dotBaseline

	for i := 0; i < count; i++ {
		dot := r.dots[i]
		dot.Show()
		if i == pages.CurrentPage() {
			dot.FillColor = theme.Color(theme.ColorNameForeground)
		} else {
			dot.FillColor = theme.Color(theme.ColorNameDisabled)
		}
		dot.Resize(fyne.NewSquareSize(dotDiameter))
		dot.Move(fyne.NewPos(startX+float32(i)*dotSpacing, y))
	}
}

func (r *launcherRenderer) Objects() []fyne.CanvasObject {
	objs := make([]fyne.CanvasObject, 0, len(r.items)+len(r.dots)+3)
	for _, w := range r.items {
		objs = append(objs, w)
	}
	for _, d := range r.dots {
		objs = append(objs, d)
	}
	objs = append(objs, r.preview, r.zoom)
	if r.l.folder != nil {
		objs = append(objs, r.l.folder)
	}
	return objs
}

func (r *launcherRenderer) Destroy() {
	r.resize.stop()
}
