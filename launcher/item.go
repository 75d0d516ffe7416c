package launcher

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/alexballas/xlaunchpad/engine"
)

const labelExtent = float32(32)

// launchItem renders one grid slot: an app icon with its label, a folder
// with a mini-grid of member icons, or a dimmed placeholder for a missing
// app. It is draw-only; the Launcher widget owns all input.
type launchItem struct {
	widget.BaseWidget

	icon       *widget.Icon
	thumb      *canvas.Image
	label      *widget.Label
	highlight  *canvas.Rectangle
	folderBase *canvas.Rectangle
	miniThumbs [4]*canvas.Image

	iconSize   float32
	currentKey string
	kind       engine.ItemKind
	loadTimer  *time.Timer
}

func newLaunchItem() *launchItem {
	it := &launchItem{
		icon:       widget.NewIcon(theme.BrokenImageIcon()),
		thumb:      canvas.NewImageFromImage(nil),
		label:      widget.NewLabel(""),
		highlight:  canvas.NewRectangle(theme.Color(theme.ColorNameSelection)),
		folderBase: canvas.NewRectangle(theme.Color(theme.ColorNameInputBackground)),
	}
	it.thumb.FillMode = canvas.ImageFillContain
	it.thumb.Hide()
	it.highlight.Hide()
	it.highlight.CornerRadius = theme.InputRadiusSize()
	it.folderBase.Hide()
	it.folderBase.CornerRadius = theme.InputRadiusSize()
	it.label.Alignment = fyne.TextAlignCenter
	it.label.Truncation = fyne.TextTruncateEllipsis
	for i := range it.miniThumbs {
		img := canvas.NewImageFromImage(nil)
		img.FillMode = canvas.ImageFillContain
		img.Hide()
		it.miniThumbs[i] = img
	}
	it.ExtendBaseWidget(it)
	return it
}

func (it *launchItem) CreateRenderer() fyne.WidgetRenderer {
	return &launchItemRenderer{item: it}
}

func (it *launchItem) setItem(item engine.Item, iconSize float32) {
	it.iconSize = iconSize
	changed := it.currentKey != item.ID || it.kind != item.Kind
	it.currentKey = item.ID
	it.kind = item.Kind

	switch item.Kind {
	case engine.KindEmpty:
		it.label.SetText("")
		it.icon.Hide()
		it.thumb.Hide()
		it.folderBase.Hide()
		it.hideMiniThumbs()
		return
	case engine.KindFolder:
		it.label.SetText(item.Name)
		it.icon.Hide()
		it.thumb.Hide()
		it.folderBase.Show()
		it.loadFolderIcons(item)
		return
	case engine.KindApp, engine.KindMissing:
		// Missing apps keep their slot but read as unavailable.
		it.label.TextStyle = fyne.TextStyle{Italic: item.Kind == engine.KindMissing}
		it.label.SetText(item.Name)
		it.folderBase.Hide()
		it.hideMiniThumbs()
	}

	if !changed {
		return
	}

	it.icon.SetResource(theme.BrokenImageIcon())
	it.icon.Show()
	it.thumb.Hide()
	it.thumb.Image = nil

	key := item.IconKey
	if key == "" {
		it.Refresh()
		return
	}

	if it.loadTimer != nil {
		it.loadTimer.Stop()
	}

	// Instant memory hit, else load with a short delay so fast page flips
	// don't flood the queue.
	if img := GetIconManager().LoadMemoryOnly(key); img != nil {
		it.showThumb(img)
		return
	}

	id := item.ID
	it.loadTimer = time.AfterFunc(200*time.Millisecond, func() {
		GetIconManager().Load(key, func(img *canvas.Image) {
			fyne.Do(func() {
				if it.currentKey != id || img == nil {
					return
				}
				it.showThumb(img)
			})
		})
	})
}

func (it *launchItem) showThumb(img *canvas.Image) {
	it.thumb.Image = img.Image
	it.thumb.File = img.File
	it.icon.Hide()
	it.thumb.Show()
	it.Refresh()
}

func (it *launchItem) loadFolderIcons(item engine.Item) {
	it.hideMiniThumbs()
	count := len(item.Apps)
	if count > len(it.miniThumbs) {
		count = len(it.miniThumbs)
	}
	for i := 0; i < count; i++ {
		slot := it.miniThumbs[i]
		key := item.Apps[i].IconKey
		if key == "" {
			continue
		}
		if img := GetIconManager().LoadMemoryOnly(key); img != nil {
			slot.Image = img.Image
			slot.File = img.File
			slot.Show()
			continue
		}
		folderID := item.ID
		GetIconManager().Load(key, func(img *canvas.Image) {
			fyne.Do(func() {
				if it.currentKey != folderID || img == nil {
					return
				}
				slot.Image = img.Image
				slot.File = img.File
				slot.Show()
				slot.Refresh()
			})
		})
	}
	it.Refresh()
}

func (it *launchItem) hideMiniThumbs() {
	for _, m := range it.miniThumbs {
		m.Image = nil
		m.File = ""
		m.Hide()
	}
}

// setHighlighted marks the slot as a live drop target.
func (it *launchItem) setHighlighted(on bool) {
	if on == it.highlight.Visible() {
		return
	}
	if on {
		it.highlight.Show()
	} else {
		it.highlight.Hide()
	}
	it.Refresh()
}

// setGhosted dims the slot; the drag source while its preview floats.
func (it *launchItem) setGhosted(on bool) {
	target := float32(1)
	if on {
		target = 0.35
	}
	if it.thumb.Translucency == float64(1-target) {
		return
	}
	it.thumb.Translucency = float64(1 - target)
	it.Refresh()
}

type launchItemRenderer struct {
	item *launchItem
}

func (r *launchItemRenderer) Layout(size fyne.Size) {
	it := r.item
	it.highlight.Resize(size)

	iconSide := it.iconSize
	if iconSide > size.Height-labelExtent {
		iconSide = size.Height - labelExtent
	}
	if iconSide > size.Width {
		iconSide = size.Width
	}
	if iconSide < 0 {
		iconSide = 0
	}

	iconPos := fyne.NewPos((size.Width-iconSide)/2, (size.Height-labelExtent-iconSide)/2)
	iconSquare := fyne.NewSquareSize(iconSide)

	it.icon.Resize(iconSquare)
	it.icon.Move(iconPos)
	it.thumb.Resize(iconSquare)
	it.thumb.Move(iconPos)
	it.folderBase.Resize(iconSquare)
	it.folderBase.Move(iconPos)

	// 2x2 mini grid inside the folder backdrop.
	pad := iconSide * 0.08
	cell := (iconSide - pad*3) / 2
	for i, m := range it.miniThumbs {
		col := float32(i % 2)
		row := float32(i / 2)
		m.Resize(fyne.NewSquareSize(cell))
		m.Move(fyne.NewPos(
			iconPos.X+pad+col*(cell+pad),
			iconPos.Y+pad+row*(cell+pad),
		))
	}

	it.label.Resize(fyne.NewSize(size.Width, labelExtent))
	it.label.Move(fyne.NewPos(0, size.Height-labelExtent))
}

func (r *launchItemRenderer) MinSize() fyne.Size {
	return fyne.NewSize(r.item.iconSize, r.item.iconSize+labelExtent)
}

func (r *launchItemRenderer) Refresh() {
	r.item.highlight.Refresh()
	r.item.icon.Refresh()
	r.item.thumb.Refresh()
	r.item.folderBase.Refresh()
	r.item.label.Refresh()
}

func (r *launchItemRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{
		r.item.highlight,
		r.item.folderBase,
		r.item.icon,
		r.item.thumb,
	}
	for _, m := range r.item.miniThumbs {
		objs = append(objs, m)
	}
	return append(objs, r.item.label)
}

func (r *launchItemRenderer) Destroy() {
	if r.item.loadTimer != nil {
		r.item.loadTimer.Stop()
	}
}
