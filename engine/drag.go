package engine

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
)

// DragPhase is the drag life-cycle state.
type DragPhase int

const (
	DragIdle DragPhase = iota
	DragPressed
	DragDragging
	DragResolving
)

// DragReorderController runs the drag life-cycle state machine: press and
// threshold detection, hover-target classification, folder-creation zones,
// edge auto-advance, and the commit on release. All pointer positions are
// viewport-local; the controller resolves them against the current page.
type DragReorderController struct {
	cfg    Config
	layout *GridLayout
	pages  *PageModel
	scroll *PageScrollController
	events Events
	sched  Scheduler
	now    func() time.Time

	phase       DragPhase
	item        Item
	sourceIndex int
	handoff     bool

	startPoint    fyne.Position
	pointer       fyne.Position
	pointerOffset fyne.Position
	previewPos    fyne.Position

	hoverIndex        int
	pendingDropIndex  int
	isFolderCandidate bool
	folderTargetIndex int

	cancelLongPress   func()
	cancelFolderDwell func()
	pendingFolderIdx  int

	edgeDir           int
	edgeSince         time.Time
	edgeCooldownUntil time.Time

	folderSeq int
}

func NewDragReorderController(cfg Config, layout *GridLayout, pages *PageModel, scroll *PageScrollController, events Events, sched Scheduler) *DragReorderController {
	return &DragReorderController{
		cfg:               cfg,
		layout:            layout,
		pages:             pages,
		scroll:            scroll,
		events:            events,
		sched:             sched,
		now:               time.Now,
		sourceIndex:       -1,
		hoverIndex:        -1,
		pendingDropIndex:  -1,
		folderTargetIndex: -1,
		pendingFolderIdx:  -1,
	}
}

func (d *DragReorderController) SetConfig(cfg Config) { d.cfg = cfg }

// SetLayout swaps in fresh geometry after a resize or config change.
func (d *DragReorderController) SetLayout(l *GridLayout) { d.layout = l }

func (d *DragReorderController) Phase() DragPhase { return d.phase }

// SourceIndex is the flat index of the item being dragged, or -1 when idle
// or when the drag was handed off from outside the grid. Renderers dim
// this slot while a drag is live.
func (d *DragReorderController) SourceIndex() int {
	if d.phase == DragDragging || d.phase == DragPressed {
		return d.sourceIndex
	}
	return -1
}

// PreviewPos is the floating preview's origin while dragging.
func (d *DragReorderController) PreviewPos() fyne.Position { return d.previewPos }

// DraggedItem returns the item under drag while one is live.
func (d *DragReorderController) DraggedItem() (Item, bool) {
	if d.phase == DragDragging {
		return d.item, true
	}
	return Item{}, false
}

// DropTarget describes the live candidate: the flat slot a reorder would
// land in, or the folder-merge target when the pointer sits in a drop zone.
func (d *DragReorderController) DropTarget() (pendingDropIndex int, folderTargetIndex int, isFolderCandidate bool) {
	return d.pendingDropIndex, d.folderTargetIndex, d.isFolderCandidate
}

// Press starts the life-cycle over a non-empty item's interactive rect.
// Presses over dead cell space or empty slots are empty-area presses and
// stay in Idle.
func (d *DragReorderController) Press(p fyne.Position) {
	if d.phase != DragIdle {
		return
	}
	local, ok := d.layout.IndexAt(p, 0)
	if !ok {
		return
	}
	if !d.insideInteractive(p, local) {
		return
	}
	idx := d.pages.GlobalIndex(d.pages.CurrentPage(), local)
	it, ok := d.pages.ItemAt(idx)
	if !ok || it.IsEmpty() {
		return
	}

	d.phase = DragPressed
	d.item = it
	d.sourceIndex = idx
	d.handoff = false
	d.startPoint = p
	d.pointer = p
	cellPos, _ := d.layout.CellRect(local, 0)
	d.pointerOffset = fyne.NewPos(p.X-cellPos.X, p.Y-cellPos.Y)

	// Touch-style initiation: a long enough press promotes to Dragging
	// even without movement.
	d.cancelLongPress = d.sched.After(d.cfg.LongPressDelay, func() {
		if d.phase == DragPressed {
			d.promote()
		}
	})
}

// BeginHandoff starts a drag already in the Dragging state for an item
// that is not (or no longer) in the grid, e.g. an app pulled out of an
// open folder.
func (d *DragReorderController) BeginHandoff(it Item, p fyne.Position) {
	if d.phase != DragIdle || it.IsEmpty() {
		return
	}
	d.phase = DragDragging
	d.item = it
	d.sourceIndex = -1
	d.handoff = true
	d.startPoint = p
	d.pointer = p
	d.pointerOffset = fyne.NewPos(d.cfg.IconSize/2, d.cfg.IconSize/2)
	d.previewPos = p.Subtract(d.pointerOffset)
	d.update(p)
}

// Move feeds a pointer update into the state machine.
func (d *DragReorderController) Move(p fyne.Position) {
	switch d.phase {
	case DragIdle, DragResolving:
		return
	case DragPressed:
		dx := p.X - d.startPoint.X
		dy := p.Y - d.startPoint.Y
		if dx*dx+dy*dy > d.cfg.DragThreshold*d.cfg.DragThreshold {
			d.promote()
			d.update(p)
			return
		}
		d.pointer = p
	case DragDragging:
		d.update(p)
	}
}

// Release finishes the life-cycle: a tap when still Pressed, a drop when
// Dragging.
func (d *DragReorderController) Release(p fyne.Position) {
	switch d.phase {
	case DragIdle, DragResolving:
		return
	case DragPressed:
		d.stopTimers()
		it, idx := d.item, d.sourceIndex
		d.reset()
		d.events.itemActivated(it, idx)
	case DragDragging:
		d.update(p)
		d.resolve()
	}
}

// Cancel short-circuits to Idle without mutating the item list. Escape,
// window deactivation and focus loss all route here.
func (d *DragReorderController) Cancel() {
	if d.phase == DragIdle {
		return
	}
	d.stopTimers()
	if d.handoff && d.phase == DragDragging {
		// A handed-off item no longer has a slot to snap back to, so it
		// lands at the end of the current page instead of vanishing.
		to := d.pages.Append(d.item, d.pages.CurrentPage())
		d.events.reorder(-1, to)
		d.events.save(d.pages.Items())
	}
	d.pages.PruneTrailingEmpties()
	d.scroll.ScrollToPage(d.pages.CurrentPage())
	d.reset()
}

// Tick advances the edge-hold accounting; the render clock drives it.
func (d *DragReorderController) Tick(now time.Time) {
	if d.phase != DragDragging || d.edgeDir == 0 {
		return
	}
	if now.Before(d.edgeCooldownUntil) {
		return
	}
	if now.Sub(d.edgeSince) < d.cfg.AutoAdvanceDwell {
		return
	}
	d.advanceEdge(now)
}

func (d *DragReorderController) promote() {
	d.stopTimers()
	d.phase = DragDragging
	d.previewPos = d.pointer.Subtract(d.pointerOffset)
}

func (d *DragReorderController) update(p fyne.Position) {
	prev := d.pointer
	d.pointer = p

	d.classifyHover(p)
	d.checkEdge(p)

	// Skip sub-pixel preview moves to avoid redundant redraws.
	dx := p.X - prev.X
	dy := p.Y - prev.Y
	if dx*dx+dy*dy >= d.cfg.PreviewMinDelta*d.cfg.PreviewMinDelta {
		d.previewPos = p.Subtract(d.pointerOffset)
	}
}

func (d *DragReorderController) classifyHover(p fyne.Position) {
	query := p.Subtract(d.pointerOffset)
	local, ok := d.layout.IndexAt(query, 0)
	if !ok && d.cfg.ClampDragQueries {
		local = d.layout.NearestIndex(query, 0)
		ok = true
	}
	if !ok {
		d.hoverIndex = -1
		d.pendingDropIndex = -1
		d.clearFolderCandidate()
		return
	}

	idx := d.pages.GlobalIndex(d.pages.CurrentPage(), local)
	d.hoverIndex = idx

	target, exists := d.pages.ItemAt(idx)
	if !exists {
		// Partial page: land on the nearest occupied edge slot instead.
		d.pendingDropIndex = d.pages.Len() - 1
		d.clearFolderCandidate()
		return
	}

	switch target.Kind {
	case KindEmpty:
		d.pendingDropIndex = idx
		d.clearFolderCandidate()
	case KindApp:
		if d.item.Kind == KindApp && idx != d.sourceIndex && d.layout.InDropZone(p, local, 0) {
			d.setFolderCandidate(idx)
			return
		}
		d.pendingDropIndex = idx
		d.clearFolderCandidate()
	case KindFolder:
		if d.item.Kind == KindApp && d.layout.InDropZone(p, local, 0) {
			d.setFolderCandidate(idx)
			return
		}
		d.pendingDropIndex = idx
		d.clearFolderCandidate()
	case KindMissing:
		// Placeholder slots reorder like any other; a same-index drop is a
		// no-op at resolve time.
		d.pendingDropIndex = idx
		d.clearFolderCandidate()
	}
}

func (d *DragReorderController) setFolderCandidate(idx int) {
	if d.isFolderCandidate && d.folderTargetIndex == idx {
		return
	}
	if d.pendingFolderIdx == idx {
		return
	}

	if d.cfg.FolderDwell <= 0 {
		d.confirmFolderCandidate(idx)
		return
	}
	// Delayed confirmation: the candidate arms after the dwell unless the
	// pointer leaves the zone first.
	d.cancelFolderDwellTimer()
	d.pendingFolderIdx = idx
	d.cancelFolderDwell = d.sched.After(d.cfg.FolderDwell, func() {
		if d.phase == DragDragging && d.pendingFolderIdx == idx {
			d.confirmFolderCandidate(idx)
		}
	})
}

func (d *DragReorderController) confirmFolderCandidate(idx int) {
	d.pendingFolderIdx = -1
	d.isFolderCandidate = true
	d.folderTargetIndex = idx
	d.pendingDropIndex = -1
}

func (d *DragReorderController) clearFolderCandidate() {
	d.cancelFolderDwellTimer()
	d.pendingFolderIdx = -1
	d.isFolderCandidate = false
	d.folderTargetIndex = -1
}

func (d *DragReorderController) checkEdge(p fyne.Position) {
	dir := 0
	if p.X <= d.cfg.EdgeMargin {
		dir = -1
	} else if p.X >= d.layout.PageWidth()-d.cfg.EdgeMargin {
		// The trailing edge also requires the pointer within the grid's
		// vertical extent so corner gestures don't page accidentally.
		top, bottom := d.layout.contentBounds()
		if p.Y >= top && p.Y <= bottom {
			dir = 1
		}
	}

	if dir != d.edgeDir {
		d.edgeDir = dir
		d.edgeSince = d.now()
	}
}

func (d *DragReorderController) advanceEdge(now time.Time) {
	if d.edgeDir > 0 && d.pages.CurrentPage() == d.pages.PageCount()-1 {
		d.events.requestNewPage()
		d.pages.MaterializeNextPage()
	}
	d.scroll.FlipPage(d.edgeDir)

	// Re-arm so a drag held at the edge keeps paging, gated by cooldown.
	d.edgeCooldownUntil = now.Add(d.cfg.AutoAdvanceCooldown)
	d.edgeSince = now
	d.classifyHover(d.pointer)
}

func (d *DragReorderController) resolve() {
	d.phase = DragResolving
	d.stopTimers()

	mutated := false
	switch {
	case d.isFolderCandidate && d.folderTargetIndex >= 0:
		mutated = d.resolveFolder()
	case d.handoff:
		mutated = d.resolveHandoff()
	case d.pendingDropIndex >= 0 && d.pendingDropIndex != d.sourceIndex:
		if d.pages.Move(d.sourceIndex, d.pendingDropIndex) {
			d.events.reorder(d.sourceIndex, d.pendingDropIndex)
			mutated = true
		}
	case d.pendingDropIndex < 0:
		mutated = d.resolveFallback()
	}

	d.pages.PruneTrailingEmpties()
	d.scroll.ScrollToPage(d.pages.CurrentPage())
	if mutated {
		d.events.save(d.pages.Items())
	}
	d.reset()
}

func (d *DragReorderController) resolveFolder() bool {
	target, ok := d.pages.ItemAt(d.folderTargetIndex)
	if !ok {
		return false
	}
	app, isApp := d.item.AsApp()
	if !isApp || d.item.Kind != KindApp {
		return false
	}

	switch target.Kind {
	case KindFolder:
		if d.handoff {
			folder := target.WithApp(app)
			d.pages.ReplaceAt(d.folderTargetIndex, folder)
			d.events.moveToFolder(app, folder)
			return true
		}
		folder, ok := d.pages.MoveIntoFolder(d.sourceIndex, d.folderTargetIndex)
		if !ok {
			return false
		}
		d.events.moveToFolder(app, folder)
		return true
	case KindApp:
		targetApp, _ := target.AsApp()
		if d.handoff {
			d.folderSeq++
			folder := NewFolderItem(fmt.Sprintf("folder-%d", d.folderSeq), targetApp.Name, []App{app, targetApp})
			d.pages.ReplaceAt(d.folderTargetIndex, folder)
			d.events.createFolder(app, targetApp, d.folderTargetIndex)
			return true
		}
		d.folderSeq++
		id := fmt.Sprintf("folder-%d", d.folderSeq)
		if _, ok := d.pages.CreateFolder(d.sourceIndex, d.folderTargetIndex, id, targetApp.Name); !ok {
			return false
		}
		d.events.createFolder(app, targetApp, d.folderTargetIndex)
		return true
	case KindMissing, KindEmpty:
		return false
	}
	return false
}

func (d *DragReorderController) resolveHandoff() bool {
	to := d.pendingDropIndex
	if to < 0 {
		to = d.pages.Append(d.item, d.pages.CurrentPage())
		d.events.reorder(-1, to)
		return true
	}
	d.pages.InsertAt(to, d.item)
	d.events.reorder(-1, to)
	return true
}

// resolveFallback appends the dragged item at the end of the current page
// when the drop landed outside every reachable slot.
func (d *DragReorderController) resolveFallback() bool {
	page := d.pages.CurrentPage()
	lo := page * d.pages.PerPage()
	hi := lo + d.pages.PerPage()
	if hi > d.pages.Len() {
		hi = d.pages.Len()
	}
	to := hi - 1
	if to < 0 || to == d.sourceIndex {
		return false
	}
	if !d.pages.Move(d.sourceIndex, to) {
		return false
	}
	d.events.reorder(d.sourceIndex, to)
	return true
}

func (d *DragReorderController) stopTimers() {
	if d.cancelLongPress != nil {
		d.cancelLongPress()
		d.cancelLongPress = nil
	}
	d.cancelFolderDwellTimer()
}

func (d *DragReorderController) cancelFolderDwellTimer() {
	if d.cancelFolderDwell != nil {
		d.cancelFolderDwell()
		d.cancelFolderDwell = nil
	}
}

func (d *DragReorderController) reset() {
	d.phase = DragIdle
	d.item = Item{}
	d.sourceIndex = -1
	d.handoff = false
	d.hoverIndex = -1
	d.pendingDropIndex = -1
	d.clearFolderCandidate()
	d.edgeDir = 0
	d.edgeCooldownUntil = time.Time{}
}

func (d *DragReorderController) insideInteractive(p fyne.Position, local int) bool {
	pos, size := d.layout.InteractiveRect(local, 0)
	return p.X >= pos.X && p.X < pos.X+size.Width && p.Y >= pos.Y && p.Y < pos.Y+size.Height
}
