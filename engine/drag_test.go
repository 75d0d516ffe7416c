package engine

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
)

type dragFixture struct {
	cfg    Config
	layout *GridLayout
	pages  *PageModel
	scroll *PageScrollController
	drag   *DragReorderController
	sched  *ManualScheduler

	activated  []int
	reorders   [][2]int
	folderAt   []int
	movedTo    []Item
	newPages   int
	pageEvents []int
	saves      int
}

func newDragFixture(t *testing.T, cfg Config, items []Item) *dragFixture {
	t.Helper()
	f := &dragFixture{cfg: cfg, sched: &ManualScheduler{}}

	events := Events{
		OnItemActivated:  func(_ Item, idx int) { f.activated = append(f.activated, idx) },
		OnPageChanged:    func(p int) { f.pageEvents = append(f.pageEvents, p) },
		OnReorder:        func(from, to int) { f.reorders = append(f.reorders, [2]int{from, to}) },
		OnCreateFolder:   func(_, _ App, idx int) { f.folderAt = append(f.folderAt, idx) },
		OnMoveToFolder:   func(_ App, folder Item) { f.movedTo = append(f.movedTo, folder) },
		OnRequestNewPage: func() { f.newPages++ },
		OnSave:           func(_ []Item) { f.saves++ },
	}

	f.pages = NewPageModel(cfg.ItemsPerPage())
	f.pages.SetItems(items)
	f.layout = NewGridLayout(cfg, fyne.NewSize(1400, 900))
	f.scroll = NewPageScrollController(cfg, f.pages, events)
	f.scroll.SetPageWidth(f.layout.PageWidth())
	f.drag = NewDragReorderController(cfg, f.layout, f.pages, f.scroll, events, f.sched)
	return f
}

// pressPoint is a point just inside the interactive rect of a cell, giving
// a small, known pointer offset from the cell origin.
func (f *dragFixture) pressPoint(local int) fyne.Position {
	pos, _ := f.layout.InteractiveRect(local, 0)
	return fyne.NewPos(pos.X+4, pos.Y+4)
}

// reorderPoint is a point inside a cell but below its folder drop zone, so
// hovering there always classifies as a reorder. The offset passed in must
// be the drag's press offset so the layout query lands in the right cell.
func (f *dragFixture) reorderPoint(local int, pressOffset fyne.Position) fyne.Position {
	origin := f.layout.CellOrigin(local, 0)
	_, size := f.layout.CellRect(local, 0)
	query := fyne.NewPos(origin.X+size.Width/2, origin.Y+size.Height-4)
	return query.Add(pressOffset)
}

func (f *dragFixture) pressOffset(local int) fyne.Position {
	p := f.pressPoint(local)
	origin := f.layout.CellOrigin(local, 0)
	return fyne.NewPos(p.X-origin.X, p.Y-origin.Y)
}

func (f *dragFixture) startDrag(t *testing.T, local int) {
	t.Helper()
	p := f.pressPoint(local)
	f.drag.Press(p)
	if f.drag.Phase() != DragPressed {
		t.Fatalf("press over item %d did not enter Pressed, phase = %d", local, f.drag.Phase())
	}
	f.drag.Move(fyne.NewPos(p.X+f.cfg.DragThreshold*2, p.Y))
	if f.drag.Phase() != DragDragging {
		t.Fatalf("move past threshold did not promote, phase = %d", f.drag.Phase())
	}
}

func TestDragTapActivatesItem(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(10))

	p := f.pressPoint(3)
	f.drag.Press(p)
	f.drag.Release(p)

	if len(f.activated) != 1 || f.activated[0] != 3 {
		t.Fatalf("tap activations = %v, want [3]", f.activated)
	}
	if f.drag.Phase() != DragIdle {
		t.Fatalf("phase after tap = %d, want Idle", f.drag.Phase())
	}
	if f.saves != 0 || len(f.reorders) != 0 {
		t.Fatalf("tap must not mutate: saves=%d reorders=%v", f.saves, f.reorders)
	}
}

func TestDragSubThresholdStillTap(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(10))

	p := f.pressPoint(0)
	f.drag.Press(p)
	jitter := fyne.NewPos(p.X+4, p.Y+4)
	f.drag.Move(jitter)
	if f.drag.Phase() != DragPressed {
		t.Fatalf("4px jitter promoted to drag, phase = %d", f.drag.Phase())
	}
	f.drag.Release(jitter)
	if len(f.activated) != 1 {
		t.Fatalf("jittered tap did not activate, activations = %v", f.activated)
	}
}

func TestDragPressOutsideItemsIgnored(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(10))

	// Margin, vacant slot on a partial page, and gutter between cells.
	f.drag.Press(fyne.NewPos(10, 10))
	f.drag.Press(f.pressPoint(20))
	origin := f.layout.CellOrigin(1, 0)
	f.drag.Press(fyne.NewPos(origin.X-2, origin.Y+10))

	if f.drag.Phase() != DragIdle {
		t.Fatalf("press over dead space entered phase %d", f.drag.Phase())
	}
	if f.sched.Pending() != 0 {
		t.Fatalf("ignored presses armed %d timers", f.sched.Pending())
	}
}

func TestDragThresholdCancelsLongPressTimer(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(10))

	f.startDrag(t, 2)
	if f.sched.Pending() != 0 {
		t.Fatalf("long-press timer still pending after promotion")
	}
	// A late fire must not disturb the live drag.
	f.sched.Fire(f.cfg.LongPressDelay)
	if f.drag.Phase() != DragDragging {
		t.Fatalf("stale long-press timer changed phase to %d", f.drag.Phase())
	}
}

func TestDragLongPressPromotes(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(10))

	f.drag.Press(f.pressPoint(5))
	f.sched.Fire(f.cfg.LongPressDelay)
	if f.drag.Phase() != DragDragging {
		t.Fatalf("long press did not promote, phase = %d", f.drag.Phase())
	}
	if got := f.drag.SourceIndex(); got != 5 {
		t.Fatalf("SourceIndex = %d, want 5", got)
	}
}

func TestDragReorderOnRelease(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(10))

	off := f.pressOffset(1)
	f.startDrag(t, 1)
	f.drag.Release(f.reorderPoint(4, off))

	if f.drag.Phase() != DragIdle {
		t.Fatalf("phase after drop = %d, want Idle", f.drag.Phase())
	}
	it, _ := f.pages.ItemAt(4)
	if it.ID != "app-1" {
		t.Fatalf("slot 4 after reorder = %s, want app-1", it.ID)
	}
	if len(f.reorders) != 1 || f.reorders[0] != [2]int{1, 4} {
		t.Fatalf("reorders = %v, want [[1 4]]", f.reorders)
	}
	if f.saves != 1 {
		t.Fatalf("saves = %d, want 1", f.saves)
	}
}

func TestDragSameSlotDropIsNoop(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(10))
	before := f.pages.Items()

	off := f.pressOffset(3)
	f.startDrag(t, 3)
	f.drag.Release(f.reorderPoint(3, off))

	for i, it := range f.pages.Items() {
		if it.ID != before[i].ID {
			t.Fatalf("same-slot drop changed slot %d: %s -> %s", i, before[i].ID, it.ID)
		}
	}
	if f.saves != 0 || len(f.reorders) != 0 {
		t.Fatalf("same-slot drop mutated: saves=%d reorders=%v", f.saves, f.reorders)
	}
}

func TestDragCreateFolder(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(10))

	f.startDrag(t, 0)
	f.drag.Release(f.layout.IconCenter(4, 0))

	if len(f.folderAt) != 1 || f.folderAt[0] != 4 {
		t.Fatalf("folder creations = %v, want one at index 4", f.folderAt)
	}
	folder, _ := f.pages.ItemAt(4)
	if folder.Kind != KindFolder || len(folder.Apps) != 2 {
		t.Fatalf("slot 4 = %v with %d apps, want folder of 2", folder.Kind, len(folder.Apps))
	}
	if folder.Apps[0].ID != "app-0" || folder.Apps[1].ID != "app-4" {
		t.Fatalf("folder order = [%s %s], want dragged first", folder.Apps[0].ID, folder.Apps[1].ID)
	}
	if folder.Name != "App 4" {
		t.Fatalf("folder name = %q, want target app's name", folder.Name)
	}
	src, _ := f.pages.ItemAt(0)
	if src.Kind != KindEmpty {
		t.Fatalf("source slot after folder merge = %v, want Empty", src.Kind)
	}
	if f.saves != 1 {
		t.Fatalf("saves = %d, want 1", f.saves)
	}
}

func TestDragLeavingDropZoneRevertsToReorder(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(10))

	off := f.pressOffset(0)
	f.startDrag(t, 0)

	f.drag.Move(f.layout.IconCenter(4, 0))
	if _, target, isFolder := f.drag.DropTarget(); !isFolder || target != 4 {
		t.Fatalf("hover in drop zone: folder=%v target=%d, want candidate at 4", isFolder, target)
	}

	f.drag.Move(f.reorderPoint(5, off))
	pending, _, isFolder := f.drag.DropTarget()
	if isFolder || pending != 5 {
		t.Fatalf("after leaving zone: folder=%v pending=%d, want reorder at 5", isFolder, pending)
	}
}

func TestDragFolderDwell(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FolderDwell = 150 * time.Millisecond
	f := newDragFixture(t, cfg, appItems(10))
	off := f.pressOffset(0)

	f.startDrag(t, 0)
	f.drag.Move(f.layout.IconCenter(4, 0))
	if _, _, isFolder := f.drag.DropTarget(); isFolder {
		t.Fatalf("folder candidate armed before dwell elapsed")
	}

	// Leaving the zone before the dwell elapses disarms the candidate.
	f.drag.Move(f.reorderPoint(5, off))
	f.sched.Fire(cfg.FolderDwell)
	if _, _, isFolder := f.drag.DropTarget(); isFolder {
		t.Fatalf("stale dwell timer confirmed a candidate after the pointer left")
	}

	f.drag.Move(f.layout.IconCenter(4, 0))
	f.sched.Fire(cfg.FolderDwell)
	if _, target, isFolder := f.drag.DropTarget(); !isFolder || target != 4 {
		t.Fatalf("dwell did not confirm: folder=%v target=%d", isFolder, target)
	}
}

func TestDragMoveIntoExistingFolder(t *testing.T) {
	items := appItems(10)
	items[2] = NewFolderItem("folder-x", "Tools", []App{
		{ID: "tool-a", Name: "Tool A"},
		{ID: "tool-b", Name: "Tool B"},
	})
	f := newDragFixture(t, DefaultConfig(), items)

	f.startDrag(t, 6)
	f.drag.Release(f.layout.IconCenter(2, 0))

	folder, _ := f.pages.ItemAt(2)
	if folder.Kind != KindFolder || len(folder.Apps) != 3 {
		t.Fatalf("folder after drop has %d apps, want 3", len(folder.Apps))
	}
	if folder.Apps[2].ID != "app-6" {
		t.Fatalf("appended app = %s, want app-6", folder.Apps[2].ID)
	}
	if len(f.movedTo) != 1 {
		t.Fatalf("move-to-folder events = %d, want 1", len(f.movedTo))
	}
	src, _ := f.pages.ItemAt(6)
	if src.Kind != KindEmpty {
		t.Fatalf("source slot after move = %v, want Empty", src.Kind)
	}
}

func TestDragFolderOntoFolderReorders(t *testing.T) {
	items := appItems(10)
	items[1] = NewFolderItem("folder-a", "A", []App{{ID: "a1"}, {ID: "a2"}})
	items[7] = NewFolderItem("folder-b", "B", []App{{ID: "b1"}, {ID: "b2"}})
	f := newDragFixture(t, DefaultConfig(), items)

	f.startDrag(t, 1)
	f.drag.Release(f.layout.IconCenter(7, 0))

	// Folders never merge into folders; the drop is a plain reorder.
	if len(f.folderAt) != 0 || len(f.movedTo) != 0 {
		t.Fatalf("folder-onto-folder merged: creations=%v moves=%v", f.folderAt, f.movedTo)
	}
	it, _ := f.pages.ItemAt(7)
	if it.ID != "folder-a" {
		t.Fatalf("slot 7 = %s, want folder-a reordered there", it.ID)
	}
}

func TestDragCancelRestoresWithoutMutation(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(10))
	before := f.pages.Items()

	off := f.pressOffset(0)
	f.startDrag(t, 0)
	f.drag.Move(f.reorderPoint(8, off))
	f.drag.Cancel()

	if f.drag.Phase() != DragIdle {
		t.Fatalf("phase after cancel = %d, want Idle", f.drag.Phase())
	}
	for i, it := range f.pages.Items() {
		if it.ID != before[i].ID {
			t.Fatalf("cancel mutated slot %d: %s -> %s", i, before[i].ID, it.ID)
		}
	}
	if f.saves != 0 {
		t.Fatalf("cancel triggered %d saves", f.saves)
	}
}

func TestDragCancelWhilePressedSkipsActivation(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(10))

	f.drag.Press(f.pressPoint(2))
	f.drag.Cancel()
	f.drag.Release(f.pressPoint(2))

	if len(f.activated) != 0 {
		t.Fatalf("cancelled press still activated: %v", f.activated)
	}
	if f.sched.Pending() != 0 {
		t.Fatalf("cancel left %d timers armed", f.sched.Pending())
	}
}

func TestDragEdgeAutoAdvance(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(40))

	start := time.Unix(100, 0)
	cur := start
	f.drag.now = func() time.Time { return cur }

	f.startDrag(t, 2)
	edge := fyne.NewPos(f.layout.PageWidth()-10, 400)
	f.drag.Move(edge)

	// Dwell not yet met.
	cur = start.Add(f.cfg.AutoAdvanceDwell / 2)
	f.drag.Tick(cur)
	if f.pages.CurrentPage() != 0 {
		t.Fatalf("edge advanced before dwell elapsed")
	}

	cur = start.Add(f.cfg.AutoAdvanceDwell)
	f.drag.Tick(cur)
	if f.pages.CurrentPage() != 1 {
		t.Fatalf("page after first edge advance = %d, want 1", f.pages.CurrentPage())
	}

	// Cooldown gates the next flip even though the pointer never left.
	flipAt := cur
	cur = flipAt.Add(f.cfg.AutoAdvanceCooldown / 2)
	f.drag.Tick(cur)
	if f.pages.CurrentPage() != 1 {
		t.Fatalf("edge advanced inside cooldown window")
	}

	// Page 1 is the last page; the next advance materializes a new one.
	cur = flipAt.Add(f.cfg.AutoAdvanceCooldown)
	f.drag.Tick(cur)
	if f.newPages != 1 {
		t.Fatalf("new-page requests = %d, want 1", f.newPages)
	}
	if f.pages.CurrentPage() != 2 {
		t.Fatalf("page after materialized advance = %d, want 2", f.pages.CurrentPage())
	}
	if f.pages.PageCount() < 3 {
		t.Fatalf("PageCount = %d after materializing, want >= 3", f.pages.PageCount())
	}

	// Cancelling prunes the unused empty page again.
	f.drag.Cancel()
	if f.pages.Len() != 40 {
		t.Fatalf("item count after cancel = %d, want 40", f.pages.Len())
	}
	if f.pages.PageCount() != 2 {
		t.Fatalf("PageCount after cancel = %d, want 2", f.pages.PageCount())
	}
	if f.pages.CurrentPage() != 1 {
		t.Fatalf("current page after prune = %d, want clamped to 1", f.pages.CurrentPage())
	}
}

func TestDragLeadingEdgeFlipsBack(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(40))
	f.pages.SetCurrentPage(1)
	f.scroll.ScrollToPage(1)

	start := time.Unix(200, 0)
	cur := start
	f.drag.now = func() time.Time { return cur }

	f.startDrag(t, 2)
	f.drag.Move(fyne.NewPos(10, 400))
	cur = start.Add(f.cfg.AutoAdvanceDwell)
	f.drag.Tick(cur)

	if f.pages.CurrentPage() != 0 {
		t.Fatalf("page after leading-edge advance = %d, want 0", f.pages.CurrentPage())
	}
	if f.newPages != 0 {
		t.Fatalf("leading edge requested a new page")
	}
}

func TestDragTrailingEdgeCornerGuard(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(40))

	start := time.Unix(300, 0)
	cur := start
	f.drag.now = func() time.Time { return cur }

	f.startDrag(t, 2)
	// Right edge but below the grid: the corner guard must not arm.
	f.drag.Move(fyne.NewPos(f.layout.PageWidth()-10, 890))
	cur = start.Add(2 * f.cfg.AutoAdvanceDwell)
	f.drag.Tick(cur)

	if f.pages.CurrentPage() != 0 {
		t.Fatalf("corner hover advanced page to %d", f.pages.CurrentPage())
	}
}

func TestDragHandoffInsertsItem(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(10))

	extra := NewAppItem(App{ID: "pulled", Name: "Pulled"})
	p := f.layout.IconCenter(2, 0)
	f.drag.BeginHandoff(extra, p)
	if f.drag.Phase() != DragDragging {
		t.Fatalf("handoff phase = %d, want Dragging", f.drag.Phase())
	}
	if f.drag.SourceIndex() != -1 {
		t.Fatalf("handoff SourceIndex = %d, want -1", f.drag.SourceIndex())
	}

	// Drop below the zone of cell 2 so it inserts instead of merging.
	origin := f.layout.CellOrigin(2, 0)
	_, size := f.layout.CellRect(2, 0)
	off := fyne.NewPos(f.cfg.IconSize/2, f.cfg.IconSize/2)
	f.drag.Release(fyne.NewPos(origin.X+size.Width/2+off.X, origin.Y+size.Height-4+off.Y))

	if f.pages.Len() != 11 {
		t.Fatalf("item count after handoff insert = %d, want 11", f.pages.Len())
	}
	it, _ := f.pages.ItemAt(2)
	if it.ID != "pulled" {
		t.Fatalf("slot 2 after handoff = %s, want pulled", it.ID)
	}
	if len(f.reorders) != 1 || f.reorders[0] != [2]int{-1, 2} {
		t.Fatalf("reorders = %v, want [[-1 2]]", f.reorders)
	}
}

func TestDragCancelDuringHandoffKeepsItem(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(10))

	extra := NewAppItem(App{ID: "pulled", Name: "Pulled"})
	f.drag.BeginHandoff(extra, f.layout.IconCenter(2, 0))
	f.drag.Cancel()

	if f.drag.Phase() != DragIdle {
		t.Fatalf("phase after cancel = %d, want Idle", f.drag.Phase())
	}
	if f.pages.Len() != 11 {
		t.Fatalf("item count after cancelled handoff = %d, want 11", f.pages.Len())
	}
	it, _ := f.pages.ItemAt(10)
	if it.ID != "pulled" {
		t.Fatalf("last slot = %s, want pulled", it.ID)
	}
	if len(f.reorders) != 1 || f.reorders[0] != [2]int{-1, 10} {
		t.Fatalf("reorders = %v, want [[-1 10]]", f.reorders)
	}
	if f.saves != 1 {
		t.Fatalf("saves = %d, want 1", f.saves)
	}
}

func TestDragHandoffIntoFolder(t *testing.T) {
	items := appItems(10)
	items[3] = NewFolderItem("folder-x", "Tools", []App{{ID: "tool-a"}, {ID: "tool-b"}})
	f := newDragFixture(t, DefaultConfig(), items)

	extra := NewAppItem(App{ID: "pulled", Name: "Pulled"})
	f.drag.BeginHandoff(extra, f.layout.IconCenter(0, 0))
	f.drag.Release(f.layout.IconCenter(3, 0))

	folder, _ := f.pages.ItemAt(3)
	if folder.Kind != KindFolder || len(folder.Apps) != 3 {
		t.Fatalf("folder after handoff has %d apps, want 3", len(folder.Apps))
	}
	if f.pages.Len() != 10 {
		t.Fatalf("item count = %d, want 10 (no insert on merge)", f.pages.Len())
	}
}

func TestDragOffGridFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClampDragQueries = false
	f := newDragFixture(t, cfg, appItems(10))

	f.startDrag(t, 2)
	// Below the grid, away from both edges.
	f.drag.Release(fyne.NewPos(700, 880))

	it, _ := f.pages.ItemAt(9)
	if it.ID != "app-2" {
		t.Fatalf("fallback slot = %s, want app-2 at end of page", it.ID)
	}
	if len(f.reorders) != 1 || f.reorders[0] != [2]int{2, 9} {
		t.Fatalf("reorders = %v, want [[2 9]]", f.reorders)
	}
}

func TestDragClampedOffGridQuery(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(40))
	off := f.pressOffset(2)

	f.startDrag(t, 2)
	// Just below row 4: the clamp resolves to the nearest bottom-row cell.
	q := f.layout.CellOrigin(30, 0)
	f.drag.Move(fyne.NewPos(q.X+off.X+10, q.Y+off.Y+200))

	pending, _, isFolder := f.drag.DropTarget()
	if isFolder || pending != 30 {
		t.Fatalf("clamped query: folder=%v pending=%d, want reorder at 30", isFolder, pending)
	}
}

func TestDragPreviewFollowsPointer(t *testing.T) {
	f := newDragFixture(t, DefaultConfig(), appItems(10))
	off := f.pressOffset(0)

	f.startDrag(t, 0)
	target := f.reorderPoint(5, off)
	f.drag.Move(target)

	want := target.Subtract(off)
	got := f.drag.PreviewPos()
	if abs32(got.X-want.X) > 0.01 || abs32(got.Y-want.Y) > 0.01 {
		t.Fatalf("PreviewPos = %v, want %v", got, want)
	}

	if _, ok := f.drag.DraggedItem(); !ok {
		t.Fatalf("DraggedItem reported no live drag")
	}
}
