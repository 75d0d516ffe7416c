package engine

// Events holds the consumer callbacks. All fields are optional; a nil
// callback is a no-op. Callbacks fire synchronously on the UI thread as
// part of the state transition that caused them.
type Events struct {
	// OnItemActivated fires on a confirmed tap/click release over a
	// non-empty item.
	OnItemActivated func(item Item, index int)
	OnPageChanged   func(newPage int)
	OnReorder       func(fromIndex, toIndex int)
	// OnCreateFolder fires exactly once per folder-creation drop, before
	// the list mutation is reported through OnSave.
	OnCreateFolder func(dragged, target App, insertIndex int)
	OnMoveToFolder func(app App, folder Item)
	// OnRequestNewPage fires before auto-advancing past the last page.
	OnRequestNewPage func()
	// OnFrameStats delivers periodic frame-rate telemetry.
	OnFrameStats func(fps float64, frameTimeMs float64)
	// OnSave fires after every committed structural change with the new
	// flat item list.
	OnSave func(items []Item)
}

func (e Events) itemActivated(it Item, index int) {
	if e.OnItemActivated != nil {
		e.OnItemActivated(it, index)
	}
}

func (e Events) pageChanged(page int) {
	if e.OnPageChanged != nil {
		e.OnPageChanged(page)
	}
}

func (e Events) reorder(from, to int) {
	if e.OnReorder != nil {
		e.OnReorder(from, to)
	}
}

func (e Events) createFolder(dragged, target App, insertIndex int) {
	if e.OnCreateFolder != nil {
		e.OnCreateFolder(dragged, target, insertIndex)
	}
}

func (e Events) moveToFolder(a App, folder Item) {
	if e.OnMoveToFolder != nil {
		e.OnMoveToFolder(a, folder)
	}
}

func (e Events) requestNewPage() {
	if e.OnRequestNewPage != nil {
		e.OnRequestNewPage()
	}
}

func (e Events) frameStats(fps, frameTimeMs float64) {
	if e.OnFrameStats != nil {
		e.OnFrameStats(fps, frameTimeMs)
	}
}

func (e Events) save(items []Item) {
	if e.OnSave != nil {
		e.OnSave(items)
	}
}
