package engine

import "fmt"

// PageModel chunks the flat ordered item list into fixed-capacity pages and
// owns the current page index. The flat list is the source of truth; pages
// are derived windows, recomputed whenever the list or the per-page
// capacity changes.
type PageModel struct {
	items   []Item
	perPage int
	current int

	emptySeq int
}

func NewPageModel(perPage int) *PageModel {
	if perPage < 1 {
		perPage = 1
	}
	return &PageModel{perPage: perPage}
}

func (m *PageModel) SetItems(items []Item) {
	m.items = append([]Item(nil), items...)
	m.clampCurrent()
}

// Items returns a copy of the flat list.
func (m *PageModel) Items() []Item {
	return append([]Item(nil), m.items...)
}

func (m *PageModel) Len() int { return len(m.items) }

func (m *PageModel) PerPage() int { return m.perPage }

// SetPerPage changes the page capacity, e.g. after a columns/rows change.
func (m *PageModel) SetPerPage(perPage int) {
	if perPage < 1 {
		perPage = 1
	}
	m.perPage = perPage
	m.clampCurrent()
}

func (m *PageModel) PageCount() int {
	n := (len(m.items) + m.perPage - 1) / m.perPage
	if n < 1 {
		n = 1
	}
	return n
}

// Page returns the derived window for one page. The slice aliases the flat
// list; callers must not retain it across mutations.
func (m *PageModel) Page(page int) []Item {
	if page < 0 || page >= m.PageCount() {
		return nil
	}
	lo := page * m.perPage
	hi := lo + m.perPage
	if hi > len(m.items) {
		hi = len(m.items)
	}
	return m.items[lo:hi]
}

func (m *PageModel) ItemAt(index int) (Item, bool) {
	if index < 0 || index >= len(m.items) {
		return Item{}, false
	}
	return m.items[index], true
}

// GlobalIndex converts a page-local slot to a flat index. The slot may lie
// beyond the list's end on a partial page; callers check ItemAt.
func (m *PageModel) GlobalIndex(page, local int) int {
	return page*m.perPage + local
}

func (m *PageModel) CurrentPage() int { return m.current }

// SetCurrentPage clamps to the valid range and reports whether the page
// actually changed, so consumers can skip spurious notifications.
func (m *PageModel) SetCurrentPage(page int) bool {
	page = clampInt(page, 0, m.PageCount()-1)
	if page == m.current {
		return false
	}
	m.current = page
	return true
}

// Move relocates the item at from so it occupies slot to. Within one page
// this is a plain splice; across pages the splice spills each page's
// overflow into the front of the next page, which keeps every page at or
// under capacity after any number of cross-page moves.
func (m *PageModel) Move(from, to int) bool {
	if from < 0 || from >= len(m.items) || to < 0 || to >= len(m.items) || from == to {
		return false
	}
	it := m.items[from]
	out := make([]Item, 0, len(m.items))
	out = append(out, m.items[:from]...)
	out = append(out, m.items[from+1:]...)
	out = append(out[:to], append([]Item{it}, out[to:]...)...)
	m.items = out
	return true
}

// CreateFolder merges the dragged app at from with the target app at to
// into a new folder occupying the target's former slot. The source slot
// becomes Empty so the rest of the layout keeps its positions.
func (m *PageModel) CreateFolder(from, to int, folderID, name string) (Item, bool) {
	src, okSrc := m.ItemAt(from)
	dst, okDst := m.ItemAt(to)
	if !okSrc || !okDst || from == to {
		return Item{}, false
	}
	dragged, okA := src.AsApp()
	target, okB := dst.AsApp()
	if !okA || !okB || src.Kind != KindApp || dst.Kind != KindApp {
		return Item{}, false
	}

	folder := NewFolderItem(folderID, name, []App{dragged, target})
	m.items[to] = folder
	m.items[from] = NewEmptyItem(m.nextEmptyID())
	return folder, true
}

// MoveIntoFolder appends the dragged app at from to the folder at to and
// empties the source slot. No new folder is created.
func (m *PageModel) MoveIntoFolder(from, to int) (Item, bool) {
	src, okSrc := m.ItemAt(from)
	dst, okDst := m.ItemAt(to)
	if !okSrc || !okDst || from == to {
		return Item{}, false
	}
	if src.Kind != KindApp || dst.Kind != KindFolder {
		return Item{}, false
	}
	app, _ := src.AsApp()
	m.items[to] = dst.WithApp(app)
	m.items[from] = NewEmptyItem(m.nextEmptyID())
	return m.items[to], true
}

// MaterializeNextPage pads the last page to capacity with Empty
// placeholders and appends one more full page of them, so a drag advancing
// past the last page can land on any slot of the new one.
func (m *PageModel) MaterializeNextPage() {
	target := m.PageCount()*m.perPage + m.perPage
	for len(m.items) < target {
		m.items = append(m.items, NewEmptyItem(m.nextEmptyID()))
	}
}

// PruneTrailingEmpties trims Empty placeholders off the end of the list,
// collapsing any materialized page the drag never used. Empties earlier in
// the list are slots and stay put. Called when a drag resolves or cancels.
func (m *PageModel) PruneTrailingEmpties() {
	for len(m.items) > 0 && m.items[len(m.items)-1].IsEmpty() {
		m.items = m.items[:len(m.items)-1]
	}
	m.clampCurrent()
}

// Append places an item at the end of the given page, used as the fallback
// drop target. If the page is full, the item lands on the following page.
func (m *PageModel) Append(it Item, page int) int {
	lo := page * m.perPage
	hi := lo + m.perPage
	if hi > len(m.items) {
		hi = len(m.items)
	}
	// Prefer replacing a trailing Empty slot on the page.
	for i := hi - 1; i >= lo; i-- {
		if m.items[i].IsEmpty() {
			m.items[i] = it
			return i
		}
	}
	if hi < len(m.items) {
		out := make([]Item, 0, len(m.items)+1)
		out = append(out, m.items[:hi]...)
		out = append(out, it)
		out = append(out, m.items[hi:]...)
		m.items = out
		return hi
	}
	m.items = append(m.items, it)
	return len(m.items) - 1
}

// InsertAt splices an item into the flat list; overflow on full pages
// spills forward page by page exactly as Move does.
func (m *PageModel) InsertAt(index int, it Item) int {
	index = clampInt(index, 0, len(m.items))
	out := make([]Item, 0, len(m.items)+1)
	out = append(out, m.items[:index]...)
	out = append(out, it)
	out = append(out, m.items[index:]...)
	m.items = out
	return index
}

// ReplaceAt overwrites one slot in place.
func (m *PageModel) ReplaceAt(index int, it Item) bool {
	if index < 0 || index >= len(m.items) {
		return false
	}
	m.items[index] = it
	return true
}

func (m *PageModel) nextEmptyID() string {
	m.emptySeq++
	return fmt.Sprintf("empty-%d", m.emptySeq)
}

func (m *PageModel) clampCurrent() {
	m.current = clampInt(m.current, 0, m.PageCount()-1)
}
