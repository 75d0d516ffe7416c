package engine

import "fyne.io/fyne/v2"

// labelExtent is the vertical room reserved under the icon for its label
// when computing the interactive portion of a cell.
const labelExtent = float32(32)

// GridLayout is the pure geometry model: it maps linear item indexes to
// pixel rectangles and back for a given configuration and container size.
// Pages lay out horizontally, each one container-width wide.
type GridLayout struct {
	cfg       Config
	container fyne.Size

	cellW, cellH     float32
	strideX, strideY float32
	contentW         float32
	contentH         float32
}

// NewGridLayout computes cell geometry for the given config and container.
// Any change to either invalidates the layout; build a new one.
func NewGridLayout(cfg Config, container fyne.Size) *GridLayout {
	cfg = cfg.normalized()
	l := &GridLayout{cfg: cfg, container: container}

	cols := float32(cfg.Columns)
	rows := float32(cfg.Rows)

	availW := container.Width - 2*cfg.ContentMargin - (cols-1)*cfg.ColumnSpacing
	availH := container.Height - 2*cfg.ContentMargin - (rows-1)*cfg.RowSpacing
	if availW < 0 {
		availW = 0
	}
	if availH < 0 {
		availH = 0
	}

	l.cellW = availW / cols
	l.cellH = availH / rows
	l.strideX = l.cellW + cfg.ColumnSpacing
	l.strideY = l.cellH + cfg.RowSpacing
	l.contentW = cols*l.cellW + (cols-1)*cfg.ColumnSpacing
	l.contentH = rows*l.cellH + (rows-1)*cfg.RowSpacing
	return l
}

func (l *GridLayout) Config() Config { return l.cfg }

// PageWidth is the horizontal extent of one page.
func (l *GridLayout) PageWidth() float32 { return l.container.Width }

// CellRect returns the full cell rectangle for a local index on a page.
func (l *GridLayout) CellRect(localIndex, pageIndex int) (fyne.Position, fyne.Size) {
	col := localIndex % l.cfg.Columns
	row := localIndex / l.cfg.Columns

	x := float32(pageIndex)*l.PageWidth() + l.cfg.ContentMargin + float32(col)*l.strideX
	y := l.cfg.ContentMargin + float32(row)*l.strideY
	return fyne.NewPos(x, y), fyne.NewSize(l.cellW, l.cellH)
}

// CellOrigin returns just the origin of CellRect.
func (l *GridLayout) CellOrigin(localIndex, pageIndex int) fyne.Position {
	pos, _ := l.CellRect(localIndex, pageIndex)
	return pos
}

// IndexAt is the inverse of CellRect: it resolves a point to the local
// index of the cell containing it. Points in the margins or in the gutters
// between cells resolve to none. For any point strictly inside a cell,
// IndexAt(CellOrigin(i)) == i.
func (l *GridLayout) IndexAt(p fyne.Position, pageIndex int) (int, bool) {
	x := p.X - float32(pageIndex)*l.PageWidth() - l.cfg.ContentMargin
	y := p.Y - l.cfg.ContentMargin

	if x < 0 || y < 0 || x >= l.contentW || y >= l.contentH {
		return 0, false
	}
	if l.strideX <= 0 || l.strideY <= 0 {
		return 0, false
	}

	col := int(x / l.strideX)
	row := int(y / l.strideY)
	if col >= l.cfg.Columns || row >= l.cfg.Rows {
		return 0, false
	}
	// Gutter space between cells is not part of any cell.
	if x-float32(col)*l.strideX >= l.cellW {
		return 0, false
	}
	if y-float32(row)*l.strideY >= l.cellH {
		return 0, false
	}
	return row*l.cfg.Columns + col, true
}

// NearestIndex clamps the point to the content area and returns the closest
// cell, treating gutters as belonging to the nearer cell. Used for drag
// queries that fall slightly off-grid.
func (l *GridLayout) NearestIndex(p fyne.Position, pageIndex int) int {
	x := p.X - float32(pageIndex)*l.PageWidth() - l.cfg.ContentMargin
	y := p.Y - l.cfg.ContentMargin

	col := 0
	row := 0
	if l.strideX > 0 {
		col = int((x + l.strideX/2 - l.cellW/2) / l.strideX)
	}
	if l.strideY > 0 {
		row = int((y + l.strideY/2 - l.cellH/2) / l.strideY)
	}
	col = clampInt(col, 0, l.cfg.Columns-1)
	row = clampInt(row, 0, l.cfg.Rows-1)
	return row*l.cfg.Columns + col
}

// InteractiveRect returns the sub-rectangle of a cell covering the icon and
// its label; clicks in the remaining dead cell space are empty-area hits.
func (l *GridLayout) InteractiveRect(localIndex, pageIndex int) (fyne.Position, fyne.Size) {
	cellPos, cellSize := l.CellRect(localIndex, pageIndex)

	w := l.cfg.IconSize * 1.8
	if w > cellSize.Width {
		w = cellSize.Width
	}
	h := l.cfg.IconSize + labelExtent
	if h > cellSize.Height {
		h = cellSize.Height
	}
	x := cellPos.X + (cellSize.Width-w)/2
	y := cellPos.Y + (cellSize.Height-h)/2
	return fyne.NewPos(x, y), fyne.NewSize(w, h)
}

// IconCenter returns the center of the icon square within a cell; the
// folder-creation drop zone is centered here.
func (l *GridLayout) IconCenter(localIndex, pageIndex int) fyne.Position {
	pos, size := l.InteractiveRect(localIndex, pageIndex)
	iconSide := l.cfg.IconSize
	if iconSide > size.Height {
		iconSide = size.Height
	}
	return fyne.NewPos(pos.X+size.Width/2, pos.Y+iconSide/2)
}

// InDropZone reports whether the point lies inside the folder-creation
// square of the given cell.
func (l *GridLayout) InDropZone(p fyne.Position, localIndex, pageIndex int) bool {
	c := l.IconCenter(localIndex, pageIndex)
	half := l.cfg.IconSize * l.cfg.DropZoneScale / 2
	return p.X >= c.X-half && p.X <= c.X+half && p.Y >= c.Y-half && p.Y <= c.Y+half
}

// contentBounds reports the vertical extent of the grid content, used by
// the trailing-edge auto-advance corner guard.
func (l *GridLayout) contentBounds() (top, bottom float32) {
	return l.cfg.ContentMargin, l.cfg.ContentMargin + l.contentH
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
