package ui

import "time"

// Card grid geometry, in terminal cells. Rendering and mouse hit-testing both
// derive positions from these.
const (
	// CardWidth is the outer width of a card including its border.
	CardWidth = 30

	// CardHeight is the outer height of a card including its border.
	CardHeight = 6

	// CardGap is the number of blank columns between cards in a row.
	CardGap = 1
)

// Overlay limits.
const (
	// OverlayMaxWidth caps the detail box on wide terminals.
	OverlayMaxWidth = 84

	// OverlayMinViewport is the fewest explanation lines the detail box shows.
	OverlayMinViewport = 3
)

// Form field geometry.
const (
	// DateFieldWidth is the rendered width reserved for each date input.
	DateFieldWidth = 12
)

// Diagnostics limits.
const (
	// DiagnosticsLineLimit is the number of log lines read for the diagnostics pane.
	DiagnosticsLineLimit = 500

	// DiagnosticsRefresh is how often the diagnostics pane re-reads the log.
	DiagnosticsRefresh = 2 * time.Second
)

// gridLayout places cards on screen.
type gridLayout struct {
	top    int // screen row of the first visible card row
	height int // rows available to the gallery region
	cols   int // cards per row
	rows   int // fully visible card rows
	offset int // first visible card row
	count  int // total cards
}

func newGridLayout(width, top, height, offset, count int) gridLayout {
	cols := (width + CardGap) / (CardWidth + CardGap)
	if cols < 1 {
		cols = 1
	}
	rows := height / CardHeight
	if rows < 1 {
		rows = 1
	}
	if offset < 0 {
		offset = 0
	}
	return gridLayout{top: top, height: height, cols: cols, rows: rows, offset: offset, count: count}
}

// totalRows is the number of card rows needed for every card.
func (g gridLayout) totalRows() int {
	if g.count == 0 {
		return 0
	}
	return (g.count + g.cols - 1) / g.cols
}

// cardAt returns the index of the card under screen cell (x, y), or -1.
func (g gridLayout) cardAt(x, y int) int {
	if x < 0 || y < g.top || y >= g.top+g.rows*CardHeight {
		return -1
	}
	stride := CardWidth + CardGap
	col := x / stride
	if col >= g.cols || x%stride >= CardWidth {
		return -1
	}
	row := g.offset + (y-g.top)/CardHeight
	idx := row*g.cols + col
	if idx >= g.count {
		return -1
	}
	return idx
}

// position returns the row and column of card idx.
func (g gridLayout) position(idx int) (row, col int) {
	return idx / g.cols, idx % g.cols
}

// scrollTo returns the row offset that keeps card idx visible.
func (g gridLayout) scrollTo(idx int) int {
	if idx < 0 {
		return g.offset
	}
	row, _ := g.position(idx)
	switch {
	case row < g.offset:
		return row
	case row >= g.offset+g.rows:
		return row - g.rows + 1
	default:
		return g.offset
	}
}

// rect is a screen rectangle.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// centered returns the rectangle lipgloss.Place uses for a w×h block centered
// in a width×height area: the odd cell of slack goes right and down.
func centered(width, height, w, h int) rect {
	left := (width - w) / 2
	if left < 0 {
		left = 0
	}
	top := (height - h) / 2
	if top < 0 {
		top = 0
	}
	return rect{x: left, y: top, w: w, h: h}
}
