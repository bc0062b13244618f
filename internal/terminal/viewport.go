package terminal

// Rows reserved above and below the board.
const (
	hudRows    = 2
	footerRows = 1
)

// Viewport maps terminal cells onto board coordinates. The board is
// stretched to fill the area between the HUD and the footer.
type Viewport struct {
	Top  int
	Cols int
	Rows int

	BoardWidth  float64
	BoardHeight float64
}

// NewViewport lays the board out on a screen of the given size.
func NewViewport(screenWidth, screenHeight int, boardWidth, boardHeight float64) Viewport {
	rows := screenHeight - hudRows - footerRows
	if rows < 1 {
		rows = 1
	}
	cols := screenWidth
	if cols < 1 {
		cols = 1
	}
	return Viewport{
		Top:         hudRows,
		Cols:        cols,
		Rows:        rows,
		BoardWidth:  boardWidth,
		BoardHeight: boardHeight,
	}
}

func (v Viewport) cellWidth() float64  { return v.BoardWidth / float64(v.Cols) }
func (v Viewport) cellHeight() float64 { return v.BoardHeight / float64(v.Rows) }

// ToBoard returns the board point at the center of a screen cell.
// ok is false for cells outside the board area.
func (v Viewport) ToBoard(col, row int) (x, y float64, ok bool) {
	r := row - v.Top
	if col < 0 || col >= v.Cols || r < 0 || r >= v.Rows {
		return 0, 0, false
	}
	return (float64(col) + 0.5) * v.cellWidth(), (float64(r) + 0.5) * v.cellHeight(), true
}

// ToCell returns the screen cell containing a board point, clamped to the board area.
func (v Viewport) ToCell(x, y float64) (col, row int) {
	col = int(x / v.cellWidth())
	r := int(y / v.cellHeight())
	if col >= v.Cols {
		col = v.Cols - 1
	}
	if col < 0 {
		col = 0
	}
	if r >= v.Rows {
		r = v.Rows - 1
	}
	if r < 0 {
		r = 0
	}
	return col, r + v.Top
}

// Step returns the board distance covered by one cell in each direction.
func (v Viewport) Step() (dx, dy float64) {
	return v.cellWidth(), v.cellHeight()
}
