package occupancy

import (
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// Grid is one 8x8 occupancy snapshot in visual orientation: row 0 is the top
// of the camera-facing board (rank 8), column 0 is file a. Cells optionally
// carry a piece-class guess as a FEN symbol ("P", "n", ...). Grid is a value
// type; mutators return copies, so a Grid handed to the engine never changes
// underneath it.
type Grid struct {
	cells   [8][8]bool
	classes [8][8]string
}

// New returns an empty grid.
func New() Grid { return Grid{} }

// Starting returns the occupancy of the standard starting position.
func Starting() Grid {
	return FromPosition(nchess.NewGame().Position())
}

// FromPosition derives the expected occupancy from a rules-engine position.
func FromPosition(pos *nchess.Position) Grid {
	var g Grid
	if pos == nil {
		return g
	}
	board := pos.Board()
	for file := nchess.FileA; file <= nchess.FileH; file++ {
		for rank := nchess.Rank1; rank <= nchess.Rank8; rank++ {
			sq := nchess.NewSquare(file, rank)
			if board.Piece(sq) == nchess.NoPiece {
				continue
			}
			r, c := RowCol(sq)
			g.cells[r][c] = true
		}
	}
	return g
}

// FromRows builds a grid from wire-format rows. classes may be nil.
func FromRows(rows [][]bool, classes [][]string) (Grid, error) {
	var g Grid
	if len(rows) != 8 {
		return g, fmt.Errorf("occupancy grid needs 8 rows, got %d", len(rows))
	}
	for r := 0; r < 8; r++ {
		if len(rows[r]) != 8 {
			return g, fmt.Errorf("occupancy row %d needs 8 cells, got %d", r, len(rows[r]))
		}
		for c := 0; c < 8; c++ {
			g.cells[r][c] = rows[r][c]
		}
	}
	if classes != nil {
		if len(classes) != 8 {
			return g, fmt.Errorf("class grid needs 8 rows, got %d", len(classes))
		}
		for r := 0; r < 8; r++ {
			if len(classes[r]) != 8 {
				return g, fmt.Errorf("class row %d needs 8 cells, got %d", r, len(classes[r]))
			}
			for c := 0; c < 8; c++ {
				g.classes[r][c] = strings.TrimSpace(classes[r][c])
			}
		}
	}
	return g, nil
}

// SquareAt converts visual (row, col) to a chess square.
// Row 0 is rank 8, so rank = 7 - row; column maps directly to file.
func SquareAt(row, col int) nchess.Square {
	return nchess.NewSquare(nchess.File(col), nchess.Rank(7-row))
}

// RowCol is the inverse of SquareAt.
func RowCol(sq nchess.Square) (row, col int) {
	return 7 - int(sq.Rank()), int(sq.File())
}

// Occupied reports the cell at visual (row, col).
func (g Grid) Occupied(row, col int) bool { return g.cells[row][col] }

// OccupiedSquare reports the cell holding the given chess square.
func (g Grid) OccupiedSquare(sq nchess.Square) bool {
	r, c := RowCol(sq)
	return g.cells[r][c]
}

// Class returns the piece-class guess for a cell, or "" when unknown.
func (g Grid) Class(row, col int) string { return g.classes[row][col] }

// ClassSquare returns the piece-class guess for a chess square.
func (g Grid) ClassSquare(sq nchess.Square) string {
	r, c := RowCol(sq)
	return g.classes[r][c]
}

// HasClasses reports whether any cell carries a class guess.
func (g Grid) HasClasses() bool {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if g.classes[r][c] != "" {
				return true
			}
		}
	}
	return false
}

// WithOccupied returns a copy with one cell's occupancy replaced.
func (g Grid) WithOccupied(row, col int, occupied bool) Grid {
	g.cells[row][col] = occupied
	return g
}

// WithSquare returns a copy with the cell for a chess square replaced.
func (g Grid) WithSquare(sq nchess.Square, occupied bool) Grid {
	r, c := RowCol(sq)
	g.cells[r][c] = occupied
	return g
}

// WithClass returns a copy with one cell's class guess replaced.
func (g Grid) WithClass(row, col int, class string) Grid {
	g.classes[row][col] = strings.TrimSpace(class)
	return g
}

// Equal compares occupancy only. Class guesses are advisory and must not
// destabilise the debounce window, so they are excluded here.
func (g Grid) Equal(other Grid) bool { return g.cells == other.cells }

// EqualWithClasses compares occupancy and class guesses.
func (g Grid) EqualWithClasses(other Grid) bool {
	return g.cells == other.cells && g.classes == other.classes
}

// CountOccupied returns the number of occupied cells.
func (g Grid) CountOccupied() int {
	n := 0
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if g.cells[r][c] {
				n++
			}
		}
	}
	return n
}

// Rows exports the occupancy in wire format.
func (g Grid) Rows() [][]bool {
	rows := make([][]bool, 8)
	for r := 0; r < 8; r++ {
		rows[r] = make([]bool, 8)
		copy(rows[r], g.cells[r][:])
	}
	return rows
}

// String renders the grid top-down for diagnostics, '#' occupied, '.' empty.
func (g Grid) String() string {
	var sb strings.Builder
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if g.cells[r][c] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		if r < 7 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
