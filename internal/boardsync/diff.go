package boardsync

import (
	"strings"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/boardwatch/internal/occupancy"
)

// DiffShape buckets a vacated/filled diff by its square counts. The shape
// alone decides which inference strategy runs; the candidate squares decide
// the rest.
type DiffShape uint8

const (
	ShapeNone DiffShape = iota
	ShapeSimple
	ShapeCapture
	ShapeCastle
	ShapeEnPassant
	ShapeUnknown
)

func (s DiffShape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeSimple:
		return "simple"
	case ShapeCapture:
		return "capture"
	case ShapeCastle:
		return "castle"
	case ShapeEnPassant:
		return "en_passant"
	default:
		return "unknown"
	}
}

// MoveDiff is the set difference between the expected occupancy (derived
// from the rules-correct position) and a settled visual grid. Squares are
// listed in a1..h8 board-scan order.
type MoveDiff struct {
	Vacated []nchess.Square
	Filled  []nchess.Square
}

func (d MoveDiff) Empty() bool { return len(d.Vacated) == 0 && len(d.Filled) == 0 }

func (d MoveDiff) Shape() DiffShape {
	switch {
	case d.Empty():
		return ShapeNone
	case len(d.Vacated) == 1 && len(d.Filled) == 1:
		return ShapeSimple
	case len(d.Vacated) == 1 && len(d.Filled) == 0:
		return ShapeCapture
	case len(d.Vacated) == 2 && len(d.Filled) == 2:
		return ShapeCastle
	case len(d.Vacated) == 2 && len(d.Filled) == 1:
		return ShapeEnPassant
	default:
		return ShapeUnknown
	}
}

// Describe lists every mismatched square with its expected and observed
// state, e.g. "d5: occupied->empty, e7: empty->occupied". Used in operator
// diagnostics for unrecognised diffs.
func (d MoveDiff) Describe() string {
	parts := make([]string, 0, len(d.Vacated)+len(d.Filled))
	for _, sq := range d.Vacated {
		parts = append(parts, sq.String()+": occupied->empty")
	}
	for _, sq := range d.Filled {
		parts = append(parts, sq.String()+": empty->occupied")
	}
	return strings.Join(parts, ", ")
}

// ClassifyDiff compares the expected grid against a settled observation.
func ClassifyDiff(expected, settled occupancy.Grid) MoveDiff {
	var d MoveDiff
	for i := 0; i < 64; i++ {
		sq := nchess.Square(i)
		was := expected.OccupiedSquare(sq)
		is := settled.OccupiedSquare(sq)
		switch {
		case was && !is:
			d.Vacated = append(d.Vacated, sq)
		case !was && is:
			d.Filled = append(d.Filled, sq)
		}
	}
	return d
}
