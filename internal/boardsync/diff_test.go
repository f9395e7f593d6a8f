package boardsync

import (
	"testing"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/boardwatch/internal/occupancy"
)

func TestClassifyDiffShapes(t *testing.T) {
	start := occupancy.Starting()

	tests := []struct {
		name    string
		settled occupancy.Grid
		shape   DiffShape
	}{
		{
			name:    "no change",
			settled: start,
			shape:   ShapeNone,
		},
		{
			name:    "simple move",
			settled: start.WithSquare(nchess.E2, false).WithSquare(nchess.E4, true),
			shape:   ShapeSimple,
		},
		{
			name:    "capture vacates one square",
			settled: start.WithSquare(nchess.E2, false),
			shape:   ShapeCapture,
		},
		{
			name: "castle moves two pieces",
			settled: start.
				WithSquare(nchess.E1, false).WithSquare(nchess.H1, false).
				WithSquare(nchess.F1, true).WithSquare(nchess.G1, true),
			shape: ShapeCastle,
		},
		{
			name: "en passant clears two fills one",
			settled: start.
				WithSquare(nchess.E2, false).WithSquare(nchess.D2, false).
				WithSquare(nchess.E3, true),
			shape: ShapeEnPassant,
		},
		{
			name: "three vacated is unreadable",
			settled: start.
				WithSquare(nchess.A2, false).
				WithSquare(nchess.B2, false).
				WithSquare(nchess.C2, false),
			shape: ShapeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := ClassifyDiff(start, tt.settled)
			if got := diff.Shape(); got != tt.shape {
				t.Fatalf("shape = %s, want %s", got, tt.shape)
			}
		})
	}
}

func TestClassifyDiffBoardScanOrder(t *testing.T) {
	start := occupancy.Starting()
	settled := start.
		WithSquare(nchess.H2, false).
		WithSquare(nchess.A2, false).
		WithSquare(nchess.C2, false)

	diff := ClassifyDiff(start, settled)
	want := []nchess.Square{nchess.A2, nchess.C2, nchess.H2}
	if len(diff.Vacated) != len(want) {
		t.Fatalf("vacated = %v, want %v", diff.Vacated, want)
	}
	for i, sq := range want {
		if diff.Vacated[i] != sq {
			t.Fatalf("vacated[%d] = %s, want %s", i, diff.Vacated[i], sq)
		}
	}
}

func TestMoveDiffDescribe(t *testing.T) {
	start := occupancy.Starting()
	settled := start.
		WithSquare(nchess.D5, true).
		WithSquare(nchess.A2, false).
		WithSquare(nchess.H2, false)

	got := ClassifyDiff(start, settled).Describe()
	want := "a2: occupied->empty, h2: occupied->empty, d5: empty->occupied"
	if got != want {
		t.Fatalf("describe = %q, want %q", got, want)
	}
}
