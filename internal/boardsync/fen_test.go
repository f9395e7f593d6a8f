package boardsync

import (
	"errors"
	"strings"
	"testing"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/boardwatch/internal/occupancy"
)

func TestMovePieceFEN(t *testing.T) {
	got, err := movePieceFEN(startingFEN, nchess.E2, nchess.E4)
	if err != nil {
		t.Fatal(err)
	}
	want := "rnbqkbnr/pppppppp/8/8/4P3/8/8/RNBQKBNR w KQkq - 0 1"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMovePieceFENOverwritesTarget(t *testing.T) {
	got, err := movePieceFEN(startingFEN, nchess.D1, nchess.D7)
	if err != nil {
		t.Fatal(err)
	}
	fields := strings.Fields(got)
	if fields[0] != "rnbqkbnr/pppQpppp/8/8/8/8/PPPPPPPP/RNB1KBNR" {
		t.Fatalf("placement = %q", fields[0])
	}
}

func TestMovePieceFENEmptySource(t *testing.T) {
	_, err := movePieceFEN(startingFEN, nchess.E4, nchess.E5)
	if !errors.Is(err, errEmptySource) {
		t.Fatalf("err = %v", err)
	}
}

func TestMovePieceFENClearsEnPassant(t *testing.T) {
	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	got, err := movePieceFEN(fen, nchess.G8, nchess.F6)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Fields(got)[3] != "-" {
		t.Fatalf("en passant field survived: %q", got)
	}
}

func TestExpandPlacementRejectsMalformed(t *testing.T) {
	for _, placement := range []string{
		"8/8/8/8/8/8/8",          // seven ranks
		"9/8/8/8/8/8/8/8",        // rank overflow
		"pppppppp/8/8/8/8/8/8/7", // short rank
	} {
		if _, err := expandPlacement(placement); err == nil {
			t.Errorf("expandPlacement(%q) accepted malformed input", placement)
		}
	}
}

func TestScanFENFullStart(t *testing.T) {
	grid := occupancy.Starting()
	layout := map[nchess.Square]string{
		nchess.A1: "R", nchess.B1: "N", nchess.C1: "B", nchess.D1: "Q",
		nchess.E1: "K", nchess.F1: "B", nchess.G1: "N", nchess.H1: "R",
		nchess.A8: "r", nchess.B8: "n", nchess.C8: "b", nchess.D8: "q",
		nchess.E8: "k", nchess.F8: "b", nchess.G8: "n", nchess.H8: "r",
	}
	for sq, class := range layout {
		grid = withClass(grid, sq, class)
	}
	for file := nchess.FileA; file <= nchess.FileH; file++ {
		grid = withClass(grid, nchess.NewSquare(file, nchess.Rank2), "P")
		grid = withClass(grid, nchess.NewSquare(file, nchess.Rank7), "p")
	}

	if got := scanFEN(grid); got != startingFEN {
		t.Fatalf("got %q, want %q", got, startingFEN)
	}
}

func TestScanFENCastlingNeedsHomeSquares(t *testing.T) {
	grid := occupancy.New().
		WithSquare(nchess.E1, true).
		WithSquare(nchess.A1, true).
		WithSquare(nchess.E8, true)
	grid = withClass(grid, nchess.E1, "K")
	grid = withClass(grid, nchess.A1, "R")
	grid = withClass(grid, nchess.E8, "k")

	fields := strings.Fields(scanFEN(grid))
	if fields[2] != "Q" {
		t.Fatalf("castling = %q, want Q", fields[2])
	}
}

func TestScanFENUnknownClassBecomesWhitePawn(t *testing.T) {
	grid := occupancy.New().
		WithSquare(nchess.E1, true).
		WithSquare(nchess.E8, true).
		WithSquare(nchess.C5, true)
	grid = withClass(grid, nchess.E1, "K")
	grid = withClass(grid, nchess.E8, "k")
	grid = withClass(grid, nchess.C5, "??")

	fields := strings.Fields(scanFEN(grid))
	if fields[0] != "4k3/8/8/2P5/8/8/8/4K3" {
		t.Fatalf("placement = %q", fields[0])
	}
}
