package render

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	nchess "github.com/corentings/chess/v2"
)

func TestRenderPNGStartingPosition(t *testing.T) {
	r := NewSVGBoardRenderer()
	board := nchess.NewGame().Position().Board()

	data, err := r.RenderPNG(context.Background(), board, Options{})
	if err != nil {
		t.Fatal(err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	want := boardSize + margin*2
	if img.Bounds().Dx() != want || img.Bounds().Dy() != want {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}

func TestRenderPNGWithHighlightAndDesync(t *testing.T) {
	r := NewSVGBoardRenderer()
	board := nchess.NewGame().Position().Board()

	data, err := r.RenderPNG(context.Background(), board, Options{
		Highlight: &MoveHighlight{From: nchess.E2, To: nchess.E4},
		Desynced:  true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("empty png")
	}
}

func TestRenderPNGNilBoard(t *testing.T) {
	r := NewSVGBoardRenderer()
	if _, err := r.RenderPNG(context.Background(), nil, Options{}); err == nil {
		t.Fatal("nil board should error")
	}
}

func TestRenderPNGCancelledContext(t *testing.T) {
	r := NewSVGBoardRenderer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	board := nchess.NewGame().Position().Board()
	if _, err := r.RenderPNG(ctx, board, Options{}); err == nil {
		t.Fatal("cancelled context should error")
	}
}

func TestPieceAssetNames(t *testing.T) {
	for _, piece := range []nchess.Piece{
		nchess.WhiteKing, nchess.WhitePawn, nchess.BlackQueen, nchess.BlackKnight,
	} {
		if _, err := renderPieceImage(piece, 72); err != nil {
			t.Fatalf("render %v: %v", piece, err)
		}
	}
}
