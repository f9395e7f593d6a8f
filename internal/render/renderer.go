package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"

	nchess "github.com/corentings/chess/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// MoveHighlight marks the from/to squares of the last accepted move.
type MoveHighlight struct {
	From nchess.Square
	To   nchess.Square
}

type Options struct {
	Highlight *MoveHighlight
	Desynced  bool
}

// BoardRenderer produces the board snapshot PNG attached to notifications.
type BoardRenderer interface {
	RenderPNG(ctx context.Context, board *nchess.Board, opts Options) ([]byte, error)
}

type svgBoardRenderer struct{}

func NewSVGBoardRenderer() BoardRenderer {
	return &svgBoardRenderer{}
}

const (
	squareSize = 72
	boardSize  = squareSize * 8
	margin     = 24
)

var (
	lightSquare    = color.RGBA{233, 207, 163, 255}
	darkSquare     = color.RGBA{187, 136, 96, 255}
	backgroundFill = color.RGBA{28, 31, 46, 255}
	highlightFill  = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	desyncBorder   = color.NRGBA{R: 214, G: 69, B: 56, A: 255}
	coordinateText = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
)

func (r *svgBoardRenderer) RenderPNG(ctx context.Context, board *nchess.Board, opts Options) ([]byte, error) {
	if board == nil {
		return nil, fmt.Errorf("board is nil")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	total := boardSize + margin*2
	origin := image.Point{X: margin, Y: margin}
	img := image.NewRGBA(image.Rect(0, 0, total, total))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundFill), image.Point{}, imagedraw.Src)

	drawSquares(img, origin)
	if opts.Highlight != nil {
		drawSquareOverlay(img, opts.Highlight.From, origin, highlightFill)
		drawSquareOverlay(img, opts.Highlight.To, origin, highlightFill)
	}
	if err := drawPieces(img, board, origin); err != nil {
		return nil, err
	}
	drawCoordinates(img, origin)
	if opts.Desynced {
		drawBorder(img, image.Rect(origin.X, origin.Y, origin.X+boardSize, origin.Y+boardSize), 4, desyncBorder)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawSquares(img *image.RGBA, origin image.Point) {
	for i := 0; i < 64; i++ {
		sq := nchess.Square(i)
		rect := squareRect(sq, origin)
		imagedraw.Draw(img, rect, image.NewUniform(squareColor(sq)), image.Point{}, imagedraw.Src)
	}
}

func drawPieces(img *image.RGBA, board *nchess.Board, origin image.Point) error {
	for i := 0; i < 64; i++ {
		sq := nchess.Square(i)
		piece := board.Piece(sq)
		if piece == nchess.NoPiece {
			continue
		}
		pieceImg, err := renderPieceImage(piece, squareSize)
		if err != nil {
			return err
		}
		imagedraw.Draw(img, squareRect(sq, origin), pieceImg, image.Point{}, imagedraw.Over)
	}
	return nil
}

func drawSquareOverlay(img *image.RGBA, sq nchess.Square, origin image.Point, clr color.Color) {
	imagedraw.Draw(img, squareRect(sq, origin), image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

func drawBorder(img *image.RGBA, rect image.Rectangle, width int, clr color.Color) {
	fill := image.NewUniform(clr)
	top := image.Rect(rect.Min.X-width, rect.Min.Y-width, rect.Max.X+width, rect.Min.Y)
	bottom := image.Rect(rect.Min.X-width, rect.Max.Y, rect.Max.X+width, rect.Max.Y+width)
	left := image.Rect(rect.Min.X-width, rect.Min.Y, rect.Min.X, rect.Max.Y)
	right := image.Rect(rect.Max.X, rect.Min.Y, rect.Max.X+width, rect.Max.Y)
	for _, r := range []image.Rectangle{top, bottom, left, right} {
		imagedraw.Draw(img, r, fill, image.Point{}, imagedraw.Src)
	}
}

func drawCoordinates(img *image.RGBA, origin image.Point) {
	drawer := &font.Drawer{
		Dst:  img,
		Face: basicfont.Face7x13,
		Src:  image.NewUniform(coordinateText),
	}
	for row := 0; row < 8; row++ {
		label := fmt.Sprintf("%d", 8-row)
		y := origin.Y + row*squareSize + squareSize/2 + 4
		drawer.Dot = fixed.P(origin.X-margin/2-3, y)
		drawer.DrawString(label)
	}
	files := "abcdefgh"
	for col := 0; col < 8; col++ {
		label := string(files[col])
		x := origin.X + col*squareSize + squareSize/2 - 3
		drawer.Dot = fixed.P(x, origin.Y+boardSize+margin/2+4)
		drawer.DrawString(label)
	}
}

func squareRect(sq nchess.Square, origin image.Point) image.Rectangle {
	col := int(sq.File())
	row := 7 - int(sq.Rank())
	x := origin.X + col*squareSize
	y := origin.Y + row*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func squareColor(sq nchess.Square) color.Color {
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return darkSquare
	}
	return lightSquare
}
