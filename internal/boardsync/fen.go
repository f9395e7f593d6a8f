package boardsync

import (
	"errors"
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/boardwatch/internal/occupancy"
)

var errEmptySource = errors.New("no piece on source square")

// expandPlacement decodes a FEN placement field into a 64-byte array
// indexed a1..h8, 0 for empty squares.
func expandPlacement(placement string) ([64]byte, error) {
	var board [64]byte
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return board, fmt.Errorf("placement has %d ranks", len(ranks))
	}
	for r, row := range ranks {
		rank := 7 - r
		file := 0
		for _, ch := range row {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			if file > 7 {
				return board, fmt.Errorf("rank %d overflows", rank+1)
			}
			board[rank*8+file] = byte(ch)
			file++
		}
		if file != 8 {
			return board, fmt.Errorf("rank %d has %d files", rank+1, file)
		}
	}
	return board, nil
}

func compressPlacement(board [64]byte) string {
	var b strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			ch := board[rank*8+file]
			if ch == 0 {
				empty++
				continue
			}
			if empty > 0 {
				fmt.Fprintf(&b, "%d", empty)
				empty = 0
			}
			b.WriteByte(ch)
		}
		if empty > 0 {
			fmt.Fprintf(&b, "%d", empty)
		}
		if rank > 0 {
			b.WriteByte('/')
		}
	}
	return b.String()
}

// movePieceFEN relocates one piece in a FEN string without any legality
// check. The en passant field is cleared; everything else is preserved.
func movePieceFEN(fen string, from, to nchess.Square) (string, error) {
	fields := strings.Fields(fen)
	if len(fields) < 6 {
		return "", fmt.Errorf("fen has %d fields", len(fields))
	}
	board, err := expandPlacement(fields[0])
	if err != nil {
		return "", err
	}
	piece := board[int(from)]
	if piece == 0 {
		return "", errEmptySource
	}
	board[int(from)] = 0
	board[int(to)] = piece
	fields[0] = compressPlacement(board)
	fields[3] = "-"
	return strings.Join(fields, " "), nil
}

var fenSymbols = map[string]byte{
	"K": 'K', "Q": 'Q', "R": 'R', "B": 'B', "N": 'N', "P": 'P',
	"k": 'k', "q": 'q', "r": 'r', "b": 'b', "n": 'n', "p": 'p',
}

// scanFEN builds a white-to-move FEN from a classified occupancy grid.
// Occupied squares with an unreadable class label become white pawns.
// Castling rights are granted only where king and rook still sit on their
// home squares.
func scanFEN(grid occupancy.Grid) string {
	var board [64]byte
	for i := 0; i < 64; i++ {
		sq := nchess.Square(i)
		if !grid.OccupiedSquare(sq) {
			continue
		}
		sym, ok := fenSymbols[grid.ClassSquare(sq)]
		if !ok {
			sym = 'P'
		}
		board[i] = sym
	}

	var rights strings.Builder
	if board[int(nchess.E1)] == 'K' {
		if board[int(nchess.H1)] == 'R' {
			rights.WriteByte('K')
		}
		if board[int(nchess.A1)] == 'R' {
			rights.WriteByte('Q')
		}
	}
	if board[int(nchess.E8)] == 'k' {
		if board[int(nchess.H8)] == 'r' {
			rights.WriteByte('k')
		}
		if board[int(nchess.A8)] == 'r' {
			rights.WriteByte('q')
		}
	}
	castling := rights.String()
	if castling == "" {
		castling = "-"
	}
	return fmt.Sprintf("%s w %s - 0 1", compressPlacement(board), castling)
}
