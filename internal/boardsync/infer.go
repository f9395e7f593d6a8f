package boardsync

import (
	"fmt"
	"sort"

	nchess "github.com/corentings/chess/v2"
	"go.uber.org/zap"

	"github.com/park285/boardwatch/internal/obslog"
	"github.com/park285/boardwatch/internal/occupancy"
)

// MoveCandidate is an inferred move before the rules oracle has accepted it.
type MoveCandidate struct {
	From  nchess.Square
	To    nchess.Square
	Promo nchess.PieceType
}

func (c MoveCandidate) UCI() string {
	return c.From.String() + c.To.String() + promoSuffix(c.Promo)
}

func promoSuffix(pt nchess.PieceType) string {
	switch pt {
	case nchess.Queen:
		return "q"
	case nchess.Rook:
		return "r"
	case nchess.Bishop:
		return "b"
	case nchess.Knight:
		return "n"
	default:
		return ""
	}
}

// PromotionFromString maps a config letter to a promotion piece; anything
// unrecognised falls back to queen.
func PromotionFromString(s string) nchess.PieceType {
	switch s {
	case "r":
		return nchess.Rook
	case "b":
		return nchess.Bishop
	case "n":
		return nchess.Knight
	default:
		return nchess.Queen
	}
}

var materialValue = map[nchess.PieceType]int{
	nchess.Queen:  9,
	nchess.Rook:   5,
	nchess.Bishop: 3,
	nchess.Knight: 3,
	nchess.Pawn:   1,
}

// PromotionChooser decides the promotion piece when a pawn reaches the back
// rank. It is called synchronously during inference.
type PromotionChooser func(from, to nchess.Square) nchess.PieceType

// inferMove turns a classified diff into at most one candidate. A nil
// candidate with an empty note means the shape carried no actionable move;
// a non-empty note explains why inference gave up.
func inferMove(game *nchess.Game, diff MoveDiff, settled occupancy.Grid, choose PromotionChooser) (*MoveCandidate, string) {
	switch diff.Shape() {
	case ShapeSimple:
		return inferSimple(game, diff.Vacated[0], diff.Filled[0], choose), ""
	case ShapeCapture:
		cand := inferCapture(game, diff.Vacated[0], settled, choose)
		if cand == nil {
			return nil, "no legal capture matches the vacated square"
		}
		return cand, ""
	case ShapeCastle:
		cand := inferBySimulation(game, settled, func(m *nchess.Move) bool {
			return m.HasTag(nchess.KingSideCastle) || m.HasTag(nchess.QueenSideCastle)
		})
		if cand == nil {
			return nil, "no legal castling move matches the observed grid"
		}
		return cand, ""
	case ShapeEnPassant:
		cand := inferBySimulation(game, settled, func(m *nchess.Move) bool {
			return m.HasTag(nchess.EnPassant)
		})
		if cand == nil {
			return nil, "no legal en passant capture matches the observed grid"
		}
		return cand, ""
	default:
		return nil, "unrecognised occupancy change: " + diff.Describe()
	}
}

func inferSimple(game *nchess.Game, from, to nchess.Square, choose PromotionChooser) *MoveCandidate {
	cand := &MoveCandidate{From: from, To: to}
	piece := game.Position().Board().Piece(from)
	if piece.Type() == nchess.Pawn && isBackRank(to, piece.Color()) {
		cand.Promo = choose(from, to)
	}
	return cand
}

func isBackRank(sq nchess.Square, c nchess.Color) bool {
	if c == nchess.White {
		return sq.Rank() == nchess.Rank8
	}
	return sq.Rank() == nchess.Rank1
}

// inferCapture resolves the one-vacated-zero-filled shape: the mover landed
// on an occupied square. Several captures from the same origin can fit, so
// the candidates are ranked by the material value of the captured piece,
// with ties broken by the lowest destination square in a1..h8 order.
func inferCapture(game *nchess.Game, from nchess.Square, settled occupancy.Grid, choose PromotionChooser) *MoveCandidate {
	pos := game.Position()
	board := pos.Board()

	type scored struct {
		move  nchess.Move
		value int
	}
	var candidates []scored
	for _, m := range game.ValidMoves() {
		if m.S1() != from || !m.HasTag(nchess.Capture) || m.HasTag(nchess.EnPassant) {
			continue
		}
		if !settled.OccupiedSquare(m.S2()) {
			continue
		}
		victim := board.Piece(m.S2())
		candidates = append(candidates, scored{move: m, value: materialValue[victim.Type()]})
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].value != candidates[j].value {
			return candidates[i].value > candidates[j].value
		}
		return candidates[i].move.S2() < candidates[j].move.S2()
	})
	if len(candidates) > 1 {
		considered := make([]string, 0, len(candidates))
		for _, sc := range candidates {
			considered = append(considered, fmt.Sprintf("%s%s=%d", sc.move.S1(), sc.move.S2(), sc.value))
		}
		obslog.L().Warn("capture_ambiguous",
			zap.String("from", from.String()),
			zap.Strings("candidates", considered),
		)
	}

	best := candidates[0].move
	cand := &MoveCandidate{From: best.S1(), To: best.S2()}
	if best.Promo() != nchess.NoPieceType {
		// Promotion variants of the same capture share value and destination;
		// the chooser picks among them.
		cand.Promo = choose(best.S1(), best.S2())
	}
	return cand
}

// inferBySimulation tries each tagged legal move on a clone of the game and
// keeps the one whose resulting occupancy matches the settled grid.
func inferBySimulation(game *nchess.Game, settled occupancy.Grid, match func(*nchess.Move) bool) *MoveCandidate {
	for _, m := range game.ValidMoves() {
		m := m
		if !match(&m) {
			continue
		}
		clone := game.Clone()
		if err := clone.Move(&m, nil); err != nil {
			continue
		}
		if occupancy.FromPosition(clone.Position()).Equal(settled) {
			return &MoveCandidate{From: m.S1(), To: m.S2(), Promo: m.Promo()}
		}
	}
	return nil
}
