package main

import (
	"time"

	nchess "github.com/corentings/chess/v2"

	"github.com/park285/boardwatch/internal/boardsync"
	"github.com/park285/boardwatch/internal/domain"
)

func snapshotToRecord(snap boardsync.Snapshot, fin boardsync.GameFinished) *domain.GameRecord {
	ucis := make([]string, 0, len(snap.Moves))
	sans := make([]string, 0, len(snap.Moves))
	for _, rec := range snap.Moves {
		ucis = append(ucis, rec.UCI)
		sans = append(sans, rec.SAN)
	}
	ended := time.Now()
	return &domain.GameRecord{
		SessionUUID:  snap.SessionID,
		Result:       fin.Outcome,
		ResultMethod: fin.Method,
		BaseFEN:      snap.BaseFEN,
		FinalFEN:     snap.FEN,
		MovesUCI:     ucis,
		MovesSAN:     sans,
		PGN:          fin.PGN,
		Desynced:     snap.Desynced,
		StartedAt:    snap.StartedAt,
		EndedAt:      ended,
		Duration:     ended.Sub(snap.StartedAt),
	}
}

func parseUCISquares(uci string) (from, to nchess.Square, ok bool) {
	if len(uci) < 4 {
		return 0, 0, false
	}
	from, ok = parseSquare(uci[0:2])
	if !ok {
		return 0, 0, false
	}
	to, ok = parseSquare(uci[2:4])
	if !ok {
		return 0, 0, false
	}
	return from, to, true
}

func parseSquare(s string) (nchess.Square, bool) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, false
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	return nchess.Square(rank*8 + file), true
}
