package analysis

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/park285/boardwatch/internal/obslog"
)

// Analyzer evaluates positions after accepted moves. It is optional: a nil
// *Analyzer is a valid no-op receiver so the daemon wires it only when a
// stockfish binary is configured.
type Analyzer struct {
	session *Session
	depth   int
}

func NewAnalyzer(ctx context.Context, binaryPath string, depth int, opt Options) (*Analyzer, error) {
	if depth <= 0 {
		depth = 12
	}
	session, err := NewSession(ctx, binaryPath, opt)
	if err != nil {
		return nil, err
	}
	return &Analyzer{session: session, depth: depth}, nil
}

// Evaluate returns nil without error when the analyzer is disabled.
func (a *Analyzer) Evaluate(ctx context.Context, fen string) (*Evaluation, error) {
	if a == nil {
		return nil, nil
	}
	started := time.Now()
	ev, err := a.session.Evaluate(ctx, fen, Limits{Depth: a.depth})
	if err != nil {
		return nil, err
	}
	obslog.L().Debug("position_evaluated",
		zap.String("best", ev.BestMoveUCI),
		zap.Int("score_cp", ev.ScoreCP),
		zap.Int("mate", ev.Mate),
		zap.Duration("took", time.Since(started)),
	)
	return ev, nil
}

// NewGame resets engine state between sessions.
func (a *Analyzer) NewGame(ctx context.Context) error {
	if a == nil {
		return nil
	}
	return a.session.NewGame(ctx)
}

func (a *Analyzer) Close() error {
	if a == nil {
		return nil
	}
	return a.session.Close()
}
