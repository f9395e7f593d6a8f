package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/park285/boardwatch/internal/analysis"
	"github.com/park285/boardwatch/internal/appbuilder"
	"github.com/park285/boardwatch/internal/boardsync"
	"github.com/park285/boardwatch/internal/config"
	"github.com/park285/boardwatch/internal/obslog"
	"github.com/park285/boardwatch/internal/occupancy"
	"github.com/park285/boardwatch/internal/render"
	"github.com/park285/boardwatch/internal/visionfeed"
	"github.com/park285/boardwatch/pkg/syncdto"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = obslog.L().Sync() }()

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	deps, err := appbuilder.New(rootCtx, cfg)
	if err != nil {
		obslog.L().Fatal("init_failed", zap.Error(err))
	}
	defer deps.Close()

	app := &daemon{deps: deps}
	app.restoreSession(rootCtx)

	deps.Feed.OnStateChange(func(state visionfeed.ConnState) {
		obslog.L().Info("vision_feed_state", zap.String("state", state.String()))
	})
	deps.Feed.OnFrame(func(frame *syncdto.Frame) {
		app.handleFrame(rootCtx, frame)
	})

	connectCtx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
	err = deps.Feed.Connect(connectCtx)
	cancel()
	if err != nil {
		// The feed keeps reconnecting in the background; a failed first
		// dial is not fatal.
		obslog.L().Warn("vision_feed_connect_failed", zap.Error(err))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	obslog.L().Info("shutting_down")
	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = deps.Feed.Close(closeCtx)
	closeCancel()

	app.persistSnapshot(context.Background())
}

// daemon serialises all controller access: frames arrive on the feed
// goroutine and the controller is not safe for concurrent use.
type daemon struct {
	deps *appbuilder.Deps
	mu   sync.Mutex
}

func (d *daemon) restoreSession(ctx context.Context) {
	if d.deps.Sessions == nil {
		return
	}
	snap, err := d.deps.Sessions.LoadActive(ctx)
	if err != nil {
		obslog.L().Warn("session_restore_failed", zap.Error(err))
		return
	}
	if snap == nil {
		return
	}
	if err := d.deps.Controller.Restore(*snap); err != nil {
		obslog.L().Warn("session_restore_failed", zap.String("session_id", snap.SessionID), zap.Error(err))
		return
	}
	obslog.L().Info("session_restored",
		zap.String("session_id", snap.SessionID),
		zap.Int("moves", len(snap.Moves)),
	)
}

func (d *daemon) handleFrame(ctx context.Context, frame *syncdto.Frame) {
	if frame == nil || len(frame.Grid) == 0 {
		return
	}
	grid, err := occupancy.FromRows(frame.Grid, frame.Classes)
	if err != nil {
		obslog.L().Warn("frame_rejected", zap.Error(err))
		return
	}
	at := frame.Timestamp()
	if at.IsZero() {
		at = time.Now()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	ctl := d.deps.Controller
	if frame.Type == syncdto.FrameBoardScan || ctl.Phase() == boardsync.PhaseWaitingCalibration {
		events, err := ctl.SyncFromScan(grid, at)
		if err != nil {
			obslog.L().Warn("board_scan_rejected", zap.Error(err))
			return
		}
		d.dispatch(ctx, events)
		d.persistSnapshotLocked(ctx)
		return
	}

	events := ctl.ProcessFrame(grid, at)
	if len(events) == 0 {
		return
	}
	d.dispatch(ctx, events)
	d.persistSnapshotLocked(ctx)
}

func (d *daemon) dispatch(ctx context.Context, events []boardsync.Event) {
	ctl := d.deps.Controller
	for _, ev := range events {
		env := d.deps.Presenter.Envelope(ctl.SessionID(), time.Now(), ev)

		if move, ok := ev.(boardsync.MoveAccepted); ok {
			d.attachBoardPNG(ctx, env, move)
			d.analyze(ctx, move)
		}
		if d.deps.Notifier != nil {
			if err := d.deps.Notifier.PublishEvent(ctx, env); err != nil {
				obslog.L().Warn("event_publish_failed", zap.String("kind", env.Kind), zap.Error(err))
			}
		}
		if fin, ok := ev.(boardsync.GameFinished); ok {
			d.archiveGame(ctx, fin)
		}
	}
}

func (d *daemon) attachBoardPNG(ctx context.Context, env *syncdto.Envelope, move boardsync.MoveAccepted) {
	if env.Move == nil {
		return
	}
	opts := render.Options{Desynced: d.deps.Controller.Desynced()}
	if from, to, ok := parseUCISquares(move.UCI); ok {
		opts.Highlight = &render.MoveHighlight{From: from, To: to}
	}
	png, err := d.deps.Renderer.RenderPNG(ctx, d.deps.Controller.Position().Board(), opts)
	if err != nil {
		obslog.L().Warn("board_render_failed", zap.Error(err))
		return
	}
	env.Move.BoardPNG = png
}

func (d *daemon) analyze(ctx context.Context, move boardsync.MoveAccepted) {
	if d.deps.Analyzer == nil {
		return
	}
	ev, err := d.deps.Analyzer.Evaluate(ctx, move.FEN)
	if err != nil {
		obslog.L().Warn("analysis_failed", zap.String("fen", move.FEN), zap.Error(err))
		return
	}
	obslog.L().Info("move_analyzed",
		zap.String("uci", move.UCI),
		zap.String("best_reply", ev.BestMoveUCI),
		zap.Int("score_cp", ev.ScoreCP),
	)
	if d.deps.Notifier == nil {
		return
	}
	note := boardsync.Diagnostic{Message: evalSummary(ev)}
	env := d.deps.Presenter.Envelope(d.deps.Controller.SessionID(), time.Now(), note)
	if err := d.deps.Notifier.PublishEvent(ctx, env); err != nil {
		obslog.L().Warn("event_publish_failed", zap.String("kind", env.Kind), zap.Error(err))
	}
}

func evalSummary(ev *analysis.Evaluation) string {
	if ev.Mate != 0 {
		return fmt.Sprintf("engine: mate in %d, best reply %s", ev.Mate, ev.BestMoveUCI)
	}
	return fmt.Sprintf("engine: %+.2f, best reply %s", float64(ev.ScoreCP)/100, ev.BestMoveUCI)
}

func (d *daemon) archiveGame(ctx context.Context, fin boardsync.GameFinished) {
	ctl := d.deps.Controller
	snap := ctl.Snapshot()

	record := snapshotToRecord(snap, fin)
	if _, err := d.deps.Archive.InsertGame(ctx, record); err != nil {
		obslog.L().Warn("archive_failed", zap.String("session_id", snap.SessionID), zap.Error(err))
	}
	if d.deps.Sessions != nil {
		if err := d.deps.Sessions.Clear(ctx, snap.SessionID); err != nil {
			obslog.L().Warn("session_clear_failed", zap.Error(err))
		}
	}
	if d.deps.Analyzer != nil {
		_ = d.deps.Analyzer.NewGame(ctx)
	}

	// The next board scan calibrates a fresh session.
	d.dispatch(ctx, ctl.Reset())
}

func (d *daemon) persistSnapshot(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.persistSnapshotLocked(ctx)
}

func (d *daemon) persistSnapshotLocked(ctx context.Context) {
	if d.deps.Sessions == nil {
		return
	}
	if err := d.deps.Sessions.Save(ctx, d.deps.Controller.Snapshot()); err != nil {
		obslog.L().Warn("session_save_failed", zap.Error(err))
	}
}
