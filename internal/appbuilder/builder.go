package appbuilder

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/boardwatch/internal/analysis"
	"github.com/park285/boardwatch/internal/archive"
	"github.com/park285/boardwatch/internal/boardsync"
	"github.com/park285/boardwatch/internal/config"
	"github.com/park285/boardwatch/internal/msgcat"
	"github.com/park285/boardwatch/internal/notify"
	"github.com/park285/boardwatch/internal/obslog"
	"github.com/park285/boardwatch/internal/render"
	"github.com/park285/boardwatch/internal/session"
	"github.com/park285/boardwatch/internal/visionfeed"
)

// Deps is the wired application graph for the daemon.
type Deps struct {
	Controller *boardsync.Controller
	Feed       *visionfeed.WebSocket
	Notifier   *notify.Client
	Presenter  *notify.Presenter
	Renderer   render.BoardRenderer
	Sessions   *session.Store
	Archive    archive.Repository
	Analyzer   *analysis.Analyzer

	db  *sql.DB
	rdb *redis.Client
}

func New(ctx context.Context, cfg *config.AppConfig) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	deps := &Deps{}

	deps.Controller = boardsync.NewController(boardsync.Config{
		Debounce:         cfg.DebounceInterval,
		DebugMode:        cfg.DebugMode,
		NoTurnMode:       cfg.NoTurnMode,
		DefaultPromotion: cfg.PromotionDefault,
	})

	headers := func() map[string]string {
		h := map[string]string{}
		if cfg.AuthToken != "" {
			h["Authorization"] = "Bearer " + cfg.AuthToken
		}
		return h
	}

	deps.Feed = visionfeed.NewWebSocket(cfg.VisionWSURL, 10, time.Second)
	deps.Feed.SetHeaderProvider(headers)

	if strings.TrimSpace(cfg.NotifyBaseURL) != "" {
		deps.Notifier = notify.NewClient(cfg.NotifyBaseURL, notify.WithHeaderProvider(headers))
	}

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load message catalog: %w", err)
	}
	deps.Presenter = notify.NewPresenter(cat)
	deps.Renderer = render.NewSVGBoardRenderer()

	if strings.TrimSpace(cfg.RedisURL) != "" {
		opts, perr := redis.ParseURL(cfg.RedisURL)
		if perr != nil {
			return nil, fmt.Errorf("parse redis url: %w", perr)
		}
		deps.rdb = redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := deps.rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		deps.Sessions = session.NewStore(deps.rdb, time.Duration(cfg.SessionTTLSec)*time.Second)
	}

	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(16)
		db.SetMaxIdleConns(8)
		db.SetConnMaxLifetime(30 * time.Minute)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		deps.db = db
		deps.Archive = archive.NewRepository(db)
	} else {
		deps.Archive = archive.NewMemoryRepository()
		obslog.L().Warn("archive_using_memory", zap.String("reason", "DATABASE_URL not set"))
	}

	if strings.TrimSpace(cfg.StockfishPath) != "" {
		analyzer, err := analysis.NewAnalyzer(ctx, cfg.StockfishPath, cfg.AnalysisDepth, analysis.Options{})
		if err != nil {
			return nil, fmt.Errorf("init analyzer: %w", err)
		}
		deps.Analyzer = analyzer
	}

	return deps, nil
}

func (d *Deps) Close() {
	if d == nil {
		return
	}
	if d.Analyzer != nil {
		_ = d.Analyzer.Close()
	}
	if d.rdb != nil {
		_ = d.rdb.Close()
	}
	if d.db != nil {
		_ = d.db.Close()
	}
}
