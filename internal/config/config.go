package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	VisionWSURL   string
	NotifyBaseURL string

	RedisURL    string
	DatabaseURL string

	StockfishPath string
	AnalysisDepth int

	DebounceInterval time.Duration
	DebugMode        bool
	NoTurnMode       bool

	// PromotionDefault is the piece used for pawn promotion when no chooser
	// callback is registered: one of "q", "r", "b", "n".
	PromotionDefault string

	SessionTTLSec int

	// MessagesDir optionally overrides the embedded narration templates.
	MessagesDir string

	// AuthToken is sent as a bearer token to both the vision feed and the
	// notification sink when set.
	AuthToken string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		DebounceInterval: 1500 * time.Millisecond,
		AnalysisDepth:    12,
		PromotionDefault: "q",
		SessionTTLSec:    86400,
	}

	cfg.VisionWSURL = strings.TrimSpace(os.Getenv("VISION_WS_URL"))
	cfg.NotifyBaseURL = strings.TrimSpace(os.Getenv("NOTIFY_BASE_URL"))

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	cfg.StockfishPath = strings.TrimSpace(os.Getenv("STOCKFISH_PATH"))
	if v := strings.TrimSpace(os.Getenv("ANALYSIS_DEPTH")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AnalysisDepth = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("DEBOUNCE_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DebounceInterval = time.Duration(n) * time.Millisecond
		}
	}
	if v := strings.TrimSpace(os.Getenv("DEBUG_MODE")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DebugMode = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("NO_TURN_MODE")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.NoTurnMode = b
		}
	}

	if v := strings.ToLower(strings.TrimSpace(os.Getenv("PROMOTION_DEFAULT"))); v != "" {
		switch v {
		case "q", "r", "b", "n":
			cfg.PromotionDefault = v
		default:
			return nil, errors.New("PROMOTION_DEFAULT must be one of q, r, b, n")
		}
	}

	if v := strings.TrimSpace(os.Getenv("SESSION_TTL_SEC")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTLSec = n
		}
	}

	cfg.MessagesDir = strings.TrimSpace(os.Getenv("MESSAGES_DIR"))
	cfg.AuthToken = strings.TrimSpace(os.Getenv("AUTH_TOKEN"))

	if cfg.VisionWSURL == "" {
		return nil, errors.New("VISION_WS_URL is required")
	}

	return cfg, nil
}
