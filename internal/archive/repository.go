package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/park285/boardwatch/internal/domain"
)

var ErrDuplicateGame = errors.New("game already archived")

type Repository interface {
	InsertGame(ctx context.Context, game *domain.GameRecord) (int64, error)
	GetRecentGames(ctx context.Context, limit int) ([]*domain.GameRecord, error)
	GetGameBySession(ctx context.Context, sessionUUID string) (*domain.GameRecord, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) InsertGame(ctx context.Context, game *domain.GameRecord) (int64, error) {
	if game == nil {
		return 0, fmt.Errorf("nil game payload")
	}

	movesUCI, err := json.Marshal(game.MovesUCI)
	if err != nil {
		return 0, fmt.Errorf("marshal moves_uci: %w", err)
	}
	movesSAN, err := json.Marshal(game.MovesSAN)
	if err != nil {
		return 0, fmt.Errorf("marshal moves_san: %w", err)
	}

	const query = `
		INSERT INTO watched_games (
			session_uuid,
			result,
			result_method,
			base_fen,
			final_fen,
			moves_uci,
			moves_san,
			pgn,
			desynced,
			started_at,
			ended_at,
			duration_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8, $9, $10, $11, $12)
		ON CONFLICT (session_uuid) DO NOTHING
		RETURNING id`

	var id sql.NullInt64
	err = r.db.QueryRowContext(
		ctx,
		query,
		game.SessionUUID,
		game.Result,
		game.ResultMethod,
		game.BaseFEN,
		game.FinalFEN,
		movesUCI,
		movesSAN,
		game.PGN,
		game.Desynced,
		game.StartedAt,
		game.EndedAt,
		game.Duration.Milliseconds(),
	).Scan(&id)
	if err == sql.ErrNoRows || (err == nil && !id.Valid) {
		return 0, ErrDuplicateGame
	}
	if err != nil {
		return 0, fmt.Errorf("insert game: %w", err)
	}
	return id.Int64, nil
}

const selectColumns = `
		id,
		session_uuid,
		result,
		result_method,
		base_fen,
		final_fen,
		moves_uci,
		moves_san,
		pgn,
		desynced,
		started_at,
		ended_at,
		duration_ms`

func (r *repository) GetRecentGames(ctx context.Context, limit int) ([]*domain.GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT` + selectColumns + `
		FROM watched_games
		ORDER BY ended_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}
	defer rows.Close()

	games := make([]*domain.GameRecord, 0, limit)
	for rows.Next() {
		game, err := scanGame(rows.Scan)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func (r *repository) GetGameBySession(ctx context.Context, sessionUUID string) (*domain.GameRecord, error) {
	query := `SELECT` + selectColumns + `
		FROM watched_games
		WHERE session_uuid = $1`

	game, err := scanGame(r.db.QueryRowContext(ctx, query, sessionUUID).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return game, nil
}

func scanGame(scan func(dest ...any) error) (*domain.GameRecord, error) {
	var (
		game         domain.GameRecord
		movesUCIJSON []byte
		movesSANJSON []byte
		durationMS   sql.NullInt64
	)
	err := scan(
		&game.ID,
		&game.SessionUUID,
		&game.Result,
		&game.ResultMethod,
		&game.BaseFEN,
		&game.FinalFEN,
		&movesUCIJSON,
		&movesSANJSON,
		&game.PGN,
		&game.Desynced,
		&game.StartedAt,
		&game.EndedAt,
		&durationMS,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan game: %w", err)
	}
	if durationMS.Valid {
		game.Duration = time.Duration(durationMS.Int64) * time.Millisecond
	}
	if err := json.Unmarshal(movesUCIJSON, &game.MovesUCI); err != nil {
		return nil, fmt.Errorf("unmarshal moves_uci: %w", err)
	}
	if err := json.Unmarshal(movesSANJSON, &game.MovesSAN); err != nil {
		return nil, fmt.Errorf("unmarshal moves_san: %w", err)
	}
	return &game, nil
}
