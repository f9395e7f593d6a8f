package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/park285/boardwatch/internal/domain"
)

func record(session string, endedAt time.Time) *domain.GameRecord {
	return &domain.GameRecord{
		SessionUUID:  session,
		Result:       "0-1",
		ResultMethod: "Checkmate",
		MovesUCI:     []string{"f2f3", "e7e5", "g2g4", "d8h4"},
		MovesSAN:     []string{"f3", "e5", "g4", "Qh4#"},
		EndedAt:      endedAt,
	}
}

func TestInsertAndFetchBySession(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	id, err := repo.InsertGame(ctx, record("s1", time.Unix(100, 0)))
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	got, err := repo.GetGameBySession(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Result != "0-1" || len(got.MovesSAN) != 4 {
		t.Fatalf("got %+v", got)
	}
}

func TestInsertDuplicateSession(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.InsertGame(ctx, record("s1", time.Unix(100, 0))); err != nil {
		t.Fatal(err)
	}
	_, err := repo.InsertGame(ctx, record("s1", time.Unix(200, 0)))
	if !errors.Is(err, ErrDuplicateGame) {
		t.Fatalf("err = %v", err)
	}
}

func TestRecentGamesOrderedByEnd(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	for i, s := range []string{"old", "mid", "new"} {
		if _, err := repo.InsertGame(ctx, record(s, time.Unix(int64(i*100), 0))); err != nil {
			t.Fatal(err)
		}
	}

	games, err := repo.GetRecentGames(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 || games[0].SessionUUID != "new" || games[1].SessionUUID != "mid" {
		t.Fatalf("games = %+v", games)
	}
}
