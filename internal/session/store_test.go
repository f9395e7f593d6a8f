package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/park285/boardwatch/internal/boardsync"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(rdb, time.Hour)
}

func sampleSnapshot(id string) boardsync.Snapshot {
	return boardsync.Snapshot{
		SessionID: id,
		Phase:     "playing",
		FEN:       "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		BaseFEN:   "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		Moves:     []boardsync.MoveRecord{{UCI: "e2e4", SAN: "e4", FEN: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"}},
		LastUCI:   "e2e4",
		StartedAt: time.Unix(1700000000, 0).UTC(),
		UpdatedAt: time.Unix(1700000100, 0).UTC(),
	}
}

func TestSaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	snap := sampleSnapshot("abc")
	if err := s.Save(ctx, snap); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("snapshot not found")
	}
	if got.FEN != snap.FEN || len(got.Moves) != 1 || got.Moves[0].SAN != "e4" {
		t.Fatalf("got %+v", got)
	}
}

func TestLoadUnknownReturnsNil(t *testing.T) {
	s := newTestStore(t)
	got, err := s.Load(context.Background(), "missing")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("got %+v", got)
	}
}

func TestLoadActiveFollowsPointer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, sampleSnapshot("first")); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, sampleSnapshot("second")); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadActive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.SessionID != "second" {
		t.Fatalf("got %+v", got)
	}
}

func TestClearRemovesActivePointer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, sampleSnapshot("abc")); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(ctx, "abc"); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadActive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("active session survived clear: %+v", got)
	}
}
