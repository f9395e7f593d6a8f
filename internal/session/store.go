package session

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/park285/boardwatch/internal/boardsync"
)

const defaultTTL = 24 * time.Hour

// Store persists session snapshots in Redis so a restarted daemon can pick
// up a live game instead of desyncing against a half-played board.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) keySnapshot(id string) string { return "bw:session:" + strings.TrimSpace(id) }
func (s *Store) keyActive() string            { return "bw:session:active" }

// Save writes the snapshot and marks it as the active session.
func (s *Store) Save(ctx context.Context, snap boardsync.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.keySnapshot(snap.SessionID), raw, s.ttl).Err(); err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.keyActive(), snap.SessionID, s.ttl).Err()
}

// Load returns nil without error when the session is unknown or expired.
func (s *Store) Load(ctx context.Context, id string) (*boardsync.Snapshot, error) {
	raw, err := s.rdb.Get(ctx, s.keySnapshot(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap boardsync.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// LoadActive resolves the active session pointer, if any.
func (s *Store) LoadActive(ctx context.Context) (*boardsync.Snapshot, error) {
	id, err := s.rdb.Get(ctx, s.keyActive()).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, id)
}

// Clear removes a finished session and, when it was active, the pointer.
func (s *Store) Clear(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, s.keySnapshot(id)).Err(); err != nil {
		return err
	}
	active, err := s.rdb.Get(ctx, s.keyActive()).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if active == strings.TrimSpace(id) {
		return s.rdb.Del(ctx, s.keyActive()).Err()
	}
	return nil
}
