package archive

import (
	"context"
	"sort"
	"sync"

	"github.com/park285/boardwatch/internal/domain"
)

// memrepo is the in-memory archive used when no database is configured.
type memrepo struct {
	mu sync.RWMutex

	nextID    int64
	byID      map[int64]*domain.GameRecord
	bySession map[string]*domain.GameRecord
}

func NewMemoryRepository() Repository {
	return &memrepo{
		byID:      make(map[int64]*domain.GameRecord),
		bySession: make(map[string]*domain.GameRecord),
	}
}

func (m *memrepo) InsertGame(ctx context.Context, game *domain.GameRecord) (int64, error) {
	if game == nil {
		return 0, ErrDuplicateGame
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bySession[game.SessionUUID]; exists {
		return 0, ErrDuplicateGame
	}

	m.nextID++
	stored := *game
	stored.ID = m.nextID

	m.byID[stored.ID] = &stored
	m.bySession[stored.SessionUUID] = &stored
	return stored.ID, nil
}

func (m *memrepo) GetRecentGames(ctx context.Context, limit int) ([]*domain.GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]*domain.GameRecord, 0, len(m.byID))
	for _, g := range m.byID {
		items = append(items, g)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].EndedAt.Equal(items[j].EndedAt) {
			return items[i].EndedAt.After(items[j].EndedAt)
		}
		return items[i].ID > items[j].ID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *memrepo) GetGameBySession(ctx context.Context, sessionUUID string) (*domain.GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bySession[sessionUUID], nil
}
