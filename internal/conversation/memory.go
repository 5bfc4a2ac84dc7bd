package conversation

import (
	"context"
	"sync"

	"github.com/a38062an/uk-econ-insight-agent/internal/model"
)

// MemoryStore keeps conversations in process memory. The default when no
// REDIS_URL is configured; history is lost on restart, which is acceptable
// for session-scoped state.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]model.Turn
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]model.Turn)}
}

func (s *MemoryStore) Append(ctx context.Context, sessionID string, turn model.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], turn)
	return nil
}

func (s *MemoryStore) LastPairs(ctx context.Context, sessionID string, n int) ([]model.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.sessions[sessionID]
	window := lastTurns(turns, n)

	out := make([]model.Turn, len(window))
	copy(out, window)
	return out, nil
}
