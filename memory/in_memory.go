package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopchat-ai/shopchat/core"
)

// InMemoryStore is a volatile, process-local core.MemoryStore. Appends are
// session-scoped; Recent sorts by timestamp so out-of-order appends still
// read back in time order. Safe for concurrent use across sessions.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]core.MemoryRecord
}

// NewInMemoryStore creates an empty in-memory memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string][]core.MemoryRecord)}
}

// Append records a finished interaction for the session.
func (s *InMemoryStore) Append(_ context.Context, sessionID, query, response string, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], core.MemoryRecord{
		Query:     query,
		Response:  response,
		Timestamp: ts,
	})
	return nil
}

// Recent returns the most recent n records, ascending by time.
func (s *InMemoryStore) Recent(_ context.Context, sessionID string, n int) ([]core.MemoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.sessions[sessionID]
	if len(records) == 0 || n <= 0 {
		return []core.MemoryRecord{}, nil
	}
	sorted := make([]core.MemoryRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted, nil
}

// Clear removes all memory for the session.
func (s *InMemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
