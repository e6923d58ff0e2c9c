package core

import (
	"context"
	"time"
)

// MemoryRecord is one logged (query, response) interaction of a session.
type MemoryRecord struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// MemoryStore persists per-session conversational memory. Writes are
// append-only and session-scoped; implementations must tolerate concurrent
// access from unrelated sessions (keyed strictly by session identifier).
type MemoryStore interface {
	// Append records a finished interaction for the session.
	Append(ctx context.Context, sessionID, query, response string, ts time.Time) error

	// Recent returns the most recent n records, ascending by time. An empty
	// result is a normal outcome for a fresh session, not an error.
	Recent(ctx context.Context, sessionID string, n int) ([]MemoryRecord, error)

	// Clear removes all memory for the session.
	Clear(ctx context.Context, sessionID string) error
}
