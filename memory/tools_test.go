package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextToolEmptySession(t *testing.T) {
	ctx := context.Background()
	contextTool := NewContextTool(NewInMemoryStore(), 0)

	res, err := contextTool.Call(ctx, map[string]any{"query": "mouse", "session_id": "s1"})
	require.NoError(t, err)
	assert.Equal(t, NoContextFound, res)
}

func TestContextToolFormatsRecent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, "s1", "any laptops?", "Here are three laptops.", base))
	require.NoError(t, store.Append(ctx, "s1", "cheaper ones?", "Two under $500.", base.Add(time.Minute)))

	contextTool := NewContextTool(store, 3)
	res, err := contextTool.Call(ctx, map[string]any{"query": "laptops", "session_id": "s1"})
	require.NoError(t, err)

	text, ok := res.(string)
	require.True(t, ok)
	assert.Contains(t, text, "Previous context:")
	assert.Contains(t, text, "User: any laptops?")
	assert.Contains(t, text, "Agent: Two under $500.")
	assert.Contains(t, text, "\n---\n")
}

func TestLogToolAppends(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	logTool := NewLogTool(store)

	res, err := logTool.Call(ctx, map[string]any{
		"user_query":         "wireless mouse",
		"assistant_response": "Found 3 options.",
		"session_id":         "s9",
	})
	require.NoError(t, err)
	assert.Equal(t, LogSuccess, res)

	recs, err := store.Recent(ctx, "s9", 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "wireless mouse", recs[0].Query)
	assert.Equal(t, "Found 3 options.", recs[0].Response)
}
