package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopchat-ai/shopchat/core"
)

// Interface compliance (compile-time assertions)
var (
	_ core.MemoryStore = (*InMemoryStore)(nil)
	_ core.MemoryStore = (*RedisStore)(nil)
)

func TestInMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	recs, err := store.Recent(ctx, "s1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected empty memory, got %#v", recs)
	}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, q := range []string{"q1", "q2", "q3"} {
		if err := store.Append(ctx, "s1", q, "r"+q[1:], base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	recs, err = store.Recent(ctx, "s1", 2)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	// Most recent n, ascending by time: q2 then q3.
	if recs[0].Query != "q2" || recs[1].Query != "q3" {
		t.Fatalf("wrong order: %#v", recs)
	}
	if recs[1].Response != "r3" {
		t.Fatalf("last record must encode the latest interaction, got %#v", recs[1])
	}
}

func TestInMemoryStoreSessionIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	now := time.Now().UTC()

	if err := store.Append(ctx, "a", "qa", "ra", now); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := store.Append(ctx, "b", "qb", "rb", now); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	recs, _ := store.Recent(ctx, "a", 10)
	if len(recs) != 1 || recs[0].Query != "qa" {
		t.Fatalf("session a polluted: %#v", recs)
	}

	if err := store.Clear(ctx, "a"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	recs, _ = store.Recent(ctx, "a", 10)
	if len(recs) != 0 {
		t.Fatalf("expected cleared session, got %#v", recs)
	}
	recs, _ = store.Recent(ctx, "b", 10)
	if len(recs) != 1 {
		t.Fatalf("session b must survive clearing a, got %#v", recs)
	}
}

func TestInMemoryStoreOutOfOrderAppends(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	_ = store.Append(ctx, "s", "later", "r2", base.Add(time.Hour))
	_ = store.Append(ctx, "s", "earlier", "r1", base)

	recs, _ := store.Recent(ctx, "s", 10)
	if len(recs) != 2 || recs[0].Query != "earlier" || recs[1].Query != "later" {
		t.Fatalf("records not ascending by time: %#v", recs)
	}
}
