package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopchat-ai/shopchat/core"
)

// RedisStore is a core.MemoryStore backed by a Redis sorted set per session,
// scored by interaction timestamp. Distinct sessions map to distinct keys, so
// concurrent conversations never contend beyond Redis itself.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// RedisStoreOptions configure the Redis-backed store.
type RedisStoreOptions struct {
	// KeyPrefix namespaces the per-session keys. Defaults to "shopchat:memory".
	KeyPrefix string
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client redis.UniversalClient, optFns ...func(o *RedisStoreOptions)) *RedisStore {
	opts := RedisStoreOptions{KeyPrefix: "shopchat:memory"}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &RedisStore{client: client, keyPrefix: opts.KeyPrefix}
}

func (s *RedisStore) key(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.keyPrefix, sessionID)
}

// Append records a finished interaction for the session.
func (s *RedisStore) Append(ctx context.Context, sessionID, query, response string, ts time.Time) error {
	rec := core.MemoryRecord{Query: query, Response: response, Timestamp: ts}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal memory record: %w", err)
	}
	err = s.client.ZAdd(ctx, s.key(sessionID), redis.Z{
		Score:  float64(ts.UnixNano()) / float64(time.Second),
		Member: string(payload),
	}).Err()
	if err != nil {
		return fmt.Errorf("append memory for session %s: %w", sessionID, err)
	}
	return nil
}

// Recent returns the most recent n records, ascending by time. Negative range
// indexes select the tail of the sorted set, which is already time-ordered.
func (s *RedisStore) Recent(ctx context.Context, sessionID string, n int) ([]core.MemoryRecord, error) {
	if n <= 0 {
		return []core.MemoryRecord{}, nil
	}
	members, err := s.client.ZRange(ctx, s.key(sessionID), int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read memory for session %s: %w", sessionID, err)
	}
	records := make([]core.MemoryRecord, 0, len(members))
	for _, m := range members {
		var rec core.MemoryRecord
		if err := json.Unmarshal([]byte(m), &rec); err != nil {
			// Skip unreadable entries rather than failing the whole read.
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Clear removes all memory for the session.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear memory for session %s: %w", sessionID, err)
	}
	return nil
}
