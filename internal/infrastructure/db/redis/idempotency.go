package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// pendingValue marks a key whose create has not finished yet.
	pendingValue = "pending"
)

// IdempotencyStore maps a client-supplied Idempotency-Key to the issue it
// produced, so a retried create returns the earlier issue.
// Key format: idempotency:issue:<actor_id>:<key>
type IdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewIdempotencyStore wraps the given client. A non-positive ttl falls back to 24h.
func NewIdempotencyStore(client redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims the key with SET NX. If another request holds it, the
// recorded issue id is returned, or 0 while that request is still running.
func (s *IdempotencyStore) Reserve(ctx context.Context, actorID int64, key string) (int64, bool, error) {
	k := idempotencyKey(actorID, key)
	ok, err := s.client.SetNX(ctx, k, pendingValue, s.ttl).Result()
	if err != nil {
		return 0, false, fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return 0, true, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// Released between SETNX and GET; report it as in flight.
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return parseIssueID(val)
}

// Complete stores the created issue id, keeping the reservation's TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, actorID int64, key string, issueID int64) error {
	if err := s.client.Set(ctx, idempotencyKey(actorID, key), issueID, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release deletes the reservation so the client may retry.
func (s *IdempotencyStore) Release(ctx context.Context, actorID int64, key string) error {
	if err := s.client.Del(ctx, idempotencyKey(actorID, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func parseIssueID(val string) (int64, bool, error) {
	if val == pendingValue {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, fmt.Errorf("idempotency lookup: corrupt value %q", val)
	}
	return id, false, nil
}

func idempotencyKey(actorID int64, key string) string {
	return fmt.Sprintf("idempotency:issue:%d:%s", actorID, key)
}
