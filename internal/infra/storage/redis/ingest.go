package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/ingest"

	"github.com/redis/go-redis/v9"
)

const (
	// ingestKeyPrefix namespaces the idempotency entries for payload
	// processing.
	ingestKeyPrefix = "passportx"

	// ingestIdempotencyDone is the terminal value marking a payload as
	// fully dispatched.
	ingestIdempotencyDone = "done"
)

func ingestIdempotencyKey(height uint64, blockHash string) string {
	return fmt.Sprintf("%s:idempotency:%d:%s", ingestKeyPrefix, height, blockHash)
}

// ClaimPayload claims exclusive rights to dispatch a payload. A key
// already marked "done" yields ErrAlreadyFinished; an existing live claim
// yields ErrStillInProgress; otherwise an empty value is written with the
// given TTL to reserve the claim.
func (c *client) ClaimPayload(ctx context.Context, height uint64, blockHash string, ttl time.Duration) error {
	key := ingestIdempotencyKey(height, blockHash)

	val, err := c.conn.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	if val == ingestIdempotencyDone {
		return ingest.ErrAlreadyFinished
	}

	ok, err := c.conn.SetNX(ctx, key, "", ttl).Result()
	if err != nil {
		return err
	}

	if !ok {
		return ingest.ErrStillInProgress
	}

	return nil
}

// MarkPayloadProcessed sets the terminal "done" marker with no
// expiration, so the payload is never dispatched again.
func (c *client) MarkPayloadProcessed(ctx context.Context, height uint64, blockHash string) error {
	key := ingestIdempotencyKey(height, blockHash)
	return c.conn.Set(ctx, key, ingestIdempotencyDone, 0).Err()
}

var _ ingest.IdempotencyGuard = new(client)
