// Package redis backs the ingest idempotency guard with a shared Redis
// instance, so the at-most-one-dispatch-pass guarantee holds across
// worker processes and restarts.
package redis

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// pingTimeout bounds the connectivity probe at startup.
const pingTimeout = 5 * time.Second

type client struct {
	conn *redis.Client
}

func (c *client) Close() error {
	return c.conn.Close()
}

// NewClient connects to Redis and verifies the connection with a ping
// before returning the guard client.
func NewClient(ctx context.Context, addr, username, password string, db int) (*client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := conn.Ping(pingCtx).Err(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &client{conn: conn}, nil
}
