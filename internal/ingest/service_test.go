package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/chainhook"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/dispatch"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Initialize logger for tests to prevent nil pointer dereference
	_ = logger.Init("error")
}

// fakeGuard records claim/mark calls and returns configured errors.
type fakeGuard struct {
	mu         sync.Mutex
	claimErr   error
	markErr    error
	claims     int
	marks      int
	lastHeight uint64
	lastHash   string
}

func (g *fakeGuard) ClaimPayload(ctx context.Context, height uint64, blockHash string, ttl time.Duration) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.claims++
	g.lastHeight = height
	g.lastHash = blockHash
	return g.claimErr
}

func (g *fakeGuard) MarkPayloadProcessed(ctx context.Context, height uint64, blockHash string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.marks++
	return g.markErr
}

// fakeSink records delivered batches and returns a configured error.
type fakeSink struct {
	mu        sync.Mutex
	err       error
	delivered [][]chainhook.Notification
}

func (s *fakeSink) DeliverNotifications(ctx context.Context, notifications []chainhook.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delivered = append(s.delivered, notifications)
	return s.err
}

func mintPayload() *chainhook.Payload {
	return &chainhook.Payload{
		BlockIdentifier: chainhook.BlockIdentifier{Index: 1042, Hash: "0xblock"},
		Transactions: []chainhook.Transaction{{
			TransactionHash: "0xabc",
			Operations: []chainhook.Operation{{
				ContractCall: &chainhook.ContractCall{
					Contract: "SP1.passport",
					Method:   "mint-badge",
					Args:     []any{"SP2J6ZY4", "42", "Pro Coder", "10 PRs"},
				},
			}},
		}},
	}
}

func mintRegistry() *dispatch.Registry {
	registry := dispatch.NewRegistry()
	registry.RegisterHandler(chainhook.EventTypeBadgeMint, dispatch.HandlerFunc{
		Type: chainhook.EventTypeBadgeMint,
		Fn: func(ctx context.Context, p *chainhook.Payload) ([]chainhook.Notification, error) {
			return []chainhook.Notification{{ID: "n1", UserID: "SP2J6ZY4"}}, nil
		},
	})
	return registry
}

func TestServiceProcessPayload(t *testing.T) {
	t.Run("claims, dispatches, delivers, and marks complete", func(t *testing.T) {
		guard := &fakeGuard{}
		sink := &fakeSink{}
		svc := New(mintRegistry(), sink, WithIdempotencyGuard(guard))
		defer svc.Close()

		result, err := svc.ProcessPayload(t.Context(), mintPayload())

		require.NoError(t, err)
		assert.True(t, result.Success)
		require.Len(t, sink.delivered, 1)
		assert.Equal(t, "n1", sink.delivered[0][0].ID)
		assert.Equal(t, 1, guard.claims)
		assert.Equal(t, uint64(1042), guard.lastHeight)
		assert.Equal(t, "0xblock", guard.lastHash)
		assert.Equal(t, 1, guard.marks)
	})

	t.Run("guard sentinels pass through and skip dispatch", func(t *testing.T) {
		for _, sentinel := range []error{ErrStillInProgress, ErrAlreadyFinished} {
			guard := &fakeGuard{claimErr: sentinel}
			sink := &fakeSink{}
			svc := New(mintRegistry(), sink, WithIdempotencyGuard(guard))

			_, err := svc.ProcessPayload(t.Context(), mintPayload())

			require.ErrorIs(t, err, sentinel)
			assert.Empty(t, sink.delivered)
			assert.Zero(t, guard.marks)
			svc.Close()
		}
	})

	t.Run("no registered handlers delivers nothing and still marks", func(t *testing.T) {
		guard := &fakeGuard{}
		sink := &fakeSink{}
		svc := New(dispatch.NewRegistry(), sink, WithIdempotencyGuard(guard))
		defer svc.Close()

		result, err := svc.ProcessPayload(t.Context(), mintPayload())

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Empty(t, sink.delivered)
		assert.Equal(t, 1, guard.marks)
	})

	t.Run("sink failure is returned and payload stays unmarked", func(t *testing.T) {
		guard := &fakeGuard{}
		sink := &fakeSink{err: errors.New("delivery down")}
		svc := New(mintRegistry(), sink, WithIdempotencyGuard(guard))
		defer svc.Close()

		result, err := svc.ProcessPayload(t.Context(), mintPayload())

		require.EqualError(t, err, "delivery down")
		assert.True(t, result.Success)
		assert.Zero(t, guard.marks)
	})

	t.Run("mark failure is logged but processing succeeds", func(t *testing.T) {
		guard := &fakeGuard{markErr: errors.New("redis down")}
		sink := &fakeSink{}
		svc := New(mintRegistry(), sink, WithIdempotencyGuard(guard))
		defer svc.Close()

		_, err := svc.ProcessPayload(t.Context(), mintPayload())

		require.NoError(t, err)
		assert.Equal(t, 1, guard.marks)
	})

	t.Run("default guard accepts everything", func(t *testing.T) {
		sink := &fakeSink{}
		svc := New(mintRegistry(), sink)
		defer svc.Close()

		_, err := svc.ProcessPayload(t.Context(), mintPayload())
		require.NoError(t, err)

		_, err = svc.ProcessPayload(t.Context(), mintPayload())
		require.NoError(t, err)

		assert.Len(t, sink.delivered, 2)
	})
}

func TestServiceSubmit(t *testing.T) {
	t.Run("queued payloads are processed before Close returns", func(t *testing.T) {
		guard := &fakeGuard{}
		sink := &fakeSink{}
		svc := New(mintRegistry(), sink, WithIdempotencyGuard(guard), WithWorkers(2))

		for range 5 {
			svc.Submit(t.Context(), mintPayload())
		}
		svc.Close()

		assert.Equal(t, 5, guard.claims)
		assert.Len(t, sink.delivered, 5)
	})

	t.Run("sentinel claim outcomes are not treated as failures", func(t *testing.T) {
		guard := &fakeGuard{claimErr: ErrAlreadyFinished}
		sink := &fakeSink{}
		svc := New(mintRegistry(), sink, WithIdempotencyGuard(guard))

		svc.Submit(t.Context(), mintPayload())
		svc.Close()

		assert.Empty(t, sink.delivered)
	})
}
