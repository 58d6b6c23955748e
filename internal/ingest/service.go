// Package ingest runs received webhook payloads through the dispatch
// engine: claim the payload for at-most-one processing, dispatch it to
// the registered handlers, forward the produced notifications to the
// delivery sink, and mark the payload done. Independent payloads may be
// processed concurrently on a bounded worker pool; the dispatch pass for
// any single payload stays sequential.
package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/chainhook"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/dispatch"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/pkg/logger"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/pkg/resilience/retry"

	"github.com/gammazero/workerpool"
)

const (
	defaultWorkers  = 4
	defaultClaimTTL = 5 * time.Minute
)

// Service is the per-payload processing pipeline.
type Service interface {
	// ProcessPayload runs one payload through claim, dispatch, delivery,
	// and completion marking. Guard sentinels (ErrStillInProgress,
	// ErrAlreadyFinished) pass through to the caller as expected control
	// flow. The dispatch result is returned alongside any operational
	// error from the guard or the sink.
	ProcessPayload(ctx context.Context, p *chainhook.Payload) (dispatch.Result, error)

	// Submit queues the payload for asynchronous processing on the worker
	// pool. Failures are logged; guard sentinels are not failures.
	Submit(ctx context.Context, p *chainhook.Payload)

	// Close drains the worker pool, waiting for queued payloads.
	Close()
}

type service struct {
	registry *dispatch.Registry
	sink     NotificationSink
	guard    IdempotencyGuard
	retry    retry.Retry
	pool     *workerpool.WorkerPool
	claimTTL time.Duration
}

var _ Service = (*service)(nil)

type config struct {
	guard    IdempotencyGuard
	retry    retry.Retry
	workers  int
	claimTTL time.Duration
}

// Option configures the pipeline.
type Option func(*config)

// WithIdempotencyGuard installs a durable guard in place of the default
// accept-everything guard.
func WithIdempotencyGuard(g IdempotencyGuard) Option {
	return func(c *config) {
		c.guard = g
	}
}

// WithRetry wraps sink delivery in the given retry policy.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

// WithWorkers sets the worker pool size for Submit. Default: 4.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithClaimTTL sets how long an in-progress claim blocks other workers.
// Default: 5 minutes.
func WithClaimTTL(d time.Duration) Option {
	return func(c *config) {
		c.claimTTL = d
	}
}

// New builds the pipeline around the registry and delivery sink.
func New(registry *dispatch.Registry, sink NotificationSink, opts ...Option) *service {
	cfg := config{
		guard:    nopIdempotencyGuard{},
		retry:    nil,
		workers:  defaultWorkers,
		claimTTL: defaultClaimTTL,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		registry: registry,
		sink:     sink,
		guard:    cfg.guard,
		retry:    cfg.retry,
		pool:     workerpool.New(cfg.workers),
		claimTTL: cfg.claimTTL,
	}
}

func (s *service) ProcessPayload(ctx context.Context, p *chainhook.Payload) (dispatch.Result, error) {
	var (
		height    = p.BlockIdentifier.Index
		blockHash = p.BlockIdentifier.Hash
	)

	if err := s.guard.ClaimPayload(ctx, height, blockHash, s.claimTTL); err != nil {
		return dispatch.Result{}, err
	}

	eventType := chainhook.ExtractEventType(p)
	result := s.registry.Dispatch(ctx, eventType, p)

	logger.Info(ctx, "payload dispatched",
		"event.type", eventType,
		"block.height", height,
		"handlers", len(result.Handlers),
		"notifications", len(result.Notifications),
		"elapsed", result.Elapsed,
	)

	if len(result.Notifications) > 0 {
		if err := s.deliver(ctx, result.Notifications); err != nil {
			return result, err
		}
	}

	if err := s.guard.MarkPayloadProcessed(ctx, height, blockHash); err != nil {
		logger.Error(ctx, "error marking payload as processed",
			"block.height", height,
			"block.hash", blockHash,
			"error", err,
		)
	}

	return result, nil
}

func (s *service) deliver(ctx context.Context, notifications []chainhook.Notification) error {
	operation := func() error {
		return s.sink.DeliverNotifications(ctx, notifications)
	}

	if s.retry != nil {
		return s.retry.Execute(ctx, operation)
	}
	return operation()
}

func (s *service) Submit(ctx context.Context, p *chainhook.Payload) {
	s.pool.Submit(func() {
		_, err := s.ProcessPayload(ctx, p)
		if err == nil || errors.Is(err, ErrStillInProgress) || errors.Is(err, ErrAlreadyFinished) {
			return
		}

		logger.Error(ctx, "payload processing failed",
			"block.height", p.BlockIdentifier.Index,
			"block.hash", p.BlockIdentifier.Hash,
			"error", err,
		)
	})
}

func (s *service) Close() {
	s.pool.StopWait()
}
