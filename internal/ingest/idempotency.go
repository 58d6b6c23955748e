package ingest

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrStillInProgress indicates the payload is currently claimed by
	// another worker.
	ErrStillInProgress = errors.New("payload processing still in progress")

	// ErrAlreadyFinished indicates the payload was already fully
	// dispatched.
	ErrAlreadyFinished = errors.New("payload processing already finished")
)

// IdempotencyGuard coordinates the at-most-one-dispatch-pass guarantee
// for received payloads, typically backed by durable storage such as
// Redis so the guarantee survives restarts and concurrent workers.
type IdempotencyGuard interface {
	// ClaimPayload attempts to claim exclusive rights to dispatch the
	// payload identified by its block height and hash. The claim is
	// time-bound by ttl so a crashed worker does not wedge the payload.
	//
	// Returns ErrStillInProgress if another worker holds the claim,
	// ErrAlreadyFinished if the payload was already dispatched, or any
	// other error if the guard itself fails.
	ClaimPayload(ctx context.Context, height uint64, blockHash string, ttl time.Duration) error

	// MarkPayloadProcessed records that the payload was fully dispatched,
	// making future claims return ErrAlreadyFinished.
	MarkPayloadProcessed(ctx context.Context, height uint64, blockHash string) error
}

// nopIdempotencyGuard accepts every claim. It is the default when no
// durable guard is configured: single-process deployments rely on the
// upstream webhook source not redelivering.
type nopIdempotencyGuard struct{}

var _ IdempotencyGuard = nopIdempotencyGuard{}

func (nopIdempotencyGuard) ClaimPayload(ctx context.Context, height uint64, blockHash string, ttl time.Duration) error {
	return nil
}

func (nopIdempotencyGuard) MarkPayloadProcessed(ctx context.Context, height uint64, blockHash string) error {
	return nil
}
