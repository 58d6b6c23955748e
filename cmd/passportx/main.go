package main

import (
	"context"
	"fmt"
	"os"

	"github.com/DeborahOlaboye/PassportX-sub002/internal/badgewatch"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/chainhook"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/config"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/dispatch"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/handlers/cli"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/infra/delivery/httpsink"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/infra/storage/redis"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/ingest"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/pkg/logger"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/pkg/resilience/retry"
	"github.com/DeborahOlaboye/PassportX-sub002/internal/pkg/telemetry"
)

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, cfg.ServiceName)
		if err != nil {
			return err
		}
		defer func() { _ = shutdown(ctx) }()
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	sink := httpsink.New(cfg.DeliveryEndpoint)

	registry := dispatch.NewRegistry()
	dispatch.NewBuilder(registry).
		OnBadgeMint(badgewatch.NewBadgeMintHandler()).
		OnBadgeRevoke(badgewatch.NewBadgeRevokeHandler()).
		OnCommunityCreation(badgewatch.NewCommunityCreateHandler()).
		OnError(func(ctx context.Context, err error, p *chainhook.Payload) {
			logger.Error(ctx, "handler failure observed",
				"block.height", p.BlockIdentifier.Index,
				"error", err,
			)
		}).
		Action("notify", func(ctx context.Context, event chainhook.DomainEvent) error {
			notification := badgewatch.NewBadgeMintNotification(event)
			return sink.DeliverNotifications(ctx, []chainhook.Notification{notification})
		})

	opts := []ingest.Option{
		ingest.WithWorkers(cfg.Workers),
		ingest.WithClaimTTL(cfg.ClaimTTL),
		ingest.WithRetry(retry.New()),
	}

	if cfg.Redis.Addr != "" {
		guard, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer func() { _ = guard.Close() }()

		opts = append(opts, ingest.WithIdempotencyGuard(guard))
	}

	svc := ingest.New(registry, sink, opts...)
	defer svc.Close()

	return cli.Run(ctx, svc, registry)
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
