package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"phoneinput_backend/internal/events"
	"phoneinput_backend/internal/phonefield/repository"
	"phoneinput_backend/internal/phonefield/service"
	"phoneinput_backend/internal/scheduler"
	"phoneinput_backend/platform/config"
	"phoneinput_backend/platform/db"
	"phoneinput_backend/platform/logger"
	"phoneinput_backend/platform/metrics"
	"phoneinput_backend/platform/phone"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	registry, err := phone.LoadRegistryFile(cfg.GetPhonePlansFile())
	if err != nil {
		log.Error("failed to load numbering plans", "error", err)
		panic("failed to load numbering plans: " + err.Error())
	}

	eventBus := events.NewInMemoryBus(log)
	eventBus.Subscribe(events.PhoneNumberNormalized{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		if normalized, ok := event.(events.PhoneNumberNormalized); ok {
			log.Info("saved number normalized", "savedNumberId", normalized.SavedNumberID, "event_id", normalized.EventID())
		}
		return nil
	}))

	// Worker-side normalization wiring (no sessions or HTTP handlers required).
	repo := repository.New(pool)
	svc := service.New(repo, nil, registry, cfg.GetPhoneFieldSessionTTL(), log)
	svc.SetEventBus(eventBus)
	if cfg.IsMetricsEnabled() {
		svc.SetMetrics(metrics.New(cfg.GetMetricsNamespace(), prometheus.NewRegistry()))
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	backfill := scheduler.NewNormalizationBackfill(
		repo,
		client,
		log,
		getDurationEnv("PHONE_NORMALIZATION_BACKFILL_INTERVAL", 15*time.Minute),
		getDurationEnv("PHONE_NORMALIZATION_BACKFILL_MIN_AGE", 5*time.Minute),
	)

	worker, err := scheduler.NewWorker(cfg, svc, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		backfill.Run(gctx)
		return nil
	})
	g.Go(func() error {
		worker.Run(gctx)
		return nil
	})
	_ = g.Wait()
	eventBus.Wait()
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}

	return parsed
}
