package scheduler

import (
	"context"
	"fmt"

	"phoneinput_backend/platform/apperr"
	"phoneinput_backend/platform/config"
	"phoneinput_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Normalizer stores the canonical form of a saved number.
type Normalizer interface {
	NormalizeSavedNumber(ctx context.Context, savedNumberID uuid.UUID) (string, error)
}

type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	normalizer Normalizer
	log        *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, normalizer Normalizer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:     server,
		mux:        mux,
		normalizer: normalizer,
		log:        log,
	}

	mux.HandleFunc(TaskNormalizePhoneNumber, w.handleNormalizePhoneNumber)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleNormalizePhoneNumber(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseNormalizePhoneNumberPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	savedNumberID, err := uuid.Parse(payload.SavedNumberID)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	e164, err := w.normalizer.NormalizeSavedNumber(ctx, savedNumberID)
	if apperr.Is(err, apperr.KindNotFound) {
		w.log.Warn("saved number disappeared before normalization", "savedNumberId", savedNumberID)
		return nil
	}
	if err != nil {
		return err
	}

	if e164 == "" {
		w.log.Info("saved number has no canonical form", "savedNumberId", savedNumberID)
	}
	return nil
}
