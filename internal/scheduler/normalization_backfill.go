package scheduler

import (
	"context"
	"time"

	"phoneinput_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultBackfillInterval = 15 * time.Minute
	defaultBackfillMinAge   = 5 * time.Minute
	defaultBackfillBatch    = 200
)

// PendingNormalizationReader lists saved numbers without an E.164 value.
type PendingNormalizationReader interface {
	ListPendingNormalization(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error)
}

// NormalizationEnqueuer queues a normalization task.
type NormalizationEnqueuer interface {
	EnqueueNormalization(ctx context.Context, savedNumberID uuid.UUID) error
}

// NormalizationBackfill periodically requeues saved numbers whose
// normalization task was lost, e.g. because the API restarted between the
// commit and the enqueue.
type NormalizationBackfill struct {
	reader   PendingNormalizationReader
	enqueuer NormalizationEnqueuer
	log      *logger.Logger
	interval time.Duration
	minAge   time.Duration
	batch    int
	now      func() time.Time
}

func NewNormalizationBackfill(reader PendingNormalizationReader, enqueuer NormalizationEnqueuer, log *logger.Logger, interval, minAge time.Duration) *NormalizationBackfill {
	if interval <= 0 {
		interval = defaultBackfillInterval
	}
	if minAge <= 0 {
		minAge = defaultBackfillMinAge
	}

	return &NormalizationBackfill{
		reader:   reader,
		enqueuer: enqueuer,
		log:      log,
		interval: interval,
		minAge:   minAge,
		batch:    defaultBackfillBatch,
		now:      time.Now,
	}
}

func (b *NormalizationBackfill) Run(ctx context.Context) {
	if b == nil || b.reader == nil || b.enqueuer == nil {
		return
	}

	b.sweep(ctx)

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.sweep(ctx)
		}
	}
}

// sweep requeues one batch and reports how many tasks were queued.
func (b *NormalizationBackfill) sweep(ctx context.Context) int {
	ids, err := b.reader.ListPendingNormalization(ctx, b.now().Add(-b.minAge), b.batch)
	if err != nil {
		b.log.Warn("normalization backfill failed", "error", err)
		return 0
	}

	queued := 0
	for _, id := range ids {
		if err := b.enqueuer.EnqueueNormalization(ctx, id); err != nil {
			b.log.Warn("normalization backfill enqueue failed", "savedNumberId", id, "error", err)
			continue
		}
		queued++
	}

	if queued > 0 {
		b.log.Info("normalization backfill queued saved numbers", "queued", queued)
	}
	return queued
}
