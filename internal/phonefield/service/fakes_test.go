package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"phoneinput_backend/internal/events"
	"phoneinput_backend/internal/phonefield/repository"
	"phoneinput_backend/platform/apperr"
	"phoneinput_backend/platform/logger"
	"phoneinput_backend/platform/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

type memRepo struct {
	mu    sync.Mutex
	items []repository.SavedNumber
	fail  error
}

func (r *memRepo) Create(_ context.Context, params repository.CreateParams) (repository.SavedNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return repository.SavedNumber{}, r.fail
	}
	now := time.Now().UTC()
	saved := repository.SavedNumber{
		ID:        uuid.New(),
		UserID:    params.UserID,
		SessionID: params.SessionID,
		Display:   params.Display,
		Raw:       params.Raw,
		Plan:      params.Plan,
		Invalid:   params.Invalid,
		Label:     params.Label,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.items = append(r.items, saved)
	return saved, nil
}

func (r *memRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (repository.SavedNumber, error) {
	saved, err := r.GetForNormalization(ctx, id)
	if err != nil || saved.UserID != userID {
		return repository.SavedNumber{}, apperr.NotFound("saved phone number not found")
	}
	return saved, nil
}

func (r *memRepo) GetForNormalization(_ context.Context, id uuid.UUID) (repository.SavedNumber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return repository.SavedNumber{}, apperr.NotFound("saved phone number not found")
}

func (r *memRepo) List(_ context.Context, params repository.ListParams) ([]repository.SavedNumber, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var owned []repository.SavedNumber
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].UserID == params.UserID {
			owned = append(owned, r.items[i])
		}
	}
	total := len(owned)
	if params.Offset >= total {
		return nil, total, nil
	}
	end := params.Offset + params.Limit
	if end > total {
		end = total
	}
	return owned[params.Offset:end], total, nil
}

func (r *memRepo) ListPendingNormalization(_ context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for _, item := range r.items {
		if item.E164 == nil && item.CreatedAt.Before(createdBefore) && len(ids) < limit {
			ids = append(ids, item.ID)
		}
	}
	return ids, nil
}

func (r *memRepo) SetE164(_ context.Context, id uuid.UUID, e164 string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			value := e164
			r.items[i].E164 = &value
			return nil
		}
	}
	return apperr.NotFound("saved phone number not found")
}

type recordingScheduler struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (s *recordingScheduler) EnqueueNormalization(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, id)
	return nil
}

type harness struct {
	svc     *Service
	repo    *memRepo
	bus     *events.InMemoryBus
	metrics *metrics.Metrics
	redis   *miniredis.Miniredis
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logger.NewWithWriter("test", io.Discard)
	repo := &memRepo{}
	bus := events.NewInMemoryBus(log)
	m := metrics.New("test", prometheus.NewRegistry())

	svc := New(repo, repository.NewRedisSessionStore(client, 30*time.Minute), nil, 30*time.Minute, log)
	svc.SetEventBus(bus)
	svc.SetMetrics(m)

	return &harness{svc: svc, repo: repo, bus: bus, metrics: m, redis: mr}
}

func seq(v int64) *int64 {
	return &v
}
