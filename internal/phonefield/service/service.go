package service

import (
	"context"
	"time"

	"phoneinput_backend/internal/events"
	"phoneinput_backend/internal/phonefield/repository"
	"phoneinput_backend/internal/phonefield/transport"
	"phoneinput_backend/platform/logger"
	"phoneinput_backend/platform/metrics"
	"phoneinput_backend/platform/phone"

	"github.com/google/uuid"
)

// NormalizationScheduler queues the background E.164 normalization of a
// saved number. Implemented by the scheduler client.
type NormalizationScheduler interface {
	EnqueueNormalization(ctx context.Context, savedNumberID uuid.UUID) error
}

// Service provides the phone field operations: stateless formatting, hosted
// field sessions and saved numbers.
type Service struct {
	repo       repository.Repository
	sessions   repository.SessionStore
	registry   *phone.Registry
	sessionTTL time.Duration
	log        *logger.Logger
	metrics    *metrics.Metrics
	eventBus   events.Bus
	scheduler  NormalizationScheduler // optional
	now        func() time.Time
}

// New creates a new phone field service. A nil registry selects the
// embedded plan table.
func New(repo repository.Repository, sessions repository.SessionStore, registry *phone.Registry, sessionTTL time.Duration, log *logger.Logger) *Service {
	if registry == nil {
		registry = phone.Default()
	}
	return &Service{
		repo:       repo,
		sessions:   sessions,
		registry:   registry,
		sessionTTL: sessionTTL,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SetEventBus injects the event bus used to announce commits.
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// SetMetrics injects the Prometheus collectors.
func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// SetNormalizationScheduler injects the task queue for E.164 normalization.
func (s *Service) SetNormalizationScheduler(scheduler NormalizationScheduler) {
	s.scheduler = scheduler
}

// Registry returns the plan registry the service formats with.
func (s *Service) Registry() *phone.Registry {
	return s.registry
}

// Format evaluates one free-form input.
func (s *Service) Format(req transport.FormatRequest) transport.FormatResponse {
	result := s.registry.Evaluate(req.Value)
	s.metrics.Format(result.Detection.Kind.String())
	return toFormatResponse(result)
}

// FormatBatch evaluates every value, keeping input order.
func (s *Service) FormatBatch(req transport.FormatBatchRequest) transport.FormatBatchResponse {
	items := make([]transport.FormatResponse, len(req.Values))
	for i, value := range req.Values {
		items[i] = s.Format(transport.FormatRequest{Value: value})
	}
	return transport.FormatBatchResponse{Items: items}
}

// ListPlans describes the registry.
func (s *Service) ListPlans() transport.PlanListResponse {
	plans := s.registry.Plans()
	international := make([]transport.PlanResponse, 0, len(plans))
	for _, plan := range plans {
		international = append(international, toPlanResponse(plan))
	}
	return transport.PlanListResponse{
		Domestic:      toPlanResponse(s.registry.Domestic()),
		International: international,
	}
}

func toFormatResponse(result phone.Result) transport.FormatResponse {
	return transport.FormatResponse{
		Raw:       result.Raw.String(),
		Display:   result.Display,
		Invalid:   result.Invalid,
		Plan:      result.Detection.PlanLabel(),
		Detection: result.Detection.Kind.String(),
	}
}

func toPlanResponse(plan phone.NumberingPlan) transport.PlanResponse {
	return transport.PlanResponse{
		Name:        plan.Name,
		Label:       plan.Label(),
		Region:      plan.Region,
		Code:        plan.Code,
		TrunkPrefix: plan.TrunkPrefix,
		Separator:   plan.Separator,
		IncludeCode: plan.IncludeCode,
		Groups:      plan.Groups,
	}
}
