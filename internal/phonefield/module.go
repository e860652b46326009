// Package phonefield provides the phone field domain module: stateless
// formatting, hosted field sessions and the numbers they save.
package phonefield

import (
	"context"
	"fmt"

	"phoneinput_backend/internal/events"
	apphttp "phoneinput_backend/internal/http"
	"phoneinput_backend/internal/phonefield/handler"
	"phoneinput_backend/internal/phonefield/repository"
	"phoneinput_backend/internal/phonefield/service"
	"phoneinput_backend/platform/config"
	"phoneinput_backend/platform/logger"
	"phoneinput_backend/platform/metrics"
	"phoneinput_backend/platform/phone"
	"phoneinput_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module represents the phone field domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
	log     *logger.Logger
}

// NewModule creates a new phone field module with all dependencies wired
func NewModule(
	pool *pgxpool.Pool,
	rdb *redis.Client,
	cfg config.PhoneFieldConfig,
	registry *phone.Registry,
	eventBus events.Bus,
	m *metrics.Metrics,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	sessions := repository.NewRedisSessionStore(rdb, cfg.GetPhoneFieldSessionTTL())
	svc := service.New(repo, sessions, registry, cfg.GetPhoneFieldSessionTTL(), log)
	svc.SetEventBus(eventBus)
	svc.SetMetrics(m)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		log:     log,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "phonefield"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(ctx.Public.Group("/phone"))
	m.handler.RegisterRoutes(ctx.Protected.Group("/phone"))
}

// RegisterHandlers subscribes the module to the events it reacts to.
// Committed numbers are queued for E.164 normalization.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.PhoneNumberCommitted{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		committed, ok := event.(events.PhoneNumberCommitted)
		if !ok {
			return fmt.Errorf("unexpected event type %T", event)
		}
		if err := m.service.ScheduleNormalization(ctx, committed.SavedNumberID); err != nil {
			return fmt.Errorf("schedule normalization for %s: %w", committed.SavedNumberID, err)
		}
		return nil
	}))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
