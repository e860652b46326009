package service

import (
	"context"

	"phoneinput_backend/internal/events"
	"phoneinput_backend/internal/phonefield/repository"
	"phoneinput_backend/internal/phonefield/transport"
	"phoneinput_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20

	normalizationStored  = "stored"
	normalizationSkipped = "skipped"
	normalizationInvalid = "invalid"
)

// ListSaved returns one page of the caller's saved numbers.
func (s *Service) ListSaved(ctx context.Context, userID uuid.UUID, req transport.ListSavedRequest) (*transport.SavedNumberListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	items, total, err := s.repo.List(ctx, repository.ListParams{
		UserID: userID,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]transport.SavedNumberResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toSavedNumberResponse(item))
	}

	return &transport.SavedNumberListResponse{
		Items:      resp,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// GetSaved returns one of the caller's saved numbers.
func (s *Service) GetSaved(ctx context.Context, userID, id uuid.UUID) (*transport.SavedNumberResponse, error) {
	number, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := toSavedNumberResponse(number)
	return &resp, nil
}

// ScheduleNormalization queues the E.164 normalization of a saved number.
// Without a scheduler it is a no-op.
func (s *Service) ScheduleNormalization(ctx context.Context, savedNumberID uuid.UUID) error {
	if s.scheduler == nil {
		return nil
	}
	return s.scheduler.EnqueueNormalization(ctx, savedNumberID)
}

// NormalizeSavedNumber stores the E.164 form of a saved number. Numbers
// that were already processed are left alone. Numbers that are not valid
// for their plan's region are marked with an empty value so they are not
// picked up again. It returns the stored canonical value, or "".
func (s *Service) NormalizeSavedNumber(ctx context.Context, savedNumberID uuid.UUID) (string, error) {
	number, err := s.repo.GetForNormalization(ctx, savedNumberID)
	if err != nil {
		return "", err
	}
	if number.E164 != nil {
		s.metrics.Normalization(normalizationSkipped)
		return "", nil
	}

	e164, ok := s.registry.E164(phone.Sanitize(number.Raw))
	if !ok {
		if err := s.repo.SetE164(ctx, savedNumberID, ""); err != nil {
			return "", err
		}
		s.metrics.Normalization(normalizationInvalid)
		return "", nil
	}

	if err := s.repo.SetE164(ctx, savedNumberID, e164); err != nil {
		return "", err
	}
	s.metrics.Normalization(normalizationStored)

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.PhoneNumberNormalized{
			BaseEvent:     events.NewBaseEvent(),
			SavedNumberID: savedNumberID,
			E164:          e164,
		})
	}
	return e164, nil
}

func toSavedNumberResponse(n repository.SavedNumber) transport.SavedNumberResponse {
	e164 := n.E164
	if e164 != nil && *e164 == "" {
		e164 = nil
	}
	return transport.SavedNumberResponse{
		ID:        n.ID,
		SessionID: n.SessionID,
		Display:   n.Display,
		Raw:       n.Raw,
		Plan:      n.Plan,
		Invalid:   n.Invalid,
		Label:     n.Label,
		E164:      e164,
		CreatedAt: n.CreatedAt,
	}
}
