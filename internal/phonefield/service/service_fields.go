package service

import (
	"context"
	"fmt"

	"phoneinput_backend/internal/events"
	"phoneinput_backend/internal/phonefield/domain"
	"phoneinput_backend/internal/phonefield/repository"
	"phoneinput_backend/internal/phonefield/transport"
	"phoneinput_backend/platform/apperr"
	"phoneinput_backend/platform/phone"
	"phoneinput_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgFieldNotFound = "field session not found"
	msgStaleSeq      = "field session has changed, reload it"
	msgTooLong       = "phone number is too long"
	maxLabelRunes    = 120
	// maxRawLength bounds the stored digit stream across all events.
	maxRawLength = 256

	eventKeystroke = "keystroke"
	eventChange    = "change"
	eventEdit      = "edit"
	eventCommit    = "commit"
	eventSync      = "sync"
)

// CreateField mounts a field session seeded from the initial number.
func (s *Service) CreateField(ctx context.Context, userID uuid.UUID, req transport.CreateFieldRequest) (*transport.FieldResponse, error) {
	field := domain.NewField(req.InitialPhoneNumber, domain.WithRegistry(s.registry))
	if len(field.Value().Raw) > maxRawLength {
		return nil, apperr.Validation(msgTooLong)
	}
	now := s.now()
	session := repository.Session{
		ID:        uuid.New(),
		UserID:    userID,
		Value:     field.Value(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	resp := s.toFieldResponse(session)
	return &resp, nil
}

// GetField returns the current state of a session.
func (s *Service) GetField(ctx context.Context, userID, id uuid.UUID) (*transport.FieldResponse, error) {
	session, err := s.ownedSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := s.toFieldResponse(session)
	return &resp, nil
}

// DeleteField unmounts a session.
func (s *Service) DeleteField(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedSession(ctx, userID, id); err != nil {
		return err
	}
	return s.sessions.DeleteSession(ctx, id)
}

// Keystroke appends typed text to the display.
func (s *Service) Keystroke(ctx context.Context, userID, id uuid.UUID, req transport.KeystrokeRequest) (*transport.FieldResponse, error) {
	session, err := s.apply(ctx, userID, id, req.Seq, eventKeystroke, func(f *domain.Field) {
		f.Type(req.Text)
	})
	if err != nil {
		return nil, err
	}
	resp := s.toFieldResponse(session)
	return &resp, nil
}

// Change replaces the field content with the host's full input content.
func (s *Service) Change(ctx context.Context, userID, id uuid.UUID, req transport.ChangeRequest) (*transport.FieldResponse, error) {
	session, err := s.apply(ctx, userID, id, req.Seq, eventChange, func(f *domain.Field) {
		f.Change(req.Value)
	})
	if err != nil {
		return nil, err
	}
	resp := s.toFieldResponse(session)
	return &resp, nil
}

// Edit applies a ranged edit to the display.
func (s *Service) Edit(ctx context.Context, userID, id uuid.UUID, req transport.EditRequest) (*transport.FieldResponse, error) {
	session, err := s.apply(ctx, userID, id, req.Seq, eventEdit, func(f *domain.Field) {
		f.Edit(domain.Edit{Start: req.Start, End: req.End, Text: req.Text})
	})
	if err != nil {
		return nil, err
	}
	resp := s.toFieldResponse(session)
	return &resp, nil
}

// Sync pushes an owner-controlled value into the field.
func (s *Service) Sync(ctx context.Context, userID, id uuid.UUID, req transport.SyncRequest) (*transport.SyncResponse, error) {
	var changed bool
	session, err := s.apply(ctx, userID, id, req.Seq, eventSync, func(f *domain.Field) {
		_, changed = f.Sync(req.Value)
	})
	if err != nil {
		return nil, err
	}
	return &transport.SyncResponse{Field: s.toFieldResponse(session), Changed: changed}, nil
}

// Commit handles focus loss. The formatted display is saved for the owner
// unless the field is empty.
func (s *Service) Commit(ctx context.Context, userID, id uuid.UUID, req transport.CommitRequest) (*transport.CommitResponse, error) {
	var (
		saved    string
		previous domain.FieldValue
	)
	session, err := s.apply(ctx, userID, id, req.Seq, eventCommit, func(f *domain.Field) {
		previous = f.Value()
		saved = f.Commit().Display
	})
	if err != nil {
		return nil, err
	}

	resp := &transport.CommitResponse{Field: s.toFieldResponse(session)}
	if session.Value.Raw.IsEmpty() {
		return resp, nil
	}

	detection := s.registry.Detect(session.Value.Raw)
	plan := detection.PlanLabel()
	invalid := phone.IsInvalid(session.Value.Raw)

	number, err := s.repo.Create(ctx, repository.CreateParams{
		UserID:    userID,
		SessionID: id,
		Display:   saved,
		Raw:       session.Value.Raw.String(),
		Plan:      plan,
		Invalid:   invalid,
		Label:     sanitize.LabelPtr(req.Label, maxLabelRunes),
	})
	if err != nil {
		s.log.DatabaseError("save_phone_number", err)
		s.revertCommit(ctx, session, previous)
		return nil, fmt.Errorf("save committed number: %w", err)
	}

	s.metrics.Commit(plan, invalid)
	s.log.WithUserID(userID.String()).FieldCommitted(id.String(), phone.Mask(saved), plan, invalid)

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.PhoneNumberCommitted{
			BaseEvent:     events.NewBaseEvent(),
			SavedNumberID: number.ID,
			SessionID:     id,
			UserID:        userID,
			Plan:          plan,
			Invalid:       invalid,
		})
	}

	savedResp := toSavedNumberResponse(number)
	resp.SavedNumber = &savedResp
	return resp, nil
}

// apply runs one event against the stored field. seq must equal the stored
// sequence; the event increments it.
func (s *Service) apply(ctx context.Context, userID, id uuid.UUID, seq *int64, event string, fn func(*domain.Field)) (repository.Session, error) {
	session, err := s.sessions.UpdateSession(ctx, id, func(session *repository.Session) error {
		if session.UserID != userID {
			return apperr.NotFound(msgFieldNotFound)
		}
		if seq == nil || *seq != session.Seq {
			return apperr.Conflict(msgStaleSeq).WithDetails(map[string]int64{"seq": session.Seq})
		}

		field := domain.Restore(session.Value, domain.WithRegistry(s.registry))
		fn(field)
		if len(field.Value().Raw) > maxRawLength {
			return apperr.Validation(msgTooLong)
		}

		session.Value = field.Value()
		session.Seq++
		session.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			s.metrics.Conflict()
		}
		return repository.Session{}, err
	}

	s.metrics.FieldEvent(event)
	return session, nil
}

// revertCommit puts a session back to its pre-commit value and sequence when
// the committed number could not be saved, so the client can retry with the
// seq it already holds. Sessions that moved on since the commit are left alone.
func (s *Service) revertCommit(ctx context.Context, committed repository.Session, previous domain.FieldValue) {
	_, err := s.sessions.UpdateSession(ctx, committed.ID, func(current *repository.Session) error {
		if current.Seq != committed.Seq {
			return apperr.Conflict(msgStaleSeq)
		}
		current.Value = previous
		current.Seq = committed.Seq - 1
		current.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		s.log.Error("failed to revert field commit", "session_id", committed.ID, "error", err)
	}
}

func (s *Service) ownedSession(ctx context.Context, userID, id uuid.UUID) (repository.Session, error) {
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return repository.Session{}, err
	}
	if session.UserID != userID {
		return repository.Session{}, apperr.NotFound(msgFieldNotFound)
	}
	return session, nil
}

func (s *Service) toFieldResponse(session repository.Session) transport.FieldResponse {
	snap := domain.Restore(session.Value, domain.WithRegistry(s.registry)).Snapshot()
	detection := s.registry.Detect(snap.Raw)
	return transport.FieldResponse{
		ID:        session.ID,
		Seq:       session.Seq,
		Raw:       snap.Raw.String(),
		Display:   snap.Display,
		Invalid:   snap.Invalid,
		State:     snap.State.String(),
		Plan:      detection.PlanLabel(),
		Detection: detection.Kind.String(),
		ExpiresAt: session.UpdatedAt.Add(s.sessionTTL),
	}
}
