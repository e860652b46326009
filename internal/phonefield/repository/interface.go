package repository

import (
	"context"
	"time"

	"phoneinput_backend/internal/phonefield/domain"

	"github.com/google/uuid"
)

// Session is a remotely hosted phone field. Seq counts applied events and
// lets clients detect updates they have not seen.
type Session struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"userId"`
	Seq       int64             `json:"seq"`
	Value     domain.FieldValue `json:"value"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// SessionStore persists field sessions between events.
type SessionStore interface {
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, id uuid.UUID) (Session, error)
	// UpdateSession loads the session, lets fn mutate it and stores the
	// result atomically. fn may run more than once under contention.
	UpdateSession(ctx context.Context, id uuid.UUID, fn func(*Session) error) (Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

// SavedNumber is the value a field handed to its owner on commit.
type SavedNumber struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	SessionID uuid.UUID `db:"session_id"`
	Display   string    `db:"display"`
	Raw       string    `db:"raw"`
	Plan      string    `db:"plan"`
	Invalid   bool      `db:"invalid"`
	Label     *string   `db:"label"`
	// E164 is nil until normalized and "" when the number has no valid
	// canonical form.
	E164      *string   `db:"e164"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CreateParams contains parameters for saving a committed value.
type CreateParams struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Display   string
	Raw       string
	Plan      string
	Invalid   bool
	Label     *string
}

// ListParams contains paging parameters for a user's saved numbers.
type ListParams struct {
	UserID uuid.UUID
	Offset int
	Limit  int
}

// SavedNumberReader provides read operations for saved numbers.
type SavedNumberReader interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (SavedNumber, error)
	// GetForNormalization loads a saved number without owner scoping.
	GetForNormalization(ctx context.Context, id uuid.UUID) (SavedNumber, error)
	List(ctx context.Context, params ListParams) ([]SavedNumber, int, error)
	// ListPendingNormalization returns IDs of numbers created before the
	// cutoff that were never normalized, oldest first.
	ListPendingNormalization(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error)
}

// SavedNumberWriter provides write operations for saved numbers.
type SavedNumberWriter interface {
	Create(ctx context.Context, params CreateParams) (SavedNumber, error)
	SetE164(ctx context.Context, id uuid.UUID, e164 string) error
}

// Repository combines all saved number operations.
type Repository interface {
	SavedNumberReader
	SavedNumberWriter
}
