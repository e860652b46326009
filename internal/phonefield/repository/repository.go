package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"phoneinput_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const savedNumberNotFoundMsg = "saved phone number not found"

const savedNumberColumns = `id, user_id, session_id, display, raw, plan, invalid, label, e164, created_at, updated_at`

// Repo provides database operations for saved phone numbers.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new saved number repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Create inserts a committed value.
func (r *Repo) Create(ctx context.Context, params CreateParams) (SavedNumber, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO saved_phone_numbers (
			id, user_id, session_id, display, raw, plan, invalid, label, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING ` + savedNumberColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), params.UserID, params.SessionID, params.Display, params.Raw,
		params.Plan, params.Invalid, params.Label, now,
	)
	saved, err := scanSavedNumber(row)
	if err != nil {
		return SavedNumber{}, fmt.Errorf("failed to insert saved phone number: %w", err)
	}
	return saved, nil
}

// GetByID retrieves a saved number scoped to its owner.
func (r *Repo) GetByID(ctx context.Context, userID, id uuid.UUID) (SavedNumber, error) {
	query := `SELECT ` + savedNumberColumns + ` FROM saved_phone_numbers WHERE id = $1 AND user_id = $2`
	saved, err := scanSavedNumber(r.pool.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return SavedNumber{}, apperr.NotFound(savedNumberNotFoundMsg)
	}
	if err != nil {
		return SavedNumber{}, fmt.Errorf("failed to get saved phone number: %w", err)
	}
	return saved, nil
}

// GetForNormalization retrieves a saved number by ID only.
func (r *Repo) GetForNormalization(ctx context.Context, id uuid.UUID) (SavedNumber, error) {
	query := `SELECT ` + savedNumberColumns + ` FROM saved_phone_numbers WHERE id = $1`
	saved, err := scanSavedNumber(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return SavedNumber{}, apperr.NotFound(savedNumberNotFoundMsg)
	}
	if err != nil {
		return SavedNumber{}, fmt.Errorf("failed to get saved phone number: %w", err)
	}
	return saved, nil
}

// List returns one page of a user's saved numbers, newest first, and the
// total count.
func (r *Repo) List(ctx context.Context, params ListParams) ([]SavedNumber, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM saved_phone_numbers WHERE user_id = $1`, params.UserID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count saved phone numbers: %w", err)
	}

	query := `
		SELECT ` + savedNumberColumns + `
		FROM saved_phone_numbers
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, params.UserID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list saved phone numbers: %w", err)
	}
	defer rows.Close()

	items := make([]SavedNumber, 0, params.Limit)
	for rows.Next() {
		saved, err := scanSavedNumber(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan saved phone number: %w", err)
		}
		items = append(items, saved)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate saved phone numbers: %w", err)
	}

	return items, total, nil
}

// ListPendingNormalization returns numbers still waiting for an E.164 value.
func (r *Repo) ListPendingNormalization(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM saved_phone_numbers
		WHERE e164 IS NULL AND created_at < $1
		ORDER BY created_at
		LIMIT $2`, createdBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending normalizations: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0, limit)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan pending normalization: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetE164 stores the canonical form computed by the normalization task.
func (r *Repo) SetE164(ctx context.Context, id uuid.UUID, e164 string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE saved_phone_numbers SET e164 = $2, updated_at = $3 WHERE id = $1`,
		id, e164, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to set e164: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(savedNumberNotFoundMsg)
	}
	return nil
}

func scanSavedNumber(row pgx.Row) (SavedNumber, error) {
	var s SavedNumber
	err := row.Scan(
		&s.ID, &s.UserID, &s.SessionID, &s.Display, &s.Raw, &s.Plan,
		&s.Invalid, &s.Label, &s.E164, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}
