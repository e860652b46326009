package transport

import (
	"time"

	"github.com/google/uuid"
)

// MaxBatchSize bounds POST /phone/format/batch.
const MaxBatchSize = 100

// ── Requests ──────────────────────────────────────────────────────────────────

// FormatRequest formats one free-form input.
type FormatRequest struct {
	Value string `json:"value" validate:"phoneinput"`
}

// FormatBatchRequest formats many inputs; results keep input order.
type FormatBatchRequest struct {
	Values []string `json:"values" validate:"required,min=1,max=100,dive,phoneinput"`
}

// CreateFieldRequest mounts a new field session.
type CreateFieldRequest struct {
	InitialPhoneNumber string `json:"initialPhoneNumber" validate:"phoneinput"`
}

// KeystrokeRequest appends typed text to the field's display.
type KeystrokeRequest struct {
	Seq  *int64 `json:"seq" validate:"required,min=0"`
	Text string `json:"text" validate:"phoneinput"`
}

// ChangeRequest replaces the field content with what the host input holds.
type ChangeRequest struct {
	Seq   *int64 `json:"seq" validate:"required,min=0"`
	Value string `json:"value" validate:"phoneinput"`
}

// EditRequest replaces the rune range [start, end) of the display with text.
type EditRequest struct {
	Seq   *int64 `json:"seq" validate:"required,min=0"`
	Start int    `json:"start" validate:"min=0"`
	End   int    `json:"end" validate:"min=0,gtefield=Start"`
	Text  string `json:"text" validate:"phoneinput"`
}

// CommitRequest signals focus loss. Label is stored with the saved number.
type CommitRequest struct {
	Seq   *int64  `json:"seq" validate:"required,min=0"`
	Label *string `json:"label" validate:"omitempty,max=200"`
}

// SyncRequest pushes an owner-controlled value into the field.
type SyncRequest struct {
	Seq   *int64 `json:"seq" validate:"required,min=0"`
	Value string `json:"value" validate:"phoneinput"`
}

// ListSavedRequest pages through the caller's saved numbers.
type ListSavedRequest struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// FormatResponse is the evaluation of one input.
type FormatResponse struct {
	Raw       string `json:"raw"`
	Display   string `json:"display"`
	Invalid   bool   `json:"invalid"`
	Plan      string `json:"plan"`
	Detection string `json:"detection"`
}

// FormatBatchResponse holds one result per requested value.
type FormatBatchResponse struct {
	Items []FormatResponse `json:"items"`
}

// PlanResponse describes one numbering plan.
type PlanResponse struct {
	Name        string        `json:"name"`
	Label       string        `json:"label"`
	Region      string        `json:"region,omitempty"`
	Code        string        `json:"code,omitempty"`
	TrunkPrefix string        `json:"trunkPrefix,omitempty"`
	Separator   string        `json:"separator"`
	IncludeCode bool          `json:"includeCode"`
	Groups      map[int][]int `json:"groups"`
}

// PlanListResponse lists the registry.
type PlanListResponse struct {
	Domestic      PlanResponse   `json:"domestic"`
	International []PlanResponse `json:"international"`
}

// FieldResponse is the observable state of a field session.
type FieldResponse struct {
	ID        uuid.UUID `json:"id"`
	Seq       int64     `json:"seq"`
	Raw       string    `json:"raw"`
	Display   string    `json:"display"`
	Invalid   bool      `json:"invalid"`
	State     string    `json:"state"`
	Plan      string    `json:"plan"`
	Detection string    `json:"detection"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SyncResponse reports whether an owner value reseeded the field.
type SyncResponse struct {
	Field   FieldResponse `json:"field"`
	Changed bool          `json:"changed"`
}

// SavedNumberResponse is a value handed over by a commit.
type SavedNumberResponse struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"sessionId"`
	Display   string    `json:"display"`
	Raw       string    `json:"raw"`
	Plan      string    `json:"plan"`
	Invalid   bool      `json:"invalid"`
	Label     *string   `json:"label,omitempty"`
	E164      *string   `json:"e164,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommitResponse is the committed field and the number it saved.
type CommitResponse struct {
	Field       FieldResponse        `json:"field"`
	SavedNumber *SavedNumberResponse `json:"savedNumber,omitempty"`
}

// SavedNumberListResponse is one page of saved numbers.
type SavedNumberListResponse struct {
	Items      []SavedNumberResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalPages int                   `json:"totalPages"`
}
