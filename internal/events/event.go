// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"phoneinput_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Phone Field Domain Events
// =============================================================================

// PhoneNumberCommitted is published after a committed field value was saved.
type PhoneNumberCommitted struct {
	BaseEvent
	SavedNumberID uuid.UUID `json:"savedNumberId"`
	SessionID     uuid.UUID `json:"sessionId"`
	UserID        uuid.UUID `json:"userId"`
	Plan          string    `json:"plan"`
	Invalid       bool      `json:"invalid"`
}

func (e PhoneNumberCommitted) EventName() string { return "phone.number.committed" }

// PhoneNumberNormalized is published by the worker once the E.164 form of a
// saved number was stored.
type PhoneNumberNormalized struct {
	BaseEvent
	SavedNumberID uuid.UUID `json:"savedNumberId"`
	E164          string    `json:"e164"`
}

func (e PhoneNumberNormalized) EventName() string { return "phone.number.normalized" }
