package domain

import (
	"context"
	"time"
)

// CheckIn records a registrant's arrival at the event.
// swagger:model CheckIn
type CheckIn struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	RegistrantID string    `json:"registrant_id"`
	CheckedInBy  string    `json:"checked_in_by"`
	CheckedInAt  time.Time `json:"checked_in_at"`
}

// CheckInResult is the outcome of a check-in submission, returned to the
// scanning operator. Message is a Vietnamese-language operator message.
type CheckInResult struct {
	Success    bool        `json:"success"`
	Registrant *Registrant `json:"registrant,omitempty"`
	Message    string      `json:"message"`
}

// ScanPayload is the identity payload embedded in a registrant's QR code.
type ScanPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Event string `json:"event,omitempty"`
}

// CheckInRepository defines storage operations for check-in records.
type CheckInRepository interface {
	Create(ctx context.Context, c *CheckIn) error
	GetByRegistrantID(ctx context.Context, registrantID string) (*CheckIn, error)
	ListByEventID(ctx context.Context, eventID string) ([]*CheckIn, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
}

// CheckInService defines check-in operations.
type CheckInService interface {
	// CheckIn records the registrant's arrival. Returns ErrNotFound when the
	// registrant does not exist and ErrAlreadyCheckedIn when a record already
	// exists; the returned result carries the operator-facing message either way.
	CheckIn(ctx context.Context, registrantID, operatorID string) (*CheckInResult, error)
	ListByEvent(ctx context.Context, eventID string) ([]*CheckIn, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
}
