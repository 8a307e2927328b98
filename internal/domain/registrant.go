package domain

import (
	"context"
	"strings"
	"time"
)

// RoleKind classifies a registrant's event role into one of two explicit
// categories. Card backgrounds and team permissions key off this value.
type RoleKind string

const (
	RoleOrganizer   RoleKind = "organizer"
	RoleParticipant RoleKind = "participant"
)

// organizerKeywords are matched (case-insensitively) against the role name to
// classify a registrant as an organizer.
var organizerKeywords = []string{
	"ban tổ chức",
	"trưởng",
	"điều hành",
	"btc",
}

// CategorizeRole maps a free-form role name to a RoleKind. An empty role name
// is a participant. This is the only place role names are interpreted; call
// sites must not sniff optional fields themselves.
func CategorizeRole(roleName string) RoleKind {
	name := strings.ToLower(strings.TrimSpace(roleName))
	if name == "" {
		return RoleParticipant
	}
	for _, kw := range organizerKeywords {
		if strings.Contains(name, kw) {
			return RoleOrganizer
		}
	}
	return RoleParticipant
}

// EventRole is the role label assigned to a registrant for an event.
type EventRole struct {
	Name string `json:"name"`
}

// PaymentStatus is the state of a registrant's payment verification.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentRejected PaymentStatus = "rejected"
)

// Registrant represents a participant registered for an event.
// swagger:model Registrant
type Registrant struct {
	ID                    string        `json:"id"`
	EventID               string        `json:"event_id"`
	FullName              string        `json:"full_name"`
	SaintName             string        `json:"saint_name,omitempty"`
	EventRole             *EventRole    `json:"event_role,omitempty"`
	PortraitURL           string        `json:"portrait_url,omitempty"`
	TeamID                string        `json:"team_id,omitempty"`
	SecondDayOnly         bool          `json:"second_day_only"`
	SelectedAttendanceDay string        `json:"selected_attendance_day,omitempty"`
	Email                 string        `json:"email,omitempty"`
	Phone                 string        `json:"phone,omitempty"`
	InvoiceCode           string        `json:"invoice_code"`
	PaymentStatus         PaymentStatus `json:"payment_status"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

// RoleKind returns the registrant's role category.
func (r *Registrant) RoleKind() RoleKind {
	if r.EventRole == nil {
		return RoleParticipant
	}
	return CategorizeRole(r.EventRole.Name)
}

// DisplayName returns the saint name and full name joined for card rendering.
func (r *Registrant) DisplayName() string {
	if r.SaintName == "" {
		return r.FullName
	}
	return r.SaintName + " " + r.FullName
}

// RegistrantRepository defines storage operations for registrants.
type RegistrantRepository interface {
	Create(ctx context.Context, reg *Registrant) error
	GetByID(ctx context.Context, id string) (*Registrant, error)
	GetByInvoiceCode(ctx context.Context, code string) (*Registrant, error)
	ListByEventID(ctx context.Context, eventID string, p PaginationParams) ([]*Registrant, int, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Registrant, error)
	Update(ctx context.Context, reg *Registrant) error
	UpdateTeam(ctx context.Context, registrantID, teamID string) error
	UpdatePortraitURL(ctx context.Context, registrantID, portraitURL string) error
	SetPaymentStatus(ctx context.Context, registrantID string, status PaymentStatus) error
	Delete(ctx context.Context, id string) error
}

// SignUpInput is the data collected from the public sign-up form.
type SignUpInput struct {
	EventID               string
	FullName              string
	SaintName             string
	RoleName              string
	Email                 string
	Phone                 string
	SecondDayOnly         bool
	SelectedAttendanceDay string
}

// RegistrationService defines participant-facing registration operations.
type RegistrationService interface {
	// SignUp validates the input, creates the registrant with a fresh invoice
	// code and pending payment status, and sends a confirmation email
	// best-effort.
	SignUp(ctx context.Context, in SignUpInput) (*Registrant, error)
	GetByID(ctx context.Context, id string) (*Registrant, error)
	ListByEvent(ctx context.Context, eventID string, p PaginationParams) ([]*Registrant, int, error)
	Update(ctx context.Context, reg *Registrant) error
	Delete(ctx context.Context, id string) error
}
