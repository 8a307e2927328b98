package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyMember is returned when assigning a registrant who is already on the team.
var ErrAlreadyMember = errors.New("already a team member")

// Team groups registrants of an event (e.g. đội, nhóm phục vụ).
// swagger:model Team
type Team struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TeamWithMembers bundles a team with its assigned registrants.
type TeamWithMembers struct {
	Team    *Team         `json:"team"`
	Members []*Registrant `json:"members"`
}

// TeamRepository defines storage operations for teams.
type TeamRepository interface {
	Create(ctx context.Context, team *Team) error
	GetByID(ctx context.Context, id string) (*Team, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Team, error)
	ListMembers(ctx context.Context, teamID string) ([]*Registrant, error)
	Update(ctx context.Context, team *Team) error
	Delete(ctx context.Context, id string) error
}

// TeamService defines team and role management operations.
type TeamService interface {
	CreateTeam(ctx context.Context, eventID, name, note string) (*Team, error)
	ListTeams(ctx context.Context, eventID string) ([]*TeamWithMembers, error)
	AssignRegistrant(ctx context.Context, teamID, registrantID string) error
	RemoveRegistrant(ctx context.Context, teamID, registrantID string) error
	AssignRole(ctx context.Context, registrantID, roleName string) error
	DeleteTeam(ctx context.Context, teamID string) error
}
