package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parishevents/internal/domain"
)

type teamService struct {
	teamRepo       domain.TeamRepository
	registrantRepo domain.RegistrantRepository
}

// NewTeamService creates a TeamService with the given repositories.
func NewTeamService(teamRepo domain.TeamRepository, registrantRepo domain.RegistrantRepository) domain.TeamService {
	return &teamService{
		teamRepo:       teamRepo,
		registrantRepo: registrantRepo,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, eventID, name, note string) (*domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("team name is required: %w", domain.ErrInvalidInput)
	}
	now := time.Now()
	team := &domain.Team{
		EventID:   eventID,
		Name:      name,
		Note:      strings.TrimSpace(note),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context, eventID string) ([]*domain.TeamWithMembers, error) {
	teams, err := s.teamRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	result := make([]*domain.TeamWithMembers, 0, len(teams))
	for _, team := range teams {
		members, err := s.teamRepo.ListMembers(ctx, team.ID)
		if err != nil {
			return nil, fmt.Errorf("list team members: %w", err)
		}
		if members == nil {
			members = []*domain.Registrant{}
		}
		result = append(result, &domain.TeamWithMembers{Team: team, Members: members})
	}
	return result, nil
}

func (s *teamService) AssignRegistrant(ctx context.Context, teamID, registrantID string) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get team: %w", err)
	}
	reg, err := s.registrantRepo.GetByID(ctx, registrantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get registrant: %w", err)
	}
	if reg.EventID != team.EventID {
		return fmt.Errorf("registrant belongs to a different event: %w", domain.ErrInvalidInput)
	}
	if reg.TeamID == teamID {
		return domain.ErrAlreadyMember
	}
	if err := s.registrantRepo.UpdateTeam(ctx, registrantID, teamID); err != nil {
		return fmt.Errorf("assign registrant: %w", err)
	}
	return nil
}

func (s *teamService) RemoveRegistrant(ctx context.Context, teamID, registrantID string) error {
	reg, err := s.registrantRepo.GetByID(ctx, registrantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get registrant: %w", err)
	}
	if reg.TeamID != teamID {
		return fmt.Errorf("registrant is not on this team: %w", domain.ErrInvalidInput)
	}
	if err := s.registrantRepo.UpdateTeam(ctx, registrantID, ""); err != nil {
		return fmt.Errorf("remove registrant: %w", err)
	}
	return nil
}

func (s *teamService) AssignRole(ctx context.Context, registrantID, roleName string) error {
	reg, err := s.registrantRepo.GetByID(ctx, registrantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get registrant: %w", err)
	}
	roleName = strings.TrimSpace(roleName)
	if roleName == "" {
		reg.EventRole = nil
	} else {
		reg.EventRole = &domain.EventRole{Name: roleName}
	}
	reg.UpdatedAt = time.Now()
	if err := s.registrantRepo.Update(ctx, reg); err != nil {
		return fmt.Errorf("update registrant role: %w", err)
	}
	return nil
}

func (s *teamService) DeleteTeam(ctx context.Context, teamID string) error {
	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return fmt.Errorf("list team members: %w", err)
	}
	for _, m := range members {
		if err := s.registrantRepo.UpdateTeam(ctx, m.ID, ""); err != nil {
			return fmt.Errorf("unassign member %s: %w", m.ID, err)
		}
	}
	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete team: %w", err)
	}
	return nil
}
