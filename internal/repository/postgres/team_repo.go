package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parishevents/internal/domain"
)

type teamRepository struct {
	DB *sql.DB
}

func NewTeamRepository(db *sql.DB) domain.TeamRepository {
	return &teamRepository{DB: db}
}

const teamColumns = `id, event_id, name, note, created_at, updated_at`

func scanTeam(scan func(dest ...any) error) (*domain.Team, error) {
	t := &domain.Team{}
	var note sql.NullString
	err := scan(&t.ID, &t.EventID, &t.Name, &note, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Note = note.String
	return t, nil
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	query := `
		INSERT INTO teams (event_id, name, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		team.EventID, team.Name, nullable(team.Note), team.CreatedAt, team.UpdatedAt,
	).Scan(&team.ID)
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	team, err := scanTeam(r.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *teamRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE event_id = $1 ORDER BY name ASC`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*domain.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows.Scan)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *teamRepository) ListMembers(ctx context.Context, teamID string) ([]*domain.Registrant, error) {
	query := `SELECT ` + registrantColumns + `
		FROM registrants
		WHERE team_id = $1
		ORDER BY full_name ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.Registrant, 0)
	for rows.Next() {
		reg, err := scanRegistrant(rows.Scan)
		if err != nil {
			return nil, err
		}
		members = append(members, reg)
	}
	return members, rows.Err()
}

func (r *teamRepository) Update(ctx context.Context, team *domain.Team) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE teams SET name = $1, note = $2, updated_at = $3 WHERE id = $4`,
		team.Name, nullable(team.Note), team.UpdatedAt, team.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *teamRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}
