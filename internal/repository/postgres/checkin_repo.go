package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parishevents/internal/domain"
)

type checkInRepository struct {
	DB *sql.DB
}

func NewCheckInRepository(db *sql.DB) domain.CheckInRepository {
	return &checkInRepository{DB: db}
}

func (r *checkInRepository) Create(ctx context.Context, c *domain.CheckIn) error {
	query := `
		INSERT INTO check_ins (event_id, registrant_id, checked_in_by, checked_in_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, c.EventID, c.RegistrantID, c.CheckedInBy, c.CheckedInAt).Scan(&c.ID)
}

func (r *checkInRepository) GetByRegistrantID(ctx context.Context, registrantID string) (*domain.CheckIn, error) {
	query := `
		SELECT id, event_id, registrant_id, checked_in_by, checked_in_at
		FROM check_ins
		WHERE registrant_id = $1
	`
	c := &domain.CheckIn{}
	err := r.DB.QueryRowContext(ctx, query, registrantID).
		Scan(&c.ID, &c.EventID, &c.RegistrantID, &c.CheckedInBy, &c.CheckedInAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *checkInRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.CheckIn, error) {
	query := `
		SELECT id, event_id, registrant_id, checked_in_by, checked_in_at
		FROM check_ins
		WHERE event_id = $1
		ORDER BY checked_in_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*domain.CheckIn
	for rows.Next() {
		c := &domain.CheckIn{}
		if err := rows.Scan(&c.ID, &c.EventID, &c.RegistrantID, &c.CheckedInBy, &c.CheckedInAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *checkInRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM check_ins WHERE event_id = $1`, eventID).Scan(&n)
	return n, err
}
