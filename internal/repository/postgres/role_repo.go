package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parishevents/internal/domain"
)

const roleColumns = "id, code"

type roleRepository struct {
	DB *sql.DB
}

// NewRoleRepository creates a RoleRepository backed by Postgres. Roles are
// seeded by migration (admin, staff, treasurer); this repo only reads them.
func NewRoleRepository(db *sql.DB) domain.RoleRepository {
	return &roleRepository{DB: db}
}

func scanRole(scan func(dest ...any) error) (*domain.Role, error) {
	role := &domain.Role{}
	if err := scan(&role.ID, &role.Code); err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepository) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	query := fmt.Sprintf("SELECT %s FROM roles WHERE code = $1", roleColumns)
	role, err := scanRole(r.DB.QueryRowContext(ctx, query, code).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return role, nil
}

func (r *roleRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	query := `
		SELECT r.id, r.code
		FROM roles r
		INNER JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.code
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*domain.Role
	for rows.Next() {
		role, err := scanRole(rows.Scan)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
