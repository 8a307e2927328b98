package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"parishevents/internal/domain"
)

type registrantRepository struct {
	DB *sql.DB
}

func NewRegistrantRepository(db *sql.DB) domain.RegistrantRepository {
	return &registrantRepository{DB: db}
}

const registrantColumns = `id, event_id, full_name, saint_name, role_name, portrait_url, team_id,
	second_day_only, selected_attendance_day, email, phone, invoice_code, payment_status,
	created_at, updated_at`

type registrantRow struct {
	saintName sql.NullString
	roleName  sql.NullString
	portrait  sql.NullString
	teamID    sql.NullString
	attDay    sql.NullString
	email     sql.NullString
	phone     sql.NullString
}

func (row *registrantRow) apply(reg *domain.Registrant) {
	reg.SaintName = row.saintName.String
	reg.PortraitURL = row.portrait.String
	reg.TeamID = row.teamID.String
	reg.SelectedAttendanceDay = row.attDay.String
	reg.Email = row.email.String
	reg.Phone = row.phone.String
	if row.roleName.Valid && row.roleName.String != "" {
		reg.EventRole = &domain.EventRole{Name: row.roleName.String}
	}
}

func scanRegistrant(scan func(dest ...any) error) (*domain.Registrant, error) {
	reg := &domain.Registrant{}
	var row registrantRow
	err := scan(
		&reg.ID, &reg.EventID, &reg.FullName, &row.saintName, &row.roleName, &row.portrait, &row.teamID,
		&reg.SecondDayOnly, &row.attDay, &row.email, &row.phone, &reg.InvoiceCode, &reg.PaymentStatus,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	row.apply(reg)
	return reg, nil
}

func registrantArgs(reg *domain.Registrant) []any {
	var roleName any
	if reg.EventRole != nil {
		roleName = reg.EventRole.Name
	}
	return []any{
		reg.EventID, reg.FullName, nullable(reg.SaintName), roleName, nullable(reg.PortraitURL),
		nullable(reg.TeamID), reg.SecondDayOnly, nullable(reg.SelectedAttendanceDay),
		nullable(reg.Email), nullable(reg.Phone), reg.InvoiceCode, reg.PaymentStatus,
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *registrantRepository) Create(ctx context.Context, reg *domain.Registrant) error {
	query := `
		INSERT INTO registrants (event_id, full_name, saint_name, role_name, portrait_url, team_id,
			second_day_only, selected_attendance_day, email, phone, invoice_code, payment_status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	args := append(registrantArgs(reg), reg.CreatedAt, reg.UpdatedAt)
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(&reg.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrInvalidInput
		}
		return err
	}
	return nil
}

func (r *registrantRepository) GetByID(ctx context.Context, id string) (*domain.Registrant, error) {
	query := `SELECT ` + registrantColumns + ` FROM registrants WHERE id = $1`
	reg, err := scanRegistrant(r.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrantRepository) GetByInvoiceCode(ctx context.Context, code string) (*domain.Registrant, error) {
	query := `SELECT ` + registrantColumns + ` FROM registrants WHERE invoice_code = $1`
	reg, err := scanRegistrant(r.DB.QueryRowContext(ctx, query, code).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrantRepository) ListByEventID(ctx context.Context, eventID string, p domain.PaginationParams) ([]*domain.Registrant, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrants WHERE event_id = $1`, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + registrantColumns + `
		FROM registrants
		WHERE event_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, p.Limit(20), p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	regs := make([]*domain.Registrant, 0)
	for rows.Next() {
		reg, err := scanRegistrant(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		regs = append(regs, reg)
	}
	return regs, total, rows.Err()
}

func (r *registrantRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Registrant, error) {
	if len(ids) == 0 {
		return []*domain.Registrant{}, nil
	}
	query := `SELECT ` + registrantColumns + ` FROM registrants WHERE id = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*domain.Registrant)
	for rows.Next() {
		reg, err := scanRegistrant(rows.Scan)
		if err != nil {
			return nil, err
		}
		byID[reg.ID] = reg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preserve the caller's order; callers depend on it for card layout.
	regs := make([]*domain.Registrant, 0, len(ids))
	for _, id := range ids {
		if reg, ok := byID[id]; ok {
			regs = append(regs, reg)
		}
	}
	return regs, nil
}

func (r *registrantRepository) Update(ctx context.Context, reg *domain.Registrant) error {
	query := `
		UPDATE registrants
		SET full_name = $1, saint_name = $2, role_name = $3, portrait_url = $4, team_id = $5,
			second_day_only = $6, selected_attendance_day = $7, email = $8, phone = $9,
			payment_status = $10, updated_at = $11
		WHERE id = $12
	`
	var roleName any
	if reg.EventRole != nil {
		roleName = reg.EventRole.Name
	}
	result, err := r.DB.ExecContext(ctx, query,
		reg.FullName, nullable(reg.SaintName), roleName, nullable(reg.PortraitURL), nullable(reg.TeamID),
		reg.SecondDayOnly, nullable(reg.SelectedAttendanceDay), nullable(reg.Email), nullable(reg.Phone),
		reg.PaymentStatus, reg.UpdatedAt, reg.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *registrantRepository) UpdateTeam(ctx context.Context, registrantID, teamID string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE registrants SET team_id = $1, updated_at = NOW() WHERE id = $2`,
		nullable(teamID), registrantID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *registrantRepository) UpdatePortraitURL(ctx context.Context, registrantID, portraitURL string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE registrants SET portrait_url = $1, updated_at = NOW() WHERE id = $2`,
		nullable(portraitURL), registrantID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *registrantRepository) SetPaymentStatus(ctx context.Context, registrantID string, status domain.PaymentStatus) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE registrants SET payment_status = $1, updated_at = NOW() WHERE id = $2`,
		status, registrantID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *registrantRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM registrants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
