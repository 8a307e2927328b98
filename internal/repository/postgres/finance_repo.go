package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parishevents/internal/domain"
)

type donationRepository struct {
	DB *sql.DB
}

func NewDonationRepository(db *sql.DB) domain.DonationRepository {
	return &donationRepository{DB: db}
}

func (r *donationRepository) Create(ctx context.Context, d *domain.Donation) error {
	query := `
		INSERT INTO donations (event_id, donor_name, amount, note, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		d.EventID, d.DonorName, d.Amount, nullable(d.Note), d.CreatedAt,
	).Scan(&d.ID)
}

func (r *donationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Donation, error) {
	query := `
		SELECT id, event_id, donor_name, amount, note, created_at
		FROM donations
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	donations := make([]*domain.Donation, 0)
	for rows.Next() {
		d := &domain.Donation{}
		var note sql.NullString
		if err := rows.Scan(&d.ID, &d.EventID, &d.DonorName, &d.Amount, &note, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Note = note.String
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

func (r *donationRepository) SumByEventID(ctx context.Context, eventID string) (int64, error) {
	var sum int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM donations WHERE event_id = $1`, eventID,
	).Scan(&sum)
	return sum, err
}

type expenseRepository struct {
	DB *sql.DB
}

func NewExpenseRepository(db *sql.DB) domain.ExpenseRepository {
	return &expenseRepository{DB: db}
}

const expenseColumns = `id, event_id, claimant, amount, purpose, receipt_url, status, created_at, updated_at`

func scanExpense(scan func(dest ...any) error) (*domain.ExpenseClaim, error) {
	e := &domain.ExpenseClaim{}
	var receiptURL sql.NullString
	err := scan(
		&e.ID, &e.EventID, &e.Claimant, &e.Amount, &e.Purpose, &receiptURL,
		&e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.ReceiptURL = receiptURL.String
	return e, nil
}

func (r *expenseRepository) Create(ctx context.Context, e *domain.ExpenseClaim) error {
	query := `
		INSERT INTO expense_claims (event_id, claimant, amount, purpose, receipt_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.EventID, e.Claimant, e.Amount, e.Purpose, nullable(e.ReceiptURL), e.Status, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *expenseRepository) GetByID(ctx context.Context, id string) (*domain.ExpenseClaim, error) {
	query := `SELECT ` + expenseColumns + ` FROM expense_claims WHERE id = $1`
	e, err := scanExpense(r.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *expenseRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.ExpenseClaim, error) {
	query := `SELECT ` + expenseColumns + `
		FROM expense_claims
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	claims := make([]*domain.ExpenseClaim, 0)
	for rows.Next() {
		e, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, err
		}
		claims = append(claims, e)
	}
	return claims, rows.Err()
}

func (r *expenseRepository) UpdateStatus(ctx context.Context, id string, status domain.ExpenseStatus) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE expense_claims SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *expenseRepository) SumReimbursedByEventID(ctx context.Context, eventID string) (int64, error) {
	var sum int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expense_claims WHERE event_id = $1 AND status = $2`,
		eventID, domain.ExpenseReimbursed,
	).Scan(&sum)
	return sum, err
}

func (r *expenseRepository) CountPendingByEventID(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expense_claims WHERE event_id = $1 AND status = $2`,
		eventID, domain.ExpensePending,
	).Scan(&n)
	return n, err
}
