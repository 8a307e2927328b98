package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"parishevents/internal/domain"
)

type receiptRepository struct {
	DB *sql.DB
}

func NewReceiptRepository(db *sql.DB) domain.ReceiptRepository {
	return &receiptRepository{DB: db}
}

const receiptColumns = `id, registrant_id, image_url, amount, note, status, submitted_at, reviewed_at, reviewed_by`

func scanReceipt(scan func(dest ...any) error) (*domain.PaymentReceipt, error) {
	rcpt := &domain.PaymentReceipt{}
	var note, reviewedBy sql.NullString
	var reviewedAt sql.NullTime
	err := scan(
		&rcpt.ID, &rcpt.RegistrantID, &rcpt.ImageURL, &rcpt.Amount, &note,
		&rcpt.Status, &rcpt.SubmittedAt, &reviewedAt, &reviewedBy,
	)
	if err != nil {
		return nil, err
	}
	rcpt.Note = note.String
	rcpt.ReviewedBy = reviewedBy.String
	if reviewedAt.Valid {
		t := reviewedAt.Time
		rcpt.ReviewedAt = &t
	}
	return rcpt, nil
}

func (r *receiptRepository) Create(ctx context.Context, rcpt *domain.PaymentReceipt) error {
	query := `
		INSERT INTO payment_receipts (registrant_id, image_url, amount, note, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		rcpt.RegistrantID, rcpt.ImageURL, rcpt.Amount, nullable(rcpt.Note), rcpt.Status, rcpt.SubmittedAt,
	).Scan(&rcpt.ID)
}

func (r *receiptRepository) GetByID(ctx context.Context, id string) (*domain.PaymentReceipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM payment_receipts WHERE id = $1`
	rcpt, err := scanReceipt(r.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rcpt, nil
}

func (r *receiptRepository) GetByRegistrantID(ctx context.Context, registrantID string) (*domain.PaymentReceipt, error) {
	query := `SELECT ` + receiptColumns + `
		FROM payment_receipts
		WHERE registrant_id = $1
		ORDER BY submitted_at DESC
		LIMIT 1
	`
	rcpt, err := scanReceipt(r.DB.QueryRowContext(ctx, query, registrantID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rcpt, nil
}

func (r *receiptRepository) ListPending(ctx context.Context) ([]*domain.PaymentReceipt, error) {
	query := `SELECT ` + receiptColumns + `
		FROM payment_receipts
		WHERE status = $1
		ORDER BY submitted_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, domain.PaymentPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receipts := make([]*domain.PaymentReceipt, 0)
	for rows.Next() {
		rcpt, err := scanReceipt(rows.Scan)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, rcpt)
	}
	return receipts, rows.Err()
}

func (r *receiptRepository) SetStatus(ctx context.Context, id string, status domain.PaymentStatus, reviewedBy string, reviewedAt time.Time) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE payment_receipts SET status = $1, reviewed_by = $2, reviewed_at = $3 WHERE id = $4`,
		status, reviewedBy, reviewedAt, id,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}
