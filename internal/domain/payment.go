package domain

import (
	"context"
	"time"
)

// PaymentReceipt is a payment proof submitted by a registrant for review.
// swagger:model PaymentReceipt
type PaymentReceipt struct {
	ID           string        `json:"id"`
	RegistrantID string        `json:"registrant_id"`
	ImageURL     string        `json:"image_url"`
	Amount       int64         `json:"amount"`
	Note         string        `json:"note,omitempty"`
	Status       PaymentStatus `json:"status"`
	SubmittedAt  time.Time     `json:"submitted_at"`
	ReviewedAt   *time.Time    `json:"reviewed_at,omitempty"`
	ReviewedBy   string        `json:"reviewed_by,omitempty"`
}

// ReceiptRepository defines storage operations for payment receipts.
type ReceiptRepository interface {
	Create(ctx context.Context, rcpt *PaymentReceipt) error
	GetByID(ctx context.Context, id string) (*PaymentReceipt, error)
	GetByRegistrantID(ctx context.Context, registrantID string) (*PaymentReceipt, error)
	ListPending(ctx context.Context) ([]*PaymentReceipt, error)
	SetStatus(ctx context.Context, id string, status PaymentStatus, reviewedBy string, reviewedAt time.Time) error
}

// PaymentService defines payment-receipt verification operations.
type PaymentService interface {
	SubmitReceipt(ctx context.Context, registrantID, imageURL string, amount int64, note string) (*PaymentReceipt, error)
	// Verify marks the receipt verified and the registrant's payment status
	// verified in one logical operation.
	Verify(ctx context.Context, receiptID, reviewerID string) error
	Reject(ctx context.Context, receiptID, reviewerID string) error
	ListPending(ctx context.Context) ([]*PaymentReceipt, error)
}
