package domain

import (
	"context"
	"time"
)

// ExpenseStatus is the review state of an expense claim.
type ExpenseStatus string

const (
	ExpensePending    ExpenseStatus = "pending"
	ExpenseApproved   ExpenseStatus = "approved"
	ExpenseRejected   ExpenseStatus = "rejected"
	ExpenseReimbursed ExpenseStatus = "reimbursed"
)

// Donation records a gift to the event fund. Amount is in Vietnamese đồng.
// swagger:model Donation
type Donation struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	DonorName string    `json:"donor_name"`
	Amount    int64     `json:"amount"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpenseClaim records a reimbursement request by a team member.
// swagger:model ExpenseClaim
type ExpenseClaim struct {
	ID         string        `json:"id"`
	EventID    string        `json:"event_id"`
	Claimant   string        `json:"claimant"`
	Amount     int64         `json:"amount"`
	Purpose    string        `json:"purpose"`
	ReceiptURL string        `json:"receipt_url,omitempty"`
	Status     ExpenseStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// FinanceSummary aggregates event finances for the dashboard.
type FinanceSummary struct {
	TotalDonations  int64 `json:"total_donations"`
	TotalReimbursed int64 `json:"total_reimbursed"`
	PendingClaims   int   `json:"pending_claims"`
}

// DonationRepository defines storage operations for donations.
type DonationRepository interface {
	Create(ctx context.Context, d *Donation) error
	ListByEventID(ctx context.Context, eventID string) ([]*Donation, error)
	SumByEventID(ctx context.Context, eventID string) (int64, error)
}

// ExpenseRepository defines storage operations for expense claims.
type ExpenseRepository interface {
	Create(ctx context.Context, e *ExpenseClaim) error
	GetByID(ctx context.Context, id string) (*ExpenseClaim, error)
	ListByEventID(ctx context.Context, eventID string) ([]*ExpenseClaim, error)
	UpdateStatus(ctx context.Context, id string, status ExpenseStatus) error
	SumReimbursedByEventID(ctx context.Context, eventID string) (int64, error)
	CountPendingByEventID(ctx context.Context, eventID string) (int, error)
}

// FinanceService defines donation and expense-reimbursement operations.
type FinanceService interface {
	RecordDonation(ctx context.Context, eventID, donorName string, amount int64, note string) (*Donation, error)
	ListDonations(ctx context.Context, eventID string) ([]*Donation, error)
	SubmitExpense(ctx context.Context, eventID, claimant string, amount int64, purpose, receiptURL string) (*ExpenseClaim, error)
	ReviewExpense(ctx context.Context, claimID string, status ExpenseStatus) error
	ListExpenses(ctx context.Context, eventID string) ([]*ExpenseClaim, error)
	Summary(ctx context.Context, eventID string) (*FinanceSummary, error)
}
