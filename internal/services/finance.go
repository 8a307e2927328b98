package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parishevents/internal/domain"
)

type financeService struct {
	donationRepo domain.DonationRepository
	expenseRepo  domain.ExpenseRepository
}

// NewFinanceService creates a FinanceService with the given repositories.
func NewFinanceService(donationRepo domain.DonationRepository, expenseRepo domain.ExpenseRepository) domain.FinanceService {
	return &financeService{
		donationRepo: donationRepo,
		expenseRepo:  expenseRepo,
	}
}

func (s *financeService) RecordDonation(ctx context.Context, eventID, donorName string, amount int64, note string) (*domain.Donation, error) {
	donorName = strings.TrimSpace(donorName)
	if donorName == "" {
		return nil, fmt.Errorf("donor name is required: %w", domain.ErrInvalidInput)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", domain.ErrInvalidInput)
	}
	d := &domain.Donation{
		EventID:   eventID,
		DonorName: donorName,
		Amount:    amount,
		Note:      strings.TrimSpace(note),
		CreatedAt: time.Now(),
	}
	if err := s.donationRepo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}
	return d, nil
}

func (s *financeService) ListDonations(ctx context.Context, eventID string) ([]*domain.Donation, error) {
	list, err := s.donationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	if list == nil {
		list = []*domain.Donation{}
	}
	return list, nil
}

func (s *financeService) SubmitExpense(ctx context.Context, eventID, claimant string, amount int64, purpose, receiptURL string) (*domain.ExpenseClaim, error) {
	claimant = strings.TrimSpace(claimant)
	if claimant == "" {
		return nil, fmt.Errorf("claimant is required: %w", domain.ErrInvalidInput)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", domain.ErrInvalidInput)
	}
	now := time.Now()
	e := &domain.ExpenseClaim{
		EventID:    eventID,
		Claimant:   claimant,
		Amount:     amount,
		Purpose:    strings.TrimSpace(purpose),
		ReceiptURL: receiptURL,
		Status:     domain.ExpensePending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.expenseRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create expense claim: %w", err)
	}
	return e, nil
}

func (s *financeService) ReviewExpense(ctx context.Context, claimID string, status domain.ExpenseStatus) error {
	switch status {
	case domain.ExpenseApproved, domain.ExpenseRejected, domain.ExpenseReimbursed:
	default:
		return fmt.Errorf("invalid expense status %q: %w", status, domain.ErrInvalidInput)
	}
	claim, err := s.expenseRepo.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get expense claim: %w", err)
	}
	// Reimbursement requires prior approval.
	if status == domain.ExpenseReimbursed && claim.Status != domain.ExpenseApproved {
		return fmt.Errorf("claim must be approved before reimbursement: %w", domain.ErrInvalidInput)
	}
	if err := s.expenseRepo.UpdateStatus(ctx, claimID, status); err != nil {
		return fmt.Errorf("update expense status: %w", err)
	}
	return nil
}

func (s *financeService) ListExpenses(ctx context.Context, eventID string) ([]*domain.ExpenseClaim, error) {
	list, err := s.expenseRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list expense claims: %w", err)
	}
	if list == nil {
		list = []*domain.ExpenseClaim{}
	}
	return list, nil
}

func (s *financeService) Summary(ctx context.Context, eventID string) (*domain.FinanceSummary, error) {
	donations, err := s.donationRepo.SumByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("sum donations: %w", err)
	}
	reimbursed, err := s.expenseRepo.SumReimbursedByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("sum reimbursed: %w", err)
	}
	pending, err := s.expenseRepo.CountPendingByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count pending claims: %w", err)
	}
	return &domain.FinanceSummary{
		TotalDonations:  donations,
		TotalReimbursed: reimbursed,
		PendingClaims:   pending,
	}, nil
}
