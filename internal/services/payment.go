package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parishevents/internal/domain"
)

type paymentService struct {
	receiptRepo    domain.ReceiptRepository
	registrantRepo domain.RegistrantRepository
}

// NewPaymentService creates a PaymentService with the given repositories.
func NewPaymentService(receiptRepo domain.ReceiptRepository, registrantRepo domain.RegistrantRepository) domain.PaymentService {
	return &paymentService{
		receiptRepo:    receiptRepo,
		registrantRepo: registrantRepo,
	}
}

func (s *paymentService) SubmitReceipt(ctx context.Context, registrantID, imageURL string, amount int64, note string) (*domain.PaymentReceipt, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, fmt.Errorf("receipt image is required: %w", domain.ErrInvalidInput)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", domain.ErrInvalidInput)
	}
	if _, err := s.registrantRepo.GetByID(ctx, registrantID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registrant: %w", err)
	}

	rcpt := &domain.PaymentReceipt{
		RegistrantID: registrantID,
		ImageURL:     imageURL,
		Amount:       amount,
		Note:         strings.TrimSpace(note),
		Status:       domain.PaymentPending,
		SubmittedAt:  time.Now(),
	}
	if err := s.receiptRepo.Create(ctx, rcpt); err != nil {
		return nil, fmt.Errorf("create receipt: %w", err)
	}
	return rcpt, nil
}

func (s *paymentService) Verify(ctx context.Context, receiptID, reviewerID string) error {
	return s.review(ctx, receiptID, reviewerID, domain.PaymentVerified)
}

func (s *paymentService) Reject(ctx context.Context, receiptID, reviewerID string) error {
	return s.review(ctx, receiptID, reviewerID, domain.PaymentRejected)
}

func (s *paymentService) review(ctx context.Context, receiptID, reviewerID string, status domain.PaymentStatus) error {
	rcpt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get receipt: %w", err)
	}
	if rcpt.Status != domain.PaymentPending {
		return fmt.Errorf("receipt already reviewed: %w", domain.ErrInvalidInput)
	}

	now := time.Now()
	if err := s.receiptRepo.SetStatus(ctx, receiptID, status, reviewerID, now); err != nil {
		return fmt.Errorf("set receipt status: %w", err)
	}
	if err := s.registrantRepo.SetPaymentStatus(ctx, rcpt.RegistrantID, status); err != nil {
		return fmt.Errorf("set registrant payment status: %w", err)
	}
	return nil
}

func (s *paymentService) ListPending(ctx context.Context) ([]*domain.PaymentReceipt, error) {
	list, err := s.receiptRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending receipts: %w", err)
	}
	if list == nil {
		list = []*domain.PaymentReceipt{}
	}
	return list, nil
}
