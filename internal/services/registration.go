package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"parishevents/internal/domain"
)

type registrationService struct {
	registrantRepo domain.RegistrantRepository
	eventRepo      domain.EventRepository
	emailSvc       domain.EmailService
	logger         *slog.Logger
}

// NewRegistrationService creates a RegistrationService with the given
// repositories. emailSvc may be nil; confirmation email is best-effort.
func NewRegistrationService(
	registrantRepo domain.RegistrantRepository,
	eventRepo domain.EventRepository,
	emailSvc domain.EmailService,
	logger *slog.Logger,
) domain.RegistrationService {
	return &registrationService{
		registrantRepo: registrantRepo,
		eventRepo:      eventRepo,
		emailSvc:       emailSvc,
		logger:         logger,
	}
}

func (s *registrationService) SignUp(ctx context.Context, in domain.SignUpInput) (*domain.Registrant, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	if in.FullName == "" {
		return nil, fmt.Errorf("full name is required: %w", domain.ErrInvalidInput)
	}
	if in.EventID == "" {
		return nil, fmt.Errorf("event id is required: %w", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, in.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	now := time.Now()
	reg := &domain.Registrant{
		EventID:               event.ID,
		FullName:              in.FullName,
		SaintName:             strings.TrimSpace(in.SaintName),
		Email:                 strings.TrimSpace(strings.ToLower(in.Email)),
		Phone:                 strings.TrimSpace(in.Phone),
		SecondDayOnly:         in.SecondDayOnly,
		SelectedAttendanceDay: in.SelectedAttendanceDay,
		InvoiceCode:           newInvoiceCode(),
		PaymentStatus:         domain.PaymentPending,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if role := strings.TrimSpace(in.RoleName); role != "" {
		reg.EventRole = &domain.EventRole{Name: role}
	}

	if err := s.registrantRepo.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("create registrant: %w", err)
	}

	// Confirmation email must never fail the sign-up.
	if s.emailSvc != nil && reg.Email != "" {
		if err := s.emailSvc.SendRegistrationConfirmation(ctx, &domain.RegistrationEmailData{
			Email:       reg.Email,
			FullName:    reg.FullName,
			EventName:   event.Name,
			InvoiceCode: reg.InvoiceCode,
		}); err != nil {
			s.logger.Warn("confirmation email failed", "registrant_id", reg.ID, "err", err)
		}
	}
	return reg, nil
}

func (s *registrationService) GetByID(ctx context.Context, id string) (*domain.Registrant, error) {
	reg, err := s.registrantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registrant: %w", err)
	}
	return reg, nil
}

func (s *registrationService) ListByEvent(ctx context.Context, eventID string, p domain.PaginationParams) ([]*domain.Registrant, int, error) {
	regs, total, err := s.registrantRepo.ListByEventID(ctx, eventID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrants: %w", err)
	}
	if regs == nil {
		regs = []*domain.Registrant{}
	}
	return regs, total, nil
}

func (s *registrationService) Update(ctx context.Context, reg *domain.Registrant) error {
	if strings.TrimSpace(reg.FullName) == "" {
		return fmt.Errorf("full name is required: %w", domain.ErrInvalidInput)
	}
	reg.UpdatedAt = time.Now()
	if err := s.registrantRepo.Update(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update registrant: %w", err)
	}
	return nil
}

func (s *registrationService) Delete(ctx context.Context, id string) error {
	if err := s.registrantRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete registrant: %w", err)
	}
	return nil
}

// newInvoiceCode builds a short uppercase invoice code from a fresh UUID,
// e.g. "HD-1A2B3C4D".
func newInvoiceCode() string {
	id := uuid.New().String()
	return "HD-" + strings.ToUpper(id[:8])
}
