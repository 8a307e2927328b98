package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"parishevents/internal/cards"
	"parishevents/internal/domain"
)

// Operator-facing check-in messages (Vietnamese).
const (
	msgCheckInOK       = "Check-in thành công"
	msgAlreadyChecked  = "Người tham dự đã check-in trước đó"
	msgRegNotFound     = "Không tìm thấy người tham dự"
	msgCheckInInternal = "Có lỗi xảy ra, vui lòng thử lại"
)

type checkInService struct {
	registrantRepo domain.RegistrantRepository
	checkInRepo    domain.CheckInRepository
	logger         *slog.Logger
}

// NewCheckInService creates a CheckInService with the given repositories.
func NewCheckInService(registrantRepo domain.RegistrantRepository, checkInRepo domain.CheckInRepository, logger *slog.Logger) domain.CheckInService {
	return &checkInService{
		registrantRepo: registrantRepo,
		checkInRepo:    checkInRepo,
		logger:         logger,
	}
}

func (s *checkInService) CheckIn(ctx context.Context, registrantID, operatorID string) (*domain.CheckInResult, error) {
	reg, err := s.registrantRepo.GetByID(ctx, registrantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.CheckInResult{Success: false, Message: msgRegNotFound}, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registrant: %w", err)
	}

	if _, err := s.checkInRepo.GetByRegistrantID(ctx, registrantID); err == nil {
		return &domain.CheckInResult{Success: false, Registrant: reg, Message: msgAlreadyChecked}, domain.ErrAlreadyCheckedIn
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get check-in: %w", err)
	}

	record := &domain.CheckIn{
		EventID:      reg.EventID,
		RegistrantID: reg.ID,
		CheckedInBy:  operatorID,
		CheckedInAt:  time.Now(),
	}
	if err := s.checkInRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create check-in: %w", err)
	}
	return &domain.CheckInResult{Success: true, Registrant: reg, Message: msgCheckInOK}, nil
}

func (s *checkInService) ListByEvent(ctx context.Context, eventID string) ([]*domain.CheckIn, error) {
	list, err := s.checkInRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	if list == nil {
		list = []*domain.CheckIn{}
	}
	return list, nil
}

func (s *checkInService) CountByEvent(ctx context.Context, eventID string) (int, error) {
	n, err := s.checkInRepo.CountByEventID(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("count check-ins: %w", err)
	}
	return n, nil
}

// Scan session timing rules.
const (
	// scanDedupeWindow discards a payload identical to the previous accepted
	// one when it arrives within this window of that acceptance.
	scanDedupeWindow = 3 * time.Second
	// scanCallbackThrottle caps decode callbacks to one per interval,
	// independent of the dedupe rule.
	scanCallbackThrottle = 1 * time.Second
)

// ScanSession serializes one operator's QR scanning: it throttles decode
// callbacks, deduplicates repeated reads of the same badge, and keeps at most
// one check-in submission in flight. State machine:
// idle → scanning → candidate → in-flight → idle; a candidate that fails
// dedupe goes back to scanning with no side effect.
type ScanSession struct {
	svc        domain.CheckInService
	operatorID string
	logger     *slog.Logger
	now        func() time.Time

	mu           sync.Mutex
	lastCallback time.Time
	lastPayload  string
	lastAccepted time.Time
	inFlight     bool
	count        int
	lastScanAt   time.Time
}

// NewScanSession creates a scan session for one operator.
func NewScanSession(svc domain.CheckInService, operatorID string, logger *slog.Logger) *ScanSession {
	return &ScanSession{
		svc:        svc,
		operatorID: operatorID,
		logger:     logger,
		now:        time.Now,
	}
}

// HandleDecode processes one decoded QR payload. Discards (throttle, dedupe
// window, in-flight lock) return ErrScanDiscarded and must stay silent.
// While a submission is in flight every new payload is discarded, not queued.
// Cancelling ctx aborts the submission; an aborted submission is a no-op and
// re-arms the session.
func (s *ScanSession) HandleDecode(ctx context.Context, raw string) (*domain.CheckInResult, error) {
	now := s.now()

	s.mu.Lock()
	if !s.lastCallback.IsZero() && now.Sub(s.lastCallback) < scanCallbackThrottle {
		s.mu.Unlock()
		return nil, domain.ErrScanDiscarded
	}
	s.lastCallback = now

	if s.inFlight {
		s.mu.Unlock()
		return nil, domain.ErrScanDiscarded
	}
	if raw == s.lastPayload && !s.lastAccepted.IsZero() && now.Sub(s.lastAccepted) < scanDedupeWindow {
		s.mu.Unlock()
		return nil, domain.ErrScanDiscarded
	}

	payload, err := cards.ParseScanPayload(raw)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	s.inFlight = true
	s.lastPayload = raw
	s.lastAccepted = now
	s.mu.Unlock()

	res, err := s.svc.CheckIn(ctx, payload.ID, s.operatorID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if ctx.Err() != nil {
		// Aborted mid-flight: no-op, clear dedupe state so the next read
		// of the same badge goes through.
		s.lastPayload = ""
		s.lastAccepted = time.Time{}
		return nil, domain.ErrScanDiscarded
	}
	if err == nil && res != nil && res.Success {
		s.count++
		s.lastScanAt = s.now()
	}
	return res, err
}

// Reset clears dedupe and in-flight bookkeeping, re-arming the session.
// Called when the operator closes the result dialog.
func (s *ScanSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCallback = time.Time{}
	s.lastPayload = ""
	s.lastAccepted = time.Time{}
	s.inFlight = false
}

// Stats returns the session's successful check-in count and last scan time.
func (s *ScanSession) Stats() (count int, lastScanAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count, s.lastScanAt
}

// SetClock overrides the session clock. Test hook.
func (s *ScanSession) SetClock(now func() time.Time) { s.now = now }
