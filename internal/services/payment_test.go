package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parishevents/internal/domain"
)

type fakeReceiptRepo struct {
	mu     sync.Mutex
	nextID int
	byID   map[string]*domain.PaymentReceipt
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{byID: make(map[string]*domain.PaymentReceipt)}
}

func (f *fakeReceiptRepo) add(rcpt *domain.PaymentReceipt) *domain.PaymentReceipt {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rcpt.ID == "" {
		f.nextID++
		rcpt.ID = fmt.Sprintf("rcpt-%d", f.nextID)
	}
	f.byID[rcpt.ID] = rcpt
	return rcpt
}

func (f *fakeReceiptRepo) Create(_ context.Context, rcpt *domain.PaymentReceipt) error {
	f.add(rcpt)
	return nil
}

func (f *fakeReceiptRepo) GetByID(_ context.Context, id string) (*domain.PaymentReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rcpt, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rcpt, nil
}

func (f *fakeReceiptRepo) GetByRegistrantID(_ context.Context, registrantID string) (*domain.PaymentReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *domain.PaymentReceipt
	for _, rcpt := range f.byID {
		if rcpt.RegistrantID != registrantID {
			continue
		}
		if latest == nil || rcpt.SubmittedAt.After(latest.SubmittedAt) {
			latest = rcpt
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	return latest, nil
}

func (f *fakeReceiptRepo) ListPending(_ context.Context) ([]*domain.PaymentReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.PaymentReceipt
	for _, rcpt := range f.byID {
		if rcpt.Status == domain.PaymentPending {
			out = append(out, rcpt)
		}
	}
	return out, nil
}

func (f *fakeReceiptRepo) SetStatus(_ context.Context, id string, status domain.PaymentStatus, reviewedBy string, reviewedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rcpt, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	rcpt.Status = status
	rcpt.ReviewedBy = reviewedBy
	rcpt.ReviewedAt = &reviewedAt
	return nil
}

func newPaymentFixture() (domain.PaymentService, *fakeReceiptRepo, *fakeRegistrantRepo) {
	receiptRepo := newFakeReceiptRepo()
	regRepo := newFakeRegistrantRepo()
	return NewPaymentService(receiptRepo, regRepo), receiptRepo, regRepo
}

func TestPaymentService_SubmitReceipt(t *testing.T) {
	svc, _, regRepo := newPaymentFixture()
	reg := regRepo.add(&domain.Registrant{EventID: "event-1", FullName: "Nguyễn Văn An"})

	rcpt, err := svc.SubmitReceipt(context.Background(), reg.ID, "https://cdn.example.com/receipt.jpg", 250000, " chuyển khoản ")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, rcpt.Status)
	assert.Equal(t, "chuyển khoản", rcpt.Note)
	assert.NotEmpty(t, rcpt.ID)
	assert.False(t, rcpt.SubmittedAt.IsZero())
}

func TestPaymentService_SubmitReceipt_Validation(t *testing.T) {
	svc, _, regRepo := newPaymentFixture()
	reg := regRepo.add(&domain.Registrant{EventID: "event-1", FullName: "Nguyễn Văn An"})

	_, err := svc.SubmitReceipt(context.Background(), reg.ID, "  ", 250000, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SubmitReceipt(context.Background(), reg.ID, "https://cdn.example.com/r.jpg", 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SubmitReceipt(context.Background(), "missing", "https://cdn.example.com/r.jpg", 250000, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPaymentService_Verify(t *testing.T) {
	svc, receiptRepo, regRepo := newPaymentFixture()
	reg := regRepo.add(&domain.Registrant{EventID: "event-1", FullName: "Nguyễn Văn An", PaymentStatus: domain.PaymentPending})
	rcpt := receiptRepo.add(&domain.PaymentReceipt{RegistrantID: reg.ID, Status: domain.PaymentPending, SubmittedAt: time.Now()})

	require.NoError(t, svc.Verify(context.Background(), rcpt.ID, "user-1"))

	gotRcpt, err := receiptRepo.GetByID(context.Background(), rcpt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentVerified, gotRcpt.Status)
	assert.Equal(t, "user-1", gotRcpt.ReviewedBy)
	require.NotNil(t, gotRcpt.ReviewedAt)

	// The registrant's payment status tracks the review decision.
	gotReg, err := regRepo.GetByID(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentVerified, gotReg.PaymentStatus)
}

func TestPaymentService_Reject(t *testing.T) {
	svc, receiptRepo, regRepo := newPaymentFixture()
	reg := regRepo.add(&domain.Registrant{EventID: "event-1", FullName: "Trần Thị Bình", PaymentStatus: domain.PaymentPending})
	rcpt := receiptRepo.add(&domain.PaymentReceipt{RegistrantID: reg.ID, Status: domain.PaymentPending, SubmittedAt: time.Now()})

	require.NoError(t, svc.Reject(context.Background(), rcpt.ID, "user-2"))

	gotReg, err := regRepo.GetByID(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRejected, gotReg.PaymentStatus)
}

func TestPaymentService_Review_AlreadyReviewed(t *testing.T) {
	svc, receiptRepo, regRepo := newPaymentFixture()
	reg := regRepo.add(&domain.Registrant{EventID: "event-1", FullName: "Nguyễn Văn An"})
	rcpt := receiptRepo.add(&domain.PaymentReceipt{RegistrantID: reg.ID, Status: domain.PaymentVerified, SubmittedAt: time.Now()})

	err := svc.Verify(context.Background(), rcpt.ID, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, svc.Verify(context.Background(), "missing", "user-1"), domain.ErrNotFound)
}

func TestPaymentService_ListPending(t *testing.T) {
	svc, receiptRepo, regRepo := newPaymentFixture()
	reg := regRepo.add(&domain.Registrant{EventID: "event-1", FullName: "Nguyễn Văn An"})
	receiptRepo.add(&domain.PaymentReceipt{RegistrantID: reg.ID, Status: domain.PaymentPending, SubmittedAt: time.Now()})
	receiptRepo.add(&domain.PaymentReceipt{RegistrantID: reg.ID, Status: domain.PaymentVerified, SubmittedAt: time.Now()})

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, domain.PaymentPending, pending[0].Status)
}
