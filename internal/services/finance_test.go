package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parishevents/internal/domain"
)

type fakeDonationRepo struct {
	mu     sync.Mutex
	nextID int
	byID   map[string]*domain.Donation
}

func newFakeDonationRepo() *fakeDonationRepo {
	return &fakeDonationRepo{byID: make(map[string]*domain.Donation)}
}

func (f *fakeDonationRepo) Create(_ context.Context, d *domain.Donation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == "" {
		f.nextID++
		d.ID = fmt.Sprintf("don-%d", f.nextID)
	}
	f.byID[d.ID] = d
	return nil
}

func (f *fakeDonationRepo) ListByEventID(_ context.Context, eventID string) ([]*domain.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Donation
	for _, d := range f.byID {
		if d.EventID == eventID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDonationRepo) SumByEventID(_ context.Context, eventID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, d := range f.byID {
		if d.EventID == eventID {
			sum += d.Amount
		}
	}
	return sum, nil
}

type fakeExpenseRepo struct {
	mu     sync.Mutex
	nextID int
	byID   map[string]*domain.ExpenseClaim
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{byID: make(map[string]*domain.ExpenseClaim)}
}

func (f *fakeExpenseRepo) add(e *domain.ExpenseClaim) *domain.ExpenseClaim {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == "" {
		f.nextID++
		e.ID = fmt.Sprintf("exp-%d", f.nextID)
	}
	f.byID[e.ID] = e
	return e
}

func (f *fakeExpenseRepo) Create(_ context.Context, e *domain.ExpenseClaim) error {
	f.add(e)
	return nil
}

func (f *fakeExpenseRepo) GetByID(_ context.Context, id string) (*domain.ExpenseClaim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (f *fakeExpenseRepo) ListByEventID(_ context.Context, eventID string) ([]*domain.ExpenseClaim, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.ExpenseClaim
	for _, e := range f.byID {
		if e.EventID == eventID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExpenseRepo) UpdateStatus(_ context.Context, id string, status domain.ExpenseStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Status = status
	return nil
}

func (f *fakeExpenseRepo) SumReimbursedByEventID(_ context.Context, eventID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, e := range f.byID {
		if e.EventID == eventID && e.Status == domain.ExpenseReimbursed {
			sum += e.Amount
		}
	}
	return sum, nil
}

func (f *fakeExpenseRepo) CountPendingByEventID(_ context.Context, eventID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, e := range f.byID {
		if e.EventID == eventID && e.Status == domain.ExpensePending {
			count++
		}
	}
	return count, nil
}

func newFinanceFixture() (domain.FinanceService, *fakeDonationRepo, *fakeExpenseRepo) {
	donationRepo := newFakeDonationRepo()
	expenseRepo := newFakeExpenseRepo()
	return NewFinanceService(donationRepo, expenseRepo), donationRepo, expenseRepo
}

func TestFinanceService_RecordDonation(t *testing.T) {
	svc, _, _ := newFinanceFixture()

	d, err := svc.RecordDonation(context.Background(), "event-1", "  Giáo Xứ Thánh Tâm ", 5000000, " ủng hộ quỹ ")
	require.NoError(t, err)
	assert.Equal(t, "Giáo Xứ Thánh Tâm", d.DonorName)
	assert.Equal(t, "ủng hộ quỹ", d.Note)
	assert.NotEmpty(t, d.ID)

	_, err = svc.RecordDonation(context.Background(), "event-1", "  ", 1000, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.RecordDonation(context.Background(), "event-1", "Ẩn danh", -1, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFinanceService_SubmitExpense(t *testing.T) {
	svc, _, _ := newFinanceFixture()

	e, err := svc.SubmitExpense(context.Background(), "event-1", "Nguyễn Văn An", 300000, "mua nước uống", "https://cdn.example.com/bill.jpg")
	require.NoError(t, err)
	assert.Equal(t, domain.ExpensePending, e.Status)
	assert.NotEmpty(t, e.ID)

	_, err = svc.SubmitExpense(context.Background(), "event-1", "  ", 300000, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SubmitExpense(context.Background(), "event-1", "Nguyễn Văn An", 0, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFinanceService_ReviewExpense(t *testing.T) {
	svc, _, expenseRepo := newFinanceFixture()
	claim := expenseRepo.add(&domain.ExpenseClaim{EventID: "event-1", Claimant: "Nguyễn Văn An", Amount: 300000, Status: domain.ExpensePending})

	require.NoError(t, svc.ReviewExpense(context.Background(), claim.ID, domain.ExpenseApproved))
	got, err := expenseRepo.GetByID(context.Background(), claim.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ExpenseApproved, got.Status)

	require.NoError(t, svc.ReviewExpense(context.Background(), claim.ID, domain.ExpenseReimbursed))
	got, err = expenseRepo.GetByID(context.Background(), claim.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ExpenseReimbursed, got.Status)
}

func TestFinanceService_ReviewExpense_Invalid(t *testing.T) {
	svc, _, expenseRepo := newFinanceFixture()
	claim := expenseRepo.add(&domain.ExpenseClaim{EventID: "event-1", Claimant: "Nguyễn Văn An", Amount: 300000, Status: domain.ExpensePending})

	// Pending is not a review decision.
	err := svc.ReviewExpense(context.Background(), claim.ID, domain.ExpensePending)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.ReviewExpense(context.Background(), claim.ID, domain.ExpenseStatus("paid"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Reimbursing straight from pending skips approval.
	err = svc.ReviewExpense(context.Background(), claim.ID, domain.ExpenseReimbursed)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, svc.ReviewExpense(context.Background(), "missing", domain.ExpenseApproved), domain.ErrNotFound)
}

func TestFinanceService_Summary(t *testing.T) {
	svc, donationRepo, expenseRepo := newFinanceFixture()
	require.NoError(t, donationRepo.Create(context.Background(), &domain.Donation{EventID: "event-1", DonorName: "A", Amount: 2000000}))
	require.NoError(t, donationRepo.Create(context.Background(), &domain.Donation{EventID: "event-1", DonorName: "B", Amount: 500000}))
	require.NoError(t, donationRepo.Create(context.Background(), &domain.Donation{EventID: "event-2", DonorName: "C", Amount: 9000000}))
	expenseRepo.add(&domain.ExpenseClaim{EventID: "event-1", Claimant: "An", Amount: 300000, Status: domain.ExpenseReimbursed})
	expenseRepo.add(&domain.ExpenseClaim{EventID: "event-1", Claimant: "Bình", Amount: 150000, Status: domain.ExpensePending})
	expenseRepo.add(&domain.ExpenseClaim{EventID: "event-1", Claimant: "Cường", Amount: 80000, Status: domain.ExpenseRejected})

	summary, err := svc.Summary(context.Background(), "event-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2500000), summary.TotalDonations)
	assert.Equal(t, int64(300000), summary.TotalReimbursed)
	assert.Equal(t, 1, summary.PendingClaims)
}
