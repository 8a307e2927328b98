package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parishevents/internal/domain"
)

type mockRegistrantRepository struct {
	domain.RegistrantRepository
	regs map[string]*domain.Registrant
}

func (m *mockRegistrantRepository) GetByID(ctx context.Context, id string) (*domain.Registrant, error) {
	reg, ok := m.regs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return reg, nil
}

type mockCheckInRepository struct {
	domain.CheckInRepository
	mu       sync.Mutex
	byReg    map[string]*domain.CheckIn
	createGo chan struct{} // when set, Create blocks until closed
}

func (m *mockCheckInRepository) Create(ctx context.Context, c *domain.CheckIn) error {
	if m.createGo != nil {
		select {
		case <-m.createGo:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = "checkin-" + c.RegistrantID
	m.byReg[c.RegistrantID] = c
	return nil
}

func (m *mockCheckInRepository) GetByRegistrantID(ctx context.Context, registrantID string) (*domain.CheckIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byReg[registrantID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockCheckInRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byReg)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newCheckInFixture(ids ...string) (*mockRegistrantRepository, *mockCheckInRepository, domain.CheckInService) {
	regs := make(map[string]*domain.Registrant, len(ids))
	for _, id := range ids {
		regs[id] = &domain.Registrant{ID: id, FullName: "Nguyễn Văn " + id}
	}
	regRepo := &mockRegistrantRepository{regs: regs}
	checkRepo := &mockCheckInRepository{byReg: make(map[string]*domain.CheckIn)}
	svc := NewCheckInService(regRepo, checkRepo, discardLogger())
	return regRepo, checkRepo, svc
}

func TestCheckInService_Success(t *testing.T) {
	_, repo, svc := newCheckInFixture("abc123")

	res, err := svc.CheckIn(context.Background(), "abc123", "op1")
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "Check-in thành công", res.Message)
	require.NotNil(t, res.Registrant)
	assert.Equal(t, "abc123", res.Registrant.ID)
	assert.Equal(t, 1, repo.count())
}

func TestCheckInService_AlreadyCheckedIn(t *testing.T) {
	_, repo, svc := newCheckInFixture("abc123")

	_, err := svc.CheckIn(context.Background(), "abc123", "op1")
	require.NoError(t, err)

	res, err := svc.CheckIn(context.Background(), "abc123", "op2")
	require.ErrorIs(t, err, domain.ErrAlreadyCheckedIn)
	require.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
	assert.Equal(t, 1, repo.count(), "no duplicate record")
}

func TestCheckInService_UnknownRegistrant(t *testing.T) {
	_, _, svc := newCheckInFixture()

	res, err := svc.CheckIn(context.Background(), "ghost", "op1")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
}

func TestScanSession_DedupeWindow(t *testing.T) {
	_, repo, svc := newCheckInFixture("abc123")
	session := NewScanSession(svc, "op1", discardLogger())

	base := time.Date(2026, 7, 18, 8, 0, 0, 0, time.UTC)
	current := base
	session.SetClock(func() time.Time { return current })

	const payload = `{"id":"abc123"}`

	// t=0: accepted and submitted.
	res, err := session.HandleDecode(context.Background(), payload)
	require.NoError(t, err)
	require.True(t, res.Success)

	// t=1s: passes the callback throttle but lands in the dedupe window.
	current = base.Add(1 * time.Second)
	_, err = session.HandleDecode(context.Background(), payload)
	require.ErrorIs(t, err, domain.ErrScanDiscarded)
	assert.Equal(t, 1, repo.count())

	// t=4s: outside the window, submitted again.
	current = base.Add(4 * time.Second)
	res, err = session.HandleDecode(context.Background(), payload)
	require.ErrorIs(t, err, domain.ErrAlreadyCheckedIn)
	require.False(t, res.Success)
}

func TestScanSession_ThrottleDropsRapidCallbacks(t *testing.T) {
	_, repo, svc := newCheckInFixture("abc123", "def456")
	session := NewScanSession(svc, "op1", discardLogger())

	base := time.Date(2026, 7, 18, 8, 0, 0, 0, time.UTC)
	current := base
	session.SetClock(func() time.Time { return current })

	_, err := session.HandleDecode(context.Background(), `{"id":"abc123"}`)
	require.NoError(t, err)

	// 500ms later a different badge decodes; still inside the throttle.
	current = base.Add(500 * time.Millisecond)
	_, err = session.HandleDecode(context.Background(), `{"id":"def456"}`)
	require.ErrorIs(t, err, domain.ErrScanDiscarded)
	assert.Equal(t, 1, repo.count())

	// Past the throttle the second badge goes through.
	current = base.Add(1500 * time.Millisecond)
	res, err := session.HandleDecode(context.Background(), `{"id":"def456"}`)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 2, repo.count())
}

func TestScanSession_InFlightExclusivity(t *testing.T) {
	regRepo := &mockRegistrantRepository{regs: map[string]*domain.Registrant{
		"abc123": {ID: "abc123", FullName: "An"},
		"def456": {ID: "def456", FullName: "Bích"},
	}}
	checkRepo := &mockCheckInRepository{
		byReg:    make(map[string]*domain.CheckIn),
		createGo: make(chan struct{}),
	}
	svc := NewCheckInService(regRepo, checkRepo, discardLogger())
	session := NewScanSession(svc, "op1", discardLogger())

	base := time.Date(2026, 7, 18, 8, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	current := base
	setClock := func(t time.Time) {
		mu.Lock()
		current = t
		mu.Unlock()
	}
	session.SetClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	})

	done := make(chan error, 1)
	go func() {
		_, err := session.HandleDecode(context.Background(), `{"id":"abc123"}`)
		done <- err
	}()

	// Wait for the first submission to be blocked inside the repository.
	require.Eventually(t, func() bool {
		session.mu.Lock()
		defer session.mu.Unlock()
		return session.inFlight
	}, time.Second, 5*time.Millisecond)

	setClock(base.Add(2 * time.Second))
	_, err := session.HandleDecode(context.Background(), `{"id":"def456"}`)
	require.ErrorIs(t, err, domain.ErrScanDiscarded,
		"payloads during an in-flight submission are discarded, not queued")

	close(checkRepo.createGo)
	require.NoError(t, <-done)
	assert.Equal(t, 1, checkRepo.count())
}

func TestScanSession_AbortClearsDedupeState(t *testing.T) {
	regRepo := &mockRegistrantRepository{regs: map[string]*domain.Registrant{
		"abc123": {ID: "abc123", FullName: "An"},
	}}
	checkRepo := &mockCheckInRepository{
		byReg:    make(map[string]*domain.CheckIn),
		createGo: make(chan struct{}),
	}
	svc := NewCheckInService(regRepo, checkRepo, discardLogger())
	session := NewScanSession(svc, "op1", discardLogger())

	base := time.Date(2026, 7, 18, 8, 0, 0, 0, time.UTC)
	current := base
	session.SetClock(func() time.Time { return current })

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := session.HandleDecode(ctx, `{"id":"abc123"}`)
	require.ErrorIs(t, err, domain.ErrScanDiscarded)
	assert.Equal(t, 0, checkRepo.count(), "aborted submission is a no-op")
	close(checkRepo.createGo)

	// The same badge re-read right after the abort is accepted again.
	current = base.Add(2 * time.Second)
	res, err := session.HandleDecode(context.Background(), `{"id":"abc123"}`)
	require.NoError(t, err)
	require.True(t, res.Success)
}

func TestScanSession_BarePayloadAndStats(t *testing.T) {
	_, _, svc := newCheckInFixture("abc123")
	session := NewScanSession(svc, "op1", discardLogger())

	base := time.Date(2026, 7, 18, 8, 0, 0, 0, time.UTC)
	session.SetClock(func() time.Time { return base })

	res, err := session.HandleDecode(context.Background(), "abc123")
	require.NoError(t, err)
	require.True(t, res.Success)

	count, lastScanAt := session.Stats()
	assert.Equal(t, 1, count)
	assert.Equal(t, base, lastScanAt)
}

func TestScanSession_ResetReArms(t *testing.T) {
	_, repo, svc := newCheckInFixture("abc123", "def456")
	session := NewScanSession(svc, "op1", discardLogger())

	base := time.Date(2026, 7, 18, 8, 0, 0, 0, time.UTC)
	current := base
	session.SetClock(func() time.Time { return current })

	_, err := session.HandleDecode(context.Background(), `{"id":"abc123"}`)
	require.NoError(t, err)

	// Without Reset this would be throttled and deduped.
	session.Reset()
	res, err := session.HandleDecode(context.Background(), `{"id":"def456"}`)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 2, repo.count())
}
