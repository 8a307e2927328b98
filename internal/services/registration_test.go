package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parishevents/internal/domain"
)

// fakeRegistrantRepo is a map-backed RegistrantRepository shared by the
// service tests in this package.
type fakeRegistrantRepo struct {
	mu        sync.Mutex
	nextID    int
	byID      map[string]*domain.Registrant
	createErr error
	updateErr error
}

func newFakeRegistrantRepo() *fakeRegistrantRepo {
	return &fakeRegistrantRepo{byID: make(map[string]*domain.Registrant)}
}

func (f *fakeRegistrantRepo) add(reg *domain.Registrant) *domain.Registrant {
	f.mu.Lock()
	defer f.mu.Unlock()
	if reg.ID == "" {
		f.nextID++
		reg.ID = fmt.Sprintf("reg-%d", f.nextID)
	}
	f.byID[reg.ID] = reg
	return reg
}

func (f *fakeRegistrantRepo) Create(_ context.Context, reg *domain.Registrant) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.add(reg)
	return nil
}

func (f *fakeRegistrantRepo) GetByID(_ context.Context, id string) (*domain.Registrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return reg, nil
}

func (f *fakeRegistrantRepo) GetByInvoiceCode(_ context.Context, code string) (*domain.Registrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, reg := range f.byID {
		if reg.InvoiceCode == code {
			return reg, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrantRepo) ListByEventID(_ context.Context, eventID string, _ domain.PaginationParams) ([]*domain.Registrant, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Registrant
	for _, reg := range f.byID {
		if reg.EventID == eventID {
			out = append(out, reg)
		}
	}
	return out, len(out), nil
}

func (f *fakeRegistrantRepo) ListByIDs(_ context.Context, ids []string) ([]*domain.Registrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Registrant
	for _, id := range ids {
		if reg, ok := f.byID[id]; ok {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (f *fakeRegistrantRepo) Update(_ context.Context, reg *domain.Registrant) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[reg.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[reg.ID] = reg
	return nil
}

func (f *fakeRegistrantRepo) UpdateTeam(_ context.Context, registrantID, teamID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.byID[registrantID]
	if !ok {
		return domain.ErrNotFound
	}
	reg.TeamID = teamID
	return nil
}

func (f *fakeRegistrantRepo) UpdatePortraitURL(_ context.Context, registrantID, portraitURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.byID[registrantID]
	if !ok {
		return domain.ErrNotFound
	}
	reg.PortraitURL = portraitURL
	return nil
}

func (f *fakeRegistrantRepo) SetPaymentStatus(_ context.Context, registrantID string, status domain.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.byID[registrantID]
	if !ok {
		return domain.ErrNotFound
	}
	reg.PaymentStatus = status
	return nil
}

func (f *fakeRegistrantRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeEventRepo struct {
	byID map[string]*domain.Event
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	r := &fakeEventRepo{byID: make(map[string]*domain.Event)}
	for _, ev := range events {
		r.byID[ev.ID] = ev
	}
	return r
}

func (f *fakeEventRepo) Create(_ context.Context, event *domain.Event) error {
	f.byID[event.ID] = event
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	ev, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (f *fakeEventRepo) GetBySlug(_ context.Context, slug string) (*domain.Event, error) {
	for _, ev := range f.byID {
		if ev.Slug == slug {
			return ev, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(_ context.Context) ([]*domain.Event, error) {
	out := make([]*domain.Event, 0, len(f.byID))
	for _, ev := range f.byID {
		out = append(out, ev)
	}
	return out, nil
}

type fakeEmailService struct {
	sent []*domain.RegistrationEmailData
	err  error
}

func (f *fakeEmailService) SendRegistrationConfirmation(_ context.Context, data *domain.RegistrationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

func newRegistrationFixture(emailSvc domain.EmailService) (domain.RegistrationService, *fakeRegistrantRepo, *fakeEventRepo) {
	regRepo := newFakeRegistrantRepo()
	eventRepo := newFakeEventRepo(&domain.Event{ID: "event-1", Name: "Đại Hội Giới Trẻ", Slug: "dai-hoi-gioi-tre"})
	svc := NewRegistrationService(regRepo, eventRepo, emailSvc, discardLogger())
	return svc, regRepo, eventRepo
}

func TestRegistrationService_SignUp(t *testing.T) {
	emailSvc := &fakeEmailService{}
	svc, regRepo, _ := newRegistrationFixture(emailSvc)

	reg, err := svc.SignUp(context.Background(), domain.SignUpInput{
		EventID:   "event-1",
		FullName:  "  Nguyễn Văn An  ",
		SaintName: "Phêrô",
		Email:     "An@Example.COM",
		Phone:     "0901234567",
	})
	require.NoError(t, err)

	assert.Equal(t, "Nguyễn Văn An", reg.FullName)
	assert.Equal(t, "an@example.com", reg.Email)
	assert.Equal(t, domain.PaymentPending, reg.PaymentStatus)
	assert.True(t, strings.HasPrefix(reg.InvoiceCode, "HD-"), "invoice code %q", reg.InvoiceCode)
	assert.Len(t, reg.InvoiceCode, len("HD-")+8)
	assert.Nil(t, reg.EventRole)

	stored, err := regRepo.GetByID(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.InvoiceCode, stored.InvoiceCode)

	require.Len(t, emailSvc.sent, 1)
	assert.Equal(t, "an@example.com", emailSvc.sent[0].Email)
	assert.Equal(t, "Đại Hội Giới Trẻ", emailSvc.sent[0].EventName)
	assert.Equal(t, reg.InvoiceCode, emailSvc.sent[0].InvoiceCode)
}

func TestRegistrationService_SignUp_Validation(t *testing.T) {
	svc, _, _ := newRegistrationFixture(nil)

	_, err := svc.SignUp(context.Background(), domain.SignUpInput{EventID: "event-1", FullName: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SignUp(context.Background(), domain.SignUpInput{FullName: "Nguyễn Văn An"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistrationService_SignUp_EventNotFound(t *testing.T) {
	svc, _, _ := newRegistrationFixture(nil)

	_, err := svc.SignUp(context.Background(), domain.SignUpInput{EventID: "nope", FullName: "Nguyễn Văn An"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistrationService_SignUp_RoleName(t *testing.T) {
	svc, _, _ := newRegistrationFixture(nil)

	reg, err := svc.SignUp(context.Background(), domain.SignUpInput{
		EventID:  "event-1",
		FullName: "Trần Thị Bình",
		RoleName: " Ban Tổ Chức ",
	})
	require.NoError(t, err)
	require.NotNil(t, reg.EventRole)
	assert.Equal(t, "Ban Tổ Chức", reg.EventRole.Name)
}

func TestRegistrationService_SignUp_EmailFailureDoesNotFail(t *testing.T) {
	emailSvc := &fakeEmailService{err: errors.New("ses unavailable")}
	svc, regRepo, _ := newRegistrationFixture(emailSvc)

	reg, err := svc.SignUp(context.Background(), domain.SignUpInput{
		EventID:  "event-1",
		FullName: "Lê Văn Cường",
		Email:    "cuong@example.com",
	})
	require.NoError(t, err)

	_, err = regRepo.GetByID(context.Background(), reg.ID)
	assert.NoError(t, err)
}

func TestRegistrationService_Update_RequiresName(t *testing.T) {
	svc, regRepo, _ := newRegistrationFixture(nil)
	reg := regRepo.add(&domain.Registrant{EventID: "event-1", FullName: "Nguyễn Văn An"})

	reg.FullName = ""
	err := svc.Update(context.Background(), reg)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistrationService_Delete(t *testing.T) {
	svc, regRepo, _ := newRegistrationFixture(nil)
	reg := regRepo.add(&domain.Registrant{EventID: "event-1", FullName: "Nguyễn Văn An"})

	require.NoError(t, svc.Delete(context.Background(), reg.ID))

	_, err := regRepo.GetByID(context.Background(), reg.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), reg.ID), domain.ErrNotFound)
}
