package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parishevents/internal/domain"
)

type fakeMailer struct {
	to, subject, html, text string
	err                     error
}

func (f *fakeMailer) Send(to, subject, html, text string) error {
	if f.err != nil {
		return f.err
	}
	f.to, f.subject, f.html, f.text = to, subject, html, text
	return nil
}

type fakeRenderer struct {
	err error
}

func (f *fakeRenderer) Render(templateName string, data any) (string, string, string, error) {
	if f.err != nil {
		return "", "", "", f.err
	}
	d := data.(*domain.RegistrationEmailData)
	return "Xác nhận đăng ký " + d.EventName, "<p>" + d.FullName + "</p>", d.FullName, nil
}

func TestEmailService_SendRegistrationConfirmation(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewEmailService(mailer, &fakeRenderer{}, discardLogger())

	err := svc.SendRegistrationConfirmation(context.Background(), &domain.RegistrationEmailData{
		Email:       "an@example.com",
		FullName:    "Nguyễn Văn An",
		EventName:   "Đại Hội Giới Trẻ",
		InvoiceCode: "HD-1A2B3C4D",
	})
	require.NoError(t, err)

	assert.Equal(t, "an@example.com", mailer.to)
	assert.Equal(t, "Xác nhận đăng ký Đại Hội Giới Trẻ", mailer.subject)
	assert.Contains(t, mailer.html, "Nguyễn Văn An")
}

func TestEmailService_SendRegistrationConfirmation_Errors(t *testing.T) {
	svc := NewEmailService(&fakeMailer{}, &fakeRenderer{err: errors.New("missing template")}, discardLogger())
	err := svc.SendRegistrationConfirmation(context.Background(), &domain.RegistrationEmailData{Email: "an@example.com"})
	assert.Error(t, err)

	svc = NewEmailService(&fakeMailer{err: errors.New("ses throttled")}, &fakeRenderer{}, discardLogger())
	err = svc.SendRegistrationConfirmation(context.Background(), &domain.RegistrationEmailData{Email: "an@example.com"})
	assert.Error(t, err)

	svc = NewEmailService(&fakeMailer{}, &fakeRenderer{}, discardLogger())
	assert.Error(t, svc.SendRegistrationConfirmation(context.Background(), nil))
}
