package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parishevents/internal/domain"
)

func TestTemplateRenderer_RegistrationConfirmation(t *testing.T) {
	r := NewTemplateRenderer()

	subject, htmlBody, textBody, err := r.Render("registration_confirmation", &domain.RegistrationEmailData{
		Email:       "an@example.com",
		FullName:    "Nguyễn Văn An",
		EventName:   "Đại Hội Giới Trẻ",
		InvoiceCode: "HD-1A2B3C4D",
	})
	require.NoError(t, err)

	assert.Contains(t, subject, "Đại Hội Giới Trẻ")
	assert.Contains(t, subject, "HD-1A2B3C4D")
	assert.Contains(t, htmlBody, "Nguyễn Văn An")
	assert.Contains(t, htmlBody, "HD-1A2B3C4D")
	assert.Contains(t, textBody, "Nguyễn Văn An")
	assert.Contains(t, textBody, "HD-1A2B3C4D")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r := NewTemplateRenderer()

	_, _, _, err := r.Render("does_not_exist", nil)
	assert.Error(t, err)
}
