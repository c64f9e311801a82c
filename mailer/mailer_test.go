package mailer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthsoc/blogapi/mailer"
)

func TestNewSMTPMailer(t *testing.T) {
	t.Run("requires host and from", func(t *testing.T) {
		_, err := mailer.NewSMTPMailer("", "587", "", "", "news@example.org", "")
		assert.Error(t, err)

		_, err = mailer.NewSMTPMailer("smtp.example.org", "587", "", "", "", "")
		assert.Error(t, err)
	})

	t.Run("defaults the port and trims the base url", func(t *testing.T) {
		m, err := mailer.NewSMTPMailer("smtp.example.org", "", "", "", "news@example.org", "https://example.org/")
		require.NoError(t, err)

		assert.Equal(t, "587", m.Port)
		assert.Equal(t, "https://example.org", m.BaseURL)
	})
}

func TestNoop(t *testing.T) {
	var m mailer.Mailer = mailer.Noop{}

	assert.NoError(t, m.SendVerification("a@example.org", "code"))
	assert.NoError(t, m.SendWelcome("a@example.org"))
}
