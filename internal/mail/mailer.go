package mail

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// Mailer sends transactional email. The auth service depends on this
// interface so tests can substitute a recording fake.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

type resendMailer struct {
	client *resend.Client
	from   string
}

// NewResendMailer creates a Mailer backed by the Resend API.
func NewResendMailer(apiKey, from string) Mailer {
	return &resendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (m *resendMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: "Reset your FitTracker password",
		Html: fmt.Sprintf(
			`<p>We received a request to reset your password.</p>`+
				`<p><a href="%s">Choose a new password</a></p>`+
				`<p>This link expires shortly. If you did not ask for a reset, you can ignore this email.</p>`,
			resetURL),
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Printf("ERROR: Failed to send password reset email to %s: %v", to, err)
		return fmt.Errorf("sending password reset email: %w", err)
	}

	log.Printf("INFO: Password reset email sent to %s (message id %s)", to, sent.Id)
	return nil
}
