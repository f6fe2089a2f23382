package service

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Resend sandbox addresses; real mailboxes are never contacted while
// developing locally.
const (
	sandboxFromAddress = "onboarding@resend.dev"
	sandboxToAddress   = "delivered@resend.dev"
)

type ResendEmailSender struct {
	client  *resend.Client
	from    string
	sandbox bool
}

func NewResendEmailSender(apiKey string, from string, sandbox bool) *ResendEmailSender {
	return &ResendEmailSender{
		client:  resend.NewClient(apiKey),
		from:    from,
		sandbox: sandbox,
	}
}

func (s *ResendEmailSender) SendVerificationEmail(ctx context.Context, email string, url string) (string, error) {
	subject := "Verify your email"
	html := fmt.Sprintf("<p>Click the link below to verify your email address:</p><p><a href=\"%s\">Verify Email</a></p>", url)
	text := fmt.Sprintf("Verify your email address: %s", url)
	return s.send(ctx, email, subject, html, text)
}

func (s *ResendEmailSender) SendPasswordResetEmail(ctx context.Context, email string, url string) (string, error) {
	subject := "Reset your password"
	html := fmt.Sprintf("<p>Click the link below to reset your password:</p><p><a href=\"%s\">Reset Password</a></p>", url)
	text := fmt.Sprintf("Reset your password: %s", url)
	return s.send(ctx, email, subject, html, text)
}

func (s *ResendEmailSender) send(_ context.Context, to string, subject string, html string, text string) (string, error) {
	from := s.from
	if s.sandbox {
		from = sandboxFromAddress
		to = sandboxToAddress
	}
	sent, err := s.client.Emails.Send(&resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Text:    text,
	})
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}
