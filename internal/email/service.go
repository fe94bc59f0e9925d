// Package email delivers account emails. No provider is wired up yet, so
// the service logs the links it would send; swapping in a real sender
// only needs another implementation of the same methods.
package email

import (
	"context"
	"fmt"
	"net/url"

	"userhub/internal/logging"
)

type Service struct {
	baseURL string
	logger  *logging.Logger
}

func NewService(baseURL string, logger *logging.Logger) *Service {
	return &Service{baseURL: baseURL, logger: logger}
}

// SendVerificationEmail logs the email verification link for the account.
func (s *Service) SendVerificationEmail(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/users/verify-email?email_verify_token=%s", s.baseURL, url.QueryEscape(token))
	s.logger.InfoContext(ctx, "sending verification email",
		"email", to,
		"link", link,
	)
	return nil
}

// SendPasswordResetEmail logs the password reset link for the account.
func (s *Service) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	link := fmt.Sprintf("%s/users/reset-password?forgot_password_token=%s", s.baseURL, url.QueryEscape(token))
	s.logger.InfoContext(ctx, "sending password reset email",
		"email", to,
		"link", link,
	)
	return nil
}
