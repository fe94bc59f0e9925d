// Package auth implements registration, sessions and the email-driven
// account flows on top of the user store and the token codec.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"userhub/internal/apperr"
	"userhub/internal/logging"
	"userhub/internal/token"
	"userhub/internal/user"
)

// Mailer delivers account emails. Failures are logged, never surfaced to
// the client.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
	SendPasswordResetEmail(ctx context.Context, to, token string) error
}

// TokenPair is the session credential set returned by every operation
// that starts or renews a session.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Service orchestrates the account flows. All session and token
// invariants are enforced here; handlers stay thin.
type Service struct {
	users          user.Store
	refreshTokens  RefreshTokenStore
	codec          *token.Codec
	hasher         *Hasher
	mailer         Mailer
	logger         *logging.Logger
	resendDebounce time.Duration
}

func NewService(
	users user.Store,
	refreshTokens RefreshTokenStore,
	codec *token.Codec,
	hasher *Hasher,
	mailer Mailer,
	logger *logging.Logger,
	resendDebounce time.Duration,
) *Service {
	return &Service{
		users:          users,
		refreshTokens:  refreshTokens,
		codec:          codec,
		hasher:         hasher,
		mailer:         mailer,
		logger:         logger,
		resendDebounce: resendDebounce,
	}
}

// signTokenPair issues a fresh access+refresh pair and persists the
// refresh token. The user's current verify status is embedded in both
// tokens.
func (s *Service) signTokenPair(ctx context.Context, userID uuid.UUID, verify user.VerifyStatus) (*TokenPair, error) {
	accessToken, err := s.codec.Issue(token.AccessToken, userID.String(), verify)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.Issue(token.RefreshToken, userID.String(), verify)
	if err != nil {
		return nil, err
	}
	if err := s.refreshTokens.InsertOne(ctx, userID, refreshToken); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) sendMail(ctx context.Context, send func(ctx context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := send(ctx); err != nil {
			s.logger.Error("failed to send email", "error", err)
		}
	}()
}

// findByID resolves a token payload's user id to a user, mapping any
// miss to the 404 the account flows report.
func (s *Service) findByID(ctx context.Context, userID string) (*user.User, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperr.NewStatus(MsgUserNotFound, http.StatusNotFound)
	}

	u, err := s.users.FindOne(ctx, user.Filter{ID: &uid})
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperr.NewStatus(MsgUserNotFound, http.StatusNotFound)
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	return u, nil
}

// RegisterParams is the validated registration input.
type RegisterParams struct {
	Name        string
	Email       string
	DateOfBirth time.Time
	Password    string
}

// Register creates an unverified account, emails the verification link
// and opens the first session.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*TokenPair, error) {
	id := uuid.New()

	emailVerifyToken, err := s.codec.Issue(token.EmailVerifyToken, id.String(), user.Unverified)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &user.User{
		ID:               id,
		Name:             params.Name,
		Email:            params.Email,
		DateOfBirth:      params.DateOfBirth,
		Password:         s.hasher.Hash(params.Password),
		EmailVerifyToken: emailVerifyToken,
		Verify:           user.Unverified,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.users.InsertOne(ctx, u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, apperr.NewEntityError(apperr.Errors{
				"email": {Msg: MsgEmailAlreadyExists},
			})
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	s.sendMail(ctx, func(ctx context.Context) error {
		return s.mailer.SendVerificationEmail(ctx, u.Email, emailVerifyToken)
	})

	return s.signTokenPair(ctx, id, user.Unverified)
}

// Login opens a session for a user already matched by the login
// validator.
func (s *Service) Login(ctx context.Context, u *user.User) (*TokenPair, error) {
	return s.signTokenPair(ctx, u.ID, u.Verify)
}

// Logout discards the refresh token. Discarding a token that is already
// gone still succeeds.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshTokens.DeleteOne(ctx, refreshToken)
}

// Refresh rotates a session: the old refresh token is consumed and a
// fresh pair is issued carrying the verify status recorded in the old
// token.
func (s *Service) Refresh(ctx context.Context, oldToken string, payload *token.Payload) (*TokenPair, error) {
	uid, err := uuid.Parse(payload.UserID)
	if err != nil {
		return nil, apperr.NewStatus(MsgUserNotFound, http.StatusNotFound)
	}

	if err := s.refreshTokens.DeleteOne(ctx, oldToken); err != nil {
		return nil, err
	}
	return s.signTokenPair(ctx, uid, payload.Verify)
}

// VerifyEmail consumes the pending email verification token and opens a
// session. Verifying an already-verified account is not an error; the
// returned message tells the two outcomes apart.
func (s *Service) VerifyEmail(ctx context.Context, userID, submitted string) (*TokenPair, string, error) {
	u, err := s.findByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	if u.EmailVerifyToken == "" {
		return nil, MsgEmailAlreadyVerified, nil
	}
	if u.EmailVerifyToken != submitted {
		return nil, "", apperr.NewStatusPath(MsgInvalidEmailVerifyToken, http.StatusUnauthorized, "email_verify_token")
	}

	empty := ""
	verified := user.Verified
	err = s.users.UpdateOne(ctx, user.Filter{ID: &u.ID}, user.Patch{
		EmailVerifyToken: &empty,
		Verify:           &verified,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to mark user verified: %w", err)
	}

	pair, err := s.signTokenPair(ctx, u.ID, user.Verified)
	if err != nil {
		return nil, "", err
	}
	return pair, MsgEmailVerifySuccess, nil
}

// ResendVerifyEmail reissues the email verification token. A still-fresh
// pending token is throttled with the remaining wait; an expired one is
// replaced silently.
func (s *Service) ResendVerifyEmail(ctx context.Context, userID string) (string, error) {
	u, err := s.findByID(ctx, userID)
	if err != nil {
		return "", err
	}

	if u.Verify == user.Verified && u.EmailVerifyToken == "" {
		return MsgEmailAlreadyVerified, nil
	}

	if u.EmailVerifyToken != "" {
		payload, err := s.codec.Verify(token.EmailVerifyToken, u.EmailVerifyToken)
		switch {
		case err == nil:
			if wait := token.RemainingCooldown(payload.IssuedAt, s.resendDebounce); wait > 0 {
				return "", apperr.NewStatus(fmt.Sprintf("Please try again in %ds", wait), http.StatusTooManyRequests)
			}
		case errors.Is(err, token.ErrExpired):
			// expired pending token: reissue silently
		default:
			return "", apperr.NewStatusPath(capitalizeFirst(err.Error()), http.StatusUnauthorized, "email_verify_token")
		}
	}

	emailVerifyToken, err := s.codec.Issue(token.EmailVerifyToken, u.ID.String(), u.Verify)
	if err != nil {
		return "", err
	}
	err = s.users.UpdateOne(ctx, user.Filter{ID: &u.ID}, user.Patch{EmailVerifyToken: &emailVerifyToken})
	if err != nil {
		return "", fmt.Errorf("failed to store email verify token: %w", err)
	}

	s.sendMail(ctx, func(ctx context.Context) error {
		return s.mailer.SendVerificationEmail(ctx, u.Email, emailVerifyToken)
	})

	return MsgResendVerifyEmailSuccess, nil
}

// ForgotPassword issues and stores a password reset token for a user
// already matched by the forgot-password validator. A still-fresh
// pending token is throttled; an expired one is replaced silently.
func (s *Service) ForgotPassword(ctx context.Context, u *user.User) (string, error) {
	if u.ForgotPasswordToken != "" {
		payload, err := s.codec.Verify(token.ForgotPasswordToken, u.ForgotPasswordToken)
		switch {
		case err == nil:
			if wait := token.RemainingCooldown(payload.IssuedAt, s.resendDebounce); wait > 0 {
				return "", apperr.NewStatus(fmt.Sprintf("Please try again in %ds", wait), http.StatusTooManyRequests)
			}
		case errors.Is(err, token.ErrExpired):
			// expired pending token: reissue silently
		default:
			return "", apperr.NewStatusPath(capitalizeFirst(err.Error()), http.StatusUnauthorized, "forgot_password_token")
		}
	}

	forgotPasswordToken, err := s.codec.Issue(token.ForgotPasswordToken, u.ID.String(), u.Verify)
	if err != nil {
		return "", err
	}
	err = s.users.UpdateOne(ctx, user.Filter{ID: &u.ID}, user.Patch{ForgotPasswordToken: &forgotPasswordToken})
	if err != nil {
		return "", fmt.Errorf("failed to store forgot password token: %w", err)
	}

	s.sendMail(ctx, func(ctx context.Context) error {
		return s.mailer.SendPasswordResetEmail(ctx, u.Email, forgotPasswordToken)
	})

	return MsgCheckEmailToResetPassword, nil
}

// VerifyForgotPasswordToken is the read-only reset-link check: it reports
// whether the submitted token is the pending one, without consuming it.
func (s *Service) VerifyForgotPasswordToken(ctx context.Context, userID, submitted string) (string, error) {
	u, err := s.findByID(ctx, userID)
	if err != nil {
		return "", err
	}

	if u.ForgotPasswordToken == "" {
		return MsgForgotPasswordTokenUsed, nil
	}
	if u.ForgotPasswordToken != submitted {
		return "", apperr.NewStatusPath(MsgInvalidForgotPasswordToken, http.StatusUnauthorized, "forgot_password_token")
	}
	return MsgVerifyForgotPasswordSuccess, nil
}

// ResetPassword consumes the pending reset token, stores the new password
// hash and opens a session. Consuming an already-used token is not an
// error; no session is opened in that case.
func (s *Service) ResetPassword(ctx context.Context, userID, submitted, password string) (*TokenPair, string, error) {
	u, err := s.findByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	if u.ForgotPasswordToken == "" {
		return nil, MsgForgotPasswordTokenUsed, nil
	}
	if u.ForgotPasswordToken != submitted {
		return nil, "", apperr.NewStatusPath(MsgInvalidForgotPasswordToken, http.StatusUnauthorized, "forgot_password_token")
	}

	empty := ""
	hashed := s.hasher.Hash(password)
	err = s.users.UpdateOne(ctx, user.Filter{ID: &u.ID}, user.Patch{
		Password:            &hashed,
		ForgotPasswordToken: &empty,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to reset password: %w", err)
	}

	pair, err := s.signTokenPair(ctx, u.ID, u.Verify)
	if err != nil {
		return nil, "", err
	}
	return pair, MsgResetPasswordSuccess, nil
}

// GetMe returns the owner-facing profile.
func (s *Service) GetMe(ctx context.Context, userID string) (*user.MeView, error) {
	u, err := s.findByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	me := u.Me()
	return &me, nil
}

// UpdateMe applies a partial profile update and returns the updated
// owner-facing profile.
func (s *Service) UpdateMe(ctx context.Context, userID string, patch user.Patch) (*user.MeView, error) {
	u, err := s.findByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateOne(ctx, user.Filter{ID: &u.ID}, patch); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	updated, err := s.users.FindOne(ctx, user.Filter{ID: &u.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	me := updated.Me()
	return &me, nil
}

// GetProfile returns the public profile for a username.
func (s *Service) GetProfile(ctx context.Context, username string) (*user.ProfileView, error) {
	u, err := s.users.FindOne(ctx, user.Filter{Username: &username})
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperr.NewStatus(MsgUserNotFound, http.StatusNotFound)
		}
		return nil, fmt.Errorf("failed to load profile %q: %w", username, err)
	}
	profile := u.Profile()
	return &profile, nil
}
