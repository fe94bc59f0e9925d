package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"userhub/internal/apperr"
	"userhub/internal/token"
	"userhub/internal/user"
	"userhub/internal/validate"
)

type validatorEnv struct {
	validators    *Validators
	users         *user.MemoryStore
	refreshTokens *MemoryRefreshTokenStore
	codec         *token.Codec
	hasher        *Hasher
}

func newValidatorEnv(t *testing.T) *validatorEnv {
	t.Helper()

	codec, err := token.NewCodec(token.Config{
		Access:         token.KeyConfig{Secret: []byte("access-secret"), TTL: 15 * time.Minute},
		Refresh:        token.KeyConfig{Secret: []byte("refresh-secret"), TTL: 24 * time.Hour},
		EmailVerify:    token.KeyConfig{Secret: []byte("email-verify-secret"), TTL: 24 * time.Hour},
		ForgotPassword: token.KeyConfig{Secret: []byte("forgot-password-secret"), TTL: 24 * time.Hour},
	})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	users := user.NewMemoryStore()
	refreshTokens := NewMemoryRefreshTokenStore()
	hasher := NewHasher("test-suffix")

	return &validatorEnv{
		validators:    NewValidators(users, refreshTokens, codec, hasher),
		users:         users,
		refreshTokens: refreshTokens,
		codec:         codec,
		hasher:        hasher,
	}
}

func runSchema(t *testing.T, schema *validate.Schema, body string) (*validate.Request, error) {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req, err := validate.NewRequest(r)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req, schema.Run(context.Background(), req)
}

func entityOf(t *testing.T, err error) *apperr.EntityError {
	t.Helper()

	var entityErr *apperr.EntityError
	if !errors.As(err, &entityErr) {
		t.Fatalf("err = %v, want EntityError", err)
	}
	return entityErr
}

func (env *validatorEnv) seedUser(t *testing.T, email, password, username string) *user.User {
	t.Helper()

	u := &user.User{
		ID:       uuid.New(),
		Name:     "Alice",
		Email:    email,
		Password: env.hasher.Hash(password),
		Username: username,
		Verify:   user.Verified,
	}
	if err := env.users.InsertOne(context.Background(), u); err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	return u
}

func TestRegisterValidatorEmptyBody(t *testing.T) {
	t.Parallel()
	env := newValidatorEnv(t)

	_, err := runSchema(t, env.validators.Register(), `{}`)
	entityErr := entityOf(t, err)

	want := map[string]string{
		"name":             MsgNameString,
		"email":            MsgEmailRequired,
		"date_of_birth":    MsgDateOfBirthString,
		"password":         MsgPasswordString,
		"confirm_password": MsgConfirmPasswordString,
	}
	for field, msg := range want {
		if got := entityErr.Errors[field].Msg; got != msg {
			t.Errorf("%s msg = %q, want %q", field, got, msg)
		}
	}
}

func TestRegisterValidatorWeakAndMismatchedPasswords(t *testing.T) {
	t.Parallel()
	env := newValidatorEnv(t)

	_, err := runSchema(t, env.validators.Register(), `{
		"name": "Alice",
		"email": "a@b.com",
		"date_of_birth": "2000-01-02",
		"password": "alllowercase1!",
		"confirm_password": "Different1!"
	}`)
	entityErr := entityOf(t, err)

	if got := entityErr.Errors["password"].Msg; got != MsgPasswordStrong {
		t.Errorf("password msg = %q", got)
	}
	if got := entityErr.Errors["confirm_password"].Msg; got != MsgConfirmPasswordMismatch {
		t.Errorf("confirm_password msg = %q", got)
	}
}

func TestRegisterValidatorEmailTaken(t *testing.T) {
	t.Parallel()
	env := newValidatorEnv(t)
	env.seedUser(t, "a@b.com", "Secret1!", "")

	_, err := runSchema(t, env.validators.Register(), `{
		"name": "Alice",
		"email": "a@b.com",
		"date_of_birth": "2000-01-02",
		"password": "Secret1!",
		"confirm_password": "Secret1!"
	}`)
	entityErr := entityOf(t, err)

	if got := entityErr.Errors["email"].Msg; got != MsgEmailAlreadyExists {
		t.Errorf("email msg = %q", got)
	}
}

func TestLoginValidatorWrongPassword(t *testing.T) {
	t.Parallel()
	env := newValidatorEnv(t)
	env.seedUser(t, "a@b.com", "Secret1!", "")

	// The miss never says which of email or password was wrong.
	_, err := runSchema(t, env.validators.Login(), `{"email": "a@b.com", "password": "Wrong1!x"}`)
	entityErr := entityOf(t, err)

	if got := entityErr.Errors["email"].Msg; got != MsgEmailOrPasswordIncorrect {
		t.Errorf("email msg = %q", got)
	}
}

func TestLoginValidatorAttachesMatchedUser(t *testing.T) {
	t.Parallel()
	env := newValidatorEnv(t)
	seeded := env.seedUser(t, "a@b.com", "Secret1!", "")

	req, err := runSchema(t, env.validators.Login(), `{"email": "a@b.com", "password": "Secret1!"}`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	matched := UserFromRequest(req)
	if matched == nil || matched.ID != seeded.ID {
		t.Errorf("matched user = %+v, want id %s", matched, seeded.ID)
	}
}

func TestRefreshTokenValidator(t *testing.T) {
	t.Parallel()
	env := newValidatorEnv(t)

	_, err := runSchema(t, env.validators.RefreshToken(), `{"refresh_token": ""}`)
	statusErr := statusOf(t, err)
	if statusErr.StatusCode != http.StatusUnauthorized || statusErr.Message != MsgRefreshTokenRequired {
		t.Errorf("empty token: %d %q", statusErr.StatusCode, statusErr.Message)
	}

	_, err = runSchema(t, env.validators.RefreshToken(), `{"refresh_token": "garbage"}`)
	statusErr = statusOf(t, err)
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d", statusErr.StatusCode)
	}

	// A well-signed token that was never persisted counts as consumed.
	userID := uuid.New()
	signed, err := env.codec.Issue(token.RefreshToken, userID.String(), user.Verified)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_, runErr := runSchema(t, env.validators.RefreshToken(), `{"refresh_token": "`+signed+`"}`)
	statusErr = statusOf(t, runErr)
	if statusErr.Message != MsgRefreshTokenUsedOrNotExist {
		t.Errorf("unknown token msg = %q", statusErr.Message)
	}

	if err := env.refreshTokens.InsertOne(context.Background(), userID, signed); err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	req, runErr := runSchema(t, env.validators.RefreshToken(), `{"refresh_token": "`+signed+`"}`)
	if runErr != nil {
		t.Fatalf("Run: %v", runErr)
	}
	payload := PayloadFromRequest(req, KeyDecodedRefreshToken)
	if payload == nil || payload.UserID != userID.String() {
		t.Errorf("decoded payload = %+v", payload)
	}
}

func TestUpdateMeValidatorRejectsPrivilegedFields(t *testing.T) {
	t.Parallel()
	env := newValidatorEnv(t)

	_, err := runSchema(t, env.validators.UpdateMe(), `{"password": "Newpass1!", "verify": 1}`)
	entityErr := entityOf(t, err)

	if got := entityErr.Errors["password"].Msg; got != MsgCannotChangePassword {
		t.Errorf("password msg = %q", got)
	}
	if got := entityErr.Errors["verify"].Msg; got != MsgCannotChangeVerifyStatus {
		t.Errorf("verify msg = %q", got)
	}
}

func TestUpdateMeValidatorUsernameRules(t *testing.T) {
	t.Parallel()
	env := newValidatorEnv(t)
	env.seedUser(t, "a@b.com", "Secret1!", "taken_name")

	for _, username := range []string{"123456", "ab", "has space", "bad-char!"} {
		_, err := runSchema(t, env.validators.UpdateMe(), `{"username": "`+username+`"}`)
		entityErr := entityOf(t, err)
		if got := entityErr.Errors["username"].Msg; got != MsgUsernameInvalid {
			t.Errorf("username %q msg = %q", username, got)
		}
	}

	_, err := runSchema(t, env.validators.UpdateMe(), `{"username": "taken_name"}`)
	entityErr := entityOf(t, err)
	if got := entityErr.Errors["username"].Msg; got != MsgUsernameExisted {
		t.Errorf("taken username msg = %q", got)
	}

	req, err := runSchema(t, env.validators.UpdateMe(), `{"username": "fresh_name"}`)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if req.String("username") != "fresh_name" {
		t.Errorf("username = %q", req.String("username"))
	}
}

func TestForgotPasswordValidatorUnknownEmail(t *testing.T) {
	t.Parallel()
	env := newValidatorEnv(t)

	_, err := runSchema(t, env.validators.ForgotPassword(), `{"email": "nobody@b.com"}`)
	entityErr := entityOf(t, err)
	if got := entityErr.Errors["email"].Msg; got != MsgUserNotFound {
		t.Errorf("email msg = %q", got)
	}
}

func TestVerifyEmailValidatorDecodesToken(t *testing.T) {
	t.Parallel()
	env := newValidatorEnv(t)

	_, err := runSchema(t, env.validators.VerifyEmail(), `{"email_verify_token": ""}`)
	statusErr := statusOf(t, err)
	if statusErr.StatusCode != http.StatusUnauthorized || statusErr.Message != MsgEmailVerifyTokenRequired {
		t.Errorf("empty token: %d %q", statusErr.StatusCode, statusErr.Message)
	}

	userID := uuid.New()
	signed, err := env.codec.Issue(token.EmailVerifyToken, userID.String(), user.Unverified)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req, runErr := runSchema(t, env.validators.VerifyEmail(), `{"email_verify_token": "`+signed+`"}`)
	if runErr != nil {
		t.Fatalf("Run: %v", runErr)
	}
	payload := PayloadFromRequest(req, KeyDecodedEmailVerifyToken)
	if payload == nil || payload.UserID != userID.String() {
		t.Errorf("decoded payload = %+v", payload)
	}

	// A refresh token is the wrong kind and must be rejected.
	wrongKind, err := env.codec.Issue(token.RefreshToken, userID.String(), user.Unverified)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	_, runErr = runSchema(t, env.validators.VerifyEmail(), `{"email_verify_token": "`+wrongKind+`"}`)
	statusErr = statusOf(t, runErr)
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong-kind status = %d", statusErr.StatusCode)
	}
}
