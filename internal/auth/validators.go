package auth

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"userhub/internal/apperr"
	"userhub/internal/token"
	"userhub/internal/user"
	"userhub/internal/validate"
)

// Derived-context keys populated by custom rules during validation.
const (
	KeyUser                       = "user"
	KeyDecodedRefreshToken        = "decoded_refresh_token"
	KeyDecodedEmailVerifyToken    = "decoded_email_verify_token"
	KeyDecodedForgotPasswordToken = "decoded_forgot_password_token"
)

// UserFromRequest returns the user a validator matched, or nil.
func UserFromRequest(req *validate.Request) *user.User {
	u, _ := req.Value(KeyUser).(*user.User)
	return u
}

// PayloadFromRequest returns a decoded token payload attached under key,
// or nil.
func PayloadFromRequest(req *validate.Request, key string) *token.Payload {
	p, _ := req.Value(key).(*token.Payload)
	return p
}

// The letter requirement mirrors what the charset pattern cannot express:
// a username must not be digits and underscores only.
var usernameCharset = regexp.MustCompile(`^[a-zA-Z0-9_]{4,50}$`)

// Validators builds the request schemas. Custom rules reach into the
// stores and the codec, and attach what they matched as derived context.
type Validators struct {
	users         user.Store
	refreshTokens RefreshTokenStore
	codec         *token.Codec
	hasher        *Hasher

	register             *validate.Schema
	login                *validate.Schema
	refreshToken         *validate.Schema
	verifyEmail          *validate.Schema
	forgotPassword       *validate.Schema
	verifyForgotPassword *validate.Schema
	resetPassword        *validate.Schema
	updateMe             *validate.Schema
	getProfile           *validate.Schema
}

func NewValidators(users user.Store, refreshTokens RefreshTokenStore, codec *token.Codec, hasher *Hasher) *Validators {
	v := &Validators{
		users:         users,
		refreshTokens: refreshTokens,
		codec:         codec,
		hasher:        hasher,
	}

	nameField := validate.Field{Name: "name", Rules: []validate.Rule{
		validate.IsString(MsgNameString),
		validate.Trim(),
		validate.Required(MsgNameRequired),
		validate.LengthBetween(1, 100, MsgNameLength),
	}}
	dateOfBirthField := validate.Field{Name: "date_of_birth", Rules: []validate.Rule{
		validate.IsString(MsgDateOfBirthString),
		validate.Trim(),
		validate.Required(MsgDateOfBirthRequired),
		validate.IsISO8601(MsgDateOfBirthISO8601),
	}}
	passwordField := validate.Field{Name: "password", Rules: []validate.Rule{
		validate.IsString(MsgPasswordString),
		validate.Trim(),
		validate.Required(MsgPasswordRequired),
		validate.LengthBetween(6, 50, MsgPasswordLength),
		validate.IsStrongPassword(strongPasswordOptions, MsgPasswordStrong),
	}}
	confirmPasswordField := validate.Field{Name: "confirm_password", Rules: []validate.Rule{
		validate.IsString(MsgConfirmPasswordString),
		validate.Trim(),
		validate.Required(MsgConfirmPasswordRequired),
		validate.LengthBetween(6, 50, MsgConfirmPasswordLength),
		validate.IsStrongPassword(strongPasswordOptions, MsgConfirmPasswordStrong),
		validate.Custom(confirmMatchesPassword),
	}}
	baseEmailRules := []validate.Rule{
		validate.Trim(),
		validate.Required(MsgEmailRequired),
		validate.IsEmail(MsgEmailInvalid),
	}

	v.register = validate.NewSchema(
		nameField,
		validate.Field{Name: "email", Rules: append(append([]validate.Rule{}, baseEmailRules...),
			validate.Custom(v.emailNotTaken),
		)},
		dateOfBirthField,
		passwordField,
		confirmPasswordField,
	)

	v.login = validate.NewSchema(
		validate.Field{Name: "email", Rules: append(append([]validate.Rule{}, baseEmailRules...),
			validate.Custom(v.matchCredentials),
		)},
		passwordField,
	)

	v.refreshToken = validate.NewSchema(
		validate.Field{Name: "refresh_token", Rules: []validate.Rule{
			validate.Trim(),
			validate.Custom(v.checkRefreshToken),
		}},
	)

	v.verifyEmail = validate.NewSchema(
		validate.Field{Name: "email_verify_token", Rules: []validate.Rule{
			validate.Trim(),
			validate.Custom(v.decodeEmailVerifyToken),
		}},
	)

	v.forgotPassword = validate.NewSchema(
		validate.Field{Name: "email", Rules: append(append([]validate.Rule{}, baseEmailRules...),
			validate.Custom(v.matchEmail),
		)},
	)

	forgotPasswordTokenField := validate.Field{Name: "forgot_password_token", Rules: []validate.Rule{
		validate.Trim(),
		validate.Custom(v.decodeForgotPasswordToken),
	}}

	v.verifyForgotPassword = validate.NewSchema(forgotPasswordTokenField)

	v.resetPassword = validate.NewSchema(
		forgotPasswordTokenField,
		passwordField,
		confirmPasswordField,
	)

	v.updateMe = validate.NewSchema(
		optional(nameField),
		optional(dateOfBirthField),
		validate.Field{Name: "bio", Optional: true, Rules: []validate.Rule{
			validate.IsString(MsgBioString),
			validate.LengthBetween(1, 200, MsgBioLength),
		}},
		validate.Field{Name: "location", Optional: true, Rules: []validate.Rule{
			validate.IsString(MsgLocationString),
			validate.LengthBetween(1, 200, MsgLocationLength),
		}},
		validate.Field{Name: "website", Optional: true, Rules: []validate.Rule{
			validate.Trim(),
			validate.IsURL(MsgWebsiteInvalid),
			validate.LengthBetween(1, 100, MsgWebsiteLength),
		}},
		validate.Field{Name: "username", Optional: true, Rules: []validate.Rule{
			validate.IsString(MsgUsernameString),
			validate.Trim(),
			validate.Custom(usernameFormat),
			validate.Custom(v.usernameAvailable),
		}},
		validate.Field{Name: "avatar", Optional: true, Rules: []validate.Rule{
			validate.Trim(),
			validate.IsURL(MsgImageURLInvalid),
			validate.LengthBetween(1, 400, MsgImageURLLength),
		}},
		validate.Field{Name: "cover_photo", Optional: true, Rules: []validate.Rule{
			validate.Trim(),
			validate.IsURL(MsgImageURLInvalid),
			validate.LengthBetween(1, 400, MsgImageURLLength),
		}},
		validate.Forbidden("email", MsgCannotChangeEmail),
		validate.Forbidden("password", MsgCannotChangePassword),
		validate.Forbidden("email_verify_token", MsgCannotChangeEmailVerifyToken),
		validate.Forbidden("forgot_password_token", MsgCannotChangeForgotPasswordToken),
		validate.Forbidden("verify", MsgCannotChangeVerifyStatus),
	)

	v.getProfile = validate.NewSchema(
		validate.Field{Name: "username", Source: validate.Param, Rules: []validate.Rule{
			validate.Custom(usernameFormat),
		}},
	)

	return v
}

var strongPasswordOptions = validate.StrongPasswordOptions{
	MinLower:   1,
	MinUpper:   1,
	MinNumbers: 1,
	MinSymbols: 1,
}

func optional(f validate.Field) validate.Field {
	f.Optional = true
	return f
}

func (v *Validators) Register() *validate.Schema             { return v.register }
func (v *Validators) Login() *validate.Schema                { return v.login }
func (v *Validators) RefreshToken() *validate.Schema         { return v.refreshToken }
func (v *Validators) VerifyEmail() *validate.Schema          { return v.verifyEmail }
func (v *Validators) ForgotPassword() *validate.Schema       { return v.forgotPassword }
func (v *Validators) VerifyForgotPassword() *validate.Schema { return v.verifyForgotPassword }
func (v *Validators) ResetPassword() *validate.Schema        { return v.resetPassword }
func (v *Validators) UpdateMe() *validate.Schema             { return v.updateMe }
func (v *Validators) GetProfile() *validate.Schema           { return v.getProfile }

func confirmMatchesPassword(_ context.Context, value string, req *validate.Request) error {
	if value != req.BodyString("password") {
		return errors.New(MsgConfirmPasswordMismatch)
	}
	return nil
}

func usernameFormat(_ context.Context, value string, _ *validate.Request) error {
	if !usernameCharset.MatchString(value) || !strings.ContainsFunc(value, unicode.IsLetter) {
		return errors.New(MsgUsernameInvalid)
	}
	return nil
}

func (v *Validators) emailNotTaken(ctx context.Context, value string, _ *validate.Request) error {
	_, err := v.users.FindOne(ctx, user.Filter{Email: &value})
	switch {
	case err == nil:
		return errors.New(MsgEmailAlreadyExists)
	case errors.Is(err, user.ErrNotFound):
		return nil
	default:
		return apperr.NewStatus(err.Error(), http.StatusInternalServerError)
	}
}

// matchCredentials is the whole login check: the user is matched by an
// equality filter on email plus the deterministic password hash, so a
// miss never says which of the two was wrong.
func (v *Validators) matchCredentials(ctx context.Context, value string, req *validate.Request) error {
	hashed := v.hasher.Hash(req.BodyString("password"))
	u, err := v.users.FindOne(ctx, user.Filter{Email: &value, Password: &hashed})
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return errors.New(MsgEmailOrPasswordIncorrect)
		}
		return apperr.NewStatus(err.Error(), http.StatusInternalServerError)
	}

	req.Set(KeyUser, u)
	return nil
}

func (v *Validators) matchEmail(ctx context.Context, value string, req *validate.Request) error {
	u, err := v.users.FindOne(ctx, user.Filter{Email: &value})
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return errors.New(MsgUserNotFound)
		}
		return apperr.NewStatus(err.Error(), http.StatusInternalServerError)
	}

	req.Set(KeyUser, u)
	return nil
}

func (v *Validators) usernameAvailable(ctx context.Context, value string, _ *validate.Request) error {
	_, err := v.users.FindOne(ctx, user.Filter{Username: &value})
	switch {
	case err == nil:
		return errors.New(MsgUsernameExisted)
	case errors.Is(err, user.ErrNotFound):
		return nil
	default:
		return apperr.NewStatus(err.Error(), http.StatusInternalServerError)
	}
}

// checkRefreshToken decodes the refresh token and confirms the session is
// still live. Every failure here is a 401, not a validation aggregate.
func (v *Validators) checkRefreshToken(ctx context.Context, value string, req *validate.Request) error {
	if value == "" {
		return apperr.NewStatus(MsgRefreshTokenRequired, http.StatusUnauthorized)
	}

	payload, err := v.codec.Verify(token.RefreshToken, value)
	if err != nil {
		return apperr.NewStatus(capitalizeFirst(err.Error()), http.StatusUnauthorized)
	}

	if _, err := v.refreshTokens.FindOne(ctx, value); err != nil {
		if errors.Is(err, ErrRefreshTokenNotFound) {
			return apperr.NewStatus(MsgRefreshTokenUsedOrNotExist, http.StatusUnauthorized)
		}
		return apperr.NewStatus(err.Error(), http.StatusInternalServerError)
	}

	req.Set(KeyDecodedRefreshToken, payload)
	return nil
}

func (v *Validators) decodeEmailVerifyToken(_ context.Context, value string, req *validate.Request) error {
	if value == "" {
		return apperr.NewStatus(MsgEmailVerifyTokenRequired, http.StatusUnauthorized)
	}

	payload, err := v.codec.Verify(token.EmailVerifyToken, value)
	if err != nil {
		return apperr.NewStatus(capitalizeFirst(err.Error()), http.StatusUnauthorized)
	}

	req.Set(KeyDecodedEmailVerifyToken, payload)
	return nil
}

func (v *Validators) decodeForgotPasswordToken(_ context.Context, value string, req *validate.Request) error {
	if value == "" {
		return apperr.NewStatus(MsgForgotPasswordTokenRequired, http.StatusUnauthorized)
	}

	payload, err := v.codec.Verify(token.ForgotPasswordToken, value)
	if err != nil {
		return apperr.NewStatus(capitalizeFirst(err.Error()), http.StatusUnauthorized)
	}

	req.Set(KeyDecodedForgotPasswordToken, payload)
	return nil
}
