// Package token signs and verifies the four kinds of auth tokens. Each
// kind has its own HS256 secret and TTL, so kinds are never
// cross-verifiable.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"userhub/internal/user"
)

// Kind discriminates the token families. The numeric values are embedded
// in signed tokens and must not be reordered.
type Kind int

const (
	AccessToken Kind = iota
	RefreshToken
	EmailVerifyToken
	ForgotPasswordToken
)

func (k Kind) String() string {
	switch k {
	case AccessToken:
		return "access_token"
	case RefreshToken:
		return "refresh_token"
	case EmailVerifyToken:
		return "email_verify_token"
	case ForgotPasswordToken:
		return "forgot_password_token"
	default:
		return fmt.Sprintf("token.Kind(%d)", int(k))
	}
}

var (
	// ErrExpired means the signature checked out but the embedded expiry
	// has passed.
	ErrExpired = errors.New("token has expired")
	// ErrInvalid covers bad signatures, malformed payloads and kind
	// mismatches.
	ErrInvalid = errors.New("token is invalid")
)

// Payload is the recovered content of a signed token. It exists only
// inside the token string; nothing here is persisted.
type Payload struct {
	UserID    string
	Kind      Kind
	Verify    user.VerifyStatus
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type claims struct {
	UserID    string            `json:"user_id"`
	TokenType Kind              `json:"token_type"`
	Verify    user.VerifyStatus `json:"verify"`
	jwt.RegisteredClaims
}

// KeyConfig pairs a signing secret with the lifetime of tokens it signs.
type KeyConfig struct {
	Secret []byte
	TTL    time.Duration
}

// Config carries one KeyConfig per token kind.
type Config struct {
	Access         KeyConfig
	Refresh        KeyConfig
	EmailVerify    KeyConfig
	ForgotPassword KeyConfig
}

// Codec issues and verifies signed tokens. It is stateless and safe for
// concurrent use.
type Codec struct {
	cfg Config
}

func NewCodec(cfg Config) (*Codec, error) {
	for _, kind := range []Kind{AccessToken, RefreshToken, EmailVerifyToken, ForgotPasswordToken} {
		kc := cfg.keyFor(kind)
		if len(kc.Secret) == 0 {
			return nil, fmt.Errorf("missing signing secret for %s", kind)
		}
		if kc.TTL <= 0 {
			return nil, fmt.Errorf("non-positive TTL for %s", kind)
		}
	}
	return &Codec{cfg: cfg}, nil
}

func (c Config) keyFor(kind Kind) KeyConfig {
	switch kind {
	case AccessToken:
		return c.Access
	case RefreshToken:
		return c.Refresh
	case EmailVerifyToken:
		return c.EmailVerify
	case ForgotPasswordToken:
		return c.ForgotPassword
	default:
		return KeyConfig{}
	}
}

// TTL returns the configured lifetime for the given kind.
func (c *Codec) TTL(kind Kind) time.Duration {
	return c.cfg.keyFor(kind).TTL
}

// Issue signs a token of the given kind for the user, embedding the
// user's verify status at issuance time.
func (c *Codec) Issue(kind Kind, userID string, verify user.VerifyStatus) (string, error) {
	kc := c.cfg.keyFor(kind)
	now := time.Now()

	cl := claims{
		UserID:    userID,
		TokenType: kind,
		Verify:    verify,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(kc.TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(kc.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s: %w", kind, err)
	}
	return signed, nil
}

// Verify checks a token string against the secret of the given kind and
// recovers its payload. Expiry is reported as ErrExpired; every other
// failure, including a token of the wrong kind, is ErrInvalid.
func (c *Codec) Verify(kind Kind, tokenStr string) (*Payload, error) {
	kc := c.cfg.keyFor(kind)

	cl := new(claims)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(tokenStr, cl, func(*jwt.Token) (any, error) {
		return kc.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !parsed.Valid || cl.TokenType != kind {
		return nil, ErrInvalid
	}
	if cl.IssuedAt == nil || cl.ExpiresAt == nil || cl.UserID == "" {
		return nil, ErrInvalid
	}

	return &Payload{
		UserID:    cl.UserID,
		Kind:      cl.TokenType,
		Verify:    cl.Verify,
		IssuedAt:  cl.IssuedAt.Time,
		ExpiresAt: cl.ExpiresAt.Time,
	}, nil
}
