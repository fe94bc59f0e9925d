package token

import (
	"errors"
	"testing"
	"time"

	"userhub/internal/user"
)

func testConfig() Config {
	return Config{
		Access:         KeyConfig{Secret: []byte("access-secret"), TTL: 15 * time.Minute},
		Refresh:        KeyConfig{Secret: []byte("refresh-secret"), TTL: 24 * time.Hour},
		EmailVerify:    KeyConfig{Secret: []byte("email-verify-secret"), TTL: 24 * time.Hour},
		ForgotPassword: KeyConfig{Secret: []byte("forgot-password-secret"), TTL: 24 * time.Hour},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec(testConfig())
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	for _, kind := range []Kind{AccessToken, RefreshToken, EmailVerifyToken, ForgotPasswordToken} {
		signed, err := codec.Issue(kind, "user-123", user.Verified)
		if err != nil {
			t.Fatalf("Issue(%s): %v", kind, err)
		}

		payload, err := codec.Verify(kind, signed)
		if err != nil {
			t.Fatalf("Verify(%s): %v", kind, err)
		}
		if payload.UserID != "user-123" {
			t.Errorf("UserID = %q, want user-123", payload.UserID)
		}
		if payload.Kind != kind {
			t.Errorf("Kind = %v, want %v", payload.Kind, kind)
		}
		if payload.Verify != user.Verified {
			t.Errorf("Verify = %v, want Verified", payload.Verify)
		}
		if !payload.ExpiresAt.After(payload.IssuedAt) {
			t.Errorf("ExpiresAt %v not after IssuedAt %v", payload.ExpiresAt, payload.IssuedAt)
		}
	}
}

func TestCodecRejectsCrossKind(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec(testConfig())
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	// An access token must not verify as any other kind, even though the
	// payload shape is identical.
	signed, err := codec.Issue(AccessToken, "user-123", user.Unverified)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	for _, kind := range []Kind{RefreshToken, EmailVerifyToken, ForgotPasswordToken} {
		if _, err := codec.Verify(kind, signed); !errors.Is(err, ErrInvalid) {
			t.Errorf("Verify(%s) err = %v, want ErrInvalid", kind, err)
		}
	}
}

func TestCodecRejectsSameKindDifferentSecret(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec(testConfig())
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	other := testConfig()
	other.Access.Secret = []byte("rotated-access-secret")
	otherCodec, err := NewCodec(other)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	signed, err := codec.Issue(AccessToken, "user-123", user.Verified)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := otherCodec.Verify(AccessToken, signed); !errors.Is(err, ErrInvalid) {
		t.Errorf("Verify err = %v, want ErrInvalid", err)
	}
}

func TestCodecExpiredToken(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	// NewCodec rejects non-positive TTLs, so build the expired issuer
	// directly.
	cfg.Access.TTL = -time.Hour
	expiredIssuer := &Codec{cfg: cfg}

	signed, err := expiredIssuer.Issue(AccessToken, "user-123", user.Verified)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	codec, err := NewCodec(testConfig())
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	if _, err := codec.Verify(AccessToken, signed); !errors.Is(err, ErrExpired) {
		t.Errorf("Verify err = %v, want ErrExpired", err)
	}
}

func TestCodecMalformedToken(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec(testConfig())
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	for _, tokenStr := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := codec.Verify(AccessToken, tokenStr); !errors.Is(err, ErrInvalid) {
			t.Errorf("Verify(%q) err = %v, want ErrInvalid", tokenStr, err)
		}
	}
}

func TestNewCodecValidation(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Refresh.Secret = nil
	if _, err := NewCodec(cfg); err == nil {
		t.Error("NewCodec accepted an empty secret")
	}

	cfg = testConfig()
	cfg.EmailVerify.TTL = 0
	if _, err := NewCodec(cfg); err == nil {
		t.Error("NewCodec accepted a zero TTL")
	}
}
