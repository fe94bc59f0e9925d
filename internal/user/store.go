package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// Filter selects users by equality on the given fields. Nil fields are
// ignored; all set fields must match.
type Filter struct {
	ID       *uuid.UUID
	Email    *string
	Username *string
	// Password matches the stored hash exactly; the login path relies on
	// the hash being deterministic.
	Password *string
}

// Patch is a partial update. Nil fields are left untouched. UpdateOne
// always stamps updated_at regardless of which fields are set.
type Patch struct {
	Name        *string
	DateOfBirth *time.Time
	Bio         *string
	Location    *string
	Website     *string
	Username    *string
	Avatar      *string
	CoverPhoto  *string

	Password            *string
	EmailVerifyToken    *string
	ForgotPasswordToken *string
	Verify              *VerifyStatus
}

// Store abstracts the Users collection. Multi-record operations are not
// transactional; callers issue independent calls.
type Store interface {
	FindOne(ctx context.Context, filter Filter) (*User, error)
	InsertOne(ctx context.Context, u *User) error
	UpdateOne(ctx context.Context, filter Filter, patch Patch) error
	DeleteOne(ctx context.Context, filter Filter) error
}
