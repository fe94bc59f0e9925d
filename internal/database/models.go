package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the users table row. Empty-string token columns mean "nothing
// pending"; verify is the numeric tri-state.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                  uuid.UUID `bun:"id,pk,type:uuid"`
	Name                string    `bun:"name,notnull"`
	Email               string    `bun:"email,notnull,unique"`
	DateOfBirth         time.Time `bun:"date_of_birth,notnull"`
	Password            string    `bun:"password,notnull"`
	EmailVerifyToken    string    `bun:"email_verify_token,notnull,default:''"`
	ForgotPasswordToken string    `bun:"forgot_password_token,notnull,default:''"`
	Verify              int       `bun:"verify,notnull,default:0"`

	Bio        string `bun:"bio,notnull,default:''"`
	Location   string `bun:"location,notnull,default:''"`
	Website    string `bun:"website,notnull,default:''"`
	Username   string `bun:"username,notnull,default:''"`
	Avatar     string `bun:"avatar,notnull,default:''"`
	CoverPhoto string `bun:"cover_photo,notnull,default:''"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// RefreshToken is the refresh_tokens table row. The signed token string is
// stored as a SHA-256 hash; expiry lives inside the token itself.
type RefreshToken struct {
	bun.BaseModel `bun:"table:refresh_tokens,alias:rt"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	UserID    uuid.UUID `bun:"user_id,notnull,type:uuid"`
	TokenHash string    `bun:"token_hash,notnull,unique"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
