// Package user holds the account domain model and its persistence
// contract.
package user

import (
	"time"

	"github.com/google/uuid"
)

// VerifyStatus is the account verification tri-state. The numeric values
// are part of the token wire format and must not be reordered.
type VerifyStatus int

const (
	Unverified VerifyStatus = iota
	Verified
	Banned
)

// User is an account record. Password always holds the one-way hash.
// EmailVerifyToken and ForgotPasswordToken use the empty string as the
// "nothing pending" sentinel.
type User struct {
	ID                  uuid.UUID
	Name                string
	Email               string
	DateOfBirth         time.Time
	Password            string
	EmailVerifyToken    string
	ForgotPasswordToken string
	Verify              VerifyStatus

	Bio        string
	Location   string
	Website    string
	Username   string
	Avatar     string
	CoverPhoto string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MeView is the owner-facing projection: password and pending tokens are
// stripped, everything else stays.
type MeView struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	DateOfBirth time.Time    `json:"date_of_birth"`
	Verify      VerifyStatus `json:"verify"`
	Bio         string       `json:"bio"`
	Location    string       `json:"location"`
	Website     string       `json:"website"`
	Username    string       `json:"username"`
	Avatar      string       `json:"avatar"`
	CoverPhoto  string       `json:"cover_photo"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ProfileView is the public projection: additionally hides the verify
// status and timestamps.
type ProfileView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	Website     string    `json:"website"`
	Username    string    `json:"username"`
	Avatar      string    `json:"avatar"`
	CoverPhoto  string    `json:"cover_photo"`
}

func (u *User) Me() MeView {
	return MeView{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		DateOfBirth: u.DateOfBirth,
		Verify:      u.Verify,
		Bio:         u.Bio,
		Location:    u.Location,
		Website:     u.Website,
		Username:    u.Username,
		Avatar:      u.Avatar,
		CoverPhoto:  u.CoverPhoto,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (u *User) Profile() ProfileView {
	return ProfileView{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		DateOfBirth: u.DateOfBirth,
		Bio:         u.Bio,
		Location:    u.Location,
		Website:     u.Website,
		Username:    u.Username,
		Avatar:      u.Avatar,
		CoverPhoto:  u.CoverPhoto,
	}
}
