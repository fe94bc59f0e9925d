package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"userhub/internal/database"
)

// BunStore persists users in Postgres through bun.
type BunStore struct {
	db *bun.DB
}

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

func (s *BunStore) FindOne(ctx context.Context, filter Filter) (*User, error) {
	dbu := new(database.User)
	q := s.db.NewSelect().Model(dbu)
	applyFilter(q, filter)

	if err := q.Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return fromDBUser(dbu), nil
}

func (s *BunStore) InsertOne(ctx context.Context, u *User) error {
	_, err := s.db.NewInsert().Model(toDBUser(u)).Exec(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *BunStore) UpdateOne(ctx context.Context, filter Filter, patch Patch) error {
	q := s.db.NewUpdate().Model((*database.User)(nil))

	setPatch := func(column string, v any) {
		q.Set(column+" = ?", v)
	}
	if patch.Name != nil {
		setPatch("name", *patch.Name)
	}
	if patch.DateOfBirth != nil {
		setPatch("date_of_birth", *patch.DateOfBirth)
	}
	if patch.Bio != nil {
		setPatch("bio", *patch.Bio)
	}
	if patch.Location != nil {
		setPatch("location", *patch.Location)
	}
	if patch.Website != nil {
		setPatch("website", *patch.Website)
	}
	if patch.Username != nil {
		setPatch("username", *patch.Username)
	}
	if patch.Avatar != nil {
		setPatch("avatar", *patch.Avatar)
	}
	if patch.CoverPhoto != nil {
		setPatch("cover_photo", *patch.CoverPhoto)
	}
	if patch.Password != nil {
		setPatch("password", *patch.Password)
	}
	if patch.EmailVerifyToken != nil {
		setPatch("email_verify_token", *patch.EmailVerifyToken)
	}
	if patch.ForgotPasswordToken != nil {
		setPatch("forgot_password_token", *patch.ForgotPasswordToken)
	}
	if patch.Verify != nil {
		setPatch("verify", int(*patch.Verify))
	}
	// every mutation refreshes updated_at
	setPatch("updated_at", time.Now())

	applyUpdateFilter(q, filter)

	result, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BunStore) DeleteOne(ctx context.Context, filter Filter) error {
	q := s.db.NewDelete().Model((*database.User)(nil))
	applyDeleteFilter(q, filter)

	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func applyFilter(q *bun.SelectQuery, f Filter) {
	if f.ID != nil {
		q.Where("id = ?", *f.ID)
	}
	if f.Email != nil {
		q.Where("email = ?", *f.Email)
	}
	if f.Username != nil {
		q.Where("username = ?", *f.Username)
	}
	if f.Password != nil {
		q.Where("password = ?", *f.Password)
	}
}

func applyUpdateFilter(q *bun.UpdateQuery, f Filter) {
	if f.ID != nil {
		q.Where("id = ?", *f.ID)
	}
	if f.Email != nil {
		q.Where("email = ?", *f.Email)
	}
	if f.Username != nil {
		q.Where("username = ?", *f.Username)
	}
	if f.Password != nil {
		q.Where("password = ?", *f.Password)
	}
}

func applyDeleteFilter(q *bun.DeleteQuery, f Filter) {
	if f.ID != nil {
		q.Where("id = ?", *f.ID)
	}
	if f.Email != nil {
		q.Where("email = ?", *f.Email)
	}
	if f.Username != nil {
		q.Where("username = ?", *f.Username)
	}
	if f.Password != nil {
		q.Where("password = ?", *f.Password)
	}
}

func toDBUser(u *User) *database.User {
	return &database.User{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		DateOfBirth:         u.DateOfBirth,
		Password:            u.Password,
		EmailVerifyToken:    u.EmailVerifyToken,
		ForgotPasswordToken: u.ForgotPasswordToken,
		Verify:              int(u.Verify),
		Bio:                 u.Bio,
		Location:            u.Location,
		Website:             u.Website,
		Username:            u.Username,
		Avatar:              u.Avatar,
		CoverPhoto:          u.CoverPhoto,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func fromDBUser(dbu *database.User) *User {
	return &User{
		ID:                  dbu.ID,
		Name:                dbu.Name,
		Email:               dbu.Email,
		DateOfBirth:         dbu.DateOfBirth,
		Password:            dbu.Password,
		EmailVerifyToken:    dbu.EmailVerifyToken,
		ForgotPasswordToken: dbu.ForgotPasswordToken,
		Verify:              VerifyStatus(dbu.Verify),
		Bio:                 dbu.Bio,
		Location:            dbu.Location,
		Website:             dbu.Website,
		Username:            dbu.Username,
		Avatar:              dbu.Avatar,
		CoverPhoto:          dbu.CoverPhoto,
		CreatedAt:           dbu.CreatedAt,
		UpdatedAt:           dbu.UpdatedAt,
	}
}
