package auth

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"userhub/internal/database"
)

// ErrRefreshTokenNotFound means the submitted refresh token was never
// issued, or was already consumed by logout or rotation.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRecord is one active session. Only a hash of the signed
// token is kept; the expiry lives inside the token string itself.
type RefreshTokenRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	CreatedAt time.Time
}

// RefreshTokenStore tracks active refresh tokens. DeleteOne of an absent
// token is not an error, which makes logout idempotent.
type RefreshTokenStore interface {
	InsertOne(ctx context.Context, userID uuid.UUID, token string) error
	FindOne(ctx context.Context, token string) (*RefreshTokenRecord, error)
	DeleteOne(ctx context.Context, token string) error
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// BunRefreshTokenStore persists refresh tokens in Postgres.
type BunRefreshTokenStore struct {
	db *bun.DB
}

func NewBunRefreshTokenStore(db *bun.DB) *BunRefreshTokenStore {
	return &BunRefreshTokenStore{db: db}
}

func (s *BunRefreshTokenStore) InsertOne(ctx context.Context, userID uuid.UUID, token string) error {
	row := &database.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: hashToken(token),
		CreatedAt: time.Now(),
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return nil
}

func (s *BunRefreshTokenStore) FindOne(ctx context.Context, token string) (*RefreshTokenRecord, error) {
	row := new(database.RefreshToken)
	err := s.db.NewSelect().Model(row).
		Where("token_hash = ?", hashToken(token)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}

	return &RefreshTokenRecord{
		ID:        row.ID,
		UserID:    row.UserID,
		TokenHash: row.TokenHash,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (s *BunRefreshTokenStore) DeleteOne(ctx context.Context, token string) error {
	_, err := s.db.NewDelete().Model((*database.RefreshToken)(nil)).
		Where("token_hash = ?", hashToken(token)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// MemoryRefreshTokenStore is the in-memory RefreshTokenStore used by
// tests.
type MemoryRefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*RefreshTokenRecord
}

func NewMemoryRefreshTokenStore() *MemoryRefreshTokenStore {
	return &MemoryRefreshTokenStore{tokens: make(map[string]*RefreshTokenRecord)}
}

func (s *MemoryRefreshTokenStore) InsertOne(_ context.Context, userID uuid.UUID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := hashToken(token)
	s.tokens[hash] = &RefreshTokenRecord{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: hash,
		CreatedAt: time.Now(),
	}
	return nil
}

func (s *MemoryRefreshTokenStore) FindOne(_ context.Context, token string) (*RefreshTokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tokens[hashToken(token)]
	if !ok {
		return nil, ErrRefreshTokenNotFound
	}
	clone := *rec
	return &clone, nil
}

func (s *MemoryRefreshTokenStore) DeleteOne(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, hashToken(token))
	return nil
}
