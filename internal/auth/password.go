package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher produces deterministic password digests. Login matches users by
// an equality filter on (email, password digest), so hashing the same
// password twice must yield the same string. The configured suffix
// secret keeps the digests unportable across deployments.
type Hasher struct {
	suffix string
}

func NewHasher(suffixSecret string) *Hasher {
	return &Hasher{suffix: suffixSecret}
}

// Hash returns the hex-encoded SHA-256 of password plus the suffix
// secret.
func (h *Hasher) Hash(password string) string {
	sum := sha256.Sum256([]byte(password + h.suffix))
	return hex.EncodeToString(sum[:])
}
