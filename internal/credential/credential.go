// Package credential owns one-way password hashing and verification.
package credential

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MaxBytes is the longest password bcrypt accepts.
const MaxBytes = 72

var (
	// ErrInvalidInput is returned when an empty password is hashed.
	ErrInvalidInput = errors.New("password is empty")
	ErrTooLong      = fmt.Errorf("password exceeds %d bytes", MaxBytes)
)

// Credential is a salted bcrypt hash of a password.
type Credential struct {
	hash []byte
}

// FromHash wraps a hash previously produced by Store.Hash, e.g. loaded from the DB.
func FromHash(hash []byte) Credential {
	return Credential{hash: append([]byte(nil), hash...)}
}

// Bytes returns the persisted form of the hash.
func (c Credential) Bytes() []byte {
	return append([]byte(nil), c.hash...)
}

// IsZero reports whether c holds no hash.
func (c Credential) IsZero() bool {
	return len(c.hash) == 0
}

// Verify reports whether plaintext is the password c was derived from.
func (c Credential) Verify(plaintext string) bool {
	if c.IsZero() {
		return false
	}
	return bcrypt.CompareHashAndPassword(c.hash, []byte(plaintext)) == nil
}

// Store hashes passwords with a fixed bcrypt cost.
type Store struct {
	cost int
}

// NewStore returns a Store using cost, falling back to bcrypt.DefaultCost
// when cost is outside bcrypt's accepted range.
func NewStore(cost int) *Store {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Store{cost: cost}
}

// Hash derives a new Credential from plaintext. Every call uses a fresh salt.
func (s *Store) Hash(plaintext string) (Credential, error) {
	if strings.TrimSpace(plaintext) == "" {
		return Credential{}, ErrInvalidInput
	}
	if len(plaintext) > MaxBytes {
		return Credential{}, ErrTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return Credential{}, fmt.Errorf("hash password: %w", err)
	}
	return Credential{hash: hash}, nil
}

// Verify is a convenience for c.Verify(plaintext).
func (s *Store) Verify(c Credential, plaintext string) bool {
	return c.Verify(plaintext)
}
