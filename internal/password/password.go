// Package password wraps bcrypt behind a small hasher interface so the
// identity service never touches the hashing primitive directly.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches the work factor the store has always used for
// customer passwords (bcrypt salt rounds).
const DefaultCost = 10

// Hasher hashes plaintext credentials and verifies them against stored
// hashes. Hashing is intentionally slow; callers should budget for it.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// Bcrypt is a Hasher with a tunable work factor.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt hasher with the given cost, clamped to the
// range bcrypt accepts. A cost of 0 selects DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	switch {
	case cost == 0:
		cost = DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (b *Bcrypt) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
