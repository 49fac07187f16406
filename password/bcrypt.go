package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	minCost = bcrypt.MinCost
	maxCost = 16
)

// Config holds the bcrypt work factor.
type Config struct {
	Cost int
}

// Bcrypt hashes and verifies passwords and secret answers using bcrypt.
// Each digest embeds its own random salt and cost, so verification needs
// no external state.
type Bcrypt struct {
	config Config
}

// NewBcrypt creates a hasher with the given work factor. A zero cost
// selects the library default.
func NewBcrypt(cfg Config) (*Bcrypt, error) {
	if cfg.Cost == 0 {
		cfg.Cost = bcrypt.DefaultCost
	}
	if cfg.Cost < minCost || cfg.Cost > maxCost {
		return nil, errors.New("bcrypt cost out of range")
	}

	return &Bcrypt{config: cfg}, nil
}

// Hash produces a self-contained digest for the given plaintext.
// Only a one-byte minimum is enforced here; upper bounds belong to
// the caller.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	if len(plaintext) < 1 {
		return "", errors.New("plaintext must not be empty")
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.config.Cost)
	if err != nil {
		return "", err
	}

	return string(digest), nil
}

// Verify reports whether plaintext matches the digest. Malformed digests
// verify as false; this method never returns an error to the caller.
func (b *Bcrypt) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
