package security

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrHashingFailed = errors.New("credential hashing failed")

// Hasher transforms a plaintext secondary credential into its stored
// representation and checks candidates against stored values.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(stored, candidate string) bool
}

// legacyHasher is the historical double-SHA1 transform: the hex digest
// is hashed again, matching values produced by earlier deployments.
// Deterministic and unsalted, so stored values stay comparable across
// resets. See the compatibility note in DESIGN.md before changing.
type legacyHasher struct{}

// NewLegacyHasher returns the hasher compatible with legacy stored
// values.
func NewLegacyHasher() Hasher {
	return legacyHasher{}
}

func (legacyHasher) Hash(plaintext string) (string, error) {
	first := sha1.Sum([]byte(plaintext))
	second := sha1.Sum([]byte(hex.EncodeToString(first[:])))
	return hex.EncodeToString(second[:]), nil
}

func (h legacyHasher) Verify(stored, candidate string) bool {
	hashed, _ := h.Hash(candidate)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(hashed)) == 1
}

// bcryptHasher is the salted, slow alternative for new deployments
// with no legacy values to honour. Stored values are not comparable
// across hashes of the same plaintext.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a salted hasher. Switching an existing
// deployment to it invalidates every legacy stored value.
func NewBcryptHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (b *bcryptHasher) Hash(plaintext string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(bytes), nil
}

func (b *bcryptHasher) Verify(stored, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
}
