package secret

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"

	"github.com/craftlink/auth-server/internal/model"
)

var _ model.Hasher = (*Bcrypt)(nil)

// Bcrypt implements one-way hashing for passwords and verification
// tokens.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a Bcrypt hasher with the default cost.
func NewBcrypt() *Bcrypt {
	return &Bcrypt{cost: bcrypt.DefaultCost}
}

// Hash returns the bcrypt digest of plaintext. Empty input is rejected
// so an empty password can never end up as a stored hash.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("refusing to hash empty input")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the bcrypt digest.
func (b *Bcrypt) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomToken returns a uniformly random alphanumeric string of the
// given length, suitable for verification tokens.
func RandomToken(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read randomness: %w", err)
		}
		out[i] = tokenAlphabet[n.Int64()]
	}
	return string(out), nil
}

// RandomCode returns a uniformly random numeric code of the given digit
// count, preserving leading zeros.
func RandomCode(digits int) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to read randomness: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}
