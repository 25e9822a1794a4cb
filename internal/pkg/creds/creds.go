package creds

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/pbkdf2"
)

// Alphabet is the character set token ids are drawn from. It is part of the
// token contract: ids must stay lowercase alphanumeric so they remain valid
// storage keys across every backend.
const Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

const pbkdf2Iterations = 4096

// Hasher derives deterministic password digests keyed on a server secret.
// The digest must be reproducible (same input, same output) because token
// issuance compares digests by equality, so bcrypt-style salted hashes
// cannot be used here.
type Hasher struct {
	secret []byte
}

func NewHasher(secret string) *Hasher {
	return &Hasher{secret: []byte(secret)}
}

// Hash returns the 64-character hex digest of plaintext.
// Empty input is an error, never an empty digest.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("plaintext must not be empty")
	}
	key := pbkdf2.Key([]byte(plaintext), h.secret, pbkdf2Iterations, sha256.Size, sha256.New)
	return hex.EncodeToString(key), nil
}

// RandomString returns a string of length characters drawn uniformly and
// independently from Alphabet.
func RandomString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive, got %d", length)
	}
	max := big.NewInt(int64(len(Alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		out[i] = Alphabet[n.Int64()]
	}
	return string(out), nil
}
