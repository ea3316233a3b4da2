// Package cryptox implements the cryptographic capabilities consumed by the
// repositories: a reversible string cipher for secrets at rest and one-way
// password hashing for authentication records.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mlaplante/passvault/internal/common"
)

// Cipher encrypts and decrypts secret values with AES-256-GCM.
// A fresh random 12-byte nonce is generated per encryption and prepended to
// the ciphertext, so the stored value is self-contained.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a Cipher from a 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: need 32 bytes, got %d", common.ErrorInvalidKey, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// NewCipherFromHex builds a Cipher from a hex-encoded 32-byte key, the form
// the key takes in configuration.
func NewCipherFromHex(hexKey string) (*Cipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInvalidKey, err)
	}
	return NewCipher(key)
}

// EncryptString seals plaintext and returns base64(nonce || ciphertext),
// suitable for storage in a text column.
func (c *Cipher) EncryptString(plaintext string) (string, error) {
	nonce := common.GenerateRandBytes(c.aead.NonceSize())
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString reverses EncryptString. Fails if the value was produced with
// a different key or has been tampered with.
func (c *Cipher) DecryptString(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	ns := c.aead.NonceSize()
	if len(sealed) < ns {
		return "", fmt.Errorf("ciphertext too short: %d bytes", len(sealed))
	}
	plaintext, err := c.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plaintext), nil
}

// HashPassword hashes a plaintext password for the authentication table.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyHashedPassword reports whether password matches the stored hash.
// bcrypt performs the comparison itself; the hash is never re-derived and
// compared as a string.
func VerifyHashedPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%?&*()"

// GeneratePassword returns a random password of the given length drawn from
// a mixed alphabet. Used by callers offering a "suggest password" action.
func GeneratePassword(length int) string {
	if length <= 0 {
		return ""
	}
	buf := common.GenerateRandBytes(length)
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = passwordAlphabet[int(b)%len(passwordAlphabet)]
	}
	return string(out)
}
