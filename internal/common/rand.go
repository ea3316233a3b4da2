package common

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandBytes returns size cryptographically random bytes.
// Panics if the system entropy source is unavailable, which is
// unrecoverable anyway.
func GenerateRandBytes(size int) []byte {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return buf
}

// MakeRandHexString returns a hex string encoding size random bytes
// (so the result is 2*size characters long).
func MakeRandHexString(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// WipeBytes overwrites the buffer with zeros. Safe on nil slices.
func WipeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
