package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlaplante/passvault/internal/common"
)

func newTestCipher(t *testing.T) *Cipher {
	t.Helper()
	c, err := NewCipher(common.GenerateRandBytes(32))
	require.NoError(t, err)
	return c
}

func TestNewCipher_RejectsBadKeyLength(t *testing.T) {
	_, err := NewCipher([]byte("short"))
	assert.ErrorIs(t, err, common.ErrorInvalidKey)
}

func TestNewCipherFromHex(t *testing.T) {
	hexKey, err := common.MakeRandHexString(32)
	require.NoError(t, err)

	c, err := NewCipherFromHex(hexKey)
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = NewCipherFromHex("not-hex")
	assert.ErrorIs(t, err, common.ErrorInvalidKey)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	for _, plaintext := range []string{"", "p@ss", "4111111111111111", strings.Repeat("x", 4096)} {
		sealed, err := c.EncryptString(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, sealed)

		got, err := c.DecryptString(sealed)
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestEncryptString_FreshNoncePerCall(t *testing.T) {
	c := newTestCipher(t)

	a, err := c.EncryptString("same plaintext")
	require.NoError(t, err)
	b, err := c.EncryptString("same plaintext")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestDecryptString_WrongKeyFails(t *testing.T) {
	sealed, err := newTestCipher(t).EncryptString("secret")
	require.NoError(t, err)

	_, err = newTestCipher(t).DecryptString(sealed)
	assert.Error(t, err)
}

func TestDecryptString_MalformedInput(t *testing.T) {
	c := newTestCipher(t)

	_, err := c.DecryptString("%%%not-base64%%%")
	assert.Error(t, err)

	_, err = c.DecryptString("c2hvcnQ=") // valid base64, shorter than a nonce
	assert.Error(t, err)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Secret1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1!", hash)

	assert.True(t, VerifyHashedPassword("Secret1!", hash))
	assert.False(t, VerifyHashedPassword("wrong", hash))
	assert.False(t, VerifyHashedPassword("Secret1!", "not-a-hash"))
}

func TestGeneratePassword(t *testing.T) {
	assert.Equal(t, "", GeneratePassword(0))
	assert.Equal(t, "", GeneratePassword(-3))

	p := GeneratePassword(24)
	assert.Len(t, p, 24)
	for _, r := range p {
		assert.True(t, strings.ContainsRune(passwordAlphabet, r), "unexpected rune %q", r)
	}
}
