package encryption_test

import (
	"strings"
	"testing"

	"github.com/johnobriendev/tremendoServer/internal/encryption"

	"github.com/stretchr/testify/assert"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	enc, err := encryption.New("test-encryption-key")
	assert.NoError(t, err)

	plaintext := "Review the deployment checklist before Friday"
	encrypted, err := enc.Encrypt(plaintext)
	assert.NoError(t, err)
	assert.NotEqual(t, plaintext, encrypted)
	assert.Contains(t, encrypted, ":")

	assert.Equal(t, plaintext, enc.Decrypt(encrypted))
}

func TestEncrypt_EmptyPassesThrough(t *testing.T) {
	enc, err := encryption.New("test-encryption-key")
	assert.NoError(t, err)

	encrypted, err := enc.Encrypt("")
	assert.NoError(t, err)
	assert.Equal(t, "", encrypted)
	assert.Equal(t, "", enc.Decrypt(""))
}

func TestEncrypt_UniqueIVPerCall(t *testing.T) {
	enc, err := encryption.New("test-encryption-key")
	assert.NoError(t, err)

	first, err := enc.Encrypt("same text")
	assert.NoError(t, err)
	second, err := enc.Encrypt("same text")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, "same text", enc.Decrypt(first))
	assert.Equal(t, "same text", enc.Decrypt(second))
}

func TestDecrypt_UnframedValuePassesThrough(t *testing.T) {
	enc, err := encryption.New("test-encryption-key")
	assert.NoError(t, err)

	// Values written before encryption was enabled have no iv:cipher frame
	assert.Equal(t, "plain old text", enc.Decrypt("plain old text"))
	assert.Equal(t, "not:hex:data", enc.Decrypt("not:hex:data"))
}

func TestDecrypt_WrongKeyReturnsInput(t *testing.T) {
	enc, err := encryption.New("key-one")
	assert.NoError(t, err)
	other, err := encryption.New("key-two")
	assert.NoError(t, err)

	encrypted, err := enc.Encrypt("secret")
	assert.NoError(t, err)

	// Wrong key produces garbage padding; original value is never exposed
	decrypted := other.Decrypt(encrypted)
	assert.NotEqual(t, "secret", decrypted)
}

func TestEncrypt_LongText(t *testing.T) {
	enc, err := encryption.New("test-encryption-key")
	assert.NoError(t, err)

	plaintext := strings.Repeat("a long card description ", 100)
	encrypted, err := enc.Encrypt(plaintext)
	assert.NoError(t, err)
	assert.Equal(t, plaintext, enc.Decrypt(encrypted))
}
