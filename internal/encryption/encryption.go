// Package encryption provides the field-level encryption used for card
// descriptions and comment text. The scheme is fixed: AES-256-CBC with a
// scrypt-derived key and a per-value random IV, stored as
// "<iv hex>:<ciphertext hex>".
package encryption

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

type Encryptor struct {
	key []byte
}

func New(secret string) (*Encryptor, error) {
	key, err := scrypt.Key([]byte(secret), []byte("salt"), 16384, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("derive encryption key: %w", err)
	}
	return &Encryptor{key: key}, nil
}

// Encrypt returns the framed ciphertext for text. Empty values pass
// through untouched.
func (e *Encryptor) Encrypt(text string) (string, error) {
	if text == "" {
		return text, nil
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	padded := pad([]byte(text), aes.BlockSize)
	encrypted := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(encrypted, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(encrypted), nil
}

// Decrypt reverses Encrypt. Values that are not in the framed format are
// returned as-is, so plaintext written before encryption was enabled still
// reads back correctly.
func (e *Encryptor) Decrypt(text string) string {
	if text == "" {
		return text
	}

	ivHex, encryptedHex, ok := strings.Cut(text, ":")
	if !ok {
		return text
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return text
	}
	encrypted, err := hex.DecodeString(encryptedHex)
	if err != nil || len(encrypted) == 0 || len(encrypted)%aes.BlockSize != 0 {
		return text
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return text
	}

	decrypted := make([]byte, len(encrypted))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(decrypted, encrypted)

	unpadded, err := unpad(decrypted, aes.BlockSize)
	if err != nil {
		return text
	}
	return string(unpadded)
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
