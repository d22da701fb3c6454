// Package encryption seals individual session values with AES-256-GCM.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const gcmPrefix = "gcm1"

const (
	KeySize  = 32
	SaltSize = 16

	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
)

var (
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	ErrUnknownFormat      = errors.New("unknown ciphertext format")
	ErrEmptyPassphrase    = errors.New("empty passphrase")
)

func EncryptValue(value string, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nil, nonce, []byte(value), nil)
	out := make([]byte, 0, len(gcmPrefix)+len(nonce)+len(ciphertext))
	out = append(out, gcmPrefix...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

func DecryptValue(ciphertext []byte, key []byte) ([]byte, error) {
	if len(ciphertext) < len(gcmPrefix) {
		return nil, ErrCiphertextTooShort
	}
	if string(ciphertext[:len(gcmPrefix)]) != gcmPrefix {
		return nil, ErrUnknownFormat
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < len(gcmPrefix)+nonceSize {
		return nil, ErrCiphertextTooShort
	}
	nonce := ciphertext[len(gcmPrefix) : len(gcmPrefix)+nonceSize]
	data := ciphertext[len(gcmPrefix)+nonceSize:]
	return gcm.Open(nil, nonce, data, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// NewSalt returns SaltSize random bytes for DeriveKey.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey stretches a passphrase into a KeySize key with argon2id.
func DeriveKey(passphrase string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	if len(salt) < SaltSize {
		return nil, fmt.Errorf("salt must be at least %d bytes", SaltSize)
	}
	return argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, KeySize), nil
}
