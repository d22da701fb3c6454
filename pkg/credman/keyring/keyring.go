// Package keyring stores the session encryption key in the operating
// system's keyring, with a file-based fallback for headless hosts.
package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keySize = 32

// KeyStore is anything that can hold the session key.
type KeyStore interface {
	GetKey() ([]byte, error)
	SetKey() ([]byte, error)
	DeleteKey() error
}

type Keyring struct {
	AppName  string
	KeyField string
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
	randRead      = rand.Read
)

func NewKeyring() *Keyring {
	return &Keyring{
		AppName:  "xplore",
		KeyField: "session-key",
	}
}

// SetKey generates a fresh key and stores it hex-encoded.
func (k *Keyring) SetKey() ([]byte, error) {
	key := make([]byte, keySize)
	if _, err := randRead(key); err != nil {
		return nil, err
	}
	if err := keyringSet(k.AppName, k.KeyField, hex.EncodeToString(key)); err != nil {
		return nil, err
	}
	return key, nil
}

func (k *Keyring) GetKey() ([]byte, error) {
	keyHex, err := keyringGet(k.AppName, k.KeyField)
	if err != nil {
		return nil, err
	}
	return decodeKey(keyHex)
}

func (k *Keyring) DeleteKey() error {
	return keyringDelete(k.AppName, k.KeyField)
}

func decodeKey(keyHex string) ([]byte, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("invalid key length: expected %d, got %d", keySize, len(key))
	}
	return key, nil
}

// LoadOrCreate returns the first key any store already holds. When none has
// one, a new key is created in the first store that accepts it.
func LoadOrCreate(stores ...KeyStore) ([]byte, error) {
	if len(stores) == 0 {
		return nil, errors.New("no key store configured")
	}
	for _, s := range stores {
		if key, err := s.GetKey(); err == nil {
			return key, nil
		}
	}
	var errs []error
	for _, s := range stores {
		key, err := s.SetKey()
		if err == nil {
			return key, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("create session key: %w", errors.Join(errs...))
}
