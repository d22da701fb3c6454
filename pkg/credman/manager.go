// Package credman keeps session cookies in an encrypted vault file.
//
// Each cookie value is sealed individually with AES-GCM; names stay in the
// clear so a vault can be listed without the key. The vault is gob-encoded
// and rewritten whole on every change.
package credman

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/xplore-go/xplore/pkg/credman/encryption"
	"github.com/xplore-go/xplore/pkg/xapi"
)

const vaultVersion = 1

type entry struct {
	Name  string
	Value []byte
}

type vault struct {
	Version int
	// Salt is set when the key was derived from a passphrase.
	Salt    []byte
	Entries []entry
}

type CookieManager struct {
	fs       afero.Fs
	filePath string
	key      []byte
	salt     []byte
	entries  []entry
}

// NewCookieManager opens the vault at filePath with a raw 32-byte key. A
// missing file is an empty vault.
func NewCookieManager(fs afero.Fs, filePath string, key []byte) (*CookieManager, error) {
	cm := &CookieManager{fs: fs, filePath: filePath, key: key}
	if _, err := cm.loadCookies(); err != nil {
		return nil, err
	}
	return cm, nil
}

// NewCookieManagerWithPassphrase opens the vault with a key derived from
// passphrase. The salt lives in the vault header; a new vault gets a fresh
// one.
func NewCookieManagerWithPassphrase(fs afero.Fs, filePath, passphrase string) (*CookieManager, error) {
	cm := &CookieManager{fs: fs, filePath: filePath}
	salt, err := cm.loadCookies()
	if err != nil {
		return nil, err
	}
	if len(salt) == 0 {
		if salt, err = encryption.NewSalt(); err != nil {
			return nil, err
		}
	}
	key, err := encryption.DeriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}
	cm.key, cm.salt = key, salt
	return cm, nil
}

func (cm *CookieManager) loadCookies() ([]byte, error) {
	data, err := afero.ReadFile(cm.fs, cm.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 { // don't decode empty data
		return nil, nil
	}
	var v vault
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return nil, fmt.Errorf("decode vault: %w", err)
	}
	if v.Version != vaultVersion {
		return nil, fmt.Errorf("unsupported vault version %d", v.Version)
	}
	cm.entries = v.Entries
	cm.salt = v.Salt
	return v.Salt, nil
}

func (cm *CookieManager) saveCookies() error {
	var buf bytes.Buffer
	v := vault{Version: vaultVersion, Salt: cm.salt, Entries: cm.entries}
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}

	dir := filepath.Dir(cm.filePath)
	if err := cm.fs.MkdirAll(dir, 0700); err != nil {
		return err
	}
	tmp, err := afero.TempFile(cm.fs, dir, ".vault.tmp.*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		cm.fs.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		cm.fs.Remove(tmpPath)
		return err
	}
	if err := cm.fs.Rename(tmpPath, cm.filePath); err != nil {
		cm.fs.Remove(tmpPath)
		return err
	}
	return nil
}

func (cm *CookieManager) seal(name, value string) (entry, error) {
	enc, err := encryption.EncryptValue(value, cm.key)
	if err != nil {
		return entry{}, err
	}
	return entry{Name: name, Value: enc}, nil
}

// Names lists stored cookie names in insertion order. It needs no key.
func (cm *CookieManager) Names() []string {
	names := make([]string, len(cm.entries))
	for i, e := range cm.entries {
		names[i] = e.Name
	}
	return names
}

// Pairs decrypts the whole vault.
func (cm *CookieManager) Pairs() ([]xapi.Pair, error) {
	pairs := make([]xapi.Pair, 0, len(cm.entries))
	for _, e := range cm.entries {
		plain, err := encryption.DecryptValue(e.Value, cm.key)
		if err != nil {
			return nil, fmt.Errorf("decrypt %s: %w", e.Name, err)
		}
		pairs = append(pairs, xapi.Pair{Name: e.Name, Value: string(plain)})
	}
	return pairs, nil
}

// ReplaceAll swaps the vault contents for pairs in a single write.
func (cm *CookieManager) ReplaceAll(pairs []xapi.Pair) error {
	entries := make([]entry, 0, len(pairs))
	for _, p := range pairs {
		e, err := cm.seal(p.Name, p.Value)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	cm.entries = entries
	return cm.saveCookies()
}

// Clear removes the vault file.
func (cm *CookieManager) Clear() error {
	cm.entries = nil
	err := cm.fs.Remove(cm.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
