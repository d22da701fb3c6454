package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	keyFileName = "session.key"
	keyFileMode = 0600
)

// FileKeyStore keeps the key hex-encoded in a 0600 file under configDir.
// It is used when the system keyring is unavailable.
type FileKeyStore struct {
	fs        afero.Fs
	configDir string
}

var fileRandRead = rand.Read

func NewFileKeyStore(fs afero.Fs, configDir string) *FileKeyStore {
	return &FileKeyStore{fs: fs, configDir: configDir}
}

func (f *FileKeyStore) keyPath() string {
	return filepath.Join(f.configDir, keyFileName)
}

// SetKey generates a new key and writes it through a temp file and rename
// so an interrupted write never leaves a truncated key behind.
func (f *FileKeyStore) SetKey() ([]byte, error) {
	if err := f.fs.MkdirAll(f.configDir, 0755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	key := make([]byte, keySize)
	if _, err := fileRandRead(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	tmp, err := afero.TempFile(f.fs, f.configDir, ".session.key.tmp.*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(hex.EncodeToString(key)); err != nil {
		tmp.Close()
		f.fs.Remove(tmpPath)
		return nil, fmt.Errorf("write key: %w", err)
	}
	if err := tmp.Close(); err != nil {
		f.fs.Remove(tmpPath)
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	if err := f.fs.Chmod(tmpPath, keyFileMode); err != nil {
		f.fs.Remove(tmpPath)
		return nil, fmt.Errorf("set permissions: %w", err)
	}
	if err := f.fs.Rename(tmpPath, f.keyPath()); err != nil {
		f.fs.Remove(tmpPath)
		return nil, fmt.Errorf("rename key file: %w", err)
	}
	return key, nil
}

func (f *FileKeyStore) GetKey() ([]byte, error) {
	data, err := afero.ReadFile(f.fs, f.keyPath())
	if err != nil {
		return nil, err
	}
	return decodeKey(strings.TrimSpace(string(data)))
}

func (f *FileKeyStore) DeleteKey() error {
	return f.fs.Remove(f.keyPath())
}
