package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/xplore-go/xplore/pkg/xapi"
)

// FileStore keeps pairs as a JSON array of [name, value] arrays. Save
// overwrites the whole file.
type FileStore struct {
	fs   afero.Fs
	path string
}

func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) ([]xapi.Pair, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, xapi.NewError(xapi.KindCookie, "failed to read cookie file", fmt.Errorf("%w: %w", ErrNoSession, err))
	}
	if err != nil {
		return nil, xapi.NewError(xapi.KindCookie, "failed to read cookie file", err)
	}
	return xapi.UnmarshalPairs(data)
}

func (s *FileStore) Save(ctx context.Context, pairs []xapi.Pair) error {
	data, err := xapi.MarshalPairs(pairs)
	if err != nil {
		return err
	}
	if err := writeAtomic(s.fs, s.path, data); err != nil {
		return xapi.NewError(xapi.KindIO, "failed to write cookie file", err)
	}
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	err := s.fs.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return xapi.NewError(xapi.KindIO, "failed to remove cookie file", err)
	}
	return nil
}

// writeAtomic writes data with mode 0600 through a temp file and rename.
func writeAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0700); err != nil {
		return err
	}
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpPath)
		return err
	}
	if err := fs.Chmod(tmpPath, 0600); err != nil {
		fs.Remove(tmpPath)
		return err
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		fs.Remove(tmpPath)
		return err
	}
	return nil
}
