package cookies

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// snapshot copies a SQLite cookie database and its -wal/-shm companions
// out of fs into a private OS temp directory, so the database can be opened
// while the browser holds it. The caller must run cleanup.
func snapshot(fs afero.Fs, src string) (dbPath string, cleanup func(), err error) {
	dir, err := os.MkdirTemp("", "xplore-cookies-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temp directory: %w", err)
	}
	cleanup = func() { os.RemoveAll(dir) }

	base := filepath.Base(src)
	dbPath = filepath.Join(dir, base)
	if err := copyOut(fs, src, dbPath); err != nil {
		cleanup()
		return "", nil, err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if ok, _ := afero.Exists(fs, src+suffix); ok {
			_ = copyOut(fs, src+suffix, dbPath+suffix)
		}
	}
	return dbPath, cleanup, nil
}

func copyOut(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
