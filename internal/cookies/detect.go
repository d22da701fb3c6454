package cookies

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
)

var (
	ErrUnsupportedStore = errors.New("unsupported cookie store")
	ErrNoBrowserStore   = errors.New("no supported browser cookie store found")
)

var sqliteMagic = []byte("SQLite format 3\x00")

// sniff classifies path by its first bytes: SQLite databases need a schema
// check, text files must start with a Netscape header.
func sniff(fs afero.Fs, path string) (sqlite bool, err error) {
	info, err := fs.Stat(path)
	if err != nil {
		return false, fmt.Errorf("cookie file %s: %w", path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory, expected a cookie file or 'auto'", path)
	}
	if info.Size() == 0 {
		return false, fmt.Errorf("cookie file %s is empty", path)
	}

	f, err := fs.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, fmt.Errorf("read cookie file: %w", err)
	}
	head = head[:n]
	if bytes.HasPrefix(head, sqliteMagic) {
		return true, nil
	}

	first, _ := bufio.NewReader(bytes.NewReader(head)).ReadString('\n')
	first = strings.TrimRight(first, "\r\n")
	if first == "# Netscape HTTP Cookie File" || first == "# HTTP Cookie File" {
		return false, nil
	}
	return false, fmt.Errorf("%w at %s", ErrUnsupportedStore, path)
}
