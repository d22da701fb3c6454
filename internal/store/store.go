// Package store persists a session's cookie pairs between CLI runs.
//
// Three backends share the Store interface: a plain JSON file, an encrypted
// credman vault keyed from the OS keyring or a passphrase, and a redis key
// for sessions shared across processes.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/xplore-go/xplore/pkg/xapi"
)

// ErrNoSession is wrapped by Load when nothing has been saved yet.
var ErrNoSession = errors.New("no saved session")

// Store loads and saves cookie pairs. Load errors are xapi Cookie errors.
type Store interface {
	Load(ctx context.Context) ([]xapi.Pair, error)
	Save(ctx context.Context, pairs []xapi.Pair) error
	Clear(ctx context.Context) error
}

// Kind selects a Store backend.
type Kind string

const (
	KindFile      Kind = "file"
	KindEncrypted Kind = "encrypted"
	KindRedis     Kind = "redis"
)

const (
	defaultFileName  = "cookies.json"
	defaultVaultName = "cookies.vault"
	DefaultRedisKey  = "xplore:session"
)

// Options configures Open.
type Options struct {
	Kind Kind
	// Path overrides the file or vault location under ConfigDir.
	Path      string
	ConfigDir string
	// Passphrase, when set, derives the vault key instead of using the
	// keyring.
	Passphrase string
	RedisAddr  string
	RedisKey   string
	// RedisTTL of 0 keeps the session until cleared.
	RedisTTL time.Duration
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
}

// Open builds the Store described by opts.
func Open(opts Options) (Store, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	switch opts.Kind {
	case "", KindFile:
		return NewFileStore(fs, opts.path(defaultFileName)), nil
	case KindEncrypted:
		s, err := OpenEncrypted(fs, opts.path(defaultVaultName), opts.ConfigDir, opts.Passphrase)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindRedis:
		if opts.RedisAddr == "" {
			return nil, errors.New("redis store needs an address")
		}
		key := opts.RedisKey
		if key == "" {
			key = DefaultRedisKey
		}
		return NewRedisStore(opts.RedisAddr, key, opts.RedisTTL), nil
	}
	return nil, fmt.Errorf("unknown store kind %q", opts.Kind)
}

func (o Options) path(name string) string {
	if o.Path != "" {
		return o.Path
	}
	return filepath.Join(o.ConfigDir, name)
}

func noSession(where string) error {
	return xapi.NewError(xapi.KindCookie, "no saved session in "+where, ErrNoSession)
}
