package store

import (
	"context"

	"github.com/spf13/afero"
	"github.com/xplore-go/xplore/pkg/credman"
	"github.com/xplore-go/xplore/pkg/credman/keyring"
	"github.com/xplore-go/xplore/pkg/xapi"
)

// EncryptedStore keeps pairs in a credman vault.
type EncryptedStore struct {
	cm *credman.CookieManager
}

// keyStores lists where the vault key is looked up, in order.
var keyStores = func(fs afero.Fs, configDir string) []keyring.KeyStore {
	return []keyring.KeyStore{keyring.NewKeyring(), keyring.NewFileKeyStore(fs, configDir)}
}

// OpenEncrypted opens the vault at path. With an empty passphrase the key
// comes from the OS keyring, falling back to a key file in configDir.
func OpenEncrypted(fs afero.Fs, path, configDir, passphrase string) (*EncryptedStore, error) {
	var (
		cm  *credman.CookieManager
		err error
	)
	if passphrase != "" {
		cm, err = credman.NewCookieManagerWithPassphrase(fs, path, passphrase)
	} else {
		var key []byte
		key, err = keyring.LoadOrCreate(keyStores(fs, configDir)...)
		if err != nil {
			return nil, xapi.NewError(xapi.KindIO, "failed to load session key", err)
		}
		cm, err = credman.NewCookieManager(fs, path, key)
	}
	if err != nil {
		return nil, xapi.NewError(xapi.KindCookie, "failed to open session vault", err)
	}
	return &EncryptedStore{cm: cm}, nil
}

func (s *EncryptedStore) Load(ctx context.Context) ([]xapi.Pair, error) {
	if len(s.cm.Names()) == 0 {
		return nil, noSession("vault")
	}
	pairs, err := s.cm.Pairs()
	if err != nil {
		return nil, xapi.NewError(xapi.KindCookie, "failed to decrypt session vault", err)
	}
	return pairs, nil
}

func (s *EncryptedStore) Save(ctx context.Context, pairs []xapi.Pair) error {
	if err := s.cm.ReplaceAll(pairs); err != nil {
		return xapi.NewError(xapi.KindIO, "failed to write session vault", err)
	}
	return nil
}

func (s *EncryptedStore) Clear(ctx context.Context) error {
	if err := s.cm.Clear(); err != nil {
		return xapi.NewError(xapi.KindIO, "failed to remove session vault", err)
	}
	return nil
}
