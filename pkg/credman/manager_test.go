package credman

import (
	"bytes"
	"crypto/rand"
	"reflect"
	"testing"

	"github.com/spf13/afero"
	"github.com/xplore-go/xplore/pkg/xapi"
)

const vaultPath = "/data/session.vault"

func newKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}
	return key
}

func TestReplaceAll(t *testing.T) {
	cm, err := NewCookieManager(afero.NewMemMapFs(), vaultPath, newKey(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := cm.ReplaceAll([]xapi.Pair{{Name: "ct0", Value: "a"}, {Name: "lang", Value: "en"}}); err != nil {
		t.Fatalf("Error replacing cookies: %v", err)
	}
	want := []xapi.Pair{{Name: "ct0", Value: "c"}, {Name: "auth_token", Value: "b"}}
	if err := cm.ReplaceAll(want); err != nil {
		t.Fatal(err)
	}

	if got := cm.Names(); !reflect.DeepEqual(got, []string{"ct0", "auth_token"}) {
		t.Fatalf("Names = %v", got)
	}
	got, err := cm.Pairs()
	if err != nil {
		t.Fatalf("Error reading cookies: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Pairs = %v, want %v", got, want)
	}
}

func TestVaultPersistsAcrossOpens(t *testing.T) {
	fs := afero.NewMemMapFs()
	key := newKey(t)
	pairs := []xapi.Pair{{Name: "ct0", Value: "csrf"}, {Name: "auth_token", Value: "tok"}}

	cm, err := NewCookieManager(fs, vaultPath, key)
	if err != nil {
		t.Fatal(err)
	}
	if err := cm.ReplaceAll(pairs); err != nil {
		t.Fatal(err)
	}

	raw, _ := afero.ReadFile(fs, vaultPath)
	if bytes.Contains(raw, []byte("csrf")) {
		t.Fatal("vault stores plaintext values")
	}

	reopened, err := NewCookieManager(fs, vaultPath, key)
	if err != nil {
		t.Fatal(err)
	}
	got, err := reopened.Pairs()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, pairs) {
		t.Fatalf("Pairs = %v, want %v", got, pairs)
	}

	wrong, err := NewCookieManager(fs, vaultPath, newKey(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wrong.Pairs(); err == nil {
		t.Fatal("expected decrypt failure with the wrong key")
	}
}

func TestPassphraseVault(t *testing.T) {
	fs := afero.NewMemMapFs()
	cm, err := NewCookieManagerWithPassphrase(fs, vaultPath, "correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if err := cm.ReplaceAll([]xapi.Pair{{Name: "auth_token", Value: "tok"}}); err != nil {
		t.Fatal(err)
	}

	again, err := NewCookieManagerWithPassphrase(fs, vaultPath, "correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again.salt, cm.salt) {
		t.Fatal("salt should be read back from the vault")
	}
	if got, err := again.Pairs(); err != nil || len(got) != 1 || got[0].Value != "tok" {
		t.Fatalf("Pairs = %v, %v", got, err)
	}

	bad, _ := NewCookieManagerWithPassphrase(fs, vaultPath, "wrong")
	if _, err := bad.Pairs(); err == nil {
		t.Fatal("expected failure with the wrong passphrase")
	}
	if _, err := NewCookieManagerWithPassphrase(fs, vaultPath, ""); err == nil {
		t.Fatal("expected error for empty passphrase")
	}
}

func TestCorruptVault(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, vaultPath, []byte("garbage"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCookieManager(fs, vaultPath, newKey(t)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestClear(t *testing.T) {
	fs := afero.NewMemMapFs()
	cm, _ := NewCookieManager(fs, vaultPath, newKey(t))
	_ = cm.ReplaceAll([]xapi.Pair{{Name: "ct0", Value: "a"}})
	if err := cm.Clear(); err != nil {
		t.Fatal(err)
	}
	if ok, _ := afero.Exists(fs, vaultPath); ok {
		t.Fatal("vault file should be removed")
	}
	if err := cm.Clear(); err != nil {
		t.Fatalf("clearing a missing vault should succeed: %v", err)
	}
	if len(cm.Names()) != 0 {
		t.Fatal("entries should be empty")
	}
}
