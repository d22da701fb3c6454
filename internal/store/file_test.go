package store

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/xplore-go/xplore/pkg/xapi"
)

var testPairs = []xapi.Pair{{Name: "ct0", Value: "csrf"}, {Name: "auth_token", Value: "tok"}}

func equalPairs(a, b []xapi.Pair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFileStore_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewFileStore(fs, "/cfg/cookies.json")
	ctx := context.Background()

	if err := s.Save(ctx, testPairs); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := fs.Stat("/cfg/cookies.json")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
	data, _ := afero.ReadFile(fs, "/cfg/cookies.json")
	if want := "[\n  [\n    \"ct0\",\n    \"csrf\"\n  ],"; string(data[:len(want)]) != want {
		t.Errorf("file = %s", data)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !equalPairs(got, testPairs) {
		t.Errorf("Load = %+v, want %+v", got, testPairs)
	}

	if err := s.Save(ctx, testPairs[:1]); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := s.Load(ctx); len(got) != 1 {
		t.Errorf("overwrite kept %d pairs, want 1", len(got))
	}
}

func TestFileStore_LoadErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/bad.json", []byte("{not json"), 0600)
	afero.WriteFile(fs, "/short.json", []byte(`[["ct0"]]`), 0600)

	tests := []struct {
		path      string
		noSession bool
	}{
		{"/missing.json", true},
		{"/bad.json", false},
		{"/short.json", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := NewFileStore(fs, tt.path).Load(context.Background())
			if !xapi.IsKind(err, xapi.KindCookie) {
				t.Fatalf("err = %v, want a cookie error", err)
			}
			if errors.Is(err, ErrNoSession) != tt.noSession {
				t.Errorf("errors.Is(err, ErrNoSession) = %v, want %v", !tt.noSession, tt.noSession)
			}
		})
	}
}

func TestFileStore_Clear(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewFileStore(fs, "/cookies.json")
	ctx := context.Background()
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear on missing file: %v", err)
	}
	s.Save(ctx, testPairs)
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if ok, _ := afero.Exists(fs, "/cookies.json"); ok {
		t.Error("file still exists after Clear")
	}
}

func TestOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"default is file", Options{ConfigDir: "/cfg", Fs: fs}, false},
		{"file", Options{Kind: KindFile, Path: "/x.json", Fs: fs}, false},
		{"redis without address", Options{Kind: KindRedis}, true},
		{"redis", Options{Kind: KindRedis, RedisAddr: "localhost:6379"}, false},
		{"unknown", Options{Kind: "s3"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open err = %v, wantErr %v", err, tt.wantErr)
			}
			if rs, ok := s.(*RedisStore); ok {
				if rs.key != DefaultRedisKey {
					t.Errorf("redis key = %q", rs.key)
				}
				rs.Close()
			}
		})
	}

	s, _ := Open(Options{ConfigDir: "/cfg", Fs: fs})
	if fsStore := s.(*FileStore); fsStore.Path() != "/cfg/cookies.json" {
		t.Errorf("path = %q", fsStore.Path())
	}
}
