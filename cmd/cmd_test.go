package cmd

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/xplore-go/xplore/pkg/xapi"
)

func TestLogin(t *testing.T) {
	srv := newAPIServer(t,
		subtasks("f1", xapi.IDSuccess),
		subtasks("f2"),
	)
	fs := setupEnv(t, map[string]string{
		"XPLORE_BASE_URL": srv.URL,
		"XPLORE_PASSWORD": "pw",
	})

	out := run(t, "login", "--username", "alice")
	assertContains(t, out, "Logged in as alice (2 cookies saved)")

	pairs := readSession(t, fs)
	if !xapi.HasEssentialCookies(pairs) {
		t.Fatalf("saved session = %+v", pairs)
	}
	assertNotContains(t, out, "tok-1")
}

func TestLogin_PasswordFile(t *testing.T) {
	srv := newAPIServer(t, subtasks("f1", xapi.IDSuccess), subtasks("f2"))
	fs := setupEnv(t, map[string]string{"XPLORE_BASE_URL": srv.URL, "XPLORE_USERNAME": "alice"})
	afero.WriteFile(fs, "/pw.txt", []byte("secret\n"), 0600)

	orig := readPassword
	readPassword = func() (string, error) {
		t.Fatal("password prompt used despite --password-file")
		return "", nil
	}
	defer func() { readPassword = orig }()

	out := run(t, "login", "--password-file", "/pw.txt")
	assertContains(t, out, "Logged in as alice")
}

func TestLogin_PromptsForPassword(t *testing.T) {
	srv := newAPIServer(t, subtasks("f1", xapi.IDSuccess), subtasks("f2"))
	setupEnv(t, map[string]string{"XPLORE_BASE_URL": srv.URL})

	prompted := false
	orig := readPassword
	readPassword = func() (string, error) {
		prompted = true
		return "pw", nil
	}
	defer func() { readPassword = orig }()

	run(t, "login", "-u", "alice")
	if !prompted {
		t.Fatal("expected a password prompt")
	}
}

func TestLogin_Denied(t *testing.T) {
	srv := newAPIServer(t, subtasks("f1", xapi.IDEnterUserIdentifier, xapi.IDDenyLogin))
	fs := setupEnv(t, map[string]string{"XPLORE_BASE_URL": srv.URL, "XPLORE_PASSWORD": "pw"})

	out := run(t, "login", "--username", "alice")
	assertContains(t, out, "xplore: login[flow]:")
	assertContains(t, out, "hint: the platform denied this login")
	if ok, _ := afero.Exists(fs, "/cfg/cookies.json"); ok {
		t.Error("session saved after a denied login")
	}
}

func TestLogin_EmailRequired(t *testing.T) {
	srv := newAPIServer(t, subtasks("f1", xapi.IDAcid))
	setupEnv(t, map[string]string{"XPLORE_BASE_URL": srv.URL, "XPLORE_PASSWORD": "pw"})

	out := run(t, "login", "--username", "alice")
	assertContains(t, out, "--email")
	if n := srv.flowRequests(); n != 1 {
		t.Errorf("flow requests = %d, want 1", n)
	}
}

func TestLogout(t *testing.T) {
	fs := setupEnv(t, nil)
	writeSession(t, fs, xapi.Pair{Name: "ct0", Value: "a"}, xapi.Pair{Name: "auth_token", Value: "b"})

	out := run(t, "logout")
	assertContains(t, out, "Logged out")
	if ok, _ := afero.Exists(fs, "/cfg/cookies.json"); ok {
		t.Error("session file survived logout")
	}
}

func TestVerify(t *testing.T) {
	srv := newAPIServer(t)
	tests := []struct {
		name   string
		pairs  []xapi.Pair
		verify map[string]any
		want   string
	}{
		{
			name:  "logged in",
			pairs: []xapi.Pair{{Name: "ct0", Value: "a"}, {Name: "auth_token", Value: "b"}},
			want:  "Session is logged in",
		},
		{
			name:  "no session",
			pairs: []xapi.Pair{{Name: "ct0", Value: "a"}},
			want:  "No session",
		},
		{
			name:   "errors array",
			pairs:  []xapi.Pair{{Name: "ct0", Value: "a"}, {Name: "auth_token", Value: "b"}},
			verify: map[string]any{"errors": []map[string]any{{"code": 89, "message": "Invalid or expired token."}}},
			want:   "Invalid or expired token.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := setupEnv(t, map[string]string{"XPLORE_BASE_URL": srv.URL})
			writeSession(t, fs, tt.pairs...)
			body := tt.verify
			if body == nil {
				body = map[string]any{"screen_name": "alice"}
			}
			srv.setVerify(body)
			assertContains(t, run(t, "verify"), tt.want)
		})
	}
}

func TestVerify_CookieStringFallback(t *testing.T) {
	srv := newAPIServer(t)
	setupEnv(t, map[string]string{
		"XPLORE_BASE_URL": srv.URL,
		"X_COOKIE_STRING": "ct0=a; auth_token=b",
	})
	assertContains(t, run(t, "verify"), "Session is logged in")
}

func TestVerify_CorruptSession(t *testing.T) {
	fs := setupEnv(t, nil)
	afero.WriteFile(fs, "/cfg/cookies.json", []byte("{"), 0600)
	assertContains(t, run(t, "verify"), "verify[restore]: cookie error")
}

func TestGlobalFlags(t *testing.T) {
	setupEnv(t, nil)
	out := run(t, "--store", "s3", "logout")
	assertContains(t, out, `unknown store kind "s3"`)

	out = run(t, "--log-level", "loud", "logout")
	assertContains(t, out, "unknown log level")
}

func TestVersion(t *testing.T) {
	out := run(t, "version")
	assertContains(t, out, "xplore test-dev")
}

func TestLogFile(t *testing.T) {
	srv := newAPIServer(t, subtasks("f1", xapi.IDSuccess), subtasks("f2"))
	fs := setupEnv(t, map[string]string{"XPLORE_BASE_URL": srv.URL, "XPLORE_PASSWORD": "s3cret-pass"})

	run(t, "--log-file", "/xplore.log", "login", "-u", "alice")
	data, err := afero.ReadFile(fs, "/xplore.log")
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	assertContains(t, string(data), "login flow completed")
	assertNotContains(t, string(data), "tok-1")
	assertNotContains(t, string(data), "s3cret-pass")
}
