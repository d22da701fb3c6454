package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/xplore-go/xplore/internal/config"
	"github.com/xplore-go/xplore/pkg/xapi"
)

// captureOutput runs f with os.Stdout redirected and returns what it wrote.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.String()
	}()

	f()
	w.Close()
	os.Stdout = old
	out := <-done
	r.Close()
	return out
}

func assertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

func assertNotContains(t *testing.T, output, notExpected string) {
	t.Helper()
	if strings.Contains(output, notExpected) {
		t.Errorf("expected output to not contain %q, got:\n%s", notExpected, output)
	}
}

// setupEnv points the commands at an in-memory filesystem and the given
// environment. It returns the filesystem.
func setupEnv(t *testing.T, vars map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	if vars == nil {
		vars = map[string]string{}
	}
	if _, ok := vars["XPLORE_CONFIG_DIR"]; !ok {
		vars["XPLORE_CONFIG_DIR"] = "/cfg"
	}

	origLoad, origFs, origLog := loadConfig, appFs, logOutput
	loadConfig = func() (*config.Config, error) { return config.FromMap(vars) }
	appFs = fs
	logOutput = io.Discard
	t.Cleanup(func() {
		loadConfig, appFs, logOutput = origLoad, origFs, origLog
	})
	return fs
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var err error
	out := captureOutput(func() {
		err = Execute(append([]string{"xplore"}, args...), BuildArgs{Version: "test", BuildType: "dev"})
	})
	if err != nil {
		t.Fatalf("Execute(%v): %v", args, err)
	}
	return out
}

func writeSession(t *testing.T, fs afero.Fs, pairs ...xapi.Pair) {
	t.Helper()
	data, err := xapi.MarshalPairs(pairs)
	if err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/cfg/cookies.json", data, 0600); err != nil {
		t.Fatal(err)
	}
}

func readSession(t *testing.T, fs afero.Fs) []xapi.Pair {
	t.Helper()
	data, err := afero.ReadFile(fs, "/cfg/cookies.json")
	if err != nil {
		t.Fatalf("read session: %v", err)
	}
	pairs, err := xapi.UnmarshalPairs(data)
	if err != nil {
		t.Fatalf("parse session: %v", err)
	}
	return pairs
}

// apiServer fakes the guest, flow and verify endpoints. Each flow response
// in flows is served in order.
type apiServer struct {
	*httptest.Server
	mu       sync.Mutex
	flows    []map[string]any
	requests int
	verify   map[string]any
}

func newAPIServer(t *testing.T, flows ...map[string]any) *apiServer {
	t.Helper()
	s := &apiServer{flows: flows, verify: map[string]any{"screen_name": "alice"}}
	mux := http.NewServeMux()
	mux.HandleFunc(xapi.GuestActivatePath, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"guest_token": "g-1"})
	})
	mux.HandleFunc(xapi.FlowTaskPath, func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		n := s.requests
		s.requests++
		s.mu.Unlock()
		if n >= len(s.flows) {
			t.Errorf("unexpected flow request #%d", n)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if n == 0 {
			w.Header().Add("Set-Cookie", "ct0=csrf-1; Path=/; Domain=.twitter.com")
			w.Header().Add("Set-Cookie", "auth_token=tok-1; Path=/; Domain=.twitter.com; HttpOnly")
		}
		json.NewEncoder(w).Encode(s.flows[n])
	})
	mux.HandleFunc(xapi.VerifyCredentialsPath, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Cookie"), "auth_token=") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		s.mu.Lock()
		body := s.verify
		s.mu.Unlock()
		json.NewEncoder(w).Encode(body)
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *apiServer) setVerify(body map[string]any) {
	s.mu.Lock()
	s.verify = body
	s.mu.Unlock()
}

func (s *apiServer) flowRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func subtasks(token string, ids ...string) map[string]any {
	refs := make([]map[string]string, len(ids))
	for i, id := range ids {
		refs[i] = map[string]string{"subtask_id": id}
	}
	return map[string]any{"flow_token": token, "subtasks": refs}
}
