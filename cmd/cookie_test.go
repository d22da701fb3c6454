package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/xplore-go/xplore/internal/cookies"
	"github.com/xplore-go/xplore/pkg/logger"
	"github.com/xplore-go/xplore/pkg/xapi"
)

var session2 = []xapi.Pair{{Name: "ct0", Value: "csrf"}, {Name: "auth_token", Value: "tok"}, {Name: "lang", Value: "en"}}

func TestCookieGet(t *testing.T) {
	fs := setupEnv(t, nil)
	writeSession(t, fs, session2...)

	out := run(t, "cookie", "get")
	for _, want := range []string{"ct0=csrf", "auth_token=tok", "lang=en"} {
		assertContains(t, out, want)
	}

	out = run(t, "cookie", "get", "--names")
	assertContains(t, out, "auth_token")
	assertContains(t, out, "Essential")
	assertNotContains(t, out, "csrf")
	if lines := strings.Count(out, "\n"); lines != 4 {
		t.Errorf("got %d table lines, want 4:\n%s", lines, out)
	}
}

func TestCookieSet(t *testing.T) {
	fs := setupEnv(t, nil)

	out := run(t, "cookie", "set", "ct0=a; auth_token=b; lang=en")
	assertContains(t, out, "Saved 3 cookies")
	if pairs := readSession(t, fs); len(pairs) != 3 {
		t.Errorf("saved %d pairs, want 3", len(pairs))
	}

	out = run(t, "cookie", "set", "lang=fr")
	assertContains(t, out, "missing essential cookies")
	if pairs := readSession(t, fs); len(pairs) != 3 {
		t.Errorf("rejected import changed the session: %+v", pairs)
	}
}

func TestCookieImport_NetscapeFile(t *testing.T) {
	fs := setupEnv(t, nil)
	afero.WriteFile(fs, "/home/cookies.txt", []byte("# Netscape HTTP Cookie File\n"+
		".x.com\tTRUE\t/\tTRUE\t0\tct0\tcsrf\n"+
		"#HttpOnly_.x.com\tTRUE\t/\tTRUE\t0\tauth_token\ttok\n"), 0600)

	out := run(t, "cookie", "import", "--browser-file", "/home/cookies.txt")
	assertContains(t, out, "Imported 2 cookies from Netscape (/home/cookies.txt)")
	if !xapi.HasEssentialCookies(readSession(t, fs)) {
		t.Error("import did not save the session")
	}
}

func TestCookieImport_Incomplete(t *testing.T) {
	fs := setupEnv(t, nil)
	afero.WriteFile(fs, "/c.txt", []byte("# Netscape HTTP Cookie File\n.x.com\tTRUE\t/\tTRUE\t0\tct0\tcsrf\n"), 0600)

	out := run(t, "cookie", "import", "-b", "/c.txt")
	assertContains(t, out, "cookie-import[read]")
	assertContains(t, out, "hint: a session needs both ct0 and auth_token")
	if ok, _ := afero.Exists(fs, "/cfg/cookies.json"); ok {
		t.Error("incomplete import was saved")
	}
}

func TestCookieImport_UsesImporterLogger(t *testing.T) {
	setupEnv(t, nil)
	var got logger.Logger
	orig := newImporter
	newImporter = func(log logger.Logger) *cookies.Importer {
		got = log
		return orig(log)
	}
	defer func() { newImporter = orig }()

	run(t, "cookie", "import", "-b", "/missing")
	if got == nil {
		t.Fatal("importer built without a logger")
	}
}

func TestCookieExport(t *testing.T) {
	fs := setupEnv(t, nil)
	writeSession(t, fs, session2...)

	out := run(t, "cookie", "export", "--json")
	pairs, err := xapi.UnmarshalPairs([]byte(out))
	if err != nil {
		t.Fatalf("export is not pair JSON: %v\n%s", err, out)
	}
	if len(pairs) != 3 {
		t.Errorf("exported %d pairs, want 3", len(pairs))
	}

	out = run(t, "cookie", "export", "-o", "/out.txt")
	assertContains(t, out, "Exported 3 cookies to /out.txt")
	data, _ := afero.ReadFile(fs, "/out.txt")
	assertContains(t, string(data), "auth_token=tok")
	if info, _ := fs.Stat("/out.txt"); info.Mode().Perm() != 0600 {
		t.Errorf("export mode = %v, want 0600", info.Mode().Perm())
	}
}
