package common

import (
	"errors"
	"flag"
	"fmt"
	"testing"

	"github.com/urfave/cli"
	"github.com/xplore-go/xplore/pkg/xapi"
)

func newTestContext() *cli.Context {
	app := cli.NewApp()
	app.Name = "xplore"
	app.HelpName = "xplore"
	app.Version = "test"
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "cmd"}
	return ctx
}

func TestBeaut(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"hi", 4, " hi "},
		{"hi", 5, " hi  "},
		{"hello", 3, "hello"},
		{"", 2, "  "},
	}
	for _, tt := range tests {
		if got := Beaut(tt.s, tt.n); got != tt.want {
			t.Errorf("Beaut(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"email", &xapi.LoginError{Err: xapi.NewError(xapi.KindAuth, "", xapi.ErrEmailRequired)}, true},
		{"2fa", xapi.ErrTwoFactorRequired, true},
		{"cookies", fmt.Errorf("import: %w", xapi.ErrMissingEssentialCookies), true},
		{"denied", &xapi.LoginError{State: xapi.StateDenied, Err: xapi.ErrLoginDenied}, true},
		{"rate limit", xapi.NewError(xapi.KindRateLimit, "", xapi.ErrRateLimited), true},
		{"auth", xapi.NewError(xapi.KindAuth, "bad", nil), true},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hint(tt.err); (got != "") != tt.want {
				t.Errorf("Hint = %q, want hint: %v", got, tt.want)
			}
		})
	}
}

func TestPrintRuntimeErr(t *testing.T) {
	PrintRuntimeErr(nil, "cmd", "action", nil)
	PrintRuntimeErr(newTestContext(), "cmd", "action", errors.New("boom"))
	PrintRuntimeErr(nil, "login", "flow", xapi.ErrTwoFactorRequired)
}

func TestPrintErrWithHelp(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) { called = true }
	defer func() { showAppHelpAndExit = orig }()

	if err := PrintErrWithHelp(ctx, errors.New("oops")); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if !called {
		t.Fatalf("expected help to be called")
	}
}

func TestPrintErrWithHelpFlagHelpRequested(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) { called = true }
	defer func() { showAppHelpAndExit = orig }()

	if err := PrintErrWithHelp(ctx, errors.New("flag: help requested")); err != nil {
		t.Fatalf("PrintErrWithHelp: %v", err)
	}
	if !called {
		t.Fatalf("expected help to be called")
	}
}

func TestPrintErrWithCmdHelp(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showCommandHelp
	showCommandHelp = func(*cli.Context, string) error {
		called = true
		return errors.New("ignored")
	}
	defer func() { showCommandHelp = orig }()

	if err := PrintErrWithCmdHelp(ctx, errors.New("oops")); err != nil {
		t.Fatalf("PrintErrWithCmdHelp: %v", err)
	}
	if !called {
		t.Fatalf("expected command help to be called")
	}
	if err := PrintErrWithCmdHelp(ctx, nil); err != nil {
		t.Fatalf("nil error: %v", err)
	}
}

func TestUsageErrorCallback(t *testing.T) {
	ctx := newTestContext()
	orig := showCommandHelp
	showCommandHelp = func(*cli.Context, string) error { return nil }
	defer func() { showCommandHelp = orig }()

	if err := UsageErrorCallback(ctx, errors.New("oops"), false); err != nil {
		t.Fatalf("UsageErrorCallback: %v", err)
	}
}

func TestHelp(t *testing.T) {
	ctx := newTestContext()
	called := false
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(*cli.Context, int) { called = true }
	defer func() { showAppHelpAndExit = orig }()

	if err := Help(ctx); err != nil {
		t.Fatalf("Help: %v", err)
	}
	if !called {
		t.Fatalf("expected help to be called")
	}
}

func TestHelpWithCommandArg(t *testing.T) {
	app := cli.NewApp()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	_ = set.Parse([]string{"login"})
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "help"}
	var got string
	orig := showCommandHelp
	showCommandHelp = func(_ *cli.Context, name string) error {
		got = name
		return nil
	}
	defer func() { showCommandHelp = orig }()

	if err := Help(ctx); err != nil {
		t.Fatalf("Help: %v", err)
	}
	if got != "login" {
		t.Fatalf("showCommandHelp(%q), want login", got)
	}
}

func TestGetVersion(t *testing.T) {
	VersionCmdStr = "xplore test"
	if err := GetVersion(newTestContext()); err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
}
