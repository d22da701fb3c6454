// Package common provides shared helpers for the xplore commands: error
// reporting in one format, help display and table cells.
package common

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli"
	"github.com/xplore-go/xplore/pkg/xapi"
)

// VersionCmdStr is printed by the version command. Execute fills it from
// the build arguments.
var VersionCmdStr string

var (
	showAppHelpAndExit = cli.ShowAppHelpAndExit
	showCommandHelp    = cli.ShowCommandHelp
)

// Help shows the application help, or the help of the command named by the
// first argument.
func Help(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" || arg == "help" {
		fmt.Printf("%s %s\n", ctx.App.Name, ctx.App.Version)
		showAppHelpAndExit(ctx, 0)
		return nil
	}
	if err := showCommandHelp(ctx, arg); err != nil {
		return PrintErrWithHelp(ctx, err)
	}
	return nil
}

func GetVersion(ctx *cli.Context) error {
	fmt.Println(VersionCmdStr)
	return nil
}

// PrintRuntimeErr prints "name: cmd[action]: err" followed by a hint for
// errors the user can act on. ctx may be nil.
func PrintRuntimeErr(ctx *cli.Context, cmd, action string, err error) {
	if err == nil {
		fmt.Println("err is nil", "[", cmd, "|", action, "]")
		return
	}
	name := os.Args[0]
	if ctx != nil {
		name = ctx.App.HelpName
	}
	fmt.Printf("%s: %s[%s]: %s\n", name, cmd, action, err.Error())
	if hint := Hint(err); hint != "" {
		fmt.Printf("hint: %s\n", hint)
	}
}

// Hint suggests a next step for well-known failures.
func Hint(err error) string {
	var le *xapi.LoginError
	switch {
	case errors.Is(err, xapi.ErrEmailRequired):
		return "the platform asked to confirm your identity; pass --email or set XPLORE_EMAIL"
	case errors.Is(err, xapi.ErrTwoFactorRequired):
		return "two-factor is enabled; pass --2fa-secret or set XPLORE_TWO_FACTOR_SECRET"
	case errors.Is(err, xapi.ErrMissingEssentialCookies):
		return "a session needs both ct0 and auth_token cookies"
	case errors.As(err, &le) && le.State == xapi.StateDenied:
		return "the platform denied this login; try again later or import cookies from a browser"
	case xapi.IsRateLimited(err) || xapi.IsKind(err, xapi.KindRateLimit):
		return "rate limited; wait before retrying"
	case xapi.IsKind(err, xapi.KindAuth):
		return `run "xplore login" or "xplore cookie import" to start a new session`
	}
	return ""
}

// PrintErrWithCmdHelp prints err and the current command's help.
func PrintErrWithCmdHelp(ctx *cli.Context, err error) error {
	return printErrWithCallback(ctx, err, func() {
		if err := showCommandHelp(ctx, ctx.Command.Name); err != nil {
			fmt.Println(err.Error())
		}
	})
}

// PrintErrWithHelp prints err and the application help, then exits 1.
func PrintErrWithHelp(ctx *cli.Context, err error) error {
	return printErrWithCallback(ctx, err, func() {
		showAppHelpAndExit(ctx, 1)
	})
}

func printErrWithCallback(ctx *cli.Context, err error, callback func()) error {
	if err == nil {
		return nil
	}
	estr := strings.ToLower(err.Error())
	switch {
	case estr == "flag: help requested":
		return Help(ctx)
	case strings.Contains(estr, "-version"):
		return GetVersion(ctx)
	}
	fmt.Printf("%s: %s\n\n", ctx.App.HelpName, err.Error())
	callback()
	return nil
}

// UsageErrorCallback is the OnUsageError hook for the app and every command.
func UsageErrorCallback(ctx *cli.Context, err error, _ bool) error {
	if ctx.Command.Name != "" {
		return PrintErrWithCmdHelp(ctx, err)
	}
	return PrintErrWithHelp(ctx, err)
}

// Beaut centers s in a cell n wide. An odd remainder goes to the right.
func Beaut(s string, n int) string {
	pad := n - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
