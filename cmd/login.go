package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/xplore-go/xplore/cmd/common"
	"golang.org/x/term"
)

var readPassword = func() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no terminal available for the password prompt (use --password-file)")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}

func login(ctx *cli.Context) error {
	s, err := newSession(ctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "login", "config", err)
		return nil
	}
	defer s.close()

	creds := s.cfg.Credentials()
	if v := ctx.String("username"); v != "" {
		creds.Username = v
	}
	if v := ctx.String("password"); v != "" {
		creds.Password = v
	}
	if v := ctx.String("email"); v != "" {
		creds.Email = v
	}
	if v := ctx.String("2fa-secret"); v != "" {
		creds.TwoFactorSecret = v
	}
	if creds.Username == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("username is required"))
	}
	if path := ctx.String("password-file"); path != "" {
		b, err := afero.ReadFile(appFs, path)
		if err != nil {
			common.PrintRuntimeErr(ctx, "login", "password-file", err)
			return nil
		}
		creds.Password = strings.TrimRight(string(b), "\r\n")
	}
	if creds.Password == "" {
		if creds.Password, err = readPassword(); err != nil {
			common.PrintRuntimeErr(ctx, "login", "password", err)
			return nil
		}
	}

	cctx, cancel := commandContext()
	defer cancel()
	if err := s.client.Login(cctx, creds); err != nil {
		common.PrintRuntimeErr(ctx, "login", "flow", err)
		return nil
	}
	if err := s.save(cctx); err != nil {
		common.PrintRuntimeErr(ctx, "login", "save", err)
		return nil
	}
	fmt.Printf("Logged in as %s (%d cookies saved)\n", creds.Username, s.client.Jar().Len())
	return nil
}

func logout(ctx *cli.Context) error {
	s, err := newSession(ctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "logout", "config", err)
		return nil
	}
	defer s.close()

	cctx, cancel := commandContext()
	defer cancel()
	s.client.Logout()
	if err := s.store.Clear(cctx); err != nil {
		common.PrintRuntimeErr(ctx, "logout", "clear", err)
		return nil
	}
	fmt.Println("Logged out")
	return nil
}

func verify(ctx *cli.Context) error {
	s, err := newSession(ctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "verify", "config", err)
		return nil
	}
	defer s.close()

	cctx, cancel := commandContext()
	defer cancel()
	if err := s.restore(cctx); err != nil {
		common.PrintRuntimeErr(ctx, "verify", "restore", err)
		return nil
	}
	if !s.client.IsAuthenticated() {
		fmt.Println("No session: ct0 and auth_token cookies are missing")
		return nil
	}
	ok, err := s.client.IsLoggedIn(cctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "verify", "verify_credentials", err)
		return nil
	}
	if !ok {
		fmt.Println("Session expired")
		return nil
	}
	fmt.Println("Session is logged in")
	return nil
}
