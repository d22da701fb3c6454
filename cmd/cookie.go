package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/xplore-go/xplore/cmd/common"
	"github.com/xplore-go/xplore/internal/cookies"
	"github.com/xplore-go/xplore/pkg/logger"
	"github.com/xplore-go/xplore/pkg/xapi"
)

var newImporter = func(log logger.Logger) *cookies.Importer {
	return &cookies.Importer{Fs: appFs, Log: log}
}

func cookieGet(ctx *cli.Context) error {
	s, err := newSession(ctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "cookie-get", "config", err)
		return nil
	}
	defer s.close()

	cctx, cancel := commandContext()
	defer cancel()
	if err := s.restore(cctx); err != nil {
		common.PrintRuntimeErr(ctx, "cookie-get", "restore", err)
		return nil
	}
	if !ctx.Bool("names") {
		fmt.Println(s.client.GetCookieString())
		return nil
	}

	names := s.client.Jar().Names()
	sort.Strings(names)
	width := len("Name")
	for _, n := range names {
		width = max(width, len(n))
	}
	width += 2
	fmt.Printf("|%s|%s|\n", common.Beaut("Name", width), common.Beaut("Essential", 11))
	for _, n := range names {
		essential := ""
		if n == xapi.CSRFCookie || n == xapi.AuthCookie {
			essential = "yes"
		}
		fmt.Printf("|%s|%s|\n", common.Beaut(n, width), common.Beaut(essential, 11))
	}
	return nil
}

func cookieSet(ctx *cli.Context) error {
	raw := ctx.Args().First()
	if raw == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("a cookie string is required"))
	}
	s, err := newSession(ctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "cookie-set", "config", err)
		return nil
	}
	defer s.close()

	if err := s.client.SetCookieString(raw); err != nil {
		common.PrintRuntimeErr(ctx, "cookie-set", "parse", err)
		return nil
	}
	cctx, cancel := commandContext()
	defer cancel()
	if err := s.save(cctx); err != nil {
		common.PrintRuntimeErr(ctx, "cookie-set", "save", err)
		return nil
	}
	fmt.Printf("Saved %d cookies\n", s.client.Jar().Len())
	return nil
}

func cookieImport(ctx *cli.Context) error {
	s, err := newSession(ctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "cookie-import", "config", err)
		return nil
	}
	defer s.close()

	im := newImporter(s.log)
	var (
		pairs []xapi.Pair
		src   *cookies.Source
	)
	if path := ctx.String("browser-file"); path == "" || path == "auto" {
		pairs, src, err = im.Detect()
	} else {
		pairs, src, err = im.Import(path)
	}
	if err != nil {
		common.PrintRuntimeErr(ctx, "cookie-import", "read", err)
		return nil
	}

	s.client.Jar().BulkReplace(pairs)
	cctx, cancel := commandContext()
	defer cancel()
	if err := s.save(cctx); err != nil {
		common.PrintRuntimeErr(ctx, "cookie-import", "save", err)
		return nil
	}
	fmt.Printf("Imported %d cookies from %s (%s)\n", len(pairs), src.Browser, src.Path)
	return nil
}

func cookieExport(ctx *cli.Context) error {
	s, err := newSession(ctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "cookie-export", "config", err)
		return nil
	}
	defer s.close()

	cctx, cancel := commandContext()
	defer cancel()
	if err := s.restore(cctx); err != nil {
		common.PrintRuntimeErr(ctx, "cookie-export", "restore", err)
		return nil
	}

	var out []byte
	if ctx.Bool("json") {
		if out, err = s.client.CookiesJSON(); err != nil {
			common.PrintRuntimeErr(ctx, "cookie-export", "json", err)
			return nil
		}
	} else {
		out = []byte(s.client.GetCookieString())
	}

	path := ctx.String("output")
	if path == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := afero.WriteFile(appFs, path, append(out, '\n'), 0600); err != nil {
		common.PrintRuntimeErr(ctx, "cookie-export", "write", err)
		return nil
	}
	fmt.Printf("Exported %d cookies to %s\n", s.client.Jar().Len(), path)
	return nil
}
