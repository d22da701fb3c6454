package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"
	"github.com/xplore-go/xplore/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

func Execute(args []string, bArgs BuildArgs) error {
	app := cli.App{
		Name:                  "xplore",
		HelpName:              "xplore",
		Usage:                 "A session client for the platform's private web API.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "xplore [global options] <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Flags:                 globalFlags,
		Commands: []cli.Command{
			{
				Name:               "login",
				Usage:              "log in with username and password",
				Description:        LoginDescription,
				Action:             login,
				Flags:              loginFlags,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
			},
			{
				Name:               "logout",
				Usage:              "forget the saved session",
				Description:        LogoutDescription,
				Action:             logout,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
			},
			{
				Name:               "verify",
				Usage:              "check the saved session against the server",
				Description:        VerifyDescription,
				Action:             verify,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
			},
			{
				Name:  "cookie",
				Usage: "inspect, import and export session cookies",
				Subcommands: []cli.Command{
					{
						Name:               "get",
						Usage:              "print the session as a Cookie header",
						Action:             cookieGet,
						Flags:              cookieGetFlags,
						OnUsageError:       common.UsageErrorCallback,
						CustomHelpTemplate: CMD_HELP_TEMPL,
					},
					{
						Name:               "set",
						Usage:              "replace the session with a raw cookie string",
						UsageText:          "cookie set \"ct0=...; auth_token=...\"",
						Action:             cookieSet,
						OnUsageError:       common.UsageErrorCallback,
						CustomHelpTemplate: CMD_HELP_TEMPL,
					},
					{
						Name:               "import",
						Usage:              "import the session from a browser cookie store",
						Description:        CookieImportDescription,
						Action:             cookieImport,
						Flags:              cookieImportFlags,
						OnUsageError:       common.UsageErrorCallback,
						CustomHelpTemplate: CMD_HELP_TEMPL,
					},
					{
						Name:               "export",
						Usage:              "export the session cookies",
						Action:             cookieExport,
						Flags:              cookieExportFlags,
						OnUsageError:       common.UsageErrorCallback,
						CustomHelpTemplate: CMD_HELP_TEMPL,
					},
				},
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of xplore",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
