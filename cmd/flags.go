package cmd

import "github.com/urfave/cli"

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "proxy",
		Usage: "http, https or socks5 proxy URL (XPLORE_PROXY)",
	},
	cli.StringFlag{
		Name:  "log-level",
		Usage: "debug, info, warning or error (XPLORE_LOG_LEVEL)",
	},
	cli.StringFlag{
		Name:  "log-file",
		Usage: "also append logs to this file (XPLORE_LOG_FILE)",
	},
	cli.StringFlag{
		Name:  "store",
		Usage: "session store: file, encrypted or redis (XPLORE_STORE_KIND)",
	},
	cli.StringFlag{
		Name:  "config-dir",
		Usage: "directory for the session file and key (XPLORE_CONFIG_DIR)",
	},
}

var loginFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "username, u",
		Usage: "account username, email or phone",
	},
	cli.StringFlag{
		Name:  "password, p",
		Usage: "account password (prompted for when empty)",
	},
	cli.StringFlag{
		Name:  "password-file",
		Usage: "read the password from this file",
	},
	cli.StringFlag{
		Name:  "email, e",
		Usage: "email used to confirm the login when asked",
	},
	cli.StringFlag{
		Name:  "2fa-secret",
		Usage: "base32 TOTP secret for two-factor challenges",
	},
}

var cookieGetFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "names",
		Usage: "list cookie names without values",
	},
}

var cookieImportFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "browser-file, b",
		Usage: "cookie database or cookies.txt path, or 'auto'",
		Value: "auto",
	},
}

var cookieExportFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "json",
		Usage: "export as a JSON array of [name, value] pairs",
	},
	cli.StringFlag{
		Name:  "output, o",
		Usage: "write to this file instead of stdout",
	},
}
