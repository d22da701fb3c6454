package cmd

const DESCRIPTION = `
xplore keeps a logged-in session for the platform's private web API.
It runs the login flow (including email confirmation and two-factor
challenges), stores the resulting cookies and can import a session
from your browser instead.

Settings come from XPLORE_* environment variables; flags override them.
`

const (
	LoginDescription = `The login command runs the platform's login flow and saves
the session cookies to the configured store.

The password is prompted for when neither --password nor
--password-file nor XPLORE_PASSWORD is given.

Example:
        xplore login --username alice --email alice@example.com

`
	LogoutDescription = `The logout command clears the saved session.

Example:
        xplore logout

`
	VerifyDescription = `The verify command asks the server whether the saved
session is still logged in.

Example:
        xplore verify

`
	CookieImportDescription = `The import command reads the session from a browser cookie
store. Firefox and Chrome-family SQLite databases and Netscape
cookies.txt exports are supported. With --browser-file auto (the
default) installed browsers are searched in this order:
Firefox, Chrome, Chromium, Edge, Brave.

Example:
        xplore cookie import
                OR
        xplore cookie import --browser-file ~/cookies.txt

`
)

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{if .VisibleFlags}}

Global Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`
