//go:build windows

package cookies

import (
	"os"
	"path/filepath"
)

// specsForEnv lists browser stores under %LOCALAPPDATA% and %APPDATA% in
// detection order.
func specsForEnv(localAppData, appData string) []browserSpec {
	return []browserSpec{
		{Name: "Firefox", ProfilesInis: []string{filepath.Join(appData, "Mozilla", "Firefox", "profiles.ini")}},
		chromiumSpec("Chrome", filepath.Join(localAppData, "Google", "Chrome", "User Data", "Default")),
		chromiumSpec("Chromium", filepath.Join(localAppData, "Chromium", "User Data", "Default")),
		chromiumSpec("Edge", filepath.Join(localAppData, "Microsoft", "Edge", "User Data", "Default")),
		chromiumSpec("Brave", filepath.Join(localAppData, "BraveSoftware", "Brave-Browser", "User Data", "Default")),
	}
}

func browserSpecs() []browserSpec {
	return specsForEnv(os.Getenv("LOCALAPPDATA"), os.Getenv("APPDATA"))
}
