//go:build unix

package cookies

import (
	"os"
	"path/filepath"
	"runtime"
)

// specsForHome lists browser stores under homeDir in detection order.
func specsForHome(homeDir string) []browserSpec {
	if runtime.GOOS == "darwin" {
		support := filepath.Join(homeDir, "Library", "Application Support")
		return []browserSpec{
			{Name: "Firefox", ProfilesInis: []string{filepath.Join(support, "Firefox", "profiles.ini")}},
			chromiumSpec("Chrome", filepath.Join(support, "Google", "Chrome", "Default")),
			chromiumSpec("Chromium", filepath.Join(support, "Chromium", "Default")),
			chromiumSpec("Edge", filepath.Join(support, "Microsoft Edge", "Default")),
			chromiumSpec("Brave", filepath.Join(support, "BraveSoftware", "Brave-Browser", "Default")),
		}
	}
	config := filepath.Join(homeDir, ".config")
	return []browserSpec{
		{Name: "Firefox", ProfilesInis: []string{
			filepath.Join(homeDir, ".mozilla", "firefox", "profiles.ini"),
			filepath.Join(homeDir, "snap", "firefox", "common", ".mozilla", "firefox", "profiles.ini"),
		}},
		chromiumSpec("Chrome", filepath.Join(config, "google-chrome", "Default")),
		chromiumSpec("Chromium", filepath.Join(config, "chromium", "Default")),
		chromiumSpec("Edge", filepath.Join(config, "microsoft-edge", "Default")),
		chromiumSpec("Brave", filepath.Join(config, "BraveSoftware", "Brave-Browser", "Default")),
	}
}

func browserSpecs() []browserSpec {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return specsForHome(home)
}
