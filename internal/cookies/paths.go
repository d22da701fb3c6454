package cookies

import (
	"bufio"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// browserSpec lists where one browser keeps its cookie store.
type browserSpec struct {
	Name string
	// CookiePaths are direct cookie database candidates (Chromium family).
	CookiePaths []string
	// ProfilesInis are profiles.ini candidates (Firefox family). The store
	// is cookies.sqlite inside the default profile.
	ProfilesInis []string
}

// chromiumSpec builds the spec of a Chromium-based browser whose Default
// profile lives in base.
func chromiumSpec(name, base string) browserSpec {
	return browserSpec{
		Name: name,
		CookiePaths: []string{
			filepath.Join(base, "Network", "Cookies"),
			filepath.Join(base, "Cookies"),
		},
	}
}

func (b browserSpec) candidates(fs afero.Fs) []string {
	if len(b.ProfilesInis) == 0 {
		return b.CookiePaths
	}
	var out []string
	for _, ini := range b.ProfilesInis {
		if dir := defaultProfile(fs, ini); dir != "" {
			out = append(out, filepath.Join(dir, "cookies.sqlite"))
		}
	}
	return out
}

func specNames(specs []browserSpec) string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}

// defaultProfile returns the default profile directory named by a
// profiles.ini file, or "" when none can be found. An [Install*] Default key
// wins over a [Profile*] section with Default=1.
func defaultProfile(fs afero.Fs, iniPath string) string {
	f, err := fs.Open(iniPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	root := filepath.Dir(iniPath)
	var (
		install, profile     string
		inInstall, inProfile bool
		curPath              string
		curDefault           bool
	)
	flush := func() {
		if inProfile && curDefault && profile == "" {
			profile = curPath
		}
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			flush()
			section := strings.Trim(line, "[]")
			inInstall = strings.HasPrefix(section, "Install")
			inProfile = strings.HasPrefix(section, "Profile")
			curPath, curDefault = "", false
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		switch {
		case inInstall && k == "Default" && install == "":
			install = filepath.Join(root, filepath.FromSlash(v))
		case inProfile && k == "Path":
			curPath = filepath.Join(root, filepath.FromSlash(v))
		case inProfile && k == "Default":
			curDefault = v == "1"
		}
	}
	flush()

	if install != "" {
		return install
	}
	return profile
}
