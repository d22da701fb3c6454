package cookies

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"
	"github.com/xplore-go/xplore/pkg/logger"
	"github.com/xplore-go/xplore/pkg/xapi"
)

// Importer reads session cookies from browser stores.
type Importer struct {
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
	// Log defaults to a NopLogger.
	Log logger.Logger
	// Domains defaults to SessionDomains.
	Domains []string
	// Now is used for expiry checks. Defaults to time.Now.
	Now func() time.Time
}

func (im *Importer) fs() afero.Fs {
	if im.Fs == nil {
		return afero.NewOsFs()
	}
	return im.Fs
}

func (im *Importer) log() logger.Logger {
	if im.Log == nil {
		return logger.NewNopLogger()
	}
	return im.Log
}

func (im *Importer) domains() []string {
	if len(im.Domains) == 0 {
		return SessionDomains
	}
	return im.Domains
}

func (im *Importer) now() time.Time {
	if im.Now == nil {
		return time.Now()
	}
	return im.Now()
}

// Read returns the unexpired cookies for the session domains in the store at
// path.
func (im *Importer) Read(path string) ([]Cookie, *Source, error) {
	fs := im.fs()
	isSQLite, err := sniff(fs, path)
	if err != nil {
		return nil, nil, err
	}
	if !isSQLite {
		f, err := fs.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		cs, err := parseNetscape(f, im.domains(), im.now(), im.log())
		if err != nil {
			return nil, nil, err
		}
		return cs, &Source{Path: path, Format: FormatNetscape, Browser: "Netscape"}, nil
	}

	dbPath, cleanup, err := snapshot(fs, path)
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	s, format, err := sqliteSchema(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	cs, err := readSQLite(dbPath, s, im.domains(), im.now())
	if err != nil {
		return nil, nil, err
	}
	return cs, &Source{Path: path, Format: format, Browser: s.browser}, nil
}

// Import reads the store at path and returns it as session pairs. The
// import fails unless both ct0 and auth_token are present.
func (im *Importer) Import(path string) ([]xapi.Pair, *Source, error) {
	cs, src, err := im.Read(path)
	if err != nil {
		return nil, nil, err
	}
	pairs := im.toPairs(cs)
	if !xapi.HasEssentialCookies(pairs) {
		return nil, src, fmt.Errorf("%s: %w", src.Browser, xapi.ErrMissingEssentialCookies)
	}
	im.log().Info("imported %d cookies from %s", len(pairs), src.Browser)
	return pairs, src, nil
}

// toPairs collapses duplicates by name, keeping the cookie from the most
// preferred domain, and sorts the essential cookies first.
func (im *Importer) toPairs(cs []Cookie) []xapi.Pair {
	domains := im.domains()
	best := make(map[string]Cookie)
	for _, c := range cs {
		cur, ok := best[c.Name]
		if !ok || domainRank(c.Domain, domains) < domainRank(cur.Domain, domains) {
			best[c.Name] = c
		}
	}
	names := make([]string, 0, len(best))
	for n := range best {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		ei, ej := essential(names[i]), essential(names[j])
		if ei != ej {
			return ei
		}
		return names[i] < names[j]
	})
	pairs := make([]xapi.Pair, len(names))
	for i, n := range names {
		pairs[i] = xapi.Pair{Name: n, Value: best[n].Value}
	}
	return pairs
}

func essential(name string) bool {
	return name == xapi.CSRFCookie || name == xapi.AuthCookie
}

// Detect imports from the first browser store on this machine that holds a
// complete session. Browsers are tried in the order of browserSpecs.
func (im *Importer) Detect() ([]xapi.Pair, *Source, error) {
	return im.detect(browserSpecs())
}

func (im *Importer) detect(specs []browserSpec) ([]xapi.Pair, *Source, error) {
	fs := im.fs()
	for _, spec := range specs {
		for _, path := range spec.candidates(fs) {
			if ok, _ := afero.Exists(fs, path); !ok {
				continue
			}
			pairs, src, err := im.Import(path)
			if err != nil {
				im.log().Debug("cookies: %s store at %s unusable: %v", spec.Name, filepath.Base(path), err)
				continue
			}
			src.Browser = spec.Name
			return pairs, src, nil
		}
	}
	return nil, nil, errors.Join(ErrNoBrowserStore, fmt.Errorf("tried %s", specNames(specs)))
}
