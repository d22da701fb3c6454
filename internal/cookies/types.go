package cookies

import (
	"strings"
	"time"
)

// Format identifies a cookie store layout.
type Format int

const (
	FormatUnknown Format = iota
	FormatFirefox
	FormatChrome
	FormatNetscape
)

func (f Format) String() string {
	switch f {
	case FormatFirefox:
		return "firefox"
	case FormatChrome:
		return "chrome"
	case FormatNetscape:
		return "netscape"
	}
	return "unknown"
}

// SessionDomains are the hosts whose cookies make up a session, in order of
// preference when the same cookie name exists under both.
var SessionDomains = []string{"x.com", "twitter.com"}

// Cookie is one row read from a browser store. Value is sensitive. Session
// cookies carry the Unix epoch as Expiry.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Expiry   time.Time
	Secure   bool
	HTTPOnly bool
}

// Source describes where a session was imported from.
type Source struct {
	Path    string
	Format  Format
	Browser string
}

// domainRank returns the index of the session domain host belongs to, or
// -1. A host matches a domain exactly, with a leading dot, or as a
// subdomain.
func domainRank(host string, domains []string) int {
	host = strings.TrimPrefix(strings.ToLower(host), ".")
	for i, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return i
		}
	}
	return -1
}
