package xapi

import (
	"net/http"
	"strings"
	"sync"
)

const (
	// CSRFCookie must also be echoed as the x-csrf-token header.
	CSRFCookie = "ct0"
	// AuthCookie identifies the logged-in user session.
	AuthCookie = "auth_token"

	// CookieDomain is stamped on every cookie created by a bulk import.
	CookieDomain = "twitter.com"
)

// Cookie is a single session cookie. Value is sensitive and must never be
// logged.
type Cookie struct {
	Name     string
	Value    string
	Path     string
	Domain   string
	Secure   bool
	HTTPOnly bool
}

// Jar is the session cookie store. Names are unique within a jar and
// re-adding a name overwrites the prior value in place. Iteration follows
// first-insertion order.
//
// Every method holds the lock only for its own duration; the jar never does I/O.
type Jar struct {
	mu      sync.Mutex
	names   []string
	cookies map[string]*Cookie
}

// NewJar returns an empty jar.
func NewJar() *Jar {
	return &Jar{cookies: make(map[string]*Cookie)}
}

// upsert must be called with j.mu held.
func (j *Jar) upsert(c Cookie) {
	if cur, ok := j.cookies[c.Name]; ok {
		*cur = c
		return
	}
	j.names = append(j.names, c.Name)
	j.cookies[c.Name] = &c
}

// reset must be called with j.mu held.
func (j *Jar) reset() {
	j.names = nil
	j.cookies = make(map[string]*Cookie)
}

// Set upserts a single cookie.
func (j *Jar) Set(c Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.upsert(c)
}

// MergeFromHeaders parses every Set-Cookie value in h and upserts it by
// name. Malformed values are skipped. It returns how many cookies were
// merged and how many were skipped.
func (j *Jar) MergeFromHeaders(h http.Header) (merged, skipped int) {
	for _, line := range h.Values("Set-Cookie") {
		hc, err := http.ParseSetCookie(line)
		if err != nil || hc.Name == "" {
			skipped++
			continue
		}
		j.Set(Cookie{
			Name:     hc.Name,
			Value:    hc.Value,
			Path:     hc.Path,
			Domain:   hc.Domain,
			Secure:   hc.Secure,
			HTTPOnly: hc.HttpOnly,
		})
		merged++
	}
	return merged, skipped
}

// HeaderString renders the jar as a Cookie header value:
// "name1=val1; name2=val2". An empty jar renders "".
func (j *Jar) HeaderString() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.headerString()
}

func (j *Jar) headerString() string {
	if len(j.names) == 0 {
		return ""
	}
	parts := make([]string, len(j.names))
	for i, name := range j.names {
		parts[i] = name + "=" + j.cookies[name].Value
	}
	return strings.Join(parts, "; ")
}

// snapshot returns the Cookie header value and the CSRF cookie value under
// a single lock acquisition.
func (j *Jar) snapshot() (header, csrf string, hasCSRF bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	header = j.headerString()
	if c, ok := j.cookies[CSRFCookie]; ok {
		return header, c.Value, true
	}
	return header, "", false
}

// BulkReplace clears the jar and inserts pairs. Imported pairs carry no
// attributes, so every cookie gets Path "/", the platform domain, Secure and
// HttpOnly.
func (j *Jar) BulkReplace(pairs []Pair) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.reset()
	for _, p := range pairs {
		j.upsert(normalized(p))
	}
}

func normalized(p Pair) Cookie {
	return Cookie{
		Name:     p.Name,
		Value:    p.Value,
		Path:     "/",
		Domain:   CookieDomain,
		Secure:   true,
		HTTPOnly: true,
	}
}

// ValidateAuthenticated reports whether the jar holds both the CSRF and the
// auth cookie.
func (j *Jar) ValidateAuthenticated() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	_, csrf := j.cookies[CSRFCookie]
	_, auth := j.cookies[AuthCookie]
	return csrf && auth
}

// Get returns a copy of the named cookie.
func (j *Jar) Get(name string) (Cookie, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	c, ok := j.cookies[name]
	if !ok {
		return Cookie{}, false
	}
	return *c, true
}

// Cookies returns copies of all cookies in jar order.
func (j *Jar) Cookies() []Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Cookie, 0, len(j.names))
	for _, name := range j.names {
		out = append(out, *j.cookies[name])
	}
	return out
}

// Pairs returns the name/value pairs in jar order.
func (j *Jar) Pairs() []Pair {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Pair, 0, len(j.names))
	for _, name := range j.names {
		out = append(out, Pair{Name: name, Value: j.cookies[name].Value})
	}
	return out
}

// Names returns cookie names in jar order. Safe to log.
func (j *Jar) Names() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.names...)
}

// Len returns the number of cookies.
func (j *Jar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.names)
}

// Reset empties the jar.
func (j *Jar) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.reset()
}
