package xapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Pair is the persisted form of a cookie. It encodes to JSON as a
// two-element array: ["name","value"].
type Pair struct {
	Name  string
	Value string
}

func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Name, p.Value})
}

func (p *Pair) UnmarshalJSON(b []byte) error {
	var raw []string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("cookie pair must have 2 elements, got %d", len(raw))
	}
	p.Name, p.Value = raw[0], raw[1]
	return nil
}

// MarshalPairs encodes pairs as an indented JSON array of pairs.
func MarshalPairs(pairs []Pair) ([]byte, error) {
	if pairs == nil {
		pairs = []Pair{}
	}
	b, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return nil, cookieError("failed to serialize cookies", err)
	}
	return b, nil
}

// UnmarshalPairs decodes a JSON array of pairs. Any failure is a
// KindCookie error.
func UnmarshalPairs(b []byte) ([]Pair, error) {
	var pairs []Pair
	if err := json.Unmarshal(b, &pairs); err != nil {
		return nil, cookieError("failed to parse cookie JSON", err)
	}
	return pairs, nil
}

// ParseCookieString splits a browser-copied cookie list
// ("ct0=abc; auth_token=xyz") into pairs. Entries without '=' or with an
// empty name are skipped. Names and values are trimmed, so a value with
// surrounding spaces does not survive a round trip through HeaderString.
func ParseCookieString(raw string) []Pair {
	var pairs []Pair
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		pairs = append(pairs, Pair{Name: name, Value: strings.TrimSpace(value)})
	}
	return pairs
}

// HasEssentialCookies reports whether pairs contain both the CSRF and the
// auth cookie.
func HasEssentialCookies(pairs []Pair) bool {
	var csrf, auth bool
	for _, p := range pairs {
		switch p.Name {
		case CSRFCookie:
			csrf = true
		case AuthCookie:
			auth = true
		}
	}
	return csrf && auth
}
