package xapi

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/xplore-go/xplore/pkg/logger"
	"golang.org/x/net/http/httpguts"
)

// Options configures a Client. The zero value is usable.
type Options struct {
	// BaseURL is the API origin. Defaults to DefaultBaseURL.
	BaseURL string
	// BearerToken defaults to the compiled-in web client token.
	BearerToken string
	// HTTPClient is used for every call. Defaults to NewHTTPClient(Proxy).
	HTTPClient *http.Client
	// Proxy is an http, https or socks5 proxy URL, used only when
	// HTTPClient is nil.
	Proxy string
	// Logger defaults to a NopLogger.
	Logger logger.Logger
	// RateLimitPolicy is run by HandleRateLimit. Defaults to FailingPolicy.
	RateLimitPolicy RateLimitPolicy
	// MaxLoginRounds caps the login dispatch loop. Defaults to
	// DefaultMaxLoginRounds.
	MaxLoginRounds int
	// Now defaults to time.Now.
	Now func() time.Time
}

// GuestToken is a short-lived credential for unauthenticated bootstrap
// calls.
type GuestToken struct {
	Value     string
	CreatedAt time.Time
}

// Client is a session against the platform's private API. It owns the
// cookie jar and the guest token and is safe for concurrent use.
type Client struct {
	baseURL     string
	bearerToken string
	http        *http.Client
	log         logger.Logger
	policy      RateLimitPolicy
	maxRounds   int
	now         func() time.Time

	jar *Jar

	mu         sync.Mutex
	guest      *GuestToken
	loginState LoginState
}

// NewClient creates a session with an empty cookie jar.
func NewClient(opts Options) (*Client, error) {
	c := &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		bearerToken: opts.BearerToken,
		http:        opts.HTTPClient,
		log:         opts.Logger,
		policy:      opts.RateLimitPolicy,
		maxRounds:   opts.MaxLoginRounds,
		now:         opts.Now,
		jar:         NewJar(),
		loginState:  StateInit,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.bearerToken == "" {
		c.bearerToken = BearerToken
	}
	if c.http == nil {
		hc, err := NewHTTPClient(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("xapi: %w", err)
		}
		c.http = hc
	}
	if c.log == nil {
		c.log = logger.NewNopLogger()
	}
	if c.policy == nil {
		c.policy = FailingPolicy{}
	}
	if c.maxRounds <= 0 {
		c.maxRounds = DefaultMaxLoginRounds
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// Jar returns the session cookie store.
func (c *Client) Jar() *Jar {
	return c.jar
}

// URL joins path onto the client's base URL.
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

// GuestToken returns the current guest token, if any.
func (c *Client) GuestToken() (GuestToken, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.guest == nil {
		return GuestToken{}, false
	}
	return *c.guest, true
}

func (c *Client) setGuestToken(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.guest = &GuestToken{Value: value, CreatedAt: c.now()}
}

// DeleteGuestToken drops the guest token and its timestamp.
func (c *Client) DeleteGuestToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.guest = nil
}

// Logout drops the guest token and empties the cookie jar. It is a local
// operation; the server-side session is not invalidated.
func (c *Client) Logout() {
	c.DeleteGuestToken()
	c.jar.Reset()
	c.setLoginState(StateInit)
	c.log.Info("logged out, session cleared")
}

// InstallHeaders fills h with the session's signing headers: Cookie and
// x-csrf-token when available, Authorization, x-guest-token when available,
// and the fixed client-identification headers. Callers must not rely on any
// other header being set.
func (c *Client) InstallHeaders(h http.Header) error {
	cookieHeader, csrf, hasCSRF := c.jar.snapshot()
	if cookieHeader != "" {
		if err := setHeader(h, "Cookie", cookieHeader); err != nil {
			return err
		}
		if hasCSRF {
			if err := setHeader(h, headerCSRFToken, csrf); err != nil {
				return err
			}
		}
	}
	if err := setHeader(h, "Authorization", "Bearer "+c.bearerToken); err != nil {
		return err
	}
	if gt, ok := c.GuestToken(); ok {
		if err := setHeader(h, headerGuestToken, gt.Value); err != nil {
			return err
		}
	}
	h.Set(headerActiveUser, "yes")
	h.Set(headerClientLanguage, "en")
	h.Set(headerAuthType, authTypeClient)
	return nil
}

func setHeader(h http.Header, key, value string) error {
	if !httpguts.ValidHeaderFieldValue(value) {
		return &Error{Kind: KindAuth, Msg: fmt.Sprintf("invalid value for header %s", key)}
	}
	h.Set(key, value)
	return nil
}

// SetCookieString replaces the jar with cookies copied from a browser
// ("ct0=...; auth_token=..."). The import is rejected, leaving the jar
// untouched, unless it contains both essential cookies.
func (c *Client) SetCookieString(raw string) error {
	pairs := ParseCookieString(raw)
	if !HasEssentialCookies(pairs) {
		return cookieError("", ErrMissingEssentialCookies)
	}
	c.jar.BulkReplace(pairs)
	c.log.Debug("imported %d cookies from cookie string", len(pairs))
	return nil
}

// SetCookies replaces the jar with a JSON array of [name, value] pairs.
func (c *Client) SetCookies(data []byte) error {
	pairs, err := UnmarshalPairs(data)
	if err != nil {
		return err
	}
	c.jar.BulkReplace(pairs)
	c.log.Debug("imported %d cookies from JSON", len(pairs))
	return nil
}

// CookiesJSON exports the jar as a JSON array of [name, value] pairs.
func (c *Client) CookiesJSON() ([]byte, error) {
	return MarshalPairs(c.jar.Pairs())
}

// GetCookieString returns the jar rendered as a Cookie header value.
func (c *Client) GetCookieString() string {
	return c.jar.HeaderString()
}

// IsAuthenticated reports whether the jar holds both essential cookies. It
// does not contact the server; see IsLoggedIn.
func (c *Client) IsAuthenticated() bool {
	return c.jar.ValidateAuthenticated()
}
