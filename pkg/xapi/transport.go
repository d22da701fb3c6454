package xapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/net/proxy"
)

// maxRedirects matches Go's default http.Client behavior.
const maxRedirects = 10

var (
	ErrInvalidProxyURL   = errors.New("invalid proxy URL")
	ErrUnsupportedScheme = errors.New("unsupported proxy scheme")
	ErrTooManyRedirects  = errors.New("redirect loop detected")
)

var supportedProxySchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"socks5": true,
}

// NewHTTPClient builds the client every session uses: a fixed
// DefaultTimeout per call, a bounded redirect chain, and an optional proxy
// (http, https or socks5). An empty proxyURL means a direct connection.
func NewHTTPClient(proxyURL string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, ErrInvalidProxyURL
		}
		if !supportedProxySchemes[parsed.Scheme] {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, parsed.Scheme)
		}
		if parsed.Scheme == "socks5" {
			var auth *proxy.Auth
			if parsed.User != nil {
				pass, _ := parsed.User.Password()
				auth = &proxy.Auth{User: parsed.User.Username(), Password: pass}
			}
			dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
			if err != nil {
				return nil, err
			}
			ctxDialer, ok := dialer.(proxy.ContextDialer)
			if !ok {
				return nil, fmt.Errorf("%w: socks5 dialer lacks context support", ErrUnsupportedScheme)
			}
			transport.Proxy = nil
			transport.DialContext = ctxDialer.DialContext
		} else {
			transport.Proxy = http.ProxyURL(parsed)
		}
	}
	return &http.Client{
		Transport:     transport,
		Timeout:       DefaultTimeout,
		CheckRedirect: redirectPolicy,
	}, nil
}

func redirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: exceeded %d hops (last URL: %s)",
			ErrTooManyRedirects, maxRedirects, via[len(via)-1].URL.Redacted())
	}
	return nil
}
