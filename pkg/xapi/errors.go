package xapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an *Error.
type Kind int

const (
	// KindNetwork is a transport or connect failure, including timeouts
	// and context cancellation.
	KindNetwork Kind = iota + 1
	// KindAPI is a non-2xx HTTP response. Status carries the code.
	KindAPI
	// KindAuth is a login or session failure: denied login, missing
	// required input, unhandled subtask, missing guest token.
	KindAuth
	// KindRateLimit is returned by rate-limit policies that refuse to wait.
	KindRateLimit
	// KindInvalidResponse is well-formed JSON or headers missing an
	// expected field.
	KindInvalidResponse
	// KindCookie is a parse or IO failure on cookie import and persistence.
	KindCookie
	// KindJSON is a response body that does not decode into the expected shape.
	KindJSON
	// KindIO is a filesystem failure outside cookie persistence.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAPI:
		return "api"
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate limit"
	case KindInvalidResponse:
		return "invalid response"
	case KindCookie:
		return "cookie"
	case KindJSON:
		return "json"
	case KindIO:
		return "io"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var (
	ErrLoginDenied             = errors.New("login denied")
	ErrEmailRequired           = errors.New("email required")
	ErrTwoFactorRequired       = errors.New("two-factor required")
	ErrGuestTokenMissing       = errors.New("failed to get guest token")
	ErrUnhandledSubtask        = errors.New("unhandled subtask")
	ErrTooManyRounds           = errors.New("login flow exceeded maximum rounds")
	ErrMissingEssentialCookies = errors.New("missing essential cookies (ct0 or auth_token)")
	ErrRateLimited             = errors.New("rate limit exceeded")
)

// Error is the typed error returned by every xapi operation.
type Error struct {
	Kind Kind
	// Status is the HTTP status code for KindAPI errors, zero otherwise.
	Status int
	// Header holds the failed response's headers for KindAPI errors so a
	// rate-limit policy can inspect them.
	Header http.Header
	// Method and URL identify the failed request for KindAPI errors.
	Method string
	URL    string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	var s string
	switch {
	case e.Kind == KindAPI && e.Msg == "":
		s = fmt.Sprintf("api error: request failed with status: %d %s", e.Status, http.StatusText(e.Status))
	case e.Msg != "":
		s = e.Kind.String() + " error: " + e.Msg
	default:
		s = e.Kind.String() + " error"
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an *Error. err may be nil.
func NewError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func authError(err error) *Error {
	return &Error{Kind: KindAuth, Err: err}
}

func cookieError(msg string, err error) *Error {
	return &Error{Kind: KindCookie, Msg: msg, Err: err}
}

func apiError(resp *http.Response) *Error {
	e := &Error{Kind: KindAPI, Status: resp.StatusCode, Header: resp.Header.Clone()}
	if resp.Request != nil {
		e.Method = resp.Request.Method
		e.URL = resp.Request.URL.String()
	}
	return e
}

// IsKind reports whether err, or any error it wraps, is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// StatusCode returns the HTTP status of a KindAPI error, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindAPI {
		return e.Status
	}
	return 0
}

// IsRateLimited reports whether err is an API error with status 429.
func IsRateLimited(err error) bool {
	return StatusCode(err) == http.StatusTooManyRequests
}
