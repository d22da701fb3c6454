package xapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/xplore-go/xplore/pkg/logger"
)

// RateLimitEvent describes a rate-limited response.
type RateLimitEvent struct {
	Method string
	URL    string
	Status int
	Header http.Header
}

// RateLimitPolicy decides what happens after a rate-limited response. A nil
// return means the caller may retry.
type RateLimitPolicy interface {
	OnRateLimit(ctx context.Context, ev RateLimitEvent) error
}

// WaitingPolicy sleeps until the rate-limit window resets when the server
// reports no remaining requests.
type WaitingPolicy struct {
	// Now defaults to time.Now.
	Now func() time.Time
	// Sleep defaults to a timer that returns ctx.Err() on cancellation.
	Sleep func(ctx context.Context, d time.Duration) error
	// Logger defaults to a NopLogger.
	Logger logger.Logger
}

func (p WaitingPolicy) OnRateLimit(ctx context.Context, ev RateLimitEvent) error {
	limit, err := rateLimitHeader(ev.Header, headerRateLimitLimit)
	if err != nil {
		return err
	}
	remaining, err := rateLimitHeader(ev.Header, headerRateLimitRemain)
	if err != nil {
		return err
	}
	reset, err := rateLimitHeader(ev.Header, headerRateLimitReset)
	if err != nil {
		return err
	}
	if remaining != "0" {
		return nil
	}

	resetAt, err := strconv.ParseInt(reset, 10, 64)
	if err != nil {
		return &Error{Kind: KindInvalidResponse, Msg: "invalid " + headerRateLimitReset + " header", Err: err}
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	wait := time.Unix(resetAt, 0).Sub(now())
	if wait < 0 {
		wait = 0
	}

	log := p.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	log.Warning("rate limited on %s %s (limit %s), waiting %s", ev.Method, ev.URL, limit, wait)

	sleep := sleepContext
	if p.Sleep != nil {
		sleep = p.Sleep
	}
	return sleep(ctx, wait)
}

func rateLimitHeader(h http.Header, name string) (string, error) {
	v := h.Get(name)
	if v == "" {
		return "", &Error{Kind: KindInvalidResponse, Msg: "missing " + name + " header"}
	}
	return v, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FailingPolicy refuses to wait.
type FailingPolicy struct{}

func (FailingPolicy) OnRateLimit(_ context.Context, ev RateLimitEvent) error {
	return &Error{Kind: KindRateLimit, Status: ev.Status, Header: ev.Header, Err: ErrRateLimited}
}

// RateLimitEventFromError extracts the event carried by a KindAPI error.
func RateLimitEventFromError(err error) (RateLimitEvent, bool) {
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindAPI {
		return RateLimitEvent{}, false
	}
	return RateLimitEvent{Method: e.Method, URL: e.URL, Status: e.Status, Header: e.Header}, true
}

// HandleRateLimit runs the client's policy when err is a 429 response and
// returns the policy's verdict. Other errors are returned unchanged. The
// request pipeline never calls this on its own.
func (c *Client) HandleRateLimit(ctx context.Context, err error) error {
	if !IsRateLimited(err) {
		return err
	}
	ev, _ := RateLimitEventFromError(err)
	return c.policy.OnRateLimit(ctx, ev)
}
