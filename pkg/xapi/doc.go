// Package xapi is a client for the platform's private web API.
//
// A Client owns a cookie jar and a guest token. Login drives the
// server-side "flow" state machine with a username, password and the
// optional email and TOTP secret, leaving the ct0 and auth_token session
// cookies in the jar. Execute and Fetch sign arbitrary calls with the
// session headers. Rate-limited responses surface as KindAPI errors with
// status 429; HandleRateLimit applies the configured RateLimitPolicy.
package xapi
