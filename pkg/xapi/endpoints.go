package xapi

import "time"

const (
	// BearerToken is the public token the platform's own web client sends.
	BearerToken = "AAAAAAAAAAAAAAAAAAAAANRILgAAAAAAnNwIzUejRCOuH5E6I8xnZz4puTs%3D1Zv7ttfk8LF81IUq16cHjhLTvJu4FA33AGWWjCpTnA"

	DefaultBaseURL = "https://api.twitter.com"
	// WebURL is the origin used for Referer headers on form posts.
	WebURL = "https://twitter.com"

	GuestActivatePath      = "/1.1/guest/activate.json"
	FlowTaskPath           = "/1.1/onboarding/task.json"
	VerifyCredentialsPath  = "/1.1/account/verify_credentials.json"
	DefaultTimeout         = 30 * time.Second
	DefaultMaxLoginRounds  = 20
	loginFlowName          = "login"
	loginStartLocation     = "splash_screen"
	headerCSRFToken        = "x-csrf-token"
	headerGuestToken       = "x-guest-token"
	headerActiveUser       = "x-twitter-active-user"
	headerClientLanguage   = "x-twitter-client-language"
	headerAuthType         = "x-twitter-auth-type"
	authTypeClient         = "OAuth2Client"
	authTypeSession        = "OAuth2Session"
	headerRateLimitLimit   = "x-rate-limit-limit"
	headerRateLimitRemain  = "x-rate-limit-remaining"
	headerRateLimitReset   = "x-rate-limit-reset"
	contentTypeJSON        = "application/json"
	contentTypeFormEncoded = "application/x-www-form-urlencoded"
)
