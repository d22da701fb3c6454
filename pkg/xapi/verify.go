package xapi

import (
	"context"
	"net/http"
)

type verifyCredentialsResponse struct {
	ScreenName string       `json:"screen_name"`
	Errors     []APIMessage `json:"errors"`
}

// IsLoggedIn asks the server whether the session cookies are still valid.
// An errors array in the response is a KindAuth error carrying its first
// message.
func (c *Client) IsLoggedIn(ctx context.Context) (bool, error) {
	resp, _, err := Fetch[verifyCredentialsResponse](ctx, c, http.MethodGet, c.URL(VerifyCredentialsPath), nil)
	if err != nil {
		return false, err
	}
	if len(resp.Errors) > 0 {
		return false, &Error{Kind: KindAuth, Msg: resp.Errors[0].Message}
	}
	c.log.Debug("session verified")
	return true, nil
}
