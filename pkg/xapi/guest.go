package xapi

import (
	"context"
	"net/http"
)

type guestActivateResponse struct {
	GuestToken string `json:"guest_token"`
}

// RefreshGuestToken activates a new guest token using only the bearer
// token and stores it with its acquisition time. The login flow cannot
// proceed without one, so a response lacking the token is a KindAuth error.
func (c *Client) RefreshGuestToken(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(GuestActivatePath), nil)
	if err != nil {
		return &Error{Kind: KindNetwork, Msg: "failed to build request", Err: err}
	}
	if err := setHeader(req.Header, "Authorization", "Bearer "+c.bearerToken); err != nil {
		return err
	}

	var resp guestActivateResponse
	if _, err := c.do(req, &resp); err != nil {
		return err
	}
	if resp.GuestToken == "" {
		return authError(ErrGuestTokenMissing)
	}
	c.setGuestToken(resp.GuestToken)
	c.log.Debug("acquired guest token")
	return nil
}
