package xapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// maxErrorDrain bounds how much of a failed response body is read before the
// connection is released.
const maxErrorDrain = 64 << 10

// Execute signs and sends a request, then decodes a 2xx JSON response into
// out. A nil out discards the body. A non-2xx response fails with a KindAPI
// error carrying the status and response headers; its body is not
// interpreted. The response headers are returned on success. Cookies set by
// a successful flow-task response are merged into the jar.
func (c *Client) Execute(ctx context.Context, method, url string, body Body, out any) (http.Header, error) {
	var (
		payload     io.Reader
		contentType string
	)
	if body != nil {
		var err error
		payload, contentType, err = body.encode()
		if err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Msg: "failed to build request", Err: err}
	}
	if err := c.InstallHeaders(req.Header); err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
		body.decorate(req.Header)
	}
	hdr, err := c.do(req, out)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(req.URL.Path, FlowTaskPath) {
		merged, skipped := c.jar.MergeFromHeaders(hdr)
		c.log.Debug("flow task: merged %d cookies, skipped %d", merged, skipped)
	}
	return hdr, nil
}

// Fetch is Execute with the decoded payload returned by value.
func Fetch[T any](ctx context.Context, c *Client, method, url string, body Body) (T, http.Header, error) {
	var out T
	hdr, err := c.Execute(ctx, method, url, body, &out)
	return out, hdr, err
}

func (c *Client) do(req *http.Request, out any) (http.Header, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorDrain))
		c.log.Debug("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
		return nil, apiError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Msg: "failed to read response body", Err: err}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, &Error{Kind: KindJSON, Msg: "failed to decode response", Err: err}
		}
	}
	return resp.Header, nil
}
