package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// Remote API routes, relative to the client's base URL
const (
	RouteRegister  = "/auth/register"
	RouteLogin     = "/auth/login"
	RouteVerifyJwt = "/auth/verify-jwt"
)

const (
	contentTypeJSON = "application/json"
	maxResponseSize = 1 << 20
)

// postJSON sends in as a JSON body and decodes a 2xx JSON response into out.
// The call is bounded by the client timeout.
func (c *Client) postJSON(ctx context.Context, httpClient *http.Client, route string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+route, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)

	resp, err := httpClient.Do(req)
	if err != nil {
		return transportError(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return transportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: unexpected response body: %v", NetworkErr, err)
	}
	return nil
}

// transportError classifies a failed round trip. The original error stays
// in the chain so context.Canceled and friends can still be matched.
func transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", TimeoutErr, err)
	}
	return fmt.Errorf("%w: %w", NetworkErr, err)
}
