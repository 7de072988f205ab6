package downstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrUnexpectedStatus reports a non-2xx response from a downstream service.
// Callers do not distinguish "downstream down" from "downstream rejected";
// both surface to the client as an internal error.
var ErrUnexpectedStatus = errors.New("downstream returned unexpected status")

// ErrNotFound reports a 404 from a downstream service, kept distinct so the
// payment path can refuse charges against bookings that do not exist.
var ErrNotFound = errors.New("downstream resource not found")

const headerIdempotencyKey = "Idempotency-Key"

// client is the shared HTTP JSON transport for the downstream services. The
// per-call timeout is carried by the http.Client so an unresponsive service
// cannot stall a request indefinitely.
type client struct {
	base string
	http *http.Client
}

func newClient(base string, httpClient *http.Client) client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return client{base: strings.TrimRight(base, "/"), http: httpClient}
}

// do issues a JSON request and decodes the response into out when out is
// non-nil. The bearer credential and idempotency key are forwarded when set.
func (c client) do(ctx context.Context, method, path string, query url.Values, bearer, idemKey string, body, out any) error {
	raw, err := c.doRaw(ctx, method, path, query, bearer, idemKey, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// doRaw issues a JSON request and returns the response body verbatim.
func (c client) doRaw(ctx context.Context, method, path string, query url.Values, bearer, idemKey string, body any) ([]byte, error) {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if idemKey != "" {
		req.Header.Set(headerIdempotencyKey, idemKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, target, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, method, target)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s -> %d", ErrUnexpectedStatus, method, target, resp.StatusCode)
	}
	return raw, nil
}
