// Package supabase talks to the Supabase GoTrue and Storage REST APIs.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Error is a non-2xx response from Supabase.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("supabase: %d %s", e.Status, e.Message)
}

// Client holds the project URL and keys. The anon key is used for user-facing
// calls, the service key for admin and storage calls.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

func NewClient(baseURL, anonKey, serviceKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		anonKey:    anonKey,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient overrides the transport.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func (c *Client) Configured() bool {
	return c.baseURL != "" && c.anonKey != ""
}

type request struct {
	method  string
	path    string
	query   url.Values
	bearer  string // user access token; falls back to the key in use
	service bool
	body    any
	raw     []byte
	headers map[string]string
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	if c.baseURL == "" {
		return &Error{Status: http.StatusServiceUnavailable, Message: "supabase is not configured"}
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	switch {
	case r.raw != nil:
		body = bytes.NewReader(r.raw)
	case r.body != nil:
		buf, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	key := c.anonKey
	if r.service && c.serviceKey != "" {
		key = c.serviceKey
	}
	bearer := r.bearer
	if bearer == "" {
		bearer = key
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase request %s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode supabase response: %w", err)
	}
	return nil
}

// decodeError reads the message from whichever field the endpoint uses.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload map[string]any
	_ = json.Unmarshal(raw, &payload)

	msg := ""
	for _, field := range []string{"msg", "error_description", "message", "error"} {
		if m, ok := payload[field].(string); ok && m != "" {
			msg = m
			break
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}
