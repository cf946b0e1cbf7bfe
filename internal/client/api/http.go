package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/publimatch/publimatch-cli/internal/logging"
)

// HTTPClient is the concrete Client over net/http.
//
// All requests go through authTransport, which injects the JSON headers and
// the bearer token read live from the token source. A single request timeout
// applies; there are no retries — a failed call surfaces an error and the
// caller resubmits.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient builds a client for the given base origin
// (e.g. "http://localhost:3000").
func NewHTTPClient(baseURL string, tokens TokenSource, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	return &HTTPClient{
		baseURL: u,
		http: &http.Client{
			Timeout:   timeout,
			Transport: &authTransport{tokens: tokens},
		},
		log: log,
	}, nil
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do executes the request and decodes the JSON response into out (when out is
// non-nil). Transport failures map to ErrUnavailable; non-2xx responses map
// to *Error, carrying the structured body when one was returned.
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(req.Context(), "request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		// Best effort: the backend returns {"code": ..., "message": ...}.
		var envelope struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &envelope); err == nil {
			apiErr.Code = envelope.Code
			apiErr.Message = envelope.Message
		}
		c.log.Debug(req.Context(), "server error", "status", resp.StatusCode, "code", apiErr.Code)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL.Path, err)
	}
	return nil
}

func (c *HTTPClient) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/auth", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) InitiatePasswordReset(ctx context.Context, email string) (*ResetResult, error) {
	var resp ResetResult
	body := struct {
		Email string `json:"email"`
	}{Email: email}
	if err := c.post(ctx, "/auth/reset-password", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ValidateResetToken(ctx context.Context, token string) (*ResetResult, error) {
	var resp ResetResult
	body := struct {
		Token string `json:"token"`
	}{Token: token}
	if err := c.post(ctx, "/auth/check-code-reset-password", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) CompletePasswordReset(ctx context.Context, req PasswordResetRequest) (*ResetResult, error) {
	var resp ResetResult
	if err := c.post(ctx, "/auth/change-password", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) CheckUsername(ctx context.Context, username string) (*CheckResponse, error) {
	var resp CheckResponse
	q := url.Values{"username": {username}}
	if err := c.get(ctx, "/user/check-username", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) CheckEmail(ctx context.Context, email string) (*CheckResponse, error) {
	var resp CheckResponse
	q := url.Values{"email": {email}}
	if err := c.get(ctx, "/user/check-email", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Signup(ctx context.Context, req SignupRequest) (*AccountSummary, error) {
	var resp AccountSummary
	if err := c.post(ctx, "/user", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
