package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// TokenSource yields the current bearer token, if one is present.
// The session store satisfies this interface.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// authTransport decorates every outbound request: JSON content negotiation
// headers, a request id, and the Authorization header when the token source
// currently holds a token. The token is read per request, so a login or
// logout between two calls is always reflected on the next one.
type authTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Per RoundTripper contract the request must not be mutated in place.
	req = req.Clone(req.Context())

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	if token, ok := t.tokens.Token(req.Context()); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
