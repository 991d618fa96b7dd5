package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// TokenSource supplies the bearer token for outgoing requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token returns the token itself.
func (s StaticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

// AuthTransport sets the Authorization header from Source on every request
// and hands it to Base. A nil Base means http.DefaultTransport.
type AuthTransport struct {
	Base   http.RoundTripper
	Source TokenSource
}

// RoundTrip implements http.RoundTripper. The caller's request is not modified.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.Source == nil {
		return base.RoundTrip(req)
	}

	token, err := t.Source.Token(req.Context())
	if err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	out := req.Clone(req.Context())
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	return base.RoundTrip(out)
}

// NewHTTPClient returns an http.Client authenticating with src.
func NewHTTPClient(src TokenSource, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &AuthTransport{Source: src},
	}
}
