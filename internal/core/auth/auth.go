// Package auth provides bearer-token authentication: an HTTP client that signs
// Ceres API requests, the credential check against the API's /auth/me
// endpoint, and a gRPC interceptor guarding the gbapi service.
package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// TokenSource returns a static source emitting token as a Bearer credential.
func TokenSource(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}

// HTTPClient returns a client that adds "Authorization: Bearer <token>" to
// every request. ctx supplies the base transport (oauth2.HTTPClient key) and
// is otherwise unused after construction.
func HTTPClient(ctx context.Context, token string, timeout time.Duration) (*http.Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	client := oauth2.NewClient(ctx, TokenSource(token))
	client.Timeout = timeout
	return client, nil
}

// AuthURL derives the credential-check endpoint from the GraphQL endpoint.
func AuthURL(graphqlURL string) string {
	return strings.Replace(graphqlURL, "/graphql", "/auth/me", 1)
}

// CheckCredentials verifies that client's token is accepted by the API
// serving graphqlURL. Returns ErrInvalidCredentials for 401/403 and
// ErrAuthUnavailable for any other failure.
func CheckCredentials(ctx context.Context, client *http.Client, graphqlURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, AuthURL(graphqlURL), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: receiving %d error", ErrInvalidCredentials, resp.StatusCode)
	default:
		return fmt.Errorf("%w: receiving %d error", ErrAuthUnavailable, resp.StatusCode)
	}
}
