// Package httpkit provides tiny HTTP helpers and adapters
package httpkit

import (
	"context"
	"net/http"
	"strings"

	perrs "pincast/internal/platform/errors"
)

// TokenFunc parses a bearer token and returns the subject's user id and role
type TokenFunc func(ctx context.Context, token string) (userID string, role string, err error)

// Port implements middleware.AuthPort by reading Authorization and delegating to a TokenFunc
type Port struct {
	parse TokenFunc
}

// NewPortFunc builds a Port from a simple parser function
func NewPortFunc(fn TokenFunc) *Port {
	return &Port{parse: fn}
}

// Parse extracts the user id and role from the Authorization bearer token
// returns unauthorized when the header is missing, malformed, or the parser returns an error
func (p *Port) Parse(r *http.Request) (string, string, error) {
	authz := r.Header.Get("Authorization")
	// normalize whitespace around the whole header
	s := strings.TrimSpace(authz)
	if s == "" {
		return "", "", perrs.Unauthorizedf("Authentication required")
	}
	ls := strings.ToLower(s)
	const prefix = "bearer"
	if !strings.HasPrefix(ls, prefix) {
		return "", "", perrs.Unauthorizedf("Authentication required")
	}
	// slice after "Bearer" (no trailing space required), then trim any spaces before token
	raw := strings.TrimSpace(s[len(prefix):])
	if raw == "" {
		return "", "", perrs.Unauthorizedf("Authentication required")
	}

	if p.parse == nil {
		return "", "", perrs.Unauthorizedf("Invalid token")
	}

	uid, role, err := p.parse(r.Context(), raw)
	if err != nil {
		// the verifier's own unauthorized message flows through
		return "", "", err
	}
	return uid, role, nil
}

// AppTokenFunc parses an app session token into its actor and app scope
type AppTokenFunc func(ctx context.Context, token string) (userID string, appID string, role string, err error)

// AppPort implements middleware.AppAuthPort for app-scoped session tokens
type AppPort struct {
	parse AppTokenFunc
}

// NewAppPortFunc builds an AppPort from a simple parser function
func NewAppPortFunc(fn AppTokenFunc) *AppPort {
	return &AppPort{parse: fn}
}

// ParseApp extracts the user id, app scope and role from the bearer token
func (p *AppPort) ParseApp(r *http.Request) (string, string, string, error) {
	raw, err := JWT(r)
	if err != nil {
		return "", "", "", perrs.Unauthorizedf("Authentication token is required")
	}
	if p.parse == nil {
		return "", "", "", perrs.Unauthorizedf("Invalid token")
	}
	return p.parse(r.Context(), raw)
}

// Parse satisfies middleware.AuthPort, dropping the app scope
func (p *AppPort) Parse(r *http.Request) (string, string, error) {
	uid, _, role, err := p.ParseApp(r)
	return uid, role, err
}
