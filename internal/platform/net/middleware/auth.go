package middleware

import (
	"net/http"

	pnet "pincast/internal/platform/net"
)

// AuthPort is a tiny seam the identity service implements
type AuthPort interface {
	// Parse returns the authenticated user id and role from the request or an error
	Parse(r *http.Request) (userID string, role string, err error)
}

// AppAuthPort is implemented by ports whose tokens are scoped to one app
type AppAuthPort interface {
	AuthPort

	// ParseApp also returns the app id the token is scoped to
	ParseApp(r *http.Request) (userID string, appID string, role string, err error)
}

// Auth is a no-op until wired. It uses the port when provided.
// App-scoped ports additionally stamp the token's app id onto the context
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			var uid, appID, role string
			var err error
			if ap, ok := p.(AppAuthPort); ok {
				uid, appID, role, err = ap.ParseApp(r)
			} else {
				uid, role, err = p.Parse(r)
			}
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithActor(r.Context(), uid, role)
			if appID != "" {
				ctx = pnet.WithApp(ctx, appID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
