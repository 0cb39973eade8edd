// Package module wires analytics into the API using modkit
package module

import (
	"context"
	"net/http"

	modkit "pincast/internal/modkit"
	"pincast/internal/modkit/httpkit"
	perr "pincast/internal/platform/errors"
	str "pincast/internal/platform/strings"
	ahttp "pincast/internal/services/api/analytics/http"
	arepo "pincast/internal/services/api/analytics/repo"
	asvc "pincast/internal/services/api/analytics/service"
	identdom "pincast/internal/services/identity/domain"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc asvc.Service
}

// Ports declares the injected dependencies this module requires
type Ports struct {
	Verifier identdom.VerifierPort
}

// New constructs an analytics module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("analytics"), modkit.WithPrefix("/ingest")}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Verifier == nil {
		panic("analytics module requires Verifier port (from services/identity)")
	}

	repo := arepo.NewPG()
	svc := asvc.New(deps.PG, repo, deps.CH)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptAnalyticsPort{svc: svc}

	port := appTokenPort(injected.Verifier)

	external := b.Register
	m.register = func(r httpkit.Router) {
		ahttp.Register(r, m.svc, port)
		if external != nil {
			external(r)
		}
	}
	return m
}

// appTokenPort authenticates ingest requests with an app session token
func appTokenPort(verifier identdom.VerifierPort) *httpkit.AppPort {
	return httpkit.NewAppPortFunc(func(ctx context.Context, token string) (string, string, string, error) {
		claims, err := verifier.VerifyAppToken(ctx, token)
		if err != nil {
			return "", "", "", perr.Unauthorizedf("Invalid or expired token")
		}
		if claims.UserID == "" {
			return "", "", "", perr.InvalidArgf("User ID not found in token")
		}
		return claims.UserID, claims.AppID, string(claims.Role), nil
	})
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
