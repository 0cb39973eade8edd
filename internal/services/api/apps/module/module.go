// Package module wires app listings into the API using modkit
package module

import (
	"net/http"

	modkit "pincast/internal/modkit"
	"pincast/internal/modkit/httpkit"
	"pincast/internal/platform/config"
	str "pincast/internal/platform/strings"
	ahttp "pincast/internal/services/api/apps/http"
	arepo "pincast/internal/services/api/apps/repo"
	asvc "pincast/internal/services/api/apps/service"
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

	svc    asvc.Service
	authMw func(http.Handler) http.Handler
}

// Ports declares the injected dependencies this module requires
type Ports struct {
	// Auth guards the CI routes; the public detail route stays open
	Auth func(http.Handler) http.Handler
}

// FromConfig reads APPS_* values from process config/env
func FromConfig(cfg config.Conf) asvc.Options {
	ac := cfg.Prefix("APPS_")
	return asvc.Options{
		DashboardBaseURL: ac.MayString("DASHBOARD_BASE_URL", "https://pincast.fm/dashboard/apps"),
	}
}

// New constructs an apps module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("apps"), modkit.WithPrefix("/apps")}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Auth == nil {
		panic("apps module requires an Auth middleware for CI routes")
	}

	repo := arepo.NewPG()
	svc := asvc.New(deps.PG, repo, FromConfig(deps.Cfg))

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
		authMw:    injected.Auth,
	}
	m.ports = adaptAppsPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		ahttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the public routes under the module prefix and the
// authenticated CI surface under /ci
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
	r.Route("/ci", func(rr httpkit.Router) {
		rr.Use(m.authMw)
		ahttp.RegisterCI(rr, m.svc)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
