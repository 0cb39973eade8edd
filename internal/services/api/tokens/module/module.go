// Package module wires token issuance into the API using modkit
package module

import (
	"net/http"
	"time"

	modkit "pincast/internal/modkit"
	"pincast/internal/modkit/httpkit"
	"pincast/internal/platform/config"
	str "pincast/internal/platform/strings"
	thttp "pincast/internal/services/api/tokens/http"
	trepo "pincast/internal/services/api/tokens/repo"
	tsvc "pincast/internal/services/api/tokens/service"
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

	svc tsvc.Service
}

// Ports declares the injected dependencies this module requires
type Ports struct {
	Identity identdom.Ports
}

// FromConfig reads TOKENS_* values from process config/env
func FromConfig(cfg config.Conf) tsvc.Options {
	tc := cfg.Prefix("TOKENS_")
	return tsvc.Options{
		TTL: tc.MayDuration("APP_TTL", time.Hour),
	}
}

// New constructs a tokens module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("tokens"), modkit.WithPrefix("/tokens")}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Identity == nil {
		panic("tokens module requires Identity ports (from services/identity)")
	}

	repo := trepo.NewPG()
	svc := tsvc.New(deps.PG, repo, injected.Identity, injected.Identity, FromConfig(deps.Cfg))

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptTokensPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		thttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
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
