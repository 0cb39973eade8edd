// Package module wires the review queue into the API using modkit
package module

import (
	"net/http"

	modkit "pincast/internal/modkit"
	"pincast/internal/modkit/httpkit"
	str "pincast/internal/platform/strings"
	analyticsdom "pincast/internal/services/api/analytics/domain"
	rhttp "pincast/internal/services/api/review/http"
	rrepo "pincast/internal/services/api/review/repo"
	rsvc "pincast/internal/services/api/review/service"
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

	svc rsvc.Service
}

// Ports declares the injected dependencies this module requires
type Ports struct {
	Recorder analyticsdom.RecorderPort
}

// New constructs a review module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("review"), modkit.WithPrefix("/review")}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Recorder == nil {
		panic("review module requires Recorder port (from services/api/analytics)")
	}

	repo := rrepo.NewPG()
	svc := rsvc.New(deps.PG, repo, injected.Recorder)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptReviewPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		rhttp.Register(r, m.svc)
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
