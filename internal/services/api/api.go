// Package api provides the HTTP API for the application
package api

import (
	"context"
	"fmt"

	"pincast/internal/platform/config"
	"pincast/internal/platform/logger"
	phttp "pincast/internal/platform/net/http"
	"pincast/internal/platform/store"

	"pincast/internal/modkit"
	"pincast/internal/modkit/httpkit"
	"pincast/internal/modkit/module"
	"pincast/internal/modkit/repokit"
	"pincast/internal/modkit/swaggerkit"

	analyticsmod "pincast/internal/services/api/analytics/module"
	appsmod "pincast/internal/services/api/apps/module"
	catalogmod "pincast/internal/services/api/catalog/module"
	metamod "pincast/internal/services/api/meta/module"
	reviewmod "pincast/internal/services/api/review/module"
	tokensmod "pincast/internal/services/api/tokens/module"

	analyticsdom "pincast/internal/services/api/analytics/domain"
	"pincast/internal/services/identity/keys"
	identrepo "pincast/internal/services/identity/repo"
	identsvc "pincast/internal/services/identity/service"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// bound how long any request transaction may hold the database
	pg := opt.Store.PG
	if ms := opt.Config.Prefix("SERVICE_PGSQL_").MayInt("TX_TIMEOUT_MS", 5000); ms > 0 {
		timeout := fmt.Sprintf("SET LOCAL statement_timeout = %d", ms)
		pg = repokit.WithBeginHooks(pg, func(ctx context.Context, q repokit.Queryer) error {
			_, err := q.Exec(ctx, timeout)
			return err
		})
	}

	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  pg,
		CH:  opt.Store.CH,
	}

	// identity is not an HTTP module; it backs the auth middleware and the
	// token endpoints
	ac := opt.Config.Prefix("AUTH_")
	jwks := keys.New(ac.MustString("JWKS_URL"))
	identity := identsvc.New(deps.PG, identrepo.NewPG(), jwks, identsvc.Config{
		Issuer:    ac.MustString("ISSUER"),
		AppSecret: []byte(ac.MustString("APP_TOKEN_SECRET")),
	})

	// bearer auth resolves the provider subject to a local account
	authPort := httpkit.NewPortFunc(func(ctx context.Context, token string) (string, string, error) {
		claims, err := identity.VerifyIDToken(ctx, token)
		if err != nil {
			return "", "", err
		}
		user, err := identity.Resolve(ctx, claims.Subject)
		if err != nil {
			return "", "", err
		}
		return user.ID, string(user.Role), nil
	})
	authMw := httpkit.Auth(authPort)

	analytics := analyticsmod.New(deps, modkit.WithPorts(analyticsmod.Ports{
		Verifier: identity,
	}))
	recorder := module.MustPortsOf[analyticsdom.RecorderPort](analytics)

	// meta probes the raw adapters so readiness pings are not run inside the
	// hooked transaction wrapper
	mods := []module.Module{
		metamod.New(modkit.Deps{Cfg: opt.Config, PG: opt.Store.PG, CH: opt.Store.CH}),
		catalogmod.New(deps),
		analytics,
		appsmod.New(deps, modkit.WithPorts(appsmod.Ports{Auth: authMw})),
		tokensmod.New(deps, modkit.WithPorts(tokensmod.Ports{
			Identity: identity,
		})),
		reviewmod.New(deps,
			modkit.WithPorts(reviewmod.Ports{Recorder: recorder}),
			modkit.WithMiddlewares(authMw),
		),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
