// Package http provides http transport for app listings
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"pincast/internal/modkit/httpkit"
	perr "pincast/internal/platform/errors"
	"pincast/internal/services/api/apps/domain"
	svc "pincast/internal/services/api/apps/service"
	identdom "pincast/internal/services/identity/domain"
)

// Register mounts the public app endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/{slug}", h.detail)
}

// RegisterCI mounts the CI submission endpoint on the given router
func RegisterCI(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON(r, "/apps", h.submit)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /apps/{slug} Apps appDetail
// @Summary Public detail of a published app
// @Tags Apps
// @Produce json
// @Param slug path string true "app slug"
// @Success 200 {object} domain.PublicDetail "detail"
// @Failure 404 {object} map[string]any "not found"
// @Router /apps/{slug} [get]
func (h *handlers) detail(r *stdhttp.Request) (any, error) {
	return h.svc.PublicDetail(r.Context(), chi.URLParam(r, "slug"))
}

// swagger:route POST /ci/apps Apps appSubmit
// @Summary Submit an app build from CI
// @Tags Apps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body domain.SubmitInput true "submission"
// @Success 200 {object} domain.SubmitOutput "accepted"
// @Failure 403 {object} map[string]any "forbidden"
// @Failure 409 {object} map[string]any "slug taken"
// @Router /ci/apps [post]
func (h *handlers) submit(r *stdhttp.Request, in domain.SubmitInput) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, perr.Unauthorizedf("Authentication required")
	}
	role, _ := httpkit.Role(r)
	if !identdom.Role(role).Covers(identdom.RoleDeveloper) {
		return nil, perr.Forbiddenf("Developer scope required")
	}
	return h.svc.Submit(r.Context(), uid, in)
}
