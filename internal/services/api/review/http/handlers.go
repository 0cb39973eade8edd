// Package http provides http transport for the staff review queue
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"pincast/internal/modkit/httpkit"
	perr "pincast/internal/platform/errors"
	"pincast/internal/services/api/review/domain"
	svc "pincast/internal/services/api/review/service"
	identdom "pincast/internal/services/identity/domain"
)

// Register mounts review endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/list", h.queue)
	httpkit.Get(r, "/{id}", h.detail)
	httpkit.PatchJSON(r, "/{id}/state", h.transition)
	httpkit.PostJSON(r, "/{id}/rollback", h.rollback)
}

type handlers struct{ svc svc.Service }

// staff returns the acting staff account or rejects the request.
// Every review endpoint is staff only
func staff(r *stdhttp.Request) (domain.Actor, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return domain.Actor{}, perr.Unauthorizedf("Authentication required")
	}
	role, _ := httpkit.Role(r)
	if !identdom.Role(role).Covers(identdom.RoleStaff) {
		return domain.Actor{}, perr.Forbiddenf("Staff access required")
	}
	return domain.Actor{ID: uid}, nil
}

// swagger:route GET /review/list Review reviewQueue
// @Summary Pending and hidden listings awaiting a staff decision
// @Tags Review
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.QueueOutput "queue"
// @Failure 401 {object} map[string]any "unauthorized"
// @Failure 403 {object} map[string]any "forbidden"
// @Router /review/list [get]
func (h *handlers) queue(r *stdhttp.Request) (any, error) {
	if _, err := staff(r); err != nil {
		return nil, err
	}
	return h.svc.Queue(r.Context())
}

// swagger:route GET /review/{id} Review reviewDetail
// @Summary One listing with its owner and full version history
// @Tags Review
// @Produce json
// @Security BearerAuth
// @Param id path string true "app id"
// @Success 200 {object} domain.AppDetail "detail"
// @Failure 404 {object} map[string]any "not found"
// @Router /review/{id} [get]
func (h *handlers) detail(r *stdhttp.Request) (any, error) {
	if _, err := staff(r); err != nil {
		return nil, err
	}
	return h.svc.Detail(r.Context(), chi.URLParam(r, "id"))
}

// swagger:route PATCH /review/{id}/state Review reviewTransition
// @Summary Move a listing between lifecycle states
// @Tags Review
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "app id"
// @Param payload body domain.TransitionInput true "target state"
// @Success 200 {object} domain.TransitionOutput "transitioned"
// @Failure 400 {object} map[string]any "invalid transition"
// @Failure 404 {object} map[string]any "not found"
// @Router /review/{id}/state [patch]
func (h *handlers) transition(r *stdhttp.Request, in domain.TransitionInput) (any, error) {
	actor, err := staff(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Transition(r.Context(), chi.URLParam(r, "id"), actor, in)
}

// swagger:route POST /review/{id}/rollback Review reviewRollback
// @Summary Republish a listing at one of its existing versions
// @Tags Review
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "app id"
// @Param payload body domain.RollbackInput true "target version"
// @Success 200 {object} domain.RollbackOutput "rolled back"
// @Failure 404 {object} map[string]any "not found"
// @Router /review/{id}/rollback [post]
func (h *handlers) rollback(r *stdhttp.Request, in domain.RollbackInput) (any, error) {
	actor, err := staff(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Rollback(r.Context(), chi.URLParam(r, "id"), actor, in)
}
