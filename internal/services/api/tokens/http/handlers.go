// Package http provides http transport for app token issuance
package http

import (
	stdhttp "net/http"

	"pincast/internal/modkit/httpkit"
	"pincast/internal/services/api/tokens/domain"
	svc "pincast/internal/services/api/tokens/service"
)

// Register mounts token endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON(r, "/app", h.issue)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /tokens/app Tokens tokenIssue
// @Summary Exchange an identity token for an app-scoped session token
// @Tags Tokens
// @Accept json
// @Produce json
// @Param payload body domain.IssueInput true "exchange request"
// @Success 200 {object} domain.IssueOutput "token"
// @Failure 403 {object} map[string]any "forbidden"
// @Failure 404 {object} map[string]any "app missing"
// @Router /tokens/app [post]
func (h *handlers) issue(r *stdhttp.Request, in domain.IssueInput) (any, error) {
	return h.svc.Issue(r.Context(), in)
}
