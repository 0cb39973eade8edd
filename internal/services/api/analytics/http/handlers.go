// Package http provides http transport for analytics ingestion
package http

import (
	stdhttp "net/http"
	"time"

	"pincast/internal/modkit/httpkit"
	"pincast/internal/platform/net/middleware"
	"pincast/internal/services/api/analytics/domain"
	svc "pincast/internal/services/api/analytics/service"
)

// Register mounts analytics endpoints behind app-token auth
func Register(r httpkit.Router, s svc.Service, port middleware.AuthPort) {
	h := &handlers{svc: s}
	httpkit.Protected(r, port, func(pr httpkit.Router) {
		httpkit.PostJSON(pr, "/", h.ingest)
	})
}

type handlers struct {
	svc svc.Service
}

// swagger:route POST /ingest Analytics analyticsIngest
// @Summary Record one analytics event for the app the bearer token is scoped to
// @Tags Analytics
// @Accept json
// @Produce json
// @Param payload body domain.IngestInput true "event"
// @Success 200 {object} domain.IngestOutput "recorded"
// @Failure 400 {object} map[string]any "bad request"
// @Failure 401 {object} map[string]any "unauthorized"
// @Router /ingest [post]
func (h *handlers) ingest(r *stdhttp.Request, in domain.IngestInput) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	appID, err := httpkit.App(r)
	if err != nil {
		return nil, err
	}

	ts := time.Now().UTC()
	ev := domain.Event{
		AppID:    appID,
		UserID:   uid,
		Name:     in.Event,
		TS:       ts,
		Metadata: in.Payload,
	}
	if err := h.svc.Record(r.Context(), ev); err != nil {
		return nil, err
	}
	return domain.IngestOutput{Success: true, Timestamp: ts.Format(time.RFC3339)}, nil
}
