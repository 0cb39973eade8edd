// Package http provides http transport for the catalog
package http

import (
	stdhttp "net/http"
	"strconv"

	"pincast/internal/core/geo"
	"pincast/internal/modkit/httpkit"
	perr "pincast/internal/platform/errors"
	"pincast/internal/services/api/catalog/domain"
	svc "pincast/internal/services/api/catalog/service"
)

// Register mounts catalog endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.browse)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /catalog Catalog catalogBrowse
// @Summary Ranked discovery feed of published apps
// @Tags Catalog
// @Produce json
// @Param sort query string false "distance, popularity or newest" default(distance)
// @Param lat query number false "origin latitude, required for distance sort"
// @Param lng query number false "origin longitude, required for distance sort"
// @Param radius query number false "search radius in meters, capped at 200000" default(50000)
// @Success 200 {array} domain.Item "ok"
// @Router /catalog [get]
func (h *handlers) browse(r *stdhttp.Request) (any, error) {
	q, err := parseQuery(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Browse(r.Context(), q)
}

// parseQuery is the explicit typed parse step for the catalog query string.
// All validation failures surface before the service touches storage
func parseQuery(r *stdhttp.Request) (domain.Query, error) {
	vals := r.URL.Query()
	q := domain.Query{Sort: vals.Get("sort")}

	if raw := vals.Get("radius"); raw != "" {
		rad, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Query{}, perr.InvalidArgf("Radius must be a valid number")
		}
		q.RadiusM = rad
	}

	latRaw, lngRaw := vals.Get("lat"), vals.Get("lng")
	if latRaw != "" || lngRaw != "" {
		if latRaw == "" || lngRaw == "" {
			return domain.Query{}, perr.InvalidArgf("Latitude and longitude are required when using distance sort")
		}
		lat, latErr := strconv.ParseFloat(latRaw, 64)
		lng, lngErr := strconv.ParseFloat(lngRaw, 64)
		if latErr != nil || lngErr != nil {
			return domain.Query{}, perr.InvalidArgf("Latitude and longitude must be valid numbers")
		}
		q.Origin = &geo.Point{Lat: lat, Lng: lng}
	}
	return q, nil
}
