// Package service contains the catalog ranking workflow
package service

import (
	"context"
	"math"
	"sort"

	"pincast/internal/core/geo"
	"pincast/internal/modkit/repokit"
	perr "pincast/internal/platform/errors"
	"pincast/internal/services/api/catalog/domain"
	"pincast/internal/services/api/catalog/repo"
)

// Service defines the service contract for the catalog
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
}

// New creates a new catalog service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("catalog.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("catalog.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db}
}

// Browse returns published listings ranked per the requested sort mode.
// Ranking runs in process over the narrow repo read so ordering and
// tie-break rules stay deterministic and unit testable
func (s *Svc) Browse(ctx context.Context, q domain.Query) ([]domain.Item, error) {
	if err := validate(&q); err != nil {
		return nil, err
	}

	rows, err := s.Repo.Published(ctx)
	if err != nil {
		return nil, err
	}

	switch q.Sort {
	case domain.SortDistance:
		return rankByDistance(rows, *q.Origin, q.RadiusM), nil
	case domain.SortPopularity:
		return rankByPopularity(rows), nil
	default:
		return rankByNewest(rows), nil
	}
}

// validate normalizes defaults and fails fast before any read
func validate(q *domain.Query) error {
	if q.Sort == "" {
		q.Sort = domain.SortDistance
	}
	switch q.Sort {
	case domain.SortDistance, domain.SortPopularity, domain.SortNewest:
	default:
		return perr.InvalidArgf("Invalid sort option. Valid options are: distance, popularity, newest")
	}

	if q.RadiusM <= 0 {
		q.RadiusM = domain.DefaultRadiusM
	}
	if q.RadiusM > domain.MaxRadiusM {
		q.RadiusM = domain.MaxRadiusM
	}

	if q.Sort == domain.SortDistance {
		if q.Origin == nil {
			return perr.InvalidArgf("Latitude and longitude are required when using distance sort")
		}
		if err := q.Origin.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func rankByDistance(rows []repo.RowListing, origin geo.Point, radiusM float64) []domain.Item {
	type scored struct {
		row  repo.RowListing
		dist float64
	}
	in := make([]scored, 0, len(rows))
	for _, r := range rows {
		d := geo.Haversine(origin, geo.Point{Lat: r.Lat, Lng: r.Lng})
		if d > radiusM {
			continue
		}
		in = append(in, scored{row: r, dist: d})
	}
	sort.Slice(in, func(i, j int) bool {
		if in[i].dist != in[j].dist {
			return in[i].dist < in[j].dist
		}
		return in[i].row.ID < in[j].row.ID
	})

	out := make([]domain.Item, 0, len(in))
	for _, s := range in {
		m := int64(math.Round(s.dist))
		it := toItem(s.row)
		it.DistanceMeters = &m
		out = append(out, it)
	}
	return out
}

func rankByPopularity(rows []repo.RowListing) []domain.Item {
	sorted := append([]repo.RowListing(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Sessions7d != sorted[j].Sessions7d {
			return sorted[i].Sessions7d > sorted[j].Sessions7d
		}
		return sorted[i].ID < sorted[j].ID
	})
	return toItems(sorted)
}

func rankByNewest(rows []repo.RowListing) []domain.Item {
	sorted := append([]repo.RowListing(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i].LatestVersionAt, sorted[j].LatestVersionAt
		switch {
		case a == nil && b == nil:
			return sorted[i].ID < sorted[j].ID
		case a == nil:
			// listings with no version sort last
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.After(*b)
		default:
			return sorted[i].ID < sorted[j].ID
		}
	})
	return toItems(sorted)
}

func toItems(rows []repo.RowListing) []domain.Item {
	out := make([]domain.Item, 0, len(rows))
	for _, r := range rows {
		out = append(out, toItem(r))
	}
	return out
}

func toItem(r repo.RowListing) domain.Item {
	return domain.Item{
		ID:         r.ID,
		Title:      r.Title,
		Slug:       r.Slug,
		HeroURL:    r.HeroURL,
		Sessions7d: r.Sessions7d,
	}
}
