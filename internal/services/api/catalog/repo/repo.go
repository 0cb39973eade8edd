// Package repo provides postgres access for the catalog
package repo

import (
	"context"
	"time"

	"pincast/internal/modkit/repokit"
	perr "pincast/internal/platform/errors"
)

// Repo defines the repository contract for the catalog
type Repo interface {
	Published(ctx context.Context) ([]RowListing, error)
}

// RowListing is a published listing with the metrics ranking needs
type RowListing struct {
	ID              string
	Title           string
	Slug            string
	HeroURL         string
	Lat             float64
	Lng             float64
	Sessions7d      int64
	LatestVersionAt *time.Time
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) Published(ctx context.Context) ([]RowListing, error) {
	// versions are pre-aggregated so the event count is not multiplied by
	// the listing's version rows
	const sql = `
SELECT a.id::text, a.title, a.slug, COALESCE(a.hero_url, ''),
       a.latitude, a.longitude,
       COALESCE(COUNT(e.id) FILTER (
           WHERE e.event = 'session_start' AND e.ts > NOW() - INTERVAL '7 days'
       ), 0) AS sessions7d,
       v.latest_version
FROM apps a
LEFT JOIN analytics_events e ON e.app_id = a.id
LEFT JOIN (
    SELECT app_id, MAX(created_at) AS latest_version
    FROM versions
    GROUP BY app_id
) v ON v.app_id = a.id
WHERE a.state = 'published'
GROUP BY a.id, v.latest_version
`
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "catalog published")
	}
	defer rows.Close()
	var out []RowListing
	for rows.Next() {
		var rr RowListing
		if err := rows.Scan(
			&rr.ID,
			&rr.Title,
			&rr.Slug,
			&rr.HeroURL,
			&rr.Lat,
			&rr.Lng,
			&rr.Sessions7d,
			&rr.LatestVersionAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}
