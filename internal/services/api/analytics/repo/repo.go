// Package repo provides postgres access for analytics
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"

	"pincast/internal/modkit/repokit"
	perr "pincast/internal/platform/errors"
	"pincast/internal/services/api/analytics/domain"
)

// Repo defines the repository contract for analytics
type Repo interface {
	Insert(ctx context.Context, ev domain.Event) error
	Sessions7d(ctx context.Context, appID string) (int64, error)
	RefreshWeekly(ctx context.Context) error
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

func (r *queries) Insert(ctx context.Context, ev domain.Event) error {
	const sql = `
INSERT INTO analytics_events (id, app_id, actor_id, event, ts, metadata)
VALUES ($1, $2, $3, $4, $5, $6)
`
	if _, err := r.q.Exec(ctx, sql, ev.ID, ev.AppID, ev.UserID, ev.Name, ev.TS, ev.Metadata); err != nil {
		return perr.FromPostgres(err, "analytics insert")
	}
	return nil
}

func (r *queries) Sessions7d(ctx context.Context, appID string) (int64, error) {
	// served from the refreshed weekly aggregate; apps with no sessions have
	// no row there
	const sql = `
SELECT sessions
FROM analytics_week
WHERE app_id = $1
`
	var n int64
	row := r.q.QueryRow(ctx, sql, appID)
	if err := row.Scan(&n); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return 0, nil
		}
		return 0, perr.FromPostgres(err, "analytics sessions7d")
	}
	return n, nil
}

func (r *queries) RefreshWeekly(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `SELECT refresh_analytics_week()`); err != nil {
		return perr.FromPostgres(err, "analytics refresh weekly")
	}
	return nil
}
