// Package repo provides postgres access for the review queue
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"
	"time"

	"pincast/internal/modkit/repokit"
	perr "pincast/internal/platform/errors"
	"pincast/internal/services/api/review/domain"
)

// Repo defines the repository contract for review
type Repo interface {
	// ByState returns listings in one state, newest first, with owner and
	// most recent version
	ByState(ctx context.Context, state string) ([]domain.AppSummary, error)

	// Detail returns one listing with its owner; versions come separately
	Detail(ctx context.Context, appID string) (domain.AppDetail, error)

	// AppByID returns the bare listing row
	AppByID(ctx context.Context, appID string) (domain.App, error)

	// VersionsByApp returns all versions of a listing, newest first
	VersionsByApp(ctx context.Context, appID string) ([]domain.VersionInfo, error)

	// UpdateState sets the listing state and returns the updated row
	UpdateState(ctx context.Context, appID, state string) (domain.App, error)

	// UpdateStateFrom sets the listing state only while it still matches from,
	// returning ErrStaleState when a concurrent decision moved it first
	UpdateStateFrom(ctx context.Context, appID, from, state string) (domain.App, error)

	// UserEmail returns the email on an account, empty when unset
	UserEmail(ctx context.Context, userID string) (string, error)
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// ErrStaleState reports that a listing's state moved between read and update
var ErrStaleState = errors.New("review: stale listing state")

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const appColumns = `
a.id::text, a.title, a.slug, COALESCE(a.hero_url, ''), a.state,
COALESCE(a.category, ''), a.is_paid, a.price_cents, a.created_at
`

func scanApp(row interface{ Scan(...any) error }, a *domain.App) error {
	return row.Scan(
		&a.ID,
		&a.Title,
		&a.Slug,
		&a.HeroURL,
		&a.State,
		&a.Category,
		&a.IsPaid,
		&a.PriceCents,
		&a.CreatedAt,
	)
}

func (r *queries) ByState(ctx context.Context, state string) ([]domain.AppSummary, error) {
	const sql = `
SELECT ` + appColumns + `,
       u.id::text, COALESCE(u.email, ''),
       v.id::text, v.semver, COALESCE(v.deploy_url, ''), v.quality_score, v.created_at
FROM apps a
LEFT JOIN users u ON u.id = a.owner_id
LEFT JOIN LATERAL (
    SELECT id, semver, deploy_url, quality_score, created_at
    FROM versions
    WHERE app_id = a.id
    ORDER BY created_at DESC
    LIMIT 1
) v ON TRUE
WHERE a.state = $1
ORDER BY a.created_at DESC
`
	rows, err := r.q.Query(ctx, sql, state)
	if err != nil {
		return nil, perr.FromPostgres(err, "review queue")
	}
	defer rows.Close()

	var out []domain.AppSummary
	for rows.Next() {
		var (
			s       domain.AppSummary
			verID   *string
			semver  *string
			deploy  *string
			quality *int
			verAt   *time.Time
		)
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Slug, &s.HeroURL, &s.State,
			&s.Category, &s.IsPaid, &s.PriceCents, &s.CreatedAt,
			&s.Owner.ID, &s.Owner.Email,
			&verID, &semver, &deploy, &quality, &verAt,
		); err != nil {
			return nil, err
		}
		if verID != nil {
			v := domain.VersionInfo{ID: *verID, QualityScore: quality}
			if semver != nil {
				v.Semver = *semver
			}
			if deploy != nil {
				v.DeployURL = *deploy
			}
			if verAt != nil {
				v.CreatedAt = *verAt
			}
			s.LatestVersion = &v
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *queries) Detail(ctx context.Context, appID string) (domain.AppDetail, error) {
	const sql = `
SELECT ` + appColumns + `,
       a.latitude, a.longitude, a.geo_radius_m,
       u.id::text, COALESCE(u.email, '')
FROM apps a
LEFT JOIN users u ON u.id = a.owner_id
WHERE a.id = $1
`
	var d domain.AppDetail
	row := r.q.QueryRow(ctx, sql, appID)
	if err := row.Scan(
		&d.ID, &d.Title, &d.Slug, &d.HeroURL, &d.State,
		&d.Category, &d.IsPaid, &d.PriceCents, &d.CreatedAt,
		&d.Latitude, &d.Longitude, &d.GeoRadiusM,
		&d.Owner.ID, &d.Owner.Email,
	); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.AppDetail{}, perr.NotFoundf("App not found")
		}
		return domain.AppDetail{}, perr.FromPostgres(err, "review detail")
	}
	return d, nil
}

func (r *queries) AppByID(ctx context.Context, appID string) (domain.App, error) {
	const sql = `
SELECT ` + appColumns + `
FROM apps a
WHERE a.id = $1
`
	var a domain.App
	row := r.q.QueryRow(ctx, sql, appID)
	if err := scanApp(row, &a); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.App{}, perr.NotFoundf("App not found")
		}
		return domain.App{}, perr.FromPostgres(err, "review app by id")
	}
	return a, nil
}

func (r *queries) VersionsByApp(ctx context.Context, appID string) ([]domain.VersionInfo, error) {
	const sql = `
SELECT id::text, semver, COALESCE(deploy_url, ''), COALESCE(changelog, ''),
       quality_score, COALESCE(repo_url, ''), created_at
FROM versions
WHERE app_id = $1
ORDER BY created_at DESC
`
	rows, err := r.q.Query(ctx, sql, appID)
	if err != nil {
		return nil, perr.FromPostgres(err, "review versions")
	}
	defer rows.Close()

	var out []domain.VersionInfo
	for rows.Next() {
		var v domain.VersionInfo
		if err := rows.Scan(
			&v.ID,
			&v.Semver,
			&v.DeployURL,
			&v.Changelog,
			&v.QualityScore,
			&v.RepoURL,
			&v.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *queries) UpdateState(ctx context.Context, appID, state string) (domain.App, error) {
	const sql = `
UPDATE apps a
SET state = $2
WHERE a.id = $1
RETURNING ` + appColumns

	var a domain.App
	row := r.q.QueryRow(ctx, sql, appID, state)
	if err := scanApp(row, &a); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.App{}, perr.NotFoundf("App not found")
		}
		return domain.App{}, perr.FromPostgres(err, "review update state")
	}
	return a, nil
}

func (r *queries) UpdateStateFrom(ctx context.Context, appID, from, state string) (domain.App, error) {
	// compare-and-set so two concurrent decisions cannot both pass the guard
	const sql = `
UPDATE apps a
SET state = $2
WHERE a.id = $1 AND a.state = $3
RETURNING ` + appColumns

	var a domain.App
	row := r.q.QueryRow(ctx, sql, appID, state, from)
	if err := scanApp(row, &a); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.App{}, ErrStaleState
		}
		return domain.App{}, perr.FromPostgres(err, "review update state from")
	}
	return a, nil
}

func (r *queries) UserEmail(ctx context.Context, userID string) (string, error) {
	const sql = `
SELECT COALESCE(email, '')
FROM users
WHERE id = $1
`
	var email string
	row := r.q.QueryRow(ctx, sql, userID)
	if err := row.Scan(&email); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return "", nil
		}
		return "", perr.FromPostgres(err, "review user email")
	}
	return email, nil
}
