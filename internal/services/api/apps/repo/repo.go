// Package repo provides postgres access for app listings
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"

	"pincast/internal/modkit/repokit"
	perr "pincast/internal/platform/errors"
)

// RowPublished is a published listing with what the public detail needs
type RowPublished struct {
	ID         string
	Title      string
	Slug       string
	HeroURL    string
	OwnerEmail string
	Lat        float64
	Lng        float64
	RadiusM    float64
}

// RowOwned is the minimal listing row ownership checks need
type RowOwned struct {
	ID      string
	OwnerID string
	State   string
}

// RowVersion is one stored version of a listing
type RowVersion struct {
	ID        string
	Semver    string
	DeployURL string
}

// NewApp is the insert shape for a CI-created listing
type NewApp struct {
	OwnerID string
	Title   string
	Slug    string
	HeroURL string
	Lat     float64
	Lng     float64
	RadiusM float64
}

// ErrNotFound marks lookups that matched no row; callers pick the message
var ErrNotFound = errors.New("apps: not found")

// Repo defines the repository contract for apps
type Repo interface {
	PublishedBySlug(ctx context.Context, slug string) (RowPublished, error)
	BySlug(ctx context.Context, slug string) (RowOwned, error)
	LatestVersion(ctx context.Context, appID string) (RowVersion, error)
	CreateApp(ctx context.Context, in NewApp) (RowOwned, error)
	CreateVersion(ctx context.Context, appID, semver, deployURL string) (string, error)
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

func (r *queries) PublishedBySlug(ctx context.Context, slug string) (RowPublished, error) {
	const sql = `
SELECT a.id::text, a.title, a.slug, COALESCE(a.hero_url, ''),
       COALESCE(u.email, ''),
       a.latitude, a.longitude, a.geo_radius_m
FROM apps a
LEFT JOIN users u ON u.id = a.owner_id
WHERE a.slug = $1 AND a.state = 'published'
`
	var row RowPublished
	if err := r.q.QueryRow(ctx, sql, slug).Scan(
		&row.ID,
		&row.Title,
		&row.Slug,
		&row.HeroURL,
		&row.OwnerEmail,
		&row.Lat,
		&row.Lng,
		&row.RadiusM,
	); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return RowPublished{}, ErrNotFound
		}
		return RowPublished{}, perr.FromPostgres(err, "apps published by slug")
	}
	return row, nil
}

func (r *queries) BySlug(ctx context.Context, slug string) (RowOwned, error) {
	const sql = `
SELECT id::text, owner_id::text, state
FROM apps
WHERE slug = $1
`
	var row RowOwned
	if err := r.q.QueryRow(ctx, sql, slug).Scan(&row.ID, &row.OwnerID, &row.State); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return RowOwned{}, ErrNotFound
		}
		return RowOwned{}, perr.FromPostgres(err, "apps by slug")
	}
	return row, nil
}

func (r *queries) LatestVersion(ctx context.Context, appID string) (RowVersion, error) {
	const sql = `
SELECT id::text, semver, COALESCE(deploy_url, '')
FROM versions
WHERE app_id = $1
ORDER BY created_at DESC
LIMIT 1
`
	var row RowVersion
	if err := r.q.QueryRow(ctx, sql, appID).Scan(&row.ID, &row.Semver, &row.DeployURL); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return RowVersion{}, ErrNotFound
		}
		return RowVersion{}, perr.FromPostgres(err, "apps latest version")
	}
	return row, nil
}

func (r *queries) CreateApp(ctx context.Context, in NewApp) (RowOwned, error) {
	const sql = `
INSERT INTO apps (owner_id, title, slug, hero_url, latitude, longitude, geo_radius_m, state, price_cents, is_paid)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, 'pending', 0, FALSE)
RETURNING id::text, owner_id::text, state
`
	var row RowOwned
	if err := r.q.QueryRow(ctx, sql,
		in.OwnerID, in.Title, in.Slug, in.HeroURL, in.Lat, in.Lng, in.RadiusM,
	).Scan(&row.ID, &row.OwnerID, &row.State); err != nil {
		return RowOwned{}, perr.FromPostgres(err, "apps create")
	}
	return row, nil
}

func (r *queries) CreateVersion(ctx context.Context, appID, semver, deployURL string) (string, error) {
	const sql = `
INSERT INTO versions (app_id, semver, deploy_url)
VALUES ($1, $2, $3)
RETURNING id::text
`
	var id string
	if err := r.q.QueryRow(ctx, sql, appID, semver, deployURL).Scan(&id); err != nil {
		return "", perr.FromPostgres(err, "versions create")
	}
	return id, nil
}
