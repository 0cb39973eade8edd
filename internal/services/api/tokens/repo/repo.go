// Package repo provides postgres access for app token issuance
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"

	"pincast/internal/modkit/repokit"
	perr "pincast/internal/platform/errors"
)

// RowPlayer is the account row token issuance needs
type RowPlayer struct {
	ID   string
	Role string
}

// RowApp is the listing row token issuance needs
type RowApp struct {
	ID      string
	OwnerID string
	State   string
}

// ErrNotFound marks lookups that matched no row; callers pick the message
var ErrNotFound = errors.New("tokens: not found")

// Repo defines the repository contract for tokens
type Repo interface {
	// PlayerBySubject returns the account mapped to an identity provider
	// subject; unlike the identity resolver it never provisions one
	PlayerBySubject(ctx context.Context, subject string) (RowPlayer, error)

	// AppByID returns the listing a token is requested for
	AppByID(ctx context.Context, appID string) (RowApp, error)
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

func (r *queries) PlayerBySubject(ctx context.Context, subject string) (RowPlayer, error) {
	const sql = `
SELECT id::text, role
FROM users
WHERE subject_id = $1
`
	var row RowPlayer
	if err := r.q.QueryRow(ctx, sql, subject).Scan(&row.ID, &row.Role); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return RowPlayer{}, ErrNotFound
		}
		return RowPlayer{}, perr.FromPostgres(err, "tokens player by subject")
	}
	return row, nil
}

func (r *queries) AppByID(ctx context.Context, appID string) (RowApp, error) {
	const sql = `
SELECT id::text, owner_id::text, state
FROM apps
WHERE id = $1
`
	var row RowApp
	if err := r.q.QueryRow(ctx, sql, appID).Scan(&row.ID, &row.OwnerID, &row.State); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return RowApp{}, ErrNotFound
		}
		return RowApp{}, perr.FromPostgres(err, "tokens app by id")
	}
	return row, nil
}
