// Package repo provides postgres access for identity accounts
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"

	"pincast/internal/modkit/repokit"
	perr "pincast/internal/platform/errors"
	"pincast/internal/services/identity/domain"
)

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the domain.Repo interface
	queries struct{ q repokit.Queryer }
)

// Compile-time assertion that queries implements domain.Repo
var _ domain.Repo = (*queries)(nil)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

func (r *queries) BySubject(ctx context.Context, subject string) (domain.User, error) {
	const sql = `
SELECT id::text, subject_id, COALESCE(email, ''), role::text, created_at
FROM users
WHERE subject_id = $1
`
	var u domain.User
	var role string
	row := r.q.QueryRow(ctx, sql, subject)
	if err := row.Scan(&u.ID, &u.SubjectID, &u.Email, &role, &u.CreatedAt); err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return domain.User{}, perr.NotFoundf("account not found")
		}
		return domain.User{}, perr.FromPostgres(err, "identity by subject")
	}
	u.Role = domain.Role(role)
	return u, nil
}

func (r *queries) Ensure(ctx context.Context, subject, email string) (domain.User, error) {
	const sql = `
INSERT INTO users (subject_id, email, role)
VALUES ($1, NULLIF($2, ''), 'player')
ON CONFLICT (subject_id) DO UPDATE SET email = COALESCE(users.email, excluded.email)
RETURNING id::text, subject_id, COALESCE(email, ''), role::text, created_at
`
	var u domain.User
	var role string
	row := r.q.QueryRow(ctx, sql, subject, email)
	if err := row.Scan(&u.ID, &u.SubjectID, &u.Email, &role, &u.CreatedAt); err != nil {
		return domain.User{}, perr.FromPostgres(err, "identity ensure")
	}
	u.Role = domain.Role(role)
	return u, nil
}
