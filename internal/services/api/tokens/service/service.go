// Package service contains the app token issuance workflow
package service

import (
	"context"
	"errors"
	"time"

	"pincast/internal/core/lifecycle"
	"pincast/internal/modkit/repokit"
	perr "pincast/internal/platform/errors"
	"pincast/internal/services/api/tokens/domain"
	"pincast/internal/services/api/tokens/repo"
	identdom "pincast/internal/services/identity/domain"
)

// DefaultTTL is how long an issued app token stays valid
const DefaultTTL = time.Hour

// Service defines the service contract for tokens
type Service interface{ domain.ServicePort }

// Options controls token issuance
type Options struct {
	TTL time.Duration
}

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	verifier identdom.VerifierPort
	issuer   identdom.IssuerPort
	ttl      time.Duration
}

// New creates a new tokens service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[repo.Repo],
	verifier identdom.VerifierPort,
	issuer identdom.IssuerPort,
	opts Options,
) *Svc {
	if db == nil {
		panic("tokens.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("tokens.Service requires a non nil Repo binder")
	}
	if verifier == nil || issuer == nil {
		panic("tokens.Service requires identity verifier and issuer ports")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, verifier: verifier, issuer: issuer, ttl: ttl}
}

// Issue exchanges a verified identity token for an app-scoped session token.
// The player account must already exist and the app must be visible to them
func (s *Svc) Issue(ctx context.Context, in domain.IssueInput) (domain.IssueOutput, error) {
	claims, err := s.verifier.VerifyIDToken(ctx, in.IDToken)
	if err != nil {
		return domain.IssueOutput{}, err
	}

	player, err := s.Repo.PlayerBySubject(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.IssueOutput{}, perr.Forbiddenf("Player account not found")
		}
		return domain.IssueOutput{}, err
	}

	app, err := s.Repo.AppByID(ctx, in.AppID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.IssueOutput{}, perr.NotFoundf("App not found")
		}
		return domain.IssueOutput{}, err
	}
	// owners can play their own unpublished builds
	if app.State != string(lifecycle.StatePublished) && app.OwnerID != player.ID {
		return domain.IssueOutput{}, perr.Forbiddenf("App is not published")
	}

	token, err := s.issuer.MintAppToken(ctx, player.ID, app.ID, identdom.RolePlayer, s.ttl)
	if err != nil {
		return domain.IssueOutput{}, err
	}
	return domain.IssueOutput{Token: token, ExpiresIn: int(s.ttl.Seconds())}, nil
}
