// Package service contains the app listing workflows
package service

import (
	"context"
	"errors"

	"pincast/internal/core/semver"
	"pincast/internal/core/slug"
	"pincast/internal/modkit/repokit"
	perr "pincast/internal/platform/errors"
	"pincast/internal/platform/store"
	"pincast/internal/services/api/apps/domain"
	"pincast/internal/services/api/apps/repo"
)

// firstSemver is assigned when CI submits without a version and none exist
const firstSemver = "0.1.0"

// Service defines the service contract for apps
type Service interface{ domain.ServicePort }

// Options controls apps behavior
type Options struct {
	// DashboardBaseURL prefixes the per-app dashboard link in CI responses
	DashboardBaseURL string
}

// Svc implements the Service interface
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	opts   Options
}

// New creates a new apps service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts Options) *Svc {
	if db == nil {
		panic("apps.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("apps.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), binder: binder, db: db, opts: opts}
}

// PublicDetail returns the public view of a published listing by slug
func (s *Svc) PublicDetail(ctx context.Context, slugStr string) (domain.PublicDetail, error) {
	app, err := s.Repo.PublishedBySlug(ctx, slugStr)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.PublicDetail{}, perr.NotFoundf("App with slug %q not found or not published", slugStr)
		}
		return domain.PublicDetail{}, err
	}

	latest, err := s.Repo.LatestVersion(ctx, app.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.PublicDetail{}, perr.NotFoundf("No deployed versions found for app %q", slugStr)
		}
		return domain.PublicDetail{}, err
	}

	ownerName := app.OwnerEmail
	if ownerName == "" {
		ownerName = "Unknown Developer"
	}
	return domain.PublicDetail{
		ID:        app.ID,
		Title:     app.Title,
		Slug:      app.Slug,
		HeroURL:   app.HeroURL,
		OwnerName: ownerName,
		BuildURL:  latest.DeployURL,
		Semver:    latest.Semver,
		Geo: domain.GeoArea{
			Center:       [2]float64{app.Lng, app.Lat},
			RadiusMeters: app.RadiusM,
		},
	}, nil
}

// Submit upserts a listing from CI and appends an immutable version.
// New listings start pending; resubmitting an owned slug only adds a version
func (s *Svc) Submit(ctx context.Context, developerID string, in domain.SubmitInput) (domain.SubmitOutput, error) {
	if !slug.Valid(in.Slug) {
		return domain.SubmitOutput{}, perr.InvalidArgf("Slug must contain only lowercase letters, numbers and hyphens")
	}
	if in.SDKVersion != "" && !semver.IsValid(in.SDKVersion) {
		return domain.SubmitOutput{}, perr.InvalidArgf("sdkVersion must be a well formed major.minor.patch version")
	}

	var out domain.SubmitOutput
	err := s.db.Tx(ctx, func(q store.RowQuerier) error {
		r := s.binder.Bind(q)

		app, err := r.BySlug(ctx, in.Slug)
		switch {
		case err == nil && app.OwnerID != developerID:
			return perr.Conflictf("App with slug '%s' already exists", in.Slug)
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return err
		case err != nil:
			app, err = r.CreateApp(ctx, repo.NewApp{
				OwnerID: developerID,
				Title:   in.Title,
				Slug:    in.Slug,
				HeroURL: in.HeroURL,
				Lat:     in.Geo.Center[1],
				Lng:     in.Geo.Center[0],
				RadiusM: in.Geo.RadiusMeters,
			})
			if err != nil {
				return err
			}
		}

		ver, err := s.nextSemver(ctx, r, app.ID, in.SDKVersion)
		if err != nil {
			return err
		}
		versionID, err := r.CreateVersion(ctx, app.ID, ver, in.BuildURL)
		if err != nil {
			return err
		}

		out = domain.SubmitOutput{
			AppID:     app.ID,
			VersionID: versionID,
			Dashboard: s.opts.DashboardBaseURL + "/" + app.ID,
			Status:    app.State,
		}
		return nil
	})
	if err != nil {
		return domain.SubmitOutput{}, err
	}
	return out, nil
}

// nextSemver honors an explicit version and otherwise bumps the latest patch
func (s *Svc) nextSemver(ctx context.Context, r repo.Repo, appID, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	latest, err := r.LatestVersion(ctx, appID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return firstSemver, nil
		}
		return "", err
	}
	v, err := semver.Parse(latest.Semver)
	if err != nil {
		// stored versions predating strict parsing fall back to the default
		return firstSemver, nil
	}
	return v.NextPatch().String(), nil
}
