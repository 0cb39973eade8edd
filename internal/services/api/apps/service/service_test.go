package service

import (
	"context"
	"testing"

	"pincast/internal/modkit/repokit"
	perr "pincast/internal/platform/errors"
	"pincast/internal/platform/store"
	"pincast/internal/services/api/apps/domain"
	"pincast/internal/services/api/apps/repo"
)

type fakeTx struct{}

func (fakeTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (fakeTx) Query(context.Context, string, ...any) (store.Rows, error)     { return nil, nil }
func (fakeTx) QueryRow(context.Context, string, ...any) store.Row            { return nil }
func (fakeTx) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	return fn(fakeTx{})
}

type fakeRepo struct {
	published map[string]repo.RowPublished
	bySlug    map[string]repo.RowOwned
	latest    map[string]repo.RowVersion

	createdApps     []repo.NewApp
	createdVersions []string // "<appID>:<semver>:<deployURL>"
}

func (f *fakeRepo) PublishedBySlug(_ context.Context, slug string) (repo.RowPublished, error) {
	row, ok := f.published[slug]
	if !ok {
		return repo.RowPublished{}, repo.ErrNotFound
	}
	return row, nil
}

func (f *fakeRepo) BySlug(_ context.Context, slug string) (repo.RowOwned, error) {
	row, ok := f.bySlug[slug]
	if !ok {
		return repo.RowOwned{}, repo.ErrNotFound
	}
	return row, nil
}

func (f *fakeRepo) LatestVersion(_ context.Context, appID string) (repo.RowVersion, error) {
	row, ok := f.latest[appID]
	if !ok {
		return repo.RowVersion{}, repo.ErrNotFound
	}
	return row, nil
}

func (f *fakeRepo) CreateApp(_ context.Context, in repo.NewApp) (repo.RowOwned, error) {
	f.createdApps = append(f.createdApps, in)
	row := repo.RowOwned{ID: "app-new", OwnerID: in.OwnerID, State: "pending"}
	f.bySlug[in.Slug] = row
	return row, nil
}

func (f *fakeRepo) CreateVersion(_ context.Context, appID, semver, deployURL string) (string, error) {
	f.createdVersions = append(f.createdVersions, appID+":"+semver+":"+deployURL)
	return "ver-new", nil
}

func newSvc(fr *fakeRepo) *Svc {
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return fr })
	return New(fakeTx{}, binder, Options{DashboardBaseURL: "https://pincast.fm/dashboard/apps"})
}

func validInput() domain.SubmitInput {
	return domain.SubmitInput{
		Title:    "Marais Walk",
		Slug:     "marais-walk",
		Geo:      domain.GeoArea{Center: [2]float64{2.3580, 48.8575}, RadiusMeters: 500},
		BuildURL: "https://builds.example.com/marais-walk.zip",
	}
}

func TestSubmitCreatesPendingApp(t *testing.T) {
	t.Parallel()

	fr := &fakeRepo{bySlug: map[string]repo.RowOwned{}, latest: map[string]repo.RowVersion{}}
	s := newSvc(fr)

	out, err := s.Submit(context.Background(), "dev-1", validInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if out.AppID != "app-new" || out.VersionID != "ver-new" || out.Status != "pending" {
		t.Fatalf("out = %+v", out)
	}
	if out.Dashboard != "https://pincast.fm/dashboard/apps/app-new" {
		t.Fatalf("dashboard = %q", out.Dashboard)
	}

	if len(fr.createdApps) != 1 {
		t.Fatalf("created %d apps, want 1", len(fr.createdApps))
	}
	app := fr.createdApps[0]
	if app.Lat != 48.8575 || app.Lng != 2.3580 || app.RadiusM != 500 {
		t.Fatalf("geo = %+v", app)
	}
	if len(fr.createdVersions) != 1 || fr.createdVersions[0] != "app-new:0.1.0:https://builds.example.com/marais-walk.zip" {
		t.Fatalf("versions = %v", fr.createdVersions)
	}
}

func TestSubmitSlugOwnedByAnotherDeveloper(t *testing.T) {
	t.Parallel()

	fr := &fakeRepo{
		bySlug: map[string]repo.RowOwned{"marais-walk": {ID: "app-1", OwnerID: "dev-2", State: "published"}},
		latest: map[string]repo.RowVersion{},
	}
	s := newSvc(fr)

	_, err := s.Submit(context.Background(), "dev-1", validInput())
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != "App with slug 'marais-walk' already exists" {
		t.Fatalf("message = %q", err.Error())
	}
	if len(fr.createdVersions) != 0 {
		t.Fatalf("versions = %v, want none", fr.createdVersions)
	}
}

func TestSubmitResubmissionBumpsPatch(t *testing.T) {
	t.Parallel()

	fr := &fakeRepo{
		bySlug: map[string]repo.RowOwned{"marais-walk": {ID: "app-1", OwnerID: "dev-1", State: "published"}},
		latest: map[string]repo.RowVersion{"app-1": {ID: "v-3", Semver: "1.2.3"}},
	}
	s := newSvc(fr)

	out, err := s.Submit(context.Background(), "dev-1", validInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	// resubmission keeps the existing listing and state
	if out.AppID != "app-1" || out.Status != "published" {
		t.Fatalf("out = %+v", out)
	}
	if len(fr.createdApps) != 0 {
		t.Fatalf("created %d apps, want 0", len(fr.createdApps))
	}
	if fr.createdVersions[0] != "app-1:1.2.4:https://builds.example.com/marais-walk.zip" {
		t.Fatalf("versions = %v", fr.createdVersions)
	}
}

func TestSubmitExplicitVersionWins(t *testing.T) {
	t.Parallel()

	fr := &fakeRepo{
		bySlug: map[string]repo.RowOwned{"marais-walk": {ID: "app-1", OwnerID: "dev-1", State: "pending"}},
		latest: map[string]repo.RowVersion{"app-1": {ID: "v-3", Semver: "1.2.3"}},
	}
	s := newSvc(fr)

	in := validInput()
	in.SDKVersion = "2.0.0"
	_, err := s.Submit(context.Background(), "dev-1", in)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if fr.createdVersions[0] != "app-1:2.0.0:https://builds.example.com/marais-walk.zip" {
		t.Fatalf("versions = %v", fr.createdVersions)
	}
}

func TestSubmitRejectsBadSlug(t *testing.T) {
	t.Parallel()

	s := newSvc(&fakeRepo{bySlug: map[string]repo.RowOwned{}, latest: map[string]repo.RowVersion{}})
	in := validInput()
	in.Slug = "Marais Walk"
	if _, err := s.Submit(context.Background(), "dev-1", in); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestSubmitRejectsBadSemver(t *testing.T) {
	t.Parallel()

	s := newSvc(&fakeRepo{bySlug: map[string]repo.RowOwned{}, latest: map[string]repo.RowVersion{}})
	in := validInput()
	in.SDKVersion = "1.2"
	if _, err := s.Submit(context.Background(), "dev-1", in); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestPublicDetail(t *testing.T) {
	t.Parallel()

	fr := &fakeRepo{
		published: map[string]repo.RowPublished{
			"marais-walk": {
				ID: "app-1", Title: "Marais Walk", Slug: "marais-walk",
				OwnerEmail: "dev@example.com", Lat: 48.8575, Lng: 2.3580, RadiusM: 500,
			},
		},
		bySlug: map[string]repo.RowOwned{},
		latest: map[string]repo.RowVersion{"app-1": {ID: "v-1", Semver: "1.0.0", DeployURL: "https://apps.example.com/marais-walk"}},
	}
	s := newSvc(fr)

	d, err := s.PublicDetail(context.Background(), "marais-walk")
	if err != nil {
		t.Fatalf("PublicDetail: %v", err)
	}
	if d.OwnerName != "dev@example.com" || d.Semver != "1.0.0" || d.BuildURL != "https://apps.example.com/marais-walk" {
		t.Fatalf("detail = %+v", d)
	}
	// center serializes as [longitude, latitude]
	if d.Geo.Center != [2]float64{2.3580, 48.8575} {
		t.Fatalf("center = %v", d.Geo.Center)
	}
}

func TestPublicDetailNotPublished(t *testing.T) {
	t.Parallel()

	s := newSvc(&fakeRepo{published: map[string]repo.RowPublished{}, bySlug: map[string]repo.RowOwned{}, latest: map[string]repo.RowVersion{}})
	_, err := s.PublicDetail(context.Background(), "ghost")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != `App with slug "ghost" not found or not published` {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestPublicDetailNoVersions(t *testing.T) {
	t.Parallel()

	fr := &fakeRepo{
		published: map[string]repo.RowPublished{"marais-walk": {ID: "app-1", Slug: "marais-walk"}},
		bySlug:    map[string]repo.RowOwned{},
		latest:    map[string]repo.RowVersion{},
	}
	s := newSvc(fr)
	_, err := s.PublicDetail(context.Background(), "marais-walk")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != `No deployed versions found for app "marais-walk"` {
		t.Fatalf("message = %q", err.Error())
	}
}
