package service

import (
	"context"
	"testing"
	"time"

	"pincast/internal/core/geo"
	"pincast/internal/modkit/repokit"
	perr "pincast/internal/platform/errors"
	"pincast/internal/platform/store"
	ptime "pincast/internal/platform/time"
	"pincast/internal/services/api/catalog/domain"
	"pincast/internal/services/api/catalog/repo"
)

type fakeTx struct{}

func (fakeTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (fakeTx) Query(context.Context, string, ...any) (store.Rows, error)     { return nil, nil }
func (fakeTx) QueryRow(context.Context, string, ...any) store.Row            { return nil }
func (fakeTx) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	return fn(fakeTx{})
}

type fakeRepo struct {
	rows []repo.RowListing
	err  error
}

func (f *fakeRepo) Published(context.Context) ([]repo.RowListing, error) {
	return f.rows, f.err
}

func newSvc(rows []repo.RowListing) *Svc {
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return &fakeRepo{rows: rows} })
	return New(fakeTx{}, binder)
}

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return ptime.Ptr(t)
}

// Notre-Dame as origin; distances vary from a few hundred meters to far out of range
var parisRows = []repo.RowListing{
	{ID: "b", Title: "Louvre Hunt", Slug: "louvre-hunt", Lat: 48.8606, Lng: 2.3376, Sessions7d: 50, LatestVersionAt: ts("2024-03-01T00:00:00Z")},
	{ID: "a", Title: "Marais Walk", Slug: "marais-walk", Lat: 48.8575, Lng: 2.3580, Sessions7d: 100, LatestVersionAt: ts("2024-01-01T00:00:00Z")},
	{ID: "c", Title: "Lyon Trail", Slug: "lyon-trail", Lat: 45.7640, Lng: 4.8357, Sessions7d: 25, LatestVersionAt: ts("2024-02-01T00:00:00Z")},
}

var origin = geo.Point{Lat: 48.8530, Lng: 2.3499}

func TestBrowseDistance(t *testing.T) {
	t.Parallel()

	s := newSvc(parisRows)
	got, err := s.Browse(context.Background(), domain.Query{
		Sort:    domain.SortDistance,
		Origin:  &origin,
		RadiusM: 5000,
	})
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}

	// Lyon is ~390km away and must be filtered out
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	for i, it := range got {
		if it.DistanceMeters == nil {
			t.Fatalf("item %d missing distanceMeters", i)
		}
		if *it.DistanceMeters > 5000 {
			t.Fatalf("item %d distance %d exceeds radius", i, *it.DistanceMeters)
		}
		if i > 0 && *got[i-1].DistanceMeters > *it.DistanceMeters {
			t.Fatal("distances not non-decreasing")
		}
	}
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("order = %s, %s; want a, b", got[0].ID, got[1].ID)
	}
}

func TestBrowseDistanceRequiresOrigin(t *testing.T) {
	t.Parallel()

	s := newSvc(parisRows)
	_, err := s.Browse(context.Background(), domain.Query{Sort: domain.SortDistance})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if err.Error() != "Latitude and longitude are required when using distance sort" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestBrowseDistanceRejectsBadLatitude(t *testing.T) {
	t.Parallel()

	s := newSvc(parisRows)
	_, err := s.Browse(context.Background(), domain.Query{
		Sort:   domain.SortDistance,
		Origin: &geo.Point{Lat: 91, Lng: 0},
	})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if err.Error() != "Latitude must be between -90 and 90" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestBrowseDefaultsToDistanceSort(t *testing.T) {
	t.Parallel()

	s := newSvc(parisRows)
	if _, err := s.Browse(context.Background(), domain.Query{}); err == nil {
		t.Fatal("empty sort should default to distance and demand an origin")
	}

	got, err := s.Browse(context.Background(), domain.Query{Origin: &origin})
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if len(got) == 0 || got[0].DistanceMeters == nil {
		t.Fatal("default sort should annotate distances")
	}
}

func TestBrowseInvalidSort(t *testing.T) {
	t.Parallel()

	s := newSvc(parisRows)
	_, err := s.Browse(context.Background(), domain.Query{Sort: "alphabetical"})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if err.Error() != "Invalid sort option. Valid options are: distance, popularity, newest" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestBrowseRadiusClamp(t *testing.T) {
	t.Parallel()

	// Lyon is ~390km out; even a million-meter request is clamped to 200km
	s := newSvc(parisRows)
	got, err := s.Browse(context.Background(), domain.Query{
		Sort:    domain.SortDistance,
		Origin:  &origin,
		RadiusM: 1_000_000,
	})
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	for _, it := range got {
		if it.ID == "c" {
			t.Fatal("listing beyond the clamped radius leaked through")
		}
	}
}

func TestBrowsePopularity(t *testing.T) {
	t.Parallel()

	s := newSvc(parisRows)
	got, err := s.Browse(context.Background(), domain.Query{Sort: domain.SortPopularity})
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d items, want 3", len(got))
	}
	want := []int64{100, 50, 25}
	for i, it := range got {
		if it.Sessions7d != want[i] {
			t.Fatalf("position %d sessions7d = %d, want %d", i, it.Sessions7d, want[i])
		}
		if it.DistanceMeters != nil {
			t.Fatal("popularity sort must not annotate distances")
		}
	}
}

func TestBrowsePopularityTieBreakByID(t *testing.T) {
	t.Parallel()

	rows := []repo.RowListing{
		{ID: "z", Title: "Z", Slug: "z", Sessions7d: 10},
		{ID: "a", Title: "A", Slug: "a", Sessions7d: 10},
		{ID: "m", Title: "M", Slug: "m", Sessions7d: 10},
	}
	s := newSvc(rows)

	// identical inputs must produce identical output, every time
	for range 5 {
		got, err := s.Browse(context.Background(), domain.Query{Sort: domain.SortPopularity})
		if err != nil {
			t.Fatal(err)
		}
		if got[0].ID != "a" || got[1].ID != "m" || got[2].ID != "z" {
			t.Fatalf("tie-break order = %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
		}
	}
}

func TestBrowseNewest(t *testing.T) {
	t.Parallel()

	rows := append([]repo.RowListing(nil), parisRows...)
	rows = append(rows, repo.RowListing{ID: "d", Title: "No Version Yet", Slug: "nvy", Sessions7d: 999})
	s := newSvc(rows)

	got, err := s.Browse(context.Background(), domain.Query{Sort: domain.SortNewest})
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}
	ids := make([]string, len(got))
	for i, it := range got {
		ids[i] = it.ID
	}
	// b (Mar) > c (Feb) > a (Jan) > d (no versions sorts last)
	want := []string{"b", "c", "a", "d"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order = %v, want %v", ids, want)
		}
	}
}
