package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pincast/internal/modkit/repokit"
	"pincast/internal/platform/store"
	"pincast/internal/services/api/analytics/domain"
	"pincast/internal/services/api/analytics/repo"
)

type fakeTx struct{}

func (fakeTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (fakeTx) Query(context.Context, string, ...any) (store.Rows, error)     { return nil, nil }
func (fakeTx) QueryRow(context.Context, string, ...any) store.Row            { return nil }
func (fakeTx) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	return fn(fakeTx{})
}

type fakeRepo struct {
	inserted  []domain.Event
	insertErr error

	sessions   int64
	refreshErr error
	refreshed  int
}

func (f *fakeRepo) Insert(_ context.Context, ev domain.Event) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, ev)
	return nil
}

func (f *fakeRepo) Sessions7d(context.Context, string) (int64, error) { return f.sessions, nil }

func (f *fakeRepo) RefreshWeekly(context.Context) error {
	f.refreshed++
	return f.refreshErr
}

type fakeCH struct {
	rows []any
	err  error
}

func (f *fakeCH) Insert(_ context.Context, _ string, data any) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, data)
	return nil
}

func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeCH) Close() error                                              { return nil }

func newSvc(fr *fakeRepo, ch store.Clickhouse) *Svc {
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return fr })
	return New(fakeTx{}, binder, ch)
}

func TestRecordStampsMissingTimestamp(t *testing.T) {
	t.Parallel()

	fr := &fakeRepo{}
	s := newSvc(fr, nil)

	before := time.Now().UTC()
	if err := s.Record(context.Background(), domain.Event{AppID: "app-1", UserID: "u-1", Name: "session_start"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(fr.inserted) != 1 {
		t.Fatalf("inserted %d rows, want 1", len(fr.inserted))
	}
	got := fr.inserted[0].TS
	if got.Before(before) || got.After(time.Now().UTC()) {
		t.Fatalf("timestamp %v not stamped at record time", got)
	}
	if fr.inserted[0].ID == "" {
		t.Fatal("event id not stamped")
	}
}

func TestRecordKeepsCallerEventID(t *testing.T) {
	t.Parallel()

	fr := &fakeRepo{}
	s := newSvc(fr, nil)

	ev := domain.Event{ID: "ev-1", AppID: "app-1", UserID: "u-1", Name: "session_start"}
	if err := s.Record(context.Background(), ev); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if fr.inserted[0].ID != "ev-1" {
		t.Fatalf("id = %q, want ev-1", fr.inserted[0].ID)
	}
}

func TestRecordPostgresFailurePropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("pg down")
	fr := &fakeRepo{insertErr: boom}
	ch := &fakeCH{}
	s := newSvc(fr, ch)

	err := s.Record(context.Background(), domain.Event{AppID: "app-1", UserID: "u-1", Name: "session_start"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	// nothing mirrored when the authoritative write fails
	if len(ch.rows) != 0 {
		t.Fatalf("mirror got %d rows, want 0", len(ch.rows))
	}
}

func TestRecordMirrorFailureDoesNotPropagate(t *testing.T) {
	t.Parallel()

	fr := &fakeRepo{}
	ch := &fakeCH{err: errors.New("ch down")}
	s := newSvc(fr, ch)

	if err := s.Record(context.Background(), domain.Event{AppID: "app-1", UserID: "u-1", Name: "session_start"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(fr.inserted) != 1 {
		t.Fatalf("inserted %d rows, want 1", len(fr.inserted))
	}
}

func TestRecordMirrorsToClickhouse(t *testing.T) {
	t.Parallel()

	fr := &fakeRepo{}
	ch := &fakeCH{}
	s := newSvc(fr, ch)

	ev := domain.Event{AppID: "app-1", UserID: "u-1", Name: "checkpoint", TS: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)}
	if err := s.Record(context.Background(), ev); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(ch.rows) != 1 {
		t.Fatalf("mirror got %d rows, want 1", len(ch.rows))
	}
	row, ok := ch.rows[0].(*chEvent)
	if !ok {
		t.Fatalf("mirror row type %T", ch.rows[0])
	}
	if row.AppID != "app-1" || row.Event != "checkpoint" || !row.TS.Equal(ev.TS) {
		t.Fatalf("mirror row = %+v", row)
	}
}

func TestSessions7d(t *testing.T) {
	t.Parallel()

	fr := &fakeRepo{sessions: 42}
	s := newSvc(fr, nil)

	n, err := s.Sessions7d(context.Background(), "app-1")
	if err != nil {
		t.Fatalf("Sessions7d: %v", err)
	}
	if n != 42 {
		t.Fatalf("n = %d, want 42", n)
	}
}

func TestRefreshWeekly(t *testing.T) {
	t.Parallel()

	fr := &fakeRepo{}
	s := newSvc(fr, nil)

	out, err := s.RefreshWeekly(context.Background())
	if err != nil {
		t.Fatalf("RefreshWeekly: %v", err)
	}
	if fr.refreshed != 1 {
		t.Fatalf("refreshed %d times, want 1", fr.refreshed)
	}
	if !out.Success || out.Message != "Analytics aggregate refreshed successfully" {
		t.Fatalf("out = %+v", out)
	}
	if _, err := time.Parse(time.RFC3339, out.Timestamp); err != nil {
		t.Fatalf("timestamp %q not RFC3339: %v", out.Timestamp, err)
	}
}

func TestRefreshWeeklyFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("refresh failed")
	fr := &fakeRepo{refreshErr: boom}
	s := newSvc(fr, nil)

	if _, err := s.RefreshWeekly(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}
