//go:build integration_pg
// +build integration_pg

package store

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"pincast/internal/platform/logger"

	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres launches a disposable Postgres and returns DSN + stop func
func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mp.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func newTestStoreLogger() logger.Logger {
	// quiet, deterministic logs
	return zerolog.New(io.Discard)
}

// appsSchema is the minimal slice of the production schema these tests touch
const appsSchema = `
CREATE TEMP TABLE apps (
	id           SERIAL PRIMARY KEY,
	title        TEXT NOT NULL,
	slug         TEXT NOT NULL UNIQUE,
	state        TEXT NOT NULL DEFAULT 'draft',
	latitude     FLOAT8 NOT NULL DEFAULT 0,
	longitude    FLOAT8 NOT NULL DEFAULT 0,
	geo_radius_m FLOAT8 NOT NULL DEFAULT 1000
);
CREATE TEMP TABLE versions (
	id         SERIAL PRIMARY KEY,
	app_id     INT NOT NULL REFERENCES apps (id),
	semver     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func TestSQLAdapter_Integration_ListingReadsAndReturning(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	// Build store + config and use openPG from openers.go
	s := &Store{Log: newTestStoreLogger()}
	cfg := Config{
		PG: PGConfig{
			URL:         dsn,
			MaxConns:    2,
			SlowQueryMs: 0,
			LogSQL:      true, // hit tracer wiring path
		},
	}
	txr, err := openPG(ctx, cfg, s)
	if err != nil {
		t.Fatalf("openPG failed: %v", err)
	}
	// We need Exec/Query/QueryRow, which live on the adapter; openPG returns TxRunner
	a, ok := txr.(*pgAdapter)
	if !ok {
		t.Fatalf("openPG did not return *pgAdapter, got %T", txr)
	}
	t.Cleanup(func() { _ = a.Close() })

	if _, err := a.Exec(ctx, appsSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if _, err := a.Exec(ctx,
		`INSERT INTO apps (title, slug, state) VALUES ($1, $2, 'pending'), ($3, $4, 'published')`,
		"Marais Walk", "marais-walk", "Louvre Hunt", "louvre-hunt",
	); err != nil {
		t.Fatalf("insert apps: %v", err)
	}

	// QueryRow flow: UPDATE ... RETURNING is how state transitions land
	var state string
	if err := a.QueryRow(ctx,
		`UPDATE apps SET state='published' WHERE slug=$1 RETURNING state`, "marais-walk",
	).Scan(&state); err != nil {
		t.Fatalf("update returning: %v", err)
	}
	if state != "published" {
		t.Fatalf("state = %q, want published", state)
	}

	// Query + Columns()
	rs, err := a.Query(ctx, `SELECT id, slug FROM apps WHERE state='published' ORDER BY id`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rs.Close()

	cols := rs.Columns()
	if len(cols) != 2 || cols[0] != "id" || cols[1] != "slug" {
		t.Fatalf("columns mismatch: %#v", cols)
	}

	var slugs []string
	for rs.Next() {
		var id int
		var slug string
		if err := rs.Scan(&id, &slug); err != nil {
			t.Fatalf("rows scan: %v", err)
		}
		slugs = append(slugs, slug)
	}
	if err := rs.Err(); err != nil {
		t.Fatalf("rows err: %v", err)
	}
	if len(slugs) != 2 || slugs[0] != "marais-walk" || slugs[1] != "louvre-hunt" {
		t.Fatalf("slugs mismatch: %v", slugs)
	}

	// slug uniqueness backs the CI submission conflict path
	if _, err := a.Exec(ctx,
		`INSERT INTO apps (title, slug) VALUES ($1, $2)`, "Imposter", "marais-walk",
	); err == nil {
		t.Fatal("duplicate slug insert should fail")
	}

	// Close is safe, and calling twice should be fine through PG.Close behavior
	if err := a.Close(); err != nil {
		t.Fatalf("adapter close: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("adapter close second: %v", err)
	}
}

func TestSQLAdapter_Integration_SubmissionTxCommitAndRollback(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	s := &Store{Log: newTestStoreLogger()}
	cfg := Config{PG: PGConfig{URL: dsn, MaxConns: 2}}
	txr, err := openPG(ctx, cfg, s)
	if err != nil {
		t.Fatalf("openPG failed: %v", err)
	}
	a := txr.(*pgAdapter)
	t.Cleanup(func() { _ = a.Close() })

	if _, err := a.Exec(ctx, appsSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	// Commit path: app + version land together, as in a CI submission
	if err := a.Tx(ctx, func(q RowQuerier) error {
		var appID int
		if err := q.QueryRow(ctx,
			`INSERT INTO apps (title, slug, state) VALUES ($1, $2, 'pending') RETURNING id`,
			"Marais Walk", "marais-walk",
		).Scan(&appID); err != nil {
			return err
		}
		_, err := q.Exec(ctx, `INSERT INTO versions (app_id, semver) VALUES ($1, '0.1.0')`, appID)
		return err
	}); err != nil {
		t.Fatalf("tx commit: %v", err)
	}

	var count int
	if err := a.QueryRow(ctx, `SELECT COUNT(*) FROM versions WHERE semver='0.1.0'`).Scan(&count); err != nil {
		t.Fatalf("count committed: %v", err)
	}
	if count != 1 {
		t.Fatalf("commit failed count=%d want=1", count)
	}

	// Rollback path: a failed submission leaves neither row behind
	_ = a.Tx(ctx, func(q RowQuerier) error {
		var appID int
		if err := q.QueryRow(ctx,
			`INSERT INTO apps (title, slug, state) VALUES ($1, $2, 'pending') RETURNING id`,
			"Louvre Hunt", "louvre-hunt",
		).Scan(&appID); err != nil {
			return err
		}
		if _, err := q.Exec(ctx, `INSERT INTO versions (app_id, semver) VALUES ($1, '0.1.0')`, appID); err != nil {
			return err
		}
		return errRollback
	})

	count = 0
	if err := a.QueryRow(ctx, `SELECT COUNT(*) FROM apps WHERE slug='louvre-hunt'`).Scan(&count); err != nil {
		t.Fatalf("count rolled back: %v", err)
	}
	if count != 0 {
		t.Fatalf("rollback failed count=%d want=0", count)
	}
}

var errRollback = &fakeErr{}

type fakeErr struct{}

func (*fakeErr) Error() string { return "rollback" }
