// Package ch provides a clickhouse client
package ch

import (
	"context"
	"errors"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL string

	// Role tags connections in system.query_log, e.g. "api" or "refresher"
	Role string
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// CH wraps a clickhouse-go connection behind the store seam
type CH struct {
	conn driver.Conn
}

// Open connects to clickhouse using a DSN URL
func Open(ctx context.Context, cfg Config) (*CH, error) {
	if cfg.URL == "" {
		return nil, errors.New("ch: empty URL")
	}
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, err
	}
	role := cfg.Role
	if role == "" {
		role = "api"
	}
	opts.ClientInfo = BuildClientInfo(role, "")

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &CH{conn: conn}, nil
}

// Insert appends one struct or a batch of rows to the given table
func (c *CH) Insert(ctx context.Context, table string, data any) error {
	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return err
	}
	switch v := data.(type) {
	case [][]any:
		for _, row := range v {
			if err := batch.Append(row...); err != nil {
				_ = batch.Abort()
				return err
			}
		}
	default:
		if err := batch.AppendStruct(data); err != nil {
			_ = batch.Abort()
			return err
		}
	}
	return batch.Send()
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rows, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{rows: rows}, nil
}

// Exec runs a statement without results
func (c *CH) Exec(ctx context.Context, sql string, args ...any) error {
	return c.conn.Exec(ctx, sql, args...)
}

// Ping verifies connectivity
func (c *CH) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close closes resources
func (c *CH) Close() error { return c.conn.Close() }

// chRows narrows driver.Rows to the seam surface
type chRows struct {
	rows driver.Rows
}

func (r chRows) Next() bool             { return r.rows.Next() }
func (r chRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r chRows) Err() error             { return r.rows.Err() }
func (r chRows) Close() error           { return r.rows.Close() }
func (r chRows) Columns() []string      { return r.rows.Columns() }
