// Package sqlite implements store.DB on top of database/sql with the
// cgo-free modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite" // register "sqlite" driver

	"github.com/smndtrl/nocodb/internal/errs"
	"github.com/smndtrl/nocodb/internal/meta"
	"github.com/smndtrl/nocodb/internal/store"
)

func init() {
	store.Register(meta.DialectSQLite, func(ctx context.Context, cfg *store.Config) (store.DB, error) {
		return New(ctx, cfg)
	})
}

// Driver is a SQLite implementation of store.DB. The DSN is the database
// file path, or ":memory:" for an in-memory database.
type Driver struct {
	db *sql.DB
}

// New opens a SQLite database and validates it with a ping.
func New(ctx context.Context, cfg *store.Config) (*Driver, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "opening sqlite database", err)
	}

	// SQLite allows a single writer; keep the pool at one connection so
	// concurrent readers never trip over a locked file.
	db.SetMaxOpenConns(1)

	d := &Driver{db: db}
	if err := d.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

// NewWithDB wraps an existing pool. Used by tests.
func NewWithDB(db *sql.DB) *Driver {
	return &Driver{db: db}
}

// --- store.DB implementation ---

func (d *Driver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

func (d *Driver) Close() {
	_ = d.db.Close()
}

func (d *Driver) Query(ctx context.Context, query string, args ...any) (store.Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "query failed")
	}
	return &sqlRows{rows: rows}, nil
}

func (d *Driver) QueryRow(ctx context.Context, query string, args ...any) (store.Row, error) {
	return &sqlRow{row: d.db.QueryRowContext(ctx, query, args...)}, nil
}

func (d *Driver) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, mapError(err, "failed to list tables")
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, mapError(err, "failed to scan table name")
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating tables")
	}
	return tables, nil
}

// mapError converts a driver error into the unified error taxonomy. The
// modernc driver exposes no structured error codes, so only the stdlib
// sentinels are distinguished.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, "record not found", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}
	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}

// --- result set adapters ---

type sqlRows struct {
	rows *sql.Rows
}

func (r *sqlRows) Next() bool { return r.rows.Next() }

func (r *sqlRows) Scan(dest ...any) error {
	if err := r.rows.Scan(dest...); err != nil {
		return mapError(err, "scan failed")
	}
	return nil
}

func (r *sqlRows) Columns() ([]string, error) {
	cols, err := r.rows.Columns()
	if err != nil {
		return nil, mapError(err, "reading columns failed")
	}
	return cols, nil
}

func (r *sqlRows) Close() { _ = r.rows.Close() }

func (r *sqlRows) Err() error { return mapError(r.rows.Err(), "rows error") }

type sqlRow struct {
	row *sql.Row
}

func (r *sqlRow) Scan(dest ...any) error {
	if err := r.row.Scan(dest...); err != nil {
		return mapError(err, "scan failed")
	}
	return nil
}
