// Package store provides read access to the user-data database behind each
// source. Every layer above talks to the DB interface only; the dialect
// drivers live in subpackages and register themselves at init time.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/smndtrl/nocodb/internal/errs"
	"github.com/smndtrl/nocodb/internal/meta"
)

// DB is the contract every dialect driver implements.
type DB interface {
	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the connection pool.
	Close()

	// Query executes a SQL statement that returns multiple rows.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// QueryRow executes a SQL statement that returns at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) (Row, error)

	// ListTables returns all user-defined table names visible to the source.
	ListTables(ctx context.Context) ([]string, error)
}

// Rows is an abstraction over a database result set.
// Callers must always call Close() when done, even on error.
type Rows interface {
	// Next advances to the next row.
	// Returns false when no more rows exist or on error.
	Next() bool

	// Scan copies the current row's columns into the provided destinations.
	Scan(dest ...any) error

	// Columns returns the column names of the result set.
	Columns() ([]string, error)

	// Close releases resources held by the result set.
	Close()

	// Err returns any error encountered during iteration.
	Err() error
}

// Row is an abstraction over a single database row.
type Row interface {
	Scan(dest ...any) error
}

// Config holds the connection settings for one source database.
type Config struct {
	DSN    string
	Schema string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// OpenFunc opens a connection pool for one dialect.
type OpenFunc func(ctx context.Context, cfg *Config) (DB, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[meta.DialectType]OpenFunc)
)

// Register binds a dialect to its driver. Called from driver init functions;
// callers select a driver by blank-importing its package.
func Register(d meta.DialectType, open OpenFunc) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[d] = open
}

// Open connects to the database behind a source using the driver registered
// for its dialect.
func Open(ctx context.Context, d meta.DialectType, cfg *Config) (DB, error) {
	driversMu.RLock()
	open, ok := drivers[d]
	driversMu.RUnlock()
	if !ok {
		return nil, errs.Newf(errs.ErrKindUnsupported, "no driver registered for dialect %q", d)
	}
	return open(ctx, cfg)
}
