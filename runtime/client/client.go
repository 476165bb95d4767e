// Package client provides the database handle the compiled queries are
// executed against: driver selection, connection-pool configuration, and a
// transaction entry point. The compiler itself never touches a connection.
package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/satishbabariya/queryforge/logging"
	"github.com/satishbabariya/queryforge/query/executor"
)

// Options configures the connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// Development keeps driver messages in surfaced errors.
	Development bool
	// Sink receives query/error events; nil selects the process default.
	Sink logging.Sink
}

// Client owns one connection pool and the executors built on top of it.
type Client struct {
	db       *sql.DB
	provider string
	opts     Options
}

// Open creates a client for the given provider. Only providers whose drivers
// accept the engine's SQL shape (backtick identifiers, `?` placeholders,
// LastInsertId) are supported.
func Open(provider, dsn string, opts Options) (*Client, error) {
	driverName, err := driverName(provider)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	return &Client{db: db, provider: provider, opts: opts}, nil
}

func driverName(provider string) (string, error) {
	switch provider {
	case "mysql":
		return "mysql", nil
	case "sqlite", "sqlite3":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}
}

// Connect verifies the pool can reach the database.
func (c *Client) Connect(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Disconnect closes the pool.
func (c *Client) Disconnect() error {
	return c.db.Close()
}

// DB exposes the underlying pool.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Provider returns the provider name the client was opened with.
func (c *Client) Provider() string {
	return c.provider
}

// Executor returns an executor issuing statements against the shared pool.
func (c *Client) Executor() *executor.Executor {
	return executor.New(c.db, c.opts.Sink, c.opts.Development)
}

// WithTransaction runs fn inside a transaction on a dedicated connection,
// rolling back on error and committing otherwise.
func (c *Client) WithTransaction(ctx context.Context, fn executor.TxFunc) error {
	return executor.WithTransaction(ctx, c.db, c.opts.Sink, c.opts.Development, fn)
}
