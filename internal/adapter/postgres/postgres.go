// Package postgres opens a PostgreSQL-backed key-value store.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"mealtrack/internal/adapter/sqlstore"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(ctx context.Context, connStr string, opts Options) (*sqlstore.Store, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(opts.MaxOpenConns)
	s.SetMaxIdleConns(opts.MaxIdleConns)
	s.SetConnMaxLifetime(opts.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.PingContext(pingCtx); err != nil {
		_ = s.Close()
		return nil, err
	}

	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	if err := sqlstore.Migrate(ctx, s, goose.DialectPostgres, fsys); err != nil {
		_ = s.Close()
		return nil, err
	}
	return sqlstore.New(s, sq.Dollar), nil
}
