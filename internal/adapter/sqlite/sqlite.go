// Package sqlite opens an on-device key-value store in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"mealtrack/internal/adapter/sqlstore"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens (creating if needed) the database at path and runs migrations.
// Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string) (*sqlstore.Store, error) {
	s, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases alive across calls.
	s.SetMaxOpenConns(1)

	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	if err := sqlstore.Migrate(ctx, s, goose.DialectSQLite3, fsys); err != nil {
		_ = s.Close()
		return nil, err
	}
	return sqlstore.New(s, sq.Question), nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}
