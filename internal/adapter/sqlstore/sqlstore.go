// Package sqlstore implements domain.KVStore on top of database/sql. The
// sqlite and postgres adapters open the connection and run migrations, then
// hand the *sql.DB to New.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	sq "github.com/Masterminds/squirrel"
	"github.com/pressly/goose/v3"

	"mealtrack/internal/domain"
)

const table = "kv_items"

// Store is a key-value store backed by a single SQL table.
type Store struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var _ domain.KVStore = (*Store)(nil)

// New wraps db. ph must match the driver's placeholder style.
func New(db *sql.DB, ph sq.PlaceholderFormat) *Store {
	return &Store{db: db, sb: sq.StatementBuilder.PlaceholderFormat(ph)}
}

// Migrate applies the goose migrations found at the root of fsys.
func Migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// DB exposes the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := s.sb.Select("item_value").From(table).Where(sq.Eq{"item_key": key}).ToSql()
	if err != nil {
		return "", false, storageErr("build get", err)
	}
	var v string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageErr("get "+key, err)
	}
	return v, true, nil
}

// Set upserts value under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	query, args, err := s.sb.Insert(table).
		Columns("item_key", "item_value").
		Values(key, value).
		Suffix("ON CONFLICT (item_key) DO UPDATE SET item_value = excluded.item_value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return storageErr("build set", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return storageErr("set "+key, err)
	}
	return nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.MultiRemove(ctx, []string{key})
}

// MultiGet returns the values of the keys that exist.
func (s *Store) MultiGet(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	query, args, err := s.sb.Select("item_key", "item_value").From(table).Where(sq.Eq{"item_key": keys}).ToSql()
	if err != nil {
		return nil, storageErr("build multiget", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("multiget", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, storageErr("multiget scan", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("multiget rows", err)
	}
	return out, nil
}

// MultiRemove deletes all given keys in one statement.
func (s *Store) MultiRemove(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := s.sb.Delete(table).Where(sq.Eq{"item_key": keys}).ToSql()
	if err != nil {
		return storageErr("build remove", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return storageErr("remove", err)
	}
	return nil
}

// Clear removes every key.
func (s *Store) Clear(ctx context.Context) error {
	query, args, err := s.sb.Delete(table).ToSql()
	if err != nil {
		return storageErr("build clear", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return storageErr("clear", err)
	}
	return nil
}

// Keys lists all keys in sorted order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	query, args, err := s.sb.Select("item_key").From(table).OrderBy("item_key").ToSql()
	if err != nil {
		return nil, storageErr("build keys", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("keys", err)
	}
	defer rows.Close() //nolint:errcheck

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, storageErr("keys scan", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("keys rows", err)
	}
	return keys, nil
}
