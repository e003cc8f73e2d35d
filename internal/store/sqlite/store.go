// Package sqlite provides a SQLite-backed progress KV, one namespace per
// player profile.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"wild-companion/internal/platform/storage/sqlitemigrate"
	"wild-companion/internal/store/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// DB is an open progress database.
type DB struct {
	sqlDB *sql.DB
}

// Open opens a SQLite progress database and applies embedded migrations.
func Open(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &DB{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (d *DB) Close() error {
	if d == nil || d.sqlDB == nil {
		return nil
	}
	return d.sqlDB.Close()
}

// Profile returns the KV namespace of one player profile.
func (d *DB) Profile(name string) *KV {
	return &KV{db: d.sqlDB, profile: name}
}

// Profiles lists every profile with stored progress.
func (d *DB) Profiles(ctx context.Context) ([]string, error) {
	rows, err := d.sqlDB.QueryContext(ctx, `SELECT DISTINCT profile FROM progress ORDER BY profile`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// KV is one profile's key-value namespace.
type KV struct {
	db      *sql.DB
	profile string
}

// Get returns the stored value of key.
func (k *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := k.db.QueryRowContext(ctx,
		`SELECT value FROM progress WHERE profile = ? AND key = ?`,
		k.profile, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// SetMany writes all values in one transaction.
func (k *KV) SetMany(ctx context.Context, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := k.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	now := time.Now().UTC().UnixMilli()
	for key, value := range values {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO progress (profile, key, value, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT (profile, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			k.profile, key, value, now,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Delete removes keys from the profile.
func (k *KV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	tx, err := k.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM progress WHERE profile = ? AND key = ?`, k.profile, key,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
