package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type prefRepo struct {
	db *sql.DB
}

func (r *prefRepo) Get(ctx context.Context, key, def string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM prefs WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("get pref %q: %w", key, err)
	}
	return v, nil
}

func (r *prefRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO prefs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, toMillis(time.Now()))
	if err != nil {
		return fmt.Errorf("set pref %q: %w", key, err)
	}
	return nil
}
