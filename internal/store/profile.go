package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type profileRepo struct {
	db *sql.DB
}

func (r *profileRepo) Create(ctx context.Context, p *Profile) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, name, age, goal, experience, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Name, p.Age, p.Goal, p.Experience, toMillis(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("create profile %s: %w", p.UserID, err)
	}
	return nil
}

func (r *profileRepo) Get(ctx context.Context, userID string) (*Profile, error) {
	p := Profile{UserID: userID}
	var createdMs int64
	err := r.db.QueryRowContext(ctx,
		`SELECT name, age, goal, experience, created_at FROM profiles WHERE user_id = ?`, userID).
		Scan(&p.Name, &p.Age, &p.Goal, &p.Experience, &createdMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}
	p.CreatedAt = fromMillis(createdMs)
	return &p, nil
}

type resultRepo struct {
	db *sql.DB
}

func (r *resultRepo) Put(ctx context.Context, userID string, payload json.RawMessage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO results (user_id, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		userID, string(payload), toMillis(time.Now()))
	if err != nil {
		return fmt.Errorf("put result %s: %w", userID, err)
	}
	return nil
}

func (r *resultRepo) Latest(ctx context.Context, userID string) (json.RawMessage, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM results WHERE user_id = ?`, userID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("result %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get result %s: %w", userID, err)
	}
	return json.RawMessage(payload), nil
}
