package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type attemptRepo struct {
	db *sql.DB
}

func (r *attemptRepo) Save(ctx context.Context, a *Attempt) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	answers := string(a.Answers)
	if answers == "" {
		answers = "[]"
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attempts (id, user_id, lang, score, total, percentage, elapsed_ms, answers, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Lang, a.Score, a.Total, a.Percentage,
		a.Elapsed.Milliseconds(), answers, string(a.Result), toMillis(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	q := `SELECT id, user_id, lang, score, total, percentage, elapsed_ms, answers, result, created_at
	      FROM attempts ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a         Attempt
			elapsedMs int64
			createdMs int64
			answers   string
			result    string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Lang, &a.Score, &a.Total, &a.Percentage,
			&elapsedMs, &answers, &result, &createdMs); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		a.CreatedAt = fromMillis(createdMs)
		a.Answers = []byte(answers)
		if result != "" {
			a.Result = []byte(result)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
