package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type chatRepo struct {
	db *sql.DB
}

func (r *chatRepo) Append(ctx context.Context, e *ChatEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_messages (user_id, user_message, bot_response, source, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.UserID, e.UserMessage, e.BotResponse, e.Source, toMillis(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("append chat message: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		e.ID = id
	}
	return nil
}

func (r *chatRepo) History(ctx context.Context, userID string) ([]ChatEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_message, bot_response, source, created_at
		 FROM chat_messages WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query chat history: %w", err)
	}
	defer rows.Close()

	var out []ChatEntry
	for rows.Next() {
		e := ChatEntry{UserID: userID}
		var createdMs int64
		if err := rows.Scan(&e.ID, &e.UserMessage, &e.BotResponse, &e.Source, &createdMs); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		e.CreatedAt = fromMillis(createdMs)
		out = append(out, e)
	}
	return out, rows.Err()
}
