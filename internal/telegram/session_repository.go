package telegram

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// Session is the per-chat conversation state: the last delivered plan and the
// ingredient list carried over from an import.
type Session struct {
	ChatID    int64
	State     string
	Data      SessionData
	UpdatedAt time.Time
}

// SessionData holds the structured payload stored in the session's data field.
type SessionData struct {
	LastPlanID          int64    `json:"last_plan_id,omitempty"`
	ImportedIngredients []string `json:"imported_ingredients,omitempty"`
}

// SessionRepository persists chat sessions to SQLite.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a SessionRepository over an open connection.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Put inserts or replaces the session for a chat.
func (sr *SessionRepository) Put(ctx context.Context, s Session) error {
	payload, err := json.Marshal(s.Data)
	if err != nil {
		return err
	}
	_, err = sr.db.ExecContext(ctx,
		`INSERT INTO sessions (chat_id, state, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (chat_id) DO UPDATE SET state = excluded.state, data = excluded.data, updated_at = excluded.updated_at`,
		s.ChatID, s.State, payload, time.Now().UTC(),
	)
	return err
}

// Get retrieves the session for a chat. A chat without a session comes back
// as (nil, nil).
func (sr *SessionRepository) Get(ctx context.Context, chatID int64) (*Session, error) {
	row := sr.db.QueryRowContext(ctx,
		`SELECT chat_id, state, data, updated_at FROM sessions WHERE chat_id = ?`, chatID)

	var s Session
	var payload []byte
	if err := row.Scan(&s.ChatID, &s.State, &payload, &s.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(payload, &s.Data); err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes a chat's session.
func (sr *SessionRepository) Delete(ctx context.Context, chatID int64) error {
	_, err := sr.db.ExecContext(ctx, `DELETE FROM sessions WHERE chat_id = ?`, chatID)
	return err
}
