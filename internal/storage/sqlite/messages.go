package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/wechatgpt/internal/core"
	"github.com/sandevgo/wechatgpt/pkg/log"
)

// MessagesRepo is the append-only per-session history with soft delete.
type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

func (r *MessagesRepo) Append(ctx context.Context, sessionID, messageID, question, answer string, weight int) error {
	query := `INSERT INTO messages (session_id, message_id, question, answer, weight, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, sessionID, messageID, question, answer, weight, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// RecentActive returns up to limit messages with deleted_at unset, newest
// first.
func (r *MessagesRepo) RecentActive(ctx context.Context, sessionID string, limit int) ([]core.StoredMessage, error) {
	query := `SELECT id, session_id, message_id, question, answer, weight, created_at
		FROM messages
		WHERE session_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []core.StoredMessage
	for rows.Next() {
		var msg core.StoredMessage
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.MessageID, &msg.Question, &msg.Answer, &msg.Weight, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Str("session_id", sessionID).Int("count", len(messages)).Msg("loaded active history")
	return messages, nil
}

// Clear soft-deletes every active message of the session in one statement.
// Clearing an already-empty session is a no-op.
func (r *MessagesRepo) Clear(ctx context.Context, sessionID string) error {
	query := `UPDATE messages SET deleted_at = ? WHERE session_id = ? AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	cleared, _ := res.RowsAffected()
	log.FromCtx(ctx).Info().Str("session_id", sessionID).Int64("cleared", cleared).Msg("session history cleared")
	return nil
}

// FindByMessageID returns the newest active message recorded for the
// given platform message id, or nil when none exists yet. Used to recover
// an answer on redelivery of an event whose first processing was slow.
func (r *MessagesRepo) FindByMessageID(ctx context.Context, messageID string) (*core.StoredMessage, error) {
	query := `SELECT id, session_id, message_id, question, answer, weight, created_at
		FROM messages
		WHERE message_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	var msg core.StoredMessage
	err := r.db.QueryRowContext(ctx, query, messageID).
		Scan(&msg.ID, &msg.SessionID, &msg.MessageID, &msg.Question, &msg.Answer, &msg.Weight, &msg.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find message: %w", err)
	}
	return &msg, nil
}
