package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sandevgo/wechatgpt/internal/core"
	"github.com/sandevgo/wechatgpt/pkg/log"
)

// EventsRepo is the inbound-event ledger backed by the events table and
// its unique index on event_id.
type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

// Record atomically inserts the event unless it was seen before. The
// conflict clause makes check and insert a single statement, so two
// concurrent redeliveries can never both observe "absent". Any storage
// failure is reported as ErrStorageUnavailable; callers must not fall
// back to treating the event as new.
func (r *EventsRepo) Record(ctx context.Context, eventID string, payload []byte) (bool, error) {
	query := `INSERT INTO events (event_id, payload, received_at) VALUES (?, ?, ?)
		ON CONFLICT(event_id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, eventID, payload, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("%w: failed to record event: %v", core.ErrStorageUnavailable, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: failed to read rows affected: %v", core.ErrStorageUnavailable, err)
	}

	if inserted == 0 {
		log.FromCtx(ctx).Debug().Str("event_id", eventID).Msg("duplicate event delivery")
		return true, nil
	}
	return false, nil
}
