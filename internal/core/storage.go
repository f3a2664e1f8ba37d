package core

import "context"

// EventsRepository is the inbound-event ledger. Record is an atomic
// check-and-insert keyed by eventID: it returns duplicate=true when the
// event was already recorded and must not trigger side effects again.
type EventsRepository interface {
	Record(ctx context.Context, eventID string, payload []byte) (duplicate bool, err error)
}

// MessagesRepository is the per-session conversation history.
type MessagesRepository interface {
	Append(ctx context.Context, sessionID, messageID, question, answer string, weight int) error
	RecentActive(ctx context.Context, sessionID string, limit int) ([]StoredMessage, error)
	Clear(ctx context.Context, sessionID string) error
	FindByMessageID(ctx context.Context, messageID string) (*StoredMessage, error)
}
