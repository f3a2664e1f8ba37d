package core

import "time"

const (
	AppName    = "WeChatGPT"
	AppVersion = "0.1.0"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one element of the prompt sent to the completion service.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// InboundEvent is what a transport hands to the core after signature
// verification and payload decoding. The core never inspects RawPayload;
// it is stored verbatim for forensic replay.
type InboundEvent struct {
	EventID    string
	SessionID  string
	MessageID  string
	Text       string
	RawPayload []byte
}

// StoredMessage is one persisted question/answer exchange. Weight is the
// cost metric used for context-window truncation. DeletedAt marks a
// logically cleared message; the row itself is never removed.
type StoredMessage struct {
	ID        int64
	SessionID string
	MessageID string
	Question  string
	Answer    string
	Weight    int
	CreatedAt time.Time
	DeletedAt *time.Time
}
