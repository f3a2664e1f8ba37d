package core

import "context"

// CmdRouter inspects trimmed inbound text and handles session-scoped
// commands before the completion pipeline is ever consulted.
type CmdRouter interface {
	Execute(ctx context.Context, sessionID, input string) (string, bool)
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}
