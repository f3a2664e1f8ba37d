package core

import "context"

// Completer is the external completion service. Implementations must carry
// their own request timeout, independent of any caller deadline.
type Completer interface {
	Generate(ctx context.Context, prompt []ChatMessage) (string, error)
}
