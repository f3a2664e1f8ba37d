package command

import (
	"context"

	"github.com/sandevgo/wechatgpt/internal/core"
)

type ClearCommand struct {
	messages core.MessagesRepository
}

func NewClearCommand(messages core.MessagesRepository) *ClearCommand {
	return &ClearCommand{messages: messages}
}

func (c *ClearCommand) Name() string {
	return "clear"
}

func (c *ClearCommand) Description() string {
	return "Forget the conversation history"
}

func (c *ClearCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	if err := c.messages.Clear(ctx, sessionID); err != nil {
		return "", err
	}
	return core.ReplyCleared, nil
}
