package command

import (
	"github.com/sandevgo/wechatgpt/internal/core"
)

func NewCommands(messages core.MessagesRepository) []core.Command {
	return []core.Command{
		NewClearCommand(messages),
		NewHelpCommand(),
	}
}
