package command

import (
	"context"
	"strings"

	"github.com/sandevgo/wechatgpt/internal/core"
	"github.com/sandevgo/wechatgpt/pkg/log"
)

// Router resolves the replay token and slash-commands. It runs strictly
// before any completion call: commands short-circuit cost and may mutate
// stored state.
type Router struct {
	commands map[string]core.Command
	messages core.MessagesRepository
}

func New(messages core.MessagesRepository, commands []core.Command) *Router {
	r := &Router{
		commands: make(map[string]core.Command),
		messages: messages,
	}
	for _, cmd := range commands {
		r.commands[cmd.Name()] = cmd
	}
	return r
}

// Execute returns (reply, true) when input is a command, (,"", false)
// otherwise. Unrecognized slash-commands are treated as a request for
// help, not an error.
func (r *Router) Execute(ctx context.Context, sessionID, input string) (string, bool) {
	if input == core.ReplayToken {
		return r.replay(ctx, sessionID), true
	}

	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	name := strings.TrimPrefix(parts[0], "/")
	args := parts[1:]

	cmd, ok := r.commands[name]
	if !ok {
		return core.ReplyHelp, true
	}

	result, err := cmd.Execute(ctx, sessionID, args)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("command", name).Str("session_id", sessionID).Msg("command failed")
		return core.ReplyApology, true
	}
	return result, true
}

// replay re-surfaces the most recent exchange without touching the
// completion service or the store.
func (r *Router) replay(ctx context.Context, sessionID string) string {
	msgs, err := r.messages.RecentActive(ctx, sessionID, 1)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("session_id", sessionID).Msg("failed to load last exchange")
		return core.ReplyApology
	}
	if len(msgs) == 0 {
		return core.ReplyNothingToReplay
	}
	return msgs[0].Question + core.ReplaySeparator + msgs[0].Answer
}
