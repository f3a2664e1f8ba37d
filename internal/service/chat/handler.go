package chat

import (
	"context"
	"time"

	"github.com/sandevgo/wechatgpt/internal/core"
	"github.com/sandevgo/wechatgpt/pkg/log"
	"github.com/sandevgo/wechatgpt/pkg/retry"
)

// Handler is the inbound pipeline: deduplicate, route commands, then race
// the completion path against the reply deadline. One Handle call per
// delivered event; the stores provide all cross-event coordination.
type Handler struct {
	events      core.EventsRepository
	messages    core.MessagesRepository
	router      core.CmdRouter
	coordinator *Coordinator
	deadline    time.Duration
	retrier     *retry.Retrier
}

func NewHandler(
	events core.EventsRepository,
	messages core.MessagesRepository,
	router core.CmdRouter,
	coordinator *Coordinator,
	deadline time.Duration,
) *Handler {
	return &Handler{
		events:      events,
		messages:    messages,
		router:      router,
		coordinator: coordinator,
		deadline:    deadline,
		retrier:     retry.NewDefaultRetrier(),
	}
}

// Handle returns the reply text for one delivered event. An empty string
// means "acknowledge silently". Only a ledger storage failure is returned
// as an error, so the platform redelivers the whole event.
func (h *Handler) Handle(ctx context.Context, ev core.InboundEvent) (string, error) {
	duplicate, err := h.events.Record(ctx, ev.EventID, ev.RawPayload)
	if err != nil {
		return "", err
	}
	if duplicate {
		return h.recoverAnswer(ctx, ev), nil
	}

	if reply, handled := h.router.Execute(ctx, ev.SessionID, ev.Text); handled {
		return reply, nil
	}

	deadline := time.Now().Add(h.deadline)
	return h.coordinator.Respond(ctx, ev.SessionID, ev.MessageID, ev.Text, deadline), nil
}

// recoverAnswer serves a redelivered event whose first processing may
// still be generating: poll briefly for the stored answer, otherwise
// acknowledge silently. The first delivery's pipeline keeps running.
func (h *Handler) recoverAnswer(ctx context.Context, ev core.InboundEvent) string {
	var answer string

	err := h.retrier.Do(ctx, func() error {
		msg, err := h.messages.FindByMessageID(ctx, ev.MessageID)
		if err != nil {
			return err
		}
		if msg == nil {
			return core.ErrAnswerNotReady
		}
		answer = msg.Answer
		return nil
	})
	if err != nil {
		log.FromCtx(ctx).Debug().Err(err).Str("event_id", ev.EventID).Msg("no stored answer for redelivered event")
		return ""
	}
	return answer
}
