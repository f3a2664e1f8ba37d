package chat

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/wechatgpt/internal/core"
	"github.com/sandevgo/wechatgpt/pkg/log"
)

// Coordinator races reply generation against a deadline timer. Exactly one
// side determines the returned text; the losing pipeline is never
// cancelled so a slow answer is still persisted and retrievable via the
// replay token.
type Coordinator struct {
	window    *WindowBuilder
	repo      core.MessagesRepository
	completer core.Completer
	cost      CostEstimator

	wg sync.WaitGroup
}

func NewCoordinator(window *WindowBuilder, repo core.MessagesRepository, completer core.Completer, cost CostEstimator) *Coordinator {
	return &Coordinator{
		window:    window,
		repo:      repo,
		completer: completer,
		cost:      cost,
	}
}

// Respond returns the pipeline's answer if it finishes before deadline,
// otherwise a fixed "still thinking" text. Completion failures are
// absorbed into a fixed apology; nothing from this path is a transport
// error.
func (c *Coordinator) Respond(ctx context.Context, sessionID, messageID, question string, deadline time.Time) string {
	result := make(chan string, 1)

	// The pipeline outlives the synchronous response, so detach it from
	// the request's cancellation. The completion client carries its own
	// timeout.
	bg := context.WithoutCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		result <- c.generate(bg, sessionID, messageID, question)
	}()

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case text := <-result:
		return text
	case <-timer.C:
		log.FromCtx(ctx).Info().Str("session_id", sessionID).Msg("reply deadline exceeded, answering with waiting text")
		return core.ReplyStillThinking
	}
}

// Wait joins all in-flight background pipelines. Called on shutdown so
// late answers still reach the store.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) generate(ctx context.Context, sessionID, messageID, question string) string {
	logger := log.FromCtx(ctx)

	prompt, err := c.window.Build(ctx, sessionID, question)
	if err != nil {
		logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to build context window")
		return core.ReplyApology
	}

	answer, err := c.completer.Generate(ctx, prompt)
	if err != nil {
		// Rate limits and upstream failures get the same user-facing
		// treatment; no message is stored for a failed attempt.
		logger.Error().Err(err).Str("session_id", sessionID).Msg("completion failed")
		return core.ReplyApology
	}

	weight := c.cost.Weight(question, answer)
	if err := c.repo.Append(ctx, sessionID, messageID, question, answer, weight); err != nil {
		// The user still gets the answer; it just won't be replayable.
		logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to persist exchange")
	}

	logger.Debug().Str("session_id", sessionID).Str("question", question).Str("answer", answer).Msg("exchange completed")
	return answer
}
