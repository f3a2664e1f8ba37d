package chat

import (
	"context"
	"time"

	"github.com/sandevgo/wechatgpt/internal/core"
)

// WindowConfig bounds the context window sent to the completion service.
type WindowConfig struct {
	// CostBudget caps the cumulative weight of included history.
	CostBudget int
	// MaxGap caps the idle time between two consecutive included
	// exchanges; a longer gap cuts off everything older.
	MaxGap time.Duration
	// MaxCount caps how many history rows are fetched at all.
	MaxCount int
}

// WindowBuilder turns stored history plus a new question into the ordered
// prompt for the completion service. Build has no side effects.
type WindowBuilder struct {
	repo core.MessagesRepository
	cfg  WindowConfig
	now  func() time.Time
}

func NewWindowBuilder(repo core.MessagesRepository, cfg WindowConfig) *WindowBuilder {
	return &WindowBuilder{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

// Build walks the session history newest to oldest, stopping at the first
// exchange that would be reached past an exhausted cost budget or across
// an idle gap longer than MaxGap. Accepted exchanges end up oldest first,
// followed by the new question as the final user turn. An empty or fully
// stale history yields just the question.
func (b *WindowBuilder) Build(ctx context.Context, sessionID, question string) ([]core.ChatMessage, error) {
	history, err := b.repo.RecentActive(ctx, sessionID, b.cfg.MaxCount)
	if err != nil {
		return nil, err
	}

	window := make([]core.ChatMessage, 0, 2*len(history)+1)
	total := 0
	// The gap is measured against the previously accepted exchange,
	// starting from now for the newest candidate.
	last := b.now()

	for _, msg := range history {
		if total > b.cfg.CostBudget {
			break
		}
		if last.Sub(msg.CreatedAt) > b.cfg.MaxGap {
			break
		}

		pair := []core.ChatMessage{
			{Role: core.RoleUser, Content: msg.Question},
			{Role: core.RoleAssistant, Content: msg.Answer},
		}
		window = append(pair, window...)

		total += msg.Weight
		last = msg.CreatedAt
	}

	return append(window, core.ChatMessage{Role: core.RoleUser, Content: question}), nil
}
