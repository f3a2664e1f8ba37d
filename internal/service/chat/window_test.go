package chat

import (
	"context"
	"testing"
	"time"

	"github.com/sandevgo/wechatgpt/internal/core"
)

func newTestBuilder(repo core.MessagesRepository, cfg WindowConfig, now time.Time) *WindowBuilder {
	b := NewWindowBuilder(repo, cfg)
	b.now = func() time.Time { return now }
	return b
}

func TestWindowBuilder_EmptyHistory(t *testing.T) {
	t.Parallel()
	repo := &fakeMessages{}
	b := newTestBuilder(repo, WindowConfig{CostBudget: 100, MaxGap: time.Hour, MaxCount: 50}, time.Now())

	window, err := b.Build(context.Background(), "u1", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(window) != 1 {
		t.Fatalf("expected single-element window, got %d", len(window))
	}
	if window[0].Role != core.RoleUser || window[0].Content != "hello" {
		t.Errorf("unexpected window element: %+v", window[0])
	}
}

func TestWindowBuilder_OrderingOldestFirst(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	repo := &fakeMessages{}
	repo.seed("u1", "q1", "a1", 4, now.Add(-2*time.Minute))
	repo.seed("u1", "q2", "a2", 4, now.Add(-time.Minute))

	b := newTestBuilder(repo, WindowConfig{CostBudget: 100, MaxGap: time.Hour, MaxCount: 50}, now)
	window, err := b.Build(context.Background(), "u1", "q3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []core.ChatMessage{
		{Role: core.RoleUser, Content: "q1"},
		{Role: core.RoleAssistant, Content: "a1"},
		{Role: core.RoleUser, Content: "q2"},
		{Role: core.RoleAssistant, Content: "a2"},
		{Role: core.RoleUser, Content: "q3"},
	}
	if len(window) != len(want) {
		t.Fatalf("expected %d elements, got %d: %+v", len(want), len(window), window)
	}
	for i := range want {
		if window[i] != want[i] {
			t.Errorf("element %d: got %+v, want %+v", i, window[i], want[i])
		}
	}
}

func TestWindowBuilder_CostBudgetCutoff(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	repo := &fakeMessages{}
	// Oldest to newest, each weighing 10.
	repo.seed("u1", "old", "a", 10, now.Add(-3*time.Minute))
	repo.seed("u1", "mid", "a", 10, now.Add(-2*time.Minute))
	repo.seed("u1", "new", "a", 10, now.Add(-time.Minute))

	// Budget 15: the walk accepts "new" (total 10), accepts "mid"
	// (total not yet over budget), then stops before "old" (total 20 > 15).
	b := newTestBuilder(repo, WindowConfig{CostBudget: 15, MaxGap: time.Hour, MaxCount: 50}, now)
	window, err := b.Build(context.Background(), "u1", "next")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(window) != 5 {
		t.Fatalf("expected 2 pairs + question, got %d elements: %+v", len(window), window)
	}
	if window[0].Content != "mid" {
		t.Errorf("expected oldest accepted to be %q, got %q", "mid", window[0].Content)
	}
	for _, m := range window {
		if m.Content == "old" {
			t.Error("message past the budget violation must be excluded")
		}
	}
}

func TestWindowBuilder_GapCutoff(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	repo := &fakeMessages{}
	repo.seed("u1", "stale", "a", 1, now.Add(-50*time.Minute))
	repo.seed("u1", "fresh", "a", 1, now.Add(-time.Minute))

	b := newTestBuilder(repo, WindowConfig{CostBudget: 100, MaxGap: 30 * time.Minute, MaxCount: 50}, now)
	window, err := b.Build(context.Background(), "u1", "next")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 49 minutes between fresh and stale exceeds the 30 minute gap; the
	// stale exchange and everything older is discarded.
	if len(window) != 3 {
		t.Fatalf("expected 1 pair + question, got %d elements: %+v", len(window), window)
	}
	if window[0].Content != "fresh" {
		t.Errorf("expected %q first, got %q", "fresh", window[0].Content)
	}
}

func TestWindowBuilder_GapMeasuredFromPreviousAccepted(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	repo := &fakeMessages{}
	// Adjacent gaps are each under 30m even though the oldest message is
	// 45m old in wall-clock terms: all three are included.
	repo.seed("u1", "q1", "a", 1, now.Add(-45*time.Minute))
	repo.seed("u1", "q2", "a", 1, now.Add(-20*time.Minute))
	repo.seed("u1", "q3", "a", 1, now.Add(-time.Minute))

	b := newTestBuilder(repo, WindowConfig{CostBudget: 100, MaxGap: 30 * time.Minute, MaxCount: 50}, now)
	window, err := b.Build(context.Background(), "u1", "next")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(window) != 7 {
		t.Fatalf("expected all 3 pairs + question, got %d elements", len(window))
	}
}

func TestWindowBuilder_FullyStaleHistory(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	repo := &fakeMessages{}
	repo.seed("u1", "ancient", "a", 1, now.Add(-24*time.Hour))

	b := newTestBuilder(repo, WindowConfig{CostBudget: 100, MaxGap: 30 * time.Minute, MaxCount: 50}, now)
	window, err := b.Build(context.Background(), "u1", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(window) != 1 {
		t.Fatalf("expected only the new question, got %d elements", len(window))
	}
}
