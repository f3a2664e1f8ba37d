package chat

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/wechatgpt/internal/core"
)

// fakeMessages is an in-memory MessagesRepository for tests.
type fakeMessages struct {
	mu   sync.Mutex
	msgs []core.StoredMessage
	next int64

	appendErr error
	recentErr error
}

func (f *fakeMessages) Append(ctx context.Context, sessionID, messageID, question, answer string, weight int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.next++
	f.msgs = append(f.msgs, core.StoredMessage{
		ID:        f.next,
		SessionID: sessionID,
		MessageID: messageID,
		Question:  question,
		Answer:    answer,
		Weight:    weight,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (f *fakeMessages) RecentActive(ctx context.Context, sessionID string, limit int) ([]core.StoredMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	var out []core.StoredMessage
	for i := len(f.msgs) - 1; i >= 0 && len(out) < limit; i-- {
		m := f.msgs[i]
		if m.SessionID == sessionID && m.DeletedAt == nil {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessages) Clear(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	for i := range f.msgs {
		if f.msgs[i].SessionID == sessionID && f.msgs[i].DeletedAt == nil {
			f.msgs[i].DeletedAt = &now
		}
	}
	return nil
}

func (f *fakeMessages) FindByMessageID(ctx context.Context, messageID string) (*core.StoredMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.msgs) - 1; i >= 0; i-- {
		m := f.msgs[i]
		if m.MessageID == messageID && m.DeletedAt == nil {
			return &m, nil
		}
	}
	return nil, nil
}

// seed inserts a message with an explicit timestamp, bypassing Append.
func (f *fakeMessages) seed(sessionID, question, answer string, weight int, createdAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.msgs = append(f.msgs, core.StoredMessage{
		ID:        f.next,
		SessionID: sessionID,
		Question:  question,
		Answer:    answer,
		Weight:    weight,
		CreatedAt: createdAt,
	})
}

// fakeCompleter returns a canned answer or error, optionally after a delay.
type fakeCompleter struct {
	answer string
	err    error
	delay  time.Duration

	mu      sync.Mutex
	prompts [][]core.ChatMessage
}

func (f *fakeCompleter) Generate(ctx context.Context, prompt []core.ChatMessage) (string, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}
