package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandevgo/wechatgpt/internal/core"
)

type stubMessages struct {
	msgs      []core.StoredMessage
	cleared   []string
	clearErr  error
	recentErr error
}

func (s *stubMessages) Append(ctx context.Context, sessionID, messageID, question, answer string, weight int) error {
	return nil
}

func (s *stubMessages) RecentActive(ctx context.Context, sessionID string, limit int) ([]core.StoredMessage, error) {
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	var out []core.StoredMessage
	for _, m := range s.msgs {
		if m.SessionID == sessionID && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMessages) Clear(ctx context.Context, sessionID string) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.cleared = append(s.cleared, sessionID)
	return nil
}

func (s *stubMessages) FindByMessageID(ctx context.Context, messageID string) (*core.StoredMessage, error) {
	return nil, nil
}

func newTestRouter(repo core.MessagesRepository) *Router {
	return New(repo, NewCommands(repo))
}

func TestRouter_PlainTextNotHandled(t *testing.T) {
	t.Parallel()
	r := newTestRouter(&stubMessages{})

	reply, handled := r.Execute(context.Background(), "u1", "what is the weather")
	if handled {
		t.Fatalf("plain text must fall through, got %q", reply)
	}
}

func TestRouter_Clear(t *testing.T) {
	t.Parallel()
	repo := &stubMessages{}
	r := newTestRouter(repo)

	reply, handled := r.Execute(context.Background(), "u1", "/clear")
	if !handled {
		t.Fatal("expected /clear to be handled")
	}
	if reply != core.ReplyCleared {
		t.Errorf("reply = %q, want %q", reply, core.ReplyCleared)
	}
	if len(repo.cleared) != 1 || repo.cleared[0] != "u1" {
		t.Errorf("expected session u1 cleared, got %v", repo.cleared)
	}
}

func TestRouter_Help(t *testing.T) {
	t.Parallel()
	r := newTestRouter(&stubMessages{})

	reply, handled := r.Execute(context.Background(), "u1", "/help")
	if !handled || reply != core.ReplyHelp {
		t.Fatalf("handled=%v reply=%q", handled, reply)
	}
}

func TestRouter_UnknownCommandFallsBackToHelp(t *testing.T) {
	t.Parallel()
	r := newTestRouter(&stubMessages{})

	reply, handled := r.Execute(context.Background(), "u1", "/frobnicate now")
	if !handled {
		t.Fatal("unrecognized commands are still handled")
	}
	if reply != core.ReplyHelp {
		t.Errorf("reply = %q, want help text", reply)
	}
}

func TestRouter_ReplayEmptySession(t *testing.T) {
	t.Parallel()
	r := newTestRouter(&stubMessages{})

	reply, handled := r.Execute(context.Background(), "u1", core.ReplayToken)
	if !handled {
		t.Fatal("expected replay token to be handled")
	}
	if reply != core.ReplyNothingToReplay {
		t.Errorf("reply = %q, want %q", reply, core.ReplyNothingToReplay)
	}
}

func TestRouter_ReplayLastExchange(t *testing.T) {
	t.Parallel()
	repo := &stubMessages{msgs: []core.StoredMessage{
		{SessionID: "u1", Question: "hello", Answer: "hi there", CreatedAt: time.Now()},
	}}
	r := newTestRouter(repo)

	reply, handled := r.Execute(context.Background(), "u1", core.ReplayToken)
	if !handled {
		t.Fatal("expected replay token to be handled")
	}
	want := "hello" + core.ReplaySeparator + "hi there"
	if reply != want {
		t.Errorf("reply = %q, want %q", reply, want)
	}
}

func TestRouter_CommandErrorAbsorbed(t *testing.T) {
	t.Parallel()
	repo := &stubMessages{clearErr: errors.New("db down")}
	r := newTestRouter(repo)

	reply, handled := r.Execute(context.Background(), "u1", "/clear")
	if !handled {
		t.Fatal("expected /clear to be handled")
	}
	if reply != core.ReplyApology {
		t.Errorf("command failures must yield the fixed apology, got %q", reply)
	}
}
