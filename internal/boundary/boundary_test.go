package boundary

import (
	"context"
	"fmt"
	"testing"

	"github.com/untoldecay/commitjournal/internal/chatmodel"
	"github.com/untoldecay/commitjournal/internal/gitcontext"
)

type stubCompleter struct {
	resp string
	err  error
}

func (s stubCompleter) Complete(ctx context.Context, component, prompt string) (string, error) {
	return s.resp, s.err
}

func buildMessages(n int) []chatmodel.Message {
	out := make([]chatmodel.Message, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, chatmodel.Message{
			BubbleID:    fmt.Sprintf("bbl-%d", i),
			ComposerID:  "c1",
			Role:        chatmodel.RoleUser,
			Text:        fmt.Sprintf("message %d", i),
			TimestampMS: int64(i),
		})
	}
	return out
}

func TestFilterForCommitTrustsHighConfidence(t *testing.T) {
	messages := buildMessages(50)
	f := New(stubCompleter{resp: `{"bubbleId": "bbl-17", "confidence": 9}`}, 0)

	out, err := f.FilterForCommit(context.Background(), messages, gitcontext.GitContext{}, "")
	if err != nil {
		t.Fatalf("FilterForCommit: %v", err)
	}
	if len(out) != len(messages)-17 {
		t.Fatalf("got %d messages, want %d", len(out), len(messages)-17)
	}
	if out[0].BubbleID != "bbl-17" {
		t.Errorf("first message = %s, want bbl-17", out[0].BubbleID)
	}
}

func TestFilterForCommitFallsBackOnLowConfidence(t *testing.T) {
	messages := buildMessages(50)
	f := New(stubCompleter{resp: `{"bubbleId": "bbl-17", "confidence": 4}`}, 0)

	out, err := f.FilterForCommit(context.Background(), messages, gitcontext.GitContext{}, "")
	if err != nil {
		t.Fatalf("FilterForCommit: %v", err)
	}
	if len(out) != len(messages) {
		t.Fatalf("got %d messages, want all %d kept on fallback", len(out), len(messages))
	}
}

func TestFilterForCommitFallsBackOnInvalidJSON(t *testing.T) {
	messages := buildMessages(5)
	f := New(stubCompleter{resp: "not json"}, 0)

	out, err := f.FilterForCommit(context.Background(), messages, gitcontext.GitContext{}, "")
	if err != nil {
		t.Fatalf("FilterForCommit: %v", err)
	}
	if len(out) != len(messages) {
		t.Fatalf("got %d messages, want all %d kept on invalid response", len(out), len(messages))
	}
}

func TestFilterForCommitFallsBackOnUnknownBubbleID(t *testing.T) {
	messages := buildMessages(5)
	f := New(stubCompleter{resp: `{"bubbleId": "does-not-exist", "confidence": 10}`}, 0)

	out, err := f.FilterForCommit(context.Background(), messages, gitcontext.GitContext{}, "")
	if err != nil {
		t.Fatalf("FilterForCommit: %v", err)
	}
	if len(out) != len(messages) {
		t.Fatalf("got %d messages, want all %d kept when bubbleId is not found", len(out), len(messages))
	}
}

func TestFilterForCommitEmptyInputShortCircuits(t *testing.T) {
	f := New(stubCompleter{resp: `{"bubbleId": "bbl-0", "confidence": 10}`}, 0)
	out, err := f.FilterForCommit(context.Background(), nil, gitcontext.GitContext{}, "")
	if err != nil {
		t.Fatalf("FilterForCommit: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d messages, want 0", len(out))
	}
}
