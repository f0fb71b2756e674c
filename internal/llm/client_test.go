package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type stubCompleter struct {
	resp string
	err  error
}

func (s stubCompleter) Complete(ctx context.Context, component, prompt string) (string, error) {
	return s.resp, s.err
}

func TestKeyGuardLatchesOnInvalidKey(t *testing.T) {
	g := NewKeyGuard(stubCompleter{err: fmt.Errorf("%w: revoked", ErrInvalidKey)})
	if g.Invalid() {
		t.Fatal("Invalid() true before any call")
	}
	if _, err := g.Complete(context.Background(), "test", "prompt"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("Complete error = %v, want ErrInvalidKey", err)
	}
	if !g.Invalid() {
		t.Error("Invalid() false after an ErrInvalidKey call")
	}
}

func TestKeyGuardIgnoresOrdinaryFailures(t *testing.T) {
	g := NewKeyGuard(stubCompleter{err: ErrProviderFailure})
	if _, err := g.Complete(context.Background(), "test", "prompt"); !errors.Is(err, ErrProviderFailure) {
		t.Fatalf("Complete error = %v, want ErrProviderFailure", err)
	}
	if g.Invalid() {
		t.Error("Invalid() true after an ordinary provider failure")
	}
}

func TestKeyGuardLatchSurvivesSubsequentSuccess(t *testing.T) {
	g := NewKeyGuard(stubCompleter{err: fmt.Errorf("%w: revoked", ErrInvalidKey)})
	_, _ = g.Complete(context.Background(), "test", "prompt")

	g.inner = stubCompleter{resp: "ok"}
	resp, err := g.Complete(context.Background(), "test", "prompt")
	if err != nil || resp != "ok" {
		t.Fatalf("Complete = (%q, %v), want (ok, nil)", resp, err)
	}
	if !g.Invalid() {
		t.Error("Invalid() should stay latched once an invalid key is seen")
	}
}
