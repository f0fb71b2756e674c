package orchestrator

import (
	"context"
	"testing"

	"github.com/untoldecay/commitjournal/internal/chatmodel"
	"github.com/untoldecay/commitjournal/internal/sections"
	"github.com/untoldecay/commitjournal/internal/telemetry"
)

type stubCompleter struct {
	resp string
	err  error
}

func (s stubCompleter) Complete(ctx context.Context, component, prompt string) (string, error) {
	return s.resp, s.err
}

func TestGenerateSectionsProducesOneResultPerGenerator(t *testing.T) {
	o := New(nil, nil, stubCompleter{resp: `{"summary": "did stuff", "synopsis": "did stuff", "accomplishments": ["a"], "frustrations": [], "mood": "", "indicators": "", "notes": []}`})

	jc := sections.JournalContext{
		ChatHistory: []chatmodel.Message{{BubbleID: "b1", ComposerID: "c1", Role: chatmodel.RoleAssistant, Text: "done"}},
	}

	_, span := telemetry.StartSpan(context.Background(), "test", "generate_sections")
	defer span.End()

	results := o.generateSections(context.Background(), jc, span)
	if len(results) != 8 {
		t.Fatalf("got %d results, want 8 (one per generator)", len(results))
	}
	for _, r := range results {
		if r == nil {
			t.Error("generator returned nil SectionResult")
		}
	}
}
