// Package boundary implements the AI boundary filter (C6): given a
// time-windowed message stream, find the index where work on the current
// commit begins, with a conservative fallback when the model is unsure.
//
// Grounded on internal/llm's strict JSON-schema-then-validate pattern
// (itself from the teacher's internal/extractor/ollama.go), composed with
// internal/compact.HaikuClient's call shape via llm.Client.Complete.
package boundary

import (
	"context"
	"strings"

	"github.com/untoldecay/commitjournal/internal/chatmodel"
	"github.com/untoldecay/commitjournal/internal/gitcontext"
	"github.com/untoldecay/commitjournal/internal/llm"
	"github.com/untoldecay/commitjournal/internal/telemetry"
)

// DefaultMinConfidence is the threshold at or above which the boundary is
// trusted outright (spec §6's boundary.min_confidence default).
const DefaultMinConfidence = 8

// AmbiguousBelow is the floor below DefaultMinConfidence that is still
// trusted, but recorded as ambiguous telemetry.
const AmbiguousBelow = 5

// response is the strict schema the model must return.
type response struct {
	BubbleID   llm.FlexibleString `json:"bubbleId"`
	Confidence int                `json:"confidence"`
}

// completer is the narrow surface Filter needs from llm.Client, stubbable
// in tests (matching the teacher's issueStore/summarizer consumer-interface
// pattern in internal/compact/compactor.go).
type completer interface {
	Complete(ctx context.Context, component, prompt string) (string, error)
}

// Filter wraps an llm.Client with the boundary-detection prompt and
// confidence-threshold trust logic.
type Filter struct {
	client        completer
	minConfidence int
}

// New constructs a Filter. minConfidence <= 0 uses DefaultMinConfidence.
func New(client completer, minConfidence int) *Filter {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &Filter{client: client, minConfidence: minConfidence}
}

// FilterForCommit trims messages to the subset belonging to the current
// commit's work. It never cuts from the end of messages — the caller's
// time window already bounds that — and falls back to returning messages
// unchanged whenever the model's answer cannot be trusted.
func (f *Filter) FilterForCommit(ctx context.Context, messages []chatmodel.Message, gc gitcontext.GitContext, previousEntry string) ([]chatmodel.Message, error) {
	if len(messages) == 0 {
		return messages, nil
	}

	var result []chatmodel.Message
	err := telemetry.RecordOperation(ctx, "boundary", "filter_for_commit", func(ctx context.Context, span telemetry.Span) error {
		result = f.filter(ctx, messages, gc, previousEntry, span)
		return nil
	})
	return result, err
}

func (f *Filter) filter(ctx context.Context, messages []chatmodel.Message, gc gitcontext.GitContext, previousEntry string, span telemetry.Span) []chatmodel.Message {
	span.SetAttributes(telemetry.Attr("boundary.messages_in", len(messages)))

	prompt, err := renderPrompt("boundary", messages, gc, previousEntry)
	if err != nil {
		return fallback(messages, span)
	}

	raw, err := f.client.Complete(ctx, "boundary", prompt)
	if err != nil {
		return fallback(messages, span)
	}

	var resp response
	if err := llm.ParseJSON(raw, &resp); err != nil {
		return fallback(messages, span)
	}

	bubbleID := strings.TrimSpace(resp.BubbleID.String())
	if bubbleID == "" {
		return fallback(messages, span)
	}

	span.SetAttributes(telemetry.Attr("boundary.confidence", resp.Confidence))

	if resp.Confidence < AmbiguousBelow {
		return fallback(messages, span)
	}

	idx := indexOfBubble(messages, bubbleID)
	if idx < 0 {
		return fallback(messages, span)
	}

	if resp.Confidence < f.minConfidence {
		span.SetAttributes(telemetry.Attr("boundary.ambiguous", true))
	}

	trimmed := messages[idx:]
	span.SetAttributes(
		telemetry.Attr("boundary.messages_out", len(trimmed)),
		telemetry.Attr("boundary.reduction_pct", reductionPct(len(messages), len(trimmed))),
		telemetry.Attr("boundary.fallback_used", false),
	)
	return trimmed
}

func fallback(messages []chatmodel.Message, span telemetry.Span) []chatmodel.Message {
	span.SetAttributes(
		telemetry.Attr("boundary.messages_out", len(messages)),
		telemetry.Attr("boundary.reduction_pct", 0.0),
		telemetry.Attr("boundary.fallback_used", true),
	)
	return messages
}

func indexOfBubble(messages []chatmodel.Message, bubbleID string) int {
	for i, m := range messages {
		if m.BubbleID == bubbleID {
			return i
		}
	}
	return -1
}

func reductionPct(in, out int) float64 {
	if in == 0 {
		return 0
	}
	return float64(in-out) / float64(in) * 100
}
