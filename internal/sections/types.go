// Package sections implements the C9 section generators: one LLM
// invocation per typed journal section, sharing a common prompt-asset and
// schema-validation idiom grounded on internal/llm (itself grounded on the
// teacher's internal/compact.HaikuClient and
// internal/extractor/ollama.go's strict-JSON-then-validate pattern).
package sections

import (
	"github.com/untoldecay/commitjournal/internal/chatmodel"
	"github.com/untoldecay/commitjournal/internal/gitcontext"
)

// JournalContext is the read-only input every generator receives. No
// generator may re-enter the data pipeline (spec §4.8) — everything a
// generator needs is already assembled here by the orchestrator.
type JournalContext struct {
	ChatHistory   []chatmodel.Message
	GitContext    gitcontext.GitContext
	PreviousEntry string
}

// SectionResult is a tagged section record. Name identifies it for
// rendering (internal/journal's fixed section order); Empty reports
// whether the section has no content, so the renderer still emits the
// section header with empty content rather than omitting it.
type SectionResult interface {
	Name() string
	Empty() bool
}

// SummarySection is a one-paragraph narrative summary of the commit.
type SummarySection struct {
	Summary string `json:"summary"`
}

func (s SummarySection) Name() string { return "Summary" }
func (s SummarySection) Empty() bool  { return s.Summary == "" }

// SynopsisSection is a technical description of what changed and how.
type SynopsisSection struct {
	Synopsis string `json:"synopsis"`
}

func (s SynopsisSection) Name() string { return "Technical Synopsis" }
func (s SynopsisSection) Empty() bool  { return s.Synopsis == "" }

// AccomplishmentsSection lists discrete things that got done.
type AccomplishmentsSection struct {
	Accomplishments []string `json:"accomplishments"`
}

func (s AccomplishmentsSection) Name() string { return "Accomplishments" }
func (s AccomplishmentsSection) Empty() bool  { return len(s.Accomplishments) == 0 }

// FrustrationsSection lists friction or dead ends the developer hit.
type FrustrationsSection struct {
	Frustrations []string `json:"frustrations"`
}

func (s FrustrationsSection) Name() string { return "Frustrations" }
func (s FrustrationsSection) Empty() bool  { return len(s.Frustrations) == 0 }

// ToneMoodSection captures the developer's expressed tone, grounded only
// in language actually present in the transcript — never inferred.
type ToneMoodSection struct {
	Mood       string `json:"mood"`
	Indicators string `json:"indicators"`
}

func (s ToneMoodSection) Name() string { return "Tone/Mood" }
func (s ToneMoodSection) Empty() bool  { return s.Mood == "" && s.Indicators == "" }

// DiscussionNote is one verbatim quote with unambiguous attribution, or a
// free-form string when no single speaker turn captures the point.
type DiscussionNote struct {
	Speaker string `json:"speaker,omitempty"`
	Quote   string `json:"quote,omitempty"`
	Note    string `json:"note,omitempty"`
}

// DiscussionNotesSection holds verbatim, technically- or
// decision-relevant excerpts — never emotional-tone commentary.
type DiscussionNotesSection struct {
	Notes []DiscussionNote `json:"notes"`
}

func (s DiscussionNotesSection) Name() string { return "Discussion Notes" }
func (s DiscussionNotesSection) Empty() bool  { return len(s.Notes) == 0 }

// CommandsSection lists shell commands from the assistant's messages,
// collected deterministically from fenced code blocks (no LLM call; see
// commands.go).
type CommandsSection struct {
	Commands []string `json:"commands"`
}

func (s CommandsSection) Name() string { return "Terminal Commands" }
func (s CommandsSection) Empty() bool  { return len(s.Commands) == 0 }

// CommitMetadataSection is a flat string-to-string map (hash, author,
// size class, file counts) assembled directly from GitContext, not an LLM
// call.
type CommitMetadataSection struct {
	Fields map[string]string `json:"fields"`
}

func (s CommitMetadataSection) Name() string { return "Commit Metadata" }
func (s CommitMetadataSection) Empty() bool  { return len(s.Fields) == 0 }
