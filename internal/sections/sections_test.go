package sections

import (
	"context"
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

func TestGenerateSummary(t *testing.T) {
	jc := JournalContext{ChatHistory: []chatmodel.Message{{BubbleID: "b1", ComposerID: "c1", Role: chatmodel.RoleUser, Text: "fix the bug"}}}
	out := GenerateSummary(context.Background(), stubCompleter{resp: `{"summary": "Fixed a bug in the parser."}`}, jc)
	if out.Summary != "Fixed a bug in the parser." {
		t.Errorf("got %q", out.Summary)
	}
	if out.Empty() {
		t.Error("expected non-empty")
	}
}

func TestGenerateSummaryFallsBackOnInvalidJSON(t *testing.T) {
	out := GenerateSummary(context.Background(), stubCompleter{resp: "garbage"}, JournalContext{})
	if !out.Empty() {
		t.Errorf("expected empty default, got %+v", out)
	}
}

func TestGenerateAccomplishmentsFallsBackOnError(t *testing.T) {
	out := GenerateAccomplishments(context.Background(), stubCompleter{err: context.DeadlineExceeded}, JournalContext{})
	if !out.Empty() {
		t.Errorf("expected empty default, got %+v", out)
	}
}

func TestGenerateDiscussionParsesNotes(t *testing.T) {
	resp := `{"notes": [{"speaker": "user", "quote": "let's use a worker pool"}]}`
	out := GenerateDiscussion(context.Background(), stubCompleter{resp: resp}, JournalContext{})
	if len(out.Notes) != 1 || out.Notes[0].Quote != "let's use a worker pool" {
		t.Errorf("got %+v", out.Notes)
	}
}

func TestGenerateCommitMetadata(t *testing.T) {
	jc := JournalContext{GitContext: gitcontext.GitContext{
		CommitHash: "abc123",
		Author:     "dev",
		SizeClass:  gitcontext.SizeSmall,
		FileStats:  gitcontext.FileStats{Added: 1, Modified: 2},
	}}
	out := GenerateCommitMetadata(jc)
	if out.Fields["commit"] != "abc123" || out.Fields["added"] != "1" || out.Fields["modified"] != "2" {
		t.Errorf("got %+v", out.Fields)
	}
	if _, ok := out.Fields["merge"]; ok {
		t.Error("did not expect merge field for non-merge commit")
	}
}

func TestGenerateCommandsExtractsFencedShellBlocks(t *testing.T) {
	jc := JournalContext{ChatHistory: []chatmodel.Message{
		{BubbleID: "b1", ComposerID: "c1", Role: chatmodel.RoleUser, Text: "how do I list files?"},
		{BubbleID: "b2", ComposerID: "c1", Role: chatmodel.RoleAssistant, Text: "Run this:\n```bash\nls -la\ngit status\n```"},
	}}
	out := GenerateCommands(jc)
	if len(out.Commands) != 2 || out.Commands[0] != "ls -la" || out.Commands[1] != "git status" {
		t.Errorf("got %+v", out.Commands)
	}
}

func TestGenerateCommandsIgnoresUserBlocks(t *testing.T) {
	jc := JournalContext{ChatHistory: []chatmodel.Message{
		{BubbleID: "b1", ComposerID: "c1", Role: chatmodel.RoleUser, Text: "```bash\nrm -rf /\n```"},
	}}
	out := GenerateCommands(jc)
	if len(out.Commands) != 0 {
		t.Errorf("expected no commands from a user-authored block, got %+v", out.Commands)
	}
}
