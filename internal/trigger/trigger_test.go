package trigger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/untoldecay/commitjournal/internal/journal"
	"github.com/untoldecay/commitjournal/internal/orchestrator"
	"github.com/untoldecay/commitjournal/internal/summary"
)

type orderRecorder struct {
	order *[]string
}

type stubEntryGenerator struct {
	orderRecorder
}

func (s stubEntryGenerator) Orchestrate(ctx context.Context, req orchestrator.Request) (journal.Entry, error) {
	*s.order = append(*s.order, "entry")
	return journal.Entry{Timestamp: "1:00 PM", CommitHash: req.CommitHash}, nil
}

type stubSummaryGenerator struct {
	orderRecorder
}

func (s stubSummaryGenerator) RunGapWalk(ctx context.Context, last, curr time.Time) []summary.Result {
	*s.order = append(*s.order, "summary")
	return nil
}

func TestRunExecutesEntryBeforeSummary(t *testing.T) {
	var order []string
	journalRoot := t.TempDir()
	hooksDir := t.TempDir()

	w := New(stubEntryGenerator{orderRecorder{&order}}, stubSummaryGenerator{orderRecorder{&order}}, journalRoot, hooksDir)

	err := w.Run(context.Background(), "/repo", "deadbeef", time.Now())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(order) != 2 || order[0] != "entry" || order[1] != "summary" {
		t.Fatalf("got call order %v, want [entry summary]", order)
	}
}

func TestHandleHookRecoversFromPanic(t *testing.T) {
	journalRoot := t.TempDir()
	hooksDir := t.TempDir()
	w := New(panickingEntryGenerator{}, stubSummaryGenerator{orderRecorder{&[]string{}}}, journalRoot, hooksDir)

	// Must not panic out of this test.
	w.HandleHook(context.Background(), "/repo", "deadbeef", time.Now())

	data, err := os.ReadFile(filepath.Join(hooksDir, logFileName))
	if err != nil {
		t.Fatalf("expected rotating log file to exist: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected a panic log entry to be written")
	}
}

type panickingEntryGenerator struct{}

func (panickingEntryGenerator) Orchestrate(ctx context.Context, req orchestrator.Request) (journal.Entry, error) {
	panic("boom")
}
