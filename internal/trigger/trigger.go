// Package trigger implements C13: the post-commit hook entry point that
// sequences entry generation, then due-summary generation, serializing
// concurrent invocations and logging failures without ever blocking git.
//
// Grounded on gofrs/flock (spec §9's open question on concurrent hook
// invocations, resolved here rather than left undefined) and
// gopkg.in/natefinch/lumberjack.v2 for the rotating failure log.
package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/untoldecay/commitjournal/internal/journal"
	"github.com/untoldecay/commitjournal/internal/orchestrator"
	"github.com/untoldecay/commitjournal/internal/summary"
	"github.com/untoldecay/commitjournal/internal/writer"
)

const lockFileName = "commitjournal.lock"
const logFileName = "commitjournal.log"

// entryGenerator and summaryGenerator are the narrow surfaces Worker
// needs from C10 and C12, stubbable in tests to assert the entry-then-
// summary call order (spec §8 scenario 4) without a real LLM or git repo.
type entryGenerator interface {
	Orchestrate(ctx context.Context, req orchestrator.Request) (journal.Entry, error)
}

type summaryGenerator interface {
	RunGapWalk(ctx context.Context, lastCommitDate, currentCommitDate time.Time) []summary.Result
}

// Worker sequences entry generation then summary generation for one
// commit, serialized against concurrent invocations via a file lock.
type Worker struct {
	orch        entryGenerator
	summaries   summaryGenerator
	journalRoot string
	hooksDir    string // .git/hooks, where the lock and rotating log live
	logger      *slog.Logger
}

// New constructs a Worker. hooksDir is typically <repo>/.git/hooks.
func New(orch entryGenerator, summaries summaryGenerator, journalRoot, hooksDir string) *Worker {
	lj := &lumberjack.Logger{
		Filename:   filepath.Join(hooksDir, logFileName),
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	logger := slog.New(slog.NewJSONHandler(lj, nil))
	return &Worker{orch: orch, summaries: summaries, journalRoot: journalRoot, hooksDir: hooksDir, logger: logger}
}

// Run executes the contractual entry-then-summary sequence for
// commitHash, under repoPath, at now. It always returns a real error to
// the caller — the post-commit shell wrapper (out of scope) is what
// guarantees git never sees a non-zero exit; see HandleHook for the
// log-and-swallow variant cmd/commitjournal uses in production.
func (w *Worker) Run(ctx context.Context, repoPath, commitHash string, now time.Time) error {
	lockPath := filepath.Join(w.hooksDir, lockFileName)
	fl := flock.New(lockPath)
	locked, err := fl.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("trigger: acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("trigger: another hook invocation holds the lock")
	}
	defer fl.Unlock()

	// Step 1: generate and write the entry for the just-made commit. This
	// must complete before any summary check — reversing the order races
	// against the still-being-written journal file (spec §4.12).
	entry, err := w.orch.Orchestrate(ctx, orchestrator.Request{
		RepoPath:    repoPath,
		CommitHash:  commitHash,
		JournalRoot: w.journalRoot,
	})
	if err != nil {
		return fmt.Errorf("trigger: generate entry: %w", err)
	}
	if _, err := writer.Write(w.journalRoot, now, entry); err != nil {
		return fmt.Errorf("trigger: write entry: %w", err)
	}

	// Step 2: only now check for and generate any due summaries.
	lastCommitDate, lastErr := w.lastSummarizedDate(now)
	if lastErr != nil {
		lastCommitDate = now.AddDate(0, 0, -1)
	}
	w.summaries.RunGapWalk(ctx, lastCommitDate, now)

	return nil
}

// HandleHook is the entry point the post-commit hook wrapper calls: it
// recovers from any panic, logs every failure to the rotating log, and
// always returns nil so the caller can always exit 0.
func (w *Worker) HandleHook(ctx context.Context, repoPath, commitHash string, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("panic in hook worker", "panic", fmt.Sprintf("%v", r), "commit", commitHash)
		}
	}()

	if err := w.Run(ctx, repoPath, commitHash, now); err != nil {
		w.logger.Error("hook worker failed", "error", err.Error(), "commit", commitHash)
	}
}

// lastSummarizedDate finds the most recent daily journal file strictly
// before now, as the gap-walk's starting point. Returns an error when no
// prior daily file exists (first-ever commit).
func (w *Worker) lastSummarizedDate(now time.Time) (time.Time, error) {
	dailyDir := filepath.Join(w.journalRoot, "daily")
	entries, err := os.ReadDir(dailyDir)
	if err != nil {
		return time.Time{}, err
	}

	var latest time.Time
	found := false
	cutoff := now.Format("2006-01-02")
	for _, e := range entries {
		if e.IsDir() || len(e.Name()) < 10 {
			continue
		}
		dateStr := e.Name()[:10]
		if dateStr >= cutoff {
			continue
		}
		d, parseErr := time.ParseInLocation("2006-01-02", dateStr, now.Location())
		if parseErr != nil {
			continue
		}
		if !found || d.After(latest) {
			latest = d
			found = true
		}
	}
	if !found {
		return time.Time{}, fmt.Errorf("trigger: no prior daily entry found")
	}
	return latest, nil
}
