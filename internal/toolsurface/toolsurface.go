// Package toolsurface exposes the four external-integration entry points
// (spec.md §6): generate_entry, add_reflection, capture_context, and
// generate_daily_summary. Every function returns a Result — errors never
// propagate as Go errors across this boundary, since external callers
// (the CLI, and any future RPC surface) need a uniform structured
// response rather than a Go error value.
package toolsurface

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/untoldecay/commitjournal/internal/gitcontext"
	"github.com/untoldecay/commitjournal/internal/gitexec"
	"github.com/untoldecay/commitjournal/internal/journal"
	"github.com/untoldecay/commitjournal/internal/llm"
	"github.com/untoldecay/commitjournal/internal/orchestrator"
	"github.com/untoldecay/commitjournal/internal/sections"
	"github.com/untoldecay/commitjournal/internal/summary"
	"github.com/untoldecay/commitjournal/internal/writer"
)

// ErrorCategory mirrors spec §7's error taxonomy as surfaced at the tool
// boundary.
type ErrorCategory string

const (
	CategoryBadRequest ErrorCategory = "BadRequest"
	CategoryNotFound   ErrorCategory = "NotFound"
	CategoryAccess     ErrorCategory = "Access"
	CategoryInvalidKey ErrorCategory = "InvalidKey"
	CategoryProvider   ErrorCategory = "ProviderFailure"
	CategoryInternal   ErrorCategory = "Internal"
)

// ResultError is the structured error shape every tool surface function
// returns instead of a Go error.
type ResultError struct {
	Category ErrorCategory `json:"category"`
	Message  string        `json:"message"`
	Hint     string        `json:"hint,omitempty"`
}

// Result is the uniform response shape for every tool surface call.
type Result struct {
	Status   string       `json:"status"` // "success", "error", "skipped"
	FilePath string       `json:"file_path,omitempty"`
	Skipped  bool         `json:"skipped,omitempty"`
	Error    *ResultError `json:"error,omitempty"`
}

// CaptureRequest is the strict mapping capture_context requires. A bare
// string argument is a compile-time type error in Go; the "mapping vs
// string" BadRequest scenario (spec.md §8 scenario 5) is reproduced at
// the cmd/commitjournal CLI boundary instead, where untyped input first
// enters the program.
type CaptureRequest struct {
	Text string
}

// Surface wires the toolsurface functions to their concrete C10/C11/C12
// implementations.
type Surface struct {
	orch        *orchestrator.Orchestrator
	summaries   *summary.Generator
	journalRoot string
	repoPath    string
}

// New constructs a Surface.
func New(orch *orchestrator.Orchestrator, summaries *summary.Generator, journalRoot, repoPath string) *Surface {
	return &Surface{orch: orch, summaries: summaries, journalRoot: journalRoot, repoPath: repoPath}
}

// GenerateEntry implements generate_entry(commit_hash?, date?). An empty
// commitHash resolves to HEAD. Journal-only commits (no non-journal files
// changed) return Result{Status: "success", Skipped: true}.
func (s *Surface) GenerateEntry(ctx context.Context, commitHash, date string) Result {
	if commitHash == "" {
		resolved, err := resolveHEAD(ctx, s.repoPath)
		if err != nil {
			return errorResult(CategoryInternal, "resolve HEAD", err)
		}
		commitHash = resolved
	}

	when, err := parseDateOrNow(date)
	if err != nil {
		return errorResult(CategoryBadRequest, "parse date", err)
	}

	gc, err := gitcontext.Collect(ctx, s.repoPath, commitHash, s.journalRoot)
	if err != nil {
		return errorResult(CategoryInternal, "collect git context", err)
	}
	if len(gc.ChangedFiles) == 0 {
		// Every changed file was under journalRoot (self-write filtered
		// out) or the commit touched nothing else — nothing to journal.
		return Result{Status: "success", Skipped: true}
	}

	entry, err := s.orch.Orchestrate(ctx, orchestrator.Request{
		RepoPath:    s.repoPath,
		CommitHash:  commitHash,
		JournalRoot: s.journalRoot,
	})
	if err != nil {
		if errors.Is(err, llm.ErrInvalidKey) {
			return errorResult(CategoryInvalidKey, "generate entry", err)
		}
		return errorResult(CategoryInternal, "generate entry", err)
	}

	path, err := writer.Write(s.journalRoot, when, entry)
	if err != nil {
		return errorResult(CategoryAccess, "write entry", err)
	}
	return Result{Status: "success", FilePath: path}
}

// AddReflection implements add_reflection(text, date?): appends a
// timestamped reflection section to the day's journal file.
func (s *Surface) AddReflection(ctx context.Context, text, date string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return errorResult(CategoryBadRequest, "add reflection", errors.New("text must not be empty"))
	}

	when, err := parseDateOrNow(date)
	if err != nil {
		return errorResult(CategoryBadRequest, "parse date", err)
	}

	entry := journal.Entry{
		Timestamp: when.Format("3:04 PM") + " — Reflection",
		Sections:  []sections.SectionResult{sections.SummarySection{Summary: trimmed}},
	}
	path, err := writer.Write(s.journalRoot, when, entry)
	if err != nil {
		return errorResult(CategoryAccess, "write reflection", err)
	}
	return Result{Status: "success", FilePath: path}
}

// CaptureContext implements capture_context(request): appends an "AI
// Context Capture" section verbatim, no LLM call — the text is already
// the ground truth the caller wants recorded.
func (s *Surface) CaptureContext(ctx context.Context, req CaptureRequest) Result {
	trimmed := strings.TrimSpace(req.Text)
	if trimmed == "" {
		return Result{
			Status: "error",
			Error: &ResultError{
				Category: CategoryBadRequest,
				Message:  "text must not be empty",
				Hint:     `pass {"text": "..."} as a mapping`,
			},
		}
	}

	now := time.Now()
	entry := journal.Entry{
		Timestamp: now.Format("3:04 PM") + " — AI Context Capture",
		Sections:  []sections.SectionResult{sections.SummarySection{Summary: trimmed}},
	}
	path, err := writer.Write(s.journalRoot, now, entry)
	if err != nil {
		return errorResult(CategoryAccess, "write context capture", err)
	}
	return Result{Status: "success", FilePath: path}
}

// GenerateDailySummary implements generate_daily_summary(date).
func (s *Surface) GenerateDailySummary(ctx context.Context, date string) Result {
	when, err := parseDateOrNow(date)
	if err != nil {
		return errorResult(CategoryBadRequest, "parse date", err)
	}

	res, err := s.summaries.GenerateDailySummary(ctx, when)
	if err != nil {
		return errorResult(CategoryInternal, "generate daily summary", err)
	}
	return Result{Status: "success", FilePath: res.FilePath, Skipped: res.Status == "skipped"}
}

func parseDateOrNow(date string) (time.Time, error) {
	if date == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", date)
}

func resolveHEAD(ctx context.Context, repoPath string) (string, error) {
	res, err := gitexec.Run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

func errorResult(category ErrorCategory, action string, err error) Result {
	return Result{
		Status: "error",
		Error: &ResultError{
			Category: category,
			Message:  action + ": " + err.Error(),
		},
	}
}

