// Package orchestrator implements C10: the four-layer coordinator that
// turns a commit into a JournalEntry. Entry validates and delegates;
// Orchestration (this package) fans out context collection, then content
// generation; ContextCollection is C5-C8; ContentGeneration is C9.
//
// Fan-out uses golang.org/x/sync/errgroup, generalizing the teacher's
// goroutine+sync.WaitGroup pattern in cmd/bd/daemon_watcher.go's
// FileWatcher into the errgroup idiom the same package ecosystem offers
// for this shape of "many concurrent workers, one combined error" problem.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/untoldecay/commitjournal/internal/boundary"
	"github.com/untoldecay/commitjournal/internal/chatcollect"
	"github.com/untoldecay/commitjournal/internal/chatmodel"
	"github.com/untoldecay/commitjournal/internal/gitcontext"
	"github.com/untoldecay/commitjournal/internal/journal"
	"github.com/untoldecay/commitjournal/internal/journalctx"
	"github.com/untoldecay/commitjournal/internal/llm"
	"github.com/untoldecay/commitjournal/internal/sections"
	"github.com/untoldecay/commitjournal/internal/telemetry"
	"github.com/untoldecay/commitjournal/internal/window"
)

// SoftGeneratorTimeout and HardGeneratorTimeout bound each section
// generator individually (spec §4.9); SoftGeneratorTimeout is recorded as
// a telemetry warning when exceeded, HardGeneratorTimeout cancels the call.
const (
	SoftGeneratorTimeout = 5 * time.Second
	HardGeneratorTimeout = 30 * time.Second
	TotalBudget          = 90 * time.Second
)

// completer is the narrow LLM surface the orchestrator threads through to
// the section generators.
type completer interface {
	Complete(ctx context.Context, component, prompt string) (string, error)
}

// invalidKeyChecker is implemented by *llm.KeyGuard. o.client is asserted
// against it rather than typed as *llm.KeyGuard directly, keeping
// completer the narrow interface generateSections' jobs actually need.
type invalidKeyChecker interface {
	Invalid() bool
}

// Request describes the commit to generate an entry for.
type Request struct {
	RepoPath    string
	CommitHash  string
	JournalRoot string
}

// Orchestrator wires C5-C9 together.
type Orchestrator struct {
	collector *chatcollect.Collector
	boundary  *boundary.Filter
	client    completer
}

// New constructs an Orchestrator from its component dependencies.
func New(collector *chatcollect.Collector, boundaryFilter *boundary.Filter, client completer) *Orchestrator {
	return &Orchestrator{collector: collector, boundary: boundaryFilter, client: client}
}

// Orchestrate builds a JournalEntry for req.CommitHash, per spec §4.9's
// layer split: context collection (C7 git context, then C8 previous
// entry, then C5+C6 chat collection and boundary filtering), then
// content generation (C9 concurrently), then assembly. A chat-collection
// or previous-entry failure degrades that branch to empty with telemetry
// rather than failing the whole operation; only a git-context failure
// (C7), without which no entry can be grounded, or an invalid API key
// seen after collection or after generation, is fatal.
func (o *Orchestrator) Orchestrate(ctx context.Context, req Request) (journal.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, TotalBudget)
	defer cancel()

	var entry journal.Entry
	err := telemetry.RecordOperation(ctx, "orchestrator", "orchestrate", func(ctx context.Context, span telemetry.Span) error {
		var err error
		entry, err = o.orchestrate(ctx, req, span)
		return err
	})
	return entry, err
}

func (o *Orchestrator) orchestrate(ctx context.Context, req Request, span telemetry.Span) (journal.Entry, error) {
	gc, err := gitcontext.Collect(ctx, req.RepoPath, req.CommitHash, req.JournalRoot)
	if err != nil {
		return journal.Entry{}, fmt.Errorf("orchestrator: collect git context: %w", err)
	}

	// Read first, not fanned out alongside chat collection: the boundary
	// filter's prompt contract (spec §4.6) needs the resolved previous
	// entry before it runs, and this is a single Markdown file read, cheap
	// next to the LLM call chat collection/filtering makes.
	previousEntry, jctxErr := journalctx.ReadPrevious(req.JournalRoot, gc.AuthorTime)
	if jctxErr != nil {
		span.SetAttributes(telemetry.Attr("orchestrator.previous_entry_failed", true))
		previousEntry = ""
	}

	var chatHistory []chatmodel.Message

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		w := window.For(gc.AuthorTime, gc.ParentAuthorTime, !gc.IsInitialCommit)
		messages, collectErr := o.collector.Collect(gctx, w)
		if collectErr != nil {
			span.SetAttributes(telemetry.Attr("orchestrator.chat_collection_failed", true))
			return nil // non-fatal: proceed with no chat evidence
		}
		filtered, boundErr := o.boundary.FilterForCommit(gctx, messages, gc, previousEntry)
		if boundErr != nil {
			filtered = messages
		}
		chatHistory = filtered
		return nil
	})
	if err := g.Wait(); err != nil {
		return journal.Entry{}, err
	}
	if o.keyInvalid() {
		return journal.Entry{}, fmt.Errorf("orchestrator: %w", llm.ErrInvalidKey)
	}

	jc := sections.JournalContext{
		ChatHistory:   chatHistory,
		GitContext:    gc,
		PreviousEntry: previousEntry,
	}

	results := o.generateSections(ctx, jc, span)
	if o.keyInvalid() {
		return journal.Entry{}, fmt.Errorf("orchestrator: %w", llm.ErrInvalidKey)
	}

	return journal.Entry{
		Timestamp:  gc.AuthorTime.Format("3:04 PM"),
		CommitHash: gc.CommitHash,
		Sections:   results,
	}, nil
}

// keyInvalid reports whether o.client is a guard that has observed
// llm.ErrInvalidKey from either the boundary filter or a section
// generator's call. A plain completer (e.g. in tests) never reports
// invalid, since it doesn't implement invalidKeyChecker.
func (o *Orchestrator) keyInvalid() bool {
	checker, ok := o.client.(invalidKeyChecker)
	return ok && checker.Invalid()
}

func (o *Orchestrator) generateSections(ctx context.Context, jc sections.JournalContext, span telemetry.Span) []sections.SectionResult {
	type job func(ctx context.Context) sections.SectionResult

	jobs := []job{
		func(ctx context.Context) sections.SectionResult { return sections.GenerateSummary(ctx, o.client, jc) },
		func(ctx context.Context) sections.SectionResult { return sections.GenerateSynopsis(ctx, o.client, jc) },
		func(ctx context.Context) sections.SectionResult { return sections.GenerateAccomplishments(ctx, o.client, jc) },
		func(ctx context.Context) sections.SectionResult { return sections.GenerateFrustrations(ctx, o.client, jc) },
		func(ctx context.Context) sections.SectionResult { return sections.GenerateToneMood(ctx, o.client, jc) },
		func(ctx context.Context) sections.SectionResult { return sections.GenerateDiscussion(ctx, o.client, jc) },
		func(ctx context.Context) sections.SectionResult { return sections.GenerateCommands(jc) },
		func(ctx context.Context) sections.SectionResult { return sections.GenerateCommitMetadata(jc) },
	}

	results := make([]sections.SectionResult, len(jobs))
	var g errgroup.Group
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			start := time.Now()
			genCtx, cancel := context.WithTimeout(ctx, HardGeneratorTimeout)
			defer cancel()
			results[i] = j(genCtx)
			if time.Since(start) > SoftGeneratorTimeout {
				span.SetAttributes(telemetry.Attr("orchestrator.soft_timeout_exceeded", true))
			}
			return nil
		})
	}
	_ = g.Wait() // each job already swallows its own failure into an empty default
	span.SetAttributes(telemetry.Attr("orchestrator.section_count", len(results)))
	return results
}
