// Package summary implements C12: daily/weekly/monthly/quarterly/yearly
// rollups, keyed off file existence rather than a persisted state table
// (spec §9's "file-creation triggers over state machines," grounded on
// the teacher's internal/daemon preferring live sockets/PID files over a
// state table for the same resilience reason).
package summary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/untoldecay/commitjournal/internal/llm"
)

// Period identifies a rollup granularity.
type Period string

const (
	Daily     Period = "daily"
	Weekly    Period = "weekly"
	Monthly   Period = "monthly"
	Quarterly Period = "quarterly"
	Yearly    Period = "yearly"
)

// completer is the narrow LLM surface summary generation needs.
type completer interface {
	Complete(ctx context.Context, component, prompt string) (string, error)
}

// Generator produces summary rollups under journalRoot/summaries.
type Generator struct {
	journalRoot string
	client      completer
}

// New constructs a Generator.
func New(journalRoot string, client completer) *Generator {
	return &Generator{journalRoot: journalRoot, client: client}
}

// Result describes the outcome of generating (or skipping) one summary.
type Result struct {
	Period   Period
	Start    time.Time
	Status   string // "generated", "skipped", "no_activity"
	FilePath string
}

func (g *Generator) dailyEntryPath(date time.Time) string {
	return filepath.Join(g.journalRoot, "daily", date.Format("2006-01-02")+"-journal.md")
}

func (g *Generator) summaryPath(period Period, start time.Time) string {
	suffix := map[Period]string{Daily: "daily", Weekly: "weekly", Monthly: "monthly", Quarterly: "quarterly", Yearly: "yearly"}[period]
	return filepath.Join(g.journalRoot, "summaries", suffix, start.Format("2006-01-02")+"-"+suffix+".md")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func hasEntries(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// GenerateDailySummary generates the daily rollup for date unless a
// summary already exists; a day with no journal content gets a
// no-activity summary. Spec §8: "no summary file is created if one
// already exists for that period."
func (g *Generator) GenerateDailySummary(ctx context.Context, date time.Time) (Result, error) {
	return g.generatePeriod(ctx, Daily, date, date, []string{g.dailyEntryPath(date)})
}

// GenerateWeeklySummary generates the rollup for the week starting on
// weekStart (a Monday), drawing on the week's seven daily journal files.
func (g *Generator) GenerateWeeklySummary(ctx context.Context, weekStart time.Time) (Result, error) {
	var sources []string
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		sources = append(sources, g.dailyEntryPath(day))
	}
	return g.generatePeriod(ctx, Weekly, weekStart, weekStart.AddDate(0, 0, 6), sources)
}

// GenerateMonthlySummary generates the rollup for the month starting on
// monthStart (the 1st).
func (g *Generator) GenerateMonthlySummary(ctx context.Context, monthStart time.Time) (Result, error) {
	monthEnd := monthStart.AddDate(0, 1, -1)
	var sources []string
	for d := monthStart; !d.After(monthEnd); d = d.AddDate(0, 0, 1) {
		sources = append(sources, g.dailyEntryPath(d))
	}
	return g.generatePeriod(ctx, Monthly, monthStart, monthEnd, sources)
}

// GenerateQuarterlySummary generates the rollup for the quarter starting
// on quarterStart (Jan/Apr/Jul/Oct 1st).
func (g *Generator) GenerateQuarterlySummary(ctx context.Context, quarterStart time.Time) (Result, error) {
	quarterEnd := quarterStart.AddDate(0, 3, -1)
	var sources []string
	for d := quarterStart; !d.After(quarterEnd); d = d.AddDate(0, 0, 1) {
		sources = append(sources, g.dailyEntryPath(d))
	}
	return g.generatePeriod(ctx, Quarterly, quarterStart, quarterEnd, sources)
}

// GenerateYearlySummary generates the rollup for the year starting on
// yearStart (Jan 1st).
func (g *Generator) GenerateYearlySummary(ctx context.Context, yearStart time.Time) (Result, error) {
	yearEnd := yearStart.AddDate(1, 0, -1)
	var sources []string
	for d := yearStart; !d.After(yearEnd); d = d.AddDate(0, 0, 1) {
		sources = append(sources, g.dailyEntryPath(d))
	}
	return g.generatePeriod(ctx, Yearly, yearStart, yearEnd, sources)
}

func (g *Generator) generatePeriod(ctx context.Context, period Period, start, end time.Time, sourcePaths []string) (Result, error) {
	path := g.summaryPath(period, start)
	if exists(path) {
		return Result{Period: period, Start: start, Status: "skipped", FilePath: path}, nil
	}

	var activeSources []string
	for _, p := range sourcePaths {
		if hasEntries(p) {
			activeSources = append(activeSources, p)
		}
	}

	var body string
	status := "generated"
	if len(activeSources) == 0 {
		body = noActivityBody(period, start, end)
		status = "no_activity"
	} else {
		rendered, err := g.render(ctx, period, start, end, activeSources)
		if err != nil {
			body = noActivityBody(period, start, end)
		} else {
			body = rendered
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return Result{}, fmt.Errorf("summary: create summaries dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return Result{}, fmt.Errorf("summary: write %s: %w", path, err)
	}

	return Result{Period: period, Start: start, Status: status, FilePath: path}, nil
}

func noActivityBody(period Period, start, end time.Time) string {
	label := string(period)
	label = strings.ToUpper(label[:1]) + label[1:]
	return fmt.Sprintf("# %s summary: %s\n\nNo activity recorded for this period (%s to %s).\n",
		label, start.Format("2006-01-02"),
		start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func (g *Generator) render(ctx context.Context, period Period, start, end time.Time, sourcePaths []string) (string, error) {
	var contents strings.Builder
	for _, p := range sourcePaths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		contents.Write(data)
		contents.WriteString("\n")
	}

	prompt := renderSummaryPrompt(period, start, end, sourcePaths, contents.String())
	raw, err := g.client.Complete(ctx, "summary", prompt)
	if err != nil {
		return "", err
	}
	return llm.CleanJSON(raw), nil
}

func renderSummaryPrompt(period Period, start, end time.Time, sourcePaths []string, entries string) string {
	var links strings.Builder
	for _, p := range sourcePaths {
		if hasEntries(p) {
			fmt.Fprintf(&links, "- [%s](%s)\n", filepath.Base(p), filepath.Base(p))
		}
	}

	return fmt.Sprintf(`Write a %s summary of the developer's journal entries below, covering %s through %s.
Ground every statement in the entries given; do not speculate. Produce Markdown
with a short narrative followed by a "Source entries" section linking back to
the files below using relative Markdown links.

Source entries:
%s

Journal entries:
%s

Return Markdown only, no surrounding JSON or code fences.`,
		period, start.Format("2006-01-02"), end.Format("2006-01-02"), links.String(), entries)
}
