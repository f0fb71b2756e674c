package summary

import (
	"context"
	"time"
)

// RunGapWalk walks day by day from lastCommitDate to currentCommitDate
// (exclusive of lastCommitDate itself, inclusive of currentCommitDate),
// generating any daily/weekly/monthly/quarterly/yearly summary whose
// period closed within that span and does not already exist — including
// periods with no activity (spec §4.11's gap-handling rule).
//
// A period is considered "closed" the moment the walk reaches the first
// day of the NEXT period: e.g. reaching a Monday closes the week that
// just ended. This is why, given a last entry on a Sunday and a new
// commit on the following Monday two weeks later (spec §8 scenario 6),
// the two full weeks in between both get a weekly summary but the
// commit's own week does not — its closing Monday has not been reached
// yet.
func (g *Generator) RunGapWalk(ctx context.Context, lastCommitDate, currentCommitDate time.Time) []Result {
	var results []Result

	start := truncateToDay(lastCommitDate).AddDate(0, 0, 1)
	end := truncateToDay(currentCommitDate)
	if end.Before(start) {
		return nil
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if ctx.Err() != nil {
			break
		}

		prevDay := d.AddDate(0, 0, -1)
		if res, generated := g.maybeDaily(ctx, prevDay); generated {
			results = append(results, res)
		}

		if d.Weekday() == time.Monday {
			weekStart := d.AddDate(0, 0, -7)
			if res, generated := g.maybeWeekly(ctx, weekStart); generated {
				results = append(results, res)
			}
		}

		if d.Day() == 1 {
			monthStart := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location()).AddDate(0, -1, 0)
			if res, generated := g.maybeMonthly(ctx, monthStart); generated {
				results = append(results, res)
			}

			if isQuarterStart(monthStart) {
				quarterStart := monthStart.AddDate(0, -2, 0)
				if res, generated := g.maybeQuarterly(ctx, quarterStart); generated {
					results = append(results, res)
				}
			}
			if d.Month() == time.January {
				yearStart := time.Date(d.Year()-1, time.January, 1, 0, 0, 0, 0, d.Location())
				if res, generated := g.maybeYearly(ctx, yearStart); generated {
					results = append(results, res)
				}
			}
		}
	}
	return results
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isQuarterStart(monthStart time.Time) bool {
	switch monthStart.Month() {
	case time.January, time.April, time.July, time.October:
		return true
	default:
		return false
	}
}

func (g *Generator) maybeDaily(ctx context.Context, date time.Time) (Result, bool) {
	if !hasEntries(g.dailyEntryPath(date)) {
		return Result{}, false
	}
	if exists(g.summaryPath(Daily, date)) {
		return Result{}, false
	}
	res, err := g.GenerateDailySummary(ctx, date)
	return res, err == nil
}

func (g *Generator) maybeWeekly(ctx context.Context, weekStart time.Time) (Result, bool) {
	if exists(g.summaryPath(Weekly, weekStart)) {
		return Result{}, false
	}
	res, err := g.GenerateWeeklySummary(ctx, weekStart)
	return res, err == nil
}

func (g *Generator) maybeMonthly(ctx context.Context, monthStart time.Time) (Result, bool) {
	if exists(g.summaryPath(Monthly, monthStart)) {
		return Result{}, false
	}
	res, err := g.GenerateMonthlySummary(ctx, monthStart)
	return res, err == nil
}

func (g *Generator) maybeQuarterly(ctx context.Context, quarterStart time.Time) (Result, bool) {
	if exists(g.summaryPath(Quarterly, quarterStart)) {
		return Result{}, false
	}
	res, err := g.GenerateQuarterlySummary(ctx, quarterStart)
	return res, err == nil
}

func (g *Generator) maybeYearly(ctx context.Context, yearStart time.Time) (Result, bool) {
	if exists(g.summaryPath(Yearly, yearStart)) {
		return Result{}, false
	}
	res, err := g.GenerateYearlySummary(ctx, yearStart)
	return res, err == nil
}
