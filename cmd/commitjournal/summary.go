package main

import (
	"github.com/spf13/cobra"
)

var summaryDate string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Generate a daily rollup summary",
	Long: `Generate the daily summary for a date, synthesized from that day's
journal entries. Weekly/monthly/quarterly/yearly rollups are not exposed
directly — they're produced automatically by the post-commit hook's
gap-walk whenever a commit crosses one of those boundaries.`,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryDate, "date", "", "date to summarize (default: today)")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	repo, err := resolveRepoPath()
	if err != nil {
		return err
	}
	date, err := parseDateFlag(summaryDate)
	if err != nil {
		return err
	}
	surface, err := buildSurface(repo)
	if err != nil {
		return err
	}
	res := surface.GenerateDailySummary(cmd.Context(), date)
	return printResult(res)
}
