package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	reflectText string
	reflectDate string
)

var reflectCmd = &cobra.Command{
	Use:   "reflect",
	Short: "Append a free-form reflection to today's journal",
	Long: `Append a timestamped reflection section to the day's journal file,
verbatim — no LLM call, since the text is already the thought you want on
record.`,
	RunE: runReflect,
}

func init() {
	reflectCmd.Flags().StringVar(&reflectText, "text", "", "reflection text (required)")
	reflectCmd.Flags().StringVar(&reflectDate, "date", "", "journal date to file the reflection under (default: today)")
	rootCmd.AddCommand(reflectCmd)
}

func runReflect(cmd *cobra.Command, args []string) error {
	if reflectText == "" {
		return errInvalidInput{fmt.Errorf("--text is required")}
	}
	repo, err := resolveRepoPath()
	if err != nil {
		return err
	}
	date, err := parseDateFlag(reflectDate)
	if err != nil {
		return err
	}
	surface, err := buildSurface(repo)
	if err != nil {
		return err
	}
	res := surface.AddReflection(cmd.Context(), reflectText, date)
	return printResult(res)
}
