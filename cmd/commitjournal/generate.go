package main

import (
	"github.com/spf13/cobra"
)

var (
	generateCommit string
	generateDate   string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a journal entry for a commit",
	Long: `Generate a journal entry for a single commit, pairing its diff with any
AI chat history that produced it. Defaults to HEAD and today.

Commits that touch nothing outside the journal directory itself are
skipped — there would be nothing new to say.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateCommit, "commit", "", "commit hash (default: HEAD)")
	generateCmd.Flags().StringVar(&generateDate, "date", "", "journal date to file the entry under (default: today)")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	repo, err := resolveRepoPath()
	if err != nil {
		return err
	}
	date, err := parseDateFlag(generateDate)
	if err != nil {
		return err
	}
	surface, err := buildSurface(repo)
	if err != nil {
		return err
	}
	res := surface.GenerateEntry(cmd.Context(), generateCommit, date)
	return printResult(res)
}
