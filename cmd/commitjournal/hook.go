package main

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/untoldecay/commitjournal/internal/gitexec"
	"github.com/untoldecay/commitjournal/internal/trigger"
)

var hookCommit string

// hookCmd is what a repository's .git/hooks/post-commit script should
// invoke. It never fails the commit: errors from the trigger worker are
// logged to <hooksDir>/commitjournal.log and swallowed (C13's HandleHook
// contract). An unresolvable HEAD or generators that cannot be built
// (no API key) end the hook quietly with nothing logged.
var hookCmd = &cobra.Command{
	Use:    "hook",
	Short:  "Run as a git post-commit hook (never fails the commit)",
	Hidden: true,
	RunE:   runHook,
}

func init() {
	hookCmd.Flags().StringVar(&hookCommit, "commit", "", "commit hash (default: HEAD)")
	rootCmd.AddCommand(hookCmd)
}

func runHook(cmd *cobra.Command, args []string) error {
	repo, err := resolveRepoPath()
	if err != nil {
		return err
	}

	commit := hookCommit
	if commit == "" {
		res, err := gitexec.Run(cmd.Context(), repo, "rev-parse", "HEAD")
		if err != nil {
			// No commits yet, or not a repo: nothing to journal, not an
			// error worth surfacing through the hook.
			return nil
		}
		commit = strings.TrimRight(res.Stdout, "\r\n")
	}

	orch, summaries, root, err := buildGenerators(repo)
	if err != nil {
		// Missing API key at hook time is not fatal to the commit; the
		// worker isn't built and there's nothing useful to log to yet.
		return nil
	}

	hooksDir := filepath.Join(repo, ".git", "hooks")
	worker := trigger.New(orch, summaries, root, hooksDir)
	worker.HandleHook(cmd.Context(), repo, commit, time.Now())
	return nil
}
