package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"rsc.io/script"
	"rsc.io/script/scripttest"
)

// TestScripts drives testdata/*.txt end-to-end against the real cobra
// command tree, in-process rather than via a built binary (the Go
// toolchain is not available to build one in this environment). Each
// script's "commitjournal" command runs rootCmd.Execute() directly,
// capturing stdout/stderr and comparing the process exit code against
// the script's expectations the same way testscript's `exec` would.
func TestScripts(t *testing.T) {
	// Set directly rather than via an "env" line in the scripts themselves:
	// the custom commitjournal command below reads os.Getenv in-process,
	// and whether the script engine's own env tracking round-trips to the
	// real process environment isn't something this command relies on.
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	engine := &script.Engine{
		Cmds:  script.DefaultCmds(),
		Conds: script.DefaultConds(),
	}
	engine.Cmds["commitjournal"] = script.Command(
		script.CmdUsage{
			Summary: "run the commitjournal CLI in-process",
			Args:    "args...",
		},
		runCommitjournalInScript,
	)

	ctx := context.Background()
	scripttest.Test(t, ctx, engine, os.Environ(), "testdata/*.txt")
}

// runCommitjournalInScript resets every subcommand's package-level flag
// state (cobra/pflag don't revert a var to its zero value between
// Execute() calls in the same process), runs rootCmd against args, and
// reports the exit code the way main() would via exitCodeFor, without
// actually calling os.Exit.
func runCommitjournalInScript(s *script.State, args ...string) (script.WaitFunc, error) {
	resetCLIState()

	// Every Run func prints via fmt.Println/fmt.Fprintf(os.Stderr, ...)
	// directly, the same as main() does, so capturing output here means
	// redirecting the real os.Stdout rather than relying on cmd.SetOut
	// (cobra's writer hooks only affect cmd.Println-style calls).
	var stdout bytes.Buffer
	origStdout := os.Stdout
	r, w, pipeErr := os.Pipe()
	if pipeErr != nil {
		return nil, pipeErr
	}
	os.Stdout = w
	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(&stdout, r)
		close(done)
	}()

	if wd := s.Getwd(); wd != "" {
		orig, _ := os.Getwd()
		_ = os.Chdir(wd)
		defer os.Chdir(orig)
	}

	rootCmd.SetArgs(args)
	execErr := rootCmd.Execute()

	w.Close()
	<-done
	os.Stdout = origStdout

	var stderr bytes.Buffer
	code := 0
	if execErr != nil {
		stderr.WriteString(execErr.Error())
		code = exitCodeFor(execErr)
	}

	return func(*script.State) (string, string, error) {
		if code != 0 {
			return stdout.String(), stderr.String(), &exitCodeError{code: code, msg: stderr.String()}
		}
		return stdout.String(), stderr.String(), nil
	}, nil
}

// exitCodeError carries the CLI's exit code through to script assertions
// like `! commitjournal ...`.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

func resetCLIState() {
	jsonOutput = false
	repoPath = ""
	generateCommit = ""
	generateDate = ""
	reflectText = ""
	reflectDate = ""
	captureStdin = false
	captureText = ""
	captureData = ""
	summaryDate = ""
	showDate = ""
	showPeriod = "daily"
	hookCommit = ""
}
