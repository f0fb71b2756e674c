package orchestrator

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/untoldecay/commitjournal/internal/boundary"
	"github.com/untoldecay/commitjournal/internal/chatcollect"
	"github.com/untoldecay/commitjournal/internal/llm"
	"github.com/untoldecay/commitjournal/internal/platform"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func initRepoWithCommit(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=Test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init", "-q")
	if err := os.WriteFile(filepath.Join(dir, "foo.go"), []byte("package main\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	run("add", ".")
	run("commit", "-q", "-m", "initial")
	return dir
}

// newTestOrchestrator wires a real Collector (pointed at an empty
// workspace override so Collect finds no chat history) and a real
// boundary.Filter over client, matching how buildGenerators in
// cmd/commitjournal wires the two against the same KeyGuard.
func newTestOrchestrator(t *testing.T, client completer) *Orchestrator {
	t.Helper()
	t.Setenv(platform.OverrideEnvVar, t.TempDir())
	collector := chatcollect.New(platform.New(), 0)
	filter := boundary.New(client, 0)
	return New(collector, filter, client)
}

func TestOrchestrateAbortsWholeRunOnInvalidKey(t *testing.T) {
	requireGit(t)
	dir := initRepoWithCommit(t)

	guard := llm.NewKeyGuard(stubCompleter{err: errInvalidKeyStub()})
	o := newTestOrchestrator(t, guard)

	_, err := o.Orchestrate(context.Background(), Request{
		RepoPath:    dir,
		CommitHash:  "HEAD",
		JournalRoot: filepath.Join(dir, "journal"),
	})
	if !errors.Is(err, llm.ErrInvalidKey) {
		t.Fatalf("Orchestrate error = %v, want wrapping llm.ErrInvalidKey", err)
	}
}

func TestOrchestrateSucceedsWhenKeyValid(t *testing.T) {
	requireGit(t)
	dir := initRepoWithCommit(t)

	guard := llm.NewKeyGuard(stubCompleter{
		resp: `{"summary": "did stuff", "synopsis": "did stuff", "accomplishments": ["a"], "frustrations": [], "mood": "", "indicators": "", "notes": []}`,
	})
	o := newTestOrchestrator(t, guard)

	entry, err := o.Orchestrate(context.Background(), Request{
		RepoPath:    dir,
		CommitHash:  "HEAD",
		JournalRoot: filepath.Join(dir, "journal"),
	})
	if err != nil {
		t.Fatalf("Orchestrate: %v", err)
	}
	if len(entry.Sections) != 8 {
		t.Fatalf("got %d sections, want 8", len(entry.Sections))
	}
}

func errInvalidKeyStub() error {
	return errInvalidKeyWrap{}
}

// errInvalidKeyWrap is a minimal wrapper satisfying errors.Is(err,
// llm.ErrInvalidKey) without importing anthropic SDK error types into the
// test.
type errInvalidKeyWrap struct{}

func (errInvalidKeyWrap) Error() string { return "llm: API key invalid or revoked: test" }
func (errInvalidKeyWrap) Unwrap() error { return llm.ErrInvalidKey }
