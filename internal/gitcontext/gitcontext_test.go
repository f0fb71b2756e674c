package gitcontext

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
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

func TestCollectInitialCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	if err := os.WriteFile(filepath.Join(dir, "foo.go"), []byte("package main\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-q", "-m", "initial")

	gc, err := Collect(context.Background(), dir, "HEAD", "journal/")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if !gc.IsInitialCommit {
		t.Errorf("expected IsInitialCommit = true")
	}
	if len(gc.ChangedFiles) != 1 || gc.ChangedFiles[0] != "foo.go" {
		t.Errorf("ChangedFiles = %v, want [foo.go]", gc.ChangedFiles)
	}
}

func TestCollectFiltersSelfWrites(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	if err := os.WriteFile(filepath.Join(dir, "foo.go"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-q", "-m", "first")

	if err := os.MkdirAll(filepath.Join(dir, "journal", "daily"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "journal", "daily", "2025-07-01-journal.md"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "src_foo.py"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-q", "-m", "second")

	gc, err := Collect(context.Background(), dir, "HEAD", "journal/")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(gc.ChangedFiles) != 1 || gc.ChangedFiles[0] != "src_foo.py" {
		t.Errorf("ChangedFiles = %v, want [src_foo.py]", gc.ChangedFiles)
	}
}
