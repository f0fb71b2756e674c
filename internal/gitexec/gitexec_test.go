package gitexec

import (
	"context"
	"os/exec"
	"testing"
	"time"
)

func TestRunReturnsStdout(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	if _, err := Run(context.Background(), dir, "init"); err != nil {
		t.Fatalf("git init: %v", err)
	}
	res, err := Run(context.Background(), dir, "status", "--short")
	if err != nil {
		t.Fatalf("git status: %v", err)
	}
	_ = res.Stdout // empty repo, no assertion on content beyond no error
}

func TestRunTimesOut(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Millisecond)
	defer cancel()
	time.Sleep(2 * time.Millisecond)
	if _, err := Run(ctx, t.TempDir(), "status"); err == nil {
		t.Fatalf("expected timeout error")
	}
}
