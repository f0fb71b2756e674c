package journalctx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReadPreviousNoDailyDirReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	got, err := ReadPrevious(dir, time.Now())
	if err != nil {
		t.Fatalf("ReadPrevious: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestReadPreviousFindsMostRecentPriorDay(t *testing.T) {
	dir := t.TempDir()
	dailyDir := filepath.Join(dir, "daily")
	if err := os.MkdirAll(dailyDir, 0755); err != nil {
		t.Fatal(err)
	}

	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dailyDir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("2025-05-30-journal.md", "### 9:00 AM — Commit aaa\n\nold entry\n")
	write("2025-05-31-journal.md", "### 9:00 AM — Commit bbb\n\nfirst\n\n### 5:00 PM — Commit ccc\n\nlatest entry\n")

	date, _ := time.Parse("2006-01-02", "2025-06-01")
	got, err := ReadPrevious(dir, date)
	if err != nil {
		t.Fatalf("ReadPrevious: %v", err)
	}
	if !strings.Contains(got, "latest entry") {
		t.Errorf("expected the last block of the most recent prior day, got %q", got)
	}
	if strings.Contains(got, "first") {
		t.Errorf("expected only the final entry block, got %q", got)
	}
}

func TestReadPreviousSkipsFilesAfterCutoff(t *testing.T) {
	dir := t.TempDir()
	dailyDir := filepath.Join(dir, "daily")
	if err := os.MkdirAll(dailyDir, 0755); err != nil {
		t.Fatal(err)
	}
	future := filepath.Join(dailyDir, "2025-07-01-journal.md")
	if err := os.WriteFile(future, []byte("### 9:00 AM — Commit zzz\n\nfuture entry\n"), 0644); err != nil {
		t.Fatal(err)
	}

	date, _ := time.Parse("2006-01-02", "2025-06-01")
	got, err := ReadPrevious(dir, date)
	if err != nil {
		t.Fatalf("ReadPrevious: %v", err)
	}
	if got != "" {
		t.Errorf("expected no prior entry before the cutoff, got %q", got)
	}
}

func TestLastEntryBlockNoHeaderReturnsWholeContent(t *testing.T) {
	content := "just some text with no header"
	if got := lastEntryBlock(content); got != content {
		t.Errorf("got %q, want %q", got, content)
	}
}
