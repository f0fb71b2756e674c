package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/untoldecay/commitjournal/internal/journal"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return d
}

func TestWriteCreatesDirectoryOnDemand(t *testing.T) {
	root := t.TempDir()
	journalRoot := filepath.Join(root, "journal")

	entry := journal.Entry{Timestamp: "2:00 PM", CommitHash: "abc1234"}
	path, err := Write(journalRoot, mustDate(t, "2025-07-01"), entry)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "2025-07-01-journal.md" {
		t.Errorf("got path %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %v", err)
	}
}

func TestWriteAppendsWithSeparator(t *testing.T) {
	journalRoot := filepath.Join(t.TempDir(), "journal")
	date := mustDate(t, "2025-07-01")

	first := journal.Entry{Timestamp: "9:00 AM", CommitHash: "aaa1111"}
	if _, err := Write(journalRoot, date, first); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	second := journal.Entry{Timestamp: "2:00 PM", CommitHash: "bbb2222"}
	path, err := Write(journalRoot, date, second)
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	content := string(data)
	if strings.Count(content, "Commit aaa1111") != 1 || strings.Count(content, "Commit bbb2222") != 1 {
		t.Errorf("expected both entries present, got:\n%s", content)
	}
	if !strings.Contains(content, separator) {
		t.Error("expected separator between entries")
	}
}
