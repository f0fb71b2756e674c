// Package journalctx reads the most recent prior journal entry for
// continuity (C8). Deliberately thin per scope: a regex-anchored scan of
// the most recent `### HH:MM` entry block, not a structural Markdown
// parse — that parser is an out-of-scope external collaborator.
//
// Grounded on the teacher's internal/audit philosophy of treating
// append-only artifacts (JSONL there, Markdown here) as re-readable
// without a dedicated parser library.
package journalctx

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"
)

// entryHeaderPattern matches an entry's H3 header, e.g.
// "### 2:34 PM — Commit a1b2c3d" or "### 9:01 AM — Reflection".
var entryHeaderPattern = regexp.MustCompile(`(?m)^### .+$`)

// ReadPrevious returns the full text of the most recent entry in
// journalRoot/daily, searching backward from date across prior days until
// one is found. It returns ("", nil) when no prior entry exists anywhere
// — that is not an error, just "no continuity context available".
func ReadPrevious(journalRoot string, date time.Time) (string, error) {
	dailyDir := filepath.Join(journalRoot, "daily")
	entries, err := os.ReadDir(dailyDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("journalctx: read daily dir: %w", err)
	}

	var candidates []string
	cutoff := date.Format("2006-01-02")
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if len(name) < 10 {
			continue
		}
		fileDate := name[:10]
		if fileDate <= cutoff {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return "", nil
	}
	sort.Strings(candidates)
	latest := candidates[len(candidates)-1]

	data, err := os.ReadFile(filepath.Join(dailyDir, latest))
	if err != nil {
		return "", fmt.Errorf("journalctx: read %s: %w", latest, err)
	}

	return lastEntryBlock(string(data)), nil
}

// lastEntryBlock returns the text of the final `### ...` header block in
// content, from its header to the end of the file.
func lastEntryBlock(content string) string {
	locs := entryHeaderPattern.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return content
	}
	last := locs[len(locs)-1]
	return content[last[0]:]
}
