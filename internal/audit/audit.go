// Package audit is an append-only JSONL trail of every LLM call made by
// the boundary filter (C6), section generators (C9), and the summary
// generator (C12), adapted from the teacher's internal/audit package.
// Same Entry/EnsureFile/Append shape, repointed from .beads/interactions.jsonl
// to <journalRoot>/.audit/llm-calls.jsonl.
package audit

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileName is the audit log file name stored under <journalRoot>/.audit/.
const FileName = "llm-calls.jsonl"

const idPrefix = "llm-"

// Entry is a generic append-only audit event for one LLM call.
type Entry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`

	Component string `json:"component,omitempty"` // caller's label, e.g. "boundary" or a section name such as "synopsis"
	CommitHash string `json:"commit_hash,omitempty"`

	Model    string `json:"model,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`

	DurationMS int64 `json:"duration_ms,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Path returns the audit log path under journalRoot, without creating it.
func Path(journalRoot string) string {
	return filepath.Join(journalRoot, ".audit", FileName)
}

// EnsureFile creates <journalRoot>/.audit/llm-calls.jsonl on demand if it
// does not already exist, matching the teacher's on-demand directory
// creation idiom (never created upfront).
func EnsureFile(journalRoot string) (string, error) {
	p := Path(journalRoot)
	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil {
		return "", fmt.Errorf("audit: create directory: %w", err)
	}
	if _, statErr := os.Stat(p); statErr == nil {
		return p, nil
	} else if !os.IsNotExist(statErr) {
		return "", fmt.Errorf("audit: stat log: %w", statErr)
	}
	if err := os.WriteFile(p, []byte{}, 0644); err != nil {
		return "", fmt.Errorf("audit: create log: %w", err)
	}
	return p, nil
}

// Append appends an event as a single JSON line. Best-effort by
// convention: callers (internal/llm) never fail an LLM call because audit
// logging failed.
func Append(journalRoot string, e *Entry) (string, error) {
	if e == nil {
		return "", fmt.Errorf("audit: nil entry")
	}
	if e.Kind == "" {
		return "", fmt.Errorf("audit: kind is required")
	}

	p, err := EnsureFile(journalRoot)
	if err != nil {
		return "", err
	}

	if e.ID == "" {
		e.ID, err = newID()
		if err != nil {
			return "", err
		}
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	} else {
		e.CreatedAt = e.CreatedAt.UTC()
	}

	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("audit: open log: %w", err)
	}
	defer func() { _ = f.Close() }()

	bw := bufio.NewWriter(f)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return "", fmt.Errorf("audit: write entry: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return "", fmt.Errorf("audit: flush log: %w", err)
	}

	return e.ID, nil
}

func newID() (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("audit: generate id: %w", err)
	}
	return idPrefix + hex.EncodeToString(b[:]), nil
}
