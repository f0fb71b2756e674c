// Package gitcontext collects a commit's metadata and diff into a
// GitContext, filtering out self-writes (C7).
//
// Grounded on the teacher's internal/git/worktree.go exec.Command("git",
// ...)-with-cmd.Dir idiom, generalized with internal/gitexec's
// process-group timeout wrapper in place of the teacher's bare os/exec.
package gitcontext

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/untoldecay/commitjournal/internal/gitexec"
)

// EmptyTreeHash is git's well-known empty-tree object, used to diff the
// repository's initial commit (it has no parent to diff against).
const EmptyTreeHash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// SizeClass buckets a commit by how much it touched.
type SizeClass string

const (
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
)

// FileStats summarizes a diff's file-level shape.
type FileStats struct {
	Added    int
	Modified int
	Deleted  int
}

// GitContext is the per-commit evidence stream fed into section generators.
type GitContext struct {
	CommitHash       string
	Author           string
	AuthorTime       time.Time
	Message          string
	ParentHash       string
	ParentAuthorTime time.Time
	ChangedFiles     []string
	DiffSummary      string
	FileStats        FileStats
	SizeClass        SizeClass
	IsMerge          bool
	IsInitialCommit  bool
}

const defaultTimeout = 10 * time.Second

// Collect builds a GitContext for commitHash, filtering out any changed
// file under journalPath (self-write prevention, to stop the journal from
// feeding on its own writes).
func Collect(ctx context.Context, repoPath, commitHash, journalPath string) (GitContext, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	meta, err := commitMetadata(ctx, repoPath, commitHash)
	if err != nil {
		return GitContext{}, err
	}

	diffTarget := meta.parentHash
	if !meta.hasParent {
		diffTarget = EmptyTreeHash
	}

	changed, err := changedFiles(ctx, repoPath, diffTarget, commitHash)
	if err != nil {
		return GitContext{}, err
	}

	// git reports repo-relative paths; a journal root joined onto repoPath
	// (as the CLI passes it) is compared in its repo-relative form.
	if rel, err := filepath.Rel(repoPath, journalPath); err == nil &&
		strings.HasPrefix(filepath.Clean(journalPath), filepath.Clean(repoPath)+string(filepath.Separator)) {
		journalPath = rel
	}
	filtered := filterSelfWrites(changed, journalPath)

	diffSummary, err := diffStat(ctx, repoPath, diffTarget, commitHash)
	if err != nil {
		return GitContext{}, err
	}

	stats := classifyFiles(ctx, repoPath, diffTarget, commitHash, filtered)

	var parentAuthorTime time.Time
	if meta.hasParent {
		parentMeta, err := commitMetadata(ctx, repoPath, meta.parentHash)
		if err == nil {
			parentAuthorTime = parentMeta.authorTime
		}
	}

	gc := GitContext{
		CommitHash:       meta.shortHash,
		Author:           meta.author,
		AuthorTime:       meta.authorTime,
		Message:          meta.message,
		ParentHash:       meta.parentHash,
		ParentAuthorTime: parentAuthorTime,
		ChangedFiles:     filtered,
		DiffSummary:      diffSummary,
		FileStats:        stats,
		SizeClass:        classifySize(stats),
		IsMerge:          meta.isMerge,
		IsInitialCommit:  !meta.hasParent,
	}
	return gc, nil
}

type commitMeta struct {
	shortHash  string
	author     string
	authorTime time.Time
	message    string
	parentHash string
	hasParent  bool
	isMerge    bool
}

func commitMetadata(ctx context.Context, repoPath, commitHash string) (commitMeta, error) {
	const sep = "\x1f"
	format := strings.Join([]string{"%h", "%an", "%at", "%P", "%s"}, sep)
	res, err := gitexec.Run(ctx, repoPath, "show", "-s", "--format="+format, commitHash)
	if err != nil {
		return commitMeta{}, fmt.Errorf("gitcontext: commit metadata: %w", err)
	}
	fields := strings.Split(strings.TrimRight(res.Stdout, "\n"), sep)
	if len(fields) != 5 {
		return commitMeta{}, fmt.Errorf("gitcontext: unexpected git show output")
	}

	authorTimeUnix, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return commitMeta{}, fmt.Errorf("gitcontext: parse author time: %w", err)
	}

	parents := strings.Fields(fields[3])
	meta := commitMeta{
		shortHash:  fields[0],
		author:     fields[1],
		authorTime: time.Unix(authorTimeUnix, 0).UTC(),
		message:    fields[4],
		hasParent:  len(parents) > 0,
		isMerge:    len(parents) > 1,
	}
	if len(parents) > 0 {
		meta.parentHash = parents[0] // first-parent only; secondary-parent history is ignored for merges
	}
	return meta, nil
}

func changedFiles(ctx context.Context, repoPath, from, to string) ([]string, error) {
	res, err := gitexec.Run(ctx, repoPath, "diff", "--name-only", from, to)
	if err != nil {
		return nil, fmt.Errorf("gitcontext: changed files: %w", err)
	}
	return splitNonEmptyLines(res.Stdout), nil
}

func diffStat(ctx context.Context, repoPath, from, to string) (string, error) {
	// --stat omits binary bodies by construction; the path still appears
	// for binary files, satisfying "exclude binary bodies, include paths".
	res, err := gitexec.Run(ctx, repoPath, "diff", "--stat", from, to)
	if err != nil {
		return "", fmt.Errorf("gitcontext: diff summary: %w", err)
	}
	return strings.TrimRight(res.Stdout, "\n"), nil
}

func classifyFiles(ctx context.Context, repoPath, from, to string, filtered []string) FileStats {
	res, err := gitexec.Run(ctx, repoPath, "diff", "--name-status", from, to)
	if err != nil {
		return FileStats{}
	}
	allowed := make(map[string]bool, len(filtered))
	for _, f := range filtered {
		allowed[f] = true
	}

	var stats FileStats
	for _, line := range splitNonEmptyLines(res.Stdout) {
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 || !allowed[parts[1]] {
			continue
		}
		switch parts[0][0] {
		case 'A':
			stats.Added++
		case 'D':
			stats.Deleted++
		default:
			stats.Modified++
		}
	}
	return stats
}

func classifySize(stats FileStats) SizeClass {
	total := stats.Added + stats.Modified + stats.Deleted
	switch {
	case total <= 3:
		return SizeSmall
	case total <= 15:
		return SizeMedium
	default:
		return SizeLarge
	}
}

// filterSelfWrites removes any changed file under journalPath to prevent
// the journal from feeding on its own writes.
func filterSelfWrites(files []string, journalPath string) []string {
	if journalPath == "" {
		return files
	}
	clean := filepath.ToSlash(filepath.Clean(journalPath))
	if !strings.HasSuffix(clean, "/") {
		clean += "/"
	}

	out := make([]string, 0, len(files))
	for _, f := range files {
		fSlash := filepath.ToSlash(f)
		if strings.HasPrefix(fSlash, clean) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func splitNonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
