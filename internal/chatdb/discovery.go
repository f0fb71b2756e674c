package chatdb

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultDiscoveryTimeout bounds the recursive scan for state.vscdb files.
const DefaultDiscoveryTimeout = 5 * time.Second

// SummaryModeThreshold is the candidate count above which Discover enters
// "summary mode" and samples rather than returning every candidate.
const SummaryModeThreshold = 100

// SummaryModeSamplePct is the fraction of candidates kept in summary mode.
const SummaryModeSamplePct = 0.20

// Discover recursively scans root for `state.vscdb` files, bounded by
// maxDepth and DefaultDiscoveryTimeout, adapting the bounded recursive
// walk from the teacher's internal/daemon/discovery.go walkWithDepth
// (there used for daemon socket discovery; here for workspace database
// discovery). On repos with more than SummaryModeThreshold candidates, it
// samples SummaryModeSamplePct of them rather than returning all.
func Discover(ctx context.Context, root string, maxDepth int) []string {
	ctx, cancel := context.WithTimeout(ctx, DefaultDiscoveryTimeout)
	defer cancel()

	var candidates []string
	_ = walkWithDepth(ctx, root, 0, maxDepth, func(path string) {
		if filepath.Base(path) == "state.vscdb" {
			candidates = append(candidates, path)
		}
	})

	if len(candidates) > SummaryModeThreshold {
		sampleSize := int(float64(len(candidates)) * SummaryModeSamplePct)
		if sampleSize < 1 {
			sampleSize = 1
		}
		stride := len(candidates) / sampleSize
		if stride < 1 {
			stride = 1
		}
		var sampled []string
		for i := 0; i < len(candidates); i += stride {
			sampled = append(sampled, candidates[i])
		}
		return sampled
	}
	return candidates
}

func walkWithDepth(ctx context.Context, root string, currentDepth, maxDepth int, fn func(path string)) error {
	if currentDepth > maxDepth {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		// Skip directories we can't read, matching the teacher's
		// "scan is best-effort, never fails the caller" behavior.
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())

		if entry.IsDir() {
			name := entry.Name()
			if strings.HasPrefix(name, ".") {
				continue
			}
			if name == "node_modules" || name == "vendor" {
				continue
			}
			if err := walkWithDepth(ctx, path, currentDepth+1, maxDepth, fn); err != nil {
				return err
			}
			continue
		}
		fn(path)
	}
	return nil
}
