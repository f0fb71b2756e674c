package sections

import "strconv"

// GenerateCommitMetadata assembles the Commit Metadata section directly
// from GitContext — no LLM call, since every field is already known with
// certainty rather than inferred.
func GenerateCommitMetadata(jc JournalContext) CommitMetadataSection {
	gc := jc.GitContext
	fields := map[string]string{
		"commit":   gc.CommitHash,
		"author":   gc.Author,
		"size":     string(gc.SizeClass),
		"added":    strconv.Itoa(gc.FileStats.Added),
		"modified": strconv.Itoa(gc.FileStats.Modified),
		"deleted":  strconv.Itoa(gc.FileStats.Deleted),
	}
	if gc.IsMerge {
		fields["merge"] = "true"
	}
	if gc.IsInitialCommit {
		fields["initial_commit"] = "true"
	}
	return CommitMetadataSection{Fields: fields}
}
