package sections

import "context"

// GenerateDiscussion produces the Discussion Notes section. Quotes must be
// verbatim per spec §4.8; no post-processing is applied to the model's
// returned strings beyond JSON validation — rewriting a "verbatim" quote
// would defeat the rule's point.
func GenerateDiscussion(ctx context.Context, client completer, jc JournalContext) DiscussionNotesSection {
	var out DiscussionNotesSection
	if err := callAndParse(ctx, client, "discussion", jc, &out); err != nil {
		return DiscussionNotesSection{}
	}
	return out
}
