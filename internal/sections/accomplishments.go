package sections

import "context"

// GenerateAccomplishments produces the Accomplishments section.
func GenerateAccomplishments(ctx context.Context, client completer, jc JournalContext) AccomplishmentsSection {
	var out AccomplishmentsSection
	if err := callAndParse(ctx, client, "accomplishments", jc, &out); err != nil {
		return AccomplishmentsSection{}
	}
	return out
}
