package sections

import "context"

// GenerateSummary produces the Summary section. On any failure it returns
// the empty default rather than propagating, per spec §4.8.
func GenerateSummary(ctx context.Context, client completer, jc JournalContext) SummarySection {
	var out SummarySection
	if err := callAndParse(ctx, client, "summary", jc, &out); err != nil {
		return SummarySection{}
	}
	return out
}
