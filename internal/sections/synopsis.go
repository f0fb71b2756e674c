package sections

import "context"

// GenerateSynopsis produces the Technical Synopsis section.
func GenerateSynopsis(ctx context.Context, client completer, jc JournalContext) SynopsisSection {
	var out SynopsisSection
	if err := callAndParse(ctx, client, "synopsis", jc, &out); err != nil {
		return SynopsisSection{}
	}
	return out
}
