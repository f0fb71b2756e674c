package sections

import "context"

// GenerateToneMood produces the Tone/Mood section.
func GenerateToneMood(ctx context.Context, client completer, jc JournalContext) ToneMoodSection {
	var out ToneMoodSection
	if err := callAndParse(ctx, client, "tonemood", jc, &out); err != nil {
		return ToneMoodSection{}
	}
	return out
}
