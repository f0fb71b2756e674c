package sections

import "context"

// GenerateFrustrations produces the Frustrations section.
func GenerateFrustrations(ctx context.Context, client completer, jc JournalContext) FrustrationsSection {
	var out FrustrationsSection
	if err := callAndParse(ctx, client, "frustrations", jc, &out); err != nil {
		return FrustrationsSection{}
	}
	return out
}
