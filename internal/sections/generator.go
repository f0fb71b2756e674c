package sections

import (
	"context"

	"github.com/untoldecay/commitjournal/internal/llm"
)

// completer is the narrow surface generators need from llm.Client,
// stubbable in tests (same consumer-interface pattern as
// internal/boundary.completer, itself grounded on the teacher's
// issueStore/summarizer interfaces in internal/compact/compactor.go).
type completer interface {
	Complete(ctx context.Context, component, prompt string) (string, error)
}

// callAndParse renders the named prompt, invokes client, and unmarshals
// the (code-fence-stripped) response into dst. Any failure along this path
// is the caller's signal to fall back to that section's empty default —
// per spec §4.8, a generator failure never propagates as a hard error.
func callAndParse(ctx context.Context, client completer, component string, jc JournalContext, dst any) error {
	prompt, err := renderPrompt(component, jc)
	if err != nil {
		return err
	}
	raw, err := client.Complete(ctx, component, prompt)
	if err != nil {
		return err
	}
	return llm.ParseJSON(raw, dst)
}
