package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrInvalidResponse wraps a response that failed JSON parsing or schema
// validation (spec error taxonomy: AI.InvalidResponse).
var ErrInvalidResponse = fmt.Errorf("llm: invalid response")

// CleanJSON strips Markdown code-fence wrapping an LLM sometimes adds
// around a JSON response, reused near-verbatim from the teacher's
// internal/extractor/ollama.go cleanJSON — a generic "strip fences"
// utility, not business logic, so every JSON-returning call site shares it.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseJSON cleans and unmarshals resp into dst, wrapping any failure in
// ErrInvalidResponse. Callers (boundary, sections, summary) treat a
// parse failure as "fall back to the empty default", never as an attempt
// to repair the response, per spec §9's "never attempt to fix" note.
func ParseJSON(resp string, dst any) error {
	cleaned := CleanJSON(resp)
	if cleaned == "" {
		return fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}
	if err := json.Unmarshal([]byte(cleaned), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// FlexibleString unmarshals a JSON field that a model sometimes returns as
// a plain string and sometimes, inexplicably, as an array of strings —
// the defensive pattern the teacher's ollamaResponse.Name field uses
// (json.RawMessage + fallback array decode) for exactly this failure mode.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}
	var parts []string
	if err := json.Unmarshal(data, &parts); err == nil {
		*f = FlexibleString(strings.Join(parts, " "))
		return nil
	}
	return fmt.Errorf("%w: field is neither a string nor an array of strings", ErrInvalidResponse)
}

func (f FlexibleString) String() string { return string(f) }
