// Package journal defines JournalEntry and its Markdown rendering: a list
// of SectionResults, looked up by section name at render time and
// rendered in a fixed section order, with empty sections still emitting
// their header.
package journal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/untoldecay/commitjournal/internal/sections"
)

// SectionOrder is the stable rendering order (spec.md §3). A section
// generator can finish in any order; rendering never does.
var SectionOrder = []string{
	"Summary",
	"Technical Synopsis",
	"Accomplishments",
	"Frustrations",
	"Tone/Mood",
	"Discussion Notes",
	"Terminal Commands",
	"Commit Metadata",
}

// Entry is one rendered unit appended to a day's journal file.
type Entry struct {
	Timestamp  string // "3:04 PM"-style, per spec §3
	CommitHash string
	Sections   []sections.SectionResult
}

// Render produces the Markdown block for this entry: an H3 header
// followed by each section in SectionOrder, header always present even
// when the section carries no content.
func (e Entry) Render() string {
	byName := make(map[string]sections.SectionResult, len(e.Sections))
	for _, s := range e.Sections {
		byName[s.Name()] = s
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s — Commit %s\n\n", e.Timestamp, e.CommitHash)

	for _, name := range SectionOrder {
		fmt.Fprintf(&sb, "#### %s\n\n", name)
		result, ok := byName[name]
		if !ok || result.Empty() {
			sb.WriteString("_No content._\n\n")
			continue
		}
		sb.WriteString(renderBody(result))
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderBody(result sections.SectionResult) string {
	switch s := result.(type) {
	case sections.SummarySection:
		return s.Summary + "\n"
	case sections.SynopsisSection:
		return s.Synopsis + "\n"
	case sections.AccomplishmentsSection:
		return renderList(s.Accomplishments)
	case sections.FrustrationsSection:
		return renderList(s.Frustrations)
	case sections.ToneMoodSection:
		return fmt.Sprintf("**Mood**: %s\n\n**Indicators**: %s\n", s.Mood, s.Indicators)
	case sections.DiscussionNotesSection:
		return renderDiscussion(s.Notes)
	case sections.CommandsSection:
		return renderCodeBlock(s.Commands)
	case sections.CommitMetadataSection:
		return renderMetadata(s.Fields)
	default:
		return ""
	}
}

func renderList(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		fmt.Fprintf(&sb, "- %s\n", item)
	}
	return sb.String()
}

func renderDiscussion(notes []sections.DiscussionNote) string {
	var sb strings.Builder
	for _, n := range notes {
		if n.Speaker != "" && n.Quote != "" {
			fmt.Fprintf(&sb, "- **%s**: %q\n", n.Speaker, n.Quote)
		} else if n.Note != "" {
			fmt.Fprintf(&sb, "- %s\n", n.Note)
		}
	}
	return sb.String()
}

func renderCodeBlock(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("```shell\n")
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	sb.WriteString("```\n")
	return sb.String()
}

func renderMetadata(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "- **%s**: %s\n", k, fields[k])
	}
	return sb.String()
}
