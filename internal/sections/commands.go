package sections

import (
	"regexp"
	"strings"

	"github.com/untoldecay/commitjournal/internal/chatmodel"
)

// fencedShellBlock matches a Markdown fenced code block tagged as a shell
// language, capturing its body.
var fencedShellBlock = regexp.MustCompile("(?s)```(?:bash|sh|shell|console)\\n(.*?)```")

// GenerateCommands produces the Terminal Commands section. This is the
// supplemented-feature resolution of spec.md §9's open question: the
// section's evidence source is shell command lines inside fenced
// bash/sh/shell/console code blocks in assistant messages, already present
// in the chat transcript C5 collects — no LLM call needed, since the
// transcript is the ground truth.
func GenerateCommands(jc JournalContext) CommandsSection {
	var commands []string
	for _, m := range jc.ChatHistory {
		if m.Role != chatmodel.RoleAssistant {
			continue
		}
		for _, block := range fencedShellBlock.FindAllStringSubmatch(m.Text, -1) {
			commands = append(commands, splitCommandLines(block[1])...)
		}
	}
	return CommandsSection{Commands: commands}
}

func splitCommandLines(body string) []string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
