package sections

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptAssetYAML []byte

// promptData is what every generator's template sees. Not every field is
// used by every template (tonemood has no ChangedFiles, for instance) —
// text/template silently permits unused fields.
type promptData struct {
	PreviousEntry string
	DiffSummary   string
	ChangedFiles  []string
	Messages      []promptMessage
}

type promptMessage struct {
	Role string
	Text string
}

var promptTemplates map[string]*template.Template

func init() {
	var raw map[string]string
	if err := yaml.Unmarshal(promptAssetYAML, &raw); err != nil {
		panic(fmt.Sprintf("sections: invalid prompts.yaml: %v", err))
	}
	promptTemplates = make(map[string]*template.Template, len(raw))
	for name, body := range raw {
		tmpl, err := template.New(name).Parse(body)
		if err != nil {
			panic(fmt.Sprintf("sections: invalid %s prompt template: %v", name, err))
		}
		promptTemplates[name] = tmpl
	}
}

// renderPrompt fills the named template (matching a top-level key in
// prompts.yaml) with jc.
func renderPrompt(name string, jc JournalContext) (string, error) {
	tmpl, ok := promptTemplates[name]
	if !ok {
		return "", fmt.Errorf("sections: no prompt template named %q", name)
	}

	data := promptData{
		PreviousEntry: jc.PreviousEntry,
		DiffSummary:   jc.GitContext.DiffSummary,
		ChangedFiles:  jc.GitContext.ChangedFiles,
	}
	for _, m := range jc.ChatHistory {
		data.Messages = append(data.Messages, promptMessage{Role: string(m.Role), Text: m.Text})
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("sections: render %s prompt: %w", name, err)
	}
	return sb.String(), nil
}
