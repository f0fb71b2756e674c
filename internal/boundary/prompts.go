package boundary

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/untoldecay/commitjournal/internal/chatmodel"
	"github.com/untoldecay/commitjournal/internal/gitcontext"
)

//go:embed prompts.yaml
var promptAssetYAML []byte

// promptData is what the boundary template sees. Unlike sections'
// promptMessage, Messages here carry BubbleID: the filter's whole job is
// to name the bubble the commit's work starts at.
type promptData struct {
	PreviousEntry string
	DiffSummary   string
	ChangedFiles  []string
	Messages      []promptMessage
}

type promptMessage struct {
	BubbleID string
	Role     string
	Text     string
}

var promptTemplates map[string]*template.Template

func init() {
	var raw map[string]string
	if err := yaml.Unmarshal(promptAssetYAML, &raw); err != nil {
		panic(fmt.Sprintf("boundary: invalid prompts.yaml: %v", err))
	}
	promptTemplates = make(map[string]*template.Template, len(raw))
	for name, body := range raw {
		tmpl, err := template.New(name).Parse(body)
		if err != nil {
			panic(fmt.Sprintf("boundary: invalid %s prompt template: %v", name, err))
		}
		promptTemplates[name] = tmpl
	}
}

// renderPrompt fills the named template (matching a top-level key in
// prompts.yaml) with the boundary-detection inputs.
func renderPrompt(name string, messages []chatmodel.Message, gc gitcontext.GitContext, previousEntry string) (string, error) {
	tmpl, ok := promptTemplates[name]
	if !ok {
		return "", fmt.Errorf("boundary: no prompt template named %q", name)
	}

	data := promptData{
		PreviousEntry: previousEntry,
		DiffSummary:   gc.DiffSummary,
		ChangedFiles:  gc.ChangedFiles,
	}
	for _, m := range messages {
		data.Messages = append(data.Messages, promptMessage{BubbleID: m.BubbleID, Role: string(m.Role), Text: m.Text})
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("boundary: render %s prompt: %w", name, err)
	}
	return sb.String(), nil
}
