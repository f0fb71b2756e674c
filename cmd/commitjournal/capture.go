package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/untoldecay/commitjournal/internal/toolsurface"
)

var (
	captureStdin bool
	captureText  string
	captureData  string
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Record an AI context capture (a mapping, not a bare string)",
	Long: `Append an "AI Context Capture" section to today's journal.

capture_context requires a mapping {"text": "..."}: a bare string is a
BadRequest, not a successful capture of an empty or misinterpreted string.
Reads the mapping from stdin as JSON with --stdin, from a literal JSON
string with --data, or use --text directly:

  echo '{"text": "decided to use postgres for the outbox table"}' | commitjournal capture --stdin
  commitjournal capture --data '{"text": "decided to use postgres for the outbox table"}'
  commitjournal capture --text "decided to use postgres for the outbox table"`,
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().BoolVar(&captureStdin, "stdin", false, "read a JSON mapping {\"text\": \"...\"} from stdin")
	captureCmd.Flags().StringVar(&captureText, "text", "", "capture text (alternative to --stdin)")
	captureCmd.Flags().StringVar(&captureData, "data", "", "literal JSON mapping {\"text\": \"...\"} (alternative to --stdin)")
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	req, err := resolveCaptureRequest()
	if err != nil {
		return err
	}
	repo, err := resolveRepoPath()
	if err != nil {
		return err
	}
	surface, err := buildSurface(repo)
	if err != nil {
		return err
	}
	res := surface.CaptureContext(cmd.Context(), req)
	return printResult(res)
}

// resolveCaptureRequest enforces capture_context's "mapping, not string"
// contract (spec.md §8 scenario 5) at the point untyped input first enters
// the program: stdin JSON that decodes to a bare string, rather than a
// {"text": ...} object, is a structured BadRequest with an example hint.
func resolveCaptureRequest() (toolsurface.CaptureRequest, error) {
	switch {
	case captureData != "":
		return decodeCaptureJSON([]byte(captureData))
	case captureStdin:
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return toolsurface.CaptureRequest{}, fmt.Errorf("commitjournal: read stdin: %w", err)
		}
		return decodeCaptureJSON(raw)
	default:
		return toolsurface.CaptureRequest{Text: captureText}, nil
	}
}

// decodeCaptureJSON enforces capture_context's "mapping, not string"
// contract on raw JSON bytes, regardless of whether they came from stdin
// or --data.
func decodeCaptureJSON(raw []byte) (toolsurface.CaptureRequest, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return toolsurface.CaptureRequest{}, errInvalidInput{fmt.Errorf(
			`capture_context requires a mapping, not a string: pass {"text": "..."} as a mapping`,
		)}
	}

	var mapping struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &mapping); err != nil {
		return toolsurface.CaptureRequest{}, errInvalidInput{fmt.Errorf(
			`capture_context requires a mapping {"text": "..."}: %w`, err,
		)}
	}
	return toolsurface.CaptureRequest{Text: mapping.Text}, nil
}
