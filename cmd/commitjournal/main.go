// Command commitjournal is the CLI surface for the automated developer
// journal: a post-commit hook target plus operator subcommands for
// generating entries and summaries by hand.
//
// Grounded on the teacher's cmd/bd one-subcommand-per-file shape (version.go,
// setup.go): each operation lives in its own file, registers itself on
// rootCmd from an init(), and reads/writes global package-level flag vars
// rather than threading a config struct through every Run func.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/untoldecay/commitjournal/internal/boundary"
	"github.com/untoldecay/commitjournal/internal/chatcollect"
	"github.com/untoldecay/commitjournal/internal/config"
	"github.com/untoldecay/commitjournal/internal/llm"
	"github.com/untoldecay/commitjournal/internal/orchestrator"
	"github.com/untoldecay/commitjournal/internal/platform"
	"github.com/untoldecay/commitjournal/internal/summary"
	"github.com/untoldecay/commitjournal/internal/telemetry"
	"github.com/untoldecay/commitjournal/internal/toolsurface"
)

// Exit codes per spec §7: 0 success, 1 generic error, 2 invalid input
// (BadRequest), 3 missing configuration (InvalidKey / unresolvable setup).
const (
	exitOK            = 0
	exitError         = 1
	exitInvalidInput  = 2
	exitMissingConfig = 3
)

var (
	jsonOutput bool
	repoPath   string
)

var rootCmd = &cobra.Command{
	Use:   "commitjournal",
	Short: "Automated developer journal synthesized from commits and IDE chat history",
	Long: `commitjournal turns every git commit into a journal entry: it pairs the
commit's diff with the AI chat history that produced it, asks an LLM to
write up what happened, and appends the result to a Markdown journal.

Typically invoked from a post-commit hook (see 'commitjournal hook'), but
every operation is also available standalone for manual use or scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit machine-readable JSON instead of human-readable output")
	rootCmd.PersistentFlags().StringVar(&repoPath, "repo", "", "path to the git repository (default: current directory)")
}

func main() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "commitjournal: config: %v\n", err)
		os.Exit(exitMissingConfig)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     config.GetBool("telemetry.enabled"),
		ServiceName: config.GetString("telemetry.service_name"),
		Exporters:   config.TelemetryExporters(),
		Debug:       config.GetBool("telemetry.debug"),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "commitjournal: telemetry: %v\n", err)
	}

	rootCmd.SetContext(ctx)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleError(fmt.Sprintf("commitjournal: %v", err)))
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a returned error to spec §7's exit code taxonomy.
// Subcommands that need exitInvalidInput or exitMissingConfig wrap their
// error with errInvalidInput/errMissingConfig; anything else is generic.
func exitCodeFor(err error) int {
	switch {
	case isInvalidInput(err):
		return exitInvalidInput
	case isMissingConfig(err):
		return exitMissingConfig
	default:
		return exitError
	}
}

// resolveRepoPath returns --repo, or the current working directory.
func resolveRepoPath() (string, error) {
	if repoPath != "" {
		return repoPath, nil
	}
	return os.Getwd()
}

// journalRoot returns the configured journal root, relative to repoPath
// when not absolute.
func journalRoot(repo string) string {
	root := config.GetString("journal.root")
	if root == "" {
		root = "journal/"
	}
	if !isAbs(root) {
		return repo + string(os.PathSeparator) + root
	}
	return root
}

func isAbs(p string) bool {
	return len(p) > 0 && (p[0] == '/' || p[0] == '\\' || (len(p) > 1 && p[1] == ':'))
}

// buildGenerators wires C1-C12 into an orchestrator and summary generator,
// the dependency graph both the toolsurface (buildSurface) and the
// post-commit hook (hook.go) share.
func buildGenerators(repo string) (*orchestrator.Orchestrator, *summary.Generator, string, error) {
	root := journalRoot(repo)

	apiKey := config.AIAPIKey("ANTHROPIC_API_KEY")
	client, err := llm.New(apiKey,
		llm.WithModel(config.GetString("ai.model")),
		llm.WithAudit(root),
	)
	if err != nil {
		return nil, nil, "", errMissingConfig{err}
	}

	// guard wraps the same Client instance passed to both the boundary
	// filter and the section generators, so a revoked/invalid key seen by
	// either surfaces as a single fatal signal the orchestrator checks for
	// (see orchestrator.go), rather than two independent per-call failures
	// that each degrade silently.
	guard := llm.NewKeyGuard(client)
	resolver := platform.New()
	collector := chatcollect.New(resolver, config.GetInt("chat.max_messages"))
	filter := boundary.New(guard, config.GetInt("boundary.min_confidence"))
	orch := orchestrator.New(collector, filter, guard)
	summaries := summary.New(root, client)

	return orch, summaries, root, nil
}

// buildSurface wires C1-C12 into a toolsurface.Surface for the operator
// subcommands (generate/reflect/capture/summary).
func buildSurface(repo string) (*toolsurface.Surface, error) {
	orch, summaries, root, err := buildGenerators(repo)
	if err != nil {
		return nil, err
	}
	return toolsurface.New(orch, summaries, root, repo), nil
}

// errInvalidInput marks an error as spec §7's BadRequest category for
// exit-code purposes.
type errInvalidInput struct{ err error }

func (e errInvalidInput) Error() string { return e.err.Error() }
func (e errInvalidInput) Unwrap() error { return e.err }

// errMissingConfig marks an error as spec §7's missing-configuration
// category (no API key, unreadable config file).
type errMissingConfig struct{ err error }

func (e errMissingConfig) Error() string { return e.err.Error() }
func (e errMissingConfig) Unwrap() error { return e.err }

func isInvalidInput(err error) bool {
	_, ok := err.(errInvalidInput)
	return ok
}

func isMissingConfig(err error) bool {
	_, ok := err.(errMissingConfig)
	return ok
}

// printResult renders a toolsurface.Result as JSON (--json) or a short
// human-readable line, and converts a Result.Error into a Go error
// carrying the right exit-code category.
func printResult(res toolsurface.Result) error {
	if jsonOutput {
		return printJSON(res)
	}
	if res.Status == "error" {
		return resultError(res)
	}
	if res.Skipped {
		fmt.Println(styleMuted("skipped: no non-journal files changed"))
		return nil
	}
	if res.FilePath != "" {
		fmt.Println(styleSuccess(res.FilePath))
	} else {
		fmt.Println(styleSuccess("ok"))
	}
	return nil
}

func resultError(res toolsurface.Result) error {
	if res.Error == nil {
		return fmt.Errorf("commitjournal: unknown error")
	}
	msg := fmt.Sprintf("%s: %s", res.Error.Category, res.Error.Message)
	if res.Error.Hint != "" {
		msg += " (hint: " + res.Error.Hint + ")"
	}
	err := fmt.Errorf("%s", msg)
	switch res.Error.Category {
	case toolsurface.CategoryBadRequest:
		return errInvalidInput{err}
	case toolsurface.CategoryInvalidKey:
		return errMissingConfig{err}
	default:
		return err
	}
}

// parseDateFlag resolves a --date flag value to "" (meaning "now") or a
// canonical YYYY-MM-DD string, accepting either form directly or a
// natural-language phrase ("yesterday", "last monday").
func parseDateFlag(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if _, err := time.Parse("2006-01-02", raw); err == nil {
		return raw, nil
	}
	t, err := parseNaturalDate(raw)
	if err != nil {
		return "", errInvalidInput{fmt.Errorf("unrecognized date %q: %w", raw, err)}
	}
	return t.Format("2006-01-02"), nil
}
