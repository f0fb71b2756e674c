package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/untoldecay/commitjournal/internal/summary"
)

var (
	showDate   string
	showPeriod string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a journal entry or summary file",
	Long: `Print a day's journal file, or (with --period) a weekly/monthly/
quarterly/yearly summary file named by --date, which must then be the
period's first day (a Monday, the 1st of a month, a quarter's first day,
or January 1). Renders as colorized
Markdown on a terminal, plain Markdown otherwise (redirected output);
with --json, prints the file's path and content as a JSON object.`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showDate, "date", "", "date to show (default: today)")
	showCmd.Flags().StringVar(&showPeriod, "period", "daily", "daily|weekly|monthly|quarterly|yearly")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	repo, err := resolveRepoPath()
	if err != nil {
		return err
	}
	date, err := parseDateFlag(showDate)
	if err != nil {
		return err
	}
	when := time.Now()
	if date != "" {
		when, err = time.Parse("2006-01-02", date)
		if err != nil {
			return errInvalidInput{err}
		}
	}

	root := journalRoot(repo)
	path, err := showPath(root, when)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errInvalidInput{fmt.Errorf("no %s journal file for %s", showPeriod, when.Format("2006-01-02"))}
		}
		return fmt.Errorf("commitjournal: read %s: %w", path, err)
	}

	if jsonOutput {
		return printJSON(map[string]string{"path": path, "content": string(data)})
	}
	fmt.Print(render(string(data)))
	return nil
}

func showPath(root string, when time.Time) (string, error) {
	if showPeriod == "" || showPeriod == string(summary.Daily) {
		return filepath.Join(root, "daily", when.Format("2006-01-02")+"-journal.md"), nil
	}
	period := summary.Period(showPeriod)
	switch period {
	case summary.Weekly, summary.Monthly, summary.Quarterly, summary.Yearly:
		return filepath.Join(root, "summaries", showPeriod, when.Format("2006-01-02")+"-"+showPeriod+".md"), nil
	default:
		return "", errInvalidInput{fmt.Errorf("unknown --period %q", showPeriod)}
	}
}

// render renders markdown as colorized terminal output when stdout is a
// TTY, and passes it through unchanged otherwise (pipes, redirects).
func render(markdown string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return markdown
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
