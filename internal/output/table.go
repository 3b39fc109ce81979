package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/spiffcs/sepwatch/internal/format"
	"github.com/spiffcs/sepwatch/internal/model"
	"github.com/spiffcs/sepwatch/internal/service"
)

// TableFormatter formats the run report as a terminal table
type TableFormatter struct{}

// hyperlink creates a clickable terminal hyperlink using OSC 8
// Format: \033]8;;URL\033\\TEXT\033]8;;\033\\
func hyperlink(text, url string) string {
	if url == "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// Format outputs the run report as a table
func (f *TableFormatter) Format(result *service.RunResult, w io.Writer) error {
	if len(result.Results) == 0 {
		fmt.Fprintln(w, "No open SEPs found.")
		return nil
	}

	const (
		colNumber = 6
		colState  = 10
		colDays   = 5
		colAction = 8
		colTitle  = 44
		colAge    = 5
	)

	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %-*s  %-*s  %-*s  %s\n",
		colNumber, "SEP",
		colState, "State",
		colDays, "Days",
		colAction, "Action",
		colTitle, "Title",
		colAge, "Age",
		"Detail")
	fmt.Fprintln(w, strings.Repeat("-", colNumber+colState+colDays+colAction+colTitle+colAge+32))

	for _, res := range result.Results {
		item := res.Item

		title, visibleTitleLen := format.TruncateToWidth(item.Title, colTitle)
		linkedTitle := format.PadRight(hyperlink(title, item.HTMLURL), visibleTitleLen, colTitle)

		actionPlain := actionLabel(res)
		actionStr := format.PadRight(colorAction(res), len(actionPlain), colAction)

		days := "-"
		if res.Err == nil {
			days = fmt.Sprintf("%d", res.Analysis.DaysSinceActivity)
		}

		age := "-"
		if !item.UpdatedAt.IsZero() {
			age = format.FormatAge(time.Since(item.UpdatedAt))
		}

		fmt.Fprintf(w, "#%-*d  %-*s  %-*s  %s  %s  %-*s  %s\n",
			colNumber-1, item.Number,
			colState, item.State,
			colDays, days,
			actionStr,
			linkedTitle,
			colAge, age,
			detail(res),
		)
	}

	printFooterSummary(result, w)
	return nil
}

// actionLabel names the decision taken for one item
func actionLabel(res service.ItemResult) string {
	switch {
	case res.Err != nil, res.ExecErr != nil:
		return "ERROR"
	case res.Analysis.ShouldClose:
		return "CLOSE"
	case res.Analysis.ShouldPing:
		return "PING"
	default:
		return "-"
	}
}

func colorAction(res service.ItemResult) string {
	switch actionLabel(res) {
	case "ERROR":
		return color.RedString("ERROR")
	case "CLOSE":
		return color.RedString("CLOSE")
	case "PING":
		return color.YellowString("PING")
	default:
		return "-"
	}
}

// detail builds the trailing explanation column
func detail(res service.ItemResult) string {
	if res.Err != nil {
		return res.Err.Error()
	}
	if res.ExecErr != nil {
		return res.ExecErr.Error()
	}
	if res.Analysis.ShouldPing && res.Analysis.PingTarget != model.TargetNone {
		return fmt.Sprintf("ping %s: %s", res.Analysis.PingTarget, res.Analysis.Reason)
	}
	return res.Analysis.Reason
}

// printFooterSummary prints counts for the whole pass
func printFooterSummary(result *service.RunResult, w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("━", 60))

	mode := ""
	if result.DryRun {
		mode = color.CyanString(" (dry-run, nothing was changed)")
	}
	fmt.Fprintf(w, "  analyzed %d SEPs%s\n", len(result.Results), mode)

	if result.Pinged > 0 {
		fmt.Fprintf(w, "  %s %d pinged\n", color.YellowString("●"), result.Pinged)
	}
	if result.Closed > 0 {
		fmt.Fprintf(w, "  %s %d marked dormant and closed\n", color.RedString("●"), result.Closed)
	}
	if result.NoOps > 0 {
		fmt.Fprintf(w, "  ○ %d needed no action\n", result.NoOps)
	}
	if result.Failures > 0 {
		fmt.Fprintf(w, "  %s %d failed\n", color.RedString("✗"), result.Failures)
	}
}
