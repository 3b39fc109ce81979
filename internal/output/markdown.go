package output

import (
	"fmt"
	"io"

	"github.com/spiffcs/sepwatch/internal/service"
)

// MarkdownFormatter formats the run report as GitHub-flavored markdown,
// suitable for a CI job summary.
type MarkdownFormatter struct{}

// Format outputs the run report as markdown
func (f *MarkdownFormatter) Format(result *service.RunResult, w io.Writer) error {
	fmt.Fprintln(w, "# SEP Staleness Report")
	fmt.Fprintln(w)
	if result.DryRun {
		fmt.Fprintln(w, "> Dry run: no changes were made.")
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Analyzed **%d** open SEPs: %d pinged, %d closed, %d unchanged, %d failed.\n",
		len(result.Results), result.Pinged, result.Closed, result.NoOps, result.Failures)
	fmt.Fprintln(w)

	if len(result.Results) == 0 {
		return nil
	}

	fmt.Fprintln(w, "| SEP | State | Days | Action | Detail |")
	fmt.Fprintln(w, "|-----|-------|------|--------|--------|")

	for _, res := range result.Results {
		ref := fmt.Sprintf("#%d", res.Item.Number)
		if res.Item.HTMLURL != "" {
			ref = fmt.Sprintf("[#%d](%s)", res.Item.Number, res.Item.HTMLURL)
		}

		days := "-"
		if res.Err == nil {
			days = fmt.Sprintf("%d", res.Analysis.DaysSinceActivity)
		}

		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			ref, res.Item.State, days, actionLabel(res), detail(res))
	}

	return nil
}
