package output

import (
	"encoding/json"
	"io"

	"github.com/spiffcs/sepwatch/internal/service"
)

// JSONFormatter formats the run report as JSON
type JSONFormatter struct {
	Pretty bool
}

// jsonItem is the wire shape for one analyzed SEP. Errors are flattened
// to strings so the report round-trips through encoding/json.
type jsonItem struct {
	Number   int      `json:"number"`
	Title    string   `json:"title"`
	State    string   `json:"state"`
	Days     int      `json:"daysSinceActivity"`
	Action   string   `json:"action"`
	Target   string   `json:"pingTarget,omitempty"`
	Reason   string   `json:"reason,omitempty"`
	Error    string   `json:"error,omitempty"`
	Executed bool     `json:"executed"`
	URL      string   `json:"url,omitempty"`
	Labels   []string `json:"labels,omitempty"`
}

type jsonReport struct {
	DryRun   bool       `json:"dryRun"`
	Analyzed int        `json:"analyzed"`
	Pinged   int        `json:"pinged"`
	Closed   int        `json:"closed"`
	NoOps    int        `json:"noOps"`
	Failures int        `json:"failures"`
	Items    []jsonItem `json:"items"`
}

// Format outputs the run report as JSON
func (f *JSONFormatter) Format(result *service.RunResult, w io.Writer) error {
	report := jsonReport{
		DryRun:   result.DryRun,
		Analyzed: len(result.Results),
		Pinged:   result.Pinged,
		Closed:   result.Closed,
		NoOps:    result.NoOps,
		Failures: result.Failures,
	}

	for _, res := range result.Results {
		item := jsonItem{
			Number:   res.Item.Number,
			Title:    res.Item.Title,
			State:    string(res.Item.State),
			Action:   actionLabel(res),
			Executed: res.Executed,
			URL:      res.Item.HTMLURL,
			Labels:   res.Item.Labels,
		}
		if res.Err != nil {
			item.Error = res.Err.Error()
		} else {
			item.Days = res.Analysis.DaysSinceActivity
			item.Target = string(res.Analysis.PingTarget)
			item.Reason = res.Analysis.Reason
		}
		if res.ExecErr != nil {
			item.Error = res.ExecErr.Error()
		}
		report.Items = append(report.Items, item)
	}

	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(report)
}
