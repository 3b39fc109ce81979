package output

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spiffcs/sepwatch/internal/model"
	"github.com/spiffcs/sepwatch/internal/service"
)

func sampleResult() *service.RunResult {
	return &service.RunResult{
		Results: []service.ItemResult{
			{
				Item: model.SEPItem{Number: 100, Title: "Add streaming transport", State: model.StateProposal},
				Analysis: model.StaleAnalysis{
					DaysSinceActivity: 95,
					ShouldPing:        true,
					PingTarget:        model.TargetAuthor,
					Reason:            "proposal inactive for 95 days (threshold: 90)",
				},
				Executed: true,
			},
			{
				Item: model.SEPItem{Number: 101, Title: "Deprecate v1 handshake", State: model.StateProposal},
				Analysis: model.StaleAnalysis{
					DaysSinceActivity: 200,
					ShouldMarkDormant: true,
					ShouldClose:       true,
					Reason:            "proposal inactive for 200 days (threshold: 180)",
				},
				Executed: true,
			},
			{
				Item: model.SEPItem{Number: 102, Title: "Session resumption", State: model.StateFinal},
				Analysis: model.StaleAnalysis{
					DaysSinceActivity: 400,
				},
			},
			{
				Item: model.SEPItem{Number: 103, Title: "Broken item", State: model.StateDraft},
				Err:  errors.New("fetch failed"),
			},
		},
		Pinged:   1,
		Closed:   1,
		NoOps:    1,
		Failures: 1,
	}
}

func TestTableFormat(t *testing.T) {
	var buf strings.Builder
	if err := (&TableFormatter{}).Format(sampleResult(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"#100", "PING", "ping author",
		"#101", "CLOSE",
		"#102", "Session resumption",
		"#103", "ERROR", "fetch failed",
		"analyzed 4 SEPs",
		"1 pinged",
		"1 marked dormant and closed",
		"1 failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q\nOutput:\n%s", want, out)
		}
	}
}

func TestTableFormatEmpty(t *testing.T) {
	var buf strings.Builder
	if err := (&TableFormatter{}).Format(&service.RunResult{}, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No open SEPs found.") {
		t.Errorf("empty result should say so, got: %s", buf.String())
	}
}

func TestTableFormatDryRun(t *testing.T) {
	result := sampleResult()
	result.DryRun = true

	var buf strings.Builder
	if err := (&TableFormatter{}).Format(result, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "dry-run, nothing was changed") {
		t.Errorf("dry-run banner missing from footer")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf strings.Builder
	if err := (&JSONFormatter{}).Format(sampleResult(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var report struct {
		DryRun   bool `json:"dryRun"`
		Analyzed int  `json:"analyzed"`
		Pinged   int  `json:"pinged"`
		Closed   int  `json:"closed"`
		Failures int  `json:"failures"`
		Items    []struct {
			Number int    `json:"number"`
			Action string `json:"action"`
			Error  string `json:"error"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(buf.String()), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if report.Analyzed != 4 || report.Pinged != 1 || report.Closed != 1 || report.Failures != 1 {
		t.Errorf("summary counts wrong: %+v", report)
	}
	if report.Items[0].Action != "PING" || report.Items[1].Action != "CLOSE" {
		t.Errorf("item actions wrong: %+v", report.Items)
	}
	if report.Items[3].Error != "fetch failed" {
		t.Errorf("item error not flattened: %+v", report.Items[3])
	}
}

func TestMarkdownFormat(t *testing.T) {
	var buf strings.Builder
	if err := (&MarkdownFormatter{}).Format(sampleResult(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# SEP Staleness Report",
		"| SEP | State | Days | Action | Detail |",
		"| #100 | proposal | 95 | PING |",
		"| #103 | draft | - | ERROR | fetch failed |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q\nOutput:\n%s", want, out)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("json format should select JSONFormatter")
	}
	if _, ok := NewFormatter(FormatMarkdown).(*MarkdownFormatter); !ok {
		t.Error("markdown format should select MarkdownFormatter")
	}
	if _, ok := NewFormatter("anything-else").(*TableFormatter); !ok {
		t.Error("unknown format should fall back to table")
	}
}
