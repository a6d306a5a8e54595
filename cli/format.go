package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/identityops/idctl/status"
)

// Formatter renders a status report for output. Implementations must not
// mutate the report.
type Formatter interface {
	Format(report *status.Report) ([]byte, error)
}

// formatterFor resolves a --format flag value.
func formatterFor(name string) (Formatter, error) {
	switch name {
	case "json":
		return jsonFormatter{}, nil
	case "csv":
		return csvFormatter{}, nil
	case "table":
		return tableFormatter{}, nil
	default:
		return nil, fmt.Errorf("cli: unknown format %q (want json, csv, or table)", name)
	}
}

type jsonFormatter struct{}

func (jsonFormatter) Format(report *status.Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

type csvFormatter struct{}

func (csvFormatter) Format(report *status.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"component", "level", "message"}); err != nil {
		return nil, err
	}
	for _, res := range report.Components() {
		row := []string{string(res.Check()), res.Severity().String(), res.Summary()}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type tableFormatter struct{}

func (tableFormatter) Format(report *status.Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Report %s  (%.2fs)\n", report.ID, report.CheckDurationSeconds)
	fmt.Fprintf(&buf, "Overall: %s\n\n", levelText(report.Overall()))
	fmt.Fprintf(&buf, "%-14s %-22s %s\n", "COMPONENT", "STATUS", "DETAIL")
	fmt.Fprintln(&buf, strings.Repeat("─", 72))
	for _, res := range report.Components() {
		fmt.Fprintf(&buf, "%-14s %-22s %s\n", res.Check(), levelText(res.Severity()), res.Summary())
	}
	if len(report.Failures) > 0 {
		fmt.Fprintln(&buf)
		for name, rec := range report.Failures {
			fmt.Fprintf(&buf, "%s %s: %s (%s)\n", color.RedString("✗"), name, rec.Message, rec.Kind)
		}
	}
	return buf.Bytes(), nil
}

// levelText renders a colored level marker for terminal tables.
func levelText(l status.Level) string {
	switch l {
	case status.LevelHealthy:
		return color.GreenString("✓ %s", l)
	case status.LevelWarning:
		return color.YellowString("⚠ %s", l)
	default:
		return color.RedString("✗ %s", l)
	}
}

// formatResult renders a single component for `status check --type`.
func formatResult(format string, res status.Result) ([]byte, error) {
	switch format {
	case "json":
		return json.MarshalIndent(res, "", "  ")
	case "csv":
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write([]string{"component", "level", "message"}); err != nil {
			return nil, err
		}
		if err := w.Write([]string{string(res.Check()), res.Severity().String(), res.Summary()}); err != nil {
			return nil, err
		}
		w.Flush()
		return buf.Bytes(), w.Error()
	case "table":
		return []byte(fmt.Sprintf("%-14s %-22s %s\n", res.Check(), levelText(res.Severity()), res.Summary())), nil
	default:
		return nil, fmt.Errorf("cli: unknown format %q (want json, csv, or table)", format)
	}
}
