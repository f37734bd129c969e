package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/overlink/overlink/pkg/style"
	"github.com/overlink/overlink/pkg/types"
)

// terminalRenderer writes rich output using the style registry.
type terminalRenderer struct {
	output io.Writer
}

// RenderResult renders a command result with terminal styling.
func (r *terminalRenderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *types.ApplyResult:
		return r.renderReport(applyHeader(v), applyChanges(v), applySummary(v), v.DryRun)
	case *types.CleanResult:
		return r.renderReport(cleanHeader(v), cleanChanges(v), cleanSummary(v), v.DryRun)
	case *types.GenConfigResult:
		return r.renderGenConfig(v)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *terminalRenderer) renderReport(header string, changes []style.Change, summary string, dryRun bool) error {
	var report strings.Builder
	report.WriteString(style.GetStyle("SubHeader").Render(header) + "\n")
	if len(changes) > 0 {
		report.WriteString("\n" + style.RenderChanges(changes) + "\n\n")
	}

	summaryStyle := "Success"
	if dryRun {
		summaryStyle = "DryRunBanner"
	}
	report.WriteString(style.GetStyle(summaryStyle).Render(summary) + "\n")

	_, err := io.WriteString(r.output, report.String())
	return err
}

func (r *terminalRenderer) renderGenConfig(result *types.GenConfigResult) error {
	if len(result.FilesWritten) > 0 {
		for _, path := range result.FilesWritten {
			line := style.GetStyle("Success").Render("wrote") + " " +
				style.GetStyle("FilePath").Render(path)
			if _, err := fmt.Fprintln(r.output, line); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := io.WriteString(r.output, result.ConfigContent)
	return err
}

// RenderError renders an error with error styling.
func (r *terminalRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintln(r.output, style.GetStyle("Error").Render("Error: "+err.Error()))
	return werr
}

// RenderMessage renders a message with info styling.
func (r *terminalRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, style.GetStyle("Info").Render(msg))
	return err
}
