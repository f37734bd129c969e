package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/overlink/overlink/pkg/style"
	"github.com/overlink/overlink/pkg/types"
)

// textRenderer writes plain output without colors or styling.
type textRenderer struct {
	output io.Writer
}

// RenderResult renders a command result as plain text.
func (r *textRenderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *types.ApplyResult:
		return r.renderReport(applyHeader(v), applyChanges(v), applySummary(v))
	case *types.CleanResult:
		return r.renderReport(cleanHeader(v), cleanChanges(v), cleanSummary(v))
	case *types.GenConfigResult:
		return r.renderGenConfig(v)
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *textRenderer) renderReport(header string, changes []style.Change, summary string) error {
	var report strings.Builder
	report.WriteString(header + "\n")
	if len(changes) > 0 {
		report.WriteString("\n")
		for _, c := range changes {
			report.WriteString(plainChange(c) + "\n")
		}
		report.WriteString("\n")
	}
	report.WriteString(summary + "\n")

	_, err := io.WriteString(r.output, report.String())
	return err
}

func (r *textRenderer) renderGenConfig(result *types.GenConfigResult) error {
	if len(result.FilesWritten) > 0 {
		for _, path := range result.FilesWritten {
			if _, err := fmt.Fprintf(r.output, "wrote %s\n", path); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := io.WriteString(r.output, result.ConfigContent)
	return err
}

// plainChange renders one change line without styling.
func plainChange(c style.Change) string {
	if c.Detail != "" {
		return fmt.Sprintf("  %-9s %s -> %s", string(c.Action), c.Path, c.Detail)
	}
	return fmt.Sprintf("  %-9s %s", string(c.Action), c.Path)
}

// RenderError renders an error as plain text.
func (r *textRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return werr
}

// RenderMessage renders a plain message.
func (r *textRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
