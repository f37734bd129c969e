// Package ui renders command results in terminal, plain text, JSON and
// YAML form behind a single Renderer interface.
package ui

import (
	"io"
	"os"

	"github.com/overlink/overlink/pkg/errors"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderResult renders a command result
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for the given format. Auto probes the
// output's terminal capabilities to pick between terminal and text.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		// Not a real file, so there is no terminal to probe.
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return &terminalRenderer{output: output}, nil
	case FormatText:
		return &textRenderer{output: output}, nil
	case FormatJSON:
		return newJSONRenderer(output), nil
	case FormatYAML:
		return newYAMLRenderer(output), nil
	default:
		return nil, errors.Newf(errors.ErrInternal, "unknown format: %v", format)
	}
}
