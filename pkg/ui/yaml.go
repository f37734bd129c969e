package ui

import (
	"io"

	"gopkg.in/yaml.v3"
)

// yamlRenderer writes machine-readable YAML, one document per call.
type yamlRenderer struct {
	encoder *yaml.Encoder
}

func newYAMLRenderer(output io.Writer) *yamlRenderer {
	encoder := yaml.NewEncoder(output)
	encoder.SetIndent(2)
	return &yamlRenderer{encoder: encoder}
}

// RenderResult encodes any result type as YAML.
func (r *yamlRenderer) RenderResult(result interface{}) error {
	return r.encoder.Encode(result)
}

// RenderError encodes an error as a YAML mapping.
func (r *yamlRenderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]string{"error": err.Error()})
}

// RenderMessage encodes a plain message as a YAML mapping.
func (r *yamlRenderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
