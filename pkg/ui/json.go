package ui

import (
	"encoding/json"
	"io"
)

// jsonRenderer writes machine-readable JSON, one document per call.
type jsonRenderer struct {
	encoder *json.Encoder
}

func newJSONRenderer(output io.Writer) *jsonRenderer {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &jsonRenderer{encoder: encoder}
}

// RenderResult encodes any result type as JSON.
func (r *jsonRenderer) RenderResult(result interface{}) error {
	return r.encoder.Encode(result)
}

// RenderError encodes an error as a JSON object.
func (r *jsonRenderer) RenderError(err error) error {
	return r.encoder.Encode(map[string]string{"error": err.Error()})
}

// RenderMessage encodes a plain message as a JSON object.
func (r *jsonRenderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
