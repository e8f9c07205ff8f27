package report

import (
	"context"
	"io"

	json "github.com/goccy/go-json"

	"labor-odds/internal/model"
)

// JSONWriter writes the whole forecast response, metadata included.
type JSONWriter struct {
	w io.Writer
}

func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

func (j *JSONWriter) Write(_ context.Context, resp *model.ForecastResponse) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
