package report

import (
	"context"
	"io"
	"sort"
	"strings"

	"labor-odds/internal/errors"
	"labor-odds/internal/model"
)

// Writer emits one forecast.
type Writer interface {
	Write(ctx context.Context, resp *model.ForecastResponse) error
}

var registry = map[string]func(io.Writer) Writer{
	"csv":  func(w io.Writer) Writer { return NewCSVWriter(w) },
	"json": func(w io.Writer) Writer { return NewJSONWriter(w) },
}

// New returns the writer registered for format.
func New(format string, w io.Writer) (Writer, error) {
	ctor, ok := registry[strings.ToLower(format)]
	if !ok {
		return nil, errors.WithHintf(errors.Wrapf(errors.ErrUnknownFormat, "%q", format),
			"supported formats: %s", strings.Join(Formats(), ", "))
	}
	return ctor(w), nil
}

func Formats() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
