package output

import (
	"encoding/json"
	"io"

	"github.com/reglet-dev/recast/internal/application/dto"
	"github.com/reglet-dev/recast/internal/application/ports"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	writer  io.Writer
	options ports.FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(w io.Writer, options ports.FormatterOptions) *JSONFormatter {
	return &JSONFormatter{writer: w, options: options}
}

// Format writes the response as JSON.
func (f *JSONFormatter) Format(resp *dto.ConvertResponse) error {
	enc := json.NewEncoder(f.writer)
	if f.options.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(newBatchView(resp, f.options.MinSeverity, f.options.Tree))
}
