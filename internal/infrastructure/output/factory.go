package output

import (
	"fmt"
	"io"

	"github.com/reglet-dev/recast/internal/application/ports"
)

// FormatterFactory creates formatters by name.
type FormatterFactory struct{}

// NewFormatterFactory creates a new formatter factory.
func NewFormatterFactory() *FormatterFactory {
	return &FormatterFactory{}
}

// Create returns a formatter for the given format name.
func (f *FormatterFactory) Create(
	format string,
	writer io.Writer,
	options ports.FormatterOptions,
) (ports.OutputFormatter, error) {
	switch format {
	case "table":
		return NewTableFormatter(writer, options), nil
	case "markdown":
		return NewMarkdownFormatter(writer, options), nil
	case "csv":
		return NewCSVFormatter(writer, options), nil
	case "json":
		return NewJSONFormatter(writer, options), nil
	case "yaml":
		return NewYAMLFormatter(writer, options), nil
	case "junit":
		return NewJUnitFormatter(writer, options), nil
	case "sarif":
		return NewSARIFFormatter(writer, options), nil
	default:
		return nil, fmt.Errorf(
			"unknown format: %s (supported: %v)",
			format, f.SupportedFormats(),
		)
	}
}

// SupportedFormats returns list of available format names.
func (f *FormatterFactory) SupportedFormats() []string {
	return []string{"table", "markdown", "csv", "json", "yaml", "junit", "sarif"}
}
