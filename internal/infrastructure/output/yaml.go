package output

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/reglet-dev/recast/internal/application/dto"
	"github.com/reglet-dev/recast/internal/application/ports"
)

// YAMLFormatter formats reports as YAML.
type YAMLFormatter struct {
	writer  io.Writer
	options ports.FormatterOptions
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer, options ports.FormatterOptions) *YAMLFormatter {
	return &YAMLFormatter{writer: w, options: options}
}

// Format writes the response as YAML.
func (f *YAMLFormatter) Format(resp *dto.ConvertResponse) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(newBatchView(resp, f.options.MinSeverity, f.options.Tree)); err != nil {
		return err
	}

	return encoder.Close()
}
