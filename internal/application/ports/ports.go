// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"

	"github.com/reglet-dev/recast/internal/application/dto"
	"github.com/reglet-dev/recast/internal/domain/rules"
	"github.com/reglet-dev/recast/internal/domain/values"
	"github.com/reglet-dev/recast/internal/engine"
)

// DocumentConverter converts one document. *engine.Converter implements it.
type DocumentConverter interface {
	Convert(doc []byte, opts ...engine.CallOption) (*engine.Result, error)
	Registry() *rules.Registry
}

// DocumentReader reads input documents.
type DocumentReader interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

// DocumentWriter writes converted documents below a destination directory.
type DocumentWriter interface {
	// Write stores data as name inside dir and returns the written path.
	Write(ctx context.Context, dir, name string, data []byte) (string, error)
}

// Redactor scrubs secrets from report text.
type Redactor interface {
	ScrubString(input string) string
}

// OutputFormatter renders a batch conversion response.
type OutputFormatter interface {
	Format(resp *dto.ConvertResponse) error
}

// FormatterOptions configures a formatter.
type FormatterOptions struct {
	// MinSeverity hides messages below it. The zero value shows everything.
	MinSeverity values.Severity
	// Indent pretty-prints JSON.
	Indent bool
	// Color enables ANSI colors in table output.
	Color bool
	// Tree renders messages grouped by element instead of as a flat list.
	Tree bool
	// ToolVersion is reported in SARIF output.
	ToolVersion string
}
