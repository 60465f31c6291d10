package engine

import (
	"github.com/reglet-dev/recast/internal/domain/diagnostics"
	"github.com/reglet-dev/recast/internal/domain/values"
)

// Result is one converted document with its diagnostics.
type Result struct {
	ID       values.ConversionID  `json:"id" yaml:"id"`
	Target   values.TargetVersion `json:"target_version" yaml:"target_version"`
	Document []byte               `json:"-" yaml:"-"`
	Report   *diagnostics.Report  `json:"report" yaml:"report"`
}

// HasErrors returns true if a rule failed while converting.
func (r *Result) HasErrors() bool {
	return r.Report != nil && r.Report.HasErrors()
}
