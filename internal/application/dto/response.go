package dto

import (
	"time"

	"github.com/reglet-dev/recast/internal/domain/diagnostics"
	"github.com/reglet-dev/recast/internal/engine"
)

// ConvertResponse contains the result of converting a batch.
type ConvertResponse struct {
	// Documents holds one entry per input, in input order.
	Documents []DocumentResult

	// Summary counts the messages of all documents.
	Summary diagnostics.Summary

	// Metadata contains response metadata
	Metadata ResponseMetadata
}

// DocumentResult is the outcome of one input document.
type DocumentResult struct {
	// Input is the path the document was read from.
	Input string
	// Output is the path written, empty in check mode or on failure.
	Output string
	// Result is nil when Err is set.
	Result *engine.Result
	// Err is a *apperrors.ConversionError when the document could not be
	// read, parsed, or written.
	Err error
}

// Failed returns true if the document could not be converted.
func (d DocumentResult) Failed() bool {
	return d.Err != nil
}

// Failures returns the number of documents that could not be converted.
func (r *ConvertResponse) Failures() int {
	n := 0
	for _, d := range r.Documents {
		if d.Failed() {
			n++
		}
	}
	return n
}

// HasRuleFaults returns true if a rule failed on any document.
func (r *ConvertResponse) HasRuleFaults() bool {
	return r.Summary.Error > 0
}

// ResponseMetadata contains metadata about the response.
type ResponseMetadata struct {
	// RequestID from the original request
	RequestID string

	// ProcessedAt is when the request was processed
	ProcessedAt time.Time

	// Duration is how long the request took
	Duration time.Duration
}

// RuleInfo describes one registered rule.
type RuleInfo struct {
	Name        string `json:"name" yaml:"name"`
	Node        string `json:"node" yaml:"node"`
	Target      string `json:"target" yaml:"target"`
	MinVersion  string `json:"min_version,omitempty" yaml:"min_version,omitempty"`
	Scope       string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Description string `json:"description" yaml:"description"`
	// Supported is false when the requested target version is below MinVersion.
	Supported bool `json:"supported" yaml:"supported"`
}
