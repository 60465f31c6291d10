// Package dto contains data transfer objects for application layer use cases.
package dto

import (
	"github.com/reglet-dev/recast/internal/domain/values"
)

// ConvertRequest encapsulates all inputs needed to convert a batch of documents.
type ConvertRequest struct {
	// Inputs are document paths, converted in this order.
	Inputs []string
	// OutputDir receives the converted documents. Ignored in check mode.
	OutputDir string
	Options   ConvertOptions
	Metadata  RequestMetadata
}

// ConvertOptions controls how the batch is converted.
type ConvertOptions struct {
	// Check converts without writing any document.
	Check bool

	// Parallelism limits concurrent conversions (0 = number of CPUs)
	Parallelism int

	// Tenant overrides the configured tenant policy for this batch.
	Tenant *values.TenantPolicy
}

// RequestMetadata contains metadata for request tracking.
type RequestMetadata struct {
	// RequestID uniquely identifies this request
	RequestID string
}

// ListRulesRequest selects the rules to describe.
type ListRulesRequest struct {
	// Namespace is a short name such as "camunda" or "bpmn".
	Namespace string
	// Node is "element" or "attribute".
	Node string
	// FilterExpression is an expr-lang expression over the rule environment.
	FilterExpression string
	// Target marks rules that need a later version than this one.
	Target values.TargetVersion
}
