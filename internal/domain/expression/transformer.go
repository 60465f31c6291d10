// Package expression translates JUEL expressions (${...} and #{...}) into FEEL.
//
// Only a known-safe subset is translated: identifiers, property chains,
// literals, comparison, logical and arithmetic operators and the ternary
// operator. Anything else becomes a manual follow-up marker; the transformer
// never guesses.
package expression

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr/parser"
)

// Result is the outcome of one translation.
type Result struct {
	// Original is the raw input.
	Original string
	// Expression is the value to write into the target document. For
	// literals it is the FEEL string literal, for translations "=<feel>", and
	// for non-translatable input the manual follow-up marker.
	Expression string
	// BestEffort is the partial translation shown next to Original when
	// NeedsReview is set.
	BestEffort string
	// Literal is set when the input had no expression delimiter.
	Literal bool
	// NeedsReview is set when Expression is the manual follow-up marker.
	NeedsReview bool
	// Reason explains NeedsReview.
	Reason string
}

// FEEL returns the expression without its leading "=", as used inside
// other FEEL expressions.
func (r Result) FEEL() string {
	return strings.TrimPrefix(r.Expression, "=")
}

// Static returns the plain value for target attributes that accept either a
// static value or an expression.
func (r Result) Static() string {
	if r.Literal {
		return r.Original
	}
	return r.Expression
}

// defaultContextObjects are engine objects that have no FEEL counterpart.
var defaultContextObjects = []string{
	"execution", "task", "delegateTask", "authenticatedUserId",
	"variableScope", "connector", "externalTask", "processEngine",
}

// Transformer translates expressions. The zero value is not usable; use New.
type Transformer struct {
	contextObjects map[string]bool
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithContextObjects adds identifiers that must never be translated.
func WithContextObjects(names ...string) Option {
	return func(t *Transformer) {
		for _, n := range names {
			t.contextObjects[n] = true
		}
	}
}

// New creates a Transformer.
func New(opts ...Option) *Transformer {
	t := &Transformer{contextObjects: make(map[string]bool, len(defaultContextObjects))}
	for _, n := range defaultContextObjects {
		t.contextObjects[n] = true
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform translates raw. It never panics and never fails; input that
// cannot be translated yields the manual follow-up marker.
func (t *Transformer) Transform(raw string) (res Result) {
	res.Original = raw
	defer func() {
		if r := recover(); r != nil {
			res = manual(raw, raw, fmt.Sprintf("translation failed: %v", r))
		}
	}()

	trimmed := strings.TrimSpace(raw)
	inner, wrapped := unwrap(trimmed)
	if !wrapped {
		if hasDelimiter(trimmed) {
			return manual(raw, trimmed, "composite template mixing text and expressions")
		}
		return Result{
			Original:   raw,
			Expression: "=" + Quote(raw),
			Literal:    true,
		}
	}

	normalized, hasEmpty := normalizeOperators(inner)
	if hasEmpty {
		return manual(raw, normalized, "the 'empty' operator has no direct equivalent")
	}
	if strings.TrimSpace(normalized) == "" {
		return manual(raw, normalized, "empty expression")
	}

	tree, err := parser.Parse(normalized)
	if err != nil {
		return manual(raw, normalized, "expression could not be parsed")
	}

	r := &renderer{contextObjects: t.contextObjects}
	out := r.node(tree.Node, precLowest)
	if len(r.issues) > 0 {
		return manual(raw, out, strings.Join(r.issues, "; "))
	}
	return Result{
		Original:   raw,
		Expression: "=" + out,
		BestEffort: out,
	}
}

// IsExpression reports whether raw is a single wrapped expression.
func IsExpression(raw string) bool {
	_, ok := unwrap(strings.TrimSpace(raw))
	return ok
}

// Quote renders s as a FEEL string literal.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// ManualMarker is the FEEL placeholder for expressions that need a human.
func ManualMarker(original string) string {
	return "=manualFollowUp(" + Quote(original) + ")"
}

func manual(raw, bestEffort, reason string) Result {
	return Result{
		Original:    raw,
		Expression:  ManualMarker(raw),
		BestEffort:  bestEffort,
		NeedsReview: true,
		Reason:      reason,
	}
}
