package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/reglet-dev/recast/internal/domain/dialect"
)

// RuleEnv defines the variables available during rule filter evaluation.
type RuleEnv struct {
	Name       string   `expr:"name"`
	Node       string   `expr:"node"`
	Namespace  string   `expr:"namespace"`
	Local      string   `expr:"local"`
	MinVersion string   `expr:"min_version"`
	Elements   []string `expr:"elements"`
	Kinds      []string `expr:"kinds"`
	Silent     bool     `expr:"silent"`
	Fallback   bool     `expr:"fallback"`
}

// EnvOf builds the filter environment of a rule.
func EnvOf(r *Rule) RuleEnv {
	kinds := make([]string, 0, len(r.Kinds))
	for _, k := range r.Kinds {
		kinds = append(kinds, k.String())
	}
	return RuleEnv{
		Name:       r.Name,
		Node:       r.Node.String(),
		Namespace:  dialect.ShortName(r.Namespace),
		Local:      r.Local,
		MinVersion: r.MinVersion.Short(),
		Elements:   append([]string(nil), r.Elements...),
		Kinds:      kinds,
		Silent:     r.Silent,
		Fallback:   r.Fallback,
	}
}

// CompileFilter compiles a rule filter expression such as
// `namespace == "camunda" && min_version != ""`.
func CompileFilter(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression, expr.Env(RuleEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid rule filter: %w", err)
	}
	return program, nil
}

// RuleFilter selects rules for listing.
type RuleFilter struct {
	namespace string
	node      string
	program   *vm.Program
}

// NewRuleFilter initializes a new empty filter.
func NewRuleFilter() *RuleFilter {
	return &RuleFilter{}
}

// WithNamespace keeps rules of a namespace short name, e.g. "camunda".
func (f *RuleFilter) WithNamespace(ns string) *RuleFilter {
	f.namespace = ns
	return f
}

// WithNode keeps element or attribute rules.
func (f *RuleFilter) WithNode(node string) *RuleFilter {
	f.node = node
	return f
}

// WithFilterExpression applies a compiled expr program.
func (f *RuleFilter) WithFilterExpression(program *vm.Program) *RuleFilter {
	f.program = program
	return f
}

// Matches evaluates whether a rule matches the filter criteria, along with
// a reason if not.
func (f *RuleFilter) Matches(r *Rule) (bool, string) {
	env := EnvOf(r)
	if f.namespace != "" && env.Namespace != f.namespace {
		return false, "excluded by --namespace"
	}
	if f.node != "" && env.Node != f.node {
		return false, "excluded by --node"
	}
	if f.program == nil {
		return true, ""
	}
	output, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Sprintf("filter expression error: %v", err)
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Sprintf("filter expression did not return boolean: %v", output)
	}
	if !result {
		return false, "excluded by --filter expression"
	}
	return true, ""
}

// Select returns the matching rules in registration order.
func (f *RuleFilter) Select(rules []*Rule) []*Rule {
	var out []*Rule
	for _, r := range rules {
		if ok, _ := f.Matches(r); ok {
			out = append(out, r)
		}
	}
	return out
}
