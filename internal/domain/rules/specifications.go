package rules

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/source"
)

// Specification defines a structural condition a node must meet for a rule
// to apply.
type Specification interface {
	// IsSatisfiedBy checks the node. Returns true if satisfied, along with a
	// reason if not (or empty if satisfied).
	IsSatisfiedBy(ctx *Context) (bool, string)
}

// AndSpecification combines multiple specifications with logical AND.
type AndSpecification struct {
	specs []Specification
}

// And creates a new AndSpecification.
func And(specs ...Specification) *AndSpecification {
	return &AndSpecification{specs: specs}
}

// IsSatisfiedBy checks if all specifications are satisfied.
func (s *AndSpecification) IsSatisfiedBy(ctx *Context) (bool, string) {
	for _, spec := range s.specs {
		if ok, reason := spec.IsSatisfiedBy(ctx); !ok {
			return false, reason
		}
	}
	return true, ""
}

// NotSpecification negates a specification.
type NotSpecification struct {
	spec   Specification
	reason string
}

// Not creates a new NotSpecification.
func Not(spec Specification, reason string) *NotSpecification {
	return &NotSpecification{spec: spec, reason: reason}
}

// IsSatisfiedBy checks that the inner specification is NOT satisfied.
func (s *NotSpecification) IsSatisfiedBy(ctx *Context) (bool, string) {
	if ok, _ := s.spec.IsSatisfiedBy(ctx); ok {
		return false, s.reason
	}
	return true, ""
}

// OwnerKindSpecification includes only owners of the given kinds.
type OwnerKindSpecification struct {
	kinds map[convertible.Kind]bool
}

// OwnerKind creates a new OwnerKindSpecification.
func OwnerKind(kinds ...convertible.Kind) *OwnerKindSpecification {
	set := make(map[convertible.Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return &OwnerKindSpecification{kinds: set}
}

// IsSatisfiedBy checks the owner's kind.
func (s *OwnerKindSpecification) IsSatisfiedBy(ctx *Context) (bool, string) {
	if s.kinds[ctx.Kind] {
		return true, ""
	}
	return false, fmt.Sprintf("owner kind %s not in scope", ctx.Kind)
}

// ChildSpecification is satisfied when the owner has an extension child
// (below extensionElements) with the given name that matches.
type ChildSpecification struct {
	space string
	local string
	match func(*source.Element) bool
}

// HasExtension creates a new ChildSpecification. A nil match accepts any
// element with the name.
func HasExtension(space, local string, match func(*source.Element) bool) *ChildSpecification {
	return &ChildSpecification{space: space, local: local, match: match}
}

// IsSatisfiedBy searches the owner's extension elements.
func (s *ChildSpecification) IsSatisfiedBy(ctx *Context) (bool, string) {
	if ctx.Owner != nil {
		for _, ext := range ctx.Owner.Children() {
			if ext.Local() != "extensionElements" {
				continue
			}
			for _, c := range ext.ChildrenNamed(s.space, s.local) {
				if s.match == nil || s.match(c) {
					return true, ""
				}
			}
		}
	}
	return false, fmt.Sprintf("no %s extension", s.local)
}

// FuncSpecification adapts a function.
type FuncSpecification struct {
	name string
	fn   func(*Context) bool
}

// Func creates a new FuncSpecification; name is used as the reason.
func Func(name string, fn func(*Context) bool) *FuncSpecification {
	return &FuncSpecification{name: name, fn: fn}
}

// IsSatisfiedBy calls the function.
func (s *FuncSpecification) IsSatisfiedBy(ctx *Context) (bool, string) {
	if s.fn(ctx) {
		return true, ""
	}
	return false, s.name
}

// NodeEnv defines the variables available to node expressions.
type NodeEnv struct {
	Element string            `expr:"element"`
	Kind    string            `expr:"kind"`
	Node    string            `expr:"node"`
	Value   string            `expr:"value"`
	Attrs   map[string]string `expr:"attrs"`
}

func newNodeEnv(ctx *Context) NodeEnv {
	attrs := make(map[string]string)
	for _, a := range ctx.Element.Attrs() {
		attrs[a.FullKey()] = a.Value()
	}
	return NodeEnv{
		Element: ctx.Element.Local(),
		Kind:    ctx.Kind.String(),
		Node:    ctx.NodeName(),
		Value:   ctx.Value(),
		Attrs:   attrs,
	}
}

// ExpressionSpecification evaluates an expr program against the node.
type ExpressionSpecification struct {
	source  string
	program *vm.Program
}

// NewExpressionSpecification compiles an expression over NodeEnv.
func NewExpressionSpecification(expression string) (*ExpressionSpecification, error) {
	program, err := expr.Compile(expression, expr.Env(NodeEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid node expression %q: %w", expression, err)
	}
	return &ExpressionSpecification{source: expression, program: program}, nil
}

// MustExpression is NewExpressionSpecification for rule tables.
func MustExpression(expression string) *ExpressionSpecification {
	s, err := NewExpressionSpecification(expression)
	if err != nil {
		panic(err)
	}
	return s
}

// IsSatisfiedBy evaluates the expr program against the node.
func (s *ExpressionSpecification) IsSatisfiedBy(ctx *Context) (bool, string) {
	output, err := expr.Run(s.program, newNodeEnv(ctx))
	if err != nil {
		return false, fmt.Sprintf("node expression error: %v", err)
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Sprintf("node expression did not return boolean: %v", output)
	}
	if !result {
		return false, fmt.Sprintf("excluded by %q", s.source)
	}
	return true, ""
}
