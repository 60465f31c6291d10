// Package rules defines conversion rules and the registry the walker
// dispatches to.
package rules

import (
	"fmt"

	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/diagnostics"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/expression"
	"github.com/reglet-dev/recast/internal/domain/jobtype"
	"github.com/reglet-dev/recast/internal/domain/source"
	"github.com/reglet-dev/recast/internal/domain/values"
)

// NodeType distinguishes element rules from attribute rules.
type NodeType int

const (
	NodeElement NodeType = iota
	NodeAttribute
)

func (n NodeType) String() string {
	if n == NodeAttribute {
		return "attribute"
	}
	return "element"
}

// HeaderKeys names task headers that carry legacy values other than
// implementation references.
type HeaderKeys struct {
	ResultVariable string
	ScriptFormat   string
	Script         string
	Resource       string
}

// DefaultHeaderKeys returns the keys used when nothing is configured.
func DefaultHeaderKeys() HeaderKeys {
	return HeaderKeys{
		ResultVariable: "resultVariable",
		ScriptFormat:   "language",
		Script:         "script",
		Resource:       "resource",
	}
}

// Settings is the read-only configuration rules see. One Settings value is
// shared by all rules of a converter.
type Settings struct {
	Target        values.TargetVersion
	JobTypes      *jobtype.Resolver
	Expressions   *expression.Transformer
	Tenant        values.TenantPolicy
	ScriptJobType string
	Headers       HeaderKeys
}

// Context is what a rule sees of the node it is applied to.
type Context struct {
	Node NodeType
	// Element is the visited element, or the element carrying the attribute.
	Element *source.Element
	// Attr is nil for element rules.
	Attr *source.Attr
	// Owner is the element whose convertible receives mutations.
	Owner    *source.Element
	Kind     convertible.Kind
	Settings *Settings
}

// Value returns the attribute value, or the element's trimmed text.
func (c *Context) Value() string {
	if c.Attr != nil {
		return c.Attr.Value()
	}
	return c.Element.TrimmedText()
}

// NodeName returns the qualified name of the visited node as written.
func (c *Context) NodeName() string {
	if c.Attr != nil {
		return c.Attr.FullKey()
	}
	return dialect.Qualify(c.Element.Prefix(), c.Element.Local())
}

// Space returns the namespace of the visited node.
func (c *Context) Space() string {
	if c.Attr != nil {
		return c.Attr.Space()
	}
	return c.Element.Space()
}

// Local returns the local name of the visited node.
func (c *Context) Local() string {
	if c.Attr != nil {
		return c.Attr.Local()
	}
	return c.Element.Local()
}

// Outcome is what a rule produces: at most one message and at most one
// mutation.
type Outcome struct {
	Message  *diagnostics.Message
	Mutation convertible.Mutation
	// Owner redirects the mutation to another element's convertible.
	Owner *source.Element
	// Keep leaves the node in the target document although the rule ran.
	Keep bool
}

// Rule maps a (namespace, local name) node to a conversion.
type Rule struct {
	Name string
	Node NodeType
	// Namespace of the node. Unprefixed attributes have the empty namespace.
	Namespace string
	// Local name of the node. Empty only for fallback rules.
	Local string
	// Fallback rules match any node of Namespace and Node type that no
	// other rule matched.
	Fallback bool
	// Elements restricts the rule by local name: of the carrying element for
	// attribute rules, of the parent element for element rules.
	Elements []string
	// Kinds restricts the rule to owners of the given kinds.
	Kinds []convertible.Kind
	// MinVersion is the lowest target version the rule supports.
	MinVersion values.TargetVersion
	// Requires lists the facets the rule's mutations touch. Every kind in
	// scope must support them.
	Requires []convertible.Capability
	// When further restricts applicability.
	When Specification
	// Silent rules get no generic message when they return none.
	Silent bool
	// Retain keeps the node in the target document.
	Retain bool
	// Subtree rules handle the element with all its descendants; the walker
	// does not descend into it.
	Subtree     bool
	Description string
	Apply       func(*Context) (Outcome, error)
}

// QualifiedName renders the rule's node as prefix:local.
func (r *Rule) QualifiedName() string {
	local := r.Local
	if r.Fallback {
		local = "*"
	}
	return dialect.Qualify(dialect.ShortName(r.Namespace), local)
}

// InScope reports whether the rule's static scope admits ctx.
func (r *Rule) InScope(ctx *Context) bool {
	if len(r.Elements) > 0 {
		name := ctx.Element.Local()
		if ctx.Node == NodeElement {
			name = ""
			if p := ctx.Element.Parent(); p != nil {
				name = p.Local()
			}
		}
		if !contains(r.Elements, name) {
			return false
		}
	}
	if len(r.Kinds) > 0 && !containsKind(r.Kinds, ctx.Kind) {
		return false
	}
	return true
}

// Supported reports whether the target version satisfies the version gate.
func (r *Rule) Supported(target values.TargetVersion) bool {
	return target.AtLeast(r.MinVersion)
}

// scopeKinds returns the owner kinds the rule can see, for validation.
func (r *Rule) scopeKinds() []convertible.Kind {
	if len(r.Kinds) > 0 {
		return r.Kinds
	}
	if r.Node == NodeElement && dialect.IsModel(r.Namespace) && !r.Fallback {
		return []convertible.Kind{convertible.KindOf(r.Namespace, r.Local)}
	}
	if r.Node == NodeAttribute && len(r.Elements) > 0 {
		var out []convertible.Kind
		for _, e := range r.Elements {
			out = append(out, convertible.KindOf(dialect.BPMN, e))
		}
		return out
	}
	return nil
}

func (r *Rule) validate() error {
	switch {
	case r.Name == "":
		return fmt.Errorf("rule for %s has no name", r.QualifiedName())
	case r.Apply == nil:
		return fmt.Errorf("rule %s has no Apply", r.Name)
	case r.Node == NodeElement && r.Namespace == "":
		return fmt.Errorf("element rule %s has no namespace", r.Name)
	case r.Local == "" && !r.Fallback:
		return fmt.Errorf("rule %s has no local name", r.Name)
	case r.Fallback && len(r.Requires) > 0:
		return fmt.Errorf("fallback rule %s cannot require facets", r.Name)
	}
	if len(r.Requires) == 0 {
		return nil
	}
	kinds := r.scopeKinds()
	if len(kinds) == 0 {
		return fmt.Errorf("rule %s requires %v but has no scope", r.Name, r.Requires)
	}
	for _, k := range kinds {
		for _, capability := range r.Requires {
			if !k.Supports(capability) {
				return &convertible.UnsupportedFacetError{Kind: k, Capability: capability}
			}
		}
	}
	return nil
}

// OwnerOf returns the element whose convertible receives mutations for el:
// the nearest ancestor-or-self model element of a known kind. Elements
// without a kind, such as event definitions, belong to their enclosing
// element. When no ancestor has a kind the nearest model element is used.
func OwnerOf(el *source.Element) (*source.Element, convertible.Kind) {
	model := el.Owner()
	for cur := model; cur != nil; cur = cur.Parent() {
		if !dialect.IsModel(cur.Space()) || cur.Local() == "extensionElements" {
			continue
		}
		if k := convertible.KindOf(cur.Space(), cur.Local()); k != convertible.KindElement {
			return cur, k
		}
	}
	return model, convertible.KindElement
}

// RuleFault is a rule that failed or panicked while applied.
type RuleFault struct {
	Rule  string
	Path  values.ElementPath
	Node  string
	Cause error
	Panic bool
}

func (e *RuleFault) Error() string {
	kind := "failed"
	if e.Panic {
		kind = "panicked"
	}
	return fmt.Sprintf("rule %s %s on %s at %s: %v", e.Rule, kind, e.Node, e.Path, e.Cause)
}

func (e *RuleFault) Unwrap() error {
	return e.Cause
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsKind(list []convertible.Kind, k convertible.Kind) bool {
	for _, v := range list {
		if v == k {
			return true
		}
	}
	return false
}
