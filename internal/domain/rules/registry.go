package rules

import (
	"fmt"
)

type ruleKey struct {
	node  NodeType
	space string
	local string
}

type fallbackKey struct {
	node  NodeType
	space string
}

// Registry holds the rules of a converter. Registration happens once at
// startup; lookups are read-only and safe for concurrent use.
type Registry struct {
	rules    []*Rule
	index    map[ruleKey][]*Rule
	fallback map[fallbackKey]*Rule
	names    map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index:    make(map[ruleKey][]*Rule),
		fallback: make(map[fallbackKey]*Rule),
		names:    make(map[string]bool),
	}
}

// Register validates and adds rules in order. A rule requiring a facet that
// a kind in its scope lacks is rejected.
func (r *Registry) Register(rules ...Rule) error {
	for i := range rules {
		rule := rules[i]
		if err := rule.validate(); err != nil {
			return fmt.Errorf("invalid rule: %w", err)
		}
		if r.names[rule.Name] {
			return fmt.Errorf("duplicate rule name %q", rule.Name)
		}
		if rule.Fallback {
			fk := fallbackKey{node: rule.Node, space: rule.Namespace}
			if existing, ok := r.fallback[fk]; ok {
				return fmt.Errorf("namespace %s already has fallback rule %s", rule.Namespace, existing.Name)
			}
			r.fallback[fk] = &rule
		} else {
			k := ruleKey{node: rule.Node, space: rule.Namespace, local: rule.Local}
			r.index[k] = append(r.index[k], &rule)
		}
		r.names[rule.Name] = true
		r.rules = append(r.rules, &rule)
	}
	return nil
}

// MustRegister is Register for startup code; it panics on invalid rules.
func (r *Registry) MustRegister(rules ...Rule) *Registry {
	if err := r.Register(rules...); err != nil {
		panic(err)
	}
	return r
}

// Match returns the rules whose name and scope admit ctx, in registration
// order. When none matches, the namespace's fallback rule is returned, if any.
func (r *Registry) Match(ctx *Context) []*Rule {
	k := ruleKey{node: ctx.Node, space: ctx.Space(), local: ctx.Local()}
	var out []*Rule
	for _, rule := range r.index[k] {
		if rule.InScope(ctx) {
			out = append(out, rule)
		}
	}
	if len(out) > 0 {
		return out
	}
	if fb, ok := r.Fallback(ctx); ok {
		return []*Rule{fb}
	}
	return nil
}

// Fallback returns the fallback rule of the node's namespace and type.
func (r *Registry) Fallback(ctx *Context) (*Rule, bool) {
	fb, ok := r.fallback[fallbackKey{node: ctx.Node, space: ctx.Space()}]
	return fb, ok
}

// Rules returns every rule in registration order.
func (r *Registry) Rules() []*Rule {
	return append([]*Rule(nil), r.rules...)
}

// Lookup returns the rule with the given name.
func (r *Registry) Lookup(name string) (*Rule, bool) {
	for _, rule := range r.rules {
		if rule.Name == name {
			return rule, true
		}
	}
	return nil, false
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}
