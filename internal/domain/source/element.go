package source

import (
	"strings"

	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/values"
)

// Element is a read-only source element.
type Element struct {
	doc      *Document
	ordinal  int
	name     values.QName
	prefix   string
	attrs    []*Attr
	children []*Element
	parent   *Element
	text     string
	path     values.ElementPath
}

// Ordinal is the element's position in document order, starting at 0 for the root.
func (e *Element) Ordinal() int { return e.ordinal }

// Name returns the resolved qualified name.
func (e *Element) Name() values.QName { return e.name }

// Space returns the namespace URI.
func (e *Element) Space() string { return e.name.Space }

// Local returns the local name.
func (e *Element) Local() string { return e.name.Local }

// Prefix returns the prefix written in the document.
func (e *Element) Prefix() string { return e.prefix }

// Is reports whether the element has the given namespace and local name.
func (e *Element) Is(space, local string) bool { return e.name.Is(space, local) }

// Parent returns the parent element, nil for the root.
func (e *Element) Parent() *Element { return e.parent }

// Path returns the element's location.
func (e *Element) Path() values.ElementPath { return e.path }

// ID returns the id attribute, or "".
func (e *Element) ID() string { return e.AttrValue("", "id") }

// Text returns the element's direct character data.
func (e *Element) Text() string { return e.text }

// TrimmedText returns Text without surrounding whitespace.
func (e *Element) TrimmedText() string { return strings.TrimSpace(e.text) }

// Attrs returns the attributes in document order, namespace declarations excluded.
func (e *Element) Attrs() []*Attr {
	out := make([]*Attr, len(e.attrs))
	copy(out, e.attrs)
	return out
}

// Attr returns the attribute with the given name.
func (e *Element) Attr(space, local string) (*Attr, bool) {
	for _, a := range e.attrs {
		if a.name.Is(space, local) {
			return a, true
		}
	}
	return nil, false
}

// AttrValue returns the attribute's value, or "".
func (e *Element) AttrValue(space, local string) string {
	if a, ok := e.Attr(space, local); ok {
		return a.value
	}
	return ""
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(space, local string) bool {
	_, ok := e.Attr(space, local)
	return ok
}

// Children returns the child elements in document order.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// ChildrenNamed returns the children with the given name.
func (e *Element) ChildrenNamed(space, local string) []*Element {
	var out []*Element
	for _, c := range e.children {
		if c.name.Is(space, local) {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first child with the given name.
func (e *Element) FirstChild(space, local string) (*Element, bool) {
	for _, c := range e.children {
		if c.name.Is(space, local) {
			return c, true
		}
	}
	return nil, false
}

// Find returns the first descendant reached by following the given chain of
// names, e.g. Find(BPMN, "extensionElements", Camunda, "properties").
func (e *Element) Find(names ...values.QName) (*Element, bool) {
	cur := e
	for _, n := range names {
		next, ok := cur.FirstChild(n.Space, n.Local)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Owner returns the nearest ancestor-or-self element in a model namespace
// that is not an extensionElements container. Vendor elements nested in
// extensionElements belong to the flow element that contains them.
func (e *Element) Owner() *Element {
	for cur := e; cur != nil; cur = cur.parent {
		if dialect.IsModel(cur.name.Space) && cur.name.Local != "extensionElements" {
			return cur
		}
	}
	return nil
}

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }
