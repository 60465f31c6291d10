// Package source holds the parsed, read-only view of a document being
// converted. Elements carry their resolved namespace, their document-order
// ordinal and their path; none of it changes after Parse returns.
package source

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/values"
)

// ParseError reports a document that cannot be read at all.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("document is not well-formed: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Document is a parsed source document.
type Document struct {
	raw      *etree.Document
	root     *Element
	elements []*Element
}

// Parse reads a document. The only failure is a document that is not
// well-formed XML or has no root element.
func Parse(data []byte) (*Document, error) {
	if err := checkWellFormed(data); err != nil {
		return nil, &ParseError{Cause: err}
	}
	raw := etree.NewDocument()
	if err := raw.ReadFromBytes(data); err != nil {
		return nil, &ParseError{Cause: err}
	}
	if raw.Root() == nil {
		return nil, &ParseError{Cause: errors.New("no root element")}
	}

	d := &Document{raw: raw}
	d.root = d.build(raw.Root(), nil, values.ElementPath{}, 0)
	return d, nil
}

// checkWellFormed runs a strict token pass; etree reads raw tokens and does
// not reject mismatched or unclosed tags.
func checkWellFormed(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (d *Document) build(el *etree.Element, parent *Element, parentPath values.ElementPath, index int) *Element {
	e := &Element{
		doc:     d,
		ordinal: len(d.elements),
		name:    values.NewQName(dialect.ResolvePrefix(el, el.Space), el.Tag),
		prefix:  el.Space,
		parent:  parent,
	}
	d.elements = append(d.elements, e)

	for _, a := range el.Attr {
		if dialect.IsNamespaceDecl(a) {
			continue
		}
		ns := ""
		if a.Space != "" {
			ns = dialect.ResolvePrefix(el, a.Space)
		}
		e.attrs = append(e.attrs, &Attr{
			owner:  e,
			name:   values.NewQName(ns, a.Key),
			prefix: a.Space,
			value:  a.Value,
		})
	}

	var text strings.Builder
	for _, tok := range el.Child {
		if cd, ok := tok.(*etree.CharData); ok {
			text.WriteString(cd.Data)
		}
	}
	e.text = text.String()

	e.path = parentPath.Child(values.PathSegment{
		Prefix: el.Space,
		Local:  el.Tag,
		ID:     e.AttrValue("", "id"),
		Index:  index,
	})

	kids := el.ChildElements()
	counts := make(map[string]int, len(kids))
	for _, k := range kids {
		counts[k.FullTag()]++
	}
	seen := make(map[string]int, len(kids))
	for _, k := range kids {
		idx := 0
		if counts[k.FullTag()] > 1 {
			seen[k.FullTag()]++
			idx = seen[k.FullTag()]
		}
		e.children = append(e.children, d.build(k, e, e.path, idx))
	}
	return e
}

// Root returns the document element.
func (d *Document) Root() *Element {
	return d.root
}

// Elements returns every element in document order.
func (d *Document) Elements() []*Element {
	out := make([]*Element, len(d.elements))
	copy(out, d.elements)
	return out
}

// Len returns the number of elements.
func (d *Document) Len() int {
	return len(d.elements)
}

// Element returns the element with the given ordinal.
func (d *Document) Element(ordinal int) *Element {
	if ordinal < 0 || ordinal >= len(d.elements) {
		return nil
	}
	return d.elements[ordinal]
}

// Mirror copies the parsed tree into a new, writable etree document and
// returns it with its elements indexed by source ordinal.
func (d *Document) Mirror() (*etree.Document, []*etree.Element) {
	cp := d.raw.Copy()
	index := make([]*etree.Element, 0, len(d.elements))
	var walk func(*etree.Element)
	walk = func(el *etree.Element) {
		index = append(index, el)
		for _, k := range el.ChildElements() {
			walk(k)
		}
	}
	walk(cp.Root())
	return cp, index
}
