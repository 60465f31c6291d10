// Package conversion writes populated convertibles into the target tree.
package conversion

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/reglet-dev/recast/internal/domain/dialect"
)

// Document is the writable target tree of one conversion.
type Document struct {
	doc           *etree.Document
	index         []*etree.Element
	zeebePrefix   string
	modelerPrefix string
}

// NewDocument wraps a target tree whose elements are indexed by source
// ordinal.
func NewDocument(doc *etree.Document, index []*etree.Element) *Document {
	d := &Document{doc: doc, index: index}
	d.zeebePrefix = d.declaredOrFree(dialect.Zeebe, dialect.PrefixZeebe)
	d.modelerPrefix = d.declaredOrFree(dialect.Modeler, dialect.PrefixModeler)
	return d
}

// declaredOrFree returns the root's prefix for ns, or the first free
// variant of preferred.
func (d *Document) declaredOrFree(ns, preferred string) string {
	root := d.doc.Root()
	for _, a := range root.Attr {
		if a.Space == "xmlns" && a.Value == ns {
			return a.Key
		}
	}
	candidate := preferred
	for i := 2; ; i++ {
		if dialect.ResolvePrefix(root, candidate) == "" {
			return candidate
		}
		candidate = preferred + strconv.Itoa(i)
	}
}

// Root returns the target root element.
func (d *Document) Root() *etree.Element {
	return d.doc.Root()
}

// Element returns the target element for a source ordinal.
func (d *Document) Element(ordinal int) *etree.Element {
	if ordinal < 0 || ordinal >= len(d.index) {
		return nil
	}
	return d.index[ordinal]
}

// For returns the emission target of the element with the given ordinal.
func (d *Document) For(ordinal int) *Target {
	return &Target{doc: d, el: d.Element(ordinal)}
}

// ZeebePrefix returns the prefix used for target extension elements.
func (d *Document) ZeebePrefix() string { return d.zeebePrefix }

// ModelerPrefix returns the prefix used for modeler attributes.
func (d *Document) ModelerPrefix() string { return d.modelerPrefix }

// Finalize removes empty extension containers, fixes namespace declarations
// and indents the tree.
func (d *Document) Finalize() {
	root := d.doc.Root()
	d.dropEmptyExtensionElements(root)

	setNamespace(root, d.zeebePrefix, dialect.Zeebe)
	setNamespace(root, d.modelerPrefix, dialect.Modeler)
	for _, ns := range []string{dialect.Camunda, dialect.CamundaDMN} {
		d.dropUnusedNamespace(ns)
	}

	d.doc.Indent(2)
}

func setNamespace(root *etree.Element, prefix, ns string) {
	if dialect.ResolvePrefix(root, prefix) == ns {
		return
	}
	root.CreateAttr("xmlns:"+prefix, ns)
}

func (d *Document) dropEmptyExtensionElements(el *etree.Element) {
	for _, c := range el.ChildElements() {
		d.dropEmptyExtensionElements(c)
		if c.Tag == "extensionElements" && dialect.IsModel(dialect.ResolvePrefix(c, c.Space)) && len(c.ChildElements()) == 0 {
			el.RemoveChild(c)
		}
	}
}

// dropUnusedNamespace removes declarations of ns when no element or
// attribute in their scope uses them.
func (d *Document) dropUnusedNamespace(ns string) {
	var visit func(*etree.Element)
	visit = func(el *etree.Element) {
		for _, a := range append([]etree.Attr(nil), el.Attr...) {
			if a.Space == "xmlns" && a.Value == ns && !prefixUsed(el, a.Key) {
				el.RemoveAttr("xmlns:" + a.Key)
			}
		}
		for _, c := range el.ChildElements() {
			visit(c)
		}
	}
	visit(d.doc.Root())
}

func prefixUsed(el *etree.Element, prefix string) bool {
	if el.Space == prefix {
		return true
	}
	for _, a := range el.Attr {
		if a.Space == prefix {
			return true
		}
	}
	for _, c := range el.ChildElements() {
		if prefixUsed(c, prefix) {
			return true
		}
	}
	return false
}

// Bytes serializes the tree.
func (d *Document) Bytes() ([]byte, error) {
	return d.doc.WriteToBytes()
}
