package conversion

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/reglet-dev/recast/internal/domain/dialect"
)

// Target is the target element of one convertible owner.
type Target struct {
	doc *Document
	el  *etree.Element
	ext *etree.Element
}

// Element returns the target element.
func (t *Target) Element() *etree.Element {
	return t.el
}

// Document returns the enclosing document.
func (t *Target) Document() *Document {
	return t.doc
}

// ExtensionElements returns the element's extension container, creating it
// once, after any documentation children, with the element's own prefix.
func (t *Target) ExtensionElements() *etree.Element {
	if t.ext != nil {
		return t.ext
	}
	for _, c := range t.el.ChildElements() {
		if c.Tag == "extensionElements" && dialect.IsModel(dialect.ResolvePrefix(c, c.Space)) {
			t.ext = c
			return c
		}
	}

	ext := etree.NewElement(dialect.Qualify(t.el.Space, "extensionElements"))
	pos := 0
	for _, c := range t.el.ChildElements() {
		if c.Tag == "documentation" {
			pos = c.Index() + 1
		}
	}
	t.el.InsertChildAt(pos, ext)
	t.ext = ext
	return ext
}

// Extension returns the zeebe extension element with the given local name,
// reusing an existing one.
func (t *Target) Extension(local string) *etree.Element {
	ext := t.ExtensionElements()
	tag := dialect.Qualify(t.doc.zeebePrefix, local)
	for _, c := range ext.ChildElements() {
		if c.FullTag() == tag {
			return c
		}
	}
	return ext.CreateElement(tag)
}

// AppendExtension always creates a new zeebe element under parent.
func (t *Target) AppendExtension(parent *etree.Element, local string) *etree.Element {
	return parent.CreateElement(dialect.Qualify(t.doc.zeebePrefix, local))
}

// SetAttr writes an optional string attribute.
func SetAttr(el *etree.Element, key string, value *string) {
	if value != nil {
		el.CreateAttr(key, *value)
	}
}

// SetBoolAttr writes an optional boolean attribute.
func SetBoolAttr(el *etree.Element, key string, value *bool) {
	if value != nil {
		el.CreateAttr(key, strconv.FormatBool(*value))
	}
}

// SetIntAttr writes an optional integer attribute.
func SetIntAttr(el *etree.Element, key string, value *int) {
	if value != nil {
		el.CreateAttr(key, strconv.Itoa(*value))
	}
}
