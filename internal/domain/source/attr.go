package source

import (
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/values"
)

// Attr is a read-only source attribute. Unprefixed attributes have no
// namespace.
type Attr struct {
	owner  *Element
	name   values.QName
	prefix string
	value  string
}

// Name returns the resolved qualified name.
func (a *Attr) Name() values.QName { return a.name }

// Space returns the namespace URI.
func (a *Attr) Space() string { return a.name.Space }

// Local returns the local name.
func (a *Attr) Local() string { return a.name.Local }

// Prefix returns the prefix written in the document.
func (a *Attr) Prefix() string { return a.prefix }

// Value returns the attribute value.
func (a *Attr) Value() string { return a.value }

// Owner returns the element carrying the attribute.
func (a *Attr) Owner() *Element { return a.owner }

// FullKey returns the attribute name as written, "prefix:local" or "local".
func (a *Attr) FullKey() string { return dialect.Qualify(a.prefix, a.name.Local) }
