package convertible

// AttrRemoval names an attribute to drop from the target tree.
type AttrRemoval struct {
	// Element is the source ordinal of the element carrying the attribute.
	Element int
	// Key is the attribute name as written, "prefix:local".
	Key string
}

// Base is the facet every kind has: removal of legacy attributes and
// elements owned by the element.
type Base struct {
	attrs    []AttrRemoval
	elements []int
}

// RemoveAttr schedules removal of an attribute.
func (b *Base) RemoveAttr(element int, key string) {
	for _, r := range b.attrs {
		if r.Element == element && r.Key == key {
			return
		}
	}
	b.attrs = append(b.attrs, AttrRemoval{Element: element, Key: key})
}

// RemoveElement schedules removal of an element and its subtree.
func (b *Base) RemoveElement(ordinal int) {
	for _, o := range b.elements {
		if o == ordinal {
			return
		}
	}
	b.elements = append(b.elements, ordinal)
}

func (b *Base) AttrRemovals() []AttrRemoval { return append([]AttrRemoval(nil), b.attrs...) }
func (b *Base) ElementRemovals() []int      { return append([]int(nil), b.elements...) }
func (b *Base) IsEmpty() bool               { return len(b.attrs) == 0 && len(b.elements) == 0 }

// core is embedded in every concrete convertible.
type core struct {
	kind    Kind
	base    Base
	pending []step
	applied bool
}

func newCore(k Kind) core {
	return core{kind: k}
}

func (c *core) Kind() Kind    { return c.kind }
func (c *core) Base() *Base   { return &c.base }
func (c *core) Pending() int  { return len(c.pending) }
func (c *core) Applied() bool { return c.applied }
func (c *core) state() *core  { return c }

// Convertible is the intermediate representation of one element. The set
// of implementations is closed; obtain one with Kind.New.
type Convertible interface {
	Kind() Kind
	Base() *Base
	// Pending returns the number of queued mutation steps.
	Pending() int
	Applied() bool
	state() *core
}
