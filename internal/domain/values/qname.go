package values

// QName is a namespace-qualified XML name.
type QName struct {
	Space string
	Local string
}

// NewQName creates a QName.
func NewQName(space, local string) QName {
	return QName{Space: space, Local: local}
}

// String returns the Clark notation "{space}local".
func (q QName) String() string {
	if q.Space == "" {
		return q.Local
	}
	return "{" + q.Space + "}" + q.Local
}

// Is reports whether the name matches space and local.
func (q QName) Is(space, local string) bool {
	return q.Space == space && q.Local == local
}

// IsZero returns true if the name is empty
func (q QName) IsZero() bool {
	return q.Local == ""
}
