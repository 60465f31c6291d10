package values

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PathSegment identifies one element on the way from the document root.
type PathSegment struct {
	// Prefix and Local as written in the source document.
	Prefix string
	Local  string
	// ID is the element's id attribute, if any.
	ID string
	// Index is the 1-based position among same-named siblings. Zero when the
	// element has no same-named siblings.
	Index int
}

// String renders the segment, e.g. "bpmn:serviceTask[@id='charge']" or
// "camunda:inputParameter[2]".
func (s PathSegment) String() string {
	var b strings.Builder
	if s.Prefix != "" {
		b.WriteString(s.Prefix)
		b.WriteByte(':')
	}
	b.WriteString(s.Local)
	switch {
	case s.ID != "":
		b.WriteString("[@id='")
		b.WriteString(s.ID)
		b.WriteString("']")
	case s.Index > 0:
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(s.Index))
		b.WriteByte(']')
	}
	return b.String()
}

// ElementPath locates an element in a document. It is immutable; Child
// returns a new path.
type ElementPath struct {
	segments []PathSegment
}

// NewElementPath builds a path from segments.
func NewElementPath(segments ...PathSegment) ElementPath {
	cp := make([]PathSegment, len(segments))
	copy(cp, segments)
	return ElementPath{segments: cp}
}

// ParseElementPath parses the String form of a path. "/" is the empty path.
func ParseElementPath(s string) (ElementPath, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "/" {
		return ElementPath{}, nil
	}
	if s[0] != '/' {
		return ElementPath{}, fmt.Errorf("invalid element path %q: must start with /", s)
	}

	var segments []PathSegment
	rest := s[1:]
	for rest != "" {
		end := segmentEnd(rest)
		seg, err := parseSegment(rest[:end])
		if err != nil {
			return ElementPath{}, fmt.Errorf("invalid element path %q: %w", s, err)
		}
		segments = append(segments, seg)
		rest = strings.TrimPrefix(rest[end:], "/")
	}
	return ElementPath{segments: segments}, nil
}

// segmentEnd returns the index of the first "/" outside a predicate.
func segmentEnd(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '/':
			if depth == 0 {
				return i
			}
		}
	}
	return len(s)
}

func parseSegment(s string) (PathSegment, error) {
	var seg PathSegment
	name, predicate, hasPredicate := strings.Cut(s, "[")
	if name == "" {
		return seg, fmt.Errorf("empty segment in %q", s)
	}
	if prefix, local, ok := strings.Cut(name, ":"); ok {
		seg.Prefix, seg.Local = prefix, local
	} else {
		seg.Local = name
	}
	if !hasPredicate {
		return seg, nil
	}

	predicate, ok := strings.CutSuffix(predicate, "]")
	if !ok {
		return seg, fmt.Errorf("unterminated predicate in %q", s)
	}
	if id, ok := strings.CutPrefix(predicate, "@id='"); ok {
		seg.ID, ok = strings.CutSuffix(id, "'")
		if !ok || seg.ID == "" {
			return seg, fmt.Errorf("invalid id predicate in %q", s)
		}
		return seg, nil
	}
	index, err := strconv.Atoi(predicate)
	if err != nil || index < 1 {
		return seg, fmt.Errorf("invalid index in %q", s)
	}
	seg.Index = index
	return seg, nil
}

// Child returns the path extended by one segment.
func (p ElementPath) Child(seg PathSegment) ElementPath {
	next := make([]PathSegment, len(p.segments)+1)
	copy(next, p.segments)
	next[len(p.segments)] = seg
	return ElementPath{segments: next}
}

// Parent returns the path without its last segment.
func (p ElementPath) Parent() ElementPath {
	if len(p.segments) == 0 {
		return p
	}
	return ElementPath{segments: p.segments[:len(p.segments)-1]}
}

// Segments returns a copy of the path's segments.
func (p ElementPath) Segments() []PathSegment {
	cp := make([]PathSegment, len(p.segments))
	copy(cp, p.segments)
	return cp
}

// Last returns the final segment, or the zero segment for the empty path.
func (p ElementPath) Last() PathSegment {
	if len(p.segments) == 0 {
		return PathSegment{}
	}
	return p.segments[len(p.segments)-1]
}

// Depth returns the number of segments.
func (p ElementPath) Depth() int {
	return len(p.segments)
}

// IsZero returns true for the empty path
func (p ElementPath) IsZero() bool {
	return len(p.segments) == 0
}

// HasPrefix reports whether p is other or lies below it.
func (p ElementPath) HasPrefix(other ElementPath) bool {
	if len(other.segments) > len(p.segments) {
		return false
	}
	for i, seg := range other.segments {
		if p.segments[i] != seg {
			return false
		}
	}
	return true
}

// Equals checks if two paths are equal
func (p ElementPath) Equals(other ElementPath) bool {
	return len(p.segments) == len(other.segments) && p.HasPrefix(other)
}

// String renders the path as "/seg/seg/...".
func (p ElementPath) String() string {
	if len(p.segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		b.WriteString(seg.String())
	}
	return b.String()
}

// MarshalJSON implements json.Marshaler
func (p ElementPath) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

// MarshalYAML implements yaml.InterfaceMarshaler
func (p ElementPath) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (p *ElementPath) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseElementPath(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// UnmarshalYAML implements yaml.InterfaceUnmarshaler
func (p *ElementPath) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseElementPath(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
