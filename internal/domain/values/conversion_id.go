// Package values contains domain value objects that encapsulate
// primitive types with validation and such.
package values

import (
	"fmt"

	"github.com/google/uuid"
)

// conversionNamespace scopes name-based conversion IDs.
var conversionNamespace = uuid.MustParse("6f1c1c7e-49a2-5b5e-9d4e-3b1f3a2d7c10")

// ConversionID identifies one conversion of one document.
// IDs are derived from the document content and the target version, so the
// same input converted twice carries the same ID.
type ConversionID struct {
	value uuid.UUID
}

// NewConversionID derives the ID for a document converted to a target version.
func NewConversionID(document []byte, target TargetVersion) ConversionID {
	data := make([]byte, 0, len(document)+16)
	data = append(data, target.String()...)
	data = append(data, 0)
	data = append(data, document...)
	return ConversionID{value: uuid.NewSHA1(conversionNamespace, data)}
}

// ParseConversionID parses a string into a ConversionID
func ParseConversionID(s string) (ConversionID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ConversionID{}, fmt.Errorf("invalid conversion ID: %w", err)
	}
	return ConversionID{value: id}, nil
}

// MustParseConversionID parses a string or panics (for tests only)
func MustParseConversionID(s string) ConversionID {
	id, err := ParseConversionID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the string representation
func (c ConversionID) String() string {
	return c.value.String()
}

// UUID returns the underlying uuid.UUID
func (c ConversionID) UUID() uuid.UUID {
	return c.value
}

// IsZero returns true if this is the zero value
func (c ConversionID) IsZero() bool {
	return c.value == uuid.Nil
}

// Equals checks if two ConversionIDs are equal
func (c ConversionID) Equals(other ConversionID) bool {
	return c.value == other.value
}

// MarshalJSON implements json.Marshaler
func (c ConversionID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.value.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (c *ConversionID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 {
		return fmt.Errorf("invalid conversion ID JSON")
	}
	s = s[1 : len(s)-1]

	id, err := ParseConversionID(s)
	if err != nil {
		return err
	}
	*c = id
	return nil
}

// MarshalYAML implements yaml.InterfaceMarshaler
func (c ConversionID) MarshalYAML() (interface{}, error) {
	return c.value.String(), nil
}
