package values

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// TargetVersion is the version of the target engine a document is converted for.
// The zero value means "no version" and satisfies every gate.
type TargetVersion struct {
	version *semver.Version
}

// ParseTargetVersion parses a version such as "8.6" or "8.6.0".
func ParseTargetVersion(s string) (TargetVersion, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TargetVersion{}, fmt.Errorf("target version cannot be empty")
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return TargetVersion{}, fmt.Errorf("invalid target version %q: %w", s, err)
	}
	return TargetVersion{version: v}, nil
}

// MustParseTargetVersion parses a version or panics (for rule tables and tests)
func MustParseTargetVersion(s string) TargetVersion {
	v, err := ParseTargetVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero returns true if no version is set
func (v TargetVersion) IsZero() bool {
	return v.version == nil
}

// AtLeast reports whether v >= minimum. A zero minimum is always satisfied;
// a zero v satisfies nothing but a zero minimum.
func (v TargetVersion) AtLeast(minimum TargetVersion) bool {
	if minimum.version == nil {
		return true
	}
	if v.version == nil {
		return false
	}
	return !v.version.LessThan(minimum.version)
}

// String returns the full "major.minor.patch" form, or "" when zero.
func (v TargetVersion) String() string {
	if v.version == nil {
		return ""
	}
	return v.version.String()
}

// Short returns "major.minor", used in human-readable messages.
func (v TargetVersion) Short() string {
	if v.version == nil {
		return ""
	}
	return fmt.Sprintf("%d.%d", v.version.Major(), v.version.Minor())
}

// MarshalJSON implements json.Marshaler
func (v TargetVersion) MarshalJSON() ([]byte, error) {
	return []byte(`"` + v.String() + `"`), nil
}

// MarshalYAML implements yaml.InterfaceMarshaler
func (v TargetVersion) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}
