package values

import (
	"fmt"
	"strings"
)

// Severity classifies a conversion message.
// Levels are ordered: info < task < review < warning < error.
type Severity struct {
	value SeverityLevel
}

// SeverityLevel is the internal representation
type SeverityLevel int

const (
	SeverityUnknown SeverityLevel = 0
	// SeverityInfo reports a change applied without loss.
	SeverityInfo SeverityLevel = 1
	// SeverityTask asks the user to complete something the converter cannot know.
	SeverityTask SeverityLevel = 2
	// SeverityReview flags an automatic decision a human should check.
	SeverityReview SeverityLevel = 3
	// SeverityWarning reports a construct that was dropped or left unconverted.
	SeverityWarning SeverityLevel = 4
	// SeverityError reports a rule fault.
	SeverityError SeverityLevel = 5
)

// Predefined severity values
var (
	SevUnknown = Severity{SeverityUnknown}
	SevInfo    = Severity{SeverityInfo}
	SevTask    = Severity{SeverityTask}
	SevReview  = Severity{SeverityReview}
	SevWarning = Severity{SeverityWarning}
	SevError   = Severity{SeverityError}
)

// AllSeverities lists the known severities in ascending order.
func AllSeverities() []Severity {
	return []Severity{SevInfo, SevTask, SevReview, SevWarning, SevError}
}

// NewSeverity creates a Severity from string
func NewSeverity(s string) (Severity, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "info":
		return SevInfo, nil
	case "task":
		return SevTask, nil
	case "review":
		return SevReview, nil
	case "warning", "warn":
		return SevWarning, nil
	case "error":
		return SevError, nil
	case "":
		return SevUnknown, nil
	default:
		return Severity{}, fmt.Errorf("invalid severity: %s", s)
	}
}

// MustNewSeverity creates a Severity or panics
func MustNewSeverity(s string) Severity {
	sev, err := NewSeverity(s)
	if err != nil {
		panic(err)
	}
	return sev
}

// String returns the string representation
func (s Severity) String() string {
	switch s.value {
	case SeverityInfo:
		return "info"
	case SeverityTask:
		return "task"
	case SeverityReview:
		return "review"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return ""
	}
}

// Level returns the numeric severity level (for ordering)
func (s Severity) Level() int {
	return int(s.value)
}

// IsHigherThan returns true if this severity is higher than the other
func (s Severity) IsHigherThan(other Severity) bool {
	return s.value > other.value
}

// IsHigherOrEqual returns true if this severity is higher or equal to the other
func (s Severity) IsHigherOrEqual(other Severity) bool {
	return s.value >= other.value
}

// Equals checks if two severities are equal
func (s Severity) Equals(other Severity) bool {
	return s.value == other.value
}

// MarshalJSON implements json.Marshaler
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Severity) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) < 2 {
		return fmt.Errorf("invalid severity JSON")
	}
	str = str[1 : len(str)-1]

	sev, err := NewSeverity(str)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// MarshalYAML implements yaml.InterfaceMarshaler
func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}
