// Package diagnostics collects conversion messages into a tree that mirrors
// the converted document.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/reglet-dev/recast/internal/domain/values"
)

// Message describes one conversion decision.
type Message struct {
	// Key is unique within one conversion and assigned by the Aggregator.
	Key      string          `json:"key" yaml:"key"`
	Severity values.Severity `json:"severity" yaml:"severity"`
	// Code is a stable identifier of the message type.
	Code string             `json:"code" yaml:"code"`
	Path values.ElementPath `json:"path" yaml:"path"`
	// Attribute is set when the message concerns an attribute of the element.
	Attribute string `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	// Rule names the rule that produced the message.
	Rule string `json:"rule,omitempty" yaml:"rule,omitempty"`
	Text string `json:"text" yaml:"text"`
	Link string `json:"link,omitempty" yaml:"link,omitempty"`
	// Original and Translated carry the before/after text of a translated
	// expression or value for side-by-side review.
	Original   string `json:"original,omitempty" yaml:"original,omitempty"`
	Translated string `json:"translated,omitempty" yaml:"translated,omitempty"`
}

// Location renders the path plus the attribute, if any.
func (m Message) Location() string {
	if m.Attribute == "" {
		return m.Path.String()
	}
	return m.Path.String() + "/@" + m.Attribute
}

// String returns a formatted one-line message.
func (m Message) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", m.Severity)
	if m.Code != "" {
		fmt.Fprintf(&b, " [%s]", m.Code)
	}
	fmt.Fprintf(&b, " %s: %s", m.Location(), m.Text)
	return b.String()
}

// Summary counts messages per severity.
type Summary struct {
	Total   int `json:"total" yaml:"total"`
	Info    int `json:"info" yaml:"info"`
	Task    int `json:"task" yaml:"task"`
	Review  int `json:"review" yaml:"review"`
	Warning int `json:"warning" yaml:"warning"`
	Error   int `json:"error" yaml:"error"`
}

func (s *Summary) add(sev values.Severity) {
	s.Total++
	switch sev {
	case values.SevInfo:
		s.Info++
	case values.SevTask:
		s.Task++
	case values.SevReview:
		s.Review++
	case values.SevWarning:
		s.Warning++
	case values.SevError:
		s.Error++
	}
}

// Count returns the number of messages with the given severity.
func (s Summary) Count(sev values.Severity) int {
	switch sev {
	case values.SevInfo:
		return s.Info
	case values.SevTask:
		return s.Task
	case values.SevReview:
		return s.Review
	case values.SevWarning:
		return s.Warning
	case values.SevError:
		return s.Error
	}
	return 0
}

func (s *Summary) remove(sev values.Severity) {
	s.Total--
	switch sev {
	case values.SevInfo:
		s.Info--
	case values.SevTask:
		s.Task--
	case values.SevReview:
		s.Review--
	case values.SevWarning:
		s.Warning--
	case values.SevError:
		s.Error--
	}
}

// Merge adds other's counts.
func (s *Summary) Merge(other Summary) {
	s.Total += other.Total
	s.Info += other.Info
	s.Task += other.Task
	s.Review += other.Review
	s.Warning += other.Warning
	s.Error += other.Error
}
