package rules

import (
	"fmt"

	"github.com/reglet-dev/recast/internal/domain/diagnostics"
	"github.com/reglet-dev/recast/internal/domain/values"
)

// DocsBase is the root of the migration guide linked from messages.
const DocsBase = "https://docs.camunda.io/docs/guides/migrating-from-camunda-7/"

// Codes of messages produced outside individual rules.
const (
	CodeUnsupportedVersion = "unsupported-in-target-version"
	CodeRuleFault          = "rule-fault"
	CodeConverted          = "converted"
)

// Message builds a message draft; the walker fills in path, rule and key.
func Message(sev values.Severity, code, format string, args ...any) *diagnostics.Message {
	return &diagnostics.Message{
		Severity: sev,
		Code:     code,
		Text:     fmt.Sprintf(format, args...),
	}
}

func Info(code, format string, args ...any) *diagnostics.Message {
	return Message(values.SevInfo, code, format, args...)
}

func Task(code, format string, args ...any) *diagnostics.Message {
	return Message(values.SevTask, code, format, args...)
}

func Review(code, format string, args ...any) *diagnostics.Message {
	return Message(values.SevReview, code, format, args...)
}

func Warning(code, format string, args ...any) *diagnostics.Message {
	return Message(values.SevWarning, code, format, args...)
}

// WithLink sets the documentation link relative to DocsBase.
func WithLink(m *diagnostics.Message, page string) *diagnostics.Message {
	if m != nil && page != "" {
		m.Link = DocsBase + page
	}
	return m
}

// WithTranslation records the before/after values of a translated value.
func WithTranslation(m *diagnostics.Message, original, translated string) *diagnostics.Message {
	if m != nil {
		m.Original = original
		m.Translated = translated
	}
	return m
}
