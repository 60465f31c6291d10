// Package jobtype derives job types from legacy implementation references.
package jobtype

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/reglet-dev/recast/internal/domain/values"
)

// Form is the kind of legacy implementation reference.
type Form int

const (
	FormClass Form = iota
	FormDelegateExpression
	FormExpression
	FormExternalTopic
	FormConnector
	FormScript
)

// String returns the attribute-style name of the form.
func (f Form) String() string {
	switch f {
	case FormClass:
		return "class"
	case FormDelegateExpression:
		return "delegateExpression"
	case FormExpression:
		return "expression"
	case FormExternalTopic:
		return "topic"
	case FormConnector:
		return "connectorId"
	case FormScript:
		return "script"
	default:
		return "unknown"
	}
}

// Reference is one implementation reference as found in the source document.
type Reference struct {
	Form  Form
	Value string
}

// Branch names the precedence step that produced a resolution.
type Branch int

const (
	BranchBlank Branch = iota + 1
	BranchDefaulted
	BranchSimpleExpression
	BranchMethodExpression
	BranchClassName
	BranchVerbatim
)

// String returns a stable identifier of the branch, used as message code.
func (b Branch) String() string {
	switch b {
	case BranchBlank:
		return "job-type-blank"
	case BranchDefaulted:
		return "job-type-defaulted"
	case BranchSimpleExpression:
		return "job-type-from-expression"
	case BranchMethodExpression:
		return "job-type-method-expression"
	case BranchClassName:
		return "job-type-from-class"
	case BranchVerbatim:
		return "job-type-verbatim"
	default:
		return "job-type-unknown"
	}
}

// Header is a task header carrying the original reference.
type Header struct {
	Key   string
	Value string
}

// Resolution is the result of Resolve. Exactly one per call, each carrying
// the text of its diagnostic.
type Resolution struct {
	// JobType is empty when HasType is false.
	JobType string
	HasType bool
	// Header, when set, preserves the original reference on the task.
	Header   *Header
	Branch   Branch
	Severity values.Severity
	Text     string
}

// HeaderKeys names the task headers that carry original legacy values.
type HeaderKeys struct {
	Class              string
	DelegateExpression string
	Expression         string
	Topic              string
	Connector          string
	Script             string
}

// DefaultHeaderKeys returns the keys used when nothing is configured.
func DefaultHeaderKeys() HeaderKeys {
	return HeaderKeys{
		Class:              "class",
		DelegateExpression: "delegateExpression",
		Expression:         "expression",
		Topic:              "topic",
		Connector:          "connectorId",
		Script:             "script",
	}
}

// For returns the header key of a form.
func (k HeaderKeys) For(f Form) string {
	switch f {
	case FormClass:
		return k.Class
	case FormDelegateExpression:
		return k.DelegateExpression
	case FormExpression:
		return k.Expression
	case FormExternalTopic:
		return k.Topic
	case FormConnector:
		return k.Connector
	case FormScript:
		return k.Script
	}
	return ""
}

// DefaultJobType is used when no default is configured.
const DefaultJobType = "camunda-7-adapter"

// Policy holds the naming policy.
type Policy struct {
	DefaultJobType string
	AlwaysBlank    bool
	AlwaysDefault  bool
	HeaderKeys     HeaderKeys
}

// Resolver applies the naming policy. It is stateless and safe for
// concurrent use.
type Resolver struct {
	policy Policy
}

// NewResolver creates a Resolver. Empty policy fields take their defaults.
func NewResolver(policy Policy) *Resolver {
	if policy.DefaultJobType == "" {
		policy.DefaultJobType = DefaultJobType
	}
	defaults := DefaultHeaderKeys()
	keys := &policy.HeaderKeys
	for _, f := range []struct {
		dst *string
		def string
	}{
		{&keys.Class, defaults.Class},
		{&keys.DelegateExpression, defaults.DelegateExpression},
		{&keys.Expression, defaults.Expression},
		{&keys.Topic, defaults.Topic},
		{&keys.Connector, defaults.Connector},
		{&keys.Script, defaults.Script},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
	return &Resolver{policy: policy}
}

// Policy returns the effective policy.
func (r *Resolver) Policy() Policy {
	return r.policy
}

var (
	simpleExpression  = regexp.MustCompile(`^[#$]\{\s*([A-Za-z_][A-Za-z0-9_]*)(?:\.([A-Za-z_][A-Za-z0-9_]*))?\s*\}$`)
	wrappedExpression = regexp.MustCompile(`^[#$]\{.*\}$`)
)

// Resolve derives the job type for ref. First match wins:
//
//  1. always-blank policy
//  2. always-default policy
//  3. simple expression #{id} or #{id.prop}
//  4. any other wrapped expression
//  5. dotted class name
//  6. verbatim
//
// Topics and connector ids skip 3 to 5.
func (r *Resolver) Resolve(ref Reference) Resolution {
	value := strings.TrimSpace(ref.Value)

	if r.policy.AlwaysBlank {
		return Resolution{
			Branch:   BranchBlank,
			Severity: values.SevTask,
			Text:     fmt.Sprintf("Job type left blank by policy; %s %q needs a job type.", ref.Form, value),
		}
	}

	if r.policy.AlwaysDefault {
		return r.defaulted(ref, value, BranchDefaulted,
			fmt.Sprintf("Job type set to default %q by policy; original %s %q kept as header %q.",
				r.policy.DefaultJobType, ref.Form, value, r.policy.HeaderKeys.For(ref.Form)))
	}

	if ref.Form != FormExternalTopic && ref.Form != FormConnector && ref.Form != FormClass {
		if m := simpleExpression.FindStringSubmatch(value); m != nil {
			jt := m[1]
			if m[2] != "" {
				jt += capitalize(m[2])
			}
			return Resolution{
				JobType:  jt,
				HasType:  true,
				Branch:   BranchSimpleExpression,
				Severity: values.SevInfo,
				Text:     fmt.Sprintf("Job type %q derived from %s %q.", jt, ref.Form, value),
			}
		}
		if wrappedExpression.MatchString(value) {
			return r.defaulted(ref, value, BranchMethodExpression,
				fmt.Sprintf("%s %q is not a simple reference; job type set to default %q, original kept as header %q.",
					capitalize(ref.Form.String()), value, r.policy.DefaultJobType, r.policy.HeaderKeys.For(ref.Form)))
		}
	}

	if ref.Form != FormExternalTopic && ref.Form != FormConnector {
		if i := strings.LastIndexByte(value, '.'); i >= 0 && i < len(value)-1 {
			jt := decapitalize(value[i+1:])
			return Resolution{
				JobType:  jt,
				HasType:  true,
				Branch:   BranchClassName,
				Severity: values.SevInfo,
				Text:     fmt.Sprintf("Job type %q derived from %s %q.", jt, ref.Form, value),
			}
		}
	}

	return Resolution{
		JobType:  value,
		HasType:  value != "",
		Branch:   BranchVerbatim,
		Severity: values.SevInfo,
		Text:     fmt.Sprintf("Job type %q taken from %s.", value, ref.Form),
	}
}

func (r *Resolver) defaulted(ref Reference, value string, branch Branch, text string) Resolution {
	return Resolution{
		JobType:  r.policy.DefaultJobType,
		HasType:  true,
		Header:   &Header{Key: r.policy.HeaderKeys.For(ref.Form), Value: value},
		Branch:   branch,
		Severity: values.SevReview,
		Text:     text,
	}
}

func capitalize(s string) string {
	c, size := utf8.DecodeRuneInString(s)
	if c == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(c)) + s[size:]
}

func decapitalize(s string) string {
	c, size := utf8.DecodeRuneInString(s)
	if c == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(c)) + s[size:]
}
