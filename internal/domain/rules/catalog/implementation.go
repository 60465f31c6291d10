package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/jobtype"
	"github.com/reglet-dev/recast/internal/domain/rules"
	"github.com/reglet-dev/recast/internal/domain/values"
)

var jobRequires = []convertible.Capability{convertible.CapTaskDefinition, convertible.CapTaskHeaders}

func implementationRules() []rules.Rule {
	return []rules.Rule{
		{
			Name:        "class",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "class",
			Elements:    implementationElements,
			Kinds:       jobKinds,
			Requires:    jobRequires,
			Description: "Derives the job type from a Java delegate class.",
			Apply:       implementation(jobtype.FormClass),
		},
		{
			Name:        "delegate-expression",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "delegateExpression",
			Elements:    implementationElements,
			Kinds:       jobKinds,
			Requires:    jobRequires,
			Description: "Derives the job type from a delegate expression.",
			Apply:       implementation(jobtype.FormDelegateExpression),
		},
		{
			Name:        "expression",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "expression",
			Elements:    implementationElements,
			Kinds:       jobKinds,
			Requires:    jobRequires,
			Description: "Derives the job type from an expression and keeps the expression as a header.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				out := jobTypeOutcome(ctx, jobtype.Reference{Form: jobtype.FormExpression, Value: ctx.Value()})
				key := ctx.Settings.JobTypes.Policy().HeaderKeys.Expression
				value := strings.TrimSpace(ctx.Value())
				out.Mutation = out.Mutation.And(convertible.WithTaskHeaders(func(h *convertible.TaskHeaders) {
					h.Set(key, value)
				}))
				return out, nil
			},
		},
		{
			Name:        "type",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "type",
			Elements:    implementationElements,
			Silent:      true,
			Description: "External tasks need no marker; other types have no equivalent.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				if ctx.Value() == "external" {
					return rules.Outcome{}, nil
				}
				return review(CodeUnsupported, "Implementation type %q has no equivalent; implement the task with a job worker.", ctx.Value())
			},
		},
		{
			Name:        "topic",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "topic",
			Elements:    implementationElements,
			Kinds:       jobKinds,
			Requires:    jobRequires,
			Description: "Uses the external task topic as job type.",
			Apply:       implementation(jobtype.FormExternalTopic),
		},
		{
			Name:        "failed-job-retry-time-cycle",
			Node:        rules.NodeElement,
			Namespace:   dialect.Camunda,
			Local:       "failedJobRetryTimeCycle",
			Elements:    []string{"extensionElements"},
			Kinds:       retryKinds,
			Requires:    []convertible.Capability{convertible.CapTaskDefinition},
			Description: "Maps the retry count of an R<n>/<interval> cycle to job retries.",
			Apply:       retryCycle,
		},
		{
			Name:        "connector",
			Node:        rules.NodeElement,
			Namespace:   dialect.Camunda,
			Local:       "connector",
			Elements:    []string{"extensionElements"},
			Silent:      true,
			Description: "Container of the connector id and its parameters.",
			Apply:       silent,
		},
		{
			Name:        "connector-id",
			Node:        rules.NodeElement,
			Namespace:   dialect.Camunda,
			Local:       "connectorId",
			Elements:    []string{"connector"},
			Kinds:       jobKinds,
			Requires:    jobRequires,
			Description: "Uses the connector id as job type.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				out := jobTypeOutcome(ctx, jobtype.Reference{Form: jobtype.FormConnector, Value: ctx.Value()})
				out.Message.Severity = values.SevReview
				out.Message.Text += " Provide a job worker or an outbound connector for it."
				return out, nil
			},
		},
		{
			Name:        "field",
			Node:        rules.NodeElement,
			Namespace:   dialect.Camunda,
			Local:       "field",
			Elements:    []string{"extensionElements"},
			Kinds:       jobKinds,
			Requires:    []convertible.Capability{convertible.CapTaskHeaders},
			Subtree:     true,
			Description: "Turns an injected field into a task header.",
			Apply:       field,
		},
	}
}

func implementation(form jobtype.Form) func(*rules.Context) (rules.Outcome, error) {
	return func(ctx *rules.Context) (rules.Outcome, error) {
		return jobTypeOutcome(ctx, jobtype.Reference{Form: form, Value: ctx.Value()}), nil
	}
}

func jobTypeOutcome(ctx *rules.Context, ref jobtype.Reference) rules.Outcome {
	res := ctx.Settings.JobTypes.Resolve(ref)
	m := convertible.WithTaskDefinition(func(td *convertible.TaskDefinition) {
		if res.HasType {
			td.Type = convertible.Ptr(res.JobType)
		}
	})
	if res.Header != nil {
		h := *res.Header
		m = m.And(convertible.WithTaskHeaders(func(th *convertible.TaskHeaders) {
			th.Set(h.Key, h.Value)
		}))
	}
	msg := rules.Message(res.Severity, res.Branch.String(), "%s", res.Text)
	return rules.Outcome{Message: rules.WithLink(msg, pageCode), Mutation: m}
}

var retryCyclePattern = regexp.MustCompile(`^R(\d+)/(.+)$`)

func retryCycle(ctx *rules.Context) (rules.Outcome, error) {
	value := ctx.Value()
	m := retryCyclePattern.FindStringSubmatch(value)
	if m == nil {
		return review(CodeRetries, "Retry cycle %q cannot be mapped; the default retries apply.", value)
	}
	retries, err := strconv.Atoi(m[1])
	if err != nil {
		return review(CodeRetries, "Retry count in %q is out of range; the default retries apply.", value)
	}
	if !emitsJobType(ctx) {
		return review(CodeRetries, "Retry cycle %q dropped; the %s gets no job type to carry retries.", value, ctx.Owner.Local())
	}
	return rules.Outcome{
		Message: rules.Info(CodeRetries, "Job retries set to %d; the retry interval %q is not carried over.", retries, m[2]),
		Mutation: convertible.WithTaskDefinition(func(td *convertible.TaskDefinition) {
			td.Retries = convertible.Ptr(retries)
		}),
	}, nil
}

// emitsJobType reports whether the owner ends up with a job type. FEEL
// scripts run in the engine and the always-blank policy writes none.
func emitsJobType(ctx *rules.Context) bool {
	if ctx.Owner.Local() == "scriptTask" {
		return !isFEELScript(ctx.Owner)
	}
	return !ctx.Settings.JobTypes.Policy().AlwaysBlank
}

func field(ctx *rules.Context) (rules.Outcome, error) {
	el := ctx.Element
	name := el.AttrValue("", "name")
	if name == "" {
		return warning(CodeHeader, "Field without a name dropped.")
	}

	value, isExpression := el.AttrValue("", "stringValue"), false
	switch {
	case el.HasAttr("", "stringValue"):
	case el.HasAttr("", "expression"):
		value, isExpression = el.AttrValue("", "expression"), true
	default:
		if c, ok := el.FirstChild(dialect.Camunda, "string"); ok {
			value = c.TrimmedText()
		} else if c, ok := el.FirstChild(dialect.Camunda, "expression"); ok {
			value, isExpression = c.TrimmedText(), true
		}
	}

	out := rules.Outcome{Mutation: convertible.WithTaskHeaders(func(h *convertible.TaskHeaders) {
		h.Set(name, value)
	})}
	if isExpression {
		out.Message = rules.Review(CodeHeader,
			"Expression field %q kept as static header; the job worker must evaluate %q.", name, value)
	} else {
		out.Message = rules.Info(CodeHeader, "Field %q converted to task header.", name)
	}
	return out, nil
}
