package catalog

import (
	"strings"

	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/rules"
	"github.com/reglet-dev/recast/internal/domain/source"
)

// DefaultScriptJobType is the job type of script tasks in languages other
// than FEEL.
const DefaultScriptJobType = "script"

func scriptRules() []rules.Rule {
	return []rules.Rule{
		{
			Name:        "script-task",
			Node:        rules.NodeElement,
			Namespace:   dialect.BPMN,
			Local:       "scriptTask",
			MinVersion:  v82,
			Requires:    []convertible.Capability{convertible.CapScript, convertible.CapTaskDefinition, convertible.CapTaskHeaders},
			Description: "Inline FEEL scripts become zeebe:script; other languages are delegated to a job worker.",
			Apply:       scriptTask,
		},
		{
			Name:        "script-result-variable",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "resultVariable",
			Elements:    []string{"scriptTask"},
			MinVersion:  v82,
			Requires:    []convertible.Capability{convertible.CapScript, convertible.CapTaskHeaders},
			Description: "Sets the result variable of the script.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				if !isFEELScript(ctx.Element) {
					return resultVariableHeader(ctx)
				}
				name := ctx.Value()
				return rules.Outcome{
					Message: rules.Info(CodeScript, "Script result stored in %q.", name),
					Mutation: convertible.WithScript(func(s *convertible.Script) {
						s.ResultVariable = convertible.Ptr(name)
					}),
				}, nil
			},
		},
		{
			Name:        "script-resource",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "resource",
			Elements:    []string{"scriptTask"},
			Requires:    []convertible.Capability{convertible.CapTaskHeaders},
			Description: "Keeps an external script resource as a header.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				key := ctx.Settings.Headers.Resource
				resource := ctx.Value()
				return rules.Outcome{
					Message: rules.Review(CodeScript,
						"Script resource %q kept as header %q; the job worker must load it.", resource, key),
					Mutation: convertible.WithTaskHeaders(func(h *convertible.TaskHeaders) {
						h.Set(key, resource)
					}),
				}, nil
			},
		},
	}
}

func isFEELScript(el *source.Element) bool {
	return strings.EqualFold(strings.TrimSpace(el.AttrValue("", "scriptFormat")), "feel")
}

func scriptTask(ctx *rules.Context) (rules.Outcome, error) {
	el := ctx.Element
	format := el.AttrValue("", "scriptFormat")
	body := ""
	m := convertible.RemoveAttr(el.Ordinal(), "scriptFormat")
	if script, ok := el.FirstChild(dialect.BPMN, "script"); ok {
		body = script.TrimmedText()
		m = m.And(convertible.RemoveElement(script.Ordinal()))
	}

	if isFEELScript(el) {
		expr := body
		if !strings.HasPrefix(expr, "=") {
			expr = "=" + expr
		}
		return rules.Outcome{
			Message: rules.Info(CodeScript, "FEEL script converted to zeebe:script."),
			Mutation: m.And(convertible.WithScript(func(s *convertible.Script) {
				s.Expression = convertible.Ptr(expr)
			})),
		}, nil
	}

	jobType := ctx.Settings.ScriptJobType
	if jobType == "" {
		jobType = DefaultScriptJobType
	}
	keys := ctx.Settings.Headers
	m = m.And(
		convertible.WithTaskDefinition(func(td *convertible.TaskDefinition) {
			td.Type = convertible.Ptr(jobType)
		}),
		convertible.WithTaskHeaders(func(h *convertible.TaskHeaders) {
			h.Set(keys.ScriptFormat, format)
			if body != "" {
				h.Set(keys.Script, body)
			}
		}),
	)
	return rules.Outcome{
		Message: rules.WithLink(rules.Review(CodeScript,
			"Script in %q is executed by a job worker of type %q; provide one or rewrite the script in FEEL.", format, jobType),
			pageCode),
		Mutation: m,
	}, nil
}
