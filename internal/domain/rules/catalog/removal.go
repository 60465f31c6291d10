package catalog

import (
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/rules"
	"github.com/reglet-dev/recast/internal/domain/values"
)

const noEffect = "%s has no effect in the target engine and was removed."

func removalRules() []rules.Rule {
	out := []rules.Rule{
		removed("task-priority", dialect.Camunda, "taskPriority", values.SevWarning,
			"%s is not supported and was removed; jobs are not prioritized."),
		removed("job-priority", dialect.Camunda, "jobPriority", values.SevWarning,
			"%s is not supported and was removed; jobs are not prioritized."),
	}
	for _, a := range []struct{ name, local string }{
		{"async-before", "asyncBefore"},
		{"async-after", "asyncAfter"},
		{"async", "async"},
		{"exclusive", "exclusive"},
	} {
		out = append(out, removed(a.name, dialect.Camunda, a.local, values.SevInfo,
			"%s removed; every wait state is persisted by the target engine."))
	}
	return append(out,
		removed("error-code-variable", dialect.Camunda, "errorCodeVariable", values.SevWarning,
			"%s is not supported and was removed; map the error code with an output mapping.", "errorEventDefinition"),
		removed("error-message-variable", dialect.Camunda, "errorMessageVariable", values.SevWarning,
			"%s is not supported and was removed; map the error message with an output mapping.", "errorEventDefinition"),
		removed("variable-name", dialect.Camunda, "variableName", values.SevWarning,
			"%s is not supported and was removed; conditional events are evaluated on every change.", "conditionalEventDefinition"),
		removed("variable-events", dialect.Camunda, "variableEvents", values.SevWarning,
			"%s is not supported and was removed; conditional events are evaluated on every change.", "conditionalEventDefinition"),
		removed("input-variable", dialect.CamundaDMN, "inputVariable", values.SevWarning,
			"%s is not supported and was removed; refer to the input expression with ?.", "input"),
	)
}

// removed builds a rule that drops an attribute. text is formatted with the
// attribute name. Info removals lose nothing; anything higher is reported as
// unsupported.
func removed(name, ns, local string, sev values.Severity, text string, elements ...string) rules.Rule {
	code := CodeUnsupported
	if sev.Equals(values.SevInfo) {
		code = CodeRemoved
	}
	return rules.Rule{
		Name:        name,
		Node:        rules.NodeAttribute,
		Namespace:   ns,
		Local:       local,
		Elements:    elements,
		Description: "Removes " + dialect.Qualify(dialect.ShortName(ns), local) + ".",
		Apply: func(ctx *rules.Context) (rules.Outcome, error) {
			return rules.Outcome{Message: rules.Message(sev, code, text, ctx.NodeName())}, nil
		},
	}
}

func fallbackRules() []rules.Rule {
	var out []rules.Rule
	for _, f := range []struct{ ns, name string }{
		{dialect.Camunda, "camunda"},
		{dialect.CamundaDMN, "camunda-dmn"},
	} {
		out = append(out,
			rules.Rule{
				Name:        f.name + "-attribute-fallback",
				Node:        rules.NodeAttribute,
				Namespace:   f.ns,
				Fallback:    true,
				Description: "Removes any other legacy attribute.",
				Apply: func(ctx *rules.Context) (rules.Outcome, error) {
					return warning(CodeFallback, "Attribute %s is not converted and was removed.", ctx.NodeName())
				},
			},
			rules.Rule{
				Name:        f.name + "-element-fallback",
				Node:        rules.NodeElement,
				Namespace:   f.ns,
				Fallback:    true,
				Subtree:     true,
				Description: "Removes any other legacy element with its content.",
				Apply: func(ctx *rules.Context) (rules.Outcome, error) {
					return warning(CodeFallback, "Element %s is not converted and was removed.", ctx.NodeName())
				},
			},
		)
	}
	return out
}
