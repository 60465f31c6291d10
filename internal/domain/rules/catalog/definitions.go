package catalog

import (
	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/rules"
)

func definitionRules() []rules.Rule {
	out := []rules.Rule{definitionsRule("definitions", dialect.BPMN)}
	for i, ns := range []string{dialect.DMN11, dialect.DMN12, dialect.DMN13, dialect.DMN14} {
		out = append(out, definitionsRule("dmn-definitions-"+string(rune('1'+i)), ns))
	}
	for _, local := range []string{"executionPlatform", "executionPlatformVersion"} {
		out = append(out, rules.Rule{
			Name:        "modeler-" + local,
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Modeler,
			Local:       local,
			Silent:      true,
			Retain:      true,
			Description: "Overwritten with the target platform.",
			Apply:       silent,
		})
	}
	return out
}

func definitionsRule(name, ns string) rules.Rule {
	return rules.Rule{
		Name:        name,
		Node:        rules.NodeElement,
		Namespace:   ns,
		Local:       "definitions",
		Requires:    []convertible.Capability{convertible.CapExecutionPlatform},
		Description: "Sets the execution platform to the target engine and version.",
		Apply: func(ctx *rules.Context) (rules.Outcome, error) {
			version := ctx.Settings.Target.String()
			return rules.Outcome{
				Message: rules.Info(CodeExecutionPlatform, "Execution platform set to %s %s.", dialect.ExecutionPlatform, version),
				Mutation: convertible.WithExecutionPlatform(func(ep *convertible.ExecutionPlatform) {
					ep.Name = convertible.Ptr(dialect.ExecutionPlatform)
					if version != "" {
						ep.Version = convertible.Ptr(version)
					}
				}),
			}, nil
		},
	}
}
