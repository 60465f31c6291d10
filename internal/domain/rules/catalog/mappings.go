package catalog

import (
	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/rules"
)

func mappingRules() []rules.Rule {
	io := []convertible.Capability{convertible.CapIoMapping}
	return []rules.Rule{
		{
			Name:        "input-output",
			Node:        rules.NodeElement,
			Namespace:   dialect.Camunda,
			Local:       "inputOutput",
			Elements:    []string{"extensionElements", "connector"},
			Silent:      true,
			Description: "Container of input and output parameters.",
			Apply:       silent,
		},
		{
			Name:        "input-parameter",
			Node:        rules.NodeElement,
			Namespace:   dialect.Camunda,
			Local:       "inputParameter",
			Elements:    []string{"inputOutput"},
			Kinds:       ioKinds,
			Requires:    io,
			Subtree:     true,
			Description: "Input parameter to input mapping.",
			Apply: parameter(func(source, target string) convertible.Mutation {
				return convertible.WithIoMapping(func(m *convertible.IoMapping) { m.AddInput(source, target) })
			}),
		},
		{
			Name:        "output-parameter",
			Node:        rules.NodeElement,
			Namespace:   dialect.Camunda,
			Local:       "outputParameter",
			Elements:    []string{"inputOutput"},
			Kinds:       ioKinds,
			Requires:    io,
			Subtree:     true,
			Description: "Output parameter to output mapping.",
			Apply: parameter(func(source, target string) convertible.Mutation {
				return convertible.WithIoMapping(func(m *convertible.IoMapping) { m.AddOutput(source, target) })
			}),
		},
	}
}

// parameter converts a camunda:inputParameter or camunda:outputParameter.
// Only text values are supported; nested lists, maps and scripts are not.
func parameter(add func(source, target string) convertible.Mutation) func(*rules.Context) (rules.Outcome, error) {
	return func(ctx *rules.Context) (rules.Outcome, error) {
		el := ctx.Element
		name := el.AttrValue("", "name")
		if name == "" {
			return warning(CodeMapping, "Parameter without a name removed.")
		}
		if children := el.Children(); len(children) > 0 {
			return warning(CodeMapping,
				"Parameter %q has a nested %s value, which is not supported; the mapping was removed.",
				name, children[0].Local())
		}

		raw := el.Text()
		if el.TrimmedText() == "" {
			return rules.Outcome{
				Message:  rules.Info(CodeMapping, "Parameter %q mapped to null.", name),
				Mutation: add("=null", name),
			}, nil
		}
		source, msg := feelExpression(ctx, raw, "Parameter "+name)
		return rules.Outcome{Message: msg, Mutation: add(source, name)}, nil
	}
}
