package catalog

import (
	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/rules"
)

func propertyRules() []rules.Rule {
	return []rules.Rule{
		{
			Name:        "properties",
			Node:        rules.NodeElement,
			Namespace:   dialect.Camunda,
			Local:       "properties",
			Elements:    []string{"extensionElements"},
			Silent:      true,
			Description: "Container of extension properties.",
			Apply:       silent,
		},
		{
			Name:        "property-header",
			Node:        rules.NodeElement,
			Namespace:   dialect.Camunda,
			Local:       "property",
			Elements:    []string{"properties"},
			Kinds:       headerKinds,
			Requires:    []convertible.Capability{convertible.CapTaskHeaders},
			Description: "Extension properties of tasks become task headers.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				name, value, ok := property(ctx)
				if !ok {
					return warning(CodeProperty, "Property without a name removed.")
				}
				return rules.Outcome{
					Message: rules.Info(CodeHeader, "Property %q converted to task header.", name),
					Mutation: convertible.WithTaskHeaders(func(h *convertible.TaskHeaders) {
						h.Set(name, value)
					}),
				}, nil
			},
		},
		{
			Name:        "property",
			Node:        rules.NodeElement,
			Namespace:   dialect.Camunda,
			Local:       "property",
			Elements:    []string{"properties"},
			Kinds:       propertyKinds,
			MinVersion:  v84,
			Requires:    []convertible.Capability{convertible.CapProperties},
			Description: "Extension properties of other elements become zeebe:properties.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				name, value, ok := property(ctx)
				if !ok {
					return warning(CodeProperty, "Property without a name removed.")
				}
				return rules.Outcome{
					Message: rules.Info(CodeProperty, "Property %q converted.", name),
					Mutation: convertible.WithProperties(func(p *convertible.Properties) {
						p.Add(name, value)
					}),
				}, nil
			},
		},
	}
}

func property(ctx *rules.Context) (name, value string, ok bool) {
	name = ctx.Element.AttrValue("", "name")
	return name, ctx.Element.AttrValue("", "value"), name != ""
}
