package catalog

import (
	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/diagnostics"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/rules"
	"github.com/reglet-dev/recast/internal/domain/source"
)

var calledElementRequires = []convertible.Capability{convertible.CapCalledElement}

func callActivityRules() []rules.Rule {
	propagatesAll := rules.HasExtension(dialect.Camunda, "out", func(el *source.Element) bool {
		return el.AttrValue("", "variables") == "all"
	})
	mappings := []convertible.Capability{convertible.CapIoMapping, convertible.CapCalledElement}
	callActivity := []convertible.Kind{convertible.KindCallActivity}

	return []rules.Rule{
		{
			Name:        "call-activity",
			Node:        rules.NodeElement,
			Namespace:   dialect.BPMN,
			Local:       "callActivity",
			Requires:    calledElementRequires,
			When:        rules.Not(propagatesAll, "all child variables are propagated"),
			Description: "Stops propagating all child variables unless the legacy model did.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				return rules.Outcome{
					Message: rules.Info(CodeCalledElement,
						"Child variables are not propagated; only output mappings are applied, as before."),
					Mutation: convertible.WithCalledElement(func(ce *convertible.CalledElement) {
						ce.PropagateAllChildVariables = convertible.Ptr(false)
					}),
				}, nil
			},
		},
		{
			Name:        "called-element",
			Node:        rules.NodeAttribute,
			Namespace:   "",
			Local:       "calledElement",
			Elements:    []string{"callActivity"},
			Requires:    calledElementRequires,
			Retain:      true,
			Description: "Sets the called process id.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				id, msg := feel(ctx, "Called element")
				return rules.Outcome{
					Message: msg,
					Mutation: convertible.WithCalledElement(func(ce *convertible.CalledElement) {
						ce.ProcessID = convertible.Ptr(id)
					}),
				}, nil
			},
		},
		{
			Name:        "called-element-binding",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "calledElementBinding",
			Elements:    []string{"callActivity"},
			MinVersion:  v86,
			Requires:    calledElementRequires,
			Description: "Sets the binding type of the called process.",
			Apply: bindingRule("Process", func(m bindingMutation) convertible.Mutation {
				return convertible.WithCalledElement(func(ce *convertible.CalledElement) { m(&ce.BindingType) })
			}),
		},
		{
			Name:        "called-element-version",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "calledElementVersion",
			Elements:    []string{"callActivity"},
			MinVersion:  v86,
			Description: "Fixed process versions cannot be bound.",
			Apply:       fixedVersion("process"),
		},
		{
			Name:        "called-element-version-tag",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "calledElementVersionTag",
			Elements:    []string{"callActivity"},
			MinVersion:  v86,
			Requires:    calledElementRequires,
			Description: "Binds the called process by version tag.",
			Apply: versionTagRule("Process", func(tag string) convertible.Mutation {
				return convertible.WithCalledElement(func(ce *convertible.CalledElement) {
					ce.BindingType = convertible.Ptr("versionTag")
					ce.VersionTag = convertible.Ptr(tag)
				})
			}),
		},
		tenantRule("called-element-tenant-id", "calledElementTenantId", "callActivity"),
		{
			Name:        "variable-mapping-class",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "variableMappingClass",
			Elements:    []string{"callActivity"},
			Description: "Delegate variable mappings do not exist in the target engine.",
			Apply:       unsupportedNode("Variable mapping delegate"),
		},
		{
			Name:        "variable-mapping-delegate-expression",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "variableMappingDelegateExpression",
			Elements:    []string{"callActivity"},
			Description: "Delegate variable mappings do not exist in the target engine.",
			Apply:       unsupportedNode("Variable mapping delegate"),
		},
		{
			Name:        "call-activity-in",
			Node:        rules.NodeElement,
			Namespace:   dialect.Camunda,
			Local:       "in",
			Elements:    []string{"extensionElements"},
			Kinds:       callActivity,
			Requires:    mappings,
			Description: "Input mapping of a call activity.",
			Apply:       callIn,
		},
		{
			Name:        "call-activity-out",
			Node:        rules.NodeElement,
			Namespace:   dialect.Camunda,
			Local:       "out",
			Elements:    []string{"extensionElements"},
			Kinds:       callActivity,
			Requires:    mappings,
			Description: "Output mapping of a call activity.",
			Apply:       callOut,
		},
	}
}

func callIn(ctx *rules.Context) (rules.Outcome, error) {
	el := ctx.Element
	switch {
	case el.HasAttr("", "businessKey"):
		return warning(CodeMapping, "Business key %q is not supported and was removed.", el.AttrValue("", "businessKey"))
	case el.AttrValue("", "variables") == "all":
		if !ctx.Settings.Target.AtLeast(v82) {
			return kept(ctx, v82, "Propagating all parent variables")
		}
		return rules.Outcome{
			Message: rules.Info(CodeCalledElement, "All parent variables are propagated to the called process."),
			Mutation: convertible.WithCalledElement(func(ce *convertible.CalledElement) {
				ce.PropagateAllParentVariables = convertible.Ptr(true)
			}),
		}, nil
	}
	from, target, msg := mapping(ctx)
	if msg != nil && target == "" {
		return rules.Outcome{Message: msg}, nil
	}
	return rules.Outcome{
		Message: msg,
		Mutation: convertible.WithIoMapping(func(io *convertible.IoMapping) {
			io.AddInput(from, target)
		}),
	}, nil
}

func callOut(ctx *rules.Context) (rules.Outcome, error) {
	if ctx.Element.AttrValue("", "variables") == "all" {
		return rules.Outcome{
			Message: rules.Info(CodeCalledElement, "All child variables are propagated to the calling process."),
			Mutation: convertible.WithCalledElement(func(ce *convertible.CalledElement) {
				ce.PropagateAllChildVariables = convertible.Ptr(true)
			}),
		}, nil
	}
	from, target, msg := mapping(ctx)
	if msg != nil && target == "" {
		return rules.Outcome{Message: msg}, nil
	}
	return rules.Outcome{
		Message: msg,
		Mutation: convertible.WithIoMapping(func(io *convertible.IoMapping) {
			io.AddOutput(from, target)
		}),
	}, nil
}

// mapping reads source or sourceExpression and target of a camunda:in or
// camunda:out element. An empty target comes with a warning.
func mapping(ctx *rules.Context) (string, string, *diagnostics.Message) {
	el := ctx.Element
	target := el.AttrValue("", "target")
	if target == "" {
		return "", "", rules.Warning(CodeMapping, "Variable mapping without target removed.")
	}
	if el.HasAttr("", "sourceExpression") {
		from, msg := feelExpression(ctx, el.AttrValue("", "sourceExpression"), "Mapping source")
		return from, target, msg
	}
	from := el.AttrValue("", "source")
	return "=" + from, target, rules.Info(CodeMapping, "Variable %q mapped to %q.", from, target)
}
