package catalog

import (
	"path"
	"strings"

	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/rules"
)

const camundaFormsPrefix = "camunda-forms:"

var formElements = []string{"userTask", "startEvent"}

func formRules() []rules.Rule {
	form := []convertible.Capability{convertible.CapFormDefinition}
	return []rules.Rule{
		{
			Name:        "form-key",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "formKey",
			Elements:    formElements,
			MinVersion:  v83,
			Requires:    form,
			Description: "Linked forms become a form id, other keys an external reference.",
			Apply:       formKey,
		},
		{
			Name:        "form-ref",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "formRef",
			Elements:    formElements,
			MinVersion:  v83,
			Requires:    form,
			Description: "Links the deployed form.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				id, msg := feel(ctx, "Form reference")
				return rules.Outcome{
					Message: msg,
					Mutation: convertible.WithFormDefinition(func(f *convertible.FormDefinition) {
						f.FormID = convertible.Ptr(id)
					}),
				}, nil
			},
		},
		{
			Name:        "form-ref-binding",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "formRefBinding",
			Elements:    formElements,
			MinVersion:  v86,
			Requires:    form,
			Description: "Sets the binding type of the linked form.",
			Apply: bindingRule("Form", func(m bindingMutation) convertible.Mutation {
				return convertible.WithFormDefinition(func(f *convertible.FormDefinition) { m(&f.BindingType) })
			}),
		},
		{
			Name:        "form-ref-version",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "formRefVersion",
			Elements:    formElements,
			MinVersion:  v86,
			Requires:    form,
			Description: "Binds the linked form by version tag when the binding says so.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				if ctx.Element.AttrValue(dialect.Camunda, "formRefBinding") != "versionTag" {
					return fixedVersion("form")(ctx)
				}
				return versionTagRule("Form", func(tag string) convertible.Mutation {
					return convertible.WithFormDefinition(func(f *convertible.FormDefinition) {
						f.VersionTag = convertible.Ptr(tag)
					})
				})(ctx)
			},
		},
		{
			Name:        "form-handler-class",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "formHandlerClass",
			Description: "Form handlers do not exist in the target engine.",
			Apply:       unsupportedNode("Form handler"),
		},
		{
			Name:        "form-data",
			Node:        rules.NodeElement,
			Namespace:   dialect.Camunda,
			Local:       "formData",
			Elements:    []string{"extensionElements"},
			Subtree:     true,
			Description: "Generated forms are not supported; design a form instead.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				fields := len(ctx.Element.ChildrenNamed(dialect.Camunda, "formField"))
				return rules.Outcome{Message: rules.WithLink(rules.Warning(CodeForm,
					"Generated form with %d field(s) removed; build a form for this task.", fields), pageModels)}, nil
			},
		},
	}
}

func formKey(ctx *rules.Context) (rules.Outcome, error) {
	key := strings.TrimSpace(ctx.Value())
	if strings.HasPrefix(key, camundaFormsPrefix) {
		ref := key[len(camundaFormsPrefix):]
		ref = strings.TrimPrefix(strings.TrimPrefix(ref, "deployment:"), "app:")
		id := strings.TrimSuffix(path.Base(ref), ".form")
		return rules.Outcome{
			Message: rules.Review(CodeForm,
				"Linked form %q converted to form id %q; check that it matches the id inside the form.", key, id),
			Mutation: convertible.WithFormDefinition(func(f *convertible.FormDefinition) {
				f.FormID = convertible.Ptr(id)
			}),
		}, nil
	}

	if !ctx.Settings.Target.AtLeast(v84) {
		return kept(ctx, v84, "An external form reference")
	}
	ref, msg := feel(ctx, "Form key")
	return rules.Outcome{
		Message: msg,
		Mutation: convertible.WithFormDefinition(func(f *convertible.FormDefinition) {
			f.ExternalReference = convertible.Ptr(ref)
		}),
	}, nil
}

func unsupportedNode(what string) func(*rules.Context) (rules.Outcome, error) {
	return func(ctx *rules.Context) (rules.Outcome, error) {
		return warning(CodeUnsupported, "%s %s is not supported and was removed.", what, ctx.NodeName())
	}
}
