package catalog

import (
	"strings"

	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/rules"
	"github.com/reglet-dev/recast/internal/domain/values"
)

var decisionRequires = []convertible.Capability{convertible.CapCalledDecision}

func decisionRules() []rules.Rule {
	return []rules.Rule{
		{
			Name:        "business-rule-task",
			Node:        rules.NodeElement,
			Namespace:   dialect.BPMN,
			Local:       "businessRuleTask",
			When:        rules.Func("decision without result variable", decisionWithoutResult),
			Description: "Flags called decisions without a result variable.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				return rules.Outcome{Message: rules.Task(CodeDecision,
					"Called decision %q has no result variable; set one, it is required by the target engine.",
					ctx.Element.AttrValue(dialect.Camunda, "decisionRef"))}, nil
			},
		},
		{
			Name:        "decision-ref",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "decisionRef",
			Elements:    []string{"businessRuleTask"},
			Requires:    decisionRequires,
			Description: "Sets the called decision id.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				id, msg := feel(ctx, "Decision reference")
				return rules.Outcome{
					Message: msg,
					Mutation: convertible.WithCalledDecision(func(cd *convertible.CalledDecision) {
						cd.DecisionID = convertible.Ptr(id)
					}),
				}, nil
			},
		},
		{
			Name:        "decision-result-variable",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "resultVariable",
			Elements:    []string{"businessRuleTask"},
			Requires:    decisionRequires,
			When:        rules.Func("task calls a decision", callsDecision),
			Description: "Sets the result variable of the called decision.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				name := ctx.Value()
				return rules.Outcome{
					Message: rules.Info(CodeDecision, "Decision result stored in %q.", name),
					Mutation: convertible.WithCalledDecision(func(cd *convertible.CalledDecision) {
						cd.ResultVariable = convertible.Ptr(name)
					}),
				}, nil
			},
		},
		{
			Name:        "job-result-variable",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "resultVariable",
			Elements:    []string{"serviceTask", "sendTask", "businessRuleTask"},
			Requires:    []convertible.Capability{convertible.CapTaskHeaders},
			When:        rules.Not(rules.Func("task calls a decision", callsDecision), "task calls a decision"),
			Description: "Keeps the result variable of an expression task as a header.",
			Apply:       resultVariableHeader,
		},
		{
			Name:        "decision-ref-binding",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "decisionRefBinding",
			Elements:    []string{"businessRuleTask"},
			MinVersion:  v86,
			Requires:    decisionRequires,
			Description: "Sets the binding type of the called decision.",
			Apply: bindingRule("Decision", func(m bindingMutation) convertible.Mutation {
				return convertible.WithCalledDecision(func(cd *convertible.CalledDecision) { m(&cd.BindingType) })
			}),
		},
		{
			Name:        "decision-ref-version",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "decisionRefVersion",
			Elements:    []string{"businessRuleTask"},
			MinVersion:  v86,
			Description: "Fixed decision versions cannot be bound.",
			Apply:       fixedVersion("decision"),
		},
		{
			Name:        "decision-ref-version-tag",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "decisionRefVersionTag",
			Elements:    []string{"businessRuleTask"},
			MinVersion:  v86,
			Requires:    decisionRequires,
			Description: "Binds the called decision by version tag.",
			Apply: versionTagRule("Decision", func(tag string) convertible.Mutation {
				return convertible.WithCalledDecision(func(cd *convertible.CalledDecision) {
					cd.BindingType = convertible.Ptr("versionTag")
					cd.VersionTag = convertible.Ptr(tag)
				})
			}),
		},
		{
			Name:        "map-decision-result",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "mapDecisionResult",
			Elements:    []string{"businessRuleTask"},
			Description: "Result mappers do not exist in the target engine.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				return review(CodeDecision,
					"Decision result mapper %q removed; the result variable holds the decision output as is, check its consumers.", ctx.Value())
			},
		},
		tenantRule("decision-ref-tenant-id", "decisionRefTenantId", "businessRuleTask"),
	}
}

func callsDecision(ctx *rules.Context) bool {
	return ctx.Element.HasAttr(dialect.Camunda, "decisionRef")
}

func decisionWithoutResult(ctx *rules.Context) bool {
	return callsDecision(ctx) && !ctx.Element.HasAttr(dialect.Camunda, "resultVariable")
}

func resultVariableHeader(ctx *rules.Context) (rules.Outcome, error) {
	key := ctx.Settings.Headers.ResultVariable
	name := ctx.Value()
	return rules.Outcome{
		Message: rules.Review(CodeHeader,
			"Result variable %q kept as header %q; the job worker must set the variable.", name, key),
		Mutation: convertible.WithTaskHeaders(func(h *convertible.TaskHeaders) {
			h.Set(key, name)
		}),
	}, nil
}

// bindingMutation writes a binding type into the field it is given.
type bindingMutation func(field **string)

// bindingRule maps the legacy binding types. "version" has no target
// equivalent.
func bindingRule(what string, mutation func(bindingMutation) convertible.Mutation) func(*rules.Context) (rules.Outcome, error) {
	return func(ctx *rules.Context) (rules.Outcome, error) {
		binding := strings.TrimSpace(ctx.Value())
		switch binding {
		case "latest", "deployment", "versionTag":
			return rules.Outcome{
				Message: rules.Info(CodeBinding, "%s binding %q converted.", what, binding),
				Mutation: mutation(func(field **string) {
					*field = convertible.Ptr(binding)
				}),
			}, nil
		case "version":
			return review(CodeBinding,
				"%s binding by version is not supported; the latest version is called. Bind by version tag instead.", what)
		default:
			return warning(CodeBinding, "%s binding %q is unknown and was removed.", what, binding)
		}
	}
}

func versionTagRule(what string, mutation func(tag string) convertible.Mutation) func(*rules.Context) (rules.Outcome, error) {
	return func(ctx *rules.Context) (rules.Outcome, error) {
		tag := ctx.Value()
		return rules.Outcome{
			Message:  rules.Info(CodeBinding, "%s bound by version tag %q.", what, tag),
			Mutation: mutation(tag),
		}, nil
	}
}

func fixedVersion(what string) func(*rules.Context) (rules.Outcome, error) {
	return func(ctx *rules.Context) (rules.Outcome, error) {
		return review(CodeBinding,
			"Fixed %s version %q cannot be bound; tag that version and bind by version tag.", what, ctx.Value())
	}
}

func tenantRule(name, local string, elements ...string) rules.Rule {
	return rules.Rule{
		Name:        name,
		Node:        rules.NodeAttribute,
		Namespace:   dialect.Camunda,
		Local:       local,
		Elements:    elements,
		Description: "Resolves a tenant reference against the tenant policy.",
		Apply: func(ctx *rules.Context) (rules.Outcome, error) {
			tenant := ctx.Value()
			if ctx.Settings.Tenant.IsDefault(tenant) {
				return info(CodeTenant, "Tenant %q is the deployment tenant; reference removed.", tenant)
			}
			return rules.Outcome{Message: rules.Message(values.SevWarning, CodeTenant,
				"Tenant %q differs from the deployment tenant; cross-tenant references are not supported.", tenant)}, nil
		},
	}
}
