package catalog

import (
	"strconv"
	"strings"

	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/diagnostics"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/expression"
	"github.com/reglet-dev/recast/internal/domain/rules"
)

var timerElements = map[string]bool{"timeDuration": true, "timeDate": true, "timeCycle": true}

func eventRules() []rules.Rule {
	loop := []convertible.Capability{convertible.CapLoopCharacteristics}
	mi := []string{"multiInstanceLoopCharacteristics"}

	out := []rules.Rule{
		{
			Name:        "multi-instance",
			Node:        rules.NodeElement,
			Namespace:   dialect.BPMN,
			Local:       "multiInstanceLoopCharacteristics",
			Silent:      true,
			Description: "Carries the loop characteristics.",
			Apply:       silent,
		},
		{
			Name:        "collection",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "collection",
			Elements:    mi,
			Requires:    loop,
			Description: "Sets the input collection.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				collection, msg := collectionExpression(ctx)
				return rules.Outcome{
					Message: msg,
					Mutation: convertible.WithLoopCharacteristics(func(l *convertible.LoopCharacteristics) {
						l.InputCollection = convertible.Ptr(collection)
					}),
				}, nil
			},
		},
		{
			Name:        "element-variable",
			Node:        rules.NodeAttribute,
			Namespace:   dialect.Camunda,
			Local:       "elementVariable",
			Elements:    mi,
			Requires:    loop,
			Description: "Sets the input element.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				name := ctx.Value()
				return rules.Outcome{
					Message: rules.Info(CodeLoop, "Each element is available as %q.", name),
					Mutation: convertible.WithLoopCharacteristics(func(l *convertible.LoopCharacteristics) {
						l.InputElement = convertible.Ptr(name)
					}),
				}, nil
			},
		},
		{
			Name:      "loop-cardinality",
			Node:      rules.NodeElement,
			Namespace: dialect.BPMN,
			Local:     "loopCardinality",
			Elements:  mi,
			When: rules.Func("loop has no collection", func(ctx *rules.Context) bool {
				return !ctx.Element.Parent().HasAttr(dialect.Camunda, "collection")
			}),
			Description: "Replaces a loop cardinality with a generated input collection.",
			Apply:       loopCardinality,
		},
	}

	for _, local := range []string{"conditionExpression", "completionCondition", "condition", "timeDuration", "timeDate", "timeCycle"} {
		out = append(out, rules.Rule{
			Name:        "expression-" + local,
			Node:        rules.NodeElement,
			Namespace:   dialect.BPMN,
			Local:       local,
			Requires:    []convertible.Capability{convertible.CapExpressionBody},
			When:        rules.Func("expression has a body", func(ctx *rules.Context) bool { return ctx.Value() != "" }),
			Description: "Translates the expression body to FEEL.",
			Apply:       expressionBody,
		})
	}

	return append(out,
		rules.Rule{
			Name:        "message-event-definition",
			Node:        rules.NodeElement,
			Namespace:   dialect.BPMN,
			Local:       "messageEventDefinition",
			Elements:    []string{"intermediateCatchEvent", "boundaryEvent"},
			Description: "Message catch events need a correlation key.",
			Apply:       correlationTask,
		},
		rules.Rule{
			Name:        "receive-task",
			Node:        rules.NodeElement,
			Namespace:   dialect.BPMN,
			Local:       "receiveTask",
			When:        rules.Func("task receives a message", func(ctx *rules.Context) bool { return ctx.Element.HasAttr("", "messageRef") }),
			Description: "Receive tasks need a correlation key.",
			Apply:       correlationTask,
		},
		rules.Rule{
			Name:        "message",
			Node:        rules.NodeElement,
			Namespace:   dialect.BPMN,
			Local:       "message",
			Requires:    []convertible.Capability{convertible.CapAttributes},
			When:        rules.Func("message name is an expression", func(ctx *rules.Context) bool { return expression.IsExpression(ctx.Element.AttrValue("", "name")) }),
			Description: "Translates an expression message name to FEEL.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				name, msg := feelExpression(ctx, ctx.Element.AttrValue("", "name"), "Message name")
				return rules.Outcome{
					Message: msg,
					Mutation: convertible.WithAttributes(func(a *convertible.Attributes) {
						a.Set("name", name)
					}),
				}, nil
			},
		},
	)
}

func collectionExpression(ctx *rules.Context) (string, *diagnostics.Message) {
	raw := ctx.Value()
	if !expression.IsExpression(raw) && expression.IsIdentifier(strings.TrimSpace(raw)) {
		name := strings.TrimSpace(raw)
		return "=" + name, rules.Info(CodeLoop, "Input collection read from variable %q.", name)
	}
	return feelExpression(ctx, raw, "Input collection")
}

func loopCardinality(ctx *rules.Context) (rules.Outcome, error) {
	raw := ctx.Value()
	var count string
	if _, err := strconv.Atoi(raw); err == nil {
		count = raw
	} else {
		res := ctx.Settings.Expressions.Transform(raw)
		if res.NeedsReview || res.Literal {
			return warning(CodeLoop, "Loop cardinality %q cannot be translated; define an input collection.", raw)
		}
		count = res.FEEL()
	}

	collection := "=for i in 1.." + count + " return i"
	return rules.Outcome{
		Message: rules.WithTranslation(rules.Review(CodeLoop,
			"Loop cardinality %q replaced by the input collection %s.", raw, collection), raw, collection),
		Mutation: convertible.RemoveElement(ctx.Element.Ordinal()).And(
			convertible.WithLoopCharacteristics(func(l *convertible.LoopCharacteristics) {
				l.InputCollection = convertible.Ptr(collection)
			})),
		Owner: ctx.Element.Parent(),
	}, nil
}

func expressionBody(ctx *rules.Context) (rules.Outcome, error) {
	el := ctx.Element
	raw := ctx.Value()
	if el.HasAttr("", "language") {
		marker := expression.ManualMarker(raw)
		return rules.Outcome{
			Message: rules.Warning(CodeUnsupported,
				"Script condition in %q is not supported; a manual follow-up placeholder was written.", el.AttrValue("", "language")),
			Mutation: convertible.RemoveAttr(el.Ordinal(), "language").And(
				convertible.WithExpressionBody(func(b *convertible.ExpressionBody) { b.Body = convertible.Ptr(marker) })),
		}, nil
	}
	if timerElements[el.Local()] && !expression.IsExpression(raw) {
		return info(rules.CodeConverted, "Static timer value %q kept.", raw)
	}

	body, msg := feelExpression(ctx, raw, "Expression")
	return rules.Outcome{
		Message:  msg,
		Mutation: convertible.WithExpressionBody(func(b *convertible.ExpressionBody) { b.Body = convertible.Ptr(body) }),
	}, nil
}

func correlationTask(ctx *rules.Context) (rules.Outcome, error) {
	ref := ctx.Element.AttrValue("", "messageRef")
	return rules.Outcome{Message: rules.WithLink(rules.Task(CodeCorrelation,
		"Message %q needs a correlation key; add a zeebe:subscription to the message.", ref), pageTechnical)}, nil
}
