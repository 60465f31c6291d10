// Package catalog holds the conversion rules for the legacy BPMN and DMN
// extension attributes and elements.
package catalog

import (
	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/diagnostics"
	"github.com/reglet-dev/recast/internal/domain/rules"
	"github.com/reglet-dev/recast/internal/domain/values"
)

// Message codes.
const (
	CodeRemoved              = "attribute-removed"
	CodeUnsupported          = "unsupported"
	CodeExpressionTranslated = "expression-translated"
	CodeExpressionReview     = "expression-review"
	CodeExecutionPlatform    = "execution-platform"
	CodeRetries              = "retries"
	CodeHeader               = "task-header"
	CodeDecision             = "called-decision"
	CodeBinding              = "binding"
	CodeTenant               = "tenant"
	CodeScript               = "script"
	CodeUserTask             = "user-task"
	CodeForm                 = "form"
	CodeCalledElement        = "called-element"
	CodeMapping              = "io-mapping"
	CodeProperty             = "property"
	CodeListener             = "listener"
	CodeLoop                 = "multi-instance"
	CodeCorrelation          = "correlation-key"
	CodeMessageName          = "message-name"
	CodeFallback             = "not-converted"
)

// Documentation pages below rules.DocsBase.
const (
	pageCode      = "code-conversion/"
	pageTechnical = "technical-details/"
	pageModels    = "migration-tooling/"
)

var (
	v82 = values.MustParseTargetVersion("8.2")
	v83 = values.MustParseTargetVersion("8.3")
	v84 = values.MustParseTargetVersion("8.4")
	v85 = values.MustParseTargetVersion("8.5")
	v86 = values.MustParseTargetVersion("8.6")
	v88 = values.MustParseTargetVersion("8.8")
)

// Owner kind groups.
var (
	jobKinds = []convertible.Kind{
		convertible.KindServiceTask,
		convertible.KindBusinessRuleTask,
		convertible.KindThrowEvent,
	}
	retryKinds = []convertible.Kind{
		convertible.KindServiceTask,
		convertible.KindBusinessRuleTask,
		convertible.KindScriptTask,
		convertible.KindThrowEvent,
	}
	headerKinds = []convertible.Kind{
		convertible.KindServiceTask,
		convertible.KindBusinessRuleTask,
		convertible.KindScriptTask,
		convertible.KindUserTask,
		convertible.KindThrowEvent,
	}
	propertyKinds = []convertible.Kind{
		convertible.KindProcess,
		convertible.KindSubProcess,
		convertible.KindReceiveTask,
		convertible.KindTask,
		convertible.KindCallActivity,
		convertible.KindStartEvent,
		convertible.KindCatchEvent,
		convertible.KindGateway,
		convertible.KindSequenceFlow,
	}
	ioKinds = []convertible.Kind{
		convertible.KindSubProcess,
		convertible.KindServiceTask,
		convertible.KindBusinessRuleTask,
		convertible.KindScriptTask,
		convertible.KindUserTask,
		convertible.KindReceiveTask,
		convertible.KindTask,
		convertible.KindCallActivity,
		convertible.KindStartEvent,
		convertible.KindThrowEvent,
		convertible.KindCatchEvent,
	}
	listenerKinds = []convertible.Kind{
		convertible.KindProcess,
		convertible.KindSubProcess,
		convertible.KindServiceTask,
		convertible.KindBusinessRuleTask,
		convertible.KindScriptTask,
		convertible.KindUserTask,
		convertible.KindReceiveTask,
		convertible.KindTask,
		convertible.KindCallActivity,
		convertible.KindStartEvent,
		convertible.KindThrowEvent,
		convertible.KindCatchEvent,
		convertible.KindGateway,
	}
)

// implementationElements carry implementation references.
var implementationElements = []string{
	"serviceTask", "sendTask", "businessRuleTask",
	"intermediateThrowEvent", "endEvent", "messageEventDefinition",
}

// Rules returns the full rule set in registration order.
func Rules() []rules.Rule {
	var all []rules.Rule
	for _, group := range [][]rules.Rule{
		definitionRules(),
		implementationRules(),
		decisionRules(),
		scriptRules(),
		userTaskRules(),
		formRules(),
		callActivityRules(),
		mappingRules(),
		propertyRules(),
		listenerRules(),
		eventRules(),
		processRules(),
		removalRules(),
		fallbackRules(),
	} {
		all = append(all, group...)
	}
	return all
}

// NewRegistry returns a registry holding Rules. It panics if a rule is
// invalid.
func NewRegistry() *rules.Registry {
	return rules.NewRegistry().MustRegister(Rules()...)
}

// feel translates the node's value for a target field that accepts either a
// static value or an expression. It returns the value to write and the
// message describing the translation.
func feel(ctx *rules.Context, what string) (string, *diagnostics.Message) {
	return translate(ctx, ctx.Value(), what, true)
}

// feelExpression is feel for target fields that only accept expressions.
// Literals become FEEL string literals.
func feelExpression(ctx *rules.Context, raw, what string) (string, *diagnostics.Message) {
	return translate(ctx, raw, what, false)
}

func translate(ctx *rules.Context, raw, what string, static bool) (string, *diagnostics.Message) {
	res := ctx.Settings.Expressions.Transform(raw)
	switch {
	case res.NeedsReview:
		msg := rules.Review(CodeExpressionReview,
			"%s %q could not be translated to FEEL (%s); a manual follow-up placeholder was written.",
			what, res.Original, res.Reason)
		return res.Expression, rules.WithLink(rules.WithTranslation(msg, res.Original, res.BestEffort), pageTechnical)
	case res.Literal && static:
		return res.Static(), rules.Info(rules.CodeConverted, "%s %q converted.", what, res.Original)
	default:
		msg := rules.Info(CodeExpressionTranslated, "%s %q translated to %s.", what, res.Original, res.Expression)
		return res.Expression, rules.WithTranslation(msg, res.Original, res.Expression)
	}
}

func info(code, format string, args ...any) (rules.Outcome, error) {
	return rules.Outcome{Message: rules.Info(code, format, args...)}, nil
}

func warning(code, format string, args ...any) (rules.Outcome, error) {
	return rules.Outcome{Message: rules.Warning(code, format, args...)}, nil
}

func review(code, format string, args ...any) (rules.Outcome, error) {
	return rules.Outcome{Message: rules.Review(code, format, args...)}, nil
}

func silent(*rules.Context) (rules.Outcome, error) {
	return rules.Outcome{}, nil
}

// kept reports a node that stays in the document because the target version
// lacks the feature its value needs.
func kept(ctx *rules.Context, minimum values.TargetVersion, feature string) (rules.Outcome, error) {
	msg := rules.Warning(rules.CodeUnsupportedVersion,
		"%s is not supported in target version %s, requires %s.",
		feature, ctx.Settings.Target.Short(), minimum.Short())
	return rules.Outcome{Message: msg, Keep: true}, nil
}
