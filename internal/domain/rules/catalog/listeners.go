package catalog

import (
	"fmt"

	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/jobtype"
	"github.com/reglet-dev/recast/internal/domain/rules"
	"github.com/reglet-dev/recast/internal/domain/values"
)

var executionEvents = map[string]string{
	"start": "start",
	"end":   "end",
}

var taskEvents = map[string]string{
	"create":     "creating",
	"assignment": "assigning",
	"update":     "updating",
	"complete":   "completing",
	"delete":     "canceling",
}

func listenerRules() []rules.Rule {
	return []rules.Rule{
		{
			Name:        "execution-listener",
			Node:        rules.NodeElement,
			Namespace:   dialect.Camunda,
			Local:       "executionListener",
			Elements:    []string{"extensionElements"},
			Kinds:       listenerKinds,
			MinVersion:  v86,
			Requires:    []convertible.Capability{convertible.CapExecutionListeners},
			Subtree:     true,
			Description: "Start and end listeners become job worker execution listeners.",
			Apply: listener("Execution", executionEvents, func(l convertible.Listener) convertible.Mutation {
				return convertible.WithExecutionListeners(func(ls *convertible.ExecutionListeners) { ls.Add(l) })
			}),
		},
		{
			Name:        "take-listener",
			Node:        rules.NodeElement,
			Namespace:   dialect.Camunda,
			Local:       "executionListener",
			Elements:    []string{"extensionElements"},
			Kinds:       []convertible.Kind{convertible.KindSequenceFlow},
			Subtree:     true,
			Description: "Listeners on sequence flows have no equivalent.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				return warning(CodeListener, "Execution listener on %q event of a sequence flow is not supported and was removed.",
					ctx.Element.AttrValue("", "event"))
			},
		},
		{
			Name:        "task-listener",
			Node:        rules.NodeElement,
			Namespace:   dialect.Camunda,
			Local:       "taskListener",
			Elements:    []string{"extensionElements"},
			Kinds:       []convertible.Kind{convertible.KindUserTask},
			MinVersion:  v88,
			Requires:    []convertible.Capability{convertible.CapTaskListeners},
			Subtree:     true,
			Description: "Task listeners become job worker task listeners.",
			Apply: listener("Task", taskEvents, func(l convertible.Listener) convertible.Mutation {
				return convertible.WithTaskListeners(func(ls *convertible.TaskListeners) { ls.Add(l) })
			}),
		},
	}
}

func listener(what string, events map[string]string, add func(convertible.Listener) convertible.Mutation) func(*rules.Context) (rules.Outcome, error) {
	return func(ctx *rules.Context) (rules.Outcome, error) {
		el := ctx.Element
		event := el.AttrValue("", "event")
		eventType, ok := events[event]
		if !ok {
			return warning(CodeListener, "%s listener on %q event is not supported and was removed.", what, event)
		}
		if _, ok := el.FirstChild(dialect.Camunda, "script"); ok {
			return warning(CodeListener, "%s listener with an inline script is not supported and was removed.", what)
		}

		var ref jobtype.Reference
		switch {
		case el.HasAttr("", "class"):
			ref = jobtype.Reference{Form: jobtype.FormClass, Value: el.AttrValue("", "class")}
		case el.HasAttr("", "delegateExpression"):
			ref = jobtype.Reference{Form: jobtype.FormDelegateExpression, Value: el.AttrValue("", "delegateExpression")}
		case el.HasAttr("", "expression"):
			ref = jobtype.Reference{Form: jobtype.FormExpression, Value: el.AttrValue("", "expression")}
		default:
			return warning(CodeListener, "%s listener without implementation removed.", what)
		}

		res := ctx.Settings.JobTypes.Resolve(ref)
		text := fmt.Sprintf("%s listener on %q converted: %s", what, event, res.Text)
		sev := res.Severity
		if res.Header != nil {
			text += fmt.Sprintf(" Listeners carry no headers; %q is lost.", res.Header.Value)
			sev = atLeastReview(sev)
		}
		if fields := len(el.ChildrenNamed(dialect.Camunda, "field")); fields > 0 {
			text += fmt.Sprintf(" %d injected field(s) dropped.", fields)
			sev = atLeastReview(sev)
		}

		out := rules.Outcome{Message: rules.Message(sev, CodeListener, "%s", text)}
		if res.HasType {
			out.Mutation = add(convertible.Listener{EventType: eventType, Type: res.JobType})
		}
		return out, nil
	}
}

func atLeastReview(sev values.Severity) values.Severity {
	if values.SevReview.IsHigherThan(sev) {
		return values.SevReview
	}
	return sev
}
