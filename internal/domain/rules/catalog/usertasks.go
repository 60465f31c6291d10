package catalog

import (
	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/rules"
)

func userTaskRules() []rules.Rule {
	assignment := []convertible.Capability{convertible.CapAssignmentDefinition}
	schedule := []convertible.Capability{convertible.CapTaskSchedule}
	return []rules.Rule{
		{
			Name:        "user-task",
			Node:        rules.NodeElement,
			Namespace:   dialect.BPMN,
			Local:       "userTask",
			MinVersion:  v85,
			Requires:    []convertible.Capability{convertible.CapUserTaskMarker},
			Description: "Marks user tasks as native user tasks.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				return rules.Outcome{
					Message:  rules.Info(CodeUserTask, "Converted to a native user task."),
					Mutation: convertible.WithUserTaskMarker(func(m *convertible.UserTaskMarker) { m.Enable() }),
				}, nil
			},
		},
		userTaskAttribute("assignee", "assignee", rules.Rule{Requires: assignment}, "Assignee",
			func(v string) convertible.Mutation {
				return convertible.WithAssignmentDefinition(func(a *convertible.AssignmentDefinition) { a.Assignee = convertible.Ptr(v) })
			}),
		userTaskAttribute("candidate-groups", "candidateGroups", rules.Rule{Requires: assignment}, "Candidate groups",
			func(v string) convertible.Mutation {
				return convertible.WithAssignmentDefinition(func(a *convertible.AssignmentDefinition) { a.CandidateGroups = convertible.Ptr(v) })
			}),
		userTaskAttribute("candidate-users", "candidateUsers", rules.Rule{Requires: assignment, MinVersion: v82}, "Candidate users",
			func(v string) convertible.Mutation {
				return convertible.WithAssignmentDefinition(func(a *convertible.AssignmentDefinition) { a.CandidateUsers = convertible.Ptr(v) })
			}),
		userTaskAttribute("due-date", "dueDate", rules.Rule{Requires: schedule, MinVersion: v82}, "Due date",
			func(v string) convertible.Mutation {
				return convertible.WithTaskSchedule(func(s *convertible.TaskSchedule) { s.DueDate = convertible.Ptr(v) })
			}),
		userTaskAttribute("follow-up-date", "followUpDate", rules.Rule{Requires: schedule, MinVersion: v82}, "Follow-up date",
			func(v string) convertible.Mutation {
				return convertible.WithTaskSchedule(func(s *convertible.TaskSchedule) { s.FollowUpDate = convertible.Ptr(v) })
			}),
		userTaskAttribute("priority", "priority",
			rules.Rule{Requires: []convertible.Capability{convertible.CapPriorityDefinition}, MinVersion: v86}, "Priority",
			func(v string) convertible.Mutation {
				return convertible.WithPriorityDefinition(func(p *convertible.PriorityDefinition) { p.Priority = convertible.Ptr(v) })
			}),
	}
}

// userTaskAttribute builds a rule that translates a user task attribute and
// writes it through set. base supplies Requires and MinVersion.
func userTaskAttribute(name, local string, base rules.Rule, what string, set func(string) convertible.Mutation) rules.Rule {
	base.Name = name
	base.Node = rules.NodeAttribute
	base.Namespace = dialect.Camunda
	base.Local = local
	base.Elements = []string{"userTask"}
	base.Description = what + " of the user task."
	base.Apply = func(ctx *rules.Context) (rules.Outcome, error) {
		value, msg := feel(ctx, what)
		return rules.Outcome{Message: msg, Mutation: set(value)}, nil
	}
	return base
}
