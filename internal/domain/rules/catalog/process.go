package catalog

import (
	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/rules"
	"github.com/reglet-dev/recast/internal/domain/values"
)

func processRules() []rules.Rule {
	versionTag := func(name, ns string, kind convertible.Kind, element string) rules.Rule {
		return rules.Rule{
			Name:        name,
			Node:        rules.NodeAttribute,
			Namespace:   ns,
			Local:       "versionTag",
			Elements:    []string{element},
			Kinds:       []convertible.Kind{kind},
			MinVersion:  v86,
			Requires:    []convertible.Capability{convertible.CapVersionTag},
			Description: "Moves the version tag to zeebe:versionTag.",
			Apply: func(ctx *rules.Context) (rules.Outcome, error) {
				tag := ctx.Value()
				return rules.Outcome{
					Message: rules.Info(CodeBinding, "Version tag %q converted.", tag),
					Mutation: convertible.WithVersionTag(func(v *convertible.VersionTag) {
						v.Value = convertible.Ptr(tag)
					}),
				}, nil
			},
		}
	}

	return []rules.Rule{
		versionTag("process-version-tag", dialect.Camunda, convertible.KindProcess, "process"),
		versionTag("decision-version-tag", dialect.CamundaDMN, convertible.KindDecision, "decision"),
		removed("history-time-to-live", dialect.Camunda, "historyTimeToLive", values.SevInfo, noEffect, "process"),
		removed("decision-history-time-to-live", dialect.CamundaDMN, "historyTimeToLive", values.SevInfo, noEffect, "decision"),
		removed("startable-in-tasklist", dialect.Camunda, "isStartableInTasklist", values.SevInfo, noEffect, "process"),
		removed("candidate-starter-groups", dialect.Camunda, "candidateStarterGroups", values.SevWarning,
			"Start authorization %s is not supported and was removed; use resource authorizations.", "process"),
		removed("candidate-starter-users", dialect.Camunda, "candidateStarterUsers", values.SevWarning,
			"Start authorization %s is not supported and was removed; use resource authorizations.", "process"),
		removed("initiator", dialect.Camunda, "initiator", values.SevWarning,
			"%s is not supported and was removed; the initiator is not stored as a variable.", "startEvent"),
	}
}
