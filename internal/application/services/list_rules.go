package services

import (
	"strings"

	"github.com/reglet-dev/recast/internal/application/dto"
	apperrors "github.com/reglet-dev/recast/internal/application/errors"
	"github.com/reglet-dev/recast/internal/domain/rules"
)

// ListRulesUseCase describes the rules of a registry.
type ListRulesUseCase struct {
	registry *rules.Registry
}

// NewListRulesUseCase creates a new list rules use case.
func NewListRulesUseCase(registry *rules.Registry) *ListRulesUseCase {
	return &ListRulesUseCase{registry: registry}
}

// Execute returns the selected rules in registration order.
func (uc *ListRulesUseCase) Execute(req dto.ListRulesRequest) ([]dto.RuleInfo, error) {
	filter := rules.NewRuleFilter().WithNamespace(req.Namespace)
	switch req.Node {
	case "", "element", "attribute":
		filter.WithNode(req.Node)
	default:
		return nil, apperrors.NewValidationError("node", "must be element or attribute")
	}
	if req.FilterExpression != "" {
		program, err := rules.CompileFilter(req.FilterExpression)
		if err != nil {
			return nil, apperrors.NewValidationError("filter", "invalid filter expression", err.Error())
		}
		filter.WithFilterExpression(program)
	}

	selected := filter.Select(uc.registry.Rules())
	out := make([]dto.RuleInfo, 0, len(selected))
	for _, r := range selected {
		out = append(out, dto.RuleInfo{
			Name:        r.Name,
			Node:        r.Node.String(),
			Target:      r.QualifiedName(),
			MinVersion:  r.MinVersion.Short(),
			Scope:       strings.Join(r.Elements, ","),
			Description: r.Description,
			Supported:   req.Target.IsZero() || r.Supported(req.Target),
		})
	}
	return out, nil
}
