package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/recast/internal/application/dto"
	apperrors "github.com/reglet-dev/recast/internal/application/errors"
	"github.com/reglet-dev/recast/internal/domain/rules/catalog"
	"github.com/reglet-dev/recast/internal/domain/values"
)

func TestListRules(t *testing.T) {
	uc := NewListRulesUseCase(catalog.NewRegistry())

	all, err := uc.Execute(dto.ListRulesRequest{})
	require.NoError(t, err)
	assert.Len(t, all, len(catalog.Rules()))

	attrs, err := uc.Execute(dto.ListRulesRequest{Namespace: "camunda", Node: "attribute"})
	require.NoError(t, err)
	require.NotEmpty(t, attrs)
	for _, r := range attrs {
		assert.Equal(t, "attribute", r.Node)
	}

	gated, err := uc.Execute(dto.ListRulesRequest{
		FilterExpression: `name == "candidate-users"`,
		Target:           values.MustParseTargetVersion("8.1"),
	})
	require.NoError(t, err)
	require.Len(t, gated, 1)
	assert.Equal(t, "8.2", gated[0].MinVersion)
	assert.Equal(t, "camunda:candidateUsers", gated[0].Target)
	assert.Equal(t, "userTask", gated[0].Scope)
	assert.False(t, gated[0].Supported)
}

func TestListRules_InvalidRequest(t *testing.T) {
	uc := NewListRulesUseCase(catalog.NewRegistry())

	var vErr *apperrors.ValidationError
	_, err := uc.Execute(dto.ListRulesRequest{Node: "namespace"})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "node", vErr.Field)

	_, err = uc.Execute(dto.ListRulesRequest{FilterExpression: "name =="})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "filter", vErr.Field)
}
