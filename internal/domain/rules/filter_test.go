package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/values"
)

func filterRules() []*Rule {
	return []*Rule{
		{Name: "priority", Node: NodeAttribute, Namespace: dialect.Camunda, Local: "priority",
			Kinds: []convertible.Kind{convertible.KindUserTask}, MinVersion: values.MustParseTargetVersion("8.6")},
		{Name: "user-task", Node: NodeElement, Namespace: dialect.BPMN, Local: "userTask"},
		{Name: "fallback", Node: NodeAttribute, Namespace: dialect.Camunda, Fallback: true, Silent: false},
	}
}

func TestRuleFilter(t *testing.T) {
	all := filterRules()

	assert.Len(t, NewRuleFilter().Select(all), 3)
	assert.Len(t, NewRuleFilter().WithNamespace("camunda").Select(all), 2)
	assert.Len(t, NewRuleFilter().WithNode("element").Select(all), 1)

	program, err := CompileFilter(`min_version != "" && "userTask" in kinds`)
	require.NoError(t, err)
	got := NewRuleFilter().WithFilterExpression(program).Select(all)
	require.Len(t, got, 1)
	assert.Equal(t, "priority", got[0].Name)

	program, err = CompileFilter(`fallback`)
	require.NoError(t, err)
	ok, _ := NewRuleFilter().WithFilterExpression(program).Matches(all[2])
	assert.True(t, ok)
	ok, reason := NewRuleFilter().WithFilterExpression(program).Matches(all[0])
	assert.False(t, ok)
	assert.Equal(t, "excluded by --filter expression", reason)
}

func TestCompileFilter_Invalid(t *testing.T) {
	_, err := CompileFilter(`unknown_field == 1`)
	assert.Error(t, err)
}

func TestEnvOf(t *testing.T) {
	env := EnvOf(filterRules()[0])
	assert.Equal(t, "camunda", env.Namespace)
	assert.Equal(t, "8.6", env.MinVersion)
	assert.Equal(t, []string{"userTask"}, env.Kinds)
	assert.Equal(t, "attribute", env.Node)
}
