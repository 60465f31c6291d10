package engine

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/diagnostics"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/rules"
	"github.com/reglet-dev/recast/internal/domain/rules/catalog"
	"github.com/reglet-dev/recast/internal/domain/source"
	"github.com/reglet-dev/recast/internal/domain/values"
)

const header = `<?xml version="1.0" encoding="UTF-8"?>
<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL" xmlns:camunda="http://camunda.org/schema/1.0/bpmn" id="defs">
  <bpmn:process id="p" isExecutable="true">
`

const footer = `
  </bpmn:process>
</bpmn:definitions>`

func process(body string) []byte {
	return []byte(header + body + footer)
}

func converter(t *testing.T, target string, opts ...func(*Config)) *Converter {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Target = values.MustParseTargetVersion(target)
	for _, opt := range opts {
		opt(&cfg)
	}
	c, err := NewConverter(cfg)
	require.NoError(t, err)
	return c
}

func convert(t *testing.T, c *Converter, doc []byte, opts ...CallOption) (*Result, string) {
	t.Helper()
	res, err := c.Convert(doc, opts...)
	require.NoError(t, err)
	return res, string(res.Document)
}

func byRule(res *Result, name string) []diagnostics.Message {
	var out []diagnostics.Message
	for _, m := range res.Report.Messages {
		if m.Rule == name {
			out = append(out, m)
		}
	}
	return out
}

func byCode(res *Result, code string) []diagnostics.Message {
	var out []diagnostics.Message
	for _, m := range res.Report.Messages {
		if m.Code == code {
			out = append(out, m)
		}
	}
	return out
}

func TestNewConverter_RequiresTarget(t *testing.T) {
	t.Parallel()
	_, err := NewConverter(Config{})
	assert.Error(t, err)
}

func TestNewConverter_FillsDefaults(t *testing.T) {
	t.Parallel()
	c, err := NewConverter(Config{Target: values.MustParseTargetVersion("8.6")})
	require.NoError(t, err)

	cfg := c.Config()
	assert.Equal(t, "camunda-7-adapter", cfg.DefaultJobType)
	assert.Equal(t, catalog.DefaultScriptJobType, cfg.ScriptJobType)
	assert.Equal(t, "class", cfg.JobHeaderKeys.Class)
	assert.Equal(t, "resultVariable", cfg.HeaderKeys.ResultVariable)
	assert.Positive(t, c.Registry().Len())
}

func TestConvert_ParseError(t *testing.T) {
	t.Parallel()
	c := converter(t, "8.6")

	res, err := c.Convert([]byte(`<bpmn:definitions`))
	require.Error(t, err)
	assert.Nil(t, res)

	var parseErr *source.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestConvert_ExecutionPlatform(t *testing.T) {
	t.Parallel()
	res, out := convert(t, converter(t, "8.6"), process(`    <bpmn:task id="t"/>`))

	assert.Contains(t, out, `modeler:executionPlatform="Camunda Cloud"`)
	assert.Contains(t, out, `modeler:executionPlatformVersion="8.6.0"`)
	assert.Contains(t, out, `xmlns:modeler="http://camunda.org/schema/modeler/1.0"`)
	assert.NotContains(t, out, "xmlns:camunda", "unused legacy namespace is dropped")
	require.Len(t, byRule(res, "definitions"), 1)
	assert.False(t, res.ID.IsZero())
}

func TestConvert_JobTypes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		attr   string
		want   string
		header string
		sev    values.Severity
	}{
		{"bean", `camunda:delegateExpression="#{orderService}"`, "orderService", "", values.SevInfo},
		{"bean property", `camunda:delegateExpression="#{orderService.create}"`, "orderServiceCreate", "", values.SevInfo},
		{"class", `camunda:class="com.acme.ShipOrder"`, "shipOrder", "", values.SevInfo},
		{"topic", `camunda:type="external" camunda:topic="billing"`, "billing", "", values.SevInfo},
		{"method call", `camunda:delegateExpression="${orderService.create(order)}"`,
			"camunda-7-adapter", `key="delegateExpression" value="${orderService.create(order)}"`, values.SevReview},
	}

	c := converter(t, "8.6")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, out := convert(t, c, process(`    <bpmn:serviceTask id="svc" `+tt.attr+`/>`))

			assert.Contains(t, out, fmt.Sprintf(`<zeebe:taskDefinition type="%s"/>`, tt.want))
			assert.NotContains(t, out, "camunda:")
			if tt.header != "" {
				assert.Contains(t, out, tt.header)
			} else {
				assert.NotContains(t, out, "zeebe:taskHeaders")
			}

			var found bool
			for _, m := range res.Report.Messages {
				if strings.HasPrefix(m.Code, "job-type-") {
					found = true
					assert.True(t, m.Severity.Equals(tt.sev), "severity %s", m.Severity)
					assert.Equal(t, "/bpmn:definitions[@id='defs']/bpmn:process[@id='p']/bpmn:serviceTask[@id='svc']", m.Path.String())
					assert.NotEmpty(t, m.Attribute)
				}
			}
			assert.True(t, found, "job type message")
		})
	}
}

func TestConvert_AlwaysBlankJobType(t *testing.T) {
	t.Parallel()
	c := converter(t, "8.6", func(cfg *Config) { cfg.AlwaysBlankJobType = true })

	res, out := convert(t, c, process(`    <bpmn:serviceTask id="svc" camunda:class="com.acme.ShipOrder"/>`))

	assert.NotContains(t, out, "zeebe:taskDefinition")
	msgs := byCode(res, "job-type-blank")
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Severity.Equals(values.SevTask))
}

func TestConvert_RetriesNeedJobType(t *testing.T) {
	t.Parallel()
	c := converter(t, "8.6", func(cfg *Config) { cfg.AlwaysBlankJobType = true })

	res, out := convert(t, c, process(`    <bpmn:serviceTask id="svc" camunda:class="com.acme.ShipOrder">
      <bpmn:extensionElements>
        <camunda:failedJobRetryTimeCycle>R3/PT5M</camunda:failedJobRetryTimeCycle>
      </bpmn:extensionElements>
    </bpmn:serviceTask>`))

	assert.NotContains(t, out, "retries=")
	assert.NotContains(t, out, "failedJobRetryTimeCycle")
	msgs := byCode(res, "retries")
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Severity.Equals(values.SevReview))
	assert.Contains(t, msgs[0].Text, "no job type")
}

func TestConvert_AlwaysDefaultJobType(t *testing.T) {
	t.Parallel()
	c := converter(t, "8.6", func(cfg *Config) {
		cfg.AlwaysDefaultJobType = true
		cfg.DefaultJobType = "adapter"
	})

	_, out := convert(t, c, process(`    <bpmn:serviceTask id="svc" camunda:class="com.acme.ShipOrder"/>`))

	assert.Contains(t, out, `<zeebe:taskDefinition type="adapter"/>`)
	assert.Contains(t, out, `key="class" value="com.acme.ShipOrder"`)
}

func TestConvert_Deterministic(t *testing.T) {
	t.Parallel()
	doc := process(`    <bpmn:serviceTask id="svc" camunda:class="com.acme.ShipOrder" camunda:asyncBefore="true">
      <bpmn:extensionElements>
        <camunda:inputOutput>
          <camunda:inputParameter name="amount">${order.total}</camunda:inputParameter>
        </camunda:inputOutput>
      </bpmn:extensionElements>
    </bpmn:serviceTask>
    <bpmn:userTask id="ut" camunda:assignee="${initiator}"/>`)
	c := converter(t, "8.6")

	first, _ := convert(t, c, doc)
	second, _ := convert(t, c, doc)

	opts := cmp.Options{
		cmp.Comparer(func(a, b values.Severity) bool { return a.Equals(b) }),
		cmp.Comparer(func(a, b values.ElementPath) bool { return a.Equals(b) }),
	}
	assert.Equal(t, string(first.Document), string(second.Document))
	assert.Empty(t, cmp.Diff(first.Report.Messages, second.Report.Messages, opts))
	assert.True(t, first.ID.Equals(second.ID))
}

func TestConvert_Idempotent(t *testing.T) {
	t.Parallel()
	c := converter(t, "8.6")
	doc := process(`    <bpmn:serviceTask id="svc" camunda:class="com.acme.ShipOrder"/>`)

	_, once := convert(t, c, doc)
	res, twice := convert(t, c, []byte(once))

	assert.Equal(t, strings.Count(once, "zeebe:taskDefinition"), strings.Count(twice, "zeebe:taskDefinition"))
	assert.Equal(t, 1, strings.Count(twice, `type="shipOrder"`))
	assert.False(t, res.HasErrors())
}

func TestConvert_VersionGate(t *testing.T) {
	t.Parallel()
	doc := process(`    <bpmn:userTask id="ut" camunda:candidateUsers="demo"/>`)

	t.Run("below minimum", func(t *testing.T) {
		t.Parallel()
		res, out := convert(t, converter(t, "8.1"), doc)

		assert.Contains(t, out, `camunda:candidateUsers="demo"`, "gated attribute stays")
		assert.Contains(t, out, "xmlns:camunda", "namespace of a kept attribute stays")

		msgs := byRule(res, "candidate-users")
		require.Len(t, msgs, 1)
		assert.Equal(t, rules.CodeUnsupportedVersion, msgs[0].Code)
		assert.True(t, msgs[0].Severity.Equals(values.SevWarning))
		assert.Equal(t, "camunda:candidateUsers", msgs[0].Attribute)
		assert.Equal(t, "camunda:candidateUsers is not supported in target version 8.1, requires 8.2.", msgs[0].Text)
	})

	t.Run("at minimum", func(t *testing.T) {
		t.Parallel()
		res, out := convert(t, converter(t, "8.2"), doc)

		assert.NotContains(t, out, "camunda:candidateUsers")
		assert.Contains(t, out, `candidateUsers="demo"`)
		gated := byCode(res, rules.CodeUnsupportedVersion)
		require.Len(t, gated, 1, "only the user task marker is gated")
		assert.Equal(t, "user-task", gated[0].Rule)
	})
}

func TestConvert_UserTask(t *testing.T) {
	t.Parallel()
	res, out := convert(t, converter(t, "8.6"),
		process(`    <bpmn:userTask id="ut" camunda:assignee="${initiator}" camunda:candidateGroups="sales" camunda:priority="80"/>`))

	assert.Contains(t, out, "<zeebe:userTask/>")
	assert.Contains(t, out, `assignee="=initiator"`)
	assert.Contains(t, out, `candidateGroups="sales"`)
	assert.Contains(t, out, `<zeebe:priorityDefinition priority="80"/>`)
	assert.NotContains(t, out, "camunda:")

	msgs := byRule(res, "assignee")
	require.Len(t, msgs, 1)
	assert.Equal(t, "${initiator}", msgs[0].Original)
	assert.Equal(t, "=initiator", msgs[0].Translated)
}

func TestConvert_ScriptTask(t *testing.T) {
	t.Parallel()

	t.Run("feel", func(t *testing.T) {
		t.Parallel()
		_, out := convert(t, converter(t, "8.6"), process(`    <bpmn:scriptTask id="s" scriptFormat="feel" camunda:resultVariable="sum">
      <bpmn:script>a + b</bpmn:script>
    </bpmn:scriptTask>`))

		assert.Contains(t, out, `<zeebe:script expression="=a + b" resultVariable="sum"/>`)
		assert.NotContains(t, out, "bpmn:script>")
		assert.NotContains(t, out, "scriptFormat")
	})

	t.Run("groovy", func(t *testing.T) {
		t.Parallel()
		res, out := convert(t, converter(t, "8.6"), process(`    <bpmn:scriptTask id="s" scriptFormat="groovy">
      <bpmn:script>println 'hi'</bpmn:script>
    </bpmn:scriptTask>`))

		assert.Contains(t, out, `<zeebe:taskDefinition type="script"/>`)
		assert.Contains(t, out, `key="language" value="groovy"`)
		assert.Contains(t, out, `key="script"`)
		msgs := byRule(res, "script-task")
		require.Len(t, msgs, 1)
		assert.True(t, msgs[0].Severity.Equals(values.SevReview))
	})
}

func TestConvert_CallActivity(t *testing.T) {
	t.Parallel()
	_, out := convert(t, converter(t, "8.6"), process(`    <bpmn:callActivity id="call" calledElement="child">
      <bpmn:extensionElements>
        <camunda:in source="orderId" target="id"/>
        <camunda:out variables="all"/>
      </bpmn:extensionElements>
    </bpmn:callActivity>`))

	assert.Contains(t, out, `processId="child"`)
	assert.Contains(t, out, `<zeebe:input source="=orderId" target="id"/>`)
	assert.NotContains(t, out, "propagateAllChildVariables=\"false\"")
	assert.NotContains(t, out, "camunda:")
}

func TestConvert_IoMapping(t *testing.T) {
	t.Parallel()
	res, out := convert(t, converter(t, "8.6"), process(`    <bpmn:serviceTask id="svc" camunda:class="com.acme.ShipOrder">
      <bpmn:extensionElements>
        <camunda:inputOutput>
          <camunda:inputParameter name="amount">${order.total}</camunda:inputParameter>
          <camunda:inputParameter name="empty"/>
          <camunda:outputParameter name="items">
            <camunda:list><camunda:value>a</camunda:value></camunda:list>
          </camunda:outputParameter>
        </camunda:inputOutput>
      </bpmn:extensionElements>
    </bpmn:serviceTask>`))

	assert.Contains(t, out, `<zeebe:input source="=order.total" target="amount"/>`)
	assert.Contains(t, out, `<zeebe:input source="=null" target="empty"/>`)
	assert.NotContains(t, out, `target="items"`)
	assert.NotContains(t, out, "camunda:")

	var nested bool
	for _, m := range byRule(res, "output-parameter") {
		nested = nested || m.Severity.Equals(values.SevWarning)
	}
	assert.True(t, nested, "nested list reported")
	assert.Empty(t, byRule(res, "camunda-element-fallback"), "no descent into the handled subtree")
}

func TestConvert_ConditionExpression(t *testing.T) {
	t.Parallel()
	_, out := convert(t, converter(t, "8.6"), process(`    <bpmn:sequenceFlow id="f" sourceRef="a" targetRef="b">
      <bpmn:conditionExpression xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:type="bpmn:tFormalExpression">${amount &gt; 100}</bpmn:conditionExpression>
    </bpmn:sequenceFlow>`))

	assert.Contains(t, out, ">=amount ")
	assert.NotContains(t, out, "${")
}

func TestConvert_Removals(t *testing.T) {
	t.Parallel()
	res, out := convert(t, converter(t, "8.6"), process(`    <bpmn:task id="t" camunda:asyncBefore="true" camunda:exotic="x">
      <bpmn:extensionElements>
        <camunda:somethingNew><camunda:nested/></camunda:somethingNew>
      </bpmn:extensionElements>
    </bpmn:task>`))

	assert.NotContains(t, out, "camunda:")
	assert.NotContains(t, out, "extensionElements", "emptied container is dropped")

	require.Len(t, byRule(res, "async-before"), 1)
	assert.True(t, byRule(res, "async-before")[0].Severity.Equals(values.SevInfo))
	require.Len(t, byRule(res, "camunda-attribute-fallback"), 1)
	elements := byRule(res, "camunda-element-fallback")
	require.Len(t, elements, 1, "nested elements go with their parent")
	assert.Equal(t, catalog.CodeFallback, elements[0].Code)
}

func TestConvert_TenantPerCall(t *testing.T) {
	t.Parallel()
	c := converter(t, "8.6")
	doc := process(`    <bpmn:businessRuleTask id="brt" camunda:decisionRef="d" camunda:resultVariable="r" camunda:decisionRefTenantId="acme"/>`)

	res, _ := convert(t, c, doc)
	msgs := byRule(res, "decision-ref-tenant-id")
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Severity.Equals(values.SevWarning))

	res, out := convert(t, c, doc, WithTenant(values.TenantPolicy{DefaultTenant: "acme"}))
	msgs = byRule(res, "decision-ref-tenant-id")
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Severity.Equals(values.SevInfo))
	assert.NotContains(t, out, "decisionRefTenantId")
	assert.Contains(t, out, `decisionId="d"`)
}

func faultRegistry(t *testing.T, extra ...rules.Rule) *rules.Registry {
	t.Helper()
	r := rules.NewRegistry()
	require.NoError(t, r.Register(catalog.Rules()...))
	require.NoError(t, r.Register(extra...))
	return r
}

func TestConvert_FaultIsolation(t *testing.T) {
	t.Parallel()
	registry := faultRegistry(t,
		rules.Rule{
			Name:      "boom",
			Node:      rules.NodeElement,
			Namespace: dialect.BPMN,
			Local:     "task",
			Apply: func(*rules.Context) (rules.Outcome, error) {
				panic("boom")
			},
		},
		rules.Rule{
			Name:      "failing",
			Node:      rules.NodeAttribute,
			Namespace: dialect.Camunda,
			Local:     "asyncAfter",
			Apply: func(*rules.Context) (rules.Outcome, error) {
				return rules.Outcome{}, errors.New("unavailable")
			},
		},
	)
	c, err := NewConverter(DefaultConfig(), WithRegistry(registry))
	require.NoError(t, err)

	res, out := convert(t, c, process(`    <bpmn:task id="t" camunda:asyncAfter="true"/>
    <bpmn:serviceTask id="svc" camunda:class="com.acme.ShipOrder"/>`))

	assert.True(t, res.HasErrors())
	assert.Contains(t, out, `type="shipOrder"`, "other elements are converted")
	assert.Contains(t, out, `camunda:asyncAfter="true"`, "faulted node stays")

	faults := byCode(res, rules.CodeRuleFault)
	require.Len(t, faults, 2)
	assert.Equal(t, "boom", faults[0].Rule)
	assert.Contains(t, faults[0].Text, "panicked")
	assert.Equal(t, "failing", faults[1].Rule)
	assert.Contains(t, faults[1].Text, "unavailable")
	assert.Equal(t, "camunda:asyncAfter", faults[1].Attribute)
}

func TestConvert_DeferredMutationFault(t *testing.T) {
	t.Parallel()
	registry := faultRegistry(t, rules.Rule{
		Name:      "nil-headers",
		Node:      rules.NodeAttribute,
		Namespace: dialect.Camunda,
		Local:     "exotic",
		Apply: func(*rules.Context) (rules.Outcome, error) {
			return rules.Outcome{Mutation: convertible.WithTaskHeaders(func(*convertible.TaskHeaders) {
				var headers map[string]string
				headers["x"] = "y"
			})}, nil
		},
	})
	c, err := NewConverter(DefaultConfig(), WithRegistry(registry))
	require.NoError(t, err)

	res, out := convert(t, c, process(`    <bpmn:serviceTask id="svc" camunda:class="com.acme.ShipOrder" camunda:exotic="1"/>`))

	assert.Contains(t, out, `type="shipOrder"`, "other rules on the element still apply")
	assert.NotContains(t, out, `camunda:class=`)
	assert.Contains(t, out, `camunda:exotic="1"`, "faulted node stays")

	msgs := byRule(res, "nil-headers")
	require.Len(t, msgs, 1)
	assert.Equal(t, rules.CodeRuleFault, msgs[0].Code)
	assert.True(t, msgs[0].Severity.Equals(values.SevError))
	assert.Equal(t, "camunda:exotic", msgs[0].Attribute)
	assert.Contains(t, msgs[0].Text, "nil-headers")
	assert.Contains(t, msgs[0].Path.String(), "svc")
	assert.Len(t, byCode(res, rules.CodeRuleFault), 1)
	assert.NotEmpty(t, byRule(res, "class"))
}

func TestConvert_UnsupportedFacetIsAFault(t *testing.T) {
	t.Parallel()
	registry := faultRegistry(t, rules.Rule{
		Name:      "wrong-facet",
		Node:      rules.NodeAttribute,
		Namespace: dialect.Camunda,
		Local:     "exotic",
		Apply: func(*rules.Context) (rules.Outcome, error) {
			return rules.Outcome{Mutation: convertible.WithScript(func(*convertible.Script) {})}, nil
		},
	})
	c, err := NewConverter(DefaultConfig(), WithRegistry(registry))
	require.NoError(t, err)

	res, out := convert(t, c, process(`    <bpmn:task id="t" camunda:exotic="x"/>`))

	require.Len(t, byRule(res, "wrong-facet"), 1)
	assert.Equal(t, rules.CodeRuleFault, byRule(res, "wrong-facet")[0].Code)
	assert.Contains(t, out, `camunda:exotic="x"`)
}

func TestConvert_DiagnosticsComplete(t *testing.T) {
	t.Parallel()
	res, _ := convert(t, converter(t, "8.6"), process(`    <bpmn:serviceTask id="svc" camunda:class="com.acme.ShipOrder" camunda:asyncBefore="true"/>
    <bpmn:task id="plain"/>`))

	keys := make(map[string]bool)
	for _, m := range res.Report.Messages {
		assert.NotEmpty(t, m.Rule)
		assert.False(t, m.Path.IsZero())
		assert.False(t, keys[m.Key], "duplicate key %s", m.Key)
		keys[m.Key] = true
	}
	assert.Equal(t, len(res.Report.Messages), res.Report.Summary.Total)

	// every element has a node, message or not
	var nodes []string
	res.Report.Tree.Walk(func(n *diagnostics.Node, _ int) {
		nodes = append(nodes, n.Path.String())
	})
	assert.Contains(t, nodes, "/bpmn:definitions[@id='defs']/bpmn:process[@id='p']/bpmn:task[@id='plain']")
	assert.Len(t, res.Report.Tree.Flatten(), len(res.Report.Messages))
}

func TestConvert_WithKeys(t *testing.T) {
	t.Parallel()
	res, _ := convert(t, converter(t, "8.6"), process(`    <bpmn:task id="t"/>`),
		WithKeys(values.NewSequentialKeys("doc")))

	require.NotEmpty(t, res.Report.Messages)
	assert.Equal(t, "doc-0001", res.Report.Messages[0].Key)
}
