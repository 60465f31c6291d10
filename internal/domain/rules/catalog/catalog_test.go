package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/dialect"
	"github.com/reglet-dev/recast/internal/domain/expression"
	"github.com/reglet-dev/recast/internal/domain/jobtype"
	"github.com/reglet-dev/recast/internal/domain/rules"
	"github.com/reglet-dev/recast/internal/domain/source"
	"github.com/reglet-dev/recast/internal/domain/values"
)

const doc = `<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL" xmlns:camunda="http://camunda.org/schema/1.0/bpmn">
  <bpmn:process id="p">
    <bpmn:serviceTask id="svc" camunda:class="com.acme.Svc">
      <bpmn:extensionElements>
        <camunda:failedJobRetryTimeCycle>R5/PT10M</camunda:failedJobRetryTimeCycle>
        <camunda:field name="url" stringValue="https://example.com"/>
        <camunda:field name="payload"><camunda:expression>${order}</camunda:expression></camunda:field>
      </bpmn:extensionElements>
    </bpmn:serviceTask>
    <bpmn:userTask id="ut" camunda:formKey="camunda-forms:deployment:forms/invoice.form"/>
    <bpmn:userTask id="legacy" camunda:formKey="embedded:app:forms/invoice.html"/>
  </bpmn:process>
</bpmn:definitions>`

func settings(target string) *rules.Settings {
	return &rules.Settings{
		Target:        values.MustParseTargetVersion(target),
		JobTypes:      jobtype.NewResolver(jobtype.Policy{}),
		Expressions:   expression.New(),
		ScriptJobType: DefaultScriptJobType,
		Headers:       rules.DefaultHeaderKeys(),
	}
}

func parse(t *testing.T) *source.Document {
	t.Helper()
	d, err := source.Parse([]byte(doc))
	require.NoError(t, err)
	return d
}

func elementContext(t *testing.T, d *source.Document, match func(*source.Element) bool, target string) *rules.Context {
	t.Helper()
	for _, el := range d.Elements() {
		if match(el) {
			owner, kind := rules.OwnerOf(el)
			return &rules.Context{Node: rules.NodeElement, Element: el, Owner: owner, Kind: kind, Settings: settings(target)}
		}
	}
	t.Fatal("no matching element")
	return nil
}

func attrContext(t *testing.T, d *source.Document, id, local, target string) *rules.Context {
	t.Helper()
	for _, el := range d.Elements() {
		if el.ID() != id {
			continue
		}
		attr, ok := el.Attr(dialect.Camunda, local)
		require.True(t, ok)
		owner, kind := rules.OwnerOf(el)
		return &rules.Context{Node: rules.NodeAttribute, Element: el, Attr: attr, Owner: owner, Kind: kind, Settings: settings(target)}
	}
	t.Fatalf("no element %s", id)
	return nil
}

// apply runs rule name on ctx and applies the mutation to a fresh
// convertible of the owner.
func apply(t *testing.T, name string, ctx *rules.Context) (rules.Outcome, convertible.Convertible) {
	t.Helper()
	rule, ok := NewRegistry().Lookup(name)
	require.True(t, ok, "rule %s", name)
	require.True(t, rule.InScope(ctx))

	out, err := rule.Apply(ctx)
	require.NoError(t, err)
	c := ctx.Kind.New()
	if !out.Mutation.IsZero() {
		convertible.Enqueue(c, out.Mutation)
	}
	convertible.Apply(c)
	return out, c
}

func TestNewRegistry(t *testing.T) {
	var r *rules.Registry
	require.NotPanics(t, func() { r = NewRegistry() })
	assert.Equal(t, len(Rules()), r.Len())
}

func TestRules_Described(t *testing.T) {
	for _, rule := range Rules() {
		assert.NotEmpty(t, rule.Description, rule.Name)
		assert.False(t, strings.ContainsAny(rule.Name, " _:"), rule.Name)
		if rule.Fallback {
			assert.True(t, dialect.IsVendor(rule.Namespace), rule.Name)
		}
	}
}

func TestRetryCycle(t *testing.T) {
	d := parse(t)
	ctx := elementContext(t, d, func(el *source.Element) bool { return el.Local() == "failedJobRetryTimeCycle" }, "8.6")

	out, c := apply(t, "failed-job-retry-time-cycle", ctx)

	td := c.(convertible.HasTaskDefinition).TaskDefinition()
	require.NotNil(t, td.Retries)
	assert.Equal(t, 5, *td.Retries)
	assert.Contains(t, out.Message.Text, "PT10M")
}

func TestRetryCycle_NoJobType(t *testing.T) {
	const feel = `<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL" xmlns:camunda="http://camunda.org/schema/1.0/bpmn">
  <bpmn:process id="p">
    <bpmn:scriptTask id="calc" scriptFormat="feel">
      <bpmn:extensionElements>
        <camunda:failedJobRetryTimeCycle>R3/PT1M</camunda:failedJobRetryTimeCycle>
      </bpmn:extensionElements>
      <bpmn:script>a + b</bpmn:script>
    </bpmn:scriptTask>
  </bpmn:process>
</bpmn:definitions>`
	isCycle := func(el *source.Element) bool { return el.Local() == "failedJobRetryTimeCycle" }

	t.Run("feel script", func(t *testing.T) {
		d, err := source.Parse([]byte(feel))
		require.NoError(t, err)
		ctx := elementContext(t, d, isCycle, "8.6")

		out, c := apply(t, "failed-job-retry-time-cycle", ctx)

		assert.Nil(t, c.(convertible.HasTaskDefinition).TaskDefinition().Retries)
		assert.Equal(t, values.SevReview, out.Message.Severity)
		assert.Contains(t, out.Message.Text, "no job type")
	})

	t.Run("always blank policy", func(t *testing.T) {
		ctx := elementContext(t, parse(t), isCycle, "8.6")
		ctx.Settings.JobTypes = jobtype.NewResolver(jobtype.Policy{AlwaysBlank: true})

		out, c := apply(t, "failed-job-retry-time-cycle", ctx)

		assert.Nil(t, c.(convertible.HasTaskDefinition).TaskDefinition().Retries)
		assert.Contains(t, out.Message.Text, "R5/PT10M")
		assert.Contains(t, out.Message.Text, "no job type")
	})
}

func TestField(t *testing.T) {
	d := parse(t)
	tests := []struct {
		name  string
		value string
		sev   values.Severity
	}{
		{"url", "https://example.com", values.SevInfo},
		{"payload", "${order}", values.SevReview},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := elementContext(t, d, func(el *source.Element) bool {
				return el.Local() == "field" && el.AttrValue("", "name") == tt.name
			}, "8.6")

			out, c := apply(t, "field", ctx)

			h := c.(convertible.HasTaskHeaders).TaskHeaders()
			v, ok := h.Get(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.value, v)
			assert.True(t, out.Message.Severity.Equals(tt.sev))
		})
	}
}

func TestClass(t *testing.T) {
	d := parse(t)
	out, c := apply(t, "class", attrContext(t, d, "svc", "class", "8.6"))

	td := c.(convertible.HasTaskDefinition).TaskDefinition()
	require.NotNil(t, td.Type)
	assert.Equal(t, "svc", *td.Type)
	assert.Equal(t, "job-type-from-class", out.Message.Code)
	assert.Equal(t, rules.DocsBase+pageCode, out.Message.Link)
}

func TestFormKey(t *testing.T) {
	d := parse(t)

	t.Run("camunda forms", func(t *testing.T) {
		_, c := apply(t, "form-key", attrContext(t, d, "ut", "formKey", "8.6"))

		f := c.(convertible.HasFormDefinition).FormDefinition()
		require.NotNil(t, f.FormID)
		assert.Equal(t, "invoice", *f.FormID)
	})

	t.Run("external reference", func(t *testing.T) {
		out, c := apply(t, "form-key", attrContext(t, d, "legacy", "formKey", "8.6"))

		f := c.(convertible.HasFormDefinition).FormDefinition()
		require.NotNil(t, f.ExternalReference)
		assert.Equal(t, "embedded:app:forms/invoice.html", *f.ExternalReference)
		assert.False(t, out.Keep)
	})

	t.Run("external reference below 8.4", func(t *testing.T) {
		out, c := apply(t, "form-key", attrContext(t, d, "legacy", "formKey", "8.3"))

		assert.True(t, out.Keep)
		assert.Equal(t, rules.CodeUnsupportedVersion, out.Message.Code)
		assert.True(t, c.(convertible.HasFormDefinition).FormDefinition().IsEmpty())
	})
}
