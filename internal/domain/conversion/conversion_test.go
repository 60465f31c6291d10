package conversion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/source"
)

const input = `<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL" xmlns:camunda="http://camunda.org/schema/1.0/bpmn" id="defs">
  <bpmn:process id="p">
    <bpmn:serviceTask id="svc" camunda:class="com.acme.Svc">
      <bpmn:documentation>Charges the card</bpmn:documentation>
    </bpmn:serviceTask>
    <bpmn:task id="plain"/>
  </bpmn:process>
</bpmn:definitions>`

func setup(t *testing.T, xml string) (*source.Document, *Document) {
	t.Helper()
	src, err := source.Parse([]byte(xml))
	require.NoError(t, err)
	tree, index := src.Mirror()
	return src, NewDocument(tree, index)
}

func byID(t *testing.T, src *source.Document, id string) *source.Element {
	t.Helper()
	for _, el := range src.Elements() {
		if el.ID() == id {
			return el
		}
	}
	t.Fatalf("no element %s", id)
	return nil
}

func render(t *testing.T, doc *Document) string {
	t.Helper()
	doc.Finalize()
	out, err := doc.Bytes()
	require.NoError(t, err)
	return string(out)
}

func TestEmit_ServiceTask(t *testing.T) {
	src, doc := setup(t, input)
	svc := byID(t, src, "svc")
	attr, _ := svc.Attr("http://camunda.org/schema/1.0/bpmn", "class")

	c := convertible.KindServiceTask.New()
	convertible.Enqueue(c, convertible.WithTaskDefinition(func(td *convertible.TaskDefinition) {
		td.Type = convertible.Ptr("svc")
		td.Retries = convertible.Ptr(5)
	}))
	convertible.Enqueue(c, convertible.WithTaskHeaders(func(h *convertible.TaskHeaders) { h.Set("class", "com.acme.Svc") }))
	convertible.Enqueue(c, convertible.RemoveAttr(svc.Ordinal(), attr.FullKey()))
	convertible.Apply(c)

	Emit(doc.For(svc.Ordinal()), c)
	out := render(t, doc)

	assert.Contains(t, out, `<zeebe:taskDefinition type="svc" retries="5"/>`)
	assert.Contains(t, out, `<zeebe:header key="class" value="com.acme.Svc"/>`)
	assert.NotContains(t, out, "camunda:class")
	assert.NotContains(t, out, "xmlns:camunda", "unused legacy namespace is dropped")
	assert.Contains(t, out, `xmlns:zeebe="http://camunda.org/schema/zeebe/1.0"`)
	assert.Contains(t, out, `xmlns:modeler="http://camunda.org/schema/modeler/1.0"`)

	doc1 := strings.Index(out, "<bpmn:documentation>")
	ext := strings.Index(out, "<bpmn:extensionElements>")
	require.True(t, doc1 >= 0 && ext >= 0)
	assert.Less(t, doc1, ext, "extension elements follow documentation")
}

func TestEmit_EmptyFacetsCreateNothing(t *testing.T) {
	src, doc := setup(t, input)
	plain := byID(t, src, "plain")

	c := convertible.KindTask.New()
	convertible.Enqueue(c, convertible.WithIoMapping(func(*convertible.IoMapping) {}))
	convertible.Enqueue(c, convertible.WithProperties(func(*convertible.Properties) {}))
	convertible.Apply(c)

	Emit(doc.For(plain.Ordinal()), c)
	out := render(t, doc)

	assert.Contains(t, out, `<bpmn:task id="plain"/>`)
	assert.NotContains(t, out, "extensionElements")
}

func TestEmit_OptionalFieldsOnlyWhenSet(t *testing.T) {
	xml := `<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL"><bpmn:callActivity id="call"/></bpmn:definitions>`
	src, doc := setup(t, xml)
	call := byID(t, src, "call")

	c := convertible.KindCallActivity.New()
	convertible.Enqueue(c, convertible.WithCalledElement(func(ce *convertible.CalledElement) {
		ce.ProcessID = convertible.Ptr("child")
		ce.PropagateAllChildVariables = convertible.Ptr(false)
	}))
	convertible.Apply(c)
	Emit(doc.For(call.Ordinal()), c)
	out := render(t, doc)

	assert.Contains(t, out, `<zeebe:calledElement processId="child" propagateAllChildVariables="false"/>`)
	assert.NotContains(t, out, "propagateAllParentVariables")
	assert.NotContains(t, out, "bindingType")
}

func TestEmit_ReusesExistingContainer(t *testing.T) {
	xml := `<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL" xmlns:camunda="http://camunda.org/schema/1.0/bpmn">
  <bpmn:userTask id="ut">
    <bpmn:extensionElements>
      <camunda:properties><camunda:property name="a" value="1"/></camunda:properties>
    </bpmn:extensionElements>
  </bpmn:userTask>
</bpmn:definitions>`
	src, doc := setup(t, xml)
	ut := byID(t, src, "ut")
	ext := ut.Children()[0]
	legacy := ext.Children()[0]

	c := convertible.KindUserTask.New()
	convertible.Enqueue(c, convertible.RemoveElement(legacy.Ordinal()))
	convertible.Enqueue(c, convertible.WithUserTaskMarker(func(m *convertible.UserTaskMarker) { m.Enable() }))
	convertible.Enqueue(c, convertible.WithTaskHeaders(func(h *convertible.TaskHeaders) { h.Set("a", "1") }))
	convertible.Apply(c)
	Emit(doc.For(ut.Ordinal()), c)
	out := render(t, doc)

	assert.Equal(t, 1, strings.Count(out, "<bpmn:extensionElements>"))
	assert.NotContains(t, out, "camunda:properties")
	assert.Contains(t, out, "<zeebe:userTask/>")
	assert.Less(t, strings.Index(out, "zeebe:userTask"), strings.Index(out, "zeebe:taskHeaders"))
}

func TestFinalize_DropsEmptyExtensionElements(t *testing.T) {
	xml := `<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL" xmlns:camunda="http://camunda.org/schema/1.0/bpmn">
  <bpmn:task id="t"><bpmn:extensionElements><camunda:inputOutput/></bpmn:extensionElements></bpmn:task>
</bpmn:definitions>`
	src, doc := setup(t, xml)
	task := byID(t, src, "t")
	io := task.Children()[0].Children()[0]

	c := convertible.KindTask.New()
	convertible.Enqueue(c, convertible.RemoveElement(io.Ordinal()))
	convertible.Apply(c)
	Emit(doc.For(task.Ordinal()), c)
	out := render(t, doc)

	assert.NotContains(t, out, "extensionElements")
	assert.Contains(t, out, `<bpmn:task id="t"/>`)
}

func TestFinalize_KeepsUsedLegacyNamespace(t *testing.T) {
	xml := `<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL" xmlns:camunda="http://camunda.org/schema/1.0/bpmn">
  <bpmn:task id="t" camunda:asyncBefore="true"/>
</bpmn:definitions>`
	_, doc := setup(t, xml)
	out := render(t, doc)
	assert.Contains(t, out, "xmlns:camunda")
}

func TestNewDocument_PrefixConflict(t *testing.T) {
	xml := `<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL" xmlns:zeebe="urn:other"/>`
	_, doc := setup(t, xml)
	assert.Equal(t, "zeebe2", doc.ZeebePrefix())
	assert.Equal(t, "modeler", doc.ModelerPrefix())

	xml = `<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL" xmlns:z="http://camunda.org/schema/zeebe/1.0"/>`
	_, doc = setup(t, xml)
	assert.Equal(t, "z", doc.ZeebePrefix())
}

func TestEmit_ExecutionPlatform(t *testing.T) {
	src, doc := setup(t, input)
	c := convertible.KindDefinitions.New()
	convertible.Enqueue(c, convertible.WithExecutionPlatform(func(ep *convertible.ExecutionPlatform) {
		ep.Name = convertible.Ptr("Camunda Cloud")
		ep.Version = convertible.Ptr("8.6.0")
	}))
	convertible.Apply(c)
	Emit(doc.For(src.Root().Ordinal()), c)
	out := render(t, doc)

	assert.Contains(t, out, `modeler:executionPlatform="Camunda Cloud"`)
	assert.Contains(t, out, `modeler:executionPlatformVersion="8.6.0"`)
}

func TestEmitterFor_CoversEveryCapability(t *testing.T) {
	for _, capability := range convertible.AllCapabilities() {
		_, ok := EmitterFor(capability)
		assert.True(t, ok, capability.String())
	}
}
