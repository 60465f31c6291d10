package conversion

import (
	"github.com/beevik/etree"

	"github.com/reglet-dev/recast/internal/domain/convertible"
	"github.com/reglet-dev/recast/internal/domain/dialect"
)

// Emitter writes one capability of a convertible into its target. Emitters
// never create a container for an empty facet.
type Emitter func(t *Target, c convertible.Convertible)

var emitters = map[convertible.Capability]Emitter{
	convertible.CapBase:                 emitBase,
	convertible.CapExecutionPlatform:    emitExecutionPlatform,
	convertible.CapAttributes:           emitAttributes,
	convertible.CapVersionTag:           emitVersionTag,
	convertible.CapTaskDefinition:       emitTaskDefinition,
	convertible.CapScript:               emitScript,
	convertible.CapCalledElement:        emitCalledElement,
	convertible.CapCalledDecision:       emitCalledDecision,
	convertible.CapUserTaskMarker:       emitUserTaskMarker,
	convertible.CapFormDefinition:       emitFormDefinition,
	convertible.CapAssignmentDefinition: emitAssignmentDefinition,
	convertible.CapTaskSchedule:         emitTaskSchedule,
	convertible.CapPriorityDefinition:   emitPriorityDefinition,
	convertible.CapIoMapping:            emitIoMapping,
	convertible.CapTaskHeaders:          emitTaskHeaders,
	convertible.CapLoopCharacteristics:  emitLoopCharacteristics,
	convertible.CapSubscription:         emitSubscription,
	convertible.CapExpressionBody:       emitExpressionBody,
	convertible.CapProperties:           emitProperties,
	convertible.CapExecutionListeners:   emitExecutionListeners,
	convertible.CapTaskListeners:        emitTaskListeners,
}

// EmitterFor returns the emitter of a capability.
func EmitterFor(capability convertible.Capability) (Emitter, bool) {
	e, ok := emitters[capability]
	return e, ok
}

// Emit runs the emitters of every capability of c in capability order.
// Base runs first, so removals happen before anything is added.
func Emit(t *Target, c convertible.Convertible) {
	if t.el == nil {
		return
	}
	for _, capability := range convertible.Capabilities(c) {
		if e, ok := emitters[capability]; ok {
			e(t, c)
		}
	}
}

func emitBase(t *Target, c convertible.Convertible) {
	base := c.Base()
	for _, r := range base.AttrRemovals() {
		if el := t.doc.Element(r.Element); el != nil {
			el.RemoveAttr(r.Key)
		}
	}
	for _, ordinal := range base.ElementRemovals() {
		el := t.doc.Element(ordinal)
		if el == nil || el.Parent() == nil {
			continue
		}
		el.Parent().RemoveChild(el)
	}
}

func emitExecutionPlatform(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasExecutionPlatform).ExecutionPlatform()
	if f.IsEmpty() {
		return
	}
	p := t.doc.modelerPrefix
	SetAttr(t.el, dialect.Qualify(p, "executionPlatform"), f.Name)
	SetAttr(t.el, dialect.Qualify(p, "executionPlatformVersion"), f.Version)
}

func emitAttributes(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasAttributes).Attributes()
	for _, a := range f.All() {
		t.el.CreateAttr(a.Name, a.Value)
	}
}

func emitVersionTag(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasVersionTag).VersionTag()
	if f.IsEmpty() {
		return
	}
	SetAttr(t.Extension("versionTag"), "value", f.Value)
}

func emitTaskDefinition(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasTaskDefinition).TaskDefinition()
	if f.IsEmpty() {
		return
	}
	el := t.Extension("taskDefinition")
	SetAttr(el, "type", f.Type)
	SetIntAttr(el, "retries", f.Retries)
}

func emitScript(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasScript).Script()
	if f.IsEmpty() {
		return
	}
	el := t.Extension("script")
	SetAttr(el, "expression", f.Expression)
	SetAttr(el, "resultVariable", f.ResultVariable)
}

func emitCalledElement(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasCalledElement).CalledElement()
	if f.IsEmpty() {
		return
	}
	el := t.Extension("calledElement")
	SetAttr(el, "processId", f.ProcessID)
	SetBoolAttr(el, "propagateAllChildVariables", f.PropagateAllChildVariables)
	SetBoolAttr(el, "propagateAllParentVariables", f.PropagateAllParentVariables)
	SetAttr(el, "bindingType", f.BindingType)
	SetAttr(el, "versionTag", f.VersionTag)
}

func emitCalledDecision(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasCalledDecision).CalledDecision()
	if f.IsEmpty() {
		return
	}
	el := t.Extension("calledDecision")
	SetAttr(el, "decisionId", f.DecisionID)
	SetAttr(el, "resultVariable", f.ResultVariable)
	SetAttr(el, "bindingType", f.BindingType)
	SetAttr(el, "versionTag", f.VersionTag)
}

func emitUserTaskMarker(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasUserTaskMarker).UserTaskMarker()
	if f.IsEmpty() {
		return
	}
	t.Extension("userTask")
}

func emitFormDefinition(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasFormDefinition).FormDefinition()
	if f.IsEmpty() {
		return
	}
	el := t.Extension("formDefinition")
	SetAttr(el, "formId", f.FormID)
	SetAttr(el, "externalReference", f.ExternalReference)
	SetAttr(el, "bindingType", f.BindingType)
	SetAttr(el, "versionTag", f.VersionTag)
}

func emitAssignmentDefinition(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasAssignmentDefinition).AssignmentDefinition()
	if f.IsEmpty() {
		return
	}
	el := t.Extension("assignmentDefinition")
	SetAttr(el, "assignee", f.Assignee)
	SetAttr(el, "candidateGroups", f.CandidateGroups)
	SetAttr(el, "candidateUsers", f.CandidateUsers)
}

func emitTaskSchedule(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasTaskSchedule).TaskSchedule()
	if f.IsEmpty() {
		return
	}
	el := t.Extension("taskSchedule")
	SetAttr(el, "dueDate", f.DueDate)
	SetAttr(el, "followUpDate", f.FollowUpDate)
}

func emitPriorityDefinition(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasPriorityDefinition).PriorityDefinition()
	if f.IsEmpty() {
		return
	}
	SetAttr(t.Extension("priorityDefinition"), "priority", f.Priority)
}

func emitIoMapping(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasIoMapping).IoMapping()
	if f.IsEmpty() {
		return
	}
	el := t.Extension("ioMapping")
	for _, m := range f.Inputs() {
		in := t.AppendExtension(el, "input")
		in.CreateAttr("source", m.Source)
		in.CreateAttr("target", m.Target)
	}
	for _, m := range f.Outputs() {
		out := t.AppendExtension(el, "output")
		out.CreateAttr("source", m.Source)
		out.CreateAttr("target", m.Target)
	}
}

func emitTaskHeaders(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasTaskHeaders).TaskHeaders()
	if f.IsEmpty() {
		return
	}
	el := t.Extension("taskHeaders")
	for _, h := range f.All() {
		header := t.AppendExtension(el, "header")
		header.CreateAttr("key", h.Key)
		header.CreateAttr("value", h.Value)
	}
}

func emitLoopCharacteristics(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasLoopCharacteristics).LoopCharacteristics()
	if f.IsEmpty() {
		return
	}
	el := t.Extension("loopCharacteristics")
	SetAttr(el, "inputCollection", f.InputCollection)
	SetAttr(el, "inputElement", f.InputElement)
	SetAttr(el, "outputCollection", f.OutputCollection)
	SetAttr(el, "outputElement", f.OutputElement)
}

func emitSubscription(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasSubscription).Subscription()
	if f.IsEmpty() {
		return
	}
	SetAttr(t.Extension("subscription"), "correlationKey", f.CorrelationKey)
}

func emitExpressionBody(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasExpressionBody).ExpressionBody()
	if f.IsEmpty() {
		return
	}
	t.el.SetText(*f.Body)
}

func emitProperties(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasProperties).Properties()
	if f.IsEmpty() {
		return
	}
	el := t.Extension("properties")
	for _, p := range f.All() {
		prop := t.AppendExtension(el, "property")
		prop.CreateAttr("name", p.Name)
		prop.CreateAttr("value", p.Value)
	}
}

func emitExecutionListeners(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasExecutionListeners).ExecutionListeners()
	if f.IsEmpty() {
		return
	}
	el := t.Extension("executionListeners")
	for _, l := range f.All() {
		emitListener(t.AppendExtension(el, "executionListener"), l)
	}
}

func emitTaskListeners(t *Target, c convertible.Convertible) {
	f := c.(convertible.HasTaskListeners).TaskListeners()
	if f.IsEmpty() {
		return
	}
	el := t.Extension("taskListeners")
	for _, l := range f.All() {
		emitListener(t.AppendExtension(el, "taskListener"), l)
	}
}

func emitListener(el *etree.Element, l convertible.Listener) {
	el.CreateAttr("eventType", l.EventType)
	el.CreateAttr("type", l.Type)
	SetIntAttr(el, "retries", l.Retries)
}
