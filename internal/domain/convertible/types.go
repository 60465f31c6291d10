package convertible

type executionPlatformFacet struct{ executionPlatform ExecutionPlatform }

func (f *executionPlatformFacet) ExecutionPlatform() *ExecutionPlatform { return &f.executionPlatform }

type attributesFacet struct{ attributes Attributes }

func (f *attributesFacet) Attributes() *Attributes { return &f.attributes }

type versionTagFacet struct{ versionTag VersionTag }

func (f *versionTagFacet) VersionTag() *VersionTag { return &f.versionTag }

type taskDefinitionFacet struct{ taskDefinition TaskDefinition }

func (f *taskDefinitionFacet) TaskDefinition() *TaskDefinition { return &f.taskDefinition }

type scriptFacet struct{ script Script }

func (f *scriptFacet) Script() *Script { return &f.script }

type calledElementFacet struct{ calledElement CalledElement }

func (f *calledElementFacet) CalledElement() *CalledElement { return &f.calledElement }

type calledDecisionFacet struct{ calledDecision CalledDecision }

func (f *calledDecisionFacet) CalledDecision() *CalledDecision { return &f.calledDecision }

type userTaskMarkerFacet struct{ userTaskMarker UserTaskMarker }

func (f *userTaskMarkerFacet) UserTaskMarker() *UserTaskMarker { return &f.userTaskMarker }

type formDefinitionFacet struct{ formDefinition FormDefinition }

func (f *formDefinitionFacet) FormDefinition() *FormDefinition { return &f.formDefinition }

type assignmentDefinitionFacet struct{ assignmentDefinition AssignmentDefinition }

func (f *assignmentDefinitionFacet) AssignmentDefinition() *AssignmentDefinition {
	return &f.assignmentDefinition
}

type taskScheduleFacet struct{ taskSchedule TaskSchedule }

func (f *taskScheduleFacet) TaskSchedule() *TaskSchedule { return &f.taskSchedule }

type priorityDefinitionFacet struct{ priorityDefinition PriorityDefinition }

func (f *priorityDefinitionFacet) PriorityDefinition() *PriorityDefinition {
	return &f.priorityDefinition
}

type ioMappingFacet struct{ ioMapping IoMapping }

func (f *ioMappingFacet) IoMapping() *IoMapping { return &f.ioMapping }

type taskHeadersFacet struct{ taskHeaders TaskHeaders }

func (f *taskHeadersFacet) TaskHeaders() *TaskHeaders { return &f.taskHeaders }

type loopCharacteristicsFacet struct{ loopCharacteristics LoopCharacteristics }

func (f *loopCharacteristicsFacet) LoopCharacteristics() *LoopCharacteristics {
	return &f.loopCharacteristics
}

type subscriptionFacet struct{ subscription Subscription }

func (f *subscriptionFacet) Subscription() *Subscription { return &f.subscription }

type expressionBodyFacet struct{ expressionBody ExpressionBody }

func (f *expressionBodyFacet) ExpressionBody() *ExpressionBody { return &f.expressionBody }

type propertiesFacet struct{ properties Properties }

func (f *propertiesFacet) Properties() *Properties { return &f.properties }

type executionListenersFacet struct{ executionListeners ExecutionListeners }

func (f *executionListenersFacet) ExecutionListeners() *ExecutionListeners {
	return &f.executionListeners
}

type taskListenersFacet struct{ taskListeners TaskListeners }

func (f *taskListenersFacet) TaskListeners() *TaskListeners { return &f.taskListeners }

// Element is any model element without target-side facets.
type Element struct {
	core
}

// Definitions is bpmn:definitions or dmn:definitions.
type Definitions struct {
	core
	executionPlatformFacet
}

// Process is bpmn:process.
type Process struct {
	core
	versionTagFacet
	propertiesFacet
	executionListenersFacet
}

// SubProcess covers embedded, transaction and ad-hoc sub-processes.
type SubProcess struct {
	core
	ioMappingFacet
	propertiesFacet
	executionListenersFacet
}

// ServiceTask covers service and send tasks.
type ServiceTask struct {
	core
	taskDefinitionFacet
	ioMappingFacet
	taskHeadersFacet
	propertiesFacet
	executionListenersFacet
}

// BusinessRuleTask is implemented either by a decision or by a job worker.
type BusinessRuleTask struct {
	core
	taskDefinitionFacet
	calledDecisionFacet
	ioMappingFacet
	taskHeadersFacet
	propertiesFacet
	executionListenersFacet
}

// ScriptTask is implemented either by a FEEL script or by a job worker.
type ScriptTask struct {
	core
	taskDefinitionFacet
	scriptFacet
	ioMappingFacet
	taskHeadersFacet
	propertiesFacet
	executionListenersFacet
}

// UserTask is bpmn:userTask.
type UserTask struct {
	core
	userTaskMarkerFacet
	formDefinitionFacet
	assignmentDefinitionFacet
	taskScheduleFacet
	priorityDefinitionFacet
	ioMappingFacet
	taskHeadersFacet
	propertiesFacet
	executionListenersFacet
	taskListenersFacet
}

// ReceiveTask is bpmn:receiveTask.
type ReceiveTask struct {
	core
	ioMappingFacet
	propertiesFacet
	executionListenersFacet
}

// Task covers undefined and manual tasks.
type Task struct {
	core
	ioMappingFacet
	propertiesFacet
	executionListenersFacet
}

// CallActivity is bpmn:callActivity.
type CallActivity struct {
	core
	calledElementFacet
	ioMappingFacet
	propertiesFacet
	executionListenersFacet
}

// StartEvent is bpmn:startEvent.
type StartEvent struct {
	core
	formDefinitionFacet
	ioMappingFacet
	propertiesFacet
	executionListenersFacet
}

// ThrowEvent covers intermediate throw and end events; message throw events
// are implemented by job workers.
type ThrowEvent struct {
	core
	taskDefinitionFacet
	ioMappingFacet
	taskHeadersFacet
	propertiesFacet
	executionListenersFacet
}

// CatchEvent covers intermediate catch and boundary events.
type CatchEvent struct {
	core
	ioMappingFacet
	propertiesFacet
	executionListenersFacet
}

// Gateway covers all gateway types.
type Gateway struct {
	core
	propertiesFacet
	executionListenersFacet
}

// SequenceFlow is bpmn:sequenceFlow.
type SequenceFlow struct {
	core
	propertiesFacet
}

// MultiInstance is bpmn:multiInstanceLoopCharacteristics.
type MultiInstance struct {
	core
	loopCharacteristicsFacet
}

// Expression covers elements whose text is an expression (conditions, timers).
type Expression struct {
	core
	expressionBodyFacet
}

// Message is bpmn:message.
type Message struct {
	core
	attributesFacet
	subscriptionFacet
}

// Decision is dmn:decision.
type Decision struct {
	core
	versionTagFacet
}

var (
	_ Convertible             = (*Element)(nil)
	_ HasExecutionPlatform    = (*Definitions)(nil)
	_ HasVersionTag           = (*Process)(nil)
	_ HasProperties           = (*Process)(nil)
	_ HasExecutionListeners   = (*Process)(nil)
	_ HasIoMapping            = (*SubProcess)(nil)
	_ HasTaskDefinition       = (*ServiceTask)(nil)
	_ HasTaskHeaders          = (*ServiceTask)(nil)
	_ HasCalledDecision       = (*BusinessRuleTask)(nil)
	_ HasScript               = (*ScriptTask)(nil)
	_ HasUserTaskMarker       = (*UserTask)(nil)
	_ HasFormDefinition       = (*UserTask)(nil)
	_ HasAssignmentDefinition = (*UserTask)(nil)
	_ HasTaskSchedule         = (*UserTask)(nil)
	_ HasPriorityDefinition   = (*UserTask)(nil)
	_ HasTaskListeners        = (*UserTask)(nil)
	_ HasIoMapping            = (*ReceiveTask)(nil)
	_ HasIoMapping            = (*Task)(nil)
	_ HasCalledElement        = (*CallActivity)(nil)
	_ HasFormDefinition       = (*StartEvent)(nil)
	_ HasTaskDefinition       = (*ThrowEvent)(nil)
	_ HasIoMapping            = (*CatchEvent)(nil)
	_ HasExecutionListeners   = (*Gateway)(nil)
	_ HasProperties           = (*SequenceFlow)(nil)
	_ HasLoopCharacteristics  = (*MultiInstance)(nil)
	_ HasExpressionBody       = (*Expression)(nil)
	_ HasAttributes           = (*Message)(nil)
	_ HasSubscription         = (*Message)(nil)
	_ HasVersionTag           = (*Decision)(nil)
)
