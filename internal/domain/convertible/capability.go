package convertible

// Capability is one facet an element kind may expose.
// The declaration order is the order in which Apply runs mutations, except
// that Base runs last.
type Capability int

const (
	CapBase Capability = iota
	CapExecutionPlatform
	CapAttributes
	CapVersionTag
	CapTaskDefinition
	CapScript
	CapCalledElement
	CapCalledDecision
	CapUserTaskMarker
	CapFormDefinition
	CapAssignmentDefinition
	CapTaskSchedule
	CapPriorityDefinition
	CapIoMapping
	CapTaskHeaders
	CapLoopCharacteristics
	CapSubscription
	CapExpressionBody
	CapProperties
	CapExecutionListeners
	CapTaskListeners

	capabilityCount
)

var capabilityNames = [...]string{
	CapBase:                 "Base",
	CapExecutionPlatform:    "ExecutionPlatform",
	CapAttributes:           "Attributes",
	CapVersionTag:           "VersionTag",
	CapTaskDefinition:       "TaskDefinition",
	CapScript:               "Script",
	CapCalledElement:        "CalledElement",
	CapCalledDecision:       "CalledDecision",
	CapUserTaskMarker:       "UserTaskMarker",
	CapFormDefinition:       "FormDefinition",
	CapAssignmentDefinition: "AssignmentDefinition",
	CapTaskSchedule:         "TaskSchedule",
	CapPriorityDefinition:   "PriorityDefinition",
	CapIoMapping:            "IoMapping",
	CapTaskHeaders:          "TaskHeaders",
	CapLoopCharacteristics:  "LoopCharacteristics",
	CapSubscription:         "Subscription",
	CapExpressionBody:       "ExpressionBody",
	CapProperties:           "Properties",
	CapExecutionListeners:   "ExecutionListeners",
	CapTaskListeners:        "TaskListeners",
}

func (c Capability) String() string {
	if c < 0 || c >= capabilityCount {
		return "Unknown"
	}
	return capabilityNames[c]
}

// AllCapabilities lists every capability in application order.
func AllCapabilities() []Capability {
	out := make([]Capability, 0, capabilityCount)
	for c := CapBase; c < capabilityCount; c++ {
		out = append(out, c)
	}
	return out
}

// Owner interfaces. A convertible supports a capability exactly when its
// concrete type implements the owner interface.
type (
	HasExecutionPlatform interface {
		Convertible
		ExecutionPlatform() *ExecutionPlatform
	}
	HasAttributes interface {
		Convertible
		Attributes() *Attributes
	}
	HasVersionTag interface {
		Convertible
		VersionTag() *VersionTag
	}
	HasTaskDefinition interface {
		Convertible
		TaskDefinition() *TaskDefinition
	}
	HasScript interface {
		Convertible
		Script() *Script
	}
	HasCalledElement interface {
		Convertible
		CalledElement() *CalledElement
	}
	HasCalledDecision interface {
		Convertible
		CalledDecision() *CalledDecision
	}
	HasUserTaskMarker interface {
		Convertible
		UserTaskMarker() *UserTaskMarker
	}
	HasFormDefinition interface {
		Convertible
		FormDefinition() *FormDefinition
	}
	HasAssignmentDefinition interface {
		Convertible
		AssignmentDefinition() *AssignmentDefinition
	}
	HasTaskSchedule interface {
		Convertible
		TaskSchedule() *TaskSchedule
	}
	HasPriorityDefinition interface {
		Convertible
		PriorityDefinition() *PriorityDefinition
	}
	HasIoMapping interface {
		Convertible
		IoMapping() *IoMapping
	}
	HasTaskHeaders interface {
		Convertible
		TaskHeaders() *TaskHeaders
	}
	HasLoopCharacteristics interface {
		Convertible
		LoopCharacteristics() *LoopCharacteristics
	}
	HasSubscription interface {
		Convertible
		Subscription() *Subscription
	}
	HasExpressionBody interface {
		Convertible
		ExpressionBody() *ExpressionBody
	}
	HasProperties interface {
		Convertible
		Properties() *Properties
	}
	HasExecutionListeners interface {
		Convertible
		ExecutionListeners() *ExecutionListeners
	}
	HasTaskListeners interface {
		Convertible
		TaskListeners() *TaskListeners
	}
)

// Supports reports whether c has the capability.
func Supports(c Convertible, capability Capability) bool {
	var ok bool
	switch capability {
	case CapBase:
		ok = c != nil
	case CapExecutionPlatform:
		_, ok = c.(HasExecutionPlatform)
	case CapAttributes:
		_, ok = c.(HasAttributes)
	case CapVersionTag:
		_, ok = c.(HasVersionTag)
	case CapTaskDefinition:
		_, ok = c.(HasTaskDefinition)
	case CapScript:
		_, ok = c.(HasScript)
	case CapCalledElement:
		_, ok = c.(HasCalledElement)
	case CapCalledDecision:
		_, ok = c.(HasCalledDecision)
	case CapUserTaskMarker:
		_, ok = c.(HasUserTaskMarker)
	case CapFormDefinition:
		_, ok = c.(HasFormDefinition)
	case CapAssignmentDefinition:
		_, ok = c.(HasAssignmentDefinition)
	case CapTaskSchedule:
		_, ok = c.(HasTaskSchedule)
	case CapPriorityDefinition:
		_, ok = c.(HasPriorityDefinition)
	case CapIoMapping:
		_, ok = c.(HasIoMapping)
	case CapTaskHeaders:
		_, ok = c.(HasTaskHeaders)
	case CapLoopCharacteristics:
		_, ok = c.(HasLoopCharacteristics)
	case CapSubscription:
		_, ok = c.(HasSubscription)
	case CapExpressionBody:
		_, ok = c.(HasExpressionBody)
	case CapProperties:
		_, ok = c.(HasProperties)
	case CapExecutionListeners:
		_, ok = c.(HasExecutionListeners)
	case CapTaskListeners:
		_, ok = c.(HasTaskListeners)
	}
	return ok
}

// Capabilities returns the capabilities of c in application order.
func Capabilities(c Convertible) []Capability {
	var out []Capability
	for _, capability := range AllCapabilities() {
		if Supports(c, capability) {
			out = append(out, capability)
		}
	}
	return out
}
