// Package convertible is the per-element intermediate representation.
//
// Each element kind has a concrete type embedding exactly the facets the kind
// supports. Rules never touch facets directly; they enqueue mutations which
// Apply runs after the walk, grouped by capability.
package convertible

import "github.com/reglet-dev/recast/internal/domain/dialect"

// Kind is the closed set of element kinds that own a convertible.
type Kind int

const (
	KindElement Kind = iota
	KindDefinitions
	KindProcess
	KindSubProcess
	KindServiceTask
	KindBusinessRuleTask
	KindScriptTask
	KindUserTask
	KindReceiveTask
	KindTask
	KindCallActivity
	KindStartEvent
	KindThrowEvent
	KindCatchEvent
	KindGateway
	KindSequenceFlow
	KindMultiInstance
	KindExpression
	KindMessage
	KindDecision
)

var kindNames = [...]string{
	KindElement:          "element",
	KindDefinitions:      "definitions",
	KindProcess:          "process",
	KindSubProcess:       "subProcess",
	KindServiceTask:      "serviceTask",
	KindBusinessRuleTask: "businessRuleTask",
	KindScriptTask:       "scriptTask",
	KindUserTask:         "userTask",
	KindReceiveTask:      "receiveTask",
	KindTask:             "task",
	KindCallActivity:     "callActivity",
	KindStartEvent:       "startEvent",
	KindThrowEvent:       "throwEvent",
	KindCatchEvent:       "catchEvent",
	KindGateway:          "gateway",
	KindSequenceFlow:     "sequenceFlow",
	KindMultiInstance:    "multiInstance",
	KindExpression:       "expression",
	KindMessage:          "message",
	KindDecision:         "decision",
}

// AllKinds lists every kind.
func AllKinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// New creates an empty convertible of the kind.
func (k Kind) New() Convertible {
	c := newCore(k)
	switch k {
	case KindDefinitions:
		return &Definitions{core: c}
	case KindProcess:
		return &Process{core: c}
	case KindSubProcess:
		return &SubProcess{core: c}
	case KindServiceTask:
		return &ServiceTask{core: c}
	case KindBusinessRuleTask:
		return &BusinessRuleTask{core: c}
	case KindScriptTask:
		return &ScriptTask{core: c}
	case KindUserTask:
		return &UserTask{core: c}
	case KindReceiveTask:
		return &ReceiveTask{core: c}
	case KindTask:
		return &Task{core: c}
	case KindCallActivity:
		return &CallActivity{core: c}
	case KindStartEvent:
		return &StartEvent{core: c}
	case KindThrowEvent:
		return &ThrowEvent{core: c}
	case KindCatchEvent:
		return &CatchEvent{core: c}
	case KindGateway:
		return &Gateway{core: c}
	case KindSequenceFlow:
		return &SequenceFlow{core: c}
	case KindMultiInstance:
		return &MultiInstance{core: c}
	case KindExpression:
		return &Expression{core: c}
	case KindMessage:
		return &Message{core: c}
	case KindDecision:
		return &Decision{core: c}
	default:
		return &Element{core: newCore(KindElement)}
	}
}

// Capabilities returns the capabilities of the kind in application order.
func (k Kind) Capabilities() []Capability {
	return Capabilities(k.New())
}

// Supports reports whether the kind has the capability.
func (k Kind) Supports(capability Capability) bool {
	return Supports(k.New(), capability)
}

var bpmnKinds = map[string]Kind{
	"definitions":                      KindDefinitions,
	"process":                          KindProcess,
	"subProcess":                       KindSubProcess,
	"transaction":                      KindSubProcess,
	"adHocSubProcess":                  KindSubProcess,
	"serviceTask":                      KindServiceTask,
	"sendTask":                         KindServiceTask,
	"businessRuleTask":                 KindBusinessRuleTask,
	"scriptTask":                       KindScriptTask,
	"userTask":                         KindUserTask,
	"receiveTask":                      KindReceiveTask,
	"task":                             KindTask,
	"manualTask":                       KindTask,
	"callActivity":                     KindCallActivity,
	"startEvent":                       KindStartEvent,
	"intermediateThrowEvent":           KindThrowEvent,
	"endEvent":                         KindThrowEvent,
	"intermediateCatchEvent":           KindCatchEvent,
	"boundaryEvent":                    KindCatchEvent,
	"exclusiveGateway":                 KindGateway,
	"inclusiveGateway":                 KindGateway,
	"parallelGateway":                  KindGateway,
	"eventBasedGateway":                KindGateway,
	"complexGateway":                   KindGateway,
	"sequenceFlow":                     KindSequenceFlow,
	"multiInstanceLoopCharacteristics": KindMultiInstance,
	"conditionExpression":              KindExpression,
	"completionCondition":              KindExpression,
	"loopCardinality":                  KindExpression,
	"timeDuration":                     KindExpression,
	"timeDate":                         KindExpression,
	"timeCycle":                        KindExpression,
	"condition":                        KindExpression,
	"message":                          KindMessage,
}

var dmnKinds = map[string]Kind{
	"definitions": KindDefinitions,
	"decision":    KindDecision,
}

// KindOf classifies a model element. Unknown elements get KindElement.
func KindOf(space, local string) Kind {
	var table map[string]Kind
	switch {
	case space == dialect.BPMN:
		table = bpmnKinds
	case dialect.IsDMN(space):
		table = dmnKinds
	default:
		return KindElement
	}
	if k, ok := table[local]; ok {
		return k
	}
	return KindElement
}
