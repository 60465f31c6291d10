package convertible

import (
	"errors"
	"fmt"
)

// ErrApplied is raised when a mutation is enqueued on a convertible that has
// already been applied.
var ErrApplied = errors.New("convertible already applied")

// UnsupportedFacetError is raised (as a panic) when a mutation targets a
// facet the element kind does not have. It signals a wrongly registered rule.
type UnsupportedFacetError struct {
	Kind       Kind
	Capability Capability
}

func (e *UnsupportedFacetError) Error() string {
	return fmt.Sprintf("element kind %s has no %s facet", e.Kind, e.Capability)
}

// Origin identifies the rule and source node a mutation step came from.
type Origin struct {
	Rule string
	Node string
}

// IsZero reports whether no origin is set.
func (o Origin) IsZero() bool {
	return o == Origin{}
}

// Fault is a mutation step that panicked while applied.
type Fault struct {
	Origin     Origin
	Capability Capability
	Cause      error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s mutation of %s failed: %v", f.Capability, f.Origin.Rule, f.Cause)
}

func (f *Fault) Unwrap() error {
	return f.Cause
}

type step struct {
	capability Capability
	origin     Origin
	apply      func(Convertible)
}

// Mutation is a deferred change to one or more facets of a convertible.
// The zero value changes nothing.
type Mutation struct {
	steps []step
}

// And returns a mutation running m, then others.
func (m Mutation) And(others ...Mutation) Mutation {
	steps := append([]step(nil), m.steps...)
	for _, o := range others {
		steps = append(steps, o.steps...)
	}
	return Mutation{steps: steps}
}

// From returns m with every step attributed to o.
func (m Mutation) From(o Origin) Mutation {
	steps := make([]step, len(m.steps))
	for i, st := range m.steps {
		st.origin = o
		steps[i] = st
	}
	return Mutation{steps: steps}
}

// IsZero reports whether the mutation has no steps.
func (m Mutation) IsZero() bool {
	return len(m.steps) == 0
}

// Capabilities lists the capabilities touched, in step order, without duplicates.
func (m Mutation) Capabilities() []Capability {
	var out []Capability
	seen := make(map[Capability]bool, len(m.steps))
	for _, s := range m.steps {
		if !seen[s.capability] {
			seen[s.capability] = true
			out = append(out, s.capability)
		}
	}
	return out
}

func on[O Convertible](capability Capability, fn func(O)) Mutation {
	return Mutation{steps: []step{{
		capability: capability,
		apply:      func(c Convertible) { fn(c.(O)) },
	}}}
}

// Enqueue registers m against c. It panics with *UnsupportedFacetError when
// c lacks a facet m needs, and with ErrApplied after Apply.
func Enqueue(c Convertible, m Mutation) {
	st := c.state()
	if st.applied {
		panic(ErrApplied)
	}
	for _, s := range m.steps {
		if !Supports(c, s.capability) {
			panic(&UnsupportedFacetError{Kind: c.Kind(), Capability: s.capability})
		}
	}
	st.pending = append(st.pending, m.steps...)
}

// Apply runs the pending mutations of c once: capability by capability in
// the kind's order, registration order within a capability, Base last.
// A panicking step is returned as a Fault and the later steps of its origin
// are skipped, including its Base steps; every other step still runs.
// Later calls do nothing.
func Apply(c Convertible) []Fault {
	st := c.state()
	if st.applied {
		return nil
	}
	st.applied = true

	var faults []Fault
	failed := make(map[Origin]bool)
	run := func(s step) {
		if !s.origin.IsZero() && failed[s.origin] {
			return
		}
		defer func() {
			if r := recover(); r != nil {
				cause, ok := r.(error)
				if !ok {
					cause = fmt.Errorf("%v", r)
				}
				faults = append(faults, Fault{Origin: s.origin, Capability: s.capability, Cause: cause})
				if !s.origin.IsZero() {
					failed[s.origin] = true
				}
			}
		}()
		s.apply(c)
	}

	for _, capability := range Capabilities(c) {
		if capability == CapBase {
			continue
		}
		for _, s := range st.pending {
			if s.capability == capability {
				run(s)
			}
		}
	}
	for _, s := range st.pending {
		if s.capability == CapBase {
			run(s)
		}
	}
	st.pending = nil
	return faults
}

// Base mutations apply to every kind.

func RemoveAttr(element int, key string) Mutation {
	return on(CapBase, func(c Convertible) { c.Base().RemoveAttr(element, key) })
}

func RemoveElement(ordinal int) Mutation {
	return on(CapBase, func(c Convertible) { c.Base().RemoveElement(ordinal) })
}

func WithExecutionPlatform(fn func(*ExecutionPlatform)) Mutation {
	return on(CapExecutionPlatform, func(o HasExecutionPlatform) { fn(o.ExecutionPlatform()) })
}

func WithAttributes(fn func(*Attributes)) Mutation {
	return on(CapAttributes, func(o HasAttributes) { fn(o.Attributes()) })
}

func WithVersionTag(fn func(*VersionTag)) Mutation {
	return on(CapVersionTag, func(o HasVersionTag) { fn(o.VersionTag()) })
}

func WithTaskDefinition(fn func(*TaskDefinition)) Mutation {
	return on(CapTaskDefinition, func(o HasTaskDefinition) { fn(o.TaskDefinition()) })
}

func WithScript(fn func(*Script)) Mutation {
	return on(CapScript, func(o HasScript) { fn(o.Script()) })
}

func WithCalledElement(fn func(*CalledElement)) Mutation {
	return on(CapCalledElement, func(o HasCalledElement) { fn(o.CalledElement()) })
}

func WithCalledDecision(fn func(*CalledDecision)) Mutation {
	return on(CapCalledDecision, func(o HasCalledDecision) { fn(o.CalledDecision()) })
}

func WithUserTaskMarker(fn func(*UserTaskMarker)) Mutation {
	return on(CapUserTaskMarker, func(o HasUserTaskMarker) { fn(o.UserTaskMarker()) })
}

func WithFormDefinition(fn func(*FormDefinition)) Mutation {
	return on(CapFormDefinition, func(o HasFormDefinition) { fn(o.FormDefinition()) })
}

func WithAssignmentDefinition(fn func(*AssignmentDefinition)) Mutation {
	return on(CapAssignmentDefinition, func(o HasAssignmentDefinition) { fn(o.AssignmentDefinition()) })
}

func WithTaskSchedule(fn func(*TaskSchedule)) Mutation {
	return on(CapTaskSchedule, func(o HasTaskSchedule) { fn(o.TaskSchedule()) })
}

func WithPriorityDefinition(fn func(*PriorityDefinition)) Mutation {
	return on(CapPriorityDefinition, func(o HasPriorityDefinition) { fn(o.PriorityDefinition()) })
}

func WithIoMapping(fn func(*IoMapping)) Mutation {
	return on(CapIoMapping, func(o HasIoMapping) { fn(o.IoMapping()) })
}

func WithTaskHeaders(fn func(*TaskHeaders)) Mutation {
	return on(CapTaskHeaders, func(o HasTaskHeaders) { fn(o.TaskHeaders()) })
}

func WithLoopCharacteristics(fn func(*LoopCharacteristics)) Mutation {
	return on(CapLoopCharacteristics, func(o HasLoopCharacteristics) { fn(o.LoopCharacteristics()) })
}

func WithSubscription(fn func(*Subscription)) Mutation {
	return on(CapSubscription, func(o HasSubscription) { fn(o.Subscription()) })
}

func WithExpressionBody(fn func(*ExpressionBody)) Mutation {
	return on(CapExpressionBody, func(o HasExpressionBody) { fn(o.ExpressionBody()) })
}

func WithProperties(fn func(*Properties)) Mutation {
	return on(CapProperties, func(o HasProperties) { fn(o.Properties()) })
}

func WithExecutionListeners(fn func(*ExecutionListeners)) Mutation {
	return on(CapExecutionListeners, func(o HasExecutionListeners) { fn(o.ExecutionListeners()) })
}

func WithTaskListeners(fn func(*TaskListeners)) Mutation {
	return on(CapTaskListeners, func(o HasTaskListeners) { fn(o.TaskListeners()) })
}
