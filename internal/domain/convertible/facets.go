package convertible

// Ptr returns a pointer to v, for optional facet fields.
func Ptr[T any](v T) *T {
	return &v
}

// ExecutionPlatform is the modeler:executionPlatform metadata on definitions.
type ExecutionPlatform struct {
	Name    *string
	Version *string
}

func (f *ExecutionPlatform) IsEmpty() bool { return f.Name == nil && f.Version == nil }

// Attribute is a model attribute rewritten in place.
type Attribute struct {
	Name  string
	Value string
}

// Attributes rewrites unqualified model attributes, e.g. a message name
// turned into an expression.
type Attributes struct {
	attrs []Attribute
}

// Set adds or replaces an attribute, keeping first-set order.
func (f *Attributes) Set(name, value string) {
	for i := range f.attrs {
		if f.attrs[i].Name == name {
			f.attrs[i].Value = value
			return
		}
	}
	f.attrs = append(f.attrs, Attribute{Name: name, Value: value})
}

func (f *Attributes) All() []Attribute { return append([]Attribute(nil), f.attrs...) }
func (f *Attributes) IsEmpty() bool    { return len(f.attrs) == 0 }

// VersionTag is zeebe:versionTag.
type VersionTag struct {
	Value *string
}

func (f *VersionTag) IsEmpty() bool { return f.Value == nil }

// TaskDefinition is zeebe:taskDefinition.
type TaskDefinition struct {
	Type    *string
	Retries *int
}

func (f *TaskDefinition) IsEmpty() bool { return f.Type == nil && f.Retries == nil }

// Script is zeebe:script, an inline FEEL script.
type Script struct {
	Expression     *string
	ResultVariable *string
}

func (f *Script) IsEmpty() bool { return f.Expression == nil && f.ResultVariable == nil }

// CalledElement is zeebe:calledElement.
type CalledElement struct {
	ProcessID                   *string
	PropagateAllChildVariables  *bool
	PropagateAllParentVariables *bool
	BindingType                 *string
	VersionTag                  *string
}

func (f *CalledElement) IsEmpty() bool {
	return f.ProcessID == nil && f.PropagateAllChildVariables == nil &&
		f.PropagateAllParentVariables == nil && f.BindingType == nil && f.VersionTag == nil
}

// CalledDecision is zeebe:calledDecision.
type CalledDecision struct {
	DecisionID     *string
	ResultVariable *string
	BindingType    *string
	VersionTag     *string
}

func (f *CalledDecision) IsEmpty() bool {
	return f.DecisionID == nil && f.ResultVariable == nil && f.BindingType == nil && f.VersionTag == nil
}

// UserTaskMarker is the empty zeebe:userTask element that selects the
// native user task implementation.
type UserTaskMarker struct {
	enabled bool
}

func (f *UserTaskMarker) Enable()       { f.enabled = true }
func (f *UserTaskMarker) Enabled() bool { return f.enabled }
func (f *UserTaskMarker) IsEmpty() bool { return !f.enabled }

// FormDefinition is zeebe:formDefinition.
type FormDefinition struct {
	FormID            *string
	ExternalReference *string
	BindingType       *string
	VersionTag        *string
}

func (f *FormDefinition) IsEmpty() bool {
	return f.FormID == nil && f.ExternalReference == nil && f.BindingType == nil && f.VersionTag == nil
}

// AssignmentDefinition is zeebe:assignmentDefinition.
type AssignmentDefinition struct {
	Assignee        *string
	CandidateGroups *string
	CandidateUsers  *string
}

func (f *AssignmentDefinition) IsEmpty() bool {
	return f.Assignee == nil && f.CandidateGroups == nil && f.CandidateUsers == nil
}

// TaskSchedule is zeebe:taskSchedule.
type TaskSchedule struct {
	DueDate      *string
	FollowUpDate *string
}

func (f *TaskSchedule) IsEmpty() bool { return f.DueDate == nil && f.FollowUpDate == nil }

// PriorityDefinition is zeebe:priorityDefinition.
type PriorityDefinition struct {
	Priority *string
}

func (f *PriorityDefinition) IsEmpty() bool { return f.Priority == nil }

// Mapping is one zeebe:input or zeebe:output.
type Mapping struct {
	Source string
	Target string
}

// IoMapping is zeebe:ioMapping.
type IoMapping struct {
	inputs  []Mapping
	outputs []Mapping
}

func (f *IoMapping) AddInput(source, target string) {
	f.inputs = append(f.inputs, Mapping{Source: source, Target: target})
}

func (f *IoMapping) AddOutput(source, target string) {
	f.outputs = append(f.outputs, Mapping{Source: source, Target: target})
}

func (f *IoMapping) Inputs() []Mapping  { return append([]Mapping(nil), f.inputs...) }
func (f *IoMapping) Outputs() []Mapping { return append([]Mapping(nil), f.outputs...) }
func (f *IoMapping) IsEmpty() bool      { return len(f.inputs) == 0 && len(f.outputs) == 0 }

// Header is one zeebe:header.
type Header struct {
	Key   string
	Value string
}

// TaskHeaders is zeebe:taskHeaders. Keys are unique.
type TaskHeaders struct {
	headers []Header
}

// Set adds a header or replaces the value of an existing key in place.
func (f *TaskHeaders) Set(key, value string) {
	for i := range f.headers {
		if f.headers[i].Key == key {
			f.headers[i].Value = value
			return
		}
	}
	f.headers = append(f.headers, Header{Key: key, Value: value})
}

// Get returns the value for key.
func (f *TaskHeaders) Get(key string) (string, bool) {
	for _, h := range f.headers {
		if h.Key == key {
			return h.Value, true
		}
	}
	return "", false
}

func (f *TaskHeaders) All() []Header { return append([]Header(nil), f.headers...) }
func (f *TaskHeaders) IsEmpty() bool { return len(f.headers) == 0 }

// LoopCharacteristics is zeebe:loopCharacteristics.
type LoopCharacteristics struct {
	InputCollection  *string
	InputElement     *string
	OutputCollection *string
	OutputElement    *string
}

func (f *LoopCharacteristics) IsEmpty() bool {
	return f.InputCollection == nil && f.InputElement == nil && f.OutputCollection == nil && f.OutputElement == nil
}

// Subscription is zeebe:subscription on a message.
type Subscription struct {
	CorrelationKey *string
}

func (f *Subscription) IsEmpty() bool { return f.CorrelationKey == nil }

// ExpressionBody replaces the text content of an expression element.
type ExpressionBody struct {
	Body *string
}

func (f *ExpressionBody) IsEmpty() bool { return f.Body == nil }

// Property is one zeebe:property.
type Property struct {
	Name  string
	Value string
}

// Properties is zeebe:properties.
type Properties struct {
	props []Property
}

func (f *Properties) Add(name, value string) {
	f.props = append(f.props, Property{Name: name, Value: value})
}

func (f *Properties) All() []Property { return append([]Property(nil), f.props...) }
func (f *Properties) IsEmpty() bool   { return len(f.props) == 0 }

// Listener is one zeebe:executionListener or zeebe:taskListener.
type Listener struct {
	EventType string
	Type      string
	Retries   *int
}

// ExecutionListeners is zeebe:executionListeners.
type ExecutionListeners struct {
	listeners []Listener
}

func (f *ExecutionListeners) Add(l Listener)  { f.listeners = append(f.listeners, l) }
func (f *ExecutionListeners) All() []Listener { return append([]Listener(nil), f.listeners...) }
func (f *ExecutionListeners) IsEmpty() bool   { return len(f.listeners) == 0 }

// TaskListeners is zeebe:taskListeners.
type TaskListeners struct {
	listeners []Listener
}

func (f *TaskListeners) Add(l Listener)  { f.listeners = append(f.listeners, l) }
func (f *TaskListeners) All() []Listener { return append([]Listener(nil), f.listeners...) }
func (f *TaskListeners) IsEmpty() bool   { return len(f.listeners) == 0 }
