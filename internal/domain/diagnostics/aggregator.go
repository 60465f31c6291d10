package diagnostics

import (
	"github.com/reglet-dev/recast/internal/domain/values"
)

// Report is the diagnostics of one conversion.
type Report struct {
	Tree     *Node     `json:"tree,omitempty" yaml:"tree,omitempty"`
	Messages []Message `json:"messages" yaml:"messages"`
	Summary  Summary   `json:"summary" yaml:"summary"`
}

// HasErrors returns true if any message has error severity.
func (r *Report) HasErrors() bool {
	return r.Summary.Error > 0
}

// Highest returns the highest severity of the report.
func (r *Report) Highest() values.Severity {
	highest := values.SevUnknown
	for _, m := range r.Messages {
		if m.Severity.IsHigherThan(highest) {
			highest = m.Severity
		}
	}
	return highest
}

// Filter returns the messages at or above min.
func (r *Report) Filter(minimum values.Severity) []Message {
	var out []Message
	for _, m := range r.Messages {
		if m.Severity.IsHigherOrEqual(minimum) {
			out = append(out, m)
		}
	}
	return out
}

// Aggregator collects the messages of one conversion in traversal order.
// It is not safe for concurrent use; each conversion owns one.
type Aggregator struct {
	keys     values.KeyGenerator
	root     *Node
	nodes    map[string]*Node
	messages []Message
	summary  Summary
}

// NewAggregator creates an Aggregator. A nil key generator gets a
// sequential one.
func NewAggregator(keys values.KeyGenerator) *Aggregator {
	if keys == nil {
		keys = values.NewSequentialKeys("")
	}
	return &Aggregator{
		keys:  keys,
		nodes: make(map[string]*Node),
	}
}

// Visit opens the node for an element. Parents must be visited first; a
// missing parent is opened on the way.
func (a *Aggregator) Visit(path values.ElementPath) *Node {
	key := path.String()
	if n, ok := a.nodes[key]; ok {
		return n
	}
	n := &Node{Path: path}
	a.nodes[key] = n
	if path.Depth() <= 1 {
		if a.root == nil {
			a.root = n
		}
		return n
	}
	parent := a.Visit(path.Parent())
	parent.Children = append(parent.Children, n)
	return n
}

// Add appends a message to the node of msg.Path, assigning its key.
func (a *Aggregator) Add(msg Message) Message {
	msg.Key = a.keys.Next()
	n := a.Visit(msg.Path)
	n.Messages = append(n.Messages, msg)
	a.messages = append(a.messages, msg)
	a.summary.add(msg.Severity)
	return msg
}

// Replace swaps the first message of msg.Path matching fn for msg, keeping
// its key and position. Without a match msg is added.
func (a *Aggregator) Replace(msg Message, fn func(Message) bool) Message {
	n := a.Visit(msg.Path)
	for i, old := range n.Messages {
		if !fn(old) {
			continue
		}
		msg.Key = old.Key
		n.Messages[i] = msg
		for j := range a.messages {
			if a.messages[j].Key == old.Key {
				a.messages[j] = msg
				break
			}
		}
		a.summary.remove(old.Severity)
		a.summary.add(msg.Severity)
		return msg
	}
	return a.Add(msg)
}

// Len returns the number of messages added.
func (a *Aggregator) Len() int {
	return len(a.messages)
}

// Report returns the collected diagnostics.
func (a *Aggregator) Report() *Report {
	return &Report{
		Tree:     a.root,
		Messages: append([]Message(nil), a.messages...),
		Summary:  a.summary,
	}
}

// Rewrite applies fn to every message of the report, in the message list
// and in the tree.
func (r *Report) Rewrite(fn func(*Message)) {
	for i := range r.Messages {
		fn(&r.Messages[i])
	}
	r.Tree.Walk(func(n *Node, _ int) {
		for i := range n.Messages {
			fn(&n.Messages[i])
		}
	})
}
