package diagnostics

import "github.com/reglet-dev/recast/internal/domain/values"

// Node is one element of the diagnostics tree.
type Node struct {
	Path     values.ElementPath `json:"path" yaml:"path"`
	Messages []Message          `json:"messages,omitempty" yaml:"messages,omitempty"`
	Children []*Node            `json:"children,omitempty" yaml:"children,omitempty"`
}

// Name returns the last path segment.
func (n *Node) Name() string {
	return n.Path.Last().String()
}

// Flatten returns every message of the subtree in document order.
func (n *Node) Flatten() []Message {
	var out []Message
	n.Walk(func(node *Node, _ int) {
		out = append(out, node.Messages...)
	})
	return out
}

// Walk visits the subtree in pre-order.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int), depth int) {
	if n == nil {
		return
	}
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Prune returns a copy of the subtree keeping only nodes that have messages
// themselves or below them. Nil when the subtree has no messages.
func (n *Node) Prune() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Path: n.Path, Messages: append([]Message(nil), n.Messages...)}
	for _, c := range n.Children {
		if p := c.Prune(); p != nil {
			out.Children = append(out.Children, p)
		}
	}
	if len(out.Messages) == 0 && len(out.Children) == 0 {
		return nil
	}
	return out
}

// Highest returns the highest severity in the subtree.
func (n *Node) Highest() values.Severity {
	highest := values.SevUnknown
	n.Walk(func(node *Node, _ int) {
		for _, m := range node.Messages {
			if m.Severity.IsHigherThan(highest) {
				highest = m.Severity
			}
		}
	})
	return highest
}
