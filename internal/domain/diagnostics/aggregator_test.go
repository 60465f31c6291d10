package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/recast/internal/domain/values"
)

func paths() (root, proc, taskA, taskB values.ElementPath) {
	root = values.NewElementPath(values.PathSegment{Prefix: "bpmn", Local: "definitions"})
	proc = root.Child(values.PathSegment{Prefix: "bpmn", Local: "process", ID: "p"})
	taskA = proc.Child(values.PathSegment{Prefix: "bpmn", Local: "serviceTask", ID: "a"})
	taskB = proc.Child(values.PathSegment{Prefix: "bpmn", Local: "userTask", ID: "b"})
	return
}

func TestAggregator_TreeMirrorsDocument(t *testing.T) {
	root, proc, taskA, taskB := paths()
	agg := NewAggregator(nil)

	agg.Visit(root)
	agg.Visit(proc)
	agg.Visit(taskA)
	agg.Add(Message{Severity: values.SevInfo, Path: taskA, Attribute: "camunda:class", Text: "a1"})
	agg.Add(Message{Severity: values.SevWarning, Path: taskA, Text: "a2"})
	agg.Visit(taskB)
	agg.Add(Message{Severity: values.SevReview, Path: taskB, Text: "b1"})

	report := agg.Report()
	require.NotNil(t, report.Tree)
	assert.True(t, report.Tree.Path.Equals(root))
	require.Len(t, report.Tree.Children, 1)
	procNode := report.Tree.Children[0]
	require.Len(t, procNode.Children, 2)
	assert.Equal(t, "bpmn:serviceTask[@id='a']", procNode.Children[0].Name())
	assert.Len(t, procNode.Children[0].Messages, 2)

	texts := func(ms []Message) []string {
		var out []string
		for _, m := range ms {
			out = append(out, m.Text)
		}
		return out
	}
	assert.Equal(t, []string{"a1", "a2", "b1"}, texts(report.Messages))
	assert.Equal(t, texts(report.Messages), texts(report.Tree.Flatten()))
}

func TestAggregator_KeysAndSummary(t *testing.T) {
	_, _, taskA, _ := paths()
	agg := NewAggregator(values.NewSequentialKeys("doc"))

	m1 := agg.Add(Message{Severity: values.SevInfo, Path: taskA})
	m2 := agg.Add(Message{Severity: values.SevError, Path: taskA})
	agg.Add(Message{Severity: values.SevError, Path: taskA})

	assert.Equal(t, "doc-0001", m1.Key)
	assert.Equal(t, "doc-0002", m2.Key)

	report := agg.Report()
	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, 2, report.Summary.Count(values.SevError))
	assert.True(t, report.HasErrors())
	assert.True(t, report.Highest().Equals(values.SevError))
	assert.Len(t, report.Filter(values.SevWarning), 2)
}

func TestAggregator_Replace(t *testing.T) {
	_, _, taskA, taskB := paths()
	agg := NewAggregator(values.NewSequentialKeys("doc"))

	agg.Add(Message{Severity: values.SevInfo, Path: taskA, Rule: "class", Text: "converted"})
	agg.Add(Message{Severity: values.SevInfo, Path: taskA, Rule: "field", Text: "field"})

	byRule := func(rule string) func(Message) bool {
		return func(m Message) bool { return m.Rule == rule }
	}
	replaced := agg.Replace(Message{Severity: values.SevError, Path: taskA, Rule: "class", Text: "fault"}, byRule("class"))
	added := agg.Replace(Message{Severity: values.SevError, Path: taskB, Rule: "class", Text: "other"}, byRule("class"))

	assert.Equal(t, "doc-0001", replaced.Key)
	assert.Equal(t, "doc-0003", added.Key)

	report := agg.Report()
	require.Len(t, report.Messages, 3)
	assert.Equal(t, "fault", report.Messages[0].Text)
	assert.Equal(t, "field", report.Messages[1].Text)
	assert.Equal(t, "other", report.Messages[2].Text)
	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Info)
	assert.Equal(t, 2, report.Summary.Error)
	assert.Equal(t, "fault", report.Tree.Flatten()[0].Text)
}

func TestAggregator_AddOpensMissingNodes(t *testing.T) {
	root, _, taskA, _ := paths()
	agg := NewAggregator(nil)
	agg.Visit(root)

	agg.Add(Message{Severity: values.SevInfo, Path: taskA, Text: "deep"})

	report := agg.Report()
	require.Len(t, report.Tree.Children, 1)
	require.Len(t, report.Tree.Children[0].Children, 1)
	assert.Equal(t, "deep", report.Tree.Children[0].Children[0].Messages[0].Text)
}

func TestNode_Prune(t *testing.T) {
	root, proc, taskA, taskB := paths()
	agg := NewAggregator(nil)
	agg.Visit(root)
	agg.Visit(proc)
	agg.Visit(taskA)
	agg.Visit(taskB)
	agg.Add(Message{Severity: values.SevInfo, Path: taskB, Text: "only"})

	pruned := agg.Report().Tree.Prune()
	require.NotNil(t, pruned)
	require.Len(t, pruned.Children, 1)
	require.Len(t, pruned.Children[0].Children, 1)
	assert.Equal(t, "bpmn:userTask[@id='b']", pruned.Children[0].Children[0].Name())

	empty := NewAggregator(nil)
	empty.Visit(root)
	assert.Nil(t, empty.Report().Tree.Prune())
}

func TestMessage_String(t *testing.T) {
	_, _, taskA, _ := paths()
	m := Message{Severity: values.SevWarning, Code: "removed", Path: taskA, Attribute: "camunda:asyncBefore", Text: "Removed."}

	assert.Equal(t,
		"[warning] [removed] /bpmn:definitions/bpmn:process[@id='p']/bpmn:serviceTask[@id='a']/@camunda:asyncBefore: Removed.",
		m.String())
}

func TestReport_Rewrite(t *testing.T) {
	root, _, taskA, _ := paths()
	agg := NewAggregator(nil)
	agg.Visit(root)
	agg.Add(Message{Severity: values.SevInfo, Path: taskA, Text: "token abc", Original: "abc"})

	report := agg.Report()
	report.Rewrite(func(m *Message) {
		m.Text = "token ***"
		m.Original = "***"
	})

	assert.Equal(t, "token ***", report.Messages[0].Text)
	flat := report.Tree.Flatten()
	require.Len(t, flat, 1)
	assert.Equal(t, "***", flat[0].Original)
}
