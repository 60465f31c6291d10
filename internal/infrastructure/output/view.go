// Package output renders conversion reports.
package output

import (
	"time"

	"github.com/reglet-dev/recast/internal/application/dto"
	"github.com/reglet-dev/recast/internal/domain/diagnostics"
	"github.com/reglet-dev/recast/internal/domain/values"
)

// batchView is the serialized form of a response shared by the JSON and
// YAML formatters.
type batchView struct {
	RequestID   string              `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	ProcessedAt time.Time           `json:"processed_at" yaml:"processed_at"`
	DurationMS  int64               `json:"duration_ms" yaml:"duration_ms"`
	Summary     diagnostics.Summary `json:"summary" yaml:"summary"`
	Documents   []documentView      `json:"documents" yaml:"documents"`
}

type documentView struct {
	Input    string                `json:"input" yaml:"input"`
	Output   string                `json:"output,omitempty" yaml:"output,omitempty"`
	ID       string                `json:"id,omitempty" yaml:"id,omitempty"`
	Target   string                `json:"target_version,omitempty" yaml:"target_version,omitempty"`
	Error    string                `json:"error,omitempty" yaml:"error,omitempty"`
	Summary  *diagnostics.Summary  `json:"summary,omitempty" yaml:"summary,omitempty"`
	Messages []diagnostics.Message `json:"messages,omitempty" yaml:"messages,omitempty"`
	Tree     *diagnostics.Node     `json:"tree,omitempty" yaml:"tree,omitempty"`
}

func newBatchView(resp *dto.ConvertResponse, minimum values.Severity, tree bool) batchView {
	v := batchView{
		RequestID:   resp.Metadata.RequestID,
		ProcessedAt: resp.Metadata.ProcessedAt,
		DurationMS:  resp.Metadata.Duration.Milliseconds(),
		Summary:     resp.Summary,
		Documents:   make([]documentView, 0, len(resp.Documents)),
	}
	for _, d := range resp.Documents {
		dv := documentView{Input: d.Input, Output: d.Output}
		if d.Err != nil {
			dv.Error = d.Err.Error()
		}
		if d.Result != nil && d.Result.Report != nil {
			dv.ID = d.Result.ID.String()
			dv.Target = d.Result.Target.String()
			summary := d.Result.Report.Summary
			dv.Summary = &summary
			if tree {
				dv.Tree = filterTree(d.Result.Report.Tree, minimum)
			} else {
				dv.Messages = d.Result.Report.Filter(minimum)
			}
		}
		v.Documents = append(v.Documents, dv)
	}
	return v
}

// filterTree copies n keeping messages at or above minimum, then prunes
// the branches left empty.
func filterTree(n *diagnostics.Node, minimum values.Severity) *diagnostics.Node {
	if n == nil {
		return nil
	}
	out := &diagnostics.Node{Path: n.Path}
	for _, m := range n.Messages {
		if m.Severity.IsHigherOrEqual(minimum) {
			out.Messages = append(out.Messages, m)
		}
	}
	for _, c := range n.Children {
		if fc := filterTree(c, minimum); fc != nil {
			out.Children = append(out.Children, fc)
		}
	}
	return out.Prune()
}
