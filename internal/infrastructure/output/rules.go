package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/reglet-dev/recast/internal/application/dto"
)

// RuleFormats are the formats FormatRules accepts.
var RuleFormats = []string{"table", "markdown", "json", "yaml"}

// FormatRules writes a rule listing.
func FormatRules(w io.Writer, format string, rules []dto.RuleInfo) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rules)
	case "yaml":
		data, err := yaml.Marshal(rules)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "table", "markdown":
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.Style().Format.Footer = text.FormatDefault
		t.AppendHeader(table.Row{"Rule", "Node", "Target", "Since", "Supported", "Description"})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 5, Align: text.AlignCenter},
			{Number: 6, WidthMax: 70},
		})
		for _, r := range rules {
			supported := "yes"
			if !r.Supported {
				supported = "no"
			}
			t.AppendRow(table.Row{r.Name, r.Node, r.Target, r.MinVersion, supported, r.Description})
		}
		t.AppendFooter(table.Row{fmt.Sprintf("%d rules", len(rules))})

		out := t.Render()
		if format == "markdown" {
			out = t.RenderMarkdown()
		}
		_, err := fmt.Fprintln(w, out)
		return err
	default:
		return fmt.Errorf("unknown format: %s (supported: %v)", format, RuleFormats)
	}
}
