package reporting

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteHighlightsTable renders the highlights of a run as a table
func WriteHighlightsTable(w io.Writer, title string, results []HighlightResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Highlight", "Source", "Kind", "Value", "At", "Samples"})
	for _, r := range results {
		t.AppendRow(table.Row{r.Name, r.Source, string(r.Kind), formatValue(r), formatInstant(r), r.Samples})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 12, Align: text.AlignLeft},
		{Number: 2, WidthMin: 16, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
}

func formatValue(r HighlightResult) string {
	if !r.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", r.Value)
}

func formatInstant(r HighlightResult) string {
	if !r.Valid || r.Instant.IsZero() {
		return ""
	}
	return r.Instant.Format("2006-01-02")
}
