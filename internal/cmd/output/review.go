package output

import (
	"fmt"
	"io"

	"github.com/agentstation/reclass/pkg/ledger"
	"github.com/agentstation/reclass/pkg/reconcile"
)

// isTable reports whether format renders through the table formatter.
func isTable(format Format) bool {
	return format == FormatTable || format == FormatWide || format == ""
}

// Write formats data to w. Table formats get tableData instead of data when
// it is set; otherwise the table is built from data's struct fields.
func Write(w io.Writer, format Format, data any, tableData func() Data) error {
	formatter := NewFormatter(format)
	if isTable(format) && tableData != nil {
		return formatter.Format(w, tableData())
	}
	return formatter.Format(w, data)
}

// ResultTable renders the record under review as a property table, or the
// all-complete notice.
func ResultTable(res reconcile.Result) Data {
	if res.AllComplete() || res.Record == nil {
		return Data{
			Headers: []string{"State"},
			Rows:    [][]string{{"All records are complete"}},
		}
	}
	return *Tabulate(res.Record)
}

// CascadeTable renders cascading choices side by side.
func CascadeTable(c reconcile.Cascade) Data {
	n := max(len(c.Names), len(c.Types), len(c.Categories))
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{at(c.Names, i), at(c.Types, i), at(c.Categories, i)}
	}
	return Data{
		Headers: []string{"Names", "Types", "Categories"},
		Rows:    rows,
	}
}

// LedgerTable renders ledger rows. The wide format shows every column.
func LedgerTable(rows []ledger.Response, wide bool) Data {
	if wide {
		return *Tabulate(rows)
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.ID, r.NewSpaceName, r.NewType, r.NewCategory, r.NewSpaceAliasName})
	}
	return Data{
		Headers: []string{"ID", "New Space Name", "New Type", "New Category", "New Alias"},
		Rows:    out,
	}
}

// ProgressTable renders review progress.
func ProgressTable(p reconcile.Progress) Data {
	return Data{
		Headers: []string{"Completed", "Skipped", "Total", "Percent"},
		Rows: [][]string{{
			fmt.Sprint(p.Completed),
			fmt.Sprint(p.Skipped),
			fmt.Sprint(p.Total),
			fmt.Sprintf("%.1f%%", p.Percent),
		}},
		ColumnAlignment: []Align{AlignRight, AlignRight, AlignRight, AlignRight},
	}
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
