package export

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/paydata/payplan/pkg/record"
)

// Preview renders up to limit records as a console table so a run's
// output can be inspected without opening the artifacts.
func Preview(w io.Writer, records []record.Record, limit int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{}
	for _, h := range Headers {
		header = append(header, h)
	}
	t.AppendHeader(header)

	for i, rec := range records {
		if i == limit {
			break
		}
		row := table.Row{}
		for _, cell := range Row(rec) {
			row = append(row, cell)
		}
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
