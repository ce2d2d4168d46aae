package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/fromqtop/SSSQL/engine"
)

// TableFormatter outputs results as an aligned text table for terminals.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders the result as a bordered table, columns in result order.
func (t *TableFormatter) Format(res *engine.Result) error {
	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(res.Columns)
	table.SetAutoFormatHeaders(false)

	for _, row := range res.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = formatValue(cell)
		}
		table.Append(record)
	}

	table.Render()
	return nil
}
