package engine

import "fmt"

// RowNumColumn is the synthetic column holding a row's 1-based physical
// position in the backing store. It exists only transiently inside a single
// operation, correlating filtered results with physical rows for mutation.
const RowNumColumn = "ROWNUM"

// tagRowNums prepends the ROWNUM column. Data row i sits at physical
// position HeaderRows + i + 1, so with one header row the first data row is
// position 2, matching sheet addressing.
func tagRowNums(t *Table) ([]string, [][]any) {
	columns := make([]string, 0, len(t.Columns)+1)
	columns = append(columns, RowNumColumn)
	columns = append(columns, t.Columns...)

	rows := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		tagged := make([]any, 0, len(row)+1)
		tagged = append(tagged, t.HeaderRows+i+1)
		tagged = append(tagged, row...)
		rows[i] = tagged
	}

	return columns, rows
}

// stripRowNum removes the ROWNUM field from a record, returning the
// physical position and a copy without it.
func stripRowNum(rec Record) (int, Record, error) {
	v, ok := rec[RowNumColumn]
	if !ok {
		return 0, nil, fmt.Errorf("record has no %s field", RowNumColumn)
	}
	pos, ok := v.(int)
	if !ok {
		return 0, nil, fmt.Errorf("%s holds %T, want int", RowNumColumn, v)
	}

	out := make(Record, len(rec)-1)
	for k, val := range rec {
		if k == RowNumColumn {
			continue
		}
		out[k] = val
	}
	return pos, out, nil
}
