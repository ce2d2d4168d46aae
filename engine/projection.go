package engine

// applyProjection restricts and reorders rows to the target columns. An
// empty target list is a no-op; an unresolvable name fails with
// UnknownColumnError naming it.
func applyProjection(rows [][]any, columns []string, target []string) ([]string, [][]any, error) {
	if len(target) == 0 {
		return columns, rows, nil
	}

	indexes := make([]int, len(target))
	for i, col := range target {
		j := columnIndex(columns, col)
		if j < 0 {
			return nil, nil, &UnknownColumnError{Column: col}
		}
		indexes[i] = j
	}

	projected := make([][]any, len(rows))
	for r, row := range rows {
		out := make([]any, len(indexes))
		for i, j := range indexes {
			out[i] = row[j]
		}
		projected[r] = out
	}

	return target, projected, nil
}
