package engine

import "sort"

// applyOrderBy sorts rows by the given keys, earlier items taking
// precedence and later items breaking ties. The sort is stable: rows equal
// on every key keep their original relative order.
func applyOrderBy(rows [][]any, columns []string, orderBy []OrderByItem) ([][]any, error) {
	if len(orderBy) == 0 {
		return rows, nil
	}

	indexes := make([]int, len(orderBy))
	for i, item := range orderBy {
		j := columnIndex(columns, item.Column)
		if j < 0 {
			return nil, &UnknownColumnError{Column: item.Column}
		}
		indexes[i] = j
	}

	sorted := make([][]any, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		for k, item := range orderBy {
			cmp := compareCells(sorted[i][indexes[k]], sorted[j][indexes[k]])
			if cmp == 0 {
				continue
			}
			if item.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})

	return sorted, nil
}

// compareCells is the sort ordering over mixed-typed cells: nil sorts
// before everything, then the native ordering of the shared type. Booleans
// order false before true. Cells with no shared ordering compare equal so
// the stable sort leaves them in place.
func compareCells(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if cmp, ok := compareOrdered(a, b); ok {
		return cmp
	}

	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ab == bb:
				return 0
			case bb:
				return -1
			default:
				return 1
			}
		}
	}

	return 0
}
