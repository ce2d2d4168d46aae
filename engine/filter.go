package engine

import "strings"

// FilterMode selects how a condition set combines: MatchAll is AND (the
// where clause), MatchAny is OR (the whereOr clause).
type FilterMode int

const (
	MatchAll FilterMode = iota
	MatchAny
)

// conditionSuffixDelimiter separates a condition column name from its
// disambiguation index, e.g. "name#2".
const conditionSuffixDelimiter = "#"

// baseColumn strips the disambiguation suffix from a condition column name.
func baseColumn(name string) string {
	if i := strings.Index(name, conditionSuffixDelimiter); i >= 0 {
		return name[:i]
	}
	return name
}

// applyFilter returns the subset of rows matching the condition set,
// preserving original relative order. With no conditions it is a no-op.
// Column names are resolved after suffix stripping; an unresolvable name
// fails with UnknownColumnError before any row is evaluated.
func applyFilter(rows [][]any, columns []string, conds []Condition, mode FilterMode) ([][]any, error) {
	if len(conds) == 0 {
		return rows, nil
	}

	indexes := make([]int, len(conds))
	for i, cond := range conds {
		name := baseColumn(cond.Column)
		j := columnIndex(columns, name)
		if j < 0 {
			return nil, &UnknownColumnError{Column: name}
		}
		indexes[i] = j
	}

	filtered := make([][]any, 0, len(rows))
	for _, row := range rows {
		match, err := rowMatches(row, conds, indexes, mode)
		if err != nil {
			return nil, err
		}
		if match {
			filtered = append(filtered, row)
		}
	}

	return filtered, nil
}

// rowMatches evaluates every condition against one row: all must hold for
// MatchAll, at least one for MatchAny.
func rowMatches(row []any, conds []Condition, indexes []int, mode FilterMode) (bool, error) {
	for i, cond := range conds {
		ok, err := evalCondition(row[indexes[i]], cond.Operator, cond.Operand)
		if err != nil {
			return false, err
		}
		if mode == MatchAll && !ok {
			return false, nil
		}
		if mode == MatchAny && ok {
			return true, nil
		}
	}
	return mode == MatchAll, nil
}
