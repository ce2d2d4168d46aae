package engine

import (
	"fmt"
	"strings"
	"time"
)

// group collects the rows sharing one grouping-key tuple.
type group struct {
	values []any
	rows   [][]any
}

// reducer folds the source-column cells of one group into a single value.
type reducer func(cells []any) any

// reducers is the fixed dispatch table of aggregate functions.
var reducers = map[AggregateFunc]reducer{
	AggCount: reduceCount,
	AggSum:   reduceSum,
	AggAvg:   reduceAvg,
	AggMin:   reduceMin,
	AggMax:   reduceMax,
}

// applyGroupBy partitions rows into groups keyed by the value tuple at the
// grouping columns and computes the declared aggregates per group.
//
// Groups appear in first-seen order. The output header is the grouping
// columns in order followed by the aggregation names in declaration order;
// each output row is the group's key values followed by its aggregates.
func applyGroupBy(rows [][]any, columns []string, gb *GroupBy) ([]string, [][]any, error) {
	keyIdx := make([]int, len(gb.Columns))
	for i, col := range gb.Columns {
		j := columnIndex(columns, col)
		if j < 0 {
			return nil, nil, &UnknownColumnError{Column: col}
		}
		keyIdx[i] = j
	}

	srcIdx := make([]int, len(gb.Aggregations))
	for i, agg := range gb.Aggregations {
		j := columnIndex(columns, agg.Column)
		if j < 0 {
			return nil, nil, &UnknownColumnError{Column: agg.Column}
		}
		if _, ok := reducers[agg.Func]; !ok {
			return nil, nil, fmt.Errorf("unsupported aggregate function %q", agg.Func)
		}
		srcIdx[i] = j
	}

	var order []string
	groups := make(map[string]*group)
	for _, row := range rows {
		key := groupKey(row, keyIdx)
		g, seen := groups[key]
		if !seen {
			values := make([]any, len(keyIdx))
			for i, j := range keyIdx {
				values[i] = row[j]
			}
			g = &group{values: values}
			groups[key] = g
			order = append(order, key)
		}
		g.rows = append(g.rows, row)
	}

	outColumns := make([]string, 0, len(gb.Columns)+len(gb.Aggregations))
	outColumns = append(outColumns, gb.Columns...)
	for _, agg := range gb.Aggregations {
		outColumns = append(outColumns, agg.Name)
	}

	outRows := make([][]any, 0, len(order))
	for _, key := range order {
		g := groups[key]
		row := make([]any, 0, len(outColumns))
		row = append(row, g.values...)
		for i, agg := range gb.Aggregations {
			cells := make([]any, len(g.rows))
			for r, groupRow := range g.rows {
				cells[r] = groupRow[srcIdx[i]]
			}
			row = append(row, reducers[agg.Func](cells))
		}
		outRows = append(outRows, row)
	}

	return outColumns, outRows, nil
}

// groupKey builds a collision-safe string key from the grouping-column
// values of one row. Equality is structural: equal value tuples produce
// equal keys regardless of cell identity.
func groupKey(row []any, keyIdx []int) string {
	var key strings.Builder
	for i, j := range keyIdx {
		if i > 0 {
			key.WriteString("\x00||\x00")
		}
		key.WriteString(groupKeyPart(row[j]))
	}
	return key.String()
}

// groupKeyPart renders one key cell. Dates key by instant so equal times in
// different locations land in the same group; %#v keeps the remaining types
// (and their Go type names) apart.
func groupKeyPart(v any) string {
	if t, ok := v.(time.Time); ok {
		return fmt.Sprintf("time\x00%d", t.UnixNano())
	}
	return fmt.Sprintf("%#v", v)
}

// reduceCount counts cells that are neither nil nor the empty string. An
// explicit empty string is excluded just like a missing value, matching how
// a sheet renders both as blank.
func reduceCount(cells []any) any {
	count := 0.0
	for _, c := range cells {
		if c == nil || c == "" {
			continue
		}
		count++
	}
	return count
}

// reduceSum sums the finite numeric cells; non-numeric cells are skipped,
// not an error. A group with no numeric cells sums to 0.
func reduceSum(cells []any) any {
	sum := 0.0
	for _, c := range cells {
		if f, ok := isFiniteNumber(c); ok {
			sum += f
		}
	}
	return sum
}

// reduceAvg is the arithmetic mean of the numeric cells, nil when the group
// has none (avoids a divide-by-zero NaN).
func reduceAvg(cells []any) any {
	sum := 0.0
	count := 0
	for _, c := range cells {
		if f, ok := isFiniteNumber(c); ok {
			sum += f
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return sum / float64(count)
}

// reduceMin is the minimum numeric cell, nil when the group has none: an
// empty numeric set has no defined minimum.
func reduceMin(cells []any) any {
	var min *float64
	for _, c := range cells {
		if f, ok := isFiniteNumber(c); ok {
			if min == nil || f < *min {
				v := f
				min = &v
			}
		}
	}
	if min == nil {
		return nil
	}
	return *min
}

// reduceMax is the maximum numeric cell, nil when the group has none.
func reduceMax(cells []any) any {
	var max *float64
	for _, c := range cells {
		if f, ok := isFiniteNumber(c); ok {
			if max == nil || f > *max {
				v := f
				max = &v
			}
		}
	}
	if max == nil {
		return nil
	}
	return *max
}
