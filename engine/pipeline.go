package engine

// runQuery drives the stages over one table snapshot in their fixed order:
// row-number tagging, filter, group/aggregate, order, project, shaping.
// The order is load-bearing: grouping must see filtered rows, ordering must
// see aggregate output so it can sort on aggregate columns, and projection
// runs last so it can select them.
func runQuery(t *Table, q *Query, opts Options) (*Result, error) {
	columns := t.Columns
	rows := t.Rows

	if opts.WithRowNum {
		columns, rows = tagRowNums(t)
	}

	if q != nil {
		if len(q.Where) > 0 && len(q.WhereOr) > 0 {
			return nil, ErrConflictingFilter
		}

		var err error
		if len(q.Where) > 0 {
			rows, err = applyFilter(rows, columns, q.Where, MatchAll)
		} else if len(q.WhereOr) > 0 {
			rows, err = applyFilter(rows, columns, q.WhereOr, MatchAny)
		}
		if err != nil {
			return nil, err
		}

		if q.GroupBy != nil {
			columns, rows, err = applyGroupBy(rows, columns, q.GroupBy)
			if err != nil {
				return nil, err
			}
		}

		rows, err = applyOrderBy(rows, columns, q.OrderBy)
		if err != nil {
			return nil, err
		}

		columns, rows, err = applyProjection(rows, columns, q.Columns)
		if err != nil {
			return nil, err
		}
	}

	res := &Result{Columns: columns, Rows: rows}
	if !opts.AsArray {
		res.Records = zipRecords(columns, rows)
	}
	return res, nil
}
