package engine

// Operator identifies a predicate operator in a filter condition.
type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "<>"
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpBetween      Operator = "BETWEEN"
	OpNotBetween   Operator = "NOT BETWEEN"
	OpIn           Operator = "IN"
	OpNotIn        Operator = "NOT IN"
	OpLike         Operator = "LIKE"
	OpNotLike      Operator = "NOT LIKE"
)

// AggregateFunc identifies an aggregate function in a GroupBy specification.
type AggregateFunc string

const (
	AggCount AggregateFunc = "COUNT"
	AggSum   AggregateFunc = "SUM"
	AggAvg   AggregateFunc = "AVG"
	AggMin   AggregateFunc = "MIN"
	AggMax   AggregateFunc = "MAX"
)

// Condition is one (column, operator, operand) filter predicate.
//
// Column may carry a disambiguation suffix ("#" followed by an index, e.g.
// "name#1") so that several independent conditions can target the same
// column. The suffix is stripped before the name is resolved against the
// table header and has no other meaning.
type Condition struct {
	Column   string
	Operator Operator
	Operand  any
}

// Aggregation declares one aggregate output column: Name is the output
// column name, Column the source column the function reduces over.
type Aggregation struct {
	Name   string
	Column string
	Func   AggregateFunc
}

// GroupBy declares grouping columns and the aggregate columns computed per
// group. Aggregation order defines the output column order after the
// grouping columns.
type GroupBy struct {
	Columns      []string
	Aggregations []Aggregation
}

// OrderByItem is one sort key. Items earlier in a Query.OrderBy slice take
// precedence; later items break ties.
type OrderByItem struct {
	Column string
	Desc   bool
}

// Record is a single row keyed by column name.
type Record map[string]any

// Query is a declarative query specification. All fields are optional and
// independent. Where and WhereOr are mutually exclusive: Where combines its
// conditions with AND, WhereOr with OR. Set is only meaningful for Update.
type Query struct {
	Columns []string
	Where   []Condition
	WhereOr []Condition
	GroupBy *GroupBy
	OrderBy []OrderByItem
	Set     Record
}

// Options controls the output shape of Select.
type Options struct {
	// WithRowNum prepends the synthetic ROWNUM column holding each row's
	// 1-based physical position in the backing store.
	WithRowNum bool
	// AsArray skips building Records, leaving only the raw
	// column-header-plus-rows matrix on the Result.
	AsArray bool
}

// Table is the in-memory snapshot of a backing store table: an ordered,
// unique column header and rows of cells aligned positionally to it.
// HeaderRows is the number of header rows preceding data in the backing
// store; it offsets physical row positions (a sheet with one header row has
// its first data row at position 2).
type Table struct {
	Columns    []string
	Rows       [][]any
	HeaderRows int
}

// Result is the output of Select. Columns and Rows always hold the raw
// matrix; Records holds one map per row unless Options.AsArray was set.
type Result struct {
	Columns []string
	Rows    [][]any
	Records []Record
}

// ChangedRecord is one Update result: Before is the full original record,
// After equals Before with only the Set keys overwritten.
type ChangedRecord struct {
	Before Record
	After  Record
}

// columnIndex resolves a column name against a header, returning -1 when
// the name is absent. Matching is exact and case-sensitive.
func columnIndex(columns []string, name string) int {
	for i, col := range columns {
		if col == name {
			return i
		}
	}
	return -1
}

// zipRecords converts a raw matrix into one record per row, preserving row
// order. Column order survives on the enclosing Result, not in the maps.
func zipRecords(columns []string, rows [][]any) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := make(Record, len(columns))
		for i, col := range columns {
			rec[col] = row[i]
		}
		records = append(records, rec)
	}
	return records
}
