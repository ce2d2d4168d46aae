package engine

import (
	"errors"
	"reflect"
	"testing"
)

func aggregateFixture() ([]string, [][]any) {
	columns := []string{"dept", "region", "salary", "note"}
	rows := [][]any{
		{"sales", "east", 100.0, "x"},
		{"engineering", "east", 200.0, ""},
		{"sales", "west", 300.0, "y"},
		{"sales", "east", nil, nil},
		{"engineering", "east", 400.0, "z"},
	}
	return columns, rows
}

func TestApplyGroupBy_FirstSeenOrder(t *testing.T) {
	columns, rows := aggregateFixture()

	gb := &GroupBy{
		Columns: []string{"dept"},
		Aggregations: []Aggregation{
			{Name: "headcount", Column: "dept", Func: AggCount},
		},
	}

	outCols, outRows, err := applyGroupBy(rows, columns, gb)
	if err != nil {
		t.Fatalf("applyGroupBy() error = %v", err)
	}

	if want := []string{"dept", "headcount"}; !reflect.DeepEqual(outCols, want) {
		t.Fatalf("output columns = %v, want %v", outCols, want)
	}
	if len(outRows) != 2 {
		t.Fatalf("got %d groups, want 2", len(outRows))
	}
	// Groups appear in first-seen order: sales before engineering.
	if outRows[0][0] != "sales" || outRows[1][0] != "engineering" {
		t.Errorf("group order = [%v, %v], want [sales, engineering]", outRows[0][0], outRows[1][0])
	}
}

func TestApplyGroupBy_MultiKeyTuples(t *testing.T) {
	columns, rows := aggregateFixture()

	gb := &GroupBy{
		Columns: []string{"dept", "region"},
		Aggregations: []Aggregation{
			{Name: "total", Column: "salary", Func: AggSum},
		},
	}

	outCols, outRows, err := applyGroupBy(rows, columns, gb)
	if err != nil {
		t.Fatalf("applyGroupBy() error = %v", err)
	}

	if want := []string{"dept", "region", "total"}; !reflect.DeepEqual(outCols, want) {
		t.Fatalf("output columns = %v, want %v", outCols, want)
	}

	want := [][]any{
		{"sales", "east", 100.0},
		{"engineering", "east", 600.0},
		{"sales", "west", 300.0},
	}
	if !reflect.DeepEqual(outRows, want) {
		t.Errorf("grouped rows = %v, want %v", outRows, want)
	}
}

func TestApplyGroupBy_AggregationColumnOrder(t *testing.T) {
	columns, rows := aggregateFixture()

	gb := &GroupBy{
		Columns: []string{"dept"},
		Aggregations: []Aggregation{
			{Name: "max_salary", Column: "salary", Func: AggMax},
			{Name: "min_salary", Column: "salary", Func: AggMin},
			{Name: "avg_salary", Column: "salary", Func: AggAvg},
		},
	}

	outCols, outRows, err := applyGroupBy(rows, columns, gb)
	if err != nil {
		t.Fatalf("applyGroupBy() error = %v", err)
	}

	if want := []string{"dept", "max_salary", "min_salary", "avg_salary"}; !reflect.DeepEqual(outCols, want) {
		t.Fatalf("output columns = %v, want %v (declaration order)", outCols, want)
	}

	// sales: salaries 100, 300 and one blank.
	sales := outRows[0]
	if sales[1] != 300.0 || sales[2] != 100.0 || sales[3] != 200.0 {
		t.Errorf("sales aggregates = %v, want [300 100 200]", sales[1:])
	}
}

func TestReducers_EdgeCases(t *testing.T) {
	numeric := []any{10.0, "n/a", 20.0, nil}
	blankOnly := []any{"", nil, "text"}

	tests := []struct {
		name  string
		fn    AggregateFunc
		cells []any
		want  any
	}{
		{"count skips empty string and nil", AggCount, []any{"a", "", nil, 0.0, false}, 3.0},
		{"count of all blank", AggCount, []any{"", nil}, 0.0},
		{"sum skips non-numeric", AggSum, numeric, 30.0},
		{"sum of no numerics is zero", AggSum, blankOnly, 0.0},
		{"avg over numerics only", AggAvg, numeric, 15.0},
		{"avg of no numerics is nil", AggAvg, blankOnly, nil},
		{"min", AggMin, numeric, 10.0},
		{"min of no numerics is nil", AggMin, blankOnly, nil},
		{"max", AggMax, numeric, 20.0},
		{"max of no numerics is nil", AggMax, blankOnly, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reducers[tt.fn](tt.cells)
			if got != tt.want {
				t.Errorf("%s(%v) = %v, want %v", tt.fn, tt.cells, got, tt.want)
			}
		})
	}
}

func TestApplyGroupBy_UnknownColumns(t *testing.T) {
	columns, rows := aggregateFixture()

	_, _, err := applyGroupBy(rows, columns, &GroupBy{Columns: []string{"missing"}})
	var unknown *UnknownColumnError
	if !errors.As(err, &unknown) || unknown.Column != "missing" {
		t.Fatalf("expected UnknownColumnError for %q, got %v", "missing", err)
	}

	_, _, err = applyGroupBy(rows, columns, &GroupBy{
		Columns:      []string{"dept"},
		Aggregations: []Aggregation{{Name: "x", Column: "missing", Func: AggSum}},
	})
	if !errors.As(err, &unknown) || unknown.Column != "missing" {
		t.Fatalf("expected UnknownColumnError for aggregation source, got %v", err)
	}
}

func TestApplyGroupBy_UnsupportedFunction(t *testing.T) {
	columns, rows := aggregateFixture()

	_, _, err := applyGroupBy(rows, columns, &GroupBy{
		Columns:      []string{"dept"},
		Aggregations: []Aggregation{{Name: "x", Column: "salary", Func: AggregateFunc("MEDIAN")}},
	})
	if err == nil {
		t.Fatal("expected error for unsupported aggregate function")
	}
}
