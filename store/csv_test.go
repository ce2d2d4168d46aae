package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeCSVFixture(t *testing.T) *CSV {
	t.Helper()
	dir := t.TempDir()
	contents := "name,age,active,joined\n" +
		"alice,30,true,2024-06-01\n" +
		"bob,25,false,2023-01-15\n" +
		"carol,,true,\n"
	if err := os.WriteFile(filepath.Join(dir, "people.csv"), []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return NewCSV(dir)
}

func TestCSV_ReadCoercesCells(t *testing.T) {
	s := writeCSVFixture(t)

	tbl, err := s.Read("people")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if want := []string{"name", "age", "active", "joined"}; !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("Columns = %v, want %v", tbl.Columns, want)
	}
	if tbl.HeaderRows != 1 {
		t.Errorf("HeaderRows = %d, want 1", tbl.HeaderRows)
	}

	alice := tbl.Rows[0]
	if alice[0] != "alice" {
		t.Errorf("name = %v (%T), want string alice", alice[0], alice[0])
	}
	if alice[1] != 30.0 {
		t.Errorf("age = %v (%T), want float64 30", alice[1], alice[1])
	}
	if alice[2] != true {
		t.Errorf("active = %v (%T), want bool true", alice[2], alice[2])
	}
	if ts, ok := alice[3].(time.Time); !ok || ts.Year() != 2024 {
		t.Errorf("joined = %v (%T), want time.Time in 2024", alice[3], alice[3])
	}

	carol := tbl.Rows[2]
	if carol[1] != nil || carol[3] != nil {
		t.Errorf("blank cells = %v, %v, want nil, nil", carol[1], carol[3])
	}
}

func TestCSV_AppendRows(t *testing.T) {
	s := writeCSVFixture(t)

	err := s.AppendRows("people", [][]any{
		{"dave", 41.0, false, nil},
	})
	if err != nil {
		t.Fatalf("AppendRows() error = %v", err)
	}

	tbl, err := s.Read("people")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(tbl.Rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(tbl.Rows))
	}
	if tbl.Rows[3][0] != "dave" || tbl.Rows[3][1] != 41.0 {
		t.Errorf("appended row = %v", tbl.Rows[3])
	}

	if err := s.AppendRows("people", [][]any{{"too", "narrow"}}); err == nil {
		t.Fatal("expected error for wrong row width")
	}
}

func TestCSV_PositionalWrites(t *testing.T) {
	s := writeCSVFixture(t)

	// bob is on file line 3.
	if err := s.OverwriteRow("people", 3, []any{"bobby", 26.0, false, nil}); err != nil {
		t.Fatalf("OverwriteRow() error = %v", err)
	}
	tbl, err := s.Read("people")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if tbl.Rows[1][0] != "bobby" || tbl.Rows[1][1] != 26.0 {
		t.Errorf("row at position 3 = %v", tbl.Rows[1])
	}

	if err := s.DeleteRow("people", 2); err != nil {
		t.Fatalf("DeleteRow() error = %v", err)
	}
	tbl, err = s.Read("people")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[0][0] != "bobby" {
		t.Errorf("rows after delete = %v", tbl.Rows)
	}

	if err := s.DeleteRow("people", 1); err == nil {
		t.Fatal("expected error when deleting the header line")
	}
	if err := s.OverwriteRow("people", 99, nil); err == nil {
		t.Fatal("expected error for out-of-range position")
	}
}

func TestCSV_ReadMissingFile(t *testing.T) {
	s := NewCSV(t.TempDir())
	if _, err := s.Read("absent"); err == nil {
		t.Fatal("expected error for missing table file")
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		field string
		want  any
	}{
		{"", nil},
		{"30", 30.0},
		{"-2.5", -2.5},
		{"true", true},
		{"false", false},
		{"hello", "hello"},
		{"2024-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got := parseCell(tt.field)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseCell(%q) = %v (%T), want %v", tt.field, got, got, tt.want)
		}
	}
}

func TestFormatCellRoundTrip(t *testing.T) {
	cells := []any{nil, 30.0, -2.5, true, false, "hello",
		time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	for _, cell := range cells {
		got := parseCell(formatCell(cell))
		if !reflect.DeepEqual(got, cell) {
			t.Errorf("parseCell(formatCell(%v)) = %v (%T)", cell, got, got)
		}
	}
}
