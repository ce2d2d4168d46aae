package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fromqtop/SSSQL/engine"
)

// CSV stores each table as a <table>.csv file under a directory, with the
// header on the first line. Cells are parsed on read the way a sheet would
// coerce typed text: numbers, booleans, RFC 3339 or YYYY-MM-DD dates, and
// the empty string as a blank (nil) cell. Mutations rewrite the whole file.
type CSV struct {
	dir string
}

// NewCSV creates a CSV store rooted at dir.
func NewCSV(dir string) *CSV {
	return &CSV{dir: dir}
}

func (s *CSV) path(table string) string {
	return filepath.Join(s.dir, table+".csv")
}

// Read loads the table snapshot.
func (s *CSV) Read(table string) (*engine.Table, error) {
	records, err := s.readRaw(table)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, len(records)-1)
	for i, record := range records[1:] {
		row := make([]any, len(record))
		for j, field := range record {
			row[j] = parseCell(field)
		}
		rows[i] = row
	}

	return &engine.Table{
		Columns:    records[0],
		Rows:       rows,
		HeaderRows: 1,
	}, nil
}

// AppendRows appends data rows at the end of the file.
func (s *CSV) AppendRows(table string, rows [][]any) error {
	records, err := s.readRaw(table)
	if err != nil {
		return err
	}
	width := len(records[0])
	for _, row := range rows {
		if len(row) != width {
			return fmt.Errorf("table %q: row has %d cells, want %d", table, len(row), width)
		}
		records = append(records, formatRow(row))
	}
	return s.writeRaw(table, records)
}

// OverwriteRow replaces the row at a physical position (line number).
func (s *CSV) OverwriteRow(table string, pos int, cells []any) error {
	records, err := s.readRaw(table)
	if err != nil {
		return err
	}
	if err := checkPos(table, pos, len(records)); err != nil {
		return err
	}
	if len(cells) != len(records[0]) {
		return fmt.Errorf("table %q: row has %d cells, want %d", table, len(cells), len(records[0]))
	}
	records[pos-1] = formatRow(cells)
	return s.writeRaw(table, records)
}

// DeleteRow removes the row at a physical position (line number).
func (s *CSV) DeleteRow(table string, pos int) error {
	records, err := s.readRaw(table)
	if err != nil {
		return err
	}
	if err := checkPos(table, pos, len(records)); err != nil {
		return err
	}
	records = append(records[:pos-1], records[pos:]...)
	return s.writeRaw(table, records)
}

func (s *CSV) readRaw(table string) ([][]string, error) {
	f, err := os.Open(s.path(table))
	if err != nil {
		return nil, fmt.Errorf("failed to open table %q: %w", table, err)
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read table %q: %w", table, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("table %q has no header row", table)
	}
	return records, nil
}

func (s *CSV) writeRaw(table string, records [][]string) error {
	f, err := os.Create(s.path(table))
	if err != nil {
		return fmt.Errorf("failed to write table %q: %w", table, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write table %q: %w", table, err)
	}
	return nil
}

func checkPos(table string, pos, lines int) error {
	if pos < 2 || pos > lines {
		return fmt.Errorf("table %q: position %d out of range", table, pos)
	}
	return nil
}

// parseCell coerces a CSV field into a typed cell value.
func parseCell(field string) any {
	if field == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(field, 64); err == nil {
		return f
	}
	switch field {
	case "true":
		return true
	case "false":
		return false
	}
	if t, err := time.Parse(time.RFC3339, field); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", field); err == nil {
		return t
	}
	return field
}

// formatRow renders cells back to CSV fields; formatCell is the inverse of
// parseCell for the cell types the engine produces.
func formatRow(cells []any) []string {
	record := make([]string, len(cells))
	for i, c := range cells {
		record[i] = formatCell(c)
	}
	return record
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprint(val)
	}
}
