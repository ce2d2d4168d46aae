package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/fromqtop/SSSQL/engine"
)

// Parquet stores each table as a <table>.parquet file under a directory.
// Parquet has no header row, so the first data row is physical position 1.
//
// The column schema is derived from the header plus the first non-blank
// cell seen per column: numbers as DOUBLE, booleans as BOOLEAN, everything
// else as optional UTF8. Dates are persisted as RFC 3339 strings and parsed
// back to time.Time on read. Column order follows the parquet schema, which
// orders group fields alphabetically. Mutations rewrite the whole file.
type Parquet struct {
	dir string
}

// NewParquet creates a parquet store rooted at dir.
func NewParquet(dir string) *Parquet {
	return &Parquet{dir: dir}
}

func (s *Parquet) path(table string) string {
	return filepath.Join(s.dir, table+".parquet")
}

// Read loads the table snapshot.
func (s *Parquet) Read(table string) (*engine.Table, error) {
	f, err := os.Open(s.path(table))
	if err != nil {
		return nil, fmt.Errorf("failed to open table %q: %w", table, err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat table %q: %w", table, err)
	}
	pqFile, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet table %q: %w", table, err)
	}

	fields := pqFile.Schema().Fields()
	columns := make([]string, len(fields))
	for i, field := range fields {
		columns[i] = field.Name()
	}

	reader := parquet.NewReader(pqFile)
	defer func() { _ = reader.Close() }()

	var rows [][]any
	for {
		rec := make(map[string]any)
		if err := reader.Read(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read table %q: %w", table, err)
		}
		row := make([]any, len(columns))
		for j, col := range columns {
			row[j] = decodeCell(rec[col])
		}
		rows = append(rows, row)
	}

	return &engine.Table{
		Columns:    columns,
		Rows:       rows,
		HeaderRows: 0,
	}, nil
}

// AppendRows appends data rows and rewrites the file.
func (s *Parquet) AppendRows(table string, rows [][]any) error {
	t, err := s.Read(table)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("table %q: row has %d cells, want %d", table, len(row), len(t.Columns))
		}
	}
	t.Rows = append(t.Rows, rows...)
	return s.write(table, t)
}

// OverwriteRow replaces the row at a physical position and rewrites the
// file.
func (s *Parquet) OverwriteRow(table string, pos int, cells []any) error {
	t, err := s.Read(table)
	if err != nil {
		return err
	}
	if pos < 1 || pos > len(t.Rows) {
		return fmt.Errorf("table %q: position %d out of range", table, pos)
	}
	if len(cells) != len(t.Columns) {
		return fmt.Errorf("table %q: row has %d cells, want %d", table, len(cells), len(t.Columns))
	}
	t.Rows[pos-1] = cells
	return s.write(table, t)
}

// DeleteRow removes the row at a physical position and rewrites the file.
func (s *Parquet) DeleteRow(table string, pos int) error {
	t, err := s.Read(table)
	if err != nil {
		return err
	}
	if pos < 1 || pos > len(t.Rows) {
		return fmt.Errorf("table %q: position %d out of range", table, pos)
	}
	t.Rows = append(t.Rows[:pos-1], t.Rows[pos:]...)
	return s.write(table, t)
}

// CreateTable writes a new table file with the given header and rows.
func (s *Parquet) CreateTable(table string, columns []string, rows [][]any) error {
	return s.write(table, &engine.Table{Columns: columns, Rows: rows})
}

func (s *Parquet) write(table string, t *engine.Table) error {
	schema := buildSchema(table, t)

	f, err := os.Create(s.path(table))
	if err != nil {
		return fmt.Errorf("failed to write table %q: %w", table, err)
	}
	defer func() { _ = f.Close() }()

	writer := parquet.NewGenericWriter[map[string]any](f, schema)
	for _, row := range t.Rows {
		rec := make(map[string]any, len(row))
		for j, col := range t.Columns {
			if row[j] == nil {
				continue
			}
			rec[col] = encodeCell(row[j])
		}
		if _, err := writer.Write([]map[string]any{rec}); err != nil {
			return fmt.Errorf("failed to write table %q: %w", table, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close table %q: %w", table, err)
	}
	return nil
}

// buildSchema derives a parquet schema from the header and the first
// non-blank cell per column. Columns with only blank cells fall back to
// optional strings.
func buildSchema(table string, t *engine.Table) *parquet.Schema {
	group := parquet.Group{}
	for j, col := range t.Columns {
		var node parquet.Node = parquet.String()
		for _, row := range t.Rows {
			switch row[j].(type) {
			case nil:
				continue
			case bool:
				node = parquet.Leaf(parquet.BooleanType)
			case string, time.Time:
				node = parquet.String()
			default:
				node = parquet.Leaf(parquet.DoubleType)
			}
			break
		}
		group[col] = parquet.Optional(node)
	}
	return parquet.NewSchema(table, group)
}

// encodeCell maps an engine cell to its parquet representation.
func encodeCell(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.Format(time.RFC3339)
	case string, bool:
		return val
	default:
		if f, ok := numericCell(v); ok {
			return f
		}
		return fmt.Sprint(v)
	}
}

// decodeCell maps a parquet value back to an engine cell.
func decodeCell(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if ts, err := time.Parse(time.RFC3339, val); err == nil {
			return ts
		}
		return val
	case []byte:
		return decodeCell(string(val))
	case bool:
		return val
	default:
		if f, ok := numericCell(v); ok {
			return f
		}
		return v
	}
}

func numericCell(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}
