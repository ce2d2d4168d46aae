package store

import (
	"fmt"

	"github.com/fromqtop/SSSQL/engine"
)

// Memory is an in-memory grid keyed by table name, behaving like a
// spreadsheet with one header row per sheet. It is not safe for concurrent
// use; the engine assumes exclusive access per operation.
type Memory struct {
	tables map[string]*memTable
}

type memTable struct {
	columns []string
	rows    [][]any
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string]*memTable)}
}

// AddTable creates or replaces a table. Rows are copied, not aliased.
func (m *Memory) AddTable(name string, columns []string, rows [][]any) {
	t := &memTable{columns: append([]string(nil), columns...)}
	t.rows = copyRows(rows)
	m.tables[name] = t
}

// Read returns a snapshot of the table; later mutations do not alias it.
func (m *Memory) Read(table string) (*engine.Table, error) {
	t, err := m.lookup(table)
	if err != nil {
		return nil, err
	}
	return &engine.Table{
		Columns:    append([]string(nil), t.columns...),
		Rows:       copyRows(t.rows),
		HeaderRows: 1,
	}, nil
}

// AppendRows appends data rows. Every row must match the header width.
func (m *Memory) AppendRows(table string, rows [][]any) error {
	t, err := m.lookup(table)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if len(row) != len(t.columns) {
			return fmt.Errorf("table %q: row has %d cells, want %d", table, len(row), len(t.columns))
		}
	}
	t.rows = append(t.rows, copyRows(rows)...)
	return nil
}

// OverwriteRow replaces the row at a physical position.
func (m *Memory) OverwriteRow(table string, pos int, cells []any) error {
	t, err := m.lookup(table)
	if err != nil {
		return err
	}
	i, err := t.dataIndex(table, pos)
	if err != nil {
		return err
	}
	if len(cells) != len(t.columns) {
		return fmt.Errorf("table %q: row has %d cells, want %d", table, len(cells), len(t.columns))
	}
	t.rows[i] = append([]any(nil), cells...)
	return nil
}

// DeleteRow removes the row at a physical position, shifting later rows up.
func (m *Memory) DeleteRow(table string, pos int) error {
	t, err := m.lookup(table)
	if err != nil {
		return err
	}
	i, err := t.dataIndex(table, pos)
	if err != nil {
		return err
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return nil
}

func (m *Memory) lookup(table string) (*memTable, error) {
	t, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	return t, nil
}

// dataIndex converts a physical position (header row is position 1) to an
// index into the data rows.
func (t *memTable) dataIndex(table string, pos int) (int, error) {
	i := pos - 2
	if i < 0 || i >= len(t.rows) {
		return 0, fmt.Errorf("table %q: position %d out of range", table, pos)
	}
	return i, nil
}

func copyRows(rows [][]any) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		out[i] = append([]any(nil), row...)
	}
	return out
}
