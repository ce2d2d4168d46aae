package engine

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Store is the backing-grid collaborator. Read supplies a fresh snapshot of
// the full table; the write methods address rows by their 1-based physical
// position in the store (header rows included).
//
// The engine assumes exclusive, single-caller access to the store for the
// duration of one operation. Read-modify-write is not atomic across calls.
type Store interface {
	Read(table string) (*Table, error)
	AppendRows(table string, rows [][]any) error
	OverwriteRow(table string, pos int, cells []any) error
	DeleteRow(table string, pos int) error
}

// Engine executes declarative queries and mutations against a Store. It
// holds no table state across calls: every operation reads the table fresh.
type Engine struct {
	store  Store
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger used for per-operation logging.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine over the given store. Without WithLogger all
// operation logging is discarded.
func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Select runs the full query pipeline over a table and returns the shaped
// result. A nil query selects everything; nil options default to records
// output without ROWNUM.
func (e *Engine) Select(table string, q *Query, opts *Options) (*Result, error) {
	start := time.Now()
	opID := uuid.NewString()

	var o Options
	if opts != nil {
		o = *opts
	}

	t, err := e.store.Read(table)
	if err != nil {
		return nil, err
	}

	res, err := runQuery(t, q, o)
	if err != nil {
		e.logOp("select", opID, table, start, len(t.Rows), 0, err)
		return nil, err
	}

	e.logOp("select", opID, table, start, len(t.Rows), len(res.Rows), nil)
	return res, nil
}

// Insert appends one record and returns it with nil filled in for every
// absent column.
func (e *Engine) Insert(table string, rec Record) (Record, error) {
	inserted, err := e.BulkInsert(table, []Record{rec})
	if err != nil {
		return nil, err
	}
	return inserted[0], nil
}

// BulkInsert appends records in order. Every record is validated against
// the header before the first write, so a bad record commits nothing.
func (e *Engine) BulkInsert(table string, recs []Record) ([]Record, error) {
	start := time.Now()
	opID := uuid.NewString()

	t, err := e.store.Read(table)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, len(recs))
	inserted := make([]Record, len(recs))
	for i, rec := range recs {
		if err := validateRecordKeys(rec, t.Columns); err != nil {
			e.logOp("bulkInsert", opID, table, start, len(recs), 0, err)
			return nil, err
		}
		rows[i] = recordToRow(rec, t.Columns)
		inserted[i] = zipRecords(t.Columns, rows[i:i+1])[0]
	}

	if err := e.store.AppendRows(table, rows); err != nil {
		e.logOp("bulkInsert", opID, table, start, len(recs), 0, err)
		return nil, err
	}

	e.logOp("bulkInsert", opID, table, start, len(recs), len(recs), nil)
	return inserted, nil
}

// Update locates target rows with the filter stage only (ROWNUM forced on),
// overlays the query's Set mapping on each, and writes the full rows back
// at their original physical positions. It returns one Before/After pair
// per matched row, in match order.
func (e *Engine) Update(table string, q *Query) ([]ChangedRecord, error) {
	start := time.Now()
	opID := uuid.NewString()

	if q == nil || len(q.Set) == 0 {
		return nil, fmt.Errorf("update requires a set mapping")
	}

	t, err := e.store.Read(table)
	if err != nil {
		return nil, err
	}
	if err := validateRecordKeys(q.Set, t.Columns); err != nil {
		e.logOp("update", opID, table, start, len(t.Rows), 0, err)
		return nil, err
	}

	targets, err := e.locateRows(t, q)
	if err != nil {
		e.logOp("update", opID, table, start, len(t.Rows), 0, err)
		return nil, err
	}

	positions := make([]int, len(targets.Records))
	cells := make([][]any, len(targets.Records))
	changes := make([]ChangedRecord, len(targets.Records))
	for i, rec := range targets.Records {
		pos, before, err := stripRowNum(rec)
		if err != nil {
			return nil, err
		}
		after := make(Record, len(before))
		for k, v := range before {
			after[k] = v
		}
		for k, v := range q.Set {
			after[k] = v
		}
		positions[i] = pos
		cells[i] = recordToRow(after, t.Columns)
		changes[i] = ChangedRecord{Before: before, After: after}
	}

	for i, pos := range positions {
		if err := e.store.OverwriteRow(table, pos, cells[i]); err != nil {
			e.logOp("update", opID, table, start, len(t.Rows), i, err)
			return nil, err
		}
	}

	e.logOp("update", opID, table, start, len(t.Rows), len(changes), nil)
	return changes, nil
}

// Remove deletes the rows matching the query's filter and returns the
// removed records in match order.
//
// Physical positions are deleted in strictly descending order so earlier
// deletions never shift the positions of the ones still pending.
func (e *Engine) Remove(table string, q *Query) ([]Record, error) {
	start := time.Now()
	opID := uuid.NewString()

	t, err := e.store.Read(table)
	if err != nil {
		return nil, err
	}

	targets, err := e.locateRows(t, q)
	if err != nil {
		e.logOp("remove", opID, table, start, len(t.Rows), 0, err)
		return nil, err
	}

	positions := make([]int, len(targets.Records))
	removed := make([]Record, len(targets.Records))
	for i, rec := range targets.Records {
		pos, record, err := stripRowNum(rec)
		if err != nil {
			return nil, err
		}
		positions[i] = pos
		removed[i] = record
	}

	sort.Sort(sort.Reverse(sort.IntSlice(positions)))
	for i, pos := range positions {
		if err := e.store.DeleteRow(table, pos); err != nil {
			e.logOp("remove", opID, table, start, len(t.Rows), i, err)
			return nil, err
		}
	}

	e.logOp("remove", opID, table, start, len(t.Rows), len(removed), nil)
	return removed, nil
}

// locateRows runs the filter-only pipeline with ROWNUM forced on, tying
// each matched record to its physical position. Grouping, ordering and
// projection never apply to mutations.
func (e *Engine) locateRows(t *Table, q *Query) (*Result, error) {
	filterOnly := &Query{}
	if q != nil {
		filterOnly.Where = q.Where
		filterOnly.WhereOr = q.WhereOr
	}
	return runQuery(t, filterOnly, Options{WithRowNum: true})
}

// validateRecordKeys rejects record keys outside the table header. ROWNUM
// is synthetic and never writable.
func validateRecordKeys(rec Record, columns []string) error {
	for key := range rec {
		if columnIndex(columns, key) < 0 {
			return &InvalidRecordKeyError{Key: key}
		}
	}
	return nil
}

// recordToRow converts a record to a positional cell row against the full
// column list; columns absent from the record become nil.
func recordToRow(rec Record, columns []string) []any {
	row := make([]any, len(columns))
	for i, col := range columns {
		row[i] = rec[col]
	}
	return row
}

func (e *Engine) logOp(op, opID, table string, start time.Time, rowsIn, rowsOut int, err error) {
	attrs := []any{
		"op_id", opID,
		"table", table,
		"rows_in", rowsIn,
		"rows_out", rowsOut,
		"duration", time.Since(start),
	}
	if err != nil {
		attrs = append(attrs, "error", err)
		e.logger.Error(op, attrs...)
		return
	}
	e.logger.Info(op, attrs...)
}
