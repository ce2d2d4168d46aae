// Package engine implements an in-memory query engine over sheet-like
// tables: an ordered column header plus rows of typed scalar cells.
//
// Queries are declarative object literals, never a string grammar. A query
// can filter rows with AND/OR condition sets, group and aggregate, sort on
// multiple keys, and project a column subset. The pipeline always runs its
// stages in a fixed order:
//
//	row-number tagging -> filter -> group/aggregate -> order -> project -> shaping
//
// Grouping therefore sees already-filtered rows, ordering can reference
// aggregate output columns, and projection can select them.
//
// Example usage:
//
//	st := store.NewMemory()
//	st.AddTable("people", []string{"name", "age"}, [][]any{
//	    {"Ann", 30.0},
//	    {"Bob", 25.0},
//	})
//
//	eng := engine.New(st)
//	res, err := eng.Select("people", &engine.Query{
//	    Where:   []engine.Condition{{Column: "age", Operator: engine.OpGreater, Operand: 26.0}},
//	    OrderBy: []engine.OrderByItem{{Column: "name"}},
//	}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Mutating operations (Insert, BulkInsert, Update, Remove) locate target
// rows with the filter stage only, track their physical positions through a
// synthetic ROWNUM column, and write back through the Store collaborator.
// Deletions are applied in strictly descending position order so earlier
// deletes never shift the positions of later ones.
//
// # Cell values
//
// A cell is one of string, float64, bool, time.Time, or nil. Numeric cells
// of any Go integer or float type are accepted and compared as float64.
// No cell is itself a structured container.
//
// # Supported operators
//
// WHERE condition operators:
//   - Comparison: =, <>, <, >, <=, >=
//   - Range: BETWEEN, NOT BETWEEN (inclusive [low, high] pair)
//   - Membership: IN, NOT IN
//   - Wildcard: LIKE, NOT LIKE (% = any sequence, _ = one character,
//     anchored start to end)
//
// # Error handling
//
// The package fails fast with typed errors: UnknownColumnError for column
// names missing from the header, InvalidOperatorError for unsupported
// operator tokens, ErrConflictingFilter when a query sets both Where and
// WhereOr, and InvalidRecordKeyError for record keys outside the header.
// Mutations validate every target before the first write, so a failed
// operation commits nothing.
package engine
