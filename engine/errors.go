package engine

import (
	"errors"
	"fmt"
)

// ErrConflictingFilter is returned when a query sets both Where and WhereOr.
// The two condition sets are mutually exclusive; neither silently wins.
var ErrConflictingFilter = errors.New("where and whereOr are mutually exclusive")

// UnknownColumnError reports a column name referenced by a query clause
// (columns, where, whereOr, groupBy, orderBy) that is not in the table
// header.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Column)
}

// InvalidOperatorError reports an operator token outside the supported set.
type InvalidOperatorError struct {
	Operator string
}

func (e *InvalidOperatorError) Error() string {
	return fmt.Sprintf("invalid operator %q", e.Operator)
}

// InvalidRecordKeyError reports a record key absent from the table header,
// in an insert record or an update set mapping.
type InvalidRecordKeyError struct {
	Key string
}

func (e *InvalidRecordKeyError) Error() string {
	return fmt.Sprintf("record key %q is not a table column", e.Key)
}
