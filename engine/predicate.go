package engine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// evalCondition evaluates one predicate against a single cell value.
//
// Equality is strict per type; dates compare by underlying instant. Ordered
// comparison between incompatible types (or against nil) evaluates to false
// rather than erroring, since sheet data routinely mixes blank cells into
// typed columns. Unknown operator tokens are a hard error.
func evalCondition(cell any, op Operator, operand any) (bool, error) {
	switch op {
	case OpEqual:
		return equalValues(cell, operand), nil

	case OpNotEqual:
		return !equalValues(cell, operand), nil

	case OpGreater, OpGreaterEqual, OpLess, OpLessEqual:
		cmp, ok := compareOrdered(cell, operand)
		if !ok {
			return false, nil
		}
		switch op {
		case OpGreater:
			return cmp > 0, nil
		case OpGreaterEqual:
			return cmp >= 0, nil
		case OpLess:
			return cmp < 0, nil
		default:
			return cmp <= 0, nil
		}

	case OpBetween, OpNotBetween:
		low, high, err := betweenBounds(operand)
		if err != nil {
			return false, err
		}
		in := false
		if lo, ok := compareOrdered(cell, low); ok && lo >= 0 {
			if hi, ok := compareOrdered(cell, high); ok && hi <= 0 {
				in = true
			}
		}
		if op == OpNotBetween {
			return !in, nil
		}
		return in, nil

	case OpIn, OpNotIn:
		list, err := operandList(operand)
		if err != nil {
			return false, err
		}
		in := false
		for _, v := range list {
			if equalValues(cell, v) {
				in = true
				break
			}
		}
		if op == OpNotIn {
			return !in, nil
		}
		return in, nil

	case OpLike, OpNotLike:
		pattern, ok := operand.(string)
		if !ok {
			return false, fmt.Errorf("LIKE operand must be a string, got %T", operand)
		}
		re, err := wildcardRegexp(pattern)
		if err != nil {
			return false, err
		}
		match := re.MatchString(cellString(cell))
		if op == OpNotLike {
			return !match, nil
		}
		return match, nil

	default:
		return false, &InvalidOperatorError{Operator: string(op)}
	}
}

// equalValues implements the engine's equality rule, shared by =, <>, IN
// and NOT IN. Dates compare by instant; a non-date cell against a date
// operand is never equal. Numeric values compare across Go numeric types.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if bt, ok := b.(time.Time); ok {
		at, ok := a.(time.Time)
		return ok && at.Equal(bt)
	}
	if _, ok := a.(time.Time); ok {
		return false
	}
	if af, ok := toFloat64(a); ok {
		bf, ok := toFloat64(b)
		return ok && af == bf
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && as == bs
	}
	if ab, ok := a.(bool); ok {
		bb, ok := b.(bool)
		return ok && ab == bb
	}
	return false
}

// compareOrdered compares two cells using the native ordering of their
// shared type. The second result is false when the values have no shared
// ordering (nil, booleans, mixed types).
func compareOrdered(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return at.Compare(bt), true
	}
	if af, ok := toFloat64(a); ok {
		bf, ok := toFloat64(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(as, bs), true
	}
	return 0, false
}

// toFloat64 converts a value to float64 if it is any Go numeric type.
func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}

// isFiniteNumber reports whether v is a number usable in arithmetic
// aggregates (not NaN, not an infinity).
func isFiniteNumber(v any) (float64, bool) {
	f, ok := toFloat64(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// betweenBounds unpacks a BETWEEN operand into its inclusive bounds.
func betweenBounds(operand any) (low, high any, err error) {
	switch v := operand.(type) {
	case []any:
		if len(v) == 2 {
			return v[0], v[1], nil
		}
	case [2]any:
		return v[0], v[1], nil
	}
	return nil, nil, fmt.Errorf("BETWEEN operand must be a [low, high] pair, got %T", operand)
}

// operandList unpacks an IN operand into its member list.
func operandList(operand any) ([]any, error) {
	if list, ok := operand.([]any); ok {
		return list, nil
	}
	return nil, fmt.Errorf("IN operand must be a list, got %T", operand)
}

// wildcardRegexp translates a LIKE pattern into a fully anchored regexp.
// All regexp metacharacters in the pattern are escaped first, so literal
// "." or "*" in data match literally; then % becomes "any sequence" and _
// becomes "any single character".
func wildcardRegexp(pattern string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, "%", ".*")
	quoted = strings.ReplaceAll(quoted, "_", ".")
	return regexp.Compile("^" + quoted + "$")
}

// cellString renders a cell the way a sheet displays it, for LIKE matching.
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
