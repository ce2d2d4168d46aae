package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// The JSON form of a query mirrors the literal object shape:
//
//	{
//	  "columns": ["name", "age"],
//	  "where":   {"age": [">", 20], "name#1": ["LIKE", "A%"], "name#2": ["<>", "Ann"]},
//	  "groupBy": {"columns": ["dept"], "aggregations": {"total": ["salary", "SUM"]}},
//	  "orderBy": {"age": "ASC", "name": "DESC"},
//	  "set":     {"age": 31}
//	}
//
// where/whereOr map a column key (optionally suffixed "#<index>" to allow
// several conditions on one column) to an [operator, operand] pair. Key
// order is preserved where it is significant: orderBy precedence and
// aggregation output order follow declaration order, which is why these
// objects are decoded at the token level instead of into Go maps.

type queryJSON struct {
	Columns []string        `json:"columns"`
	Where   json.RawMessage `json:"where"`
	WhereOr json.RawMessage `json:"whereOr"`
	GroupBy *struct {
		Columns      []string        `json:"columns"`
		Aggregations json.RawMessage `json:"aggregations"`
	} `json:"groupBy"`
	OrderBy json.RawMessage `json:"orderBy"`
	Set     Record          `json:"set"`
}

// UnmarshalJSON decodes the literal query shape described above.
func (q *Query) UnmarshalJSON(data []byte) error {
	var raw queryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	where, err := decodeConditions(raw.Where)
	if err != nil {
		return fmt.Errorf("where: %w", err)
	}
	whereOr, err := decodeConditions(raw.WhereOr)
	if err != nil {
		return fmt.Errorf("whereOr: %w", err)
	}
	orderBy, err := decodeOrderBy(raw.OrderBy)
	if err != nil {
		return fmt.Errorf("orderBy: %w", err)
	}

	var groupBy *GroupBy
	if raw.GroupBy != nil {
		aggs, err := decodeAggregations(raw.GroupBy.Aggregations)
		if err != nil {
			return fmt.Errorf("groupBy: %w", err)
		}
		groupBy = &GroupBy{Columns: raw.GroupBy.Columns, Aggregations: aggs}
	}

	*q = Query{
		Columns: raw.Columns,
		Where:   where,
		WhereOr: whereOr,
		GroupBy: groupBy,
		OrderBy: orderBy,
		Set:     raw.Set,
	}
	return nil
}

// decodeOrderedObject walks a JSON object's entries in declaration order,
// calling fn once per key with the decoder positioned at the value. A JSON
// null or absent raw message yields no calls.
func decodeOrderedObject(data json.RawMessage, fn func(key string, dec *json.Decoder) error) error {
	if len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", keyTok)
		}
		if err := fn(key, dec); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}

// decodeConditions reads a where/whereOr object into an ordered condition
// list. Suffixed keys are kept as-is; the filter stage strips them during
// column resolution.
func decodeConditions(data json.RawMessage) ([]Condition, error) {
	var conds []Condition
	err := decodeOrderedObject(data, func(key string, dec *json.Decoder) error {
		var pair []any
		if err := dec.Decode(&pair); err != nil {
			return fmt.Errorf("condition %q: %w", key, err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("condition %q: want [operator, operand], got %d elements", key, len(pair))
		}
		op, ok := pair[0].(string)
		if !ok {
			return fmt.Errorf("condition %q: operator must be a string, got %T", key, pair[0])
		}
		conds = append(conds, Condition{
			Column:   key,
			Operator: Operator(strings.ToUpper(op)),
			Operand:  pair[1],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conds, nil
}

// decodeOrderBy reads an orderBy object into sort keys, declaration order
// defining tie-break precedence.
func decodeOrderBy(data json.RawMessage) ([]OrderByItem, error) {
	var items []OrderByItem
	err := decodeOrderedObject(data, func(key string, dec *json.Decoder) error {
		var direction string
		if err := dec.Decode(&direction); err != nil {
			return fmt.Errorf("sort key %q: %w", key, err)
		}
		switch strings.ToUpper(direction) {
		case "ASC":
			items = append(items, OrderByItem{Column: key})
		case "DESC":
			items = append(items, OrderByItem{Column: key, Desc: true})
		default:
			return fmt.Errorf("sort key %q: direction must be ASC or DESC, got %q", key, direction)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// decodeAggregations reads an aggregations object, each entry mapping an
// output column name to a [sourceColumn, function] pair.
func decodeAggregations(data json.RawMessage) ([]Aggregation, error) {
	var aggs []Aggregation
	err := decodeOrderedObject(data, func(key string, dec *json.Decoder) error {
		var pair []string
		if err := dec.Decode(&pair); err != nil {
			return fmt.Errorf("aggregation %q: %w", key, err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("aggregation %q: want [sourceColumn, function], got %d elements", key, len(pair))
		}
		aggs = append(aggs, Aggregation{
			Name:   key,
			Column: pair[0],
			Func:   AggregateFunc(strings.ToUpper(pair[1])),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return aggs, nil
}
