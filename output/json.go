package output

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/fromqtop/SSSQL/engine"
)

// JSONFormatter outputs results as JSON Lines, one object per row with the
// keys in result column order.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes the result as JSON Lines. Objects are built by hand so the
// key order follows the result's column order instead of Go map order.
func (j *JSONFormatter) Format(res *engine.Result) error {
	var buf bytes.Buffer
	for _, row := range res.Rows {
		buf.Reset()
		buf.WriteByte('{')
		for i, col := range res.Columns {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(col)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			value, err := json.Marshal(jsonValue(row[i]))
			if err != nil {
				return err
			}
			buf.Write(value)
		}
		buf.WriteString("}\n")
		if _, err := j.writer.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// jsonValue keeps date cells readable: time.Time marshals to RFC 3339
// already, everything else passes through.
func jsonValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	return v
}
