// Package output provides formatters for rendering query results.
//
// Supported formats:
//   - JSON Lines: one JSON object per line, columns in result order
//   - CSV: header row plus data rows
//   - Table: aligned text table for terminals
//
// Example usage:
//
//	formatter := output.NewJSONFormatter(os.Stdout)
//	if err := formatter.Format(res); err != nil {
//	    log.Fatal(err)
//	}
package output

import (
	"io"

	"github.com/fromqtop/SSSQL/engine"
)

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to render a result in the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes the result in the formatter's specific format
	Format(res *engine.Result) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}
