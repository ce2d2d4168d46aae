package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fromqtop/SSSQL/engine"
)

func sampleResult() *engine.Result {
	return &engine.Result{
		Columns: []string{"name", "age", "joined"},
		Rows: [][]any{
			{"alice", 30.0, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
			{"bob", nil, nil},
		},
	}
}

func TestJSONFormatter_PreservesColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(&buf)

	if err := f.Format(sampleResult()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	want := `{"name":"alice","age":30,"joined":"2024-06-01T00:00:00Z"}`
	if lines[0] != want {
		t.Errorf("line 1 = %s, want %s", lines[0], want)
	}
	if lines[1] != `{"name":"bob","age":null,"joined":null}` {
		t.Errorf("line 2 = %s", lines[1])
	}
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewCSVFormatter(&buf)

	if err := f.Format(sampleResult()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "name,age,joined" {
		t.Errorf("header = %s", lines[0])
	}
	if lines[1] != "alice,30,2024-06-01T00:00:00Z" {
		t.Errorf("row 1 = %s", lines[1])
	}
	if lines[2] != "bob,," {
		t.Errorf("row 2 = %s", lines[2])
	}
}

func TestCSVFormatter_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	f := NewCSVFormatter(&buf)

	err := f.Format(&engine.Result{Columns: []string{"name"}})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "name" {
		t.Errorf("empty result output = %q, want header only", buf.String())
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter(&buf)

	if err := f.Format(sampleResult()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"name", "age", "alice", "bob", "30"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}
