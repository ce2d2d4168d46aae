package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fromqtop/SSSQL/engine"
	"github.com/fromqtop/SSSQL/logging"
	"github.com/fromqtop/SSSQL/output"
	"github.com/fromqtop/SSSQL/store"
)

var (
	queryFlag   = flag.String("q", "", "query as a JSON object, or @file to read it from a file")
	formatFlag  = flag.String("f", "jsonl", "Output format: jsonl, csv, table")
	rowNumFlag  = flag.Bool("rownum", false, "Prepend the ROWNUM physical-position column")
	verboseFlag = flag.Bool("v", false, "Enable debug logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <table.csv|table.parquet>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "A tool to query sheet-like tables with declarative JSON queries.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s people.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -f table -q '{\"where\":{\"age\":[\">\",30]}}' people.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -q @query.json people.parquet\n", os.Args[0])
	}

	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: missing table file argument\n\n")
		flag.Usage()
		os.Exit(1)
	}
	filename := flag.Arg(0)

	level := slog.LevelInfo
	if *verboseFlag {
		level = slog.LevelDebug
	}
	logger, closeLogger := logging.Setup(level)
	defer closeLogger()

	st, table, err := openStore(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var q *engine.Query
	if *queryFlag != "" {
		q, err = parseQuery(*queryFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing query: %v\n\n", err)
			fmt.Fprintf(os.Stderr, "Query format: {\"columns\":[...],\"where\":{...},\"groupBy\":{...},\"orderBy\":{...}}\n")
			fmt.Fprintf(os.Stderr, "Example: {\"where\":{\"age\":[\">\",30]}}\n")
			os.Exit(1)
		}
	}

	eng := engine.New(st, engine.WithLogger(logger))
	res, err := eng.Select(table, q, &engine.Options{WithRowNum: *rowNumFlag, AsArray: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing query: %v\n", err)
		os.Exit(1)
	}

	var formatter output.Formatter
	switch *formatFlag {
	case "json", "jsonl":
		formatter = output.NewJSONFormatter(os.Stdout)
	case "csv":
		formatter = output.NewCSVFormatter(os.Stdout)
	case "table":
		formatter = output.NewTableFormatter(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Error: unsupported format '%s'\n", *formatFlag)
		fmt.Fprintf(os.Stderr, "Supported formats: jsonl, csv, table\n")
		os.Exit(1)
	}

	if err := formatter.Format(res); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
}

// openStore picks the store implementation from the file extension. The
// table name is the file base name, the store root its directory.
func openStore(filename string) (engine.Store, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	dir := filepath.Dir(filename)
	table := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	switch ext {
	case ".csv":
		return store.NewCSV(dir), table, nil
	case ".parquet":
		return store.NewParquet(dir), table, nil
	default:
		return nil, "", fmt.Errorf("unsupported table file %q (want .csv or .parquet)", filename)
	}
}

// parseQuery decodes the query JSON, reading it from a file when the
// argument starts with @.
func parseQuery(arg string) (*engine.Query, error) {
	data := []byte(arg)
	if strings.HasPrefix(arg, "@") {
		var err error
		data, err = os.ReadFile(arg[1:])
		if err != nil {
			return nil, err
		}
	}

	var q engine.Query
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, err
	}
	return &q, nil
}
