// Package store provides backing-grid implementations of engine.Store.
//
// Stores are thin and mechanical: they snapshot a table into an
// engine.Table and apply positional writes. All query logic lives in the
// engine. Three implementations are provided:
//
//   - Memory: sheet-per-name in-memory grid
//   - CSV: one <table>.csv file per table under a directory
//   - Parquet: one <table>.parquet file per table under a directory
//
// Row addressing is by 1-based physical position in the underlying medium,
// header rows included: the first data row of a CSV table is position 2,
// of a parquet table position 1 (parquet has no header row).
package store
