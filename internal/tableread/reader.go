// Package tableread loads encounter tables from CSV or Parquet files.
package tableread

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gyeh/clinicprep/internal/model"
)

// Table is a fully loaded input table.
type Table struct {
	Path    string
	Format  string // "csv" or "parquet"
	Header  []string
	Rows    []model.RawRow
	Missing []string // expected columns absent from Header
}

// Load reads the whole table at path into memory. The format is chosen by
// file extension. Columns missing from the header are reported in
// Table.Missing and read as empty strings.
func Load(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input table not accessible: %w", err)
	}

	var (
		t   *Table
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		t, err = loadCSV(path)
	case ".parquet", ".pq":
		t, err = loadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q (want .csv or .parquet)", ext)
	}
	if err != nil {
		return nil, err
	}
	t.Path = path
	t.Missing = model.MissingColumns(t.Header)
	return t, nil
}
