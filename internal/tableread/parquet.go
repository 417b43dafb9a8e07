package tableread

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/clinicprep/internal/model"
)

const readBatchSize = 1024

func loadParquet(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	header := make([]string, 0, len(pf.Schema().Fields()))
	for _, field := range pf.Schema().Fields() {
		header = append(header, field.Name())
	}

	r := parquet.NewGenericReader[model.RawRow](pf)
	defer r.Close()

	t := &Table{Format: "parquet", Header: header}
	t.Rows = make([]model.RawRow, 0, r.NumRows())
	buf := make([]model.RawRow, readBatchSize)
	for {
		n, readErr := r.Read(buf)
		t.Rows = append(t.Rows, buf[:n]...)
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read parquet rows: %w", readErr)
		}
	}
	return t, nil
}

// WriteParquet writes rows as a Parquet file using the RawRow schema.
func WriteParquet(path string, rows []model.RawRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	defer f.Close()

	w := parquet.NewGenericWriter[model.RawRow](f)
	if _, err := w.Write(rows); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return f.Close()
}
