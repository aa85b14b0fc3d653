// SPDX-License-Identifier: MIT

package tableio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/distladder/dataset"
)

// DecodeCSV reads a table from CSV text.
func DecodeCSV(r io.Reader) (dataset.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return dataset.Table{}, fmt.Errorf("DecodeCSV: %w", err)
	}
	t, err := decode(records)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("DecodeCSV: %w", err)
	}
	return t, nil
}

// ReadCSV reads a table from the CSV file at path.
func ReadCSV(path string) (dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("ReadCSV: %w", err)
	}
	defer f.Close()
	t, err := DecodeCSV(f)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("ReadCSV %s: %w", path, err)
	}
	return t, nil
}

// EncodeCSV writes t as CSV, header first.
func EncodeCSV(w io.Writer, t dataset.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(encode(t)); err != nil {
		return fmt.Errorf("EncodeCSV: %w", err)
	}
	return nil
}

// WriteCSV writes t to path, replacing any existing file.
func WriteCSV(path string, t dataset.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("WriteCSV: %w", err)
	}
	if err = EncodeCSV(f, t); err != nil {
		f.Close()
		return fmt.Errorf("WriteCSV %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("WriteCSV %s: %w", path, err)
	}
	return nil
}
