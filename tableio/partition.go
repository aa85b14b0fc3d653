// SPDX-License-Identifier: MIT

package tableio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/katalvlaran/distladder/dataset"
)

// ReadTable reads a .csv or .xlsx file (first sheet).
func ReadTable(path string) (dataset.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(path)
	case ".xlsx":
		return ReadXLSX(path, "")
	}
	return dataset.Table{}, fmt.Errorf("ReadTable: %w: %s", ErrUnsupportedFormat, path)
}

// LoadPartition reads <dir>/<Group>.csv, falling back to <Group>.xlsx, for
// every group. Missing groups are skipped; a directory without any group
// table yields ErrNoGroups.
func LoadPartition(dir string) (*dataset.Partition, error) {
	p := dataset.NewPartition()
	for _, g := range dataset.AllGroups() {
		for _, ext := range []string{".csv", ".xlsx"} {
			path := filepath.Join(dir, g.String()+ext)
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				continue
			}
			t, err := ReadTable(path)
			if err != nil {
				return nil, fmt.Errorf("LoadPartition: %w", err)
			}
			p.Set(g, t)
			break
		}
	}
	if len(p.Groups()) == 0 {
		return nil, fmt.Errorf("LoadPartition %s: %w", dir, ErrNoGroups)
	}
	return p, nil
}

// SavePartition writes every group of p to <dir>/<Group>.csv, creating dir.
func SavePartition(dir string, p *dataset.Partition) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("SavePartition: %w", err)
	}
	for _, g := range p.Groups() {
		t, _ := p.Table(g)
		if err := WriteCSV(filepath.Join(dir, g.String()+".csv"), *t); err != nil {
			return fmt.Errorf("SavePartition: %w", err)
		}
	}
	return nil
}
