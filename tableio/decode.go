// SPDX-License-Identifier: MIT

package tableio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/distladder/dataset"
)

// textColumns are always read as text.
var textColumns = map[string]bool{dataset.ColGal: true, dataset.ColZPSet: true}

// decode turns raw records (header first) into a Table, inferring kinds.
func decode(records [][]string) (dataset.Table, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return dataset.Table{}, ErrNoHeader
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	body := records[1:]
	for i, rec := range body {
		if len(rec) > len(header) {
			return dataset.Table{}, fmt.Errorf("%w: row %d has %d cells, header %d", ErrRaggedRow, i+1, len(rec), len(header))
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		for j := range rec {
			rec[j] = strings.TrimSpace(rec[j])
		}
		body[i] = rec
	}

	cols := make([]dataset.Column, len(header))
	for j, name := range header {
		cols[j] = dataset.Num(name)
		if textColumns[name] {
			cols[j] = dataset.Txt(name)
			continue
		}
		for _, rec := range body {
			if _, err := strconv.ParseFloat(rec[j], 64); err != nil {
				cols[j] = dataset.Txt(name)
				break
			}
		}
	}
	s, err := dataset.NewSchema(cols...)
	if err != nil {
		return dataset.Table{}, err
	}

	t := dataset.NewTable(s)
	for i, rec := range body {
		r, err := s.ParseRow(rec)
		if err != nil {
			return dataset.Table{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		if err = t.Append(r); err != nil {
			return dataset.Table{}, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return t, nil
}

// encode returns the header and the rows of t as strings.
func encode(t dataset.Table) [][]string {
	out := make([][]string, 0, t.Len()+1)
	out = append(out, t.Schema().Names())
	for i := 0; i < t.Len(); i++ {
		r, _ := t.Row(i)
		out = append(out, r.Cells())
	}
	return out
}
