// SPDX-License-Identifier: MIT

package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Row is one record over a Schema. Rows handed out by Table are copies.
type Row struct {
	schema *Schema
	num    []float64
	text   []string
}

// Schema returns the schema the row was built over.
func (r Row) Schema() *Schema { return r.schema }

// Float returns the value of a numeric column.
func (r Row) Float(col string) (float64, error) {
	k, err := r.schema.lookup(col, Numeric)
	if err != nil {
		return 0, err
	}
	return r.num[k], nil
}

// Text returns the value of a text column.
func (r Row) Text(col string) (string, error) {
	k, err := r.schema.lookup(col, Text)
	if err != nil {
		return "", err
	}
	return r.text[k], nil
}

// Cells renders the row in column order. Numbers use the shortest
// representation that round-trips through strconv.ParseFloat.
func (r Row) Cells() []string {
	out := make([]string, len(r.schema.cols))
	for i, c := range r.schema.cols {
		k := r.schema.slot[i]
		if c.Kind == Text {
			out[i] = r.text[k]
		} else {
			out[i] = strconv.FormatFloat(r.num[k], 'g', -1, 64)
		}
	}
	return out
}

func (r Row) clone() Row {
	return Row{
		schema: r.schema,
		num:    append([]float64(nil), r.num...),
		text:   append([]string(nil), r.text...),
	}
}

// ParseRow builds a row from textual cells given in column order.
// Numeric cells must parse as finite floats.
func (s *Schema) ParseRow(cells []string) (Row, error) {
	if len(cells) != len(s.cols) {
		return Row{}, fmt.Errorf("%w: got %d, want %d", ErrCellCount, len(cells), len(s.cols))
	}
	r := Row{schema: s, num: make([]float64, s.nNum), text: make([]string, s.nText)}
	for i, c := range s.cols {
		k := s.slot[i]
		if c.Kind == Text {
			r.text[k] = cells[i]
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cells[i]), 64)
		if err != nil {
			return Row{}, fmt.Errorf("%w: column %q: %q", ErrCellType, c.Name, cells[i])
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Row{}, fmt.Errorf("%w: column %q", ErrNonFinite, c.Name)
		}
		r.num[k] = v
	}
	return r, nil
}

// NewRow builds a row from Go values given in column order. Numeric columns
// accept float64 and int, text columns accept string.
func (s *Schema) NewRow(values ...any) (Row, error) {
	if len(values) != len(s.cols) {
		return Row{}, fmt.Errorf("%w: got %d, want %d", ErrCellCount, len(values), len(s.cols))
	}
	r := Row{schema: s, num: make([]float64, s.nNum), text: make([]string, s.nText)}
	for i, c := range s.cols {
		k := s.slot[i]
		if c.Kind == Text {
			str, ok := values[i].(string)
			if !ok {
				return Row{}, fmt.Errorf("%w: column %q: %T", ErrCellType, c.Name, values[i])
			}
			r.text[k] = str
			continue
		}
		var v float64
		switch x := values[i].(type) {
		case float64:
			v = x
		case int:
			v = float64(x)
		default:
			return Row{}, fmt.Errorf("%w: column %q: %T", ErrCellType, c.Name, values[i])
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Row{}, fmt.Errorf("%w: column %q", ErrNonFinite, c.Name)
		}
		r.num[k] = v
	}
	return r, nil
}
