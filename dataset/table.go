// SPDX-License-Identifier: MIT

package dataset

import (
	"fmt"
	"math"
)

// Table is an ordered collection of rows over one Schema.
// The zero Table has no schema and no rows; use NewTable.
type Table struct {
	schema *Schema
	rows   []Row
}

// NewTable returns an empty table over s.
func NewTable(s *Schema) Table { return Table{schema: s} }

// Schema returns the table schema.
func (t Table) Schema() *Schema { return t.schema }

// Len is the number of rows.
func (t Table) Len() int { return len(t.rows) }

func (t Table) checkRow(i int) error {
	if i < 0 || i >= len(t.rows) {
		return fmt.Errorf("%w: %d (len %d)", ErrRowOutOfRange, i, len(t.rows))
	}
	return nil
}

// Float returns the numeric cell (i, col).
func (t Table) Float(i int, col string) (float64, error) {
	if err := t.checkRow(i); err != nil {
		return 0, err
	}
	return t.rows[i].Float(col)
}

// Text returns the text cell (i, col).
func (t Table) Text(i int, col string) (string, error) {
	if err := t.checkRow(i); err != nil {
		return "", err
	}
	return t.rows[i].Text(col)
}

// SetFloat overwrites the numeric cell (i, col). Non-finite values are rejected.
func (t *Table) SetFloat(i int, col string, v float64) error {
	if err := t.checkRow(i); err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: column %q row %d", ErrNonFinite, col, i)
	}
	k, err := t.schema.lookup(col, Numeric)
	if err != nil {
		return err
	}
	t.rows[i].num[k] = v
	return nil
}

// Row returns a copy of row i.
func (t Table) Row(i int) (Row, error) {
	if err := t.checkRow(i); err != nil {
		return Row{}, err
	}
	return t.rows[i].clone(), nil
}

// Append adds a copy of r at the end. The row must share the table schema.
func (t *Table) Append(r Row) error {
	if !t.schema.Equal(r.schema) {
		return ErrSchemaMismatch
	}
	c := r.clone()
	c.schema = t.schema
	t.rows = append(t.rows, c)
	return nil
}

// AddRow is NewRow followed by Append.
func (t *Table) AddRow(values ...any) error {
	r, err := t.schema.NewRow(values...)
	if err != nil {
		return err
	}
	t.rows = append(t.rows, r)
	return nil
}

// Without returns a new table with row i removed, the remaining rows
// reindexed contiguously from zero, together with the removed row.
// The receiver is left untouched.
func (t Table) Without(i int) (Table, Row, error) {
	if err := t.checkRow(i); err != nil {
		return Table{}, Row{}, err
	}
	out := Table{schema: t.schema, rows: make([]Row, 0, len(t.rows)-1)}
	for j, r := range t.rows {
		if j == i {
			continue
		}
		out.rows = append(out.rows, r.clone())
	}
	return out, t.rows[i].clone(), nil
}

// Clone returns a deep copy.
func (t Table) Clone() Table {
	out := Table{schema: t.schema, rows: make([]Row, len(t.rows))}
	for i, r := range t.rows {
		out.rows[i] = r.clone()
	}
	return out
}

// Column returns a copy of a numeric column.
func (t Table) Column(col string) ([]float64, error) {
	k, err := t.schema.lookup(col, Numeric)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.num[k]
	}
	return out, nil
}

// TextColumn returns a copy of a text column.
func (t Table) TextColumn(col string) ([]string, error) {
	k, err := t.schema.lookup(col, Text)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.text[k]
	}
	return out, nil
}

// Split partitions the rows by keep, preserving order in both halves.
func (t Table) Split(keep func(r Row) bool) (in, out Table) {
	in, out = NewTable(t.schema), NewTable(t.schema)
	for _, r := range t.rows {
		if keep(r) {
			in.rows = append(in.rows, r.clone())
		} else {
			out.rows = append(out.rows, r.clone())
		}
	}
	return in, out
}

// Concat returns the rows of t followed by the rows of o.
func (t Table) Concat(o Table) (Table, error) {
	if !t.schema.Equal(o.schema) {
		return Table{}, ErrSchemaMismatch
	}
	out := t.Clone()
	for _, r := range o.rows {
		c := r.clone()
		c.schema = t.schema
		out.rows = append(out.rows, c)
	}
	return out, nil
}

// SplitWindow splits t on lo ≤ col ≤ hi. Rows inside the window come first.
func SplitWindow(t Table, col string, lo, hi float64) (in, out Table, err error) {
	k, err := t.schema.lookup(col, Numeric)
	if err != nil {
		return Table{}, Table{}, err
	}
	in, out = t.Split(func(r Row) bool {
		v := r.num[k]
		return v >= lo && v <= hi
	})
	return in, out, nil
}
