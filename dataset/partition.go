// SPDX-License-Identifier: MIT

package dataset

import "fmt"

// Partition maps groups to tables. A nil *Partition is not usable; build
// one with NewPartition.
type Partition struct {
	tables map[Group]*Table
}

// NewPartition returns an empty partition.
func NewPartition() *Partition {
	return &Partition{tables: make(map[Group]*Table)}
}

// Set stores t under g, replacing any previous table.
func (p *Partition) Set(g Group, t Table) {
	tt := t
	p.tables[g] = &tt
}

// Table returns the table stored under g. The pointer allows in-place
// mutation (correction engine); callers must not retain it across Move.
func (p *Partition) Table(g Group) (*Table, bool) {
	t, ok := p.tables[g]
	return t, ok
}

// Has reports whether g is present.
func (p *Partition) Has(g Group) bool {
	_, ok := p.tables[g]
	return ok
}

// Len returns the number of rows in g, 0 when absent.
func (p *Partition) Len(g Group) int {
	if t, ok := p.tables[g]; ok {
		return t.Len()
	}
	return 0
}

// Total returns the number of rows across all groups.
func (p *Partition) Total() int {
	n := 0
	for _, t := range p.tables {
		n += t.Len()
	}
	return n
}

// Groups returns the present groups in canonical order.
func (p *Partition) Groups() []Group {
	out := make([]Group, 0, len(p.tables))
	for _, g := range AllGroups() {
		if _, ok := p.tables[g]; ok {
			out = append(out, g)
		}
	}
	return out
}

// Clone returns a deep copy.
func (p *Partition) Clone() *Partition {
	out := NewPartition()
	for g, t := range p.tables {
		out.Set(g, t.Clone())
	}
	return out
}

// EmptyLike returns a partition holding, for every requested group present
// in p, an empty table with the same schema.
func (p *Partition) EmptyLike(groups ...Group) *Partition {
	out := NewPartition()
	for _, g := range groups {
		if t, ok := p.tables[g]; ok {
			out.Set(g, NewTable(t.schema))
		}
	}
	return out
}

// Move removes row i of group g from p and appends it to the same group of dst.
func (p *Partition) Move(g Group, i int, dst *Partition) error {
	src, ok := p.tables[g]
	if !ok {
		return fmt.Errorf("%w: %s (source)", ErrMissingGroup, g)
	}
	to, ok := dst.tables[g]
	if !ok {
		return fmt.Errorf("%w: %s (destination)", ErrMissingGroup, g)
	}
	rest, row, err := src.Without(i)
	if err != nil {
		return fmt.Errorf("move %s: %w", g, err)
	}
	if err = to.Append(row); err != nil {
		return fmt.Errorf("move %s: %w", g, err)
	}
	*src = rest
	return nil
}
