// SPDX-License-Identifier: MIT

package dataset

import "fmt"

// Column names shared by the correction engine, the fit and the rejector.
const (
	ColGal   = "Gal"
	ColLogP  = "logP"
	ColMW    = "mW"
	ColSigMW = "sig_mW"
	ColMH    = "M/H"
	ColZ     = "z"
	ColVI    = "V-I"
	ColMu    = "mu"
	ColSigMu = "sig_mu"
	ColPi    = "pi"
	ColSigPi = "sig_pi"
	ColM     = "m"
	ColSigM  = "sig_m"

	// ColZPSet labels the parallax zero-point set of an MW Cepheid.
	ColZPSet = "zp_set"
)

// Kind is the storage kind of a column.
type Kind int

const (
	// Numeric columns hold finite float64 values.
	Numeric Kind = iota
	// Text columns hold labels (galaxy names, identifiers).
	Text
)

// Column describes one named column.
type Column struct {
	Name string
	Kind Kind
}

// Num is shorthand for a numeric column.
func Num(name string) Column { return Column{Name: name, Kind: Numeric} }

// Txt is shorthand for a text column.
func Txt(name string) Column { return Column{Name: name, Kind: Text} }

// Schema is an immutable ordered column set. Tables derived from one another
// share the same *Schema, which makes schema checks a pointer comparison in
// the common case.
type Schema struct {
	cols  []Column
	index map[string]int // name → position in cols
	slot  []int          // position in cols → index inside Row.num or Row.text
	nNum  int
	nText int
}

// NewSchema builds a schema from the given columns in order.
func NewSchema(cols ...Column) (*Schema, error) {
	if len(cols) == 0 {
		return nil, ErrEmptySchema
	}
	s := &Schema{
		cols:  append([]Column(nil), cols...),
		index: make(map[string]int, len(cols)),
		slot:  make([]int, len(cols)),
	}
	for i, c := range s.cols {
		if _, dup := s.index[c.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		s.index[c.Name] = i
		if c.Kind == Text {
			s.slot[i] = s.nText
			s.nText++
		} else {
			s.slot[i] = s.nNum
			s.nNum++
		}
	}
	return s, nil
}

// MustSchema is NewSchema that panics on error. Intended for fixed schemas
// declared by programs and tests.
func MustSchema(cols ...Column) *Schema {
	s, err := NewSchema(cols...)
	if err != nil {
		panic(err)
	}
	return s
}

// Columns returns a copy of the column list.
func (s *Schema) Columns() []Column { return append([]Column(nil), s.cols...) }

// Names returns the column names in order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.cols))
	for i, c := range s.cols {
		out[i] = c.Name
	}
	return out
}

// Width is the number of columns.
func (s *Schema) Width() int { return len(s.cols) }

// Has reports whether the schema carries a column with this name.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Equal reports whether both schemas have the same columns in the same order.
func (s *Schema) Equal(o *Schema) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil || len(s.cols) != len(o.cols) {
		return false
	}
	for i := range s.cols {
		if s.cols[i] != o.cols[i] {
			return false
		}
	}
	return true
}

// Require checks that every name is a column of the given kind.
func (s *Schema) Require(kind Kind, names ...string) error {
	for _, n := range names {
		i, ok := s.index[n]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, n)
		}
		if s.cols[i].Kind != kind {
			return fmt.Errorf("%w: %q", ErrColumnKind, n)
		}
	}
	return nil
}

// lookup resolves a column name to its slot for the expected kind.
func (s *Schema) lookup(name string, kind Kind) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	if s.cols[i].Kind != kind {
		return 0, fmt.Errorf("%w: %q", ErrColumnKind, name)
	}
	return s.slot[i], nil
}
