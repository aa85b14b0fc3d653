// SPDX-License-Identifier: MIT

package correction

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/distladder/dataset"
)

// Grid is a multilinear interpolator over a 5-D correction surface.
// It is immutable after construction and safe for concurrent use.
type Grid struct {
	axes    [numAxes][]float64
	desc    [numAxes]bool
	strides [numAxes]int
	values  [numBands][]float64 // nil for bands that were not built
}

var axisColumns = [numAxes]string{ColTeff, ColLogg, ColFeH, dataset.ColZ, ColEBV}

// NewGrid builds a Grid from a reference table for the requested bands.
//
// Implementation:
//   - Stage 1: collect the distinct values of each parameter column in order
//     of first appearance. Axes are NOT sorted: the table encodes the grid
//     and its row order defines each axis direction.
//   - Stage 2: validate each axis is strictly ascending or strictly descending.
//   - Stage 3: fill one dense row-major array per band. Nodes absent from the
//     table keep the value 0; a node listed twice keeps its last value.
//
// Errors:
//   - ErrEmptyReference, ErrAxisNotMonotonic, dataset column errors.
//
// Complexity:
//   - Time O(rows·bands), Space O(Π|axis|·bands).
func NewGrid(ref dataset.Table, bands ...Band) (*Grid, error) {
	if ref.Len() == 0 {
		return nil, ErrEmptyReference
	}
	if len(bands) == 0 {
		bands = []Band{BandI}
	}
	s := ref.Schema()
	if err := s.Require(dataset.Numeric, axisColumns[:]...); err != nil {
		return nil, fmt.Errorf("NewGrid: %w", err)
	}
	for _, b := range bands {
		if b < 0 || b >= numBands {
			return nil, fmt.Errorf("NewGrid: %w: %d", ErrBandMissing, int(b))
		}
		if err := s.Require(dataset.Numeric, b.Column()); err != nil {
			return nil, fmt.Errorf("NewGrid: %w", err)
		}
	}

	g := &Grid{}
	var cols [numAxes][]float64
	var pos [numAxes]map[float64]int
	for d, name := range axisColumns {
		col, err := ref.Column(name)
		if err != nil {
			return nil, fmt.Errorf("NewGrid: %w", err)
		}
		cols[d] = col
		pos[d] = make(map[float64]int)
		for _, v := range col {
			if _, seen := pos[d][v]; !seen {
				pos[d][v] = len(g.axes[d])
				g.axes[d] = append(g.axes[d], v)
			}
		}
		desc, ok := monotonic(g.axes[d])
		if !ok {
			return nil, fmt.Errorf("NewGrid: %w: %s %v", ErrAxisNotMonotonic, name, g.axes[d])
		}
		g.desc[d] = desc
	}

	size := 1
	for d := numAxes - 1; d >= 0; d-- {
		g.strides[d] = size
		size *= len(g.axes[d])
	}

	for _, b := range bands {
		vals, err := ref.Column(b.Column())
		if err != nil {
			return nil, fmt.Errorf("NewGrid: %w", err)
		}
		surface := make([]float64, size)
		for i, v := range vals {
			idx := 0
			for d := 0; d < numAxes; d++ {
				idx += pos[d][cols[d][i]] * g.strides[d]
			}
			surface[idx] = v
		}
		g.values[b] = surface
	}
	return g, nil
}

// NewCepheidGrid builds the I, H and V surfaces needed for Cepheids.
func NewCepheidGrid(ref dataset.Table) (*Grid, error) {
	return NewGrid(ref, BandI, BandH, BandV)
}

// NewTRGBGrid builds the I surface needed for the TRGB.
func NewTRGBGrid(ref dataset.Table) (*Grid, error) {
	return NewGrid(ref, BandI)
}

// monotonic reports the axis direction and whether it is strict.
// Single-node axes are accepted as ascending.
func monotonic(a []float64) (desc bool, ok bool) {
	if len(a) < 2 {
		return false, true
	}
	desc = a[1] < a[0]
	for i := 1; i < len(a); i++ {
		if desc && a[i] >= a[i-1] || !desc && a[i] <= a[i-1] {
			return desc, false
		}
	}
	return desc, true
}

// Axis returns a copy of the node values along axis d (AxisTeff … AxisEBV).
func (g *Grid) Axis(d int) []float64 {
	if d < 0 || d >= numAxes {
		return nil
	}
	return append([]float64(nil), g.axes[d]...)
}

// Has reports whether band b was built.
func (g *Grid) Has(b Band) bool {
	return b >= 0 && b < numBands && g.values[b] != nil
}

// Interpolate evaluates band b at pt by multilinear interpolation.
// At a grid node the tabulated value is returned exactly.
//
// Errors:
//   - ErrBandMissing when b was not built.
//   - ErrOutOfGrid when any coordinate is NaN or outside its axis range.
//
// Complexity: O(Σ log|axis| + 2^5).
func (g *Grid) Interpolate(b Band, pt Point) (float64, error) {
	if !g.Has(b) {
		return 0, fmt.Errorf("Interpolate: %w: %s", ErrBandMissing, b)
	}
	var lo [numAxes]int
	var t [numAxes]float64
	for d := 0; d < numAxes; d++ {
		k, w, err := g.locate(d, pt[d])
		if err != nil {
			return 0, err
		}
		lo[d], t[d] = k, w
	}

	surface := g.values[b]
	sum := 0.0
	for mask := 0; mask < 1<<numAxes; mask++ {
		weight := 1.0
		idx := 0
		for d := 0; d < numAxes; d++ {
			if mask&(1<<d) != 0 {
				weight *= t[d]
				idx += (lo[d] + 1) * g.strides[d]
			} else {
				weight *= 1 - t[d]
				idx += lo[d] * g.strides[d]
			}
		}
		if weight == 0 {
			continue
		}
		sum += weight * surface[idx]
	}
	return sum, nil
}

// locate finds the cell [k, k+1] bracketing x on axis d and the fractional
// position t within it. Exact node hits yield t ∈ {0, 1}.
func (g *Grid) locate(d int, x float64) (int, float64, error) {
	a := g.axes[d]
	n := len(a)
	if math.IsNaN(x) {
		return 0, 0, fmt.Errorf("%w: %s is NaN", ErrOutOfGrid, axisColumns[d])
	}
	if n == 1 {
		if x != a[0] {
			return 0, 0, fmt.Errorf("%w: %s=%g, axis is {%g}", ErrOutOfGrid, axisColumns[d], x, a[0])
		}
		return 0, 0, nil
	}
	first, last := a[0], a[n-1]
	if g.desc[d] {
		first, last = last, first
	}
	if x < first || x > last {
		return 0, 0, fmt.Errorf("%w: %s=%g outside [%g, %g]", ErrOutOfGrid, axisColumns[d], x, first, last)
	}

	var k int
	if g.desc[d] {
		k = sort.Search(n, func(i int) bool { return a[i] <= x })
	} else {
		k = sort.Search(n, func(i int) bool { return a[i] >= x })
	}
	if a[k] == x {
		if k == n-1 {
			return n - 2, 1, nil
		}
		return k, 0, nil
	}
	return k - 1, (x - a[k-1]) / (a[k] - a[k-1]), nil
}
