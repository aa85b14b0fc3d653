// SPDX-License-Identifier: MIT

package fit

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/distladder/dataset"
	"gonum.org/v1/gonum/mat"
)

// Fitter is the linear-fit contract. Implementations must honour the row
// layout described in the package documentation and report it in
// Result.Layout.
type Fitter interface {
	Fit(p *dataset.Partition, breakP2 float64) (Result, error)
}

// FitterFunc adapts a function to the Fitter interface.
type FitterFunc func(p *dataset.Partition, breakP2 float64) (Result, error)

// Fit calls f(p, breakP2).
func (f FitterFunc) Fit(p *dataset.Partition, breakP2 float64) (Result, error) { return f(p, breakP2) }

// Param is one fitted quantity.
type Param struct {
	Name  string
	Value float64
	Sigma float64
}

// Segment is a contiguous block of response rows belonging to one group.
type Segment struct {
	Group  dataset.Group
	Offset int
	Len    int
}

// Result is the outcome of one fit.
//
// Params lists the free parameters in design-matrix column order; the derived
// H0 and χ²/dof are kept apart. Y, L and Sigma are in magnitude units
// (not whitened).
type Result struct {
	Y       *mat.VecDense
	L       *mat.Dense
	Sigma   []float64
	Params  []Param
	Cov     *mat.SymDense
	H0      Param
	Chi2Dof float64
	Layout  []Segment
}

// Rows returns the number of response rows.
func (r Result) Rows() int {
	if r.Y == nil {
		return 0
	}
	return r.Y.Len()
}

// Values returns the parameter estimates in column order.
func (r Result) Values() []float64 {
	q := make([]float64, len(r.Params))
	for i, p := range r.Params {
		q[i] = p.Value
	}
	return q
}

// Param looks up a parameter by name.
func (r Result) Param(name string) (Param, bool) {
	for _, p := range r.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Segment returns the layout entry of group g.
func (r Result) Segment(g dataset.Group) (Segment, bool) {
	for _, s := range r.Layout {
		if s.Group == g {
			return s, true
		}
	}
	return Segment{}, false
}

// Residuals returns y − L·q with q = Values().
func (r Result) Residuals() ([]float64, error) {
	if r.Y == nil || r.L == nil {
		return nil, fmt.Errorf("Residuals: %w: empty result", ErrDimension)
	}
	rows, cols := r.L.Dims()
	if cols != len(r.Params) || rows != r.Y.Len() {
		return nil, fmt.Errorf("Residuals: %w: L is %dx%d, %d params, %d rows",
			ErrDimension, rows, cols, len(r.Params), r.Y.Len())
	}
	q := mat.NewVecDense(cols, r.Values())
	var res mat.VecDense
	res.MulVec(r.L, q)
	res.SubVec(r.Y, &res)
	return res.RawVector().Data, nil
}

// Model selects the indicators and nuisance terms of the ladder.
type Model struct {
	IncludeCepheids bool
	IncludeMW       bool
	PLRBreak        bool    // separate short/long-period slopes at BreakP
	BreakP          float64 // days; also the pivot period
	PLRBreak2       bool    // extra slope for host Cepheids above breakP2
	FixedZw         bool
	Zw              float64
	SigZw           float64
	AddedScatter    float64

	// MW parallaxes are corrected as π − zp (mas). zp is fitted unless
	// FixedZP; MultipleZP fits one zp per ColZPSet label.
	FixedZP    bool
	ZP         float64
	SigZP      float64
	MultipleZP bool

	IncludeTRGB bool
	UseColor    bool
	MidVI       float64
	DifferentMu bool // TRGB hosts get their own distance moduli

	FitAB bool
	AB    float64
	SigAB float64

	C  float64 // km/s
	Q0 float64
	J0 float64
}

// DefaultModel returns the reference configuration: Cepheids with MW
// parallaxes, TRGB disabled, aB fitted.
func DefaultModel() Model {
	return Model{
		IncludeCepheids: true,
		IncludeMW:       true,
		BreakP:          10,
		AddedScatter:    0.0277,
		ZP:              -0.014,
		SigZP:           0.005,
		UseColor:        true,
		MidVI:           1.32,
		DifferentMu:     true,
		FitAB:           true,
		AB:              0.715840,
		SigAB:           0.001631,
		C:               299792.458,
		Q0:              -0.55,
		J0:              1,
	}
}

// Option configures a Ladder.
type Option func(*Ladder)

// WithLogger sets the logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("fit: WithLogger(nil)")
	}
	return func(f *Ladder) { f.logger = l }
}
