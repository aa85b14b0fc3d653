// SPDX-License-Identifier: MIT

package fit

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/katalvlaran/distladder/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// maxCond bounds the condition number of the normal matrix.
const maxCond = 1e13

// Fit assembles and solves the ladder for partition p. breakP2 is the
// second PLR break period in days, used only under Model.PLRBreak2.
//
// Implementation:
//   - Stage 1: assemble one equation per row in canonical group order.
//   - Stage 2: whiten A = L/σ, b = y/σ and form N = AᵀA.
//   - Stage 3: Cholesky-factorize N, solve N·q = Aᵀb, invert N for Cov(q).
//   - Stage 4: derive χ²/dof and H0.
//
// Errors:
//   - ErrNoData, ErrUnderdetermined, ErrSingular.
//   - ErrBadUncertainty, ErrBadParallax, ErrBadRedshift.
//   - dataset column errors for missing columns.
//
// Complexity:
//   - Time O(n·k²) for n rows and k parameters, Space O(n·k).
func (f *Ladder) Fit(p *dataset.Partition, breakP2 float64) (Result, error) {
	d, err := f.model.assemble(p, breakP2)
	if err != nil {
		return Result{}, fmt.Errorf("Fit: %w", err)
	}
	n, k := len(d.eqs), len(d.params.names)
	if n < k {
		return Result{}, fmt.Errorf("Fit: %w: %d rows, %d parameters", ErrUnderdetermined, n, k)
	}

	y := mat.NewVecDense(n, nil)
	b := mat.NewVecDense(n, nil)
	L := mat.NewDense(n, k, nil)
	A := mat.NewDense(n, k, nil)
	sigma := make([]float64, n)
	for i, e := range d.eqs {
		sigma[i] = e.sigma
		y.SetVec(i, e.y)
		b.SetVec(i, e.y/e.sigma)
		for j, c := range e.cols {
			L.Set(i, c, L.At(i, c)+e.vals[j])
			A.Set(i, c, L.At(i, c)/e.sigma)
		}
	}

	var normal mat.SymDense
	normal.SymOuterK(1, A.T())
	var chol mat.Cholesky
	if ok := chol.Factorize(&normal); !ok {
		return Result{}, fmt.Errorf("Fit: %w: normal matrix not positive definite", ErrSingular)
	}
	if c := chol.Cond(); c > maxCond {
		return Result{}, fmt.Errorf("Fit: %w: condition number %.3g", ErrSingular, c)
	}
	var rhs, q mat.VecDense
	rhs.MulVec(A.T(), b)
	if err = chol.SolveVecTo(&q, &rhs); err != nil {
		return Result{}, fmt.Errorf("Fit: %w: %v", ErrSingular, err)
	}
	cov := mat.NewSymDense(k, nil)
	if err = chol.InverseTo(cov); err != nil {
		return Result{}, fmt.Errorf("Fit: %w: %v", ErrSingular, err)
	}

	var wr mat.VecDense
	wr.MulVec(A, &q)
	wr.SubVec(b, &wr)
	raw := wr.RawVector().Data
	chi2 := floats.Dot(raw, raw)
	chi2dof := 0.0
	if dof := n - k; dof > 0 {
		chi2dof = chi2 / float64(dof)
	}

	params := make([]Param, k)
	for j, name := range d.params.names {
		params[j] = Param{Name: name, Value: q.AtVec(j), Sigma: math.Sqrt(cov.At(j, j))}
	}
	res := Result{
		Y:       y,
		L:       L,
		Sigma:   sigma,
		Params:  params,
		Cov:     cov,
		H0:      f.model.hubbleConstant(d.params, q.RawVector().Data, cov),
		Chi2Dof: chi2dof,
		Layout:  d.layout,
	}
	f.logger.Debug("ladder fitted",
		slog.Int("rows", n),
		slog.Int("params", k),
		slog.Float64("chi2_dof", chi2dof),
		slog.Float64("H0", res.H0.Value))
	return res, nil
}

// hubbleConstant derives H0 = 10^(0.2·M_B + aB + 5) and its 1σ error.
// When aB is not fitted the model's AB ± SigAB is used. Without M_B the
// value and error are NaN.
func (m Model) hubbleConstant(ps paramSet, q []float64, cov *mat.SymDense) Param {
	h0 := Param{Name: ParamH0, Value: math.NaN(), Sigma: math.NaN()}
	iMB, ok := ps.col(ParamMB)
	if !ok {
		return h0
	}
	mb, varMB := q[iMB], cov.At(iMB, iMB)
	ab, varAB, covMBAB := m.AB, m.SigAB*m.SigAB, 0.0
	if iAB, ok := ps.col(ParamAB); ok {
		ab, varAB, covMBAB = q[iAB], cov.At(iAB, iAB), cov.At(iMB, iAB)
	}
	h0.Value = math.Pow(10, 0.2*mb+ab+5)
	h0.Sigma = h0.Value * math.Ln10 * math.Sqrt(0.04*varMB+varAB+0.4*covMBAB)
	return h0
}
