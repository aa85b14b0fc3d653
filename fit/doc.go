// SPDX-License-Identifier: MIT

// Package fit defines the linear-fit contract used by the outlier rejector
// and ships Ladder, a weighted least-squares implementation of the
// Cepheid/TRGB/SN Ia distance ladder.
//
// 🚀 What is here?
//
//   - Fitter: Fit(p, breakP2) → Result. Any implementation may be plugged
//     into outlier.Reject and pipeline.Run.
//   - Result: response vector y, design matrix L, per-row σ, ordered
//     parameters, covariance, H0 and χ²/dof, and the row Layout naming the
//     group of every segment of y.
//   - Ladder: builds y and L from a dataset.Partition under a Model and
//     solves the normal equations with gonum.
//
// ✨ Row layout contract
//
// Rows are concatenated in canonical group order (dataset.AllGroups) over the
// groups the model uses. Cepheid-family segments therefore come first and
// SNe_Hubble last. Residuals r = y − L·q line up with Layout.
//
// ⚙️ Model
//
//	Cepheids          mW           = mu_host + M_W + b·x [+ b_W2·x2] + Z_W·[M/H]
//	Cepheids_anchors  mW − mu      = M_W + b·x + Z_W·[M/H]
//	Cepheids_MW       mW − mu_π    = M_W + b·x + Z_W·[M/H] + 5·zp/(ln10·π)
//	TRGB              m            = mu_host + M_TRGB [+ c_TRGB·(V−I − mid)]
//	TRGB_anchors      m − mu       = M_TRGB [+ c_TRGB·(V−I − mid)]
//	SNe_*             m            = mu_host + M_B
//	SNe_Hubble        5log10(czf) − m = 5·aB
//
// where x = logP − log10(BreakP) and mu_π = 10 − 5·log10(π[mas]).
// With FixedZP the zp term is dropped and mu_π uses π − zp instead.
// Every Gal of a host or calibrator table gets a distance modulus, so a
// host whose indicator rows were all clipped is still fitted from its SN.
// H0 = 10^(0.2·M_B + aB + 5).
//
// Solve: rows are whitened by 1/σ, N = AᵀA is Cholesky-factorized, q = N⁻¹Aᵀb
// and Cov(q) = N⁻¹. A rank-deficient N yields ErrSingular.
package fit
