// SPDX-License-Identifier: MIT

// Package correction removes redshift-induced biases from photometric
// measurements before the distance-ladder fit.
//
// 🚀 What is corrected?
//
//	Redshift Leavitt Bias (RLB): periods are observed stretched by (1+z);
//	  ApplyRLB rewrites logP ← logP − log10(1+z) on Cepheid hosts and anchors.
//	K-corrections: the spectrum shifts through the HST bands; the correction
//	  is interpolated from a tabulated 5-D surface over
//	  (Teff, logg, [Fe/H], z, E(B-V)) for the F814W (I), F160W (H) and
//	  F555W (V) bands.
//
// ✨ Key features:
//   - Grid: immutable multilinear interpolator built once from the reference
//     table, safe for concurrent reads, reused across calls and sweeps.
//   - Cepheids: Teff and logg derived from the period, [Fe/H] and z per row,
//     E(B-V) a caller constant; Wesenheit K = H − R·(V − I).
//   - TRGB: Teff, logg, [Fe/H], E(B-V) caller constants; z per row; band I.
//   - Physical clamping: inputs outside the valid range are pulled to the
//     nearest bound, logged as warnings and recorded in the Report.
//   - Legacy analytic corrections (reference-redshift interpolation and fixed
//     per-filter coefficients) remain available.
//
// ⚠️ Single-application contract:
//
//	Every correction mutates the partition in place and is NOT idempotent:
//	applying it twice corrects twice. Apply each exactly once per dataset.
//
// ⚙️ Usage:
//
//	rep, err := correction.KCorrectCepheids(p, ref, nil, correction.CepheidParams{EBV: 0.02, R: correction.DefaultR})
//	// reuse rep.Grid for the next call instead of rebuilding it
//	rep2, err := correction.KCorrectCepheids(q, dataset.Table{}, rep.Grid, params)
package correction
