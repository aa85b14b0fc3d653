// SPDX-License-Identifier: MIT

// Package pipeline runs the distance ladder end to end.
//
// 🚀 One run
//
//  1. Deep-clone the input partition; the caller's data is never modified.
//  2. Remove the Redshift Leavitt Bias from Cepheid periods (corrections.rlb).
//  3. K-correct Cepheid and TRGB magnitudes (corrections.kcorr_*), reusing
//     any grid supplied with WithGrids.
//  4. Kappa-clip the ladder fit and persist the excluded rows
//     (outliers.enabled), or apply the SNe_Hubble redshift window and fit once.
//  5. Return a Report with the parameters, H0, χ²/dof and row counts.
//
// ✨ Sweeps
//
// Sweep repeats Run over one configuration axis (E(B−V) of Cepheids or TRGB,
// TRGB Teff, or the second PLR break period). Runs execute concurrently on
// their own clones, bounded by sweep.workers, and share read-only grids
// built once up front. Sweep runs never persist outliers. Results come back
// in the order of the configured values.
//
// ⚙️ Inputs
//
// LoadInputs reads the group tables from paths.data_dir and, when needed,
// the K-correction reference table from paths.reference_table.
package pipeline
