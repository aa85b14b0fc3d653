// SPDX-License-Identifier: MIT

// Package outlier implements single-kappa clipping of a distance-ladder fit.
//
// 🚀 Algorithm
//
//  1. Split SNe_Hubble on the redshift window [ZMin, ZMax]; rows outside are
//     held out and never fitted nor rejected.
//  2. Fit the active partition and compute residuals r = y − L·q.
//  3. std = population standard deviation of all signed residuals.
//  4. worst = max |r| over the enabled classes: the Cepheid block
//     (Cepheids, Cepheids_anchors, Cepheids_MW when IncludeMW) and the
//     SNe_Hubble block (FitAB). A disabled class contributes 0.
//  5. Stop when worst ≤ kappa·std. Otherwise move the first row holding
//     worst to the excluded partition and go to step 2.
//
// Every removal is followed by a full re-fit, so each removed point changes
// the whole model. Ties go to the earliest position, Cepheid block first.
//
// ✨ Contracts
//
//   - The fit Layout must list groups in canonical order with lengths equal
//     to the active tables; otherwise ErrLayoutMismatch.
//   - Emptying a group is fatal (ErrGroupDepleted).
//   - Fitter errors are returned wrapped, without retry.
//   - ctx is checked between iterations.
//
// ⚙️ Persistence
//
// Persist writes <workDir>/outliers/<Group>.csv for every rejectable group,
// creating the directory when absent. SNe_Hubble.csv holds the held-out
// rows followed by the rejected ones.
package outlier
