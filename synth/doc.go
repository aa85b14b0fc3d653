// SPDX-License-Identifier: MIT

// Package synth generates deterministic synthetic distance-ladder data.
//
// 🚀 What is generated?
//
//   - A full dataset.Partition: host Cepheids, anchor Cepheids, Milky Way
//     Cepheids with parallaxes, TRGB hosts and anchors, calibrator SNe in
//     Cepheid and TRGB hosts, and a Hubble-flow SN sample.
//   - The Truth the data were drawn from (PLR, TRGB and SN parameters,
//     host distance moduli and H0).
//   - An analytic K-correction reference table on the standard 5-D grid.
//
// ✨ Determinism
//
// Every group draws from its own stream derived from the seed, so changing
// the size of one group leaves the others unchanged. Seed 0 means the
// default seed 1.
//
// ⚙️ Observed quantities
//
// Cepheid periods are stored as observed, logP + log10(1+z), so that the RLB
// correction recovers the true PLR. Magnitudes are drawn without
// K-corrections. WithNoise(0) yields noiseless data that a ladder fit
// reproduces exactly.
package synth
