// SPDX-License-Identifier: MIT

// Package distladder measures the Hubble constant with a three-rung
// distance ladder: Cepheids and TRGB tips calibrate type Ia supernovae,
// which in turn set the Hubble-flow intercept.
//
// 🚀 What is distladder?
//
//	A small toolkit that brings together:
//		• Tables: typed per-group measurement tables with explicit schemas
//		• Corrections: Redshift Leavitt Bias and grid-interpolated K-corrections
//		• Fit: weighted least squares over the full ladder with covariance
//		• Outliers: single-kappa clipping with a full re-fit per removal
//		• Pipeline: end-to-end runs and concurrent parameter sweeps
//		• Synth: deterministic synthetic ladders with a known truth
//
// ✨ Why this layout?
//
//   - Explicit inputs - every entry point takes a config.Config, no globals
//   - Row-order contracts - the fit names its residual layout, the rejector checks it
//   - Reproducible - synthetic data and sweeps are deterministic per seed
//
// Under the hood the work is split into packages:
//
//	dataset/    Group enum, Schema, Table and Partition
//	correction/ RLB, 5-D reference Grid, Cepheid and TRGB K-corrections
//	fit/        the Ladder Fitter and its Result
//	outlier/    kappa clipping and persistence of excluded rows
//	tableio/    CSV and XLSX readers and writers
//	config/     defaults, YAML, LADDER_* environment, validation
//	pipeline/   Run and Sweep
//	synth/      synthetic partitions and reference tables
//	cmd/ladder  the command-line front end
//
// Quick start:
//
//	ladder synth --out data --seed 7 --outliers 4
//	ladder fit --work-dir out
//	ladder sweep --kind break-p2
package distladder
