// SPDX-License-Identifier: MIT

// Package config holds the explicit run configuration of the ladder.
//
// Load layers three sources over Defaults, later ones winning:
//
//  1. Defaults(): the reference parameter set.
//  2. An optional YAML file (unknown keys are rejected).
//  3. Environment variables prefixed LADDER_, e.g. LADDER_OUTLIERS_KAPPA or
//     LADDER_SWEEP_EBV_CEP="0,0.01,0.02".
//
// The result is validated with struct tags plus cross-field rules. A Config
// is a plain value; pass it to the entry points that need it.
package config
