// SPDX-License-Identifier: MIT

package outlier

import "errors"

var (
	// ErrNothingToReject indicates that neither the Cepheid nor the SN class is enabled.
	ErrNothingToReject = errors.New("outlier: no class enabled for rejection")

	// ErrBadKappa indicates a non-positive or non-finite kappa.
	ErrBadKappa = errors.New("outlier: kappa must be positive")

	// ErrBadWindow indicates z_min > z_max.
	ErrBadWindow = errors.New("outlier: redshift window is inverted")

	// ErrLayoutMismatch indicates a fit layout inconsistent with the active partition.
	ErrLayoutMismatch = errors.New("outlier: fit layout does not match partition")

	// ErrGroupDepleted indicates that a rejection would empty a group.
	ErrGroupDepleted = errors.New("outlier: rejection would empty group")
)
