// SPDX-License-Identifier: MIT

package fit

import "errors"

var (
	// ErrSingular indicates a rank-deficient or ill-conditioned normal matrix.
	ErrSingular = errors.New("fit: singular normal matrix")

	// ErrUnderdetermined indicates fewer rows than free parameters.
	ErrUnderdetermined = errors.New("fit: fewer rows than parameters")

	// ErrNoData indicates that no group used by the model holds any row.
	ErrNoData = errors.New("fit: no rows to fit")

	// ErrBadUncertainty indicates a non-positive total σ for a row.
	ErrBadUncertainty = errors.New("fit: non-positive uncertainty")

	// ErrBadParallax indicates a non-positive parallax, raw or zero-point corrected.
	ErrBadParallax = errors.New("fit: non-positive parallax")

	// ErrBadRedshift indicates a non-positive Hubble-flow redshift.
	ErrBadRedshift = errors.New("fit: non-positive redshift")

	// ErrDimension indicates a parameter vector that does not match L.
	ErrDimension = errors.New("fit: dimension mismatch")
)
