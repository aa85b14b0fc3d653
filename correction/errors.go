// SPDX-License-Identifier: MIT

package correction

import "errors"

var (
	// ErrEmptyReference indicates a reference table with no rows.
	ErrEmptyReference = errors.New("correction: reference table is empty")

	// ErrAxisNotMonotonic indicates grid axis values (in table order) that are
	// neither strictly ascending nor strictly descending.
	ErrAxisNotMonotonic = errors.New("correction: grid axis must be strictly monotonic")

	// ErrOutOfGrid indicates an interpolation point outside the tabulated range.
	ErrOutOfGrid = errors.New("correction: point outside the correction grid")

	// ErrBandMissing indicates a band that the grid was not built for.
	ErrBandMissing = errors.New("correction: band not available in grid")

	// ErrNoGrid indicates that neither a grid nor a reference table was supplied.
	ErrNoGrid = errors.New("correction: no grid and no reference table")

	// ErrBadR indicates a negative or non-finite reddening coefficient.
	ErrBadR = errors.New("correction: reddening coefficient must be finite and non-negative")

	// ErrUnknownFilter indicates a legacy filter without published coefficients.
	ErrUnknownFilter = errors.New("correction: no K-correction available for filter")
)
