// SPDX-License-Identifier: MIT

package pipeline

import "errors"

var (
	// ErrNoData indicates Inputs without a partition.
	ErrNoData = errors.New("pipeline: no input partition")

	// ErrNoReference indicates a K-correction without a reference table path.
	ErrNoReference = errors.New("pipeline: no reference table configured")

	// ErrUnknownKind indicates an unrecognized sweep kind.
	ErrUnknownKind = errors.New("pipeline: unknown sweep kind")

	// ErrNoValues indicates a sweep kind with an empty value list.
	ErrNoValues = errors.New("pipeline: sweep has no values")

	// ErrKindDisabled indicates a sweep over an indicator that is not included.
	ErrKindDisabled = errors.New("pipeline: sweep kind needs a disabled indicator")
)
