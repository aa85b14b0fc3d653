// SPDX-License-Identifier: MIT

package tableio

import "errors"

var (
	// ErrNoHeader indicates an input without a header row.
	ErrNoHeader = errors.New("tableio: missing header row")

	// ErrRaggedRow indicates a data row with more cells than the header.
	ErrRaggedRow = errors.New("tableio: row wider than header")

	// ErrUnsupportedFormat indicates an extension other than .csv or .xlsx.
	ErrUnsupportedFormat = errors.New("tableio: unsupported file format")

	// ErrNoGroups indicates a directory holding no group table.
	ErrNoGroups = errors.New("tableio: no group tables found")
)
