// SPDX-License-Identifier: MIT

package dataset

import "errors"

var (
	// ErrEmptySchema is returned when a schema is built without columns.
	ErrEmptySchema = errors.New("dataset: schema must have at least one column")

	// ErrDuplicateColumn indicates two columns share a name.
	ErrDuplicateColumn = errors.New("dataset: duplicate column name")

	// ErrUnknownColumn indicates a column name absent from the schema.
	ErrUnknownColumn = errors.New("dataset: unknown column")

	// ErrColumnKind indicates a numeric accessor used on a text column or vice versa.
	ErrColumnKind = errors.New("dataset: column kind mismatch")

	// ErrNonFinite indicates a NaN or ±Inf numeric cell.
	ErrNonFinite = errors.New("dataset: numeric cell must be finite")

	// ErrRowOutOfRange indicates a row index outside [0, Len).
	ErrRowOutOfRange = errors.New("dataset: row index out of range")

	// ErrSchemaMismatch indicates a row or table built over a different schema.
	ErrSchemaMismatch = errors.New("dataset: schema mismatch")

	// ErrCellCount indicates a row with a wrong number of cells.
	ErrCellCount = errors.New("dataset: wrong number of cells")

	// ErrCellType indicates a Go value that cannot be stored in the target column.
	ErrCellType = errors.New("dataset: unsupported cell value")

	// ErrUnknownGroup indicates a label that names no Group.
	ErrUnknownGroup = errors.New("dataset: unknown group")

	// ErrMissingGroup indicates a partition without the requested group.
	ErrMissingGroup = errors.New("dataset: group not present in partition")
)
