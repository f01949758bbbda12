package blockmatrix

import "errors"

var (
	// ErrColumnOrder reports a column list whose block numbers are not grouped
	// in non-decreasing order.
	ErrColumnOrder = errors.New("blockmatrix: column indices not grouped by block")

	// ErrDimensionMismatch reports index lists, value buffers or vectors that
	// do not fit each other or the matrix.
	ErrDimensionMismatch = errors.New("blockmatrix: dimension mismatch")

	// ErrOutOfRange reports a block coordinate outside the grid.
	ErrOutOfRange = errors.New("blockmatrix: block index out of range")

	// ErrIncompatibleRowNumbers reports blocks of one block row with differing row counts.
	ErrIncompatibleRowNumbers = errors.New("blockmatrix: blocks have differing row numbers")

	// ErrIncompatibleColNumbers reports blocks of one block column with differing column counts.
	ErrIncompatibleColNumbers = errors.New("blockmatrix: blocks have differing column numbers")

	// ErrAliasedVectors reports a residual whose source and destination are the same vector.
	ErrAliasedVectors = errors.New("blockmatrix: source and destination must differ")
)
