package matrix

import "errors"

var (
	ErrOutOfRange        = errors.New("matrix: index out of range")
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")
	ErrBadShape          = errors.New("matrix: invalid shape")
	ErrNonSquare         = errors.New("matrix: matrix is not square")
)
