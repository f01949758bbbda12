package vector

import "errors"

var (
	ErrDimensionMismatch = errors.New("vector: dimension mismatch")
	ErrOutOfRange        = errors.New("vector: index out of range")
	ErrEmptyVector       = errors.New("vector: empty vector")
	ErrIO                = errors.New("vector: malformed block data")
)
