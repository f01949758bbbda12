// Package vector provides the dense numeric vector used as the operand of
// block matrix products, and a block vector made of dense blocks.
//
// Vector owns a contiguous []float64. Elementwise kernels and norms are the
// gonum floats routines. Mixing vectors of different sizes is a programming
// error and panics with ErrDimensionMismatch.
//
// BlockWrite and BlockRead store a vector as
//
//	<size>\n[<size little-endian float64>]
//
// which is fast but tied to the float layout of the writing machine.
package vector
