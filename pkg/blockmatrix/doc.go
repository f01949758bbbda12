// Package blockmatrix implements a sparse matrix partitioned into a grid of
// independently stored blocks, each one a matrix.SparseMatrix.
//
// Global row and column indices are translated to (block, local) pairs by
// blockindex.Indices. Batched writes of a rectangular patch of values are
// split by Route: the column list is partitioned once into per-block runs,
// then each row issues one local write per block it touches.
//
// Route requires the column list to be grouped by block number: every column
// of block k comes before any column of block k+1. Local order inside a run
// is free. A violation panics while integrity checks are compiled in and is
// undefined otherwise; RouteSorted, or the WithSortedColumns option, sorts
// the columns by block first and accepts any order.
//
// The usual life cycle is
//
//	m := blockmatrix.New()
//	m.ReinitSizes([]int{3, 3}, []int{3, 3})
//	m.Add(rows, cols, values)
//	m.Compress()
//	m.VMult(dst, src)
//
// After resizing blocks directly through Block(i, j).Reinit, CollectSizes
// must be called before the matrix is written to again.
package blockmatrix
