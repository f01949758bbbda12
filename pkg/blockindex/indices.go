// Package blockindex maps global row or column indices of a block matrix to
// (block, local) pairs and back.
package blockindex

import (
	"errors"
	"sort"

	"github.com/edp1096/blocklac/internal/check"
)

var (
	// ErrOutOfRange is raised when a global or local index lies outside the map.
	ErrOutOfRange = errors.New("blockindex: index out of range")

	// ErrNegativeSize is raised when a block is given a negative size.
	ErrNegativeSize = errors.New("blockindex: negative block size")
)

// Indices partitions [0, Size()) into contiguous blocks ordered by increasing
// global range. starts[b] is the first global index of block b and
// starts[NBlocks()] == Size().
type Indices struct {
	starts []int
}

func New(sizes ...int) *Indices {
	x := &Indices{}
	x.Reinit(sizes...)
	return x
}

// Reinit replaces the partition by blocks of the given sizes.
func (x *Indices) Reinit(sizes ...int) {
	x.starts = append(x.starts[:0], 0)
	for _, size := range sizes {
		x.PushBack(size)
	}
}

// PushBack appends a block of the given size.
func (x *Indices) PushBack(size int) {
	if size < 0 {
		check.Fail(ErrNegativeSize, "size %d", size)
	}
	if len(x.starts) == 0 {
		x.starts = append(x.starts, 0)
	}
	x.starts = append(x.starts, x.starts[len(x.starts)-1]+size)
}

func (x *Indices) NBlocks() int {
	if len(x.starts) == 0 {
		return 0
	}
	return len(x.starts) - 1
}

// Size returns the total number of global indices.
func (x *Indices) Size() int {
	if len(x.starts) == 0 {
		return 0
	}
	return x.starts[len(x.starts)-1]
}

func (x *Indices) BlockSize(block int) int {
	x.checkBlock(block)
	return x.starts[block+1] - x.starts[block]
}

func (x *Indices) BlockStart(block int) int {
	x.checkBlock(block)
	return x.starts[block]
}

// Sizes returns a copy of the block sizes.
func (x *Indices) Sizes() []int {
	sizes := make([]int, x.NBlocks())
	for b := range sizes {
		sizes[b] = x.starts[b+1] - x.starts[b]
	}
	return sizes
}

// GlobalToLocal returns the block holding global index i and the offset of i
// inside it. Empty blocks are never returned.
func (x *Indices) GlobalToLocal(i int) (block, local int) {
	if i < 0 || i >= x.Size() {
		check.Fail(ErrOutOfRange, "global index %d, size %d", i, x.Size())
	}
	n := x.NBlocks()
	block = sort.Search(n, func(b int) bool { return x.starts[b+1] > i })
	return block, i - x.starts[block]
}

func (x *Indices) LocalToGlobal(block, local int) int {
	if local < 0 || local >= x.BlockSize(block) {
		check.Fail(ErrOutOfRange, "local index %d in block %d of size %d", local, block, x.BlockSize(block))
	}
	return x.starts[block] + local
}

// Equal reports whether both maps describe the same partition.
func (x *Indices) Equal(other *Indices) bool {
	if x.NBlocks() != other.NBlocks() {
		return false
	}
	for b := 0; b < x.NBlocks(); b++ {
		if x.starts[b+1] != other.starts[b+1] {
			return false
		}
	}
	return true
}

func (x *Indices) checkBlock(block int) {
	if block < 0 || block >= x.NBlocks() {
		check.Fail(ErrOutOfRange, "block %d, blocks %d", block, x.NBlocks())
	}
}
