package vector

import (
	"math"

	"github.com/edp1096/blocklac/internal/check"
	"github.com/edp1096/blocklac/pkg/blockindex"
)

// BlockVector is a vector split into consecutive dense blocks.
type BlockVector struct {
	blocks  []*Vector
	indices *blockindex.Indices
}

func NewBlockVector(sizes ...int) *BlockVector {
	v := &BlockVector{}
	v.Reinit(sizes...)
	return v
}

// Reinit replaces all blocks by zero blocks of the given sizes.
func (v *BlockVector) Reinit(sizes ...int) {
	v.blocks = make([]*Vector, len(sizes))
	for b, size := range sizes {
		v.blocks[b] = New(size)
	}
	v.indices = blockindex.New(sizes...)
}

// CollectSizes rebuilds the index map after blocks were resized directly.
func (v *BlockVector) CollectSizes() {
	sizes := make([]int, len(v.blocks))
	for b, block := range v.blocks {
		sizes[b] = block.Size()
	}
	v.indices = blockindex.New(sizes...)
}

func (v *BlockVector) NBlocks() int                 { return len(v.blocks) }
func (v *BlockVector) Block(b int) *Vector          { return v.blocks[b] }
func (v *BlockVector) Indices() *blockindex.Indices { return v.indices }
func (v *BlockVector) Size() int                    { return v.indices.Size() }

func (v *BlockVector) At(i int) float64 {
	b, local := v.indices.GlobalToLocal(i)
	return v.blocks[b].At(local)
}

func (v *BlockVector) SetAt(i int, value float64) {
	b, local := v.indices.GlobalToLocal(i)
	v.blocks[b].SetAt(local, value)
}

// SameLayout reports whether both vectors have identical block sizes.
func (v *BlockVector) SameLayout(other *BlockVector) bool {
	return v.indices.Equal(other.indices)
}

// CopyFromVector scatters a flat vector of the same total size into the blocks.
func (v *BlockVector) CopyFromVector(flat *Vector) {
	check.Assert(flat.Size() == v.Size(), ErrDimensionMismatch, "sizes %d and %d", v.Size(), flat.Size())
	offset := 0
	for _, block := range v.blocks {
		copy(block.val, flat.val[offset:offset+block.Size()])
		offset += block.Size()
	}
}

// CopyToVector gathers all blocks into flat, resizing it.
func (v *BlockVector) CopyToVector(flat *Vector) {
	flat.Reinit(v.Size(), true)
	offset := 0
	for _, block := range v.blocks {
		copy(flat.val[offset:], block.val)
		offset += block.Size()
	}
}

func (v *BlockVector) Fill(s float64) {
	for _, block := range v.blocks {
		block.Fill(s)
	}
}

func (v *BlockVector) Clear() { v.Fill(0) }

func (v *BlockVector) CopyFrom(other *BlockVector) {
	v.checkLayout(other)
	for b, block := range v.blocks {
		block.CopyFrom(other.blocks[b])
	}
}

func (v *BlockVector) Dot(other *BlockVector) float64 {
	v.checkLayout(other)
	sum := 0.0
	for b, block := range v.blocks {
		sum += block.Dot(other.blocks[b])
	}
	return sum
}

func (v *BlockVector) NormSqr() float64 {
	sum := 0.0
	for _, block := range v.blocks {
		sum += block.NormSqr()
	}
	return sum
}

func (v *BlockVector) L2Norm() float64 { return math.Sqrt(v.NormSqr()) }

// AddScaled computes U += a*V blockwise.
func (v *BlockVector) AddScaled(a float64, other *BlockVector) {
	v.checkLayout(other)
	for b, block := range v.blocks {
		block.AddScaled(a, other.blocks[b])
	}
}

// Sadd computes U = s*U + V blockwise.
func (v *BlockVector) Sadd(s float64, other *BlockVector) {
	v.checkLayout(other)
	for b, block := range v.blocks {
		block.Sadd(s, other.blocks[b])
	}
}

// SaddScaled computes U = s*U + a*V blockwise.
func (v *BlockVector) SaddScaled(s, a float64, other *BlockVector) {
	v.checkLayout(other)
	for b, block := range v.blocks {
		block.SaddScaled(s, a, other.blocks[b])
	}
}

func (v *BlockVector) checkLayout(other *BlockVector) {
	check.Assert(v.SameLayout(other), ErrDimensionMismatch,
		"block sizes %v and %v", v.indices.Sizes(), other.indices.Sizes())
}
