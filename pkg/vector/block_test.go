package vector_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edp1096/blocklac/pkg/vector"
)

func TestBlockVectorLayout(t *testing.T) {
	v := vector.NewBlockVector(2, 3)
	require.Equal(t, 2, v.NBlocks())
	require.Equal(t, 5, v.Size())

	v.SetAt(3, 7)
	require.Equal(t, 7.0, v.Block(1).At(1))
	require.Equal(t, 7.0, v.At(3))

	require.True(t, v.SameLayout(vector.NewBlockVector(2, 3)))
	require.False(t, v.SameLayout(vector.NewBlockVector(3, 2)))
}

func TestBlockVectorFlatCopies(t *testing.T) {
	v := vector.NewBlockVector(1, 2)
	v.CopyFromVector(vector.NewFrom([]float64{1, 2, 3}))
	require.Equal(t, []float64{1}, v.Block(0).Raw())
	require.Equal(t, []float64{2, 3}, v.Block(1).Raw())

	flat := vector.New(0)
	v.CopyToVector(flat)
	require.Equal(t, []float64{1, 2, 3}, flat.Raw())
}

func TestBlockVectorReductions(t *testing.T) {
	v := vector.NewBlockVector(1, 1)
	v.SetAt(0, 3)
	v.SetAt(1, 4)
	require.Equal(t, 25.0, v.NormSqr())
	require.Equal(t, 5.0, v.L2Norm())
	require.Equal(t, 25.0, v.Dot(v))

	w := vector.NewBlockVector(1, 1)
	w.Fill(1)
	v.AddScaled(2, w)
	require.Equal(t, 5.0, v.At(0))

	v.SaddScaled(0, 1, w)
	require.Equal(t, 1.0, v.At(1))

	u := vector.NewBlockVector(1, 1)
	u.CopyFrom(v)
	require.Equal(t, 1.0, u.At(0))
	u.Clear()
	require.Equal(t, 0.0, u.NormSqr())
}

func TestBlockVectorCollectSizes(t *testing.T) {
	v := vector.NewBlockVector(1, 1)
	v.Block(1).Reinit(4, false)
	v.CollectSizes()
	require.Equal(t, 5, v.Size())
	require.Equal(t, []int{1, 4}, v.Indices().Sizes())
}
