package system_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edp1096/blocklac/pkg/blockmatrix"
	"github.com/edp1096/blocklac/pkg/deck"
	"github.com/edp1096/blocklac/pkg/system"
)

const input = `* two by two blocks
.rowblocks 2 1
A1 [0 1] [0 1] 4 -1 -1 4
A2 [0 1] [0 1] 1 0 0 1
S3 [2] [0 2] 1 5
E4 2 2 1
P5 0 2 1
.vector x 1 1 1
`

func load(t *testing.T, text string) *system.System {
	t.Helper()
	d, err := deck.Parse(text)
	require.NoError(t, err)
	s, err := system.Load(d)
	require.NoError(t, err)
	t.Cleanup(s.Destroy)
	return s
}

func TestLoadAssemblesEntries(t *testing.T) {
	s := load(t, input)
	m := s.Matrix()
	require.Equal(t, "two by two blocks", s.Name())
	require.True(t, m.IsCompressed())

	require.Equal(t, 5.0, m.El(0, 0))
	require.Equal(t, -1.0, m.El(0, 1))
	require.Equal(t, 5.0, m.El(1, 1))
	require.Equal(t, 1.0, m.El(2, 0))
	require.Equal(t, 6.0, m.El(2, 2))
	require.Equal(t, 1.0, m.El(0, 2))
	require.Equal(t, []string{"x"}, s.VectorNames())
}

func TestBlockedVectors(t *testing.T) {
	s := load(t, input)
	x, err := s.ColVector("x")
	require.NoError(t, err)
	require.Equal(t, 2, x.NBlocks())
	require.Equal(t, []float64{1, 1}, x.Block(0).Raw())

	_, err = s.RowVector("y")
	require.ErrorIs(t, err, system.ErrUnknownVector)

	s.SetVector("short", []float64{1})
	_, err = s.RowVector("short")
	require.ErrorIs(t, err, blockmatrix.ErrDimensionMismatch)
}

func TestAssembleRejectsBadEntries(t *testing.T) {
	s := system.New("bad")
	require.ErrorIs(t, s.Assemble(nil), system.ErrNoMatrix)

	require.NoError(t, s.CreateMatrix([]int{2, 2}, []int{2, 2}))
	defer s.Destroy()

	err := s.Assemble([]deck.Entry{{Type: "E", Name: "E1", Rows: []int{4}, Cols: []int{0}, Values: []float64{1}}})
	require.ErrorIs(t, err, system.ErrBadEntry)

	err = s.Assemble([]deck.Entry{
		{Type: "A", Name: "A1", Rows: []int{0}, Cols: []int{0}, Values: []float64{1}},
		{Type: "A", Name: "A2", Rows: []int{0}, Cols: []int{3, 0}, Values: []float64{1, 2}},
	})
	require.ErrorIs(t, err, blockmatrix.ErrColumnOrder)
	require.Zero(t, s.Matrix().NonZeros())
}

func TestSortedOptionAcceptsAnyOrder(t *testing.T) {
	s := load(t, "t\n.rowblocks 2 2\n.options sorted\nA1 [0] [3 0] 1 2\n")
	require.Equal(t, 1.0, s.Matrix().El(0, 3))
	require.Equal(t, 2.0, s.Matrix().El(0, 0))
}
