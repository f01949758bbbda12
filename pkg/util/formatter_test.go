package util_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edp1096/blocklac/pkg/util"
)

func TestFormatValueFactor(t *testing.T) {
	require.Equal(t, "1.500 V", util.FormatValueFactor(1.5, "V"))
	require.Equal(t, "2.000 k", util.FormatValueFactor(2000, ""))
	require.Equal(t, "-3.000 m", util.FormatValueFactor(-3e-3, ""))
	require.Equal(t, "4.000 uA", util.FormatValueFactor(4e-6, "A"))
	require.Equal(t, "0.000", util.FormatValueFactor(0, ""))
	require.Equal(t, "1.000e-15", util.FormatValueFactor(1e-15, ""))
}

func TestFormatMagnitude(t *testing.T) {
	require.Equal(t, "1.00e+03", util.FormatMagnitude(1000))
	require.Equal(t, "     0.5", util.FormatMagnitude(0.5))
	require.Equal(t, "       0", util.FormatMagnitude(0))
}

func TestFormatVector(t *testing.T) {
	require.Equal(t, "Y[0] =        2\nY[1] =       10\n", util.FormatVector("Y", []float64{2, 10}))
}
