package util

import (
	"fmt"
	"math"
	"strings"
)

// FormatValueFactor prints value with an engineering prefix. unit may be empty.
func FormatValueFactor(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case absValue == 0:
		return strings.TrimSpace(fmt.Sprintf("%.3f %s", value, unit))
	case absValue >= 1e6:
		return fmt.Sprintf("%.3e %s", value, unit)
	case absValue >= 1e3:
		return fmt.Sprintf("%.3f k%s", value/1e3, unit)
	case absValue >= 1:
		return strings.TrimSpace(fmt.Sprintf("%.3f %s", value, unit))
	case absValue >= 1e-3:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case absValue >= 1e-6:
		return fmt.Sprintf("%.3f u%s", value*1e6, unit)
	case absValue >= 1e-9:
		return fmt.Sprintf("%.3f n%s", value*1e9, unit)
	case absValue >= 1e-12:
		return fmt.Sprintf("%.3f p%s", value*1e12, unit)
	default:
		return strings.TrimSpace(fmt.Sprintf("%.3e %s", value, unit))
	}
}

func FormatMagnitude(value float64) string {
	if value >= 1000 || (value < 0.001 && value != 0) {
		return fmt.Sprintf("%8.2e", value) // "1.00e+03" or "5.43e-05"
	}
	return fmt.Sprintf("%8.3g", value) // "  732.5 "
}

// FormatVector prints name[i] = value lines, one entry per line.
func FormatVector(name string, values []float64) string {
	var sb strings.Builder
	for i, value := range values {
		fmt.Fprintf(&sb, "%s[%d] = %s\n", name, i, FormatMagnitude(value))
	}
	return sb.String()
}
