package units

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders a conversion result. Very large or very small
// magnitudes use %g with six significant digits, integral values have no
// decimal point, everything else keeps up to four decimals.
func FormatNumber(v float64) string {
	abs := math.Abs(v)
	switch {
	case v == 0:
		return "0"
	case abs >= 1e6 || abs < 0.001:
		return strconv.FormatFloat(v, 'g', 6, 64)
	case v == math.Floor(v):
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
