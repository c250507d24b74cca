package report

import (
	"math"
	"strconv"
)

// FormatFloat renders v in %g style with six significant digits. Non-finite
// values print as nan, inf and -inf.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
