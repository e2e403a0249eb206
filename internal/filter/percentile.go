// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"math"
	"sort"
)

// Percentile returns the q-quantile (0 <= q <= 1) of values using linear
// interpolation between the two closest ranks. It reports false for an
// empty input. values is not modified.
func Percentile(values []float64, q float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	q = math.Min(math.Max(q, 0), 1)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo], true
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac, true
}
