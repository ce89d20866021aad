package metrics

import (
	"math"
	"sort"
)

// round rounds n to the given number of decimal places.
func round(n float64, decimals int) float64 {
	f := math.Pow(10, float64(decimals))
	return math.Round(n*f) / f
}

// round2 rounds to 2 decimal places, the default for currency and ratio fields.
func round2(n float64) float64 {
	return round(n, 2)
}

// mean returns the arithmetic mean of values. Callers guarantee len > 0.
func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// percentile returns the value at quantile p using floor index selection
// over the sorted values. Returns 0 for an empty slice.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	idx := int(math.Floor(float64(len(sorted)-1) * p))
	return sorted[idx]
}

// ptr returns a pointer to v.
func ptr(v float64) *float64 {
	return &v
}

// meanPtr returns a pointer to the rounded mean of values, or nil when empty.
func meanPtr(values []float64, decimals int) *float64 {
	if len(values) == 0 {
		return nil
	}
	return ptr(round(mean(values), decimals))
}
