package domain

import (
	"math"
	"slices"
)

// Summary holds descriptive statistics matching a pandas describe() of a
// numeric series: count, mean, sample standard deviation, min, quartiles, max.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	P25   float64 `json:"p25"`
	P50   float64 `json:"p50"`
	P75   float64 `json:"p75"`
	Max   float64 `json:"max"`
}

// Describe summarizes values, skipping NaN. Statistics of an empty series are
// NaN with a zero count; the standard deviation of a single value is NaN.
func Describe(values []float64) Summary {
	clean := dropNaN(values)
	n := len(clean)
	if n == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, Std: nan, Min: nan, P25: nan, P50: nan, P75: nan, Max: nan}
	}
	slices.Sort(clean)

	var sum float64
	for _, v := range clean {
		sum += v
	}
	mean := sum / float64(n)

	std := math.NaN()
	if n > 1 {
		var ss float64
		for _, v := range clean {
			d := v - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(n-1))
	}

	return Summary{
		Count: n,
		Mean:  mean,
		Std:   std,
		Min:   clean[0],
		P25:   sortedQuantile(clean, 0.25),
		P50:   sortedQuantile(clean, 0.5),
		P75:   sortedQuantile(clean, 0.75),
		Max:   clean[n-1],
	}
}

// Quantile returns the q-th quantile of values using linear interpolation
// between closest ranks, skipping NaN. It returns NaN for an empty series.
func Quantile(values []float64, q float64) float64 {
	clean := dropNaN(values)
	if len(clean) == 0 {
		return math.NaN()
	}
	slices.Sort(clean)
	return sortedQuantile(clean, q)
}

func sortedQuantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
