// Package metrics derives the per-day and window-level analytics for the
// index series: returns, rolling risk figures, drawdowns, turnover and the
// summary ratio battery.
package metrics

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// SampleVariance returns the ddof=1 variance, 0 when fewer than 2 values.
func SampleVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs)-1)
}

// SampleStdDev returns the ddof=1 standard deviation, 0 when fewer than 2
// values.
func SampleStdDev(xs []float64) float64 {
	return math.Sqrt(SampleVariance(xs))
}

// SampleCovariance returns the ddof=1 covariance of two equal-length series,
// 0 when fewer than 2 pairs.
func SampleCovariance(xs, ys []float64) float64 {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return 0
	}
	mx, my := Mean(xs), Mean(ys)
	sum := 0.0
	for i := range xs {
		sum += (xs[i] - mx) * (ys[i] - my)
	}
	return sum / float64(n-1)
}

// PercentileLinear returns the p-quantile (p in [0,1]) of xs under linear
// interpolation between closest ranks. Input order does not matter.
func PercentileLinear(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}

	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	frac := h - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Skewness returns the third standardized moment (biased estimator).
// ok is false when the series has no spread.
func Skewness(xs []float64) (v float64, ok bool) {
	m2, m3 := centralMoments(xs, 2), centralMoments(xs, 3)
	if m2 == 0 {
		return 0, false
	}
	return m3 / math.Pow(m2, 1.5), true
}

// ExcessKurtosis returns the fourth standardized moment minus 3, so a normal
// distribution scores 0. ok is false when the series has no spread.
func ExcessKurtosis(xs []float64) (v float64, ok bool) {
	m2, m4 := centralMoments(xs, 2), centralMoments(xs, 4)
	if m2 == 0 {
		return 0, false
	}
	return m4/(m2*m2) - 3, true
}

func centralMoments(xs []float64, k int) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := Mean(xs)
	sum := 0.0
	for _, x := range xs {
		sum += math.Pow(x-m, float64(k))
	}
	return sum / float64(len(xs))
}

// MaxStreak returns the longest run of consecutive values that are strictly
// positive (positive=true) or strictly negative. A zero breaks both kinds.
func MaxStreak(xs []float64, positive bool) int {
	maxStreak, cur := 0, 0
	for _, x := range xs {
		if (positive && x > 0) || (!positive && x < 0) {
			cur++
			if cur > maxStreak {
				maxStreak = cur
			}
		} else {
			cur = 0
		}
	}
	return maxStreak
}
