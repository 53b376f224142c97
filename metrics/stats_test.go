package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.InDelta(t, 2.0, Mean([]float64{1, 2, 3}), 1e-12)
	assert.Equal(t, 0.0, Mean(nil))
}

func TestSampleStdDev(t *testing.T) {
	// Sample (ddof=1) std of 2,4,4,4,5,5,7,9 is sqrt(32/7).
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.13808993529939, SampleStdDev(xs), 1e-12)

	assert.Equal(t, 0.0, SampleStdDev([]float64{5}))
	assert.Equal(t, 0.0, SampleStdDev(nil))
}

func TestSampleCovariance(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{2, 4, 6, 8}
	// cov(x, 2x) = 2 * var(x); sample var of 1..4 is 5/3.
	assert.InDelta(t, 2*5.0/3.0, SampleCovariance(x, y), 1e-12)
	assert.Equal(t, 0.0, SampleCovariance(x, []float64{1}))
}

func TestPercentileLinear(t *testing.T) {
	xs := make([]float64, 20)
	for i := range xs {
		xs[i] = float64(i + 1) // 1..20
	}

	// Linear interpolation: h = p*(n-1).
	assert.InDelta(t, 1.95, PercentileLinear(xs, 0.05), 1e-12)
	assert.InDelta(t, 1.19, PercentileLinear(xs, 0.01), 1e-12)
	assert.InDelta(t, 10.5, PercentileLinear(xs, 0.50), 1e-12)
	assert.InDelta(t, 1.0, PercentileLinear(xs, 0), 1e-12)
	assert.InDelta(t, 20.0, PercentileLinear(xs, 1), 1e-12)

	// Unsorted input gives the same answer.
	assert.InDelta(t, 10.5, PercentileLinear([]float64{20, 1, 10, 11, 2, 19, 3, 18, 4, 17, 5, 16, 6, 15, 7, 14, 8, 13, 9, 12}, 0.50), 1e-12)
}

func TestSkewness(t *testing.T) {
	v, ok := Skewness([]float64{1, 2, 3, 4, 5})
	assert.True(t, ok)
	assert.InDelta(t, 0.0, v, 1e-12)

	// Right-skewed series.
	v, ok = Skewness([]float64{1, 1, 1, 10})
	assert.True(t, ok)
	assert.Greater(t, v, 0.0)

	_, ok = Skewness([]float64{3, 3, 3})
	assert.False(t, ok)
}

func TestExcessKurtosis(t *testing.T) {
	// Biased excess kurtosis of a symmetric two-point distribution is -2.
	v, ok := ExcessKurtosis([]float64{-1, 1, -1, 1})
	assert.True(t, ok)
	assert.InDelta(t, -2.0, v, 1e-12)

	_, ok = ExcessKurtosis([]float64{3, 3, 3})
	assert.False(t, ok)
}

func TestMaxStreak(t *testing.T) {
	xs := []float64{1, 2, -1, 1, 1, 1, -3}
	assert.Equal(t, 3, MaxStreak(xs, true))
	assert.Equal(t, 1, MaxStreak(xs, false))

	// Zero breaks both streak kinds.
	assert.Equal(t, 1, MaxStreak([]float64{1, 0, 1}, true))
	assert.Equal(t, 0, MaxStreak(nil, true))
}
