// Package stats provides the rolling statistics primitives shared by the
// baseline calculator and the trend analyzer: mean, sample standard
// deviation, z-scores, percentiles, moving averages and Bollinger
// envelopes.
//
// All functions are pure and operate on plain float64 slices. Standard
// deviations returned here may be zero; callers dividing by a deviation
// must go through SafeStddev so a flat or single-sample window never
// produces NaN or infinity.
package stats

import (
	"math"
	"sort"
)

// Epsilon is the floor applied to standard deviations used as divisors.
const Epsilon = 1e-6

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Stddev returns the sample standard deviation (n-1 denominator).
// Windows with fewer than two values have no spread and return 0.
func Stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// SafeStddev floors sd to Epsilon so it is always a valid divisor.
func SafeStddev(sd float64) float64 {
	if sd < Epsilon {
		return Epsilon
	}
	return sd
}

// ZScore returns (value - mean) / stddev with the divisor floored.
func ZScore(value, mean, stddev float64) float64 {
	return (value - mean) / SafeStddev(stddev)
}

// Percentile returns the p-th percentile (0-100) of values using the
// nearest-rank method. An empty slice yields 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p = math.Max(0, math.Min(100, p))
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

// SMA returns the simple moving average over the trailing window ending
// at the last element. Shorter inputs average what is available.
func SMA(values []float64, window int) float64 {
	if len(values) == 0 || window <= 0 {
		return 0
	}
	if window > len(values) {
		window = len(values)
	}
	return Mean(values[len(values)-window:])
}

// EMA returns the exponential moving average series of values with
// smoothing alpha = 2/(period+1), seeded with the first value.
func EMA(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	if period < 1 {
		period = 1
	}
	alpha := 2.0 / float64(period+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// Bands is a Bollinger envelope: a trailing mean with upper and lower
// bounds at k standard deviations.
type Bands struct {
	Middle float64
	Upper  float64
	Lower  float64
}

// Bollinger computes the SMA +/- k*stddev envelope over the trailing
// window ending at the last element. Used both for score smoothing and
// for the adaptive volatility-tier thresholds.
func Bollinger(values []float64, window int, k float64) Bands {
	if len(values) == 0 || window <= 0 {
		return Bands{}
	}
	if window > len(values) {
		window = len(values)
	}
	tail := values[len(values)-window:]
	m := Mean(tail)
	sd := Stddev(tail)
	return Bands{
		Middle: m,
		Upper:  m + k*sd,
		Lower:  m - k*sd,
	}
}
