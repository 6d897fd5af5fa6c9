package timeseries

import (
	"errors"
	"time"
)

// Series is an hourly time series: ascending timestamps with one
// value per timestamp. Operations combining two series match
// positions by timestamp; a timestamp present on one side only
// contributes nothing.
type Series struct {
	Times  []time.Time
	Values []float64
}

// NewSeries builds a Series after checking the shape invariants.
func NewSeries(times []time.Time, values []float64) (Series, error) {
	if len(times) != len(values) {
		return Series{}, errors.New("times and values must have equal length")
	}
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return Series{}, errors.New("times must be strictly ascending")
		}
	}
	return Series{Times: times, Values: values}, nil
}

func (s Series) Len() int { return len(s.Times) }

// Sum returns the plain sum of all values.
func (s Series) Sum() float64 {
	total := 0.0
	for _, v := range s.Values {
		total += v
	}
	return total
}

// Mean returns the arithmetic mean, 0 for an empty series.
func (s Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.Sum() / float64(len(s.Values))
}

// Scale returns a copy with every value multiplied by k. The
// timestamp slice is shared, not copied.
func (s Series) Scale(k float64) Series {
	values := make([]float64, len(s.Values))
	for i, v := range s.Values {
		values[i] = v * k
	}
	return Series{Times: s.Times, Values: values}
}

// MulSum returns the sum of a[t]*b[t] over the timestamps the two
// series share.
func MulSum(a, b Series) float64 {
	total := 0.0
	i, j := 0, 0
	for i < len(a.Times) && j < len(b.Times) {
		switch {
		case a.Times[i].Before(b.Times[j]):
			i++
		case b.Times[j].Before(a.Times[i]):
			j++
		default:
			total += a.Values[i] * b.Values[j]
			i++
			j++
		}
	}
	return total
}
