package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hours(t *testing.T, start time.Time, values ...float64) Series {
	t.Helper()
	times := make([]time.Time, len(values))
	for i := range values {
		times[i] = start.Add(time.Duration(i) * time.Hour)
	}
	s, err := NewSeries(times, values)
	require.NoError(t, err)
	return s
}

func TestNewSeriesRejectsBadShapes(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewSeries([]time.Time{t0}, []float64{1, 2})
	require.Error(t, err)

	_, err = NewSeries([]time.Time{t0.Add(time.Hour), t0}, []float64{1, 2})
	require.Error(t, err)

	// Duplicate timestamps are not ascending.
	_, err = NewSeries([]time.Time{t0, t0}, []float64{1, 2})
	require.Error(t, err)
}

func TestSumMeanScale(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := hours(t, t0, 10, 20, 30)

	assert.InDelta(t, 60.0, s.Sum(), 1e-9)
	assert.InDelta(t, 20.0, s.Mean(), 1e-9)

	doubled := s.Scale(2)
	assert.InDelta(t, 120.0, doubled.Sum(), 1e-9)
	// Original untouched.
	assert.InDelta(t, 10.0, s.Values[0], 1e-9)

	assert.Zero(t, Series{}.Sum())
	assert.Zero(t, Series{}.Mean())
}

func TestMulSumAligned(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := hours(t, t0, 1, 2, 3)
	b := hours(t, t0, 10, 20, 30)

	// 1*10 + 2*20 + 3*30 = 140.
	assert.InDelta(t, 140.0, MulSum(a, b), 1e-9)
}

func TestMulSumMisalignedContributesZero(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := hours(t, t0, 1, 2, 3)
	// b starts one hour later: only hours 1 and 2 overlap.
	b := hours(t, t0.Add(time.Hour), 20, 30)

	// 2*20 + 3*30 = 130.
	assert.InDelta(t, 130.0, MulSum(a, b), 1e-9)

	// Disjoint series share nothing.
	c := hours(t, t0.Add(240*time.Hour), 5, 5)
	assert.Zero(t, MulSum(a, c))

	assert.Zero(t, MulSum(a, Series{}))
}

func TestComputeStats(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := hours(t, t0, 3, 1, 5, 2, 4)

	st := ComputeStats(s)
	assert.Equal(t, 5, st.Count)
	assert.Equal(t, t0, st.Start)
	assert.Equal(t, t0.Add(4*time.Hour), st.End)
	assert.InDelta(t, 1.0, st.Min, 1e-9)
	assert.InDelta(t, 5.0, st.Max, 1e-9)
	assert.InDelta(t, 3.0, st.Mean, 1e-9)

	// Interpolated order stats over [1 2 3 4 5].
	assert.InDelta(t, 1.2, st.P05, 1e-9)
	assert.InDelta(t, 4.8, st.P95, 1e-9)
	assert.InDelta(t, 3.6, st.SpreadP95P05, 1e-9)
}

func TestComputeStatsEmpty(t *testing.T) {
	st := ComputeStats(Series{})
	assert.Zero(t, st.Count)
	assert.Zero(t, st.Mean)
}
