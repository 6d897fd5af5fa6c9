package timeseries

import (
	"math"
	"sort"
	"time"
)

// Stats is a distribution summary of one series. For prices, the
// P95-P05 spread is the working signal for arbitrage headroom.
type Stats struct {
	Start time.Time
	End   time.Time
	Count int

	Min  float64
	Max  float64
	Mean float64
	P05  float64
	P95  float64

	SpreadP95P05 float64
}

func ComputeStats(s Series) Stats {
	st := Stats{}
	if s.Len() == 0 {
		return st
	}
	st.Start = s.Times[0]
	st.End = s.Times[s.Len()-1]
	st.Count = s.Len()

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, s.Len())
	for _, v := range s.Values {
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	sort.Float64s(vals)
	st.Min = minv
	st.Max = maxv
	st.Mean = sum / float64(len(vals))
	st.P05 = percentileSorted(vals, 0.05)
	st.P95 = percentileSorted(vals, 0.95)
	st.SpreadP95P05 = st.P95 - st.P05
	return st
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
