package data

import (
	"fmt"
	"sort"
	"time"

	"bess-colocation/internal/timeseries"
)

// PriceResponse matches the JSON envelope the price API returns and
// the shape SavePriceJSON writes.
//
// Example:
// {
//   "status_code": 200,
//   "data": [ ... ]
// }
type PriceResponse struct {
	StatusCode int             `json:"status_code"`
	Data       []PriceInterval `json:"data"`
}

// PriceInterval represents one settlement interval for a region.
// Timestamps are provided in the JSON as RFC3339 strings.
type PriceInterval struct {
	IntervalStartUTC time.Time `json:"interval_start_utc"`
	IntervalEndUTC   time.Time `json:"interval_end_utc"`

	Region string `json:"region"`

	// RRP is the regional reference price in $/MWh.
	RRP float64 `json:"rrp"`
}

func (i PriceInterval) Duration() time.Duration {
	return i.IntervalEndUTC.Sub(i.IntervalStartUTC)
}

func (i PriceInterval) DurationHours() float64 {
	return i.Duration().Hours()
}

// RegionSeries converts the intervals for one region into a price
// series keyed by interval start. Intervals are sorted by start time
// and a duplicated timestamp keeps the last value seen. An empty
// region takes every interval in the response.
func RegionSeries(resp *PriceResponse, region string) (timeseries.Series, error) {
	if resp == nil || len(resp.Data) == 0 {
		return timeseries.Series{}, fmt.Errorf("price response has no data")
	}

	rows := make([]PriceInterval, 0, len(resp.Data))
	for _, it := range resp.Data {
		if region != "" && it.Region != region {
			continue
		}
		rows = append(rows, it)
	}
	if len(rows) == 0 {
		return timeseries.Series{}, fmt.Errorf("price response has no intervals for region %q", region)
	}

	sort.Slice(rows, func(a, b int) bool {
		return rows[a].IntervalStartUTC.Before(rows[b].IntervalStartUTC)
	})

	times := make([]time.Time, 0, len(rows))
	values := make([]float64, 0, len(rows))
	for _, it := range rows {
		if n := len(times); n > 0 && times[n-1].Equal(it.IntervalStartUTC) {
			values[n-1] = it.RRP
			continue
		}
		times = append(times, it.IntervalStartUTC)
		values = append(values, it.RRP)
	}
	return timeseries.NewSeries(times, values)
}
