package data

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interval(start time.Time, region string, rrp float64) PriceInterval {
	return PriceInterval{
		IntervalStartUTC: start,
		IntervalEndUTC:   start.Add(time.Hour),
		Region:           region,
		RRP:              rrp,
	}
}

func TestRegionSeriesSortsAndFilters(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	resp := &PriceResponse{
		StatusCode: 200,
		Data: []PriceInterval{
			interval(t0.Add(2*time.Hour), RegionNSW, 80),
			interval(t0, RegionNSW, 40),
			interval(t0.Add(time.Hour), RegionVIC, 999),
			interval(t0.Add(time.Hour), RegionNSW, 55),
		},
	}

	s, err := RegionSeries(resp, RegionNSW)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{40, 55, 80}, s.Values)
	assert.True(t, s.Times[0].Equal(t0))
}

func TestRegionSeriesKeepsLastDuplicate(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	resp := &PriceResponse{
		Data: []PriceInterval{
			interval(t0, RegionNSW, 40),
			interval(t0, RegionNSW, 45),
			interval(t0.Add(time.Hour), RegionNSW, 50),
		},
	}

	s, err := RegionSeries(resp, RegionNSW)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, 45.0, s.Values[0])
}

func TestRegionSeriesErrors(t *testing.T) {
	_, err := RegionSeries(nil, RegionNSW)
	require.Error(t, err)

	_, err = RegionSeries(&PriceResponse{}, RegionNSW)
	require.Error(t, err)

	t0 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	resp := &PriceResponse{Data: []PriceInterval{interval(t0, RegionVIC, 40)}}
	_, err = RegionSeries(resp, RegionNSW)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NSW1")
}

func TestSaveAndLoadPriceJSON(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	resp := &PriceResponse{
		StatusCode: 200,
		Data: []PriceInterval{
			interval(t0, RegionSA, -12.5),
			interval(t0.Add(time.Hour), RegionSA, 310),
		},
	}

	path := filepath.Join(t.TempDir(), "cache", "sa1.json")
	require.NoError(t, SavePriceJSON(resp, path))

	got, err := LoadPriceJSON(path)
	require.NoError(t, err)
	require.Len(t, got.Data, 2)
	assert.Equal(t, -12.5, got.Data[0].RRP)
	assert.True(t, got.Data[0].IntervalStartUTC.Equal(t0))

	_, err = LoadPriceJSON(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
