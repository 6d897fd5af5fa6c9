package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bess-colocation/internal/scenario"
	"bess-colocation/internal/timeseries"
)

func flatDayPrices(t *testing.T) timeseries.Series {
	values := make([]float64, 24)
	for i := range values {
		values[i] = 50
	}
	return hourly(t, dayStart, values)
}

func TestNewScheduleProviderDefaults(t *testing.T) {
	p, err := NewScheduleProvider(ScheduleParams{})
	require.NoError(t, err)

	assert.Equal(t, "10:00", p.Params.ChargeStart)
	assert.Equal(t, "15:00", p.Params.ChargeEnd)
	assert.Equal(t, "17:00", p.Params.DischargeStart)
	assert.Equal(t, "21:00", p.Params.DischargeEnd)
	assert.InDelta(t, 0.92, p.Params.ChargeEfficiency, 1e-9)
	assert.InDelta(t, 0.92, p.Params.DischargeEfficiency, 1e-9)
	assert.Equal(t, "schedule", p.Name())
}

func TestNewScheduleProviderRejectsBadTimes(t *testing.T) {
	_, err := NewScheduleProvider(ScheduleParams{ChargeStart: "25:00"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "charge window")

	_, err = NewScheduleProvider(ScheduleParams{DischargeEnd: "7pm"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discharge window")
}

func TestScheduleFollowsWindows(t *testing.T) {
	s, err := scenario.NewStandalone(10, 2, "", nil)
	require.NoError(t, err)

	p, err := NewScheduleProvider(ScheduleParams{})
	require.NoError(t, err)

	res, err := p.Dispatch(s, flatDayPrices(t), timeseries.Series{})
	require.NoError(t, err)

	// Full power until the 20 MWh pack fills, then nothing.
	assert.InDelta(t, 10.0, res.Charge.Values[10], 1e-9)
	assert.InDelta(t, 10.0, res.Charge.Values[11], 1e-9)
	assert.InDelta(t, 0, res.Charge.Values[13], 1e-9)
	assert.InDelta(t, 0, res.Charge.Values[14], 1e-9)

	// Discharges at full power, then whatever charge remains.
	assert.InDelta(t, 10.0, res.Discharge.Values[17], 1e-9)
	assert.Positive(t, res.Discharge.Values[18])
	assert.InDelta(t, 0, res.Discharge.Values[19], 1e-9)

	// Idle outside both windows.
	for _, h := range []int{0, 5, 9, 15, 16, 21, 23} {
		assert.Zero(t, res.Charge.Values[h], "hour %d", h)
		assert.Zero(t, res.Discharge.Values[h], "hour %d", h)
	}
}

func TestScheduleConservesEnergy(t *testing.T) {
	s, err := scenario.NewStandalone(10, 2, "", nil)
	require.NoError(t, err)

	p, err := NewScheduleProvider(ScheduleParams{})
	require.NoError(t, err)

	res, err := p.Dispatch(s, flatDayPrices(t), timeseries.Series{})
	require.NoError(t, err)

	// Round-trip losses: out = in * etaC * etaD.
	in := res.Charge.Sum()
	out := res.Discharge.Sum()
	assert.InDelta(t, in*0.92*0.92, out, 1e-6)
	assert.InDelta(t, 20.0/0.92, in, 1e-6)
}

func TestScheduleWrapsMidnight(t *testing.T) {
	s, err := scenario.NewStandalone(10, 2, "", nil)
	require.NoError(t, err)

	p, err := NewScheduleProvider(ScheduleParams{
		DischargeStart: "23:00",
		DischargeEnd:   "01:00",
	})
	require.NoError(t, err)

	res, err := p.Dispatch(s, flatDayPrices(t), timeseries.Series{})
	require.NoError(t, err)

	// Hour 0 is inside the wrapped window but the battery starts empty.
	assert.Zero(t, res.Discharge.Values[0])
	assert.Positive(t, res.Discharge.Values[23])
}

func TestScheduleEmptyWindowIsIdle(t *testing.T) {
	s, err := scenario.NewStandalone(10, 2, "", nil)
	require.NoError(t, err)

	p, err := NewScheduleProvider(ScheduleParams{ChargeStart: "10:00", ChargeEnd: "10:00"})
	require.NoError(t, err)

	res, err := p.Dispatch(s, flatDayPrices(t), timeseries.Series{})
	require.NoError(t, err)
	assert.Zero(t, res.Charge.Sum())
	assert.Zero(t, res.Discharge.Sum())
}

func TestScheduleDCCoupledNeedsSolar(t *testing.T) {
	s, err := scenario.NewDCCoupled(10, 2, 20, "", nil)
	require.NoError(t, err)

	p, err := NewScheduleProvider(ScheduleParams{})
	require.NoError(t, err)

	// Without solar there is nothing to charge from.
	res, err := p.Dispatch(s, flatDayPrices(t), timeseries.Series{})
	require.NoError(t, err)
	assert.Zero(t, res.Charge.Sum())
	assert.Zero(t, res.Discharge.Sum())

	// With midday sun the charge window is solar-bounded.
	cf := make([]float64, 24)
	for h := 8; h <= 16; h++ {
		cf[h] = 0.25
	}
	solarCF := hourly(t, dayStart, cf)

	res, err = p.Dispatch(s, flatDayPrices(t), solarCF)
	require.NoError(t, err)
	for i := range res.Charge.Values {
		assert.LessOrEqual(t, res.Charge.Values[i], cf[i]*s.SolarMW+1e-9, "hour %d", i)
	}
	assert.Positive(t, res.Charge.Sum())
	assert.Positive(t, res.Discharge.Values[17])
}
