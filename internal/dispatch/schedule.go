package dispatch

import (
	"fmt"
	"math"
	"strings"

	"bess-colocation/internal/scenario"
	"bess-colocation/internal/timeseries"
)

// ScheduleParams describes a fixed daily dispatch pattern:
// charge during [ChargeStart, ChargeEnd), discharge during
// [DischargeStart, DischargeEnd), idle otherwise. Times are "HH:MM"
// on the price timestamps' clock; a window whose end precedes its
// start wraps across midnight.
type ScheduleParams struct {
	ChargeStart    string
	ChargeEnd      string
	DischargeStart string
	DischargeEnd   string

	ChargeEfficiency    float64
	DischargeEfficiency float64
}

// DefaultScheduleParams charges through the midday solar hours and
// discharges into the evening peak.
func DefaultScheduleParams() ScheduleParams {
	return ScheduleParams{
		ChargeStart:         "10:00",
		ChargeEnd:           "15:00",
		DischargeStart:      "17:00",
		DischargeEnd:        "21:00",
		ChargeEfficiency:    0.92,
		DischargeEfficiency: 0.92,
	}
}

// ScheduleProvider dispatches on fixed clock windows instead of
// optimizing against prices. It applies the same charge-source limits
// as the planner and tracks state of charge hour by hour, so a full
// battery stops charging and an empty one stops discharging early.
type ScheduleProvider struct {
	Params ScheduleParams

	chargeWin    window
	dischargeWin window
}

// window is a [start, end) span in minutes since midnight.
// start == end means the window is empty; start > end wraps.
type window struct {
	start, end int
}

func (w window) contains(mins int) bool {
	if w.start == w.end {
		return false
	}
	if w.start < w.end {
		return mins >= w.start && mins < w.end
	}
	return mins >= w.start || mins < w.end
}

func NewScheduleProvider(params ScheduleParams) (*ScheduleProvider, error) {
	def := DefaultScheduleParams()
	if strings.TrimSpace(params.ChargeStart) == "" {
		params.ChargeStart = def.ChargeStart
	}
	if strings.TrimSpace(params.ChargeEnd) == "" {
		params.ChargeEnd = def.ChargeEnd
	}
	if strings.TrimSpace(params.DischargeStart) == "" {
		params.DischargeStart = def.DischargeStart
	}
	if strings.TrimSpace(params.DischargeEnd) == "" {
		params.DischargeEnd = def.DischargeEnd
	}
	if params.ChargeEfficiency <= 0 {
		params.ChargeEfficiency = def.ChargeEfficiency
	}
	if params.DischargeEfficiency <= 0 {
		params.DischargeEfficiency = def.DischargeEfficiency
	}

	p := &ScheduleProvider{Params: params}
	var err error
	if p.chargeWin, err = parseWindow(params.ChargeStart, params.ChargeEnd); err != nil {
		return nil, fmt.Errorf("charge window: %w", err)
	}
	if p.dischargeWin, err = parseWindow(params.DischargeStart, params.DischargeEnd); err != nil {
		return nil, fmt.Errorf("discharge window: %w", err)
	}
	return p, nil
}

func (p *ScheduleProvider) Name() string { return "schedule" }

func (p *ScheduleProvider) Dispatch(s scenario.Scenario, prices, solarCF timeseries.Series) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	if prices.Len() == 0 {
		return Result{}, fmt.Errorf("no price intervals")
	}

	solarAvail := alignedSolarMW(prices, solarCF, s.SolarMW)
	energyMWh := s.EnergyCapacityMWh()

	discharge := make([]float64, prices.Len())
	charge := make([]float64, prices.Len())

	// The battery starts empty; the first charge window fills it.
	soc := 0.0
	for i, ts := range prices.Times {
		mins := ts.Hour()*60 + ts.Minute()
		switch {
		case p.chargeWin.contains(mins):
			headroom := s.MaxGridChargeRate*s.BatteryPowerMW + solarAvail[i]
			capMW := math.Min(s.BatteryPowerMW, headroom)
			storable := (1 - soc) * energyMWh
			take := math.Min(capMW, storable/p.Params.ChargeEfficiency)
			if take > 0 {
				charge[i] = take
				soc += take * p.Params.ChargeEfficiency / energyMWh
			}
		case p.dischargeWin.contains(mins):
			withdrawable := soc * energyMWh
			give := math.Min(s.BatteryPowerMW, withdrawable*p.Params.DischargeEfficiency)
			if give > 0 {
				discharge[i] = give
				soc -= give / p.Params.DischargeEfficiency / energyMWh
			}
		}
		if soc < 0 {
			soc = 0
		}
		if soc > 1 {
			soc = 1
		}
	}

	res := Result{
		Discharge: timeseries.Series{Times: prices.Times, Values: discharge},
		Charge:    timeseries.Series{Times: prices.Times, Values: charge},
	}
	if s.SolarMW > 0 {
		res.SolarGen = solarCF.Scale(s.SolarMW)
	}
	return res, nil
}

func parseWindow(start, end string) (window, error) {
	s, err := parseHHMM(start)
	if err != nil {
		return window{}, err
	}
	e, err := parseHHMM(end)
	if err != nil {
		return window{}, err
	}
	return window{start: s, end: e}, nil
}

// parseHHMM converts "HH:MM" to minutes since midnight.
func parseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}
