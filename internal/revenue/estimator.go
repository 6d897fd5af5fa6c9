package revenue

import (
	"errors"

	"bess-colocation/internal/scenario"
	"bess-colocation/internal/timeseries"
)

// Revenue source tags, recorded on every Breakdown so downstream
// consumers can tell a dispatch-based estimate from the benchmark
// shortcut.
const (
	SourceDispatch  = "dispatch"
	SourceBenchmark = "benchmark"
)

// Assumptions tune the simplified revenue components layered on top
// of dispatch results, and the benchmark fallback.
// Units:
// - FCASShareOfArbitrage, PPACapacityFactor, NoGridChargeHaircut: fractions
// - BenchmarkPerMWYear: $/MW/year at the benchmark MLF
type Assumptions struct {
	FCASShareOfArbitrage float64
	PPACapacityFactor    float64
	BenchmarkPerMWYear   float64
	BenchmarkMLF         float64
	NoGridChargeHaircut  float64
}

func DefaultAssumptions() Assumptions {
	return Assumptions{
		FCASShareOfArbitrage: 0.10,
		PPACapacityFactor:    0.30,
		BenchmarkPerMWYear:   100_000,
		BenchmarkMLF:         0.98,
		NoGridChargeHaircut:  0.70,
	}
}

func (a Assumptions) Validate() error {
	if a.FCASShareOfArbitrage < 0 || a.FCASShareOfArbitrage > 1 {
		return errors.New("FCASShareOfArbitrage must be in [0, 1]")
	}
	if a.PPACapacityFactor <= 0 || a.PPACapacityFactor > 1 {
		return errors.New("PPACapacityFactor must be in (0, 1]")
	}
	if a.BenchmarkPerMWYear <= 0 {
		return errors.New("BenchmarkPerMWYear must be > 0")
	}
	if a.BenchmarkMLF <= 0 || a.BenchmarkMLF > 1 {
		return errors.New("BenchmarkMLF must be in (0, 1]")
	}
	if a.NoGridChargeHaircut <= 0 || a.NoGridChargeHaircut > 1 {
		return errors.New("NoGridChargeHaircut must be in (0, 1]")
	}
	return nil
}

// Breakdown is one year of revenue by component in $. ChargeCost is
// an outflow (negative when charging at positive prices). Benchmark
// estimates carry only Total; the shortcut is not decomposable.
type Breakdown struct {
	Arbitrage  float64
	ChargeCost float64
	Solar      float64
	FCAS       float64
	PPA        float64
	Total      float64
	Source     string
}

// EstimateFromDispatch prices a year of dispatch results. Energy
// components multiply volume by price by MLF over the timestamps the
// series share; positions missing on either side contribute nothing.
// FCAS is approximated as a share of arbitrage revenue and the PPA
// as contracted load at an assumed delivery capacity factor.
func EstimateFromDispatch(s scenario.Scenario, prices, discharge, charge, solarGen timeseries.Series, asm Assumptions) Breakdown {
	b := Breakdown{Source: SourceDispatch}

	b.Arbitrage = timeseries.MulSum(discharge, prices) * s.MLF
	b.ChargeCost = -timeseries.MulSum(charge, prices) * s.MLF

	if s.SolarMW > 0 {
		b.Solar = timeseries.MulSum(solarGen, prices) * s.MLF
	}

	if s.FCASEnabled {
		b.FCAS = b.Arbitrage * asm.FCASShareOfArbitrage
	}

	if s.PPAEnabled {
		b.PPA = s.PPALoadMW * 8760 * asm.PPACapacityFactor * s.PPAPricePerMWh
	}

	b.Total = b.Arbitrage + b.ChargeCost + b.Solar + b.FCAS + b.PPA
	return b
}

// EstimateFallback returns the benchmark annual revenue in $: a
// $/MW/year figure scaled by the scenario's MLF relative to the
// benchmark siting, with a haircut when the battery cannot charge
// from the grid.
func EstimateFallback(s scenario.Scenario, asm Assumptions) float64 {
	estimate := s.BatteryPowerMW * asm.BenchmarkPerMWYear
	if !s.GridCharging {
		estimate *= asm.NoGridChargeHaircut
	}
	return estimate * (s.MLF / asm.BenchmarkMLF)
}

// BenchmarkBreakdown wraps EstimateFallback in a Breakdown tagged
// with its provenance.
func BenchmarkBreakdown(s scenario.Scenario, asm Assumptions) Breakdown {
	return Breakdown{
		Total:  EstimateFallback(s, asm),
		Source: SourceBenchmark,
	}
}
