package finance

import (
	"math"

	"bess-colocation/internal/scenario"
)

// IRR returns the unlevered internal rate of return: the discount
// rate at which the table's NPV is zero, searched on (-0.99, 10.0).
// ok is false when the flows never change sign on that band, which
// leaves the metric undefined (e.g. all-negative cash flows).
func IRR(t Table) (irr float64, ok bool) {
	flows := t.NetCashFlows()
	if len(flows) == 0 {
		return 0, false
	}
	return brentq(func(rate float64) float64 {
		return npvAt(rate, flows)
	}, -0.99, 10.0)
}

// NPV discounts the net cash flows at the given annual rate. Year 0
// is undiscounted, so NPV at rate 0 equals the plain sum.
func NPV(t Table, rate float64) float64 {
	return npvAt(rate, t.NetCashFlows())
}

func npvAt(rate float64, flows []float64) float64 {
	total := 0.0
	for i, cf := range flows {
		total += cf / math.Pow(1+rate, float64(i))
	}
	return total
}

// Payback returns the fractional year at which cumulative net cash
// flow first becomes non-negative, interpolating within the crossing
// year. Projects that never recover their outflows return +Inf.
func Payback(t Table) float64 {
	cumulative := 0.0
	for i, r := range t {
		prev := cumulative
		cumulative += r.NetCashFlow
		if cumulative >= 0 {
			if i == 0 {
				return 0
			}
			return float64(i-1) + -prev/r.NetCashFlow
		}
	}
	return math.Inf(1)
}

// LCOE returns the levelized cost of energy in $/MWh: capex plus
// undiscounted lifetime opex, divided by lifetime generation with
// battery degradation applied. Zero lifetime generation returns +Inf.
func LCOE(s scenario.Scenario, annualGenerationMWh float64, params Params) float64 {
	totalOpex := 0.0
	for year := 1; year <= params.ProjectLifeYears; year++ {
		totalOpex += AnnualOpex(s, params, year)
	}
	totalCost := s.TotalCapex() + totalOpex

	totalGen := 0.0
	for year := 1; year <= params.ProjectLifeYears; year++ {
		totalGen += annualGenerationMWh * math.Pow(1-params.BatteryDegradationAnnual, float64(year-1))
	}
	if totalGen == 0 {
		return math.Inf(1)
	}
	return totalCost / totalGen
}
