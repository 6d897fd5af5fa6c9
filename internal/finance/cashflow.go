package finance

import (
	"errors"
	"math"

	"bess-colocation/internal/scenario"
)

// CashFlowRow is one year of the project cash flow table.
// Conventions:
// - Year 0 carries the construction capex outflow only.
// - Capex and Opex are stored as outflows (negative).
// - NetCashFlow equals EBITDA in operating years; the model is
//   unlevered and pre-tax.
type CashFlowRow struct {
	Year        int
	Capex       float64
	Revenue     float64
	Opex        float64
	EBITDA      float64
	NetCashFlow float64
}

// Table is a project cash flow, year 0 (construction) first.
type Table []CashFlowRow

// NetCashFlows returns the net cash flow series in year order.
func (t Table) NetCashFlows() []float64 {
	out := make([]float64, len(t))
	for i, r := range t {
		out[i] = r.NetCashFlow
	}
	return out
}

// Cumulative returns the running sum of net cash flows.
func (t Table) Cumulative() []float64 {
	out := make([]float64, len(t))
	sum := 0.0
	for i, r := range t {
		sum += r.NetCashFlow
		out[i] = sum
	}
	return out
}

// AnnualOpex returns the operating cost for one year in $, as a
// positive number. Battery and solar O&M scale with their installed
// capex, insurance with total capex, and the sum inflates at the
// configured rate from year 1.
func AnnualOpex(s scenario.Scenario, params Params, year int) float64 {
	batteryOpex := s.BatteryCapex() * params.OpexBatteryPctOfCapex
	solarOpex := s.SolarCapex() * params.OpexSolarPctOfCapex
	insurance := s.TotalCapex() * params.InsurancePctOfCapex

	inflationFactor := math.Pow(1+params.Inflation, float64(year-1))
	return (batteryOpex + solarOpex + insurance) * inflationFactor
}

// DegradedStream expands a first-year quantity into a per-year
// stream declining at the given annual rate:
// value[y] = firstYear * (1-annualRate)^(y-1).
func DegradedStream(firstYear, annualRate float64, years int) []float64 {
	out := make([]float64, years)
	for y := 1; y <= years; y++ {
		out[y-1] = firstYear * math.Pow(1-annualRate, float64(y-1))
	}
	return out
}

// Project builds the cash flow table for a scenario given its revenue
// for each operating year. The table always spans the full project
// life; when fewer revenues than operating years are supplied the
// last value is held flat.
func Project(s scenario.Scenario, annualRevenues []float64, params Params) (Table, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(annualRevenues) == 0 {
		return nil, errors.New("annualRevenues must not be empty")
	}

	table := make(Table, 0, params.ProjectLifeYears+1)
	table = append(table, CashFlowRow{
		Year:        0,
		Capex:       -s.TotalCapex(),
		NetCashFlow: -s.TotalCapex(),
	})

	for year := 1; year <= params.ProjectLifeYears; year++ {
		revenue := annualRevenues[len(annualRevenues)-1]
		if year <= len(annualRevenues) {
			revenue = annualRevenues[year-1]
		}
		opex := AnnualOpex(s, params, year)
		ebitda := revenue - opex

		table = append(table, CashFlowRow{
			Year:        year,
			Revenue:     revenue,
			Opex:        -opex,
			EBITDA:      ebitda,
			NetCashFlow: ebitda,
		})
	}
	return table, nil
}
