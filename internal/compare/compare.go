package compare

import (
	"fmt"
	"log"

	"bess-colocation/internal/dispatch"
	"bess-colocation/internal/finance"
	"bess-colocation/internal/revenue"
	"bess-colocation/internal/scenario"
	"bess-colocation/internal/timeseries"
)

// Inputs bundles the market data a comparison runs against. The
// series should cover one analysis year; their totals are taken as
// year-1 values.
type Inputs struct {
	Prices  timeseries.Series
	SolarCF timeseries.Series
}

// Summary is the financial outcome of one scenario. IRRDefined is
// false when the cash flows never change sign; PaybackYears and LCOE
// use +Inf as their never/undefined sentinel.
type Summary struct {
	Key          string
	ScenarioName string
	Description  string

	BatteryPowerMW float64
	BatteryHours   float64
	SolarMW        float64
	Region         string

	TotalCapex   float64
	Year1Revenue float64
	Year1Opex    float64

	IRR          float64
	IRRDefined   bool
	NPV          float64
	PaybackYears float64

	AnnualGenerationMWh float64
	LCOE                float64

	MLF          float64
	GridCharging bool
	FCASEnabled  bool

	RevenueSource string
	Breakdown     revenue.Breakdown

	CashFlows finance.Table
}

// Runner evaluates scenarios into summaries. A nil Provider skips
// dispatch and prices every scenario with the benchmark fallback.
type Runner struct {
	Provider    dispatch.Provider
	Finance     finance.Params
	Assumptions revenue.Assumptions
}

func NewRunner(provider dispatch.Provider) *Runner {
	return &Runner{
		Provider:    provider,
		Finance:     finance.DefaultParams(),
		Assumptions: revenue.DefaultAssumptions(),
	}
}

// Evaluate runs one scenario end to end: dispatch (or the benchmark
// fallback), revenue, the degraded multi-year revenue stream, cash
// flows, and return metrics.
func (r *Runner) Evaluate(s scenario.Scenario, in Inputs) (Summary, error) {
	if err := s.Validate(); err != nil {
		return Summary{}, err
	}
	if err := r.Finance.Validate(); err != nil {
		return Summary{}, err
	}
	if err := r.Assumptions.Validate(); err != nil {
		return Summary{}, err
	}

	breakdown, generationMWh := r.estimate(s, in)

	annualRevenues := finance.DegradedStream(breakdown.Total, r.Finance.BatteryDegradationAnnual, r.Finance.ProjectLifeYears)
	table, err := finance.Project(s, annualRevenues, r.Finance)
	if err != nil {
		return Summary{}, err
	}

	irr, irrOK := finance.IRR(table)

	return Summary{
		Key:          s.Key,
		ScenarioName: s.Name,
		Description:  s.Description,

		BatteryPowerMW: s.BatteryPowerMW,
		BatteryHours:   s.BatteryHours,
		SolarMW:        s.SolarMW,
		Region:         s.Region,

		TotalCapex:   s.TotalCapex(),
		Year1Revenue: breakdown.Total,
		Year1Opex:    finance.AnnualOpex(s, r.Finance, 1),

		IRR:          irr,
		IRRDefined:   irrOK,
		NPV:          finance.NPV(table, r.Finance.DiscountRate),
		PaybackYears: finance.Payback(table),

		AnnualGenerationMWh: generationMWh,
		LCOE:                finance.LCOE(s, generationMWh, r.Finance),

		MLF:          s.MLF,
		GridCharging: s.GridCharging,
		FCASEnabled:  s.FCASEnabled,

		RevenueSource: breakdown.Source,
		Breakdown:     breakdown,

		CashFlows: table,
	}, nil
}

// estimate prices the scenario through dispatch when a provider and
// price data are available. A dispatch failure downgrades to the
// benchmark for that scenario rather than failing the comparison.
// Generation for LCOE is the battery's delivered discharge; the
// benchmark path has none, which surfaces as an infinite LCOE.
func (r *Runner) estimate(s scenario.Scenario, in Inputs) (revenue.Breakdown, float64) {
	if r.Provider == nil || in.Prices.Len() == 0 {
		return revenue.BenchmarkBreakdown(s, r.Assumptions), 0
	}

	res, err := r.Provider.Dispatch(s, in.Prices, in.SolarCF)
	if err != nil {
		log.Printf("[Compare] dispatch failed for %q, using benchmark: %v", s.Name, err)
		return revenue.BenchmarkBreakdown(s, r.Assumptions), 0
	}

	b := revenue.EstimateFromDispatch(s, in.Prices, res.Discharge, res.Charge, res.SolarGen, r.Assumptions)
	return b, res.Discharge.Sum()
}

// Compare evaluates every scenario in the map. Result keys follow the
// input map.
func (r *Runner) Compare(scenarios map[string]scenario.Scenario, in Inputs) (map[string]Summary, error) {
	out := make(map[string]Summary, len(scenarios))
	for key, s := range scenarios {
		sum, err := r.Evaluate(s, in)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", key, err)
		}
		sum.Key = key
		out[key] = sum
	}
	return out, nil
}

// ComparePresets builds the three standard presets with shared sizing
// and compares them. Keys and display order follow
// scenario.PresetKeys.
func (r *Runner) ComparePresets(batteryMW, batteryHours, solarMW float64, region string, ppa *scenario.PPA, in Inputs) (map[string]Summary, error) {
	presets, err := scenario.AllPresets(batteryMW, batteryHours, solarMW, region, ppa)
	if err != nil {
		return nil, err
	}
	return r.Compare(presets, in)
}
