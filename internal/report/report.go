package report

import (
	"math"
	"sort"
	"time"

	"bess-colocation/internal/compare"
)

// Results is the report document rendered to markdown, CSV or JSON.
type Results struct {
	GeneratedAt time.Time `json:"generated_at"`

	Region         string  `json:"region"`
	Year           int     `json:"year"`
	BatteryPowerMW float64 `json:"battery_power_mw"`
	BatteryHours   float64 `json:"battery_hours"`
	SolarMW        float64 `json:"solar_mw"`

	Scenarios []Row `json:"scenarios"`
}

// Row is one scenario's outcome with undefined and infinite metrics
// carried as nulls so the document serializes losslessly.
type Row struct {
	Key         string `json:"key"`
	Scenario    string `json:"scenario"`
	Description string `json:"description,omitempty"`

	MLF          float64 `json:"mlf"`
	GridCharging bool    `json:"grid_charging"`
	FCASEnabled  bool    `json:"fcas_enabled"`

	TotalCapex   float64 `json:"total_capex"`
	Year1Revenue float64 `json:"year1_revenue"`
	Year1Opex    float64 `json:"year1_opex"`

	IRR          *float64 `json:"irr"`
	NPV          float64  `json:"npv"`
	PaybackYears *float64 `json:"payback_years"`

	AnnualGenerationMWh float64  `json:"annual_generation_mwh"`
	LCOE                *float64 `json:"lcoe"`

	RevenueSource string       `json:"revenue_source"`
	Breakdown     BreakdownRow `json:"breakdown"`
}

// BreakdownRow mirrors the revenue components; every field is finite.
type BreakdownRow struct {
	Arbitrage  float64 `json:"arbitrage"`
	ChargeCost float64 `json:"charge_cost"`
	Solar      float64 `json:"solar"`
	FCAS       float64 `json:"fcas"`
	PPA        float64 `json:"ppa"`
	Total      float64 `json:"total"`
}

// Rows projects summaries into report rows following order. Keys
// missing from the map are skipped; a nil order takes the map's keys
// sorted.
func Rows(summaries map[string]compare.Summary, order []string) []Row {
	if order == nil {
		for key := range summaries {
			order = append(order, key)
		}
		sort.Strings(order)
	}

	rows := make([]Row, 0, len(order))
	for _, key := range order {
		sum, ok := summaries[key]
		if !ok {
			continue
		}
		rows = append(rows, toRow(sum))
	}
	return rows
}

func toRow(sum compare.Summary) Row {
	var irr *float64
	if sum.IRRDefined {
		irr = finite(sum.IRR)
	}
	return Row{
		Key:         sum.Key,
		Scenario:    sum.ScenarioName,
		Description: sum.Description,

		MLF:          sum.MLF,
		GridCharging: sum.GridCharging,
		FCASEnabled:  sum.FCASEnabled,

		TotalCapex:   sum.TotalCapex,
		Year1Revenue: sum.Year1Revenue,
		Year1Opex:    sum.Year1Opex,

		IRR:          irr,
		NPV:          sum.NPV,
		PaybackYears: finite(sum.PaybackYears),

		AnnualGenerationMWh: sum.AnnualGenerationMWh,
		LCOE:                finite(sum.LCOE),

		RevenueSource: sum.RevenueSource,
		Breakdown: BreakdownRow{
			Arbitrage:  sum.Breakdown.Arbitrage,
			ChargeCost: sum.Breakdown.ChargeCost,
			Solar:      sum.Breakdown.Solar,
			FCAS:       sum.Breakdown.FCAS,
			PPA:        sum.Breakdown.PPA,
			Total:      sum.Breakdown.Total,
		},
	}
}

// finite returns a pointer to x, or nil when x is not a finite number.
func finite(x float64) *float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return nil
	}
	return &x
}
