package models

import (
	"encoding/json"
	"time"
)

// CompareResponse is the response from a comparison run. Scenarios are
// ordered standalone, ac_coupled, dc_coupled.
type CompareResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	GeneratedAt time.Time `json:"generated_at"`

	Region         string  `json:"region"`
	Year           int     `json:"year"`
	BatteryPowerMW float64 `json:"battery_power_mw"`
	BatteryHours   float64 `json:"battery_hours"`
	SolarMW        float64 `json:"solar_mw"`

	RevenueSource string           `json:"revenue_source"` // "dispatch", "benchmark" or "mixed"
	Scenarios     []ScenarioResult `json:"scenarios"`
}

// ScenarioResult contains one scenario's financial outcome. Undefined
// or infinite metrics are null, never NaN or Inf.
type ScenarioResult struct {
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

	RevenueSource string           `json:"revenue_source"`
	Breakdown     RevenueBreakdown `json:"breakdown"`

	CashFlows []CashFlowRow `json:"cash_flows,omitempty"`
}

// RevenueBreakdown splits year-1 revenue by stream. ChargeCost is
// negative.
type RevenueBreakdown struct {
	Arbitrage  float64 `json:"arbitrage"`
	ChargeCost float64 `json:"charge_cost"`
	Solar      float64 `json:"solar"`
	FCAS       float64 `json:"fcas"`
	PPA        float64 `json:"ppa"`
	Total      float64 `json:"total"`
}

// CashFlowRow is one project year. Year 0 carries the capex outflow.
type CashFlowRow struct {
	Year        int     `json:"year"`
	Capex       float64 `json:"capex"`
	Revenue     float64 `json:"revenue"`
	Opex        float64 `json:"opex"`
	EBITDA      float64 `json:"ebitda"`
	NetCashFlow float64 `json:"net_cash_flow"`
	Cumulative  float64 `json:"cumulative"`
}

// RunResponse is a stored comparison run. Scenarios carries the
// result rows exactly as they were returned when the run was made.
type RunResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Region         string  `json:"region"`
	Year           int     `json:"year"`
	BatteryPowerMW float64 `json:"battery_power_mw"`
	BatteryHours   float64 `json:"battery_hours"`
	SolarMW        float64 `json:"solar_mw"`

	RevenueSource string          `json:"revenue_source"`
	Scenarios     json.RawMessage `json:"scenarios"`
}

// RunListResponse lists stored runs, newest first, without their
// scenario payloads.
type RunListResponse struct {
	Runs  []RunListItem `json:"runs"`
	Count int           `json:"count"`
}

// RunListItem is one stored run's header.
type RunListItem struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Region         string    `json:"region"`
	Year           int       `json:"year"`
	BatteryPowerMW float64   `json:"battery_power_mw"`
	BatteryHours   float64   `json:"battery_hours"`
	SolarMW        float64   `json:"solar_mw"`
	RevenueSource  string    `json:"revenue_source"`
}

// PresetInfo describes one scenario preset
type PresetInfo struct {
	Key               string  `json:"key"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	MLF               float64 `json:"mlf"`
	GridCharging      bool    `json:"grid_charging"`
	MaxGridChargeRate float64 `json:"max_grid_charge_rate"`
	ArbitrageEnabled  bool    `json:"arbitrage_enabled"`
	FCASEnabled       bool    `json:"fcas_enabled"`
	BatteryPowerMW    float64 `json:"battery_power_mw"`
	BatteryHours      float64 `json:"battery_hours"`
	SolarMW           float64 `json:"solar_mw"`
	EnergyCapacityMWh float64 `json:"energy_capacity_mwh"`
	TotalCapex        float64 `json:"total_capex"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
