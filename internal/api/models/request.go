package models

// CompareRequest is the request body for running a scenario comparison.
// Only sizing is required; omitted financial, assumption and dispatch
// fields fall back to the built-in defaults.
type CompareRequest struct {
	Sizing      SizingRequest      `json:"sizing" binding:"required"`
	Financial   FinancialRequest   `json:"financial,omitempty"`
	Assumptions AssumptionsRequest `json:"assumptions,omitempty"`
	Dispatch    DispatchRequest    `json:"dispatch,omitempty"`
	Data        DataSourceRequest  `json:"data,omitempty"`
	Options     CompareOptions     `json:"options,omitempty"`
}

// SizingRequest fixes the shared plant sizing for all presets
type SizingRequest struct {
	BatteryPowerMW float64 `json:"battery_power_mw" binding:"required"`
	BatteryHours   float64 `json:"battery_hours" binding:"required"`
	SolarMW        float64 `json:"solar_mw"`
	Region         string  `json:"region,omitempty"` // default: "NSW1"
	Year           int     `json:"year,omitempty"`   // default: 2025
	PPAPricePerMWh float64 `json:"ppa_price_per_mwh,omitempty"`
	PPALoadMW      float64 `json:"ppa_load_mw,omitempty"`
}

// FinancialRequest overrides financial parameters field by field.
// Zero-valued fields keep the default.
type FinancialRequest struct {
	ProjectLifeYears         int     `json:"project_life_years,omitempty"`
	ConstructionMonths       int     `json:"construction_months,omitempty"`
	DebtRatio                float64 `json:"debt_ratio,omitempty"`
	InterestRate             float64 `json:"interest_rate,omitempty"`
	DebtTermYears            int     `json:"debt_term_years,omitempty"`
	OpexBatteryPctOfCapex    float64 `json:"opex_battery_pct_of_capex,omitempty"`
	OpexSolarPctOfCapex      float64 `json:"opex_solar_pct_of_capex,omitempty"`
	InsurancePctOfCapex      float64 `json:"insurance_pct_of_capex,omitempty"`
	BatteryDegradationAnnual float64 `json:"battery_degradation_annual,omitempty"`
	SolarDegradationAnnual   float64 `json:"solar_degradation_annual,omitempty"`
	Inflation                float64 `json:"inflation,omitempty"`
	DiscountRate             float64 `json:"discount_rate,omitempty"`
	TaxRate                  float64 `json:"tax_rate,omitempty"`
}

// AssumptionsRequest overrides revenue estimator assumptions
type AssumptionsRequest struct {
	FCASShareOfArbitrage float64 `json:"fcas_share_of_arbitrage,omitempty"`
	PPACapacityFactor    float64 `json:"ppa_capacity_factor,omitempty"`
	BenchmarkPerMWYear   float64 `json:"benchmark_per_mw_year,omitempty"`
	BenchmarkMLF         float64 `json:"benchmark_mlf,omitempty"`
	NoGridChargeHaircut  float64 `json:"no_grid_charge_haircut,omitempty"`
}

// DispatchRequest selects and tunes the dispatch engine
type DispatchRequest struct {
	Provider              string  `json:"provider,omitempty"` // "plan" (default), "schedule" or "benchmark"
	SOCSteps              int     `json:"soc_steps,omitempty"`
	PowerSteps            int     `json:"power_steps,omitempty"`
	ChargeEfficiency      float64 `json:"charge_efficiency,omitempty"`
	DischargeEfficiency   float64 `json:"discharge_efficiency,omitempty"`
	DegradationCostPerMWh float64 `json:"degradation_cost_per_mwh,omitempty"`

	// HH:MM windows for the schedule provider.
	ChargeStart    string `json:"charge_start,omitempty"`
	ChargeEnd      string `json:"charge_end,omitempty"`
	DischargeStart string `json:"discharge_start,omitempty"`
	DischargeEnd   string `json:"discharge_end,omitempty"`
}

// DataSourceRequest defines where dispatch prices come from
type DataSourceRequest struct {
	Source    string `json:"source,omitempty"` // "synthetic" (default) or "api"
	APIKey    string `json:"api_key,omitempty"`
	BaseURL   string `json:"base_url,omitempty"`
	DatasetID string `json:"dataset_id,omitempty"`
	StartDate string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Timezone  string `json:"timezone,omitempty"`   // default: "market"
}

// CompareOptions contains optional comparison parameters
type CompareOptions struct {
	IncludeCashFlows bool `json:"include_cash_flows,omitempty"` // default: false
}
