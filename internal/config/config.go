package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bess-colocation/internal/dispatch"
	"bess-colocation/internal/finance"
	"bess-colocation/internal/revenue"
	"bess-colocation/internal/scenario"

	"gopkg.in/yaml.v3"
)

// Data source and store driver values.
const (
	SourceSynthetic = "synthetic"
	SourceAPI       = "api"
	SourceFile      = "file"

	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load financial parameters from a separate YAML (e.g. examples/financials/*.yaml).
	// If both FinancialFile and Financial are provided, Financial overrides FinancialFile.
	FinancialFile string            `yaml:"financial_file"`
	Sizing        SizingConfig      `yaml:"sizing"`
	Financial     FinancialConfig   `yaml:"financial"`
	Assumptions   AssumptionsConfig `yaml:"assumptions"`
	Dispatch      DispatchConfig    `yaml:"dispatch"`
	Data          DataConfig        `yaml:"data"`
	Store         StoreConfig       `yaml:"store"`
}

// SizingConfig fixes the shared plant sizing for a comparison. A PPA
// is attached whenever ppa_price_per_mwh is set; ppa_load_mw defaults
// to half the battery power rating.
type SizingConfig struct {
	BatteryPowerMW float64 `yaml:"battery_power_mw"`
	BatteryHours   float64 `yaml:"battery_hours"`
	SolarMW        float64 `yaml:"solar_mw"`
	Region         string  `yaml:"region"`
	Year           int     `yaml:"year"`
	PPAPricePerMWh float64 `yaml:"ppa_price_per_mwh"`
	PPALoadMW      float64 `yaml:"ppa_load_mw"`
}

// FinancialConfig overrides finance.DefaultParams field by field.
// Zero-valued fields keep the default.
type FinancialConfig struct {
	ProjectLifeYears         int     `yaml:"project_life_years"`
	ConstructionMonths       int     `yaml:"construction_months"`
	DebtRatio                float64 `yaml:"debt_ratio"`
	InterestRate             float64 `yaml:"interest_rate"`
	DebtTermYears            int     `yaml:"debt_term_years"`
	OpexBatteryPctOfCapex    float64 `yaml:"opex_battery_pct_of_capex"`
	OpexSolarPctOfCapex      float64 `yaml:"opex_solar_pct_of_capex"`
	InsurancePctOfCapex      float64 `yaml:"insurance_pct_of_capex"`
	BatteryDegradationAnnual float64 `yaml:"battery_degradation_annual"`
	SolarDegradationAnnual   float64 `yaml:"solar_degradation_annual"`
	Inflation                float64 `yaml:"inflation"`
	DiscountRate             float64 `yaml:"discount_rate"`
	TaxRate                  float64 `yaml:"tax_rate"`
}

// AssumptionsConfig overrides revenue.DefaultAssumptions field by field.
type AssumptionsConfig struct {
	FCASShareOfArbitrage float64 `yaml:"fcas_share_of_arbitrage"`
	PPACapacityFactor    float64 `yaml:"ppa_capacity_factor"`
	BenchmarkPerMWYear   float64 `yaml:"benchmark_per_mw_year"`
	BenchmarkMLF         float64 `yaml:"benchmark_mlf"`
	NoGridChargeHaircut  float64 `yaml:"no_grid_charge_haircut"`
}

// DispatchConfig selects and tunes the dispatch engine.
// Provider is "plan" (default), "schedule" for fixed daily windows,
// or "benchmark" to skip dispatch. The window fields only apply to
// the schedule provider.
type DispatchConfig struct {
	Provider              string  `yaml:"provider"`
	SOCSteps              int     `yaml:"soc_steps"`
	PowerSteps            int     `yaml:"power_steps"`
	ChargeEfficiency      float64 `yaml:"charge_efficiency"`
	DischargeEfficiency   float64 `yaml:"discharge_efficiency"`
	DegradationCostPerMWh float64 `yaml:"degradation_cost_per_mwh"`
	ChargeStart           string  `yaml:"charge_start"`
	ChargeEnd             string  `yaml:"charge_end"`
	DischargeStart        string  `yaml:"discharge_start"`
	DischargeEnd          string  `yaml:"discharge_end"`
}

// DataConfig selects where prices come from.
type DataConfig struct {
	Source    string `yaml:"source"` // synthetic (default), api, file
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	DatasetID string `yaml:"dataset_id"`
	File      string `yaml:"file"` // JSON file for source: file
}

// StoreConfig selects where comparison runs are persisted.
type StoreConfig struct {
	Driver string `yaml:"driver"` // memory (default), postgres
	DSN    string `yaml:"dsn"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	applyDefaults(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns the built-in configuration: a 100 MW / 4 h battery
// with 200 MW of solar, synthetic 2025 prices, the plan dispatcher
// and the in-memory store.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

// applyDefaults fills the gaps a minimal config leaves. Solar
// defaults to 200 MW; set solar_mw explicitly to compare co-location
// against an empty paddock.
func applyDefaults(c *Config) {
	if c.Sizing.BatteryPowerMW == 0 {
		c.Sizing.BatteryPowerMW = 100
	}
	if c.Sizing.BatteryHours == 0 {
		c.Sizing.BatteryHours = 4
	}
	if c.Sizing.SolarMW == 0 {
		c.Sizing.SolarMW = 200
	}
	if c.Sizing.Year == 0 {
		c.Sizing.Year = 2025
	}
	if c.Dispatch.Provider == "" {
		c.Dispatch.Provider = "plan"
	}
	if c.Data.Source == "" {
		c.Data.Source = SourceSynthetic
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverMemory
	}
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If financial_file is set, load it and merge in any explicit overrides from c.Financial.
	if c.FinancialFile != "" {
		financialPath := c.FinancialFile
		if !filepath.IsAbs(financialPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), financialPath)
			if _, err := os.Stat(cand); err == nil {
				financialPath = cand
			}
		}
		loaded, err := loadFinancialFile(financialPath)
		if err != nil {
			return nil, err
		}
		c.Financial = MergeFinancial(loaded, c.Financial)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch c.Data.Source {
	case "", SourceSynthetic, SourceAPI:
	case SourceFile:
		if c.Data.File == "" {
			return errors.New("data.file is required when data.source is file")
		}
	default:
		return fmt.Errorf("data.source must be %q, %q or %q", SourceSynthetic, SourceAPI, SourceFile)
	}
	switch c.Store.Driver {
	case "", DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("store.driver must be %q or %q", DriverMemory, DriverPostgres)
	}
	switch c.Dispatch.Provider {
	case "", "plan", "benchmark":
	case "schedule":
		if _, err := dispatch.NewScheduleProvider(c.Dispatch.ToScheduleParams()); err != nil {
			return fmt.Errorf("dispatch config invalid: %w", err)
		}
	default:
		return fmt.Errorf("dispatch.provider must be %q, %q or %q", "plan", "schedule", "benchmark")
	}
	// Validate sizing by constructing the presets.
	if _, err := c.Sizing.Presets(); err != nil {
		return fmt.Errorf("sizing config invalid: %w", err)
	}
	// Validate financials and assumptions the same way.
	if err := c.Financial.ToParams().Validate(); err != nil {
		return fmt.Errorf("financial config invalid: %w", err)
	}
	if err := c.Assumptions.ToAssumptions().Validate(); err != nil {
		return fmt.Errorf("assumptions config invalid: %w", err)
	}
	return nil
}

// PPA returns the offtake attached to the sizing, or nil when no
// ppa_price_per_mwh is configured.
func (s SizingConfig) PPA() *scenario.PPA {
	if s.PPAPricePerMWh == 0 {
		return nil
	}
	return &scenario.PPA{PricePerMWh: s.PPAPricePerMWh, LoadMW: s.PPALoadMW}
}

// Presets builds the three standard presets from the sizing.
func (s SizingConfig) Presets() (map[string]scenario.Scenario, error) {
	return scenario.AllPresets(s.BatteryPowerMW, s.BatteryHours, s.SolarMW, s.Region, s.PPA())
}

// ToParams overlays non-zero fields onto finance.DefaultParams.
func (f FinancialConfig) ToParams() finance.Params {
	p := finance.DefaultParams()
	if f.ProjectLifeYears != 0 {
		p.ProjectLifeYears = f.ProjectLifeYears
	}
	if f.ConstructionMonths != 0 {
		p.ConstructionMonths = f.ConstructionMonths
	}
	if f.DebtRatio != 0 {
		p.DebtRatio = f.DebtRatio
	}
	if f.InterestRate != 0 {
		p.InterestRate = f.InterestRate
	}
	if f.DebtTermYears != 0 {
		p.DebtTermYears = f.DebtTermYears
	}
	if f.OpexBatteryPctOfCapex != 0 {
		p.OpexBatteryPctOfCapex = f.OpexBatteryPctOfCapex
	}
	if f.OpexSolarPctOfCapex != 0 {
		p.OpexSolarPctOfCapex = f.OpexSolarPctOfCapex
	}
	if f.InsurancePctOfCapex != 0 {
		p.InsurancePctOfCapex = f.InsurancePctOfCapex
	}
	if f.BatteryDegradationAnnual != 0 {
		p.BatteryDegradationAnnual = f.BatteryDegradationAnnual
	}
	if f.SolarDegradationAnnual != 0 {
		p.SolarDegradationAnnual = f.SolarDegradationAnnual
	}
	if f.Inflation != 0 {
		p.Inflation = f.Inflation
	}
	if f.DiscountRate != 0 {
		p.DiscountRate = f.DiscountRate
	}
	if f.TaxRate != 0 {
		p.TaxRate = f.TaxRate
	}
	return p
}

// ToAssumptions overlays non-zero fields onto revenue.DefaultAssumptions.
func (a AssumptionsConfig) ToAssumptions() revenue.Assumptions {
	asm := revenue.DefaultAssumptions()
	if a.FCASShareOfArbitrage != 0 {
		asm.FCASShareOfArbitrage = a.FCASShareOfArbitrage
	}
	if a.PPACapacityFactor != 0 {
		asm.PPACapacityFactor = a.PPACapacityFactor
	}
	if a.BenchmarkPerMWYear != 0 {
		asm.BenchmarkPerMWYear = a.BenchmarkPerMWYear
	}
	if a.BenchmarkMLF != 0 {
		asm.BenchmarkMLF = a.BenchmarkMLF
	}
	if a.NoGridChargeHaircut != 0 {
		asm.NoGridChargeHaircut = a.NoGridChargeHaircut
	}
	return asm
}

// ToPlanParams maps the dispatch tuning onto the planner's knobs.
// Zero-valued fields keep the planner defaults.
func (d DispatchConfig) ToPlanParams() dispatch.PlanParams {
	return dispatch.PlanParams{
		SOCSteps:              d.SOCSteps,
		PowerSteps:            d.PowerSteps,
		ChargeEfficiency:      d.ChargeEfficiency,
		DischargeEfficiency:   d.DischargeEfficiency,
		DegradationCostPerMWh: d.DegradationCostPerMWh,
	}
}

// ToScheduleParams maps the dispatch tuning onto the fixed-window
// provider. Empty and zero-valued fields keep the schedule defaults.
func (d DispatchConfig) ToScheduleParams() dispatch.ScheduleParams {
	return dispatch.ScheduleParams{
		ChargeStart:         d.ChargeStart,
		ChargeEnd:           d.ChargeEnd,
		DischargeStart:      d.DischargeStart,
		DischargeEnd:        d.DischargeEnd,
		ChargeEfficiency:    d.ChargeEfficiency,
		DischargeEfficiency: d.DischargeEfficiency,
	}
}

type financialFileWrapper struct {
	Financial FinancialConfig `yaml:"financial"`
}

func loadFinancialFile(path string) (FinancialConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FinancialConfig{}, err
	}
	var w financialFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return FinancialConfig{}, err
	}
	return w.Financial, nil
}

// MergeFinancial overlays non-zero fields from override onto base.
// This is used when loading a financial file and then applying overrides inline.
func MergeFinancial(base, override FinancialConfig) FinancialConfig {
	out := base
	if override.ProjectLifeYears != 0 {
		out.ProjectLifeYears = override.ProjectLifeYears
	}
	if override.ConstructionMonths != 0 {
		out.ConstructionMonths = override.ConstructionMonths
	}
	if override.DebtRatio != 0 {
		out.DebtRatio = override.DebtRatio
	}
	if override.InterestRate != 0 {
		out.InterestRate = override.InterestRate
	}
	if override.DebtTermYears != 0 {
		out.DebtTermYears = override.DebtTermYears
	}
	if override.OpexBatteryPctOfCapex != 0 {
		out.OpexBatteryPctOfCapex = override.OpexBatteryPctOfCapex
	}
	if override.OpexSolarPctOfCapex != 0 {
		out.OpexSolarPctOfCapex = override.OpexSolarPctOfCapex
	}
	if override.InsurancePctOfCapex != 0 {
		out.InsurancePctOfCapex = override.InsurancePctOfCapex
	}
	if override.BatteryDegradationAnnual != 0 {
		out.BatteryDegradationAnnual = override.BatteryDegradationAnnual
	}
	if override.SolarDegradationAnnual != 0 {
		out.SolarDegradationAnnual = override.SolarDegradationAnnual
	}
	if override.Inflation != 0 {
		out.Inflation = override.Inflation
	}
	if override.DiscountRate != 0 {
		out.DiscountRate = override.DiscountRate
	}
	if override.TaxRate != 0 {
		out.TaxRate = override.TaxRate
	}
	return out
}
