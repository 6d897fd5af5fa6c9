package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bess-colocation/internal/finance"
	"bess-colocation/internal/scenario"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadMinimalConfigDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "sizing:\n  region: NSW1\n")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100.0, c.Sizing.BatteryPowerMW)
	assert.Equal(t, 4.0, c.Sizing.BatteryHours)
	assert.Equal(t, 200.0, c.Sizing.SolarMW)
	assert.Equal(t, 2025, c.Sizing.Year)
	assert.Equal(t, "plan", c.Dispatch.Provider)
	assert.Equal(t, SourceSynthetic, c.Data.Source)
	assert.Equal(t, DriverMemory, c.Store.Driver)
	assert.Equal(t, finance.DefaultParams(), c.Financial.ToParams())
}

func TestLoadAppliesOverrides(t *testing.T) {
	body := `
sizing:
  battery_power_mw: 50
  battery_hours: 2
  solar_mw: 120
  region: VIC1
  year: 2024
  ppa_price_per_mwh: 65
financial:
  discount_rate: 0.10
  project_life_years: 20
assumptions:
  benchmark_per_mw_year: 120000
dispatch:
  provider: benchmark
data:
  source: api
  api_key: key-0123456789
store:
  driver: postgres
  dsn: postgres://localhost/test
`
	c, err := Load(writeConfig(t, t.TempDir(), "config.yaml", body))
	require.NoError(t, err)

	assert.Equal(t, 50.0, c.Sizing.BatteryPowerMW)
	assert.Equal(t, 2024, c.Sizing.Year)
	assert.Equal(t, "benchmark", c.Dispatch.Provider)

	p := c.Financial.ToParams()
	assert.Equal(t, 0.10, p.DiscountRate)
	assert.Equal(t, 20, p.ProjectLifeYears)
	// Untouched fields keep their defaults.
	assert.Equal(t, 0.025, p.Inflation)

	asm := c.Assumptions.ToAssumptions()
	assert.Equal(t, 120000.0, asm.BenchmarkPerMWYear)
	assert.Equal(t, 0.10, asm.FCASShareOfArbitrage)

	ppa := c.Sizing.PPA()
	require.NotNil(t, ppa)
	assert.Equal(t, 65.0, ppa.PricePerMWh)
}

func TestLoadMergesFinancialFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml", `
financial:
  discount_rate: 0.12
  debt_ratio: 0.60
`)
	body := `
financial_file: base.yaml
financial:
  inflation: 0.03
`
	c, err := Load(writeConfig(t, dir, "config.yaml", body))
	require.NoError(t, err)

	p := c.Financial.ToParams()
	assert.Equal(t, 0.12, p.DiscountRate)
	assert.Equal(t, 0.60, p.DebtRatio)
	assert.Equal(t, 0.03, p.Inflation)
	assert.Equal(t, 15, p.ProjectLifeYears)
}

func TestLoadScheduleDispatch(t *testing.T) {
	body := `
dispatch:
  provider: schedule
  charge_start: "09:30"
  discharge_start: "18:00"
  discharge_end: "22:00"
`
	c, err := Load(writeConfig(t, t.TempDir(), "config.yaml", body))
	require.NoError(t, err)

	sp := c.Dispatch.ToScheduleParams()
	assert.Equal(t, "09:30", sp.ChargeStart)
	assert.Equal(t, "18:00", sp.DischargeStart)
	assert.Equal(t, "22:00", sp.DischargeEnd)
}

func TestLoadRejectsInvalidConfigs(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad source", "data:\n  source: carrier-pigeon\n"},
		{"file source without file", "data:\n  source: file\n"},
		{"bad driver", "store:\n  driver: sqlite\n"},
		{"bad provider", "dispatch:\n  provider: oracle\n"},
		{"bad schedule window", "dispatch:\n  provider: schedule\n  charge_start: \"25:00\"\n"},
		{"bad sizing", "sizing:\n  battery_power_mw: -5\n"},
		{"bad financial", "financial:\n  debt_ratio: 1.5\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), "config.yaml", tc.body))
			require.Error(t, err)
		})
	}
}

func TestLoadUncheckedSkipsValidation(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", "sizing:\n  battery_power_mw: -5\n")

	c, err := LoadUnchecked(path)
	require.NoError(t, err)
	assert.Equal(t, -5.0, c.Sizing.BatteryPowerMW)
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 100.0, c.Sizing.BatteryPowerMW)
	assert.Equal(t, 2025, c.Sizing.Year)
	assert.Equal(t, SourceSynthetic, c.Data.Source)
	assert.Equal(t, DriverMemory, c.Store.Driver)
}

func TestSizingPPADefaultsNil(t *testing.T) {
	var s SizingConfig
	assert.Nil(t, s.PPA())

	s.PPAPricePerMWh = 70
	s.PPALoadMW = 30
	ppa := s.PPA()
	require.NotNil(t, ppa)
	assert.Equal(t, &scenario.PPA{PricePerMWh: 70, LoadMW: 30}, ppa)
}

func TestSizingPresets(t *testing.T) {
	s := SizingConfig{BatteryPowerMW: 100, BatteryHours: 4, SolarMW: 200, Region: "NSW1"}

	presets, err := s.Presets()
	require.NoError(t, err)
	require.Len(t, presets, 3)
	assert.InDelta(t, 292_500_000, presets[scenario.KeyACCoupled].TotalCapex(), 1e-3)
}
