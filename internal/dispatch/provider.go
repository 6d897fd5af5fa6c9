package dispatch

import (
	"bess-colocation/internal/scenario"
	"bess-colocation/internal/timeseries"
)

// Result holds one year of hourly dispatch, in MWh per hour.
// Discharge and Charge are grid-side energies; SolarGen is the solar
// plant output (empty for scenarios without solar).
type Result struct {
	Discharge timeseries.Series
	Charge    timeseries.Series
	SolarGen  timeseries.Series
}

// Provider produces a dispatch profile for a scenario against a
// price series. The solar capacity factor series bounds charging for
// configurations that cannot charge from the grid; providers may
// ignore it when the scenario has no solar.
type Provider interface {
	Name() string
	Dispatch(s scenario.Scenario, prices, solarCF timeseries.Series) (Result, error)
}
