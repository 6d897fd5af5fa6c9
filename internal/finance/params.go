package finance

import "errors"

// Params holds the financial modelling assumptions.
// Units:
// - Rates, ratios and percentages: fractions (0.08 = 8%)
// - ProjectLifeYears / DebtTermYears: years
// - ConstructionMonths: months
type Params struct {
	ProjectLifeYears   int
	ConstructionMonths int

	// Financing terms. Declared for reporting; cash flows are
	// modelled unlevered.
	DebtRatio     float64
	InterestRate  float64
	DebtTermYears int

	// Operating costs as a fraction of installed capex per year.
	OpexBatteryPctOfCapex float64
	OpexSolarPctOfCapex   float64
	InsurancePctOfCapex   float64

	BatteryDegradationAnnual float64
	SolarDegradationAnnual   float64

	Inflation    float64
	DiscountRate float64
	// TaxRate is declared for reference; cash flows are pre-tax.
	TaxRate float64
}

// DefaultParams returns industry benchmark assumptions: 15 year life,
// 70/30 debt at 6.5%, 1.5%/1.0% battery/solar opex, 0.5% insurance,
// 2%/0.5% annual degradation, 2.5% inflation and an 8% discount rate.
func DefaultParams() Params {
	return Params{
		ProjectLifeYears:   15,
		ConstructionMonths: 18,

		DebtRatio:     0.70,
		InterestRate:  0.065,
		DebtTermYears: 15,

		OpexBatteryPctOfCapex: 0.015,
		OpexSolarPctOfCapex:   0.010,
		InsurancePctOfCapex:   0.005,

		BatteryDegradationAnnual: 0.02,
		SolarDegradationAnnual:   0.005,

		Inflation:    0.025,
		DiscountRate: 0.08,
		TaxRate:      0.30,
	}
}

func (p Params) Validate() error {
	if p.ProjectLifeYears <= 0 {
		return errors.New("ProjectLifeYears must be > 0")
	}
	if p.DebtRatio < 0 || p.DebtRatio > 1 {
		return errors.New("DebtRatio must be in [0, 1]")
	}
	if p.OpexBatteryPctOfCapex < 0 {
		return errors.New("OpexBatteryPctOfCapex must be >= 0")
	}
	if p.OpexSolarPctOfCapex < 0 {
		return errors.New("OpexSolarPctOfCapex must be >= 0")
	}
	if p.InsurancePctOfCapex < 0 {
		return errors.New("InsurancePctOfCapex must be >= 0")
	}
	if p.BatteryDegradationAnnual < 0 || p.BatteryDegradationAnnual >= 1 {
		return errors.New("BatteryDegradationAnnual must be in [0, 1)")
	}
	if p.SolarDegradationAnnual < 0 || p.SolarDegradationAnnual >= 1 {
		return errors.New("SolarDegradationAnnual must be in [0, 1)")
	}
	if p.Inflation <= -1 {
		return errors.New("Inflation must be > -1")
	}
	if p.DiscountRate <= -1 {
		return errors.New("DiscountRate must be > -1")
	}
	if p.TaxRate < 0 || p.TaxRate > 1 {
		return errors.New("TaxRate must be in [0, 1]")
	}
	return nil
}
