package scenario

// Scenario defines the sizing and commercial parameters of one
// battery storage configuration, optionally co-located with solar.
// Units:
// - BatteryPowerMW: MW
// - BatteryHours: storage duration at full power
// - SolarMW: MW (0 = standalone storage)
// - MLF: marginal loss factor applied to traded energy, 0..1
// - MaxGridChargeRate: fraction of battery power chargeable from grid, 0..1
// - Capex rates and ConnectionSynergyPerKW: $/kW
// - PPAPricePerMWh: $/MWh, PPALoadMW: MW
type Scenario struct {
	Name        string
	Key         string
	Description string
	Region      string

	BatteryPowerMW float64
	BatteryHours   float64
	SolarMW        float64

	MLF               float64
	GridCharging      bool
	MaxGridChargeRate float64

	ArbitrageEnabled bool
	FCASEnabled      bool

	PPAEnabled     bool
	PPAPricePerMWh float64
	PPALoadMW      float64

	CapexBatteryPerKW      float64
	CapexSolarPerKW        float64
	CapexConnectionPerKW   float64
	ConnectionSynergyPerKW float64
}

// EnergyCapacityMWh returns the battery energy rating.
func (s Scenario) EnergyCapacityMWh() float64 {
	return s.BatteryPowerMW * s.BatteryHours
}

// BatteryCapex returns the battery system cost in $.
func (s Scenario) BatteryCapex() float64 {
	return s.BatteryPowerMW * 1000 * s.CapexBatteryPerKW
}

// SolarCapex returns the solar plant cost in $. Scenarios without
// solar carry no solar capex regardless of the configured rate.
func (s Scenario) SolarCapex() float64 {
	if s.SolarMW <= 0 {
		return 0
	}
	return s.SolarMW * 1000 * s.CapexSolarPerKW
}

// ConnectionCapex returns the grid connection cost in $, net of the
// shared-infrastructure saving for co-located configurations.
func (s Scenario) ConnectionCapex() float64 {
	return s.BatteryPowerMW * 1000 * (s.CapexConnectionPerKW - s.ConnectionSynergyPerKW)
}

// TotalCapex returns the total capital cost in $.
func (s Scenario) TotalCapex() float64 {
	return s.BatteryCapex() + s.SolarCapex() + s.ConnectionCapex()
}

func (s Scenario) Validate() error {
	if s.Name == "" {
		return s.invalid("Name", "must not be empty")
	}
	if s.Region == "" {
		return s.invalid("Region", "must not be empty")
	}
	if s.BatteryPowerMW <= 0 {
		return s.invalid("BatteryPowerMW", "must be > 0")
	}
	if s.BatteryHours <= 0 {
		return s.invalid("BatteryHours", "must be > 0")
	}
	if s.SolarMW < 0 {
		return s.invalid("SolarMW", "must be >= 0")
	}
	if s.MLF <= 0 || s.MLF > 1 {
		return s.invalid("MLF", "must be in (0, 1]")
	}
	if s.MaxGridChargeRate < 0 || s.MaxGridChargeRate > 1 {
		return s.invalid("MaxGridChargeRate", "must be in [0, 1]")
	}
	if s.CapexBatteryPerKW < 0 {
		return s.invalid("CapexBatteryPerKW", "must be >= 0")
	}
	if s.CapexSolarPerKW < 0 {
		return s.invalid("CapexSolarPerKW", "must be >= 0")
	}
	if s.CapexConnectionPerKW < 0 {
		return s.invalid("CapexConnectionPerKW", "must be >= 0")
	}
	if s.ConnectionSynergyPerKW < 0 {
		return s.invalid("ConnectionSynergyPerKW", "must be >= 0")
	}
	if s.ConnectionSynergyPerKW > s.CapexConnectionPerKW {
		return s.invalid("ConnectionSynergyPerKW", "must not exceed CapexConnectionPerKW")
	}
	if s.PPAEnabled {
		if s.PPAPricePerMWh <= 0 {
			return s.invalid("PPAPricePerMWh", "must be > 0 when PPA is enabled")
		}
		if s.PPALoadMW <= 0 {
			return s.invalid("PPALoadMW", "must be > 0 when PPA is enabled")
		}
	}
	if s.TotalCapex() <= 0 {
		return s.invalid("TotalCapex", "must be > 0")
	}
	return nil
}

func (s Scenario) invalid(field, message string) error {
	return &InvalidError{Scenario: s.Name, Field: field, Message: message}
}
