package scenario

// Preset keys, used to index comparison results.
const (
	KeyStandalone = "standalone"
	KeyACCoupled  = "ac_coupled"
	KeyDCCoupled  = "dc_coupled"
)

// PresetKeys lists the presets in display order.
var PresetKeys = []string{KeyStandalone, KeyACCoupled, KeyDCCoupled}

// Default capital cost rates in $/kW.
const (
	DefaultCapexBatteryPerKW    = 800.0
	DefaultCapexSolarPerKW      = 1000.0
	DefaultCapexConnectionPerKW = 200.0
)

// PPA describes an optional offtake contract attached to a scenario.
// A zero LoadMW defaults to half the battery power rating.
type PPA struct {
	PricePerMWh float64
	LoadMW      float64
}

// NewStandalone builds the standalone battery preset: optimal siting
// (MLF 0.98), unrestricted grid charging, FCAS participation and no
// connection cost sharing. An empty region defaults to NSW1.
func NewStandalone(batteryMW, batteryHours float64, region string, ppa *PPA) (Scenario, error) {
	s := Scenario{
		Name:              "Standalone BESS",
		Key:               KeyStandalone,
		Description:       "Grid-scale battery at optimal location",
		Region:            defaultRegion(region),
		BatteryPowerMW:    batteryMW,
		BatteryHours:      batteryHours,
		MLF:               0.98,
		GridCharging:      true,
		MaxGridChargeRate: 1.0,
		ArbitrageEnabled:  true,
		FCASEnabled:       true,

		CapexBatteryPerKW:    DefaultCapexBatteryPerKW,
		CapexSolarPerKW:      DefaultCapexSolarPerKW,
		CapexConnectionPerKW: DefaultCapexConnectionPerKW,
	}
	s.applyPPA(batteryMW, ppa)
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// NewACCoupled builds the AC-coupled co-location preset: the battery
// shares the solar site (MLF 0.90) behind a separate connection point,
// so it keeps grid charging and FCAS while saving $75/kW of connection
// cost.
func NewACCoupled(batteryMW, batteryHours, solarMW float64, region string, ppa *PPA) (Scenario, error) {
	s := Scenario{
		Name:              "AC-Coupled",
		Key:               KeyACCoupled,
		Description:       "Co-located with solar, separate connection point",
		Region:            defaultRegion(region),
		BatteryPowerMW:    batteryMW,
		BatteryHours:      batteryHours,
		SolarMW:           solarMW,
		MLF:               0.90,
		GridCharging:      true,
		MaxGridChargeRate: 1.0,
		ArbitrageEnabled:  true,
		FCASEnabled:       true,

		CapexBatteryPerKW:      DefaultCapexBatteryPerKW,
		CapexSolarPerKW:        DefaultCapexSolarPerKW,
		CapexConnectionPerKW:   DefaultCapexConnectionPerKW,
		ConnectionSynergyPerKW: 75.0,
	}
	s.applyPPA(batteryMW, ppa)
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// NewDCCoupled builds the DC-coupled co-location preset: battery and
// solar share one inverter and connection (MLF 0.88), so the battery
// can only charge from the co-located solar, forgoes FCAS, and saves
// $100/kW of connection cost.
func NewDCCoupled(batteryMW, batteryHours, solarMW float64, region string, ppa *PPA) (Scenario, error) {
	s := Scenario{
		Name:              "DC-Coupled",
		Key:               KeyDCCoupled,
		Description:       "Co-located behind the meter, shared connection point",
		Region:            defaultRegion(region),
		BatteryPowerMW:    batteryMW,
		BatteryHours:      batteryHours,
		SolarMW:           solarMW,
		MLF:               0.88,
		GridCharging:      false,
		MaxGridChargeRate: 0.0,
		ArbitrageEnabled:  true,
		FCASEnabled:       false,

		CapexBatteryPerKW:      DefaultCapexBatteryPerKW,
		CapexSolarPerKW:        DefaultCapexSolarPerKW,
		CapexConnectionPerKW:   DefaultCapexConnectionPerKW,
		ConnectionSynergyPerKW: 100.0,
	}
	s.applyPPA(batteryMW, ppa)
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// AllPresets builds the three presets with shared sizing, keyed for
// comparison. The PPA, when given, applies to every preset.
func AllPresets(batteryMW, batteryHours, solarMW float64, region string, ppa *PPA) (map[string]Scenario, error) {
	standalone, err := NewStandalone(batteryMW, batteryHours, region, ppa)
	if err != nil {
		return nil, err
	}
	ac, err := NewACCoupled(batteryMW, batteryHours, solarMW, region, ppa)
	if err != nil {
		return nil, err
	}
	dc, err := NewDCCoupled(batteryMW, batteryHours, solarMW, region, ppa)
	if err != nil {
		return nil, err
	}
	return map[string]Scenario{
		KeyStandalone: standalone,
		KeyACCoupled:  ac,
		KeyDCCoupled:  dc,
	}, nil
}

func (s *Scenario) applyPPA(batteryMW float64, ppa *PPA) {
	if ppa == nil {
		return
	}
	s.PPAEnabled = true
	s.PPAPricePerMWh = ppa.PricePerMWh
	s.PPALoadMW = ppa.LoadMW
	if s.PPALoadMW == 0 {
		s.PPALoadMW = batteryMW * 0.5
	}
}

func defaultRegion(region string) string {
	if region == "" {
		return "NSW1"
	}
	return region
}
