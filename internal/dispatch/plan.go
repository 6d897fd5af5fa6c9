package dispatch

import (
	"fmt"
	"math"
	"time"

	"bess-colocation/internal/scenario"
	"bess-colocation/internal/timeseries"
)

// PlanParams controls the planner's discretization and the battery
// physics it assumes.
type PlanParams struct {
	// SOCSteps controls SOC discretization on [0, 1].
	// Higher = more accurate, slower.
	SOCSteps int

	// PowerSteps controls action discretization between [-Pmax, +Pmax].
	PowerSteps int

	// InitialSOC is the state of charge each day starts from.
	InitialSOC float64

	ChargeEfficiency    float64
	DischargeEfficiency float64

	// DegradationCostPerMWh prices cycling wear on throughput
	// (charge + discharge).
	DegradationCostPerMWh float64
}

func DefaultPlanParams() PlanParams {
	return PlanParams{
		SOCSteps:              200,
		PowerSteps:            10,
		InitialSOC:            0.5,
		ChargeEfficiency:      0.92,
		DischargeEfficiency:   0.92,
		DegradationCostPerMWh: 0.5,
	}
}

// PlanProvider computes a perfect-foresight dispatch plan by dynamic
// programming on a discretized SOC grid, optimizing each day
// independently from InitialSOC. The objective is MLF-adjusted trade
// value net of cycling cost; scenarios that cannot charge from the
// grid have their charging bounded hour by hour to the concurrent
// solar output.
type PlanProvider struct {
	Params PlanParams
}

func NewPlanProvider(params PlanParams) *PlanProvider {
	def := DefaultPlanParams()
	if params.SOCSteps <= 0 {
		params.SOCSteps = def.SOCSteps
	}
	if params.PowerSteps <= 0 {
		params.PowerSteps = def.PowerSteps
	}
	if params.InitialSOC <= 0 {
		params.InitialSOC = def.InitialSOC
	}
	if params.ChargeEfficiency <= 0 {
		params.ChargeEfficiency = def.ChargeEfficiency
	}
	if params.DischargeEfficiency <= 0 {
		params.DischargeEfficiency = def.DischargeEfficiency
	}
	if params.DegradationCostPerMWh < 0 {
		params.DegradationCostPerMWh = def.DegradationCostPerMWh
	}
	return &PlanProvider{Params: params}
}

func (p *PlanProvider) Name() string { return "plan" }

func (p *PlanProvider) Dispatch(s scenario.Scenario, prices, solarCF timeseries.Series) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	if prices.Len() == 0 {
		return Result{}, fmt.Errorf("no price intervals")
	}

	// Per-hour charge cap in MW: grid headroom plus whatever the
	// co-located solar is producing, never above battery power.
	solarAvail := alignedSolarMW(prices, solarCF, s.SolarMW)
	chargeCap := make([]float64, prices.Len())
	for i := range chargeCap {
		headroom := s.MaxGridChargeRate*s.BatteryPowerMW + solarAvail[i]
		chargeCap[i] = math.Min(s.BatteryPowerMW, headroom)
	}

	plan, err := p.optimizeByDay(s, prices, chargeCap)
	if err != nil {
		return Result{}, err
	}

	discharge := make([]float64, prices.Len())
	charge := make([]float64, prices.Len())
	for i, powerMW := range plan {
		// Hourly steps: MW and MWh coincide.
		if powerMW > 0 {
			discharge[i] = powerMW
		} else if powerMW < 0 {
			charge[i] = -powerMW
		}
	}

	res := Result{
		Discharge: timeseries.Series{Times: prices.Times, Values: discharge},
		Charge:    timeseries.Series{Times: prices.Times, Values: charge},
	}
	if s.SolarMW > 0 {
		res.SolarGen = solarCF.Scale(s.SolarMW)
	}
	return res, nil
}

// alignedSolarMW maps the capacity factor series onto the price
// timestamps as MW of available solar. Hours missing from the CF
// series count as zero.
func alignedSolarMW(prices, solarCF timeseries.Series, solarMW float64) []float64 {
	out := make([]float64, prices.Len())
	if solarMW <= 0 || solarCF.Len() == 0 {
		return out
	}
	j := 0
	for i, ts := range prices.Times {
		for j < solarCF.Len() && solarCF.Times[j].Before(ts) {
			j++
		}
		if j < solarCF.Len() && solarCF.Times[j].Equal(ts) {
			out[i] = solarCF.Values[j] * solarMW
		}
	}
	return out
}

// optimizeByDay groups hours by calendar day and optimizes each day
// independently. Hours are already sorted, so days form contiguous
// runs.
func (p *PlanProvider) optimizeByDay(s scenario.Scenario, prices timeseries.Series, chargeCap []float64) ([]float64, error) {
	var fullPlan []float64
	var currentDay time.Time
	dayStart := 0

	for i, ts := range prices.Times {
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())

		if i > 0 && !day.Equal(currentDay) {
			dayPlan, err := p.optimizeDay(s, prices, chargeCap, dayStart, i)
			if err != nil {
				return nil, fmt.Errorf("optimizing day %s: %w", currentDay.Format("2006-01-02"), err)
			}
			fullPlan = append(fullPlan, dayPlan...)
			dayStart = i
		}
		if i == dayStart {
			currentDay = day
		}
	}

	dayPlan, err := p.optimizeDay(s, prices, chargeCap, dayStart, prices.Len())
	if err != nil {
		return nil, fmt.Errorf("optimizing day %s: %w", currentDay.Format("2006-01-02"), err)
	}
	fullPlan = append(fullPlan, dayPlan...)

	if len(fullPlan) != prices.Len() {
		return nil, fmt.Errorf("plan length (%d) does not match price intervals (%d)", len(fullPlan), prices.Len())
	}
	return fullPlan, nil
}

// optimizeDay runs the DP over hours [from, to) and returns the
// realized power plan in MW (positive = discharge).
func (p *PlanProvider) optimizeDay(s scenario.Scenario, prices timeseries.Series, chargeCap []float64, from, to int) ([]float64, error) {
	socSteps := p.Params.SOCSteps
	if socSteps < 2 {
		socSteps = 2
	}
	nStates := socSteps + 1
	hours := to - from
	if hours <= 0 {
		return nil, fmt.Errorf("empty day window")
	}

	socToIdx := func(soc float64) int {
		if soc <= 0 {
			return 0
		}
		if soc >= 1 {
			return socSteps
		}
		return int(math.Round(soc * float64(socSteps)))
	}
	idxToSoc := func(idx int) float64 {
		if idx <= 0 {
			return 0
		}
		if idx >= socSteps {
			return 1
		}
		return float64(idx) / float64(socSteps)
	}

	negInf := -1e100
	dp := make([]float64, nStates)
	next := make([]float64, nStates)
	for i := range dp {
		dp[i] = negInf
	}
	initIdx := socToIdx(p.Params.InitialSOC)
	dp[initIdx] = 0

	// Backpointers: chosen next-state index and realized power.
	choice := make([][]int, hours)
	powerChosen := make([][]float64, hours)
	for t := range choice {
		choice[t] = make([]int, nStates)
		powerChosen[t] = make([]float64, nStates)
		for i := range choice[t] {
			choice[t][i] = -1
		}
	}

	pmax := s.BatteryPowerMW
	step := pmax / float64(p.Params.PowerSteps)
	actions := make([]float64, 0, 2*p.Params.PowerSteps+1)
	for k := -p.Params.PowerSteps; k <= p.Params.PowerSteps; k++ {
		actions = append(actions, float64(k)*step)
	}

	for t := 0; t < hours; t++ {
		for i := range next {
			next[i] = negInf
		}
		price := prices.Values[from+t]
		capMW := chargeCap[from+t]

		for sIdx := 0; sIdx < nStates; sIdx++ {
			if dp[sIdx] <= negInf/2 {
				continue
			}
			soc := idxToSoc(sIdx)

			bestNextState := sIdx
			bestValue := dp[sIdx]
			bestPower := 0.0

			for _, desired := range actions {
				nsoc, realized, value := p.simulateHour(s, soc, desired, price, capMW)
				ns := socToIdx(nsoc)
				v := dp[sIdx] + value
				if v > next[ns] {
					next[ns] = v
				}
				if v > bestValue {
					bestValue = v
					bestNextState = ns
					bestPower = realized
				}
			}

			choice[t][sIdx] = bestNextState
			powerChosen[t][sIdx] = bestPower
		}

		dp, next = next, dp
	}

	// Forward reconstruction from the initial state.
	plan := make([]float64, hours)
	cur := initIdx
	for t := 0; t < hours; t++ {
		ns := choice[t][cur]
		if ns < 0 {
			plan[t] = 0
			continue
		}
		plan[t] = powerChosen[t][cur]
		cur = ns
	}
	return plan, nil
}

// simulateHour applies one hour of battery physics: clip to power and
// charge-cap limits, then to SOC headroom, and value the realized
// trade at MLF-adjusted price net of cycling cost.
func (p *PlanProvider) simulateHour(s scenario.Scenario, soc, desiredMW, price, chargeCapMW float64) (nextSOC, realizedMW, value float64) {
	energyMWh := s.EnergyCapacityMWh()
	power := desiredMW
	if power > s.BatteryPowerMW {
		power = s.BatteryPowerMW
	}
	if power < -chargeCapMW {
		power = -chargeCapMW
	}

	energyFromGrid := 0.0
	energyToGrid := 0.0
	nextSOC = soc

	if power < 0 {
		reqFrom := -power
		storableMWh := (1 - soc) * energyMWh
		if storableMWh < 0 {
			storableMWh = 0
		}
		maxFrom := math.Min(storableMWh/p.Params.ChargeEfficiency, chargeCapMW)
		if reqFrom > maxFrom {
			reqFrom = maxFrom
			power = -reqFrom
		}
		nextSOC = soc + reqFrom*p.Params.ChargeEfficiency/energyMWh
		energyFromGrid = reqFrom
	} else if power > 0 {
		reqTo := power
		withdrawableMWh := soc * energyMWh
		if withdrawableMWh < 0 {
			withdrawableMWh = 0
		}
		maxTo := math.Min(withdrawableMWh*p.Params.DischargeEfficiency, s.BatteryPowerMW)
		if reqTo > maxTo {
			reqTo = maxTo
			power = reqTo
		}
		nextSOC = soc - reqTo/p.Params.DischargeEfficiency/energyMWh
		energyToGrid = reqTo
	}

	if nextSOC < 0 {
		nextSOC = 0
	}
	if nextSOC > 1 {
		nextSOC = 1
	}

	value = s.MLF*price*(energyToGrid-energyFromGrid) - p.Params.DegradationCostPerMWh*(energyToGrid+energyFromGrid)
	return nextSOC, power, value
}
