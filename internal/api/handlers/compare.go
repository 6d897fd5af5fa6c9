package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"bess-colocation/internal/api/models"
	"bess-colocation/internal/compare"
	"bess-colocation/internal/config"
	"bess-colocation/internal/data"
	"bess-colocation/internal/dispatch"
	"bess-colocation/internal/scenario"
	"bess-colocation/internal/store"
	"bess-colocation/internal/timeseries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CompareHandler handles comparison requests
type CompareHandler struct {
	runs store.RunStore
}

// NewCompareHandler creates a new compare handler backed by the given
// run store.
func NewCompareHandler(runs store.RunStore) *CompareHandler {
	return &CompareHandler{runs: runs}
}

// RunCompare handles POST /api/v1/compare
func (h *CompareHandler) RunCompare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	sizing := toSizingConfig(req.Sizing)
	presets, err := sizing.Presets()
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_SIZING", err.Error())
		return
	}

	params := toFinancialConfig(req.Financial).ToParams()
	if err := params.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_FINANCIAL", err.Error())
		return
	}

	assumptions := toAssumptionsConfig(req.Assumptions).ToAssumptions()
	if err := assumptions.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_ASSUMPTIONS", err.Error())
		return
	}

	provider, err := buildProvider(req.Dispatch)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_DISPATCH", err.Error())
		return
	}

	// Region (with the preset default applied) is needed for the
	// data fetch and for the response echo.
	region := presets[scenario.KeyStandalone].Region

	inputs, err := h.fetchInputs(req.Data, region, sizing.Year)
	if err != nil {
		var apiErr *data.APIError
		if errors.As(err, &apiErr) {
			status := http.StatusBadRequest
			if apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusUnauthorized {
				status = http.StatusUnauthorized
			} else if apiErr.StatusCode == http.StatusTooManyRequests {
				status = http.StatusTooManyRequests
			}
			c.JSON(status, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    apiErr.Code,
					Message: apiErr.Message,
					Details: map[string]interface{}{
						"status_code": apiErr.StatusCode,
						"retry_after": apiErr.RetryAfter,
					},
				},
			})
			return
		}
		writeError(c, http.StatusBadRequest, "DATA_FETCH_ERROR", err.Error())
		return
	}

	runner := compare.NewRunner(provider)
	runner.Finance = params
	runner.Assumptions = assumptions

	summaries, err := runner.Compare(presets, inputs)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "COMPARE_ERROR", err.Error())
		return
	}

	results := make([]models.ScenarioResult, 0, len(scenario.PresetKeys))
	for _, key := range scenario.PresetKeys {
		sum, ok := summaries[key]
		if !ok {
			continue
		}
		results = append(results, toScenarioResult(sum, req.Options.IncludeCashFlows))
	}

	run, err := h.persistRun(c, sizing, region, results)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}

	c.JSON(http.StatusOK, models.CompareResponse{
		ID:             run.ID.String(),
		Status:         "completed",
		GeneratedAt:    run.CreatedAt,
		Region:         run.Region,
		Year:           run.Year,
		BatteryPowerMW: run.BatteryPowerMW,
		BatteryHours:   run.BatteryHours,
		SolarMW:        run.SolarMW,
		RevenueSource:  run.RevenueSource,
		Scenarios:      results,
	})
}

// GetRun handles GET /api/v1/runs/:id
func (h *CompareHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_RUN_ID", "run id must be a UUID")
		return
	}

	run, err := h.runs.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(c, http.StatusNotFound, "RUN_NOT_FOUND", fmt.Sprintf("no run with id %s", id))
			return
		}
		writeError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}

	c.JSON(http.StatusOK, models.RunResponse{
		ID:             run.ID.String(),
		CreatedAt:      run.CreatedAt,
		Region:         run.Region,
		Year:           run.Year,
		BatteryPowerMW: run.BatteryPowerMW,
		BatteryHours:   run.BatteryHours,
		SolarMW:        run.SolarMW,
		RevenueSource:  run.RevenueSource,
		Scenarios:      run.Summaries,
	})
}

// ListRuns handles GET /api/v1/runs
func (h *CompareHandler) ListRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > 100 {
		limit = 100
	}

	runs, err := h.runs.ListRecent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}

	items := make([]models.RunListItem, len(runs))
	for i, run := range runs {
		items[i] = models.RunListItem{
			ID:             run.ID.String(),
			CreatedAt:      run.CreatedAt,
			Region:         run.Region,
			Year:           run.Year,
			BatteryPowerMW: run.BatteryPowerMW,
			BatteryHours:   run.BatteryHours,
			SolarMW:        run.SolarMW,
			RevenueSource:  run.RevenueSource,
		}
	}

	c.JSON(http.StatusOK, models.RunListResponse{Runs: items, Count: len(items)})
}

// Helper methods

// fetchInputs builds the price and solar series for one analysis
// year. Solar capacity factors are always synthetic; prices come from
// the price API when the request asks for it.
func (h *CompareHandler) fetchInputs(ds models.DataSourceRequest, region string, year int) (compare.Inputs, error) {
	solarCF := timeseries.SyntheticSolarCF(year)

	source := ds.Source
	if source == "" {
		source = config.SourceSynthetic
	}

	switch source {
	case config.SourceSynthetic:
		return compare.Inputs{Prices: timeseries.SyntheticPrices(year), SolarCF: solarCF}, nil
	case config.SourceAPI:
		client := data.NewPriceClient(ds.APIKey, ds.BaseURL)
		start := ds.StartDate
		end := ds.EndDate
		if start == "" {
			start = fmt.Sprintf("%d-01-01", year)
		}
		if end == "" {
			end = fmt.Sprintf("%d-12-31", year)
		}
		datasetID := ds.DatasetID
		if datasetID == "" {
			datasetID = data.DefaultDatasetID
		}
		resp, err := client.QueryRegionByString(datasetID, region, start, end)
		if err != nil {
			return compare.Inputs{}, err
		}
		prices, err := data.RegionSeries(resp, region)
		if err != nil {
			return compare.Inputs{}, err
		}
		return compare.Inputs{Prices: prices, SolarCF: solarCF}, nil
	default:
		return compare.Inputs{}, fmt.Errorf("unsupported data source: %q", source)
	}
}

// persistRun stores the comparison under a fresh UUID. The scenario
// rows are persisted exactly as returned, minus cash-flow tables.
func (h *CompareHandler) persistRun(c *gin.Context, sizing config.SizingConfig, region string, results []models.ScenarioResult) (*store.ComparisonRun, error) {
	stored := make([]models.ScenarioResult, len(results))
	for i, res := range results {
		res.CashFlows = nil
		stored[i] = res
	}
	blob, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}

	run := &store.ComparisonRun{
		ID:             uuid.New(),
		CreatedAt:      time.Now().UTC(),
		Region:         region,
		Year:           sizing.Year,
		BatteryPowerMW: sizing.BatteryPowerMW,
		BatteryHours:   sizing.BatteryHours,
		SolarMW:        sizing.SolarMW,
		RevenueSource:  overallSource(results),
		Summaries:      blob,
	}
	if err := h.runs.Insert(c.Request.Context(), run); err != nil {
		return nil, err
	}
	return run, nil
}

func toSizingConfig(req models.SizingRequest) config.SizingConfig {
	sizing := config.SizingConfig{
		BatteryPowerMW: req.BatteryPowerMW,
		BatteryHours:   req.BatteryHours,
		SolarMW:        req.SolarMW,
		Region:         req.Region,
		Year:           req.Year,
		PPAPricePerMWh: req.PPAPricePerMWh,
		PPALoadMW:      req.PPALoadMW,
	}
	if sizing.Year == 0 {
		sizing.Year = 2025
	}
	return sizing
}

func toFinancialConfig(req models.FinancialRequest) config.FinancialConfig {
	return config.FinancialConfig{
		ProjectLifeYears:         req.ProjectLifeYears,
		ConstructionMonths:       req.ConstructionMonths,
		DebtRatio:                req.DebtRatio,
		InterestRate:             req.InterestRate,
		DebtTermYears:            req.DebtTermYears,
		OpexBatteryPctOfCapex:    req.OpexBatteryPctOfCapex,
		OpexSolarPctOfCapex:      req.OpexSolarPctOfCapex,
		InsurancePctOfCapex:      req.InsurancePctOfCapex,
		BatteryDegradationAnnual: req.BatteryDegradationAnnual,
		SolarDegradationAnnual:   req.SolarDegradationAnnual,
		Inflation:                req.Inflation,
		DiscountRate:             req.DiscountRate,
		TaxRate:                  req.TaxRate,
	}
}

func toAssumptionsConfig(req models.AssumptionsRequest) config.AssumptionsConfig {
	return config.AssumptionsConfig{
		FCASShareOfArbitrage: req.FCASShareOfArbitrage,
		PPACapacityFactor:    req.PPACapacityFactor,
		BenchmarkPerMWYear:   req.BenchmarkPerMWYear,
		BenchmarkMLF:         req.BenchmarkMLF,
		NoGridChargeHaircut:  req.NoGridChargeHaircut,
	}
}

// buildProvider returns nil for the benchmark provider, which makes
// the runner price every scenario with the fallback estimate.
func buildProvider(req models.DispatchRequest) (dispatch.Provider, error) {
	dc := config.DispatchConfig{
		Provider:              req.Provider,
		SOCSteps:              req.SOCSteps,
		PowerSteps:            req.PowerSteps,
		ChargeEfficiency:      req.ChargeEfficiency,
		DischargeEfficiency:   req.DischargeEfficiency,
		DegradationCostPerMWh: req.DegradationCostPerMWh,
		ChargeStart:           req.ChargeStart,
		ChargeEnd:             req.ChargeEnd,
		DischargeStart:        req.DischargeStart,
		DischargeEnd:          req.DischargeEnd,
	}
	switch dc.Provider {
	case "", "plan":
		return dispatch.NewPlanProvider(dc.ToPlanParams()), nil
	case "schedule":
		p, err := dispatch.NewScheduleProvider(dc.ToScheduleParams())
		if err != nil {
			return nil, err
		}
		return p, nil
	case "benchmark":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported dispatch provider: %q", dc.Provider)
	}
}

func toScenarioResult(sum compare.Summary, includeCashFlows bool) models.ScenarioResult {
	res := models.ScenarioResult{
		Key:          sum.Key,
		Scenario:     sum.ScenarioName,
		Description:  sum.Description,
		MLF:          sum.MLF,
		GridCharging: sum.GridCharging,
		FCASEnabled:  sum.FCASEnabled,
		TotalCapex:   sum.TotalCapex,
		Year1Revenue: sum.Year1Revenue,
		Year1Opex:    sum.Year1Opex,
		NPV:          sum.NPV,
		PaybackYears: finite(sum.PaybackYears),

		AnnualGenerationMWh: sum.AnnualGenerationMWh,
		LCOE:                finite(sum.LCOE),

		RevenueSource: sum.RevenueSource,
		Breakdown: models.RevenueBreakdown{
			Arbitrage:  sum.Breakdown.Arbitrage,
			ChargeCost: sum.Breakdown.ChargeCost,
			Solar:      sum.Breakdown.Solar,
			FCAS:       sum.Breakdown.FCAS,
			PPA:        sum.Breakdown.PPA,
			Total:      sum.Breakdown.Total,
		},
	}
	if sum.IRRDefined {
		res.IRR = finite(sum.IRR)
	}

	if includeCashFlows {
		cumulative := sum.CashFlows.Cumulative()
		rows := make([]models.CashFlowRow, len(sum.CashFlows))
		for i, r := range sum.CashFlows {
			rows[i] = models.CashFlowRow{
				Year:        r.Year,
				Capex:       r.Capex,
				Revenue:     r.Revenue,
				Opex:        r.Opex,
				EBITDA:      r.EBITDA,
				NetCashFlow: r.NetCashFlow,
				Cumulative:  cumulative[i],
			}
		}
		res.CashFlows = rows
	}
	return res
}

// overallSource reduces per-scenario revenue sources to one label
// for the stored run: "dispatch", "benchmark" or "mixed".
func overallSource(results []models.ScenarioResult) string {
	if len(results) == 0 {
		return ""
	}
	first := results[0].RevenueSource
	for _, res := range results[1:] {
		if res.RevenueSource != first {
			return "mixed"
		}
	}
	return first
}

func finite(x float64) *float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return nil
	}
	return &x
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
