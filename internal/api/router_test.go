package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bess-colocation/internal/api/models"
	"bess-colocation/internal/store/memory"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(memory.NewRunStore())
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorDetail {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func benchmarkRequest() map[string]interface{} {
	return map[string]interface{}{
		"sizing": map[string]interface{}{
			"battery_power_mw": 100,
			"battery_hours":    4,
			"solar_mw":         200,
		},
		"dispatch": map[string]interface{}{"provider": "benchmark"},
	}
}

func TestHealth(t *testing.T) {
	router := setupRouter()

	w := doJSON(t, router, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCompareBenchmarkRoundTrip(t *testing.T) {
	router := setupRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/compare", benchmarkRequest())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "NSW1", resp.Region)
	assert.Equal(t, 2025, resp.Year)
	assert.Equal(t, "benchmark", resp.RevenueSource)

	require.Len(t, resp.Scenarios, 3)
	assert.Equal(t, "standalone", resp.Scenarios[0].Key)
	assert.Equal(t, "ac_coupled", resp.Scenarios[1].Key)
	assert.Equal(t, "dc_coupled", resp.Scenarios[2].Key)

	sa, ac, dc := resp.Scenarios[0], resp.Scenarios[1], resp.Scenarios[2]

	assert.InDelta(t, 10_000_000, sa.Year1Revenue, 1)
	assert.InDelta(t, 10_000_000*0.90/0.98, ac.Year1Revenue, 1)
	assert.InDelta(t, 7_000_000*0.88/0.98, dc.Year1Revenue, 1)

	assert.InDelta(t, 100e6, sa.TotalCapex, 1)
	assert.InDelta(t, 292.5e6, ac.TotalCapex, 1)
	assert.InDelta(t, 290e6, dc.TotalCapex, 1)

	for _, res := range resp.Scenarios {
		assert.Equal(t, "benchmark", res.RevenueSource)
		assert.Zero(t, res.AnnualGenerationMWh)
		assert.Nil(t, res.LCOE, "benchmark runs have no generation, LCOE must be null")
		assert.Empty(t, res.CashFlows)
	}
	assert.Nil(t, dc.PaybackYears, "dc_coupled never recovers its capex")

	// The run must be retrievable with the same rows.
	w = doJSON(t, router, http.MethodGet, "/api/v1/runs/"+resp.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var run models.RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Equal(t, resp.ID, run.ID)
	assert.Equal(t, "NSW1", run.Region)
	assert.Equal(t, 2025, run.Year)
	assert.InDelta(t, 100, run.BatteryPowerMW, 1e-9)
	assert.InDelta(t, 4, run.BatteryHours, 1e-9)
	assert.InDelta(t, 200, run.SolarMW, 1e-9)
	assert.Equal(t, "benchmark", run.RevenueSource)

	var stored []models.ScenarioResult
	require.NoError(t, json.Unmarshal(run.Scenarios, &stored))
	require.Len(t, stored, 3)
	assert.Equal(t, "standalone", stored[0].Key)
	assert.InDelta(t, sa.Year1Revenue, stored[0].Year1Revenue, 1e-6)
}

func TestCompareIncludesCashFlows(t *testing.T) {
	router := setupRouter()

	req := benchmarkRequest()
	req["options"] = map[string]interface{}{"include_cash_flows": true}

	w := doJSON(t, router, http.MethodPost, "/api/v1/compare", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Scenarios, 3)

	for _, res := range resp.Scenarios {
		require.Len(t, res.CashFlows, 16, "year 0 plus 15 operating years")
		assert.Equal(t, 0, res.CashFlows[0].Year)
		assert.InDelta(t, -res.TotalCapex, res.CashFlows[0].NetCashFlow, 1)
		assert.InDelta(t, res.CashFlows[0].NetCashFlow, res.CashFlows[0].Cumulative, 1e-6)
		assert.Equal(t, 15, res.CashFlows[15].Year)
	}

	// Stored runs stay compact: no cash-flow tables in the blob.
	w = doJSON(t, router, http.MethodGet, "/api/v1/runs/"+resp.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var run models.RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	var stored []models.ScenarioResult
	require.NoError(t, json.Unmarshal(run.Scenarios, &stored))
	for _, res := range stored {
		assert.Empty(t, res.CashFlows)
	}
}

func TestCompareValidation(t *testing.T) {
	router := setupRouter()

	cases := []struct {
		name string
		body map[string]interface{}
		code string
	}{
		{
			name: "missing sizing",
			body: map[string]interface{}{},
			code: "INVALID_REQUEST",
		},
		{
			name: "negative battery hours",
			body: map[string]interface{}{
				"sizing": map[string]interface{}{"battery_power_mw": 100, "battery_hours": -1},
			},
			code: "INVALID_SIZING",
		},
		{
			name: "debt ratio above one",
			body: map[string]interface{}{
				"sizing":    map[string]interface{}{"battery_power_mw": 100, "battery_hours": 4},
				"financial": map[string]interface{}{"debt_ratio": 1.5},
			},
			code: "INVALID_FINANCIAL",
		},
		{
			name: "unknown dispatch provider",
			body: map[string]interface{}{
				"sizing":   map[string]interface{}{"battery_power_mw": 100, "battery_hours": 4},
				"dispatch": map[string]interface{}{"provider": "magic"},
			},
			code: "INVALID_DISPATCH",
		},
		{
			name: "unknown data source",
			body: map[string]interface{}{
				"sizing":   map[string]interface{}{"battery_power_mw": 100, "battery_hours": 4},
				"dispatch": map[string]interface{}{"provider": "benchmark"},
				"data":     map[string]interface{}{"source": "csv"},
			},
			code: "DATA_FETCH_ERROR",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/v1/compare", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tc.code, decodeError(t, w).Code)
		})
	}
}

func TestCompareWithFetchedPrices(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key-0123456789", r.Header.Get("x-api-key"))

		intervals := make([]map[string]interface{}, 24)
		for h := 0; h < 24; h++ {
			price := 80.0
			if h < 6 {
				price = 20.0
			}
			if h >= 17 && h <= 20 {
				price = 300.0
			}
			start := day.Add(time.Duration(h) * time.Hour)
			intervals[h] = map[string]interface{}{
				"interval_start_utc": start.Format(time.RFC3339),
				"interval_end_utc":   start.Add(time.Hour).Format(time.RFC3339),
				"region":             "NSW1",
				"rrp":                price,
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"status_code": 200, "data": intervals})
	}))
	defer srv.Close()

	router := setupRouter()
	body := map[string]interface{}{
		"sizing":   map[string]interface{}{"battery_power_mw": 100, "battery_hours": 4},
		"dispatch": map[string]interface{}{"provider": "plan", "soc_steps": 20, "power_steps": 4},
		"data": map[string]interface{}{
			"source":     "api",
			"api_key":    "test-key-0123456789",
			"base_url":   srv.URL,
			"start_date": "2025-06-01",
			"end_date":   "2025-06-02",
		},
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/compare", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Scenarios, 3)
	assert.Equal(t, "dispatch", resp.RevenueSource)

	sa := resp.Scenarios[0]
	require.Equal(t, "standalone", sa.Key)
	assert.Equal(t, "dispatch", sa.RevenueSource)
	assert.Greater(t, sa.AnnualGenerationMWh, 0.0, "the day has a 280 $/MWh spread to arbitrage")
	assert.Greater(t, sa.Breakdown.Arbitrage, 0.0)
}

func TestCompareWithScheduleProvider(t *testing.T) {
	router := setupRouter()
	body := map[string]interface{}{
		"sizing":   map[string]interface{}{"battery_power_mw": 50, "battery_hours": 2},
		"dispatch": map[string]interface{}{"provider": "schedule"},
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/compare", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Scenarios, 3)
	assert.Equal(t, "dispatch", resp.RevenueSource)

	// Charging the midday trough and selling the evening peak makes
	// money on the synthetic price shape.
	sa := resp.Scenarios[0]
	require.Equal(t, "standalone", sa.Key)
	assert.Greater(t, sa.AnnualGenerationMWh, 0.0)
	assert.Greater(t, sa.Breakdown.Arbitrage, -sa.Breakdown.ChargeCost)

	bad := map[string]interface{}{
		"sizing":   map[string]interface{}{"battery_power_mw": 50, "battery_hours": 2},
		"dispatch": map[string]interface{}{"provider": "schedule", "charge_start": "25:00"},
	}
	w = doJSON(t, router, http.MethodPost, "/api/v1/compare", bad)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "INVALID_DISPATCH", decodeError(t, w).Code)
}

func TestCompareMapsPriceAPIErrors(t *testing.T) {
	t.Run("forbidden maps to 401", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"detail":"forbidden"}`)
		}))
		defer srv.Close()

		router := setupRouter()
		body := map[string]interface{}{
			"sizing": map[string]interface{}{"battery_power_mw": 100, "battery_hours": 4},
			"data": map[string]interface{}{
				"source":   "api",
				"api_key":  "test-key-0123456789",
				"base_url": srv.URL,
			},
		}

		w := doJSON(t, router, http.MethodPost, "/api/v1/compare", body)
		require.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())

		detail := decodeError(t, w)
		assert.Equal(t, "INVALID_API_KEY", detail.Code)
		assert.EqualValues(t, http.StatusForbidden, detail.Details["status_code"])
	})

	t.Run("malformed key stays 400", func(t *testing.T) {
		router := setupRouter()
		body := map[string]interface{}{
			"sizing": map[string]interface{}{"battery_power_mw": 100, "battery_hours": 4},
			"data":   map[string]interface{}{"source": "api", "api_key": "short"},
		}

		w := doJSON(t, router, http.MethodPost, "/api/v1/compare", body)
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		assert.Equal(t, "INVALID_API_KEY_FORMAT", decodeError(t, w).Code)
	})
}

func TestGetRunErrors(t *testing.T) {
	router := setupRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/runs/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_RUN_ID", decodeError(t, w).Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/runs/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RUN_NOT_FOUND", decodeError(t, w).Code)
}

func TestListRuns(t *testing.T) {
	router := setupRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/runs", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list models.RunListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Zero(t, list.Count)

	first := doJSON(t, router, http.MethodPost, "/api/v1/compare", benchmarkRequest())
	require.Equal(t, http.StatusOK, first.Code)
	second := doJSON(t, router, http.MethodPost, "/api/v1/compare", benchmarkRequest())
	require.Equal(t, http.StatusOK, second.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/runs?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)
	require.Len(t, list.Runs, 2)
	for _, item := range list.Runs {
		assert.Equal(t, "benchmark", item.RevenueSource)
		assert.Equal(t, "NSW1", item.Region)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/runs?limit=zero", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_LIMIT", decodeError(t, w).Code)
}

func TestListScenarios(t *testing.T) {
	router := setupRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/scenarios?battery_power_mw=50&battery_hours=2&solar_mw=100", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Scenarios []models.PresetInfo `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Scenarios, 3)

	sa := resp.Scenarios[0]
	assert.Equal(t, "standalone", sa.Key)
	assert.InDelta(t, 0.98, sa.MLF, 1e-9)
	assert.True(t, sa.GridCharging)
	assert.True(t, sa.FCASEnabled)
	assert.InDelta(t, 100, sa.EnergyCapacityMWh, 1e-9)
	assert.InDelta(t, 50e6, sa.TotalCapex, 1)
	assert.Zero(t, sa.SolarMW)

	dc := resp.Scenarios[2]
	assert.Equal(t, "dc_coupled", dc.Key)
	assert.False(t, dc.GridCharging)
	assert.False(t, dc.FCASEnabled)
	assert.InDelta(t, 100, dc.SolarMW, 1e-9)
}
