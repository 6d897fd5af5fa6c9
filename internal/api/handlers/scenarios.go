package handlers

import (
	"net/http"
	"strconv"

	"bess-colocation/internal/api/models"
	"bess-colocation/internal/scenario"

	"github.com/gin-gonic/gin"
)

// ScenarioHandler handles scenario preset requests
type ScenarioHandler struct{}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler() *ScenarioHandler {
	return &ScenarioHandler{}
}

// ListScenarios handles GET /api/v1/scenarios. Optional sizing query
// parameters (battery_power_mw, battery_hours, solar_mw, region)
// adjust the reported capacity and capex figures.
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	batteryMW := queryFloat(c, "battery_power_mw", 100)
	batteryHours := queryFloat(c, "battery_hours", 4)
	solarMW := queryFloat(c, "solar_mw", 200)
	region := c.Query("region")

	presets, err := scenario.AllPresets(batteryMW, batteryHours, solarMW, region, nil)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_SIZING", err.Error())
		return
	}

	infos := make([]models.PresetInfo, 0, len(scenario.PresetKeys))
	for _, key := range scenario.PresetKeys {
		s := presets[key]
		infos = append(infos, models.PresetInfo{
			Key:               s.Key,
			Name:              s.Name,
			Description:       s.Description,
			MLF:               s.MLF,
			GridCharging:      s.GridCharging,
			MaxGridChargeRate: s.MaxGridChargeRate,
			ArbitrageEnabled:  s.ArbitrageEnabled,
			FCASEnabled:       s.FCASEnabled,
			BatteryPowerMW:    s.BatteryPowerMW,
			BatteryHours:      s.BatteryHours,
			SolarMW:           s.SolarMW,
			EnergyCapacityMWh: s.EnergyCapacityMWh(),
			TotalCapex:        s.TotalCapex(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"scenarios": infos})
}

func queryFloat(c *gin.Context, key string, def float64) float64 {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return def
}
