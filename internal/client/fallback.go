package client

import (
	"time"

	"irrigation_console/internal/models"
)

// Fallback snapshot values shown when the device status cannot be read.
const (
	fallbackTemperatureC = 28.5
	fallbackHumidityPct  = 65.2
	fallbackSoilRaw      = 2150
	fallbackPlannedL     = 2.5
	fallbackExecutedL    = 1.2
)

// FallbackStatus is the fixed synthetic snapshot for deviceID at now.
func FallbackStatus(deviceID string, now time.Time) models.DeviceStatus {
	return models.DeviceStatus{
		DeviceID:     deviceID,
		Timestamp:    now.UTC(),
		TemperatureC: fallbackTemperatureC,
		HumidityPct:  fallbackHumidityPct,
		SoilStatus:   models.SoilOptimal,
		SoilRaw:      fallbackSoilRaw,
		RainStatus:   models.RainNone,
		PumpState:    models.PumpOff,
		ShadeState:   models.ShadeClosed,
		TodayPlan: models.TodayPlan{
			PlannedVolumeL:  fallbackPlannedL,
			ExecutedVolumeL: fallbackExecutedL,
		},
	}
}

// EmptyHistory is the history fallback. Trend data is never fabricated.
func EmptyHistory() []models.SensorHistoryPoint {
	return []models.SensorHistoryPoint{}
}

// EmptyLogPage is the logs fallback.
func EmptyLogPage() models.LogPage {
	return models.LogPage{Data: []models.LogEntry{}, Total: 0}
}
