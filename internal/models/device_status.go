package models

import "time"

// Soil moisture classes.
const (
	SoilDry     = "dry"
	SoilOptimal = "optimal"
	SoilWet     = "wet"
)

// Rain sensor states.
const (
	RainRaining = "raining"
	RainNone    = "no_rain"
)

// Pump states.
const (
	PumpOn  = "on"
	PumpOff = "off"
)

// Shade mechanism states.
const (
	ShadeOpen    = "open"
	ShadeClosed  = "closed"
	ShadePartial = "partial"
)

// DeviceStatus is the latest device snapshot. It is replaced wholesale on every poll.
type DeviceStatus struct {
	DeviceID     string    `json:"device_id"`
	Timestamp    time.Time `json:"timestamp"`
	TemperatureC float64   `json:"temperature_c"` // °C
	HumidityPct  float64   `json:"humidity_pct"`  // %
	SoilStatus   string    `json:"soil_status"`   // dry | optimal | wet
	SoilRaw      int       `json:"soil_raw"`      // ADC reading
	RainStatus   string    `json:"rain_status"`   // raining | no_rain
	PumpState    string    `json:"pump_state"`    // on | off
	ShadeState   string    `json:"shade_state"`   // open | closed | partial
	TodayPlan    TodayPlan `json:"today_plan"`
}

type TodayPlan struct {
	PlannedVolumeL  float64 `json:"planned_volume_l"`
	ExecutedVolumeL float64 `json:"executed_volume_l"`
}
