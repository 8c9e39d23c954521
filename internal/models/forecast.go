package models

// WeatherForecast is one forecast day. Date is formatted as YYYY-MM-DD.
type WeatherForecast struct {
	Date      string  `json:"date"`
	TempMax   float64 `json:"temp_max"`
	TempMin   float64 `json:"temp_min"`
	Condition string  `json:"condition"`
	PrecipMm  float64 `json:"precip_mm"`
}
