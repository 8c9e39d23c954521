package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"irrigation_console/internal/models"
)

// DefaultCondition is used when the provider payload has no usable textDay.
const DefaultCondition = "clear"

const dateLayout = "2006-01-02"

type forecastUpdateRequest struct {
	DeviceID  string  `json:"device_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TriggerForecastUpdate asks the backend to refresh its cached forecast.
func (c *Client) TriggerForecastUpdate(ctx context.Context, deviceID string, coords Coordinates) error {
	return c.action(ctx, http.MethodPost, "/forecast/update", nil, forecastUpdateRequest{
		DeviceID:  deviceID,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
	})
}

type forecastWire struct {
	Success bool `json:"success"`
	Data    []struct {
		Date     string   `json:"date"`
		TempMax  *float64 `json:"temp_max"`
		TempMin  *float64 `json:"temp_min"`
		PrecipMm *float64 `json:"precip_mm"`
		RawJSON  string   `json:"raw_json"`
	} `json:"data"`
}

// CachedForecast reads up to days cached forecast entries. Failures yield nil.
func (c *Client) CachedForecast(ctx context.Context, days int) []models.WeatherForecast {
	q := url.Values{}
	q.Set("days", strconv.Itoa(days))

	var w forecastWire
	if err := c.getJSON(ctx, "/forecast", q, &w); err != nil {
		c.logReadFailure("forecast_fetch_failed", err, "days", days)
		return nil
	}
	if !w.Success {
		c.log.Infow("forecast_not_ready")
		return nil
	}

	out := make([]models.WeatherForecast, 0, len(w.Data))
	for _, d := range w.Data {
		f := models.WeatherForecast{
			Date:      normalizeDate(d.Date),
			Condition: ConditionFromRaw(d.RawJSON),
		}
		if d.TempMax != nil {
			f.TempMax = *d.TempMax
		}
		if d.TempMin != nil {
			f.TempMin = *d.TempMin
		}
		if d.PrecipMm != nil {
			f.PrecipMm = *d.PrecipMm
		}
		out = append(out, f)
	}
	return out
}

// ConditionFromRaw extracts textDay from the opaque provider payload.
func ConditionFromRaw(raw string) string {
	if raw == "" {
		return DefaultCondition
	}
	var payload struct {
		TextDay string `json:"textDay"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil || payload.TextDay == "" {
		return DefaultCondition
	}
	return payload.TextDay
}

// normalizeDate renders backend dates as YYYY-MM-DD; unknown shapes pass through.
func normalizeDate(s string) string {
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout)
		}
	}
	return s
}
