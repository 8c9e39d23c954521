package client

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"irrigation_console/internal/models"
)

const (
	historyWindow = 24 * time.Hour
	// HistoryLimit bounds the 24h window to 48 samples.
	HistoryLimit = 48

	reasonManualTrigger = "manual_trigger"
)

type statusWire struct {
	DeviceID     string            `json:"device_id"`
	Timestamp    time.Time         `json:"timestamp"`
	TemperatureC float64           `json:"temperature_c"`
	HumidityPct  float64           `json:"humidity_pct"`
	SoilStatus   string            `json:"soil_status"`
	SoilRaw      int               `json:"soil_raw"`
	RainStatus   string            `json:"rain_status"`
	PumpState    string            `json:"pump_state"`
	ShadeState   string            `json:"shade_state"`
	TodayPlan    *models.TodayPlan `json:"today_plan"`
}

// DeviceStatus reads the latest snapshot, or the fixed fallback snapshot on any failure.
func (c *Client) DeviceStatus(ctx context.Context, deviceID string) models.DeviceStatus {
	var w statusWire
	err := c.getJSON(ctx, "/device/"+url.PathEscape(deviceID)+"/status", nil, &w)
	if err != nil {
		c.logReadFailure("device_status_fetch_failed", err, "device_id", deviceID)
		return FallbackStatus(deviceID, c.now())
	}
	return c.statusFromWire(deviceID, w)
}

func (c *Client) statusFromWire(deviceID string, w statusWire) models.DeviceStatus {
	st := models.DeviceStatus{
		DeviceID:     w.DeviceID,
		Timestamp:    w.Timestamp,
		TemperatureC: w.TemperatureC,
		HumidityPct:  w.HumidityPct,
		SoilStatus:   oneOf(w.SoilStatus, models.SoilOptimal, models.SoilDry, models.SoilOptimal, models.SoilWet),
		SoilRaw:      w.SoilRaw,
		RainStatus:   oneOf(w.RainStatus, models.RainNone, models.RainRaining, models.RainNone),
		PumpState:    oneOf(w.PumpState, models.PumpOff, models.PumpOn, models.PumpOff),
		ShadeState:   oneOf(w.ShadeState, models.ShadeClosed, models.ShadeOpen, models.ShadeClosed, models.ShadePartial),
	}
	if st.DeviceID == "" {
		st.DeviceID = deviceID
	}
	if st.SoilRaw == 0 {
		st.SoilRaw = fallbackSoilRaw
	}
	if w.TodayPlan != nil {
		st.TodayPlan = *w.TodayPlan
	}
	if !st.Timestamp.IsZero() {
		st.Timestamp = st.Timestamp.UTC()
	}
	return st
}

// oneOf normalizes v and returns it if allowed, otherwise def.
func oneOf(v, def string, allowed ...string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return def
}

type historyWire struct {
	Data []struct {
		Timestamp    time.Time `json:"timestamp"`
		TemperatureC *float64  `json:"temperature_c"`
		HumidityPct  *float64  `json:"humidity_pct"`
		SoilRaw      *int      `json:"soil_raw"`
	} `json:"data"`
	Total int `json:"total"`
}

// History reads the last 24h of samples in ascending time order, or an empty
// sequence on any failure.
func (c *Client) History(ctx context.Context, deviceID string) []models.SensorHistoryPoint {
	end := c.now().UTC()
	q := url.Values{}
	q.Set("start_time", end.Add(-historyWindow).Format(time.RFC3339))
	q.Set("end_time", end.Format(time.RFC3339))
	q.Set("limit", strconv.Itoa(HistoryLimit))

	var w historyWire
	if err := c.getJSON(ctx, "/device/"+url.PathEscape(deviceID)+"/history", q, &w); err != nil {
		c.logReadFailure("device_history_fetch_failed", err, "device_id", deviceID)
		return EmptyHistory()
	}
	if len(w.Data) == 0 {
		c.log.Warnw("device_history_empty", "device_id", deviceID)
		return EmptyHistory()
	}

	samples := w.Data
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})
	if len(samples) > HistoryLimit {
		samples = samples[len(samples)-HistoryLimit:]
	}

	out := make([]models.SensorHistoryPoint, 0, len(samples))
	for _, s := range samples {
		p := models.SensorHistoryPoint{Time: s.Timestamp.In(c.loc).Format("15:04")}
		if s.TemperatureC != nil {
			p.Temp = *s.TemperatureC
		}
		if s.HumidityPct != nil {
			p.Humidity = *s.HumidityPct
		}
		if s.SoilRaw != nil {
			p.Soil = float64(*s.SoilRaw)
		}
		out = append(out, p)
	}
	return out
}

type logsWire struct {
	Data []struct {
		ID        int64  `json:"id"`
		Timestamp string `json:"timestamp"`
		Level     string `json:"level"`
		Message   string `json:"message"`
		DeviceID  string `json:"device_id"`
	} `json:"data"`
	Total int `json:"total"`
}

// Logs reads one page of device logs, or an empty page with total 0 on any failure.
func (c *Client) Logs(ctx context.Context, deviceID string, limit, offset int) models.LogPage {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var w logsWire
	if err := c.getJSON(ctx, "/device/"+url.PathEscape(deviceID)+"/logs", q, &w); err != nil {
		c.logReadFailure("device_logs_fetch_failed", err, "device_id", deviceID, "offset", offset)
		return EmptyLogPage()
	}

	page := models.LogPage{Data: make([]models.LogEntry, 0, len(w.Data)), Total: w.Total}
	for _, e := range w.Data {
		page.Data = append(page.Data, models.LogEntry{
			ID:        e.ID,
			Timestamp: e.Timestamp,
			Level:     strings.ToUpper(e.Level),
			Message:   e.Message,
			DeviceID:  e.DeviceID,
		})
	}
	return page
}

type irrigateRequest struct {
	VolumeL float64 `json:"volume_l"`
	Reason  string  `json:"reason"`
}

// Irrigate queues a manual irrigation command on the device.
func (c *Client) Irrigate(ctx context.Context, deviceID string, volumeL float64) error {
	return c.action(ctx, http.MethodPost, "/device/"+url.PathEscape(deviceID)+"/irrigate", nil,
		irrigateRequest{VolumeL: volumeL, Reason: reasonManualTrigger})
}

// RecomputePlan asks the backend to rebuild the irrigation plan for the device.
func (c *Client) RecomputePlan(ctx context.Context, deviceID string) error {
	q := url.Values{}
	q.Set("device_id", deviceID)
	return c.action(ctx, http.MethodPost, "/plan/recompute", q, nil)
}

// logReadFailure records a read diagnostic. Caller teardown is not an error.
func (c *Client) logReadFailure(event string, err error, kv ...interface{}) {
	fields := append([]interface{}{"err", err}, kv...)
	if isCanceled(err) {
		c.log.Debugw(event, fields...)
		return
	}
	c.log.Errorw(event, fields...)
}
