package models

// SensorHistoryPoint is one chart sample; Time is local "HH:MM".
type SensorHistoryPoint struct {
	Time     string  `json:"time"`
	Temp     float64 `json:"temp"`
	Humidity float64 `json:"humidity"`
	Soil     float64 `json:"soil"`
}

// Log levels emitted by the backend.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogEntry is a device log line, newest first per the backend contract.
type LogEntry struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"` // INFO | WARN | ERROR
	Message   string `json:"message"`
	DeviceID  string `json:"device_id"`
}

// LogPage is one page of device logs.
type LogPage struct {
	Data  []LogEntry `json:"data"`
	Total int        `json:"total"`
}
