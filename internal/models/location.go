package models

// LocationConfig is the device geolocation plus whether it was really saved
// or is the default placeholder.
type LocationConfig struct {
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	HasRealLocation bool    `json:"has_real_location"`
	Region          string  `json:"region,omitempty"`
}
