package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// LocationLookup tells a saved location apart from "never saved" and from a failed read.
type LocationLookup int

const (
	LocationFound LocationLookup = iota
	LocationAbsent
	LocationUnavailable
)

func (l LocationLookup) String() string {
	switch l {
	case LocationFound:
		return "found"
	case LocationAbsent:
		return "absent"
	default:
		return "unavailable"
	}
}

// Coordinates is a bare lat/lng pair as stored by the backend.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location reads the device's saved coordinates. A 404 is LocationAbsent and
// is not logged as an error.
func (c *Client) Location(ctx context.Context, deviceID string) (Coordinates, LocationLookup) {
	var coords Coordinates
	err := c.getJSON(ctx, "/location/"+url.PathEscape(deviceID), nil, &coords)
	switch {
	case err == nil:
		return coords, LocationFound
	case errors.Is(err, ErrNotFound):
		c.log.Infow("location_not_saved", "device_id", deviceID)
		return Coordinates{}, LocationAbsent
	default:
		c.logReadFailure("location_fetch_failed", err, "device_id", deviceID)
		return Coordinates{}, LocationUnavailable
	}
}

// UpdateLocation writes the device coordinates.
func (c *Client) UpdateLocation(ctx context.Context, deviceID string, coords Coordinates) error {
	return c.action(ctx, http.MethodPost, "/location/"+url.PathEscape(deviceID), nil, coords)
}
