package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"irrigation_console/internal/client"
	"irrigation_console/internal/logger"
	"irrigation_console/internal/models"
	"irrigation_console/internal/repository"
)

// Persisted location mirror keys.
const (
	keySavedLatitude    = "saved_latitude"
	keySavedLongitude   = "saved_longitude"
	keyHasSavedLocation = "has_saved_location"
)

// Coordinates shown until a location is saved.
const (
	DefaultLatitude  = 39.92
	DefaultLongitude = 116.41
)

const regionDefault = "China, Beijing (default)"

// LocationStore owns the device geolocation and its local mirror. The mirror
// is only written after the backend confirms.
type LocationStore struct {
	backend LocationBackend
	devices deviceBinding
	kv      repository.KVStore
	log     *logger.Logger

	mu     sync.Mutex
	onSave []func(ctx context.Context, coords client.Coordinates)
}

func NewLocationStore(backend LocationBackend, devices deviceBinding, kv repository.KVStore, log *logger.Logger) *LocationStore {
	return &LocationStore{backend: backend, devices: devices, kv: kv, log: log}
}

// OnSave registers fn to run after every confirmed save.
func (l *LocationStore) OnSave(fn func(ctx context.Context, coords client.Coordinates)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onSave = append(l.onSave, fn)
}

// Get reads the saved location from the backend. A location that was never
// saved reports the default coordinates with HasRealLocation=false; a failed
// read falls back to the persisted mirror.
func (l *LocationStore) Get(ctx context.Context) models.LocationConfig {
	coords, lookup := l.backend.Location(ctx, l.devices.DeviceID())
	switch lookup {
	case client.LocationFound:
		l.writeMirror(coords)
		return newLocationConfig(coords.Latitude, coords.Longitude, true)
	case client.LocationAbsent:
		l.set(keyHasSavedLocation, "false")
		return defaultLocation()
	default:
		return l.Mirror()
	}
}

// Mirror returns the persisted copy without a round trip.
func (l *LocationStore) Mirror() models.LocationConfig {
	lat, okLat := l.readFloat(keySavedLatitude)
	lon, okLon := l.readFloat(keySavedLongitude)
	if !okLat || !okLon {
		return defaultLocation()
	}
	flag, _, err := l.kv.Get(keyHasSavedLocation)
	if err != nil {
		l.log.Warnw("location_flag_unreadable", "err", err)
	}
	return newLocationConfig(lat, lon, flag == "true")
}

// Save validates and writes the coordinates. Nothing is sent for invalid
// input, and the mirror is untouched when the backend rejects the write.
func (l *LocationStore) Save(ctx context.Context, lat, lon float64) (models.LocationConfig, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return models.LocationConfig{}, err
	}
	coords := client.Coordinates{Latitude: lat, Longitude: lon}
	if err := l.backend.UpdateLocation(ctx, l.devices.DeviceID(), coords); err != nil {
		l.log.Errorw("location_save_failed", "lat", lat, "lon", lon, "err", err)
		return models.LocationConfig{}, fmt.Errorf("save location: %w", err)
	}
	l.writeMirror(coords)
	l.log.Infow("location_saved", "lat", lat, "lon", lon)

	l.mu.Lock()
	hooks := append([]func(context.Context, client.Coordinates){}, l.onSave...)
	l.mu.Unlock()
	for _, fn := range hooks {
		fn(ctx, coords)
	}
	return newLocationConfig(lat, lon, true), nil
}

// ParseCoordinate parses a user-entered coordinate.
func ParseCoordinate(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidCoordinates, text)
	}
	return v, nil
}

// ValidateCoordinates requires finite values within WGS84 bounds.
func ValidateCoordinates(lat, lon float64) error {
	for _, v := range []float64{lat, lon} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: not a finite number", ErrInvalidCoordinates)
		}
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidCoordinates, lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidCoordinates, lon)
	}
	return nil
}

// regionBox is a coarse lat/lng rectangle around a known city.
type regionBox struct {
	name           string
	minLat, maxLat float64
	minLon, maxLon float64
}

// Checked in order; the first match wins.
var regionBoxes = []regionBox{
	{"China, Beijing", 39, 41, 115, 118},
	{"China, Shanghai", 30, 32, 120, 122},
	{"China, Guangzhou", 22, 24, 113, 115},
	{"China, Hangzhou", 29, 31, 119, 121},
	{"China, Chengdu", 30, 32, 103, 105},
	{"China, Wenzhou", 28, 30, 120, 122},
}

// RegionName labels coordinates with a known city or "custom (lat, lng)".
func RegionName(lat, lon float64) string {
	for _, b := range regionBoxes {
		if lat >= b.minLat && lat <= b.maxLat && lon >= b.minLon && lon <= b.maxLon {
			return b.name
		}
	}
	return fmt.Sprintf("custom (%.2f, %.2f)", lat, lon)
}

func newLocationConfig(lat, lon float64, saved bool) models.LocationConfig {
	return models.LocationConfig{
		Latitude:        lat,
		Longitude:       lon,
		HasRealLocation: saved,
		Region:          RegionName(lat, lon),
	}
}

func defaultLocation() models.LocationConfig {
	return models.LocationConfig{
		Latitude:        DefaultLatitude,
		Longitude:       DefaultLongitude,
		HasRealLocation: false,
		Region:          regionDefault,
	}
}

func (l *LocationStore) writeMirror(c client.Coordinates) {
	l.set(keySavedLatitude, strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	l.set(keySavedLongitude, strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	l.set(keyHasSavedLocation, "true")
}

func (l *LocationStore) set(key, value string) {
	if err := l.kv.Set(key, value); err != nil {
		l.log.Errorw("location_persist_failed", "key", key, "err", err)
	}
}

func (l *LocationStore) readFloat(key string) (float64, bool) {
	raw, ok, err := l.kv.Get(key)
	if err != nil || !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
