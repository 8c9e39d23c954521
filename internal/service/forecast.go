package service

import (
	"context"
	"time"

	"irrigation_console/internal/client"
	"irrigation_console/internal/logger"
	"irrigation_console/internal/models"
)

const (
	defaultSettleDelay  = 500 * time.Millisecond
	defaultForecastDays = 5

	placeholderTempMax = 28.0
	placeholderTempMin = 20.0
)

// locationSource resolves the device location when a refresh is requested
// without coordinates.
type locationSource interface {
	Get(ctx context.Context) models.LocationConfig
}

// ForecastOptions configures the settle delay and horizon.
type ForecastOptions struct {
	SettleDelay time.Duration
	Days        int
}

// ForecastCoordinator asks the backend to recompute its forecast cache, waits
// a settle delay, then reads the cache. The delay is not an acknowledgement:
// a slow backend refresh can still yield the previous cache contents.
type ForecastCoordinator struct {
	backend   ForecastBackend
	locations locationSource
	devices   deviceBinding
	opts      ForecastOptions
	log       *logger.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewForecastCoordinator(backend ForecastBackend, locations locationSource, devices deviceBinding, opts ForecastOptions, log *logger.Logger) *ForecastCoordinator {
	if opts.SettleDelay < 0 {
		opts.SettleDelay = defaultSettleDelay
	}
	if opts.Days <= 0 {
		opts.Days = defaultForecastDays
	}
	return &ForecastCoordinator{
		backend:   backend,
		locations: locations,
		devices:   devices,
		opts:      opts,
		log:       log,
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

// RequestRefresh fires the backend recompute. With nil coords the saved
// location is used; without one the request is skipped. Failures are logged
// only.
func (f *ForecastCoordinator) RequestRefresh(ctx context.Context, coords *client.Coordinates) bool {
	if coords == nil {
		loc := f.locations.Get(ctx)
		if !loc.HasRealLocation {
			f.log.Infow("forecast_refresh_skipped", "reason", "no saved location")
			return false
		}
		coords = &client.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}
	}
	if err := f.backend.TriggerForecastUpdate(ctx, f.devices.DeviceID(), *coords); err != nil {
		f.log.Warnw("forecast_refresh_failed", "err", err)
		return false
	}
	return true
}

// Refresh runs the full protocol and always returns exactly Days entries.
func (f *ForecastCoordinator) Refresh(ctx context.Context, coords *client.Coordinates) []models.WeatherForecast {
	f.RequestRefresh(ctx, coords)

	if err := f.sleep(ctx, f.opts.SettleDelay); err != nil {
		return f.Placeholder()
	}

	days := f.backend.CachedForecast(ctx, f.opts.Days)
	if len(days) < f.opts.Days {
		f.log.Infow("forecast_placeholder", "cached", len(days), "want", f.opts.Days)
		return f.Placeholder()
	}
	return days[:f.opts.Days]
}

// Placeholder is the deterministic forecast shown before the backend has
// computed one: Days entries from today, clear, no precipitation.
func (f *ForecastCoordinator) Placeholder() []models.WeatherForecast {
	today := f.now()
	out := make([]models.WeatherForecast, f.opts.Days)
	for i := range out {
		out[i] = models.WeatherForecast{
			Date:      today.AddDate(0, 0, i).Format("2006-01-02"),
			TempMax:   placeholderTempMax,
			TempMin:   placeholderTempMin,
			Condition: client.DefaultCondition,
			PrecipMm:  0,
		}
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
