package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"irrigation_console/internal/client"
	"irrigation_console/internal/logger"
	"irrigation_console/internal/models"
)

// stubLocations satisfies locationSource.
type stubLocations struct {
	cfg   models.LocationConfig
	calls int
}

func (s *stubLocations) Get(ctx context.Context) models.LocationConfig {
	s.calls++
	return s.cfg
}

func newTestForecast(b ForecastBackend, locs locationSource) (*ForecastCoordinator, *[]time.Duration) {
	f := NewForecastCoordinator(b, locs, fixedDevice("esp32s3-1"), ForecastOptions{SettleDelay: 500 * time.Millisecond}, logger.NewNop())
	f.now = func() time.Time { return fixedNow }
	var slept []time.Duration
	f.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return f, &slept
}

func cachedDays(n int) []models.WeatherForecast {
	out := make([]models.WeatherForecast, n)
	for i := range out {
		out[i] = models.WeatherForecast{
			Date:      fixedNow.AddDate(0, 0, i).Format("2006-01-02"),
			TempMax:   25,
			TempMin:   15,
			Condition: "Sunny",
			PrecipMm:  1,
		}
	}
	return out
}

// Property: an empty cache after the settle delay yields the 5-day placeholder.
func TestForecast_PlaceholderWhenCacheEmpty(t *testing.T) {
	b := &stubBackend{}
	f, slept := newTestForecast(b, &stubLocations{})

	got := f.Refresh(context.Background(), &client.Coordinates{Latitude: 30.27, Longitude: 120.15})

	wantDates := []string{"2025-11-25", "2025-11-26", "2025-11-27", "2025-11-28", "2025-11-29"}
	if len(got) != len(wantDates) {
		t.Fatalf("len = %d, want 5", len(got))
	}
	for i, d := range got {
		if d.Date != wantDates[i] || d.Condition != "clear" || d.PrecipMm != 0 || d.TempMax != 28 || d.TempMin != 20 {
			t.Errorf("day %d = %+v", i, d)
		}
	}
	if len(*slept) != 1 || (*slept)[0] != 500*time.Millisecond {
		t.Errorf("settle delays = %v", *slept)
	}
	if len(b.triggers) != 1 || b.triggers[0].Latitude != 30.27 || b.triggerIDs[0] != "esp32s3-1" {
		t.Errorf("triggers = %+v / %v", b.triggers, b.triggerIDs)
	}
	if len(b.cacheReads) != 1 || b.cacheReads[0] != 5 {
		t.Errorf("cache reads = %v", b.cacheReads)
	}
}

func TestForecast_CacheSizes(t *testing.T) {
	cases := []struct {
		name        string
		cached      int
		placeholder bool
	}{
		{"partial_cache", 3, true},
		{"exact", 5, false},
		{"longer_cache_truncated", 7, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &stubBackend{cached: cachedDays(tc.cached)}
			f, _ := newTestForecast(b, &stubLocations{})
			got := f.Refresh(context.Background(), &client.Coordinates{Latitude: 1, Longitude: 2})
			if len(got) != 5 {
				t.Fatalf("len = %d", len(got))
			}
			isPlaceholder := got[0].Condition == client.DefaultCondition
			if isPlaceholder != tc.placeholder {
				t.Fatalf("placeholder = %v, want %v (%+v)", isPlaceholder, tc.placeholder, got[0])
			}
		})
	}
}

func TestForecast_ResolvesSavedLocation(t *testing.T) {
	b := &stubBackend{cached: cachedDays(5)}
	locs := &stubLocations{cfg: models.LocationConfig{Latitude: 31.2, Longitude: 121.5, HasRealLocation: true}}
	f, _ := newTestForecast(b, locs)

	got := f.Refresh(context.Background(), nil)
	if locs.calls != 1 {
		t.Fatalf("location lookups = %d", locs.calls)
	}
	if len(b.triggers) != 1 || b.triggers[0] != (client.Coordinates{Latitude: 31.2, Longitude: 121.5}) {
		t.Fatalf("triggers = %+v", b.triggers)
	}
	if got[0].Condition != "Sunny" {
		t.Fatalf("expected cached forecast, got %+v", got[0])
	}
}

func TestForecast_SkipsTriggerWithoutLocation(t *testing.T) {
	b := &stubBackend{}
	f, slept := newTestForecast(b, &stubLocations{cfg: models.LocationConfig{Latitude: DefaultLatitude, Longitude: DefaultLongitude}})

	got := f.Refresh(context.Background(), nil)
	if len(b.triggers) != 0 {
		t.Fatalf("trigger sent without a saved location: %+v", b.triggers)
	}
	if len(*slept) != 1 || len(b.cacheReads) != 1 {
		t.Fatalf("cache should still be read after the settle delay")
	}
	if len(got) != 5 {
		t.Fatalf("len = %d", len(got))
	}
}

func TestForecast_TriggerFailureIsNonFatal(t *testing.T) {
	b := &stubBackend{triggerErr: errors.New("boom"), cached: cachedDays(5)}
	f, _ := newTestForecast(b, &stubLocations{})

	if ok := f.RequestRefresh(context.Background(), &client.Coordinates{}); ok {
		t.Fatal("RequestRefresh should report failure")
	}
	if got := f.Refresh(context.Background(), &client.Coordinates{}); got[0].Condition != "Sunny" {
		t.Fatalf("cache read should proceed, got %+v", got[0])
	}
}

func TestForecast_CanceledDuringSettle(t *testing.T) {
	b := &stubBackend{cached: cachedDays(5)}
	f := NewForecastCoordinator(b, &stubLocations{}, fixedDevice("d"), ForecastOptions{SettleDelay: time.Minute}, logger.NewNop())
	f.now = func() time.Time { return fixedNow }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := f.Refresh(ctx, &client.Coordinates{})
	if len(got) != 5 || got[0].Condition != client.DefaultCondition {
		t.Fatalf("expected placeholder, got %+v", got)
	}
	if len(b.cacheReads) != 0 {
		t.Fatalf("cache must not be read after cancellation")
	}
}
