package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"irrigation_console/internal/client"
	"irrigation_console/internal/logger"
	"irrigation_console/internal/models"
)

const idle = time.Hour

func newTestScheduler(b DeviceBackend, opts SyncOptions) *SyncScheduler {
	s := NewSyncScheduler(b, fixedDevice("esp32s3-1"), opts, logger.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSyncScheduler_DefaultsAndInitialState(t *testing.T) {
	s := newTestScheduler(&stubBackend{}, SyncOptions{})
	if s.opts.StatusInterval != 10*time.Second || s.opts.LogsInterval != 30*time.Second || s.opts.PageSize != 20 {
		t.Fatalf("defaults = %+v", s.opts)
	}
	d := s.Dashboard()
	if d.Loaded || d.History == nil || d.Status.PumpState != models.PumpOff {
		t.Fatalf("initial dashboard = %+v", d)
	}
	if lv := s.Logs(); lv.Page != 1 || lv.PageSize != 20 || lv.Total != 0 {
		t.Fatalf("initial logs = %+v", lv)
	}
}

// Property: a failing backend yields exactly the fallback snapshot and empty history.
func TestSyncScheduler_FallbackOnBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := client.New(client.Options{
		BaseURL: srv.URL + "/api",
		Now:     func() time.Time { return fixedNow },
	}, nil, logger.NewNop())

	s := newTestScheduler(c, SyncOptions{StatusInterval: idle, LogsInterval: idle})
	s.Start(context.Background())
	defer s.Cancel()

	waitFor(t, "first tick", func() bool { return s.Dashboard().Loaded })

	d := s.Dashboard()
	if want := client.FallbackStatus("esp32s3-1", fixedNow); d.Status != want {
		t.Fatalf("status = %+v, want %+v", d.Status, want)
	}
	if d.Status.PumpState != models.PumpOff || d.Status.SoilRaw != 2150 {
		t.Fatalf("fallback fields = %+v", d.Status)
	}
	if d.History == nil || len(d.History) != 0 {
		t.Fatalf("history = %#v, want empty", d.History)
	}
	if d.DataAge != "just now" {
		t.Fatalf("data age = %q", d.DataAge)
	}
	if lv := s.Logs(); lv.Total != 0 || len(lv.Data) != 0 {
		t.Fatalf("logs = %+v", lv)
	}
}

func TestSyncScheduler_AppliesStatusAndHistoryTogether(t *testing.T) {
	var calls int32
	b := &stubBackend{
		statusFn: func(ctx context.Context, id string) models.DeviceStatus {
			n := atomic.AddInt32(&calls, 1)
			return models.DeviceStatus{DeviceID: id, Timestamp: fixedNow.Add(-90 * time.Second), TemperatureC: float64(n)}
		},
		historyFn: func(ctx context.Context, id string) []models.SensorHistoryPoint {
			return []models.SensorHistoryPoint{{Time: "14:00", Temp: 30}}
		},
	}
	s := newTestScheduler(b, SyncOptions{StatusInterval: 10 * time.Millisecond, LogsInterval: idle})
	s.Start(context.Background())
	defer s.Cancel()

	waitFor(t, "several ticks", func() bool { return s.Dashboard().Status.TemperatureC >= 3 })

	d := s.Dashboard()
	if len(d.History) != 1 || d.History[0].Temp != 30 {
		t.Fatalf("history = %+v", d.History)
	}
	if d.DataAge != "1 minutes ago" {
		t.Fatalf("data age = %q", d.DataAge)
	}
}

func TestSyncScheduler_OlderTickIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var calls int32
	b := &stubBackend{
		statusFn: func(ctx context.Context, id string) models.DeviceStatus {
			n := atomic.AddInt32(&calls, 1)
			if n == 1 {
				close(entered)
				<-release
			}
			return models.DeviceStatus{DeviceID: id, TemperatureC: float64(n)}
		},
	}
	s := newTestScheduler(b, SyncOptions{StatusInterval: idle, LogsInterval: idle})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	run := &syncRun{ctx: ctx, cancel: cancel}
	s.run = run

	slow := make(chan struct{})
	go func() {
		defer close(slow)
		s.statusTick(run)
	}()
	<-entered

	s.statusTick(run)
	if got := s.Dashboard().Status.TemperatureC; got != 2 {
		t.Fatalf("newer tick not applied, temp = %v", got)
	}

	close(release)
	<-slow
	if got := s.Dashboard().Status.TemperatureC; got != 2 {
		t.Fatalf("older tick clobbered newer state, temp = %v", got)
	}
}

func TestSyncScheduler_NoApplyAfterCancel(t *testing.T) {
	entered := make(chan struct{})
	var once sync.Once
	b := &stubBackend{
		statusFn: func(ctx context.Context, id string) models.DeviceStatus {
			once.Do(func() { close(entered) })
			<-ctx.Done()
			return models.DeviceStatus{DeviceID: id, TemperatureC: 99}
		},
	}
	s := newTestScheduler(b, SyncOptions{StatusInterval: idle, LogsInterval: idle})
	s.Start(context.Background())
	<-entered

	s.Cancel()
	if s.Running() {
		t.Fatal("scheduler should be stopped")
	}
	if d := s.Dashboard(); d.Loaded || d.Status.TemperatureC == 99 {
		t.Fatalf("state applied after cancel: %+v", d)
	}
}

func TestSyncScheduler_LogPaging(t *testing.T) {
	type call struct{ limit, offset int }
	var mu sync.Mutex
	var calls []call
	b := &stubBackend{
		logsFn: func(ctx context.Context, id string, limit, offset int) models.LogPage {
			mu.Lock()
			calls = append(calls, call{limit, offset})
			mu.Unlock()
			return models.LogPage{Data: []models.LogEntry{{ID: int64(offset + 1), Level: models.LevelInfo}}, Total: 45}
		},
	}
	s := newTestScheduler(b, SyncOptions{StatusInterval: idle, LogsInterval: idle})

	if lv := s.SetLogPage(context.Background(), 2); lv.Page != 2 || lv.Total != 0 {
		t.Fatalf("stopped scheduler must not fetch, got %+v", lv)
	}

	s.Start(context.Background())
	defer s.Cancel()
	waitFor(t, "initial logs tick", func() bool { return s.Logs().Total == 45 })

	lv := s.SetLogPage(context.Background(), 3)
	if lv.Page != 3 || lv.PageSize != 20 || len(lv.Data) != 1 || lv.Data[0].ID != 41 {
		t.Fatalf("page 3 = %+v", lv)
	}

	if lv := s.SetLogPage(context.Background(), 0); lv.Page != 1 {
		t.Fatalf("page 0 should clamp to 1, got %d", lv.Page)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls[0] != (call{20, 0}) {
		t.Fatalf("first fetch = %+v, want Start to reset to page 1", calls[0])
	}
	if last := calls[len(calls)-1]; last != (call{20, 0}) {
		t.Fatalf("last fetch = %+v", last)
	}
}

func TestSyncScheduler_StartIsIdempotent(t *testing.T) {
	var calls int32
	b := &stubBackend{
		statusFn: func(ctx context.Context, id string) models.DeviceStatus {
			atomic.AddInt32(&calls, 1)
			return models.DeviceStatus{DeviceID: id}
		},
	}
	s := newTestScheduler(b, SyncOptions{StatusInterval: idle, LogsInterval: idle})
	s.Start(context.Background())
	s.Start(context.Background())
	waitFor(t, "first tick", func() bool { return s.Dashboard().Loaded })
	s.Cancel()
	s.Cancel()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("status fetched %d times, want 1", n)
	}
}
