package service

import (
	"context"
	"sync"
	"time"

	"irrigation_console/internal/client"
	"irrigation_console/internal/logger"
	"irrigation_console/internal/models"

	"golang.org/x/sync/errgroup"
)

const (
	defaultStatusInterval = 10 * time.Second
	defaultLogsInterval   = 30 * time.Second
	defaultLogPageSize    = 20
)

// deviceBinding resolves the device the current session is bound to.
type deviceBinding interface {
	DeviceID() string
}

// SyncOptions configures tick cadences and the log page size.
type SyncOptions struct {
	StatusInterval time.Duration
	LogsInterval   time.Duration
	PageSize       int
}

// Dashboard is the status+history pair from one settled tick.
type Dashboard struct {
	Status  models.DeviceStatus         `json:"status"`
	History []models.SensorHistoryPoint `json:"history"`
	DataAge string                      `json:"data_age"`
	// Loaded is false until the first tick has been applied.
	Loaded    bool      `json:"loaded"`
	AppliedAt time.Time `json:"applied_at"`
}

// LogView is the current log page.
type LogView struct {
	Data     []models.LogEntry `json:"data"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// syncRun is one Start..Cancel lifetime.
type syncRun struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (r *syncRun) spawn(fn func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		fn()
	}()
}

// SyncScheduler refreshes status+history and the current log page on
// independent cadences. Ticks never wait for earlier ticks; a result is dropped
// when a newer tick of the same kind has started or the run was canceled.
type SyncScheduler struct {
	backend DeviceBackend
	devices deviceBinding
	opts    SyncOptions
	log     *logger.Logger
	now     func() time.Time

	mu        sync.RWMutex
	run       *syncRun
	dashboard Dashboard
	logs      LogView
	statusGen uint64
	logsGen   uint64
}

// NewSyncScheduler returns a stopped scheduler. Zero options take the defaults.
func NewSyncScheduler(backend DeviceBackend, devices deviceBinding, opts SyncOptions, log *logger.Logger) *SyncScheduler {
	if opts.StatusInterval <= 0 {
		opts.StatusInterval = defaultStatusInterval
	}
	if opts.LogsInterval <= 0 {
		opts.LogsInterval = defaultLogsInterval
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultLogPageSize
	}
	s := &SyncScheduler{backend: backend, devices: devices, opts: opts, log: log, now: time.Now}
	s.resetLocked()
	return s
}

func (s *SyncScheduler) resetLocked() {
	s.dashboard = Dashboard{
		Status:  client.FallbackStatus(s.devices.DeviceID(), s.now()),
		History: client.EmptyHistory(),
	}
	empty := client.EmptyLogPage()
	s.logs = LogView{Data: empty.Data, Total: empty.Total, Page: 1, PageSize: s.opts.PageSize}
}

// Start launches both tick loops; the first status and logs ticks fire
// immediately. Starting a running scheduler is a no-op.
func (s *SyncScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.run != nil {
		s.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	run := &syncRun{ctx: runCtx, cancel: cancel}
	s.run = run
	s.resetLocked()
	s.mu.Unlock()

	s.log.Infow("sync_started",
		"device_id", s.devices.DeviceID(),
		"status_interval", s.opts.StatusInterval,
		"logs_interval", s.opts.LogsInterval)

	run.spawn(func() { s.loop(run, s.opts.StatusInterval, s.statusTick) })
	run.spawn(func() { s.loop(run, s.opts.LogsInterval, s.logsTick) })
}

// Cancel stops both loops and waits for in-flight ticks. No tick applies state
// after Cancel returns.
func (s *SyncScheduler) Cancel() {
	s.mu.Lock()
	run := s.run
	s.run = nil
	s.mu.Unlock()
	if run == nil {
		return
	}
	run.cancel()
	run.wg.Wait()
	s.log.Infow("sync_canceled")
}

// Running reports whether the loops are active.
func (s *SyncScheduler) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.run != nil
}

func (s *SyncScheduler) loop(run *syncRun, interval time.Duration, tick func(*syncRun)) {
	run.spawn(func() { tick(run) })

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-run.ctx.Done():
			return
		case <-t.C:
			run.spawn(func() { tick(run) })
		}
	}
}

func (s *SyncScheduler) statusTick(run *syncRun) {
	s.mu.Lock()
	s.statusGen++
	gen := s.statusGen
	s.mu.Unlock()

	deviceID := s.devices.DeviceID()
	var (
		status  models.DeviceStatus
		history []models.SensorHistoryPoint
		g       errgroup.Group
	)
	g.Go(func() error {
		status = s.backend.DeviceStatus(run.ctx, deviceID)
		return nil
	})
	g.Go(func() error {
		history = s.backend.History(run.ctx, deviceID)
		return nil
	})
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run != run || run.ctx.Err() != nil {
		return
	}
	if gen != s.statusGen {
		s.log.Debugw("status_tick_superseded", "gen", gen, "latest", s.statusGen)
		return
	}
	s.dashboard = Dashboard{
		Status:    status,
		History:   history,
		Loaded:    true,
		AppliedAt: s.now(),
	}
}

func (s *SyncScheduler) logsTick(run *syncRun) {
	s.fetchLogs(run.ctx, run)
}

// fetchLogs reads the current page and applies it unless superseded, canceled,
// or ctx was torn down.
func (s *SyncScheduler) fetchLogs(ctx context.Context, run *syncRun) {
	s.mu.Lock()
	s.logsGen++
	gen := s.logsGen
	page := s.logs.Page
	s.mu.Unlock()

	size := s.opts.PageSize
	res := s.backend.Logs(ctx, s.devices.DeviceID(), size, (page-1)*size)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run != run || run.ctx.Err() != nil || ctx.Err() != nil {
		return
	}
	if gen != s.logsGen {
		s.log.Debugw("logs_tick_superseded", "gen", gen, "latest", s.logsGen)
		return
	}
	s.logs = LogView{Data: res.Data, Total: res.Total, Page: page, PageSize: size}
}

// Dashboard returns the latest applied status+history with a fresh data age.
func (s *SyncScheduler) Dashboard() Dashboard {
	s.mu.RLock()
	d := s.dashboard
	s.mu.RUnlock()
	d.DataAge = DataAge(s.now(), d.Status.Timestamp)
	return d
}

// Logs returns the latest applied log page.
func (s *SyncScheduler) Logs() LogView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logs
}

// SetLogPage selects the page refreshed by later ticks and fetches it now.
// Pages below 1 are clamped to 1.
func (s *SyncScheduler) SetLogPage(ctx context.Context, page int) LogView {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.logs.Page = page
	run := s.run
	s.mu.Unlock()

	if run != nil {
		s.fetchLogs(ctx, run)
	}
	return s.Logs()
}
