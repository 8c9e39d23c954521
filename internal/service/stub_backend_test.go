package service

import (
	"context"
	"sync"
	"time"

	"irrigation_console/internal/client"
	"irrigation_console/internal/models"
)

var fixedNow = time.Date(2025, 11, 25, 14, 30, 0, 0, time.UTC)

// stubBackend is a hand-written Backend. Zero fields give benign defaults.
type stubBackend struct {
	mu sync.Mutex

	statusFn   func(ctx context.Context, deviceID string) models.DeviceStatus
	historyFn  func(ctx context.Context, deviceID string) []models.SensorHistoryPoint
	logsFn     func(ctx context.Context, deviceID string, limit, offset int) models.LogPage
	irrigateFn func(ctx context.Context, deviceID string, volumeL float64) error

	recomputeErr   error
	recomputeCalls []string

	location  client.Coordinates
	lookup    client.LocationLookup
	updateErr error
	updates   []client.Coordinates

	triggerErr error
	triggers   []client.Coordinates
	triggerIDs []string
	cached     []models.WeatherForecast
	cacheReads []int

	loginRes   client.LoginResult
	loginErr   error
	loginCalls int
	lastAdmin  bool
	lastUser   string
	lastPass   string

	changeErr   error
	changeCalls int

	users      []models.ManagedUser
	created    []models.NewUserParams
	deletedIDs []int64
}

func (b *stubBackend) DeviceStatus(ctx context.Context, deviceID string) models.DeviceStatus {
	if b.statusFn != nil {
		return b.statusFn(ctx, deviceID)
	}
	return client.FallbackStatus(deviceID, fixedNow)
}

func (b *stubBackend) History(ctx context.Context, deviceID string) []models.SensorHistoryPoint {
	if b.historyFn != nil {
		return b.historyFn(ctx, deviceID)
	}
	return client.EmptyHistory()
}

func (b *stubBackend) Logs(ctx context.Context, deviceID string, limit, offset int) models.LogPage {
	if b.logsFn != nil {
		return b.logsFn(ctx, deviceID, limit, offset)
	}
	return client.EmptyLogPage()
}

func (b *stubBackend) Irrigate(ctx context.Context, deviceID string, volumeL float64) error {
	if b.irrigateFn != nil {
		return b.irrigateFn(ctx, deviceID, volumeL)
	}
	return nil
}

func (b *stubBackend) RecomputePlan(ctx context.Context, deviceID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recomputeCalls = append(b.recomputeCalls, deviceID)
	return b.recomputeErr
}

func (b *stubBackend) Location(ctx context.Context, deviceID string) (client.Coordinates, client.LocationLookup) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lookup != client.LocationFound {
		return client.Coordinates{}, b.lookup
	}
	return b.location, client.LocationFound
}

func (b *stubBackend) UpdateLocation(ctx context.Context, deviceID string, coords client.Coordinates) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = append(b.updates, coords)
	if b.updateErr != nil {
		return b.updateErr
	}
	b.location, b.lookup = coords, client.LocationFound
	return nil
}

func (b *stubBackend) TriggerForecastUpdate(ctx context.Context, deviceID string, coords client.Coordinates) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.triggers = append(b.triggers, coords)
	b.triggerIDs = append(b.triggerIDs, deviceID)
	return b.triggerErr
}

func (b *stubBackend) CachedForecast(ctx context.Context, days int) []models.WeatherForecast {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cacheReads = append(b.cacheReads, days)
	return b.cached
}

func (b *stubBackend) Login(ctx context.Context, username, password string, admin bool) (client.LoginResult, error) {
	b.loginCalls++
	b.lastUser, b.lastPass, b.lastAdmin = username, password, admin
	return b.loginRes, b.loginErr
}

func (b *stubBackend) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	b.changeCalls++
	return b.changeErr
}

func (b *stubBackend) ListUsers(ctx context.Context) ([]models.ManagedUser, error) {
	return b.users, nil
}

func (b *stubBackend) CreateUser(ctx context.Context, p models.NewUserParams) (models.ManagedUser, error) {
	b.created = append(b.created, p)
	return models.ManagedUser{ID: int64(len(b.created)), Username: p.Username, Role: models.RoleUser, DeviceID: p.DeviceID}, nil
}

func (b *stubBackend) DeleteUser(ctx context.Context, id int64) error {
	b.deletedIDs = append(b.deletedIDs, id)
	return nil
}

var _ Backend = (*stubBackend)(nil)

// fixedDevice satisfies deviceBinding.
type fixedDevice string

func (d fixedDevice) DeviceID() string { return string(d) }
