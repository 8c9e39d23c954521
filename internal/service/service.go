package service

import (
	"context"
	"time"

	"irrigation_console/internal/client"
	"irrigation_console/internal/logger"
	"irrigation_console/internal/models"
	"irrigation_console/internal/repository"
)

// DeviceBackend is the device-scoped subset of the remote client. Reads never
// fail; they return fallback values.
type DeviceBackend interface {
	DeviceStatus(ctx context.Context, deviceID string) models.DeviceStatus
	History(ctx context.Context, deviceID string) []models.SensorHistoryPoint
	Logs(ctx context.Context, deviceID string, limit, offset int) models.LogPage
	Irrigate(ctx context.Context, deviceID string, volumeL float64) error
	RecomputePlan(ctx context.Context, deviceID string) error
}

type LocationBackend interface {
	Location(ctx context.Context, deviceID string) (client.Coordinates, client.LocationLookup)
	UpdateLocation(ctx context.Context, deviceID string, coords client.Coordinates) error
}

type ForecastBackend interface {
	TriggerForecastUpdate(ctx context.Context, deviceID string, coords client.Coordinates) error
	CachedForecast(ctx context.Context, days int) []models.WeatherForecast
}

type AuthBackend interface {
	Login(ctx context.Context, username, password string, admin bool) (client.LoginResult, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
}

type AdminBackend interface {
	ListUsers(ctx context.Context) ([]models.ManagedUser, error)
	CreateUser(ctx context.Context, p models.NewUserParams) (models.ManagedUser, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Backend is everything the services need from *client.Client.
type Backend interface {
	DeviceBackend
	LocationBackend
	ForecastBackend
	AuthBackend
	AdminBackend
}

// Authorization exposes the session and the auth actions.
type Authorization interface {
	Login(ctx context.Context, username, password string, admin bool) (models.Session, error)
	Logout()
	ChangePassword(ctx context.Context, p PasswordChange) error
	CurrentSession() models.Session
}

// Sync exposes the periodic device refresh and its latest results.
type Sync interface {
	Start(ctx context.Context)
	Cancel()
	Running() bool
	Dashboard() Dashboard
	Logs() LogView
	SetLogPage(ctx context.Context, page int) LogView
}

// Forecast runs the trigger-then-read forecast protocol.
type Forecast interface {
	Refresh(ctx context.Context, coords *client.Coordinates) []models.WeatherForecast
}

// Location exposes the device geolocation.
type Location interface {
	Get(ctx context.Context) models.LocationConfig
	Save(ctx context.Context, lat, lon float64) (models.LocationConfig, error)
}

// Control exposes device commands.
type Control interface {
	Irrigate(ctx context.Context, volumeL float64) error
	RecomputePlan(ctx context.Context) error
}

// Admin exposes user management.
type Admin interface {
	ListUsers(ctx context.Context) ([]models.ManagedUser, error)
	CreateUser(ctx context.Context, p models.NewUserParams) (models.ManagedUser, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Service aggregates all sub-services consumed by the gateway.
type Service struct {
	Authorization
	Sync
	Forecast
	Location
	Control
	Admin
}

// Options carries the tuning knobs from config.
type Options struct {
	StatusInterval time.Duration
	LogsInterval   time.Duration
	LogPageSize    int
	SettleDelay    time.Duration
	ForecastDays   int
}

// NewService wires the backend, session store and key/value store into
// concrete services.
func NewService(backend Backend, sessions *SessionStore, kv repository.KVStore, opts Options, log *logger.Logger) *Service {
	syncer := NewSyncScheduler(backend, sessions, SyncOptions{
		StatusInterval: opts.StatusInterval,
		LogsInterval:   opts.LogsInterval,
		PageSize:       opts.LogPageSize,
	}, log.Named("sync"))
	locations := NewLocationStore(backend, sessions, kv, log.Named("location"))
	forecast := NewForecastCoordinator(backend, locations, sessions, ForecastOptions{
		SettleDelay: opts.SettleDelay,
		Days:        opts.ForecastDays,
	}, log.Named("forecast"))
	locations.OnSave(func(ctx context.Context, coords client.Coordinates) {
		forecast.RequestRefresh(ctx, &coords)
	})

	return &Service{
		Authorization: NewAuthService(backend, sessions, syncer, log.Named("auth")),
		Sync:          syncer,
		Forecast:      forecast,
		Location:      locations,
		Control:       NewControlService(backend, sessions, log.Named("control")),
		Admin:         NewAdminService(backend, sessions),
	}
}
