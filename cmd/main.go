package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"irrigation_console/internal/client"
	"irrigation_console/internal/config"
	"irrigation_console/internal/handlers"
	"irrigation_console/internal/logger"
	"irrigation_console/internal/repository"
	"irrigation_console/internal/server"
	"irrigation_console/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// load configs/config.yml + IRRIGATION_* env
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log.Level)

	// persistent session and location mirror
	store, err := openStore(cfg, log)
	if err != nil {
		log.Fatalw("failed to open kv store", "driver", cfg.Storage.Driver, "err", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Errorw("failed to close kv store", "err", cerr)
		}
	}()

	sessions := service.NewSessionStore(store, cfg.API.DefaultDeviceID, log.Named("session"))
	restored := sessions.Restore()

	// wire dependencies
	backend := client.New(client.Options{
		Origin:      cfg.API.Origin,
		BackendAddr: cfg.API.BackendAddr,
		BaseURL:     cfg.API.BaseURL,
	}, sessions, log.Named("client"))
	log.Infow("backend_resolved", "base_url", backend.BaseURL())

	services := service.NewService(backend, sessions, store, service.Options{
		StatusInterval: cfg.Sync.StatusInterval,
		LogsInterval:   cfg.Sync.LogsInterval,
		LogPageSize:    cfg.Sync.LogPageSize,
		SettleDelay:    cfg.Forecast.SettleDelay,
		ForecastDays:   cfg.Forecast.Days,
	}, log)
	apiHandler := handlers.NewHandler(services, log.Named("gateway"), cfg.Gateway.StreamInterval).
		AllowOrigins(cfg.Gateway.AllowedOrigins...)

	// resume syncing for a session persisted by a previous run
	if restored.IsAuthenticated() {
		log.Infow("session_restored", "username", restored.User.Username, "device_id", sessions.DeviceID())
		services.Start(context.Background())
	}

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Gateway.Port, apiHandler, log)

	waitForShutdown(services, srv, log)
}

func openStore(cfg *config.Config, log *logger.Logger) (repository.KVStore, error) {
	return repository.NewKVStore(repository.StoreOptions{
		Driver: cfg.Storage.Driver,
		Path:   cfg.Storage.Path,
		Redis: repository.RedisOptions{
			Addr:     cfg.Storage.Redis.Addr,
			Username: cfg.Storage.Redis.Username,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
			Prefix:   cfg.Storage.Redis.Prefix,
		},
	}, log.Named("store"))
}

// runHTTPServer runs the gateway in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("gateway_listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT/SIGTERM, then stops syncing and drains the gateway.
func waitForShutdown(services *service.Service, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down...")

	services.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
