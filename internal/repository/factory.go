package repository

import (
	"fmt"

	"irrigation_console/internal/logger"
	"irrigation_console/internal/repository/db"
)

// Drivers accepted by NewKVStore.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// StoreOptions selects and configures the key/value backend.
type StoreOptions struct {
	Driver string
	Path   string
	Redis  RedisOptions
}

// NewKVStore opens the configured backend. An unreachable redis falls back to
// the in-memory store so the console still starts.
func NewKVStore(opts StoreOptions, log *logger.Logger) (KVStore, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		path := opts.Path
		if path == "" {
			log.Infow("storage.path not set; using default file", "default", "console.db")
			path = "console.db"
		}
		conn, err := db.InitDB(path)
		if err != nil {
			return nil, err
		}
		log.Infow("kv_store_opened", "driver", DriverSQLite, "path", path)
		return NewKVSQLite(conn), nil

	case DriverRedis:
		store, err := NewKVRedis(opts.Redis)
		if err != nil {
			log.Warnw("kv_store_redis_unavailable", "addr", opts.Redis.Addr, "err", err)
			log.Warnw("kv_store_fallback", "driver", DriverMemory)
			return NewKVMemory(), nil
		}
		log.Infow("kv_store_opened", "driver", DriverRedis, "addr", opts.Redis.Addr)
		return store, nil

	case DriverMemory:
		log.Infow("kv_store_opened", "driver", DriverMemory)
		return NewKVMemory(), nil

	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", opts.Driver)
	}
}
