package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full client configuration (configs/config.yml + IRRIGATION_* env).
type Config struct {
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	API struct {
		Origin          string `mapstructure:"origin"`       // where the console is served from
		BackendAddr     string `mapstructure:"backend_addr"` // direct backend for loopback origins
		BaseURL         string `mapstructure:"base_url"`     // explicit override
		DefaultDeviceID string `mapstructure:"default_device_id"`
	} `mapstructure:"api"`

	Storage struct {
		Driver string `mapstructure:"driver"` // sqlite | redis | memory
		Path   string `mapstructure:"path"`
		Redis  struct {
			Addr     string `mapstructure:"addr"`
			Username string `mapstructure:"username"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
			Prefix   string `mapstructure:"prefix"`
		} `mapstructure:"redis"`
	} `mapstructure:"storage"`

	Sync struct {
		StatusInterval time.Duration `mapstructure:"status_interval"`
		LogsInterval   time.Duration `mapstructure:"logs_interval"`
		LogPageSize    int           `mapstructure:"log_page_size"`
	} `mapstructure:"sync"`

	Forecast struct {
		SettleDelay time.Duration `mapstructure:"settle_delay"`
		Days        int           `mapstructure:"days"`
	} `mapstructure:"forecast"`

	Gateway struct {
		Port           string        `mapstructure:"port"`
		StreamInterval time.Duration `mapstructure:"stream_interval"`
		// Browser origins allowed to call the gateway cross-origin (UI dev server).
		AllowedOrigins []string      `mapstructure:"allowed_origins"`
	} `mapstructure:"gateway"`
}

const envPrefix = "IRRIGATION"

// setDefaults registers every key so env overrides work without a config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	v.SetDefault("api.origin", "http://localhost")
	v.SetDefault("api.backend_addr", "http://localhost:8080")
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.default_device_id", "esp32s3-1")

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "console.db")
	v.SetDefault("storage.redis.addr", "")
	v.SetDefault("storage.redis.username", "")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.prefix", "irrigation:")

	v.SetDefault("sync.status_interval", 10*time.Second)
	v.SetDefault("sync.logs_interval", 30*time.Second)
	v.SetDefault("sync.log_page_size", 20)

	v.SetDefault("forecast.settle_delay", 500*time.Millisecond)
	v.SetDefault("forecast.days", 5)

	v.SetDefault("gateway.port", "8090")
	v.SetDefault("gateway.stream_interval", time.Second)
	v.SetDefault("gateway.allowed_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})
}

// Load reads configs/config.yml (optional) from the given search paths and
// applies env overrides.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"configs", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(c *Config) error {
	switch c.Storage.Driver {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("storage.driver must be sqlite, redis or memory, got %q", c.Storage.Driver)
	}
	if c.Sync.StatusInterval <= 0 || c.Sync.LogsInterval <= 0 {
		return errors.New("sync intervals must be positive")
	}
	if c.Sync.LogPageSize <= 0 {
		return errors.New("sync.log_page_size must be positive")
	}
	if c.Forecast.Days <= 0 {
		return errors.New("forecast.days must be positive")
	}
	if strings.TrimSpace(c.API.DefaultDeviceID) == "" {
		return errors.New("api.default_device_id must not be empty")
	}
	return nil
}
