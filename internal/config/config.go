package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	libconfig "voltride/libs/config"
)

// Snapshot backend names.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config defines the client configuration.
type Config struct {
	API struct {
		BaseURL        string `yaml:"baseUrl" env:"VOLTRIDE_API_URL"`
		TimeoutSeconds int    `yaml:"timeoutSeconds" env:"VOLTRIDE_API_TIMEOUT"`
	} `yaml:"api"`
	Snapshot struct {
		Backend string `yaml:"backend" env:"VOLTRIDE_SNAPSHOT_BACKEND"`
		Path    string `yaml:"path" env:"VOLTRIDE_SNAPSHOT_PATH"`
		Secret  string `yaml:"secret" env:"VOLTRIDE_SNAPSHOT_SECRET"`
		Redis   struct {
			Addr     string `yaml:"addr" env:"VOLTRIDE_REDIS_ADDR"`
			Password string `yaml:"password" env:"VOLTRIDE_REDIS_PASSWORD"`
		} `yaml:"redis"`
	} `yaml:"snapshot"`
	Refresh struct {
		CronSpec string `yaml:"cronSpec" env:"VOLTRIDE_REFRESH_CRON"`
	} `yaml:"refresh"`
}

// Load configuration via the shared helper, then fill defaults and validate.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		cfg.API.BaseURL = "http://localhost:5000/api"
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 5
	}
	if strings.TrimSpace(cfg.Snapshot.Backend) == "" {
		cfg.Snapshot.Backend = BackendFile
	}
	if cfg.Snapshot.Backend != BackendFile && cfg.Snapshot.Backend != BackendRedis {
		return nil, errors.New("config: snapshot backend must be file or redis")
	}
	if cfg.Snapshot.Backend == BackendRedis && strings.TrimSpace(cfg.Snapshot.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required for redis snapshot backend")
	}
	if strings.TrimSpace(cfg.Snapshot.Path) == "" {
		cfg.Snapshot.Path = defaultSnapshotPath()
	}
	if strings.TrimSpace(cfg.Snapshot.Secret) == "" {
		// Local tamper seal, not a shared credential; overridable all the same.
		cfg.Snapshot.Secret = "voltride-local-snapshot-seal"
	}
	if strings.TrimSpace(cfg.Refresh.CronSpec) == "" {
		cfg.Refresh.CronSpec = "@every 30s"
	}

	return cfg, nil
}

// HTTPTimeout returns the remote-call timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func defaultSnapshotPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "voltride", "session.snapshot")
	}
	return filepath.Join(home, ".voltride", "session.snapshot")
}
