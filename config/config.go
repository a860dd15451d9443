package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"cari_magang/models"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	RedisURL    string
	LogPath     string
	JobBoard    JobBoardConfig
	Scheduler   SchedulerConfig
}

// JobBoardConfig holds the upstream RapidAPI credentials. Both values are
// required before any outbound call is attempted.
type JobBoardConfig struct {
	APIKey  string
	APIHost string
}

func (c *JobBoardConfig) HasCredentials() bool {
	return c.APIKey != "" && c.APIHost != ""
}

type SchedulerConfig struct {
	Cron     string
	Timezone string
	Defaults models.SyncFilters
}

// syncFile is the optional on-disk sync configuration (SYNC_CONFIG_PATH).
type syncFile struct {
	Cron     string             `yaml:"cron"`
	Timezone string             `yaml:"timezone"`
	Defaults models.SyncFilters `yaml:"defaults"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "5000"),
		Env:         getEnv("APP_ENV", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		LogPath:     getEnv("LOG_PATH", "cari_magang.log"),
		JobBoard: JobBoardConfig{
			APIKey:  os.Getenv("RAPIDAPI_KEY"),
			APIHost: os.Getenv("RAPIDAPI_HOST"),
		},
		Scheduler: SchedulerConfig{
			Cron:     "0 0 * * *",
			Timezone: "Asia/Jakarta",
			Defaults: models.DefaultSyncFilters(),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if err := cfg.loadSyncFile(getEnv("SYNC_CONFIG_PATH", "config/sync.yaml")); err != nil {
		return nil, err
	}

	// Env beats file.
	if v := os.Getenv("SYNC_CRON"); v != "" {
		cfg.Scheduler.Cron = v
	}
	if v := os.Getenv("SYNC_TIMEZONE"); v != "" {
		cfg.Scheduler.Timezone = v
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// loadSyncFile overlays cron spec, timezone and default filters from the
// optional YAML file. A missing file is not an error.
func (c *Config) loadSyncFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	var f syncFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if f.Cron != "" {
		c.Scheduler.Cron = f.Cron
	}
	if f.Timezone != "" {
		c.Scheduler.Timezone = f.Timezone
	}
	if f.Defaults != (models.SyncFilters{}) {
		c.Scheduler.Defaults = f.Defaults
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
