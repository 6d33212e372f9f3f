package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "http" or "stdio"
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type ScheduleConfig struct {
	HorizonYears int    `yaml:"horizon_years"`
	ScanInterval string `yaml:"scan_interval"` // cron @every duration, e.g. "1h"
	DedupWindow  string `yaml:"dedup_window"`  // suppression window for repeat reminders
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "cadence.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		Schedule: ScheduleConfig{
			HorizonYears: 3,
			ScanInterval: "1h",
			DedupWindow:  "24h",
		},
	}

	if path := os.Getenv("CADENCE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("CADENCE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("CADENCE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CADENCE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("CADENCE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("CADENCE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv("CADENCE_TRANSPORT"); mode != "" {
		if mode != "http" && mode != "stdio" {
			return Config{}, fmt.Errorf("invalid CADENCE_TRANSPORT: %q", mode)
		}
		cfg.Transport.Mode = mode
	}
	if authStr := os.Getenv("CADENCE_AUTH_ENABLED"); authStr != "" {
		enabled, err := strconv.ParseBool(authStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CADENCE_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = enabled
	}
	if yearsStr := os.Getenv("CADENCE_HORIZON_YEARS"); yearsStr != "" {
		years, err := strconv.Atoi(yearsStr)
		if err != nil || years <= 0 {
			return Config{}, fmt.Errorf("invalid CADENCE_HORIZON_YEARS: %q", yearsStr)
		}
		cfg.Schedule.HorizonYears = years
	}
	if interval := os.Getenv("CADENCE_SCAN_INTERVAL"); interval != "" {
		cfg.Schedule.ScanInterval = interval
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
