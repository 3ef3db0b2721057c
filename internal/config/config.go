package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every service setting.
type Config struct {
	Server ServerConfig
	Hub    HubConfig
	Store  StoreConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr        string
	Environment string
}

// Development reports whether the service runs with developer-friendly
// console logging.
func (c ServerConfig) Development() bool {
	return c.Environment == "" || c.Environment == "development"
}

// HubConfig describes the live-subscription hub.
type HubConfig struct {
	HeartbeatInterval  time.Duration
	SubscriberBuffer   int
	AlertSweepInterval time.Duration
}

// StoreConfig describes the in-memory message store.
type StoreConfig struct {
	HistoryLimit int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	hub, err := loadHubConfig()
	if err != nil {
		return nil, err
	}

	st, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Hub: hub, Store: st}, nil
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	env := getEnvOrDefault("APP_ENV", "development")

	if strings.Contains(port, ":") {
		// Allow ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port, Environment: env}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, Environment: env}, nil
}

func loadHubConfig() (HubConfig, error) {
	heartbeat, err := parseDurationEnv("HEARTBEAT_INTERVAL", 5*time.Second)
	if err != nil {
		return HubConfig{}, err
	}

	sweep, err := parseDurationEnv("ALERT_SWEEP_INTERVAL", 15*time.Second)
	if err != nil {
		return HubConfig{}, err
	}

	buffer := 16
	if override, err := parseOptionalIntEnv("SUBSCRIBER_BUFFER"); err != nil {
		return HubConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return HubConfig{}, fmt.Errorf("SUBSCRIBER_BUFFER must be at least 1, got %d", *override)
		}
		buffer = *override
	}

	return HubConfig{
		HeartbeatInterval:  heartbeat,
		SubscriberBuffer:   buffer,
		AlertSweepInterval: sweep,
	}, nil
}

func loadStoreConfig() (StoreConfig, error) {
	limit := 100
	if override, err := parseOptionalIntEnv("HISTORY_LIMIT"); err != nil {
		return StoreConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return StoreConfig{}, fmt.Errorf("HISTORY_LIMIT must be at least 1, got %d", *override)
		}
		limit = *override
	}
	return StoreConfig{HistoryLimit: limit}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("invalid %s value %q: must be positive", key, raw)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
