package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	AppEnv      string
	Port        int
	SyncPort    int
	LogLevel    string
	LogFormat   string
	HubCapacity int
	APIEnabled  bool
	APIRate     float64
	APIBurst    int
}

func Load() (*Config, error) {
	port, err := getEnvInt("PORT", 7070)
	if err != nil {
		return nil, err
	}
	syncPort, err := getEnvInt("SYNC_PORT", 7071)
	if err != nil {
		return nil, err
	}
	hubCapacity, err := getEnvInt("HUB_CAPACITY", 100)
	if err != nil {
		return nil, err
	}
	apiBurst, err := getEnvInt("API_BURST", 10)
	if err != nil {
		return nil, err
	}
	apiRate, err := getEnvFloat("API_RATE", 5)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        port,
		SyncPort:    syncPort,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		HubCapacity: hubCapacity,
		APIEnabled:  getEnv("API_ENABLED", "false") == "true",
		APIRate:     apiRate,
		APIBurst:    apiBurst,
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.SyncPort < 1 || cfg.SyncPort > 65535 {
		return nil, fmt.Errorf("SYNC_PORT must be between 1 and 65535, got %d", cfg.SyncPort)
	}
	if cfg.Port == cfg.SyncPort {
		return nil, fmt.Errorf("PORT and SYNC_PORT must differ, both are %d", cfg.Port)
	}
	if cfg.HubCapacity < 1 {
		return nil, fmt.Errorf("HUB_CAPACITY must be positive, got %d", cfg.HubCapacity)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}
