// Package config содержит логику чтения конфигурации витрины пополнений.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации витрины пополнений.
type Config struct {
	RunAddress  string `env:"RUN_ADDRESS"`
	RedisURI    string `env:"REDIS_URI"`
	CatalogPath string `env:"CATALOG_PATH"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envRedisURI := cfg.RedisURI
	envCatalogPath := cfg.CatalogPath

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.RedisURI, "d", "", "redis URI for persisted state (in-memory if empty)")
	flag.StringVar(&cfg.CatalogPath, "c", "", "path to catalog file (embedded catalog if empty)")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envRedisURI != "" {
		cfg.RedisURI = envRedisURI
	}
	if envCatalogPath != "" {
		cfg.CatalogPath = envCatalogPath
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	return cfg, nil
}
