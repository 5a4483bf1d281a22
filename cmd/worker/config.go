package main

import (
	"os"
	"time"

	"shopsphere-backend/pkg/container"
	"shopsphere-backend/pkg/logger"
)

// Config holds everything the worker process needs beyond the shared
// container.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SweepInterval time.Duration
}

func loadConfig(c *container.Container) *Config {
	cfg := &Config{
		RedisAddr:     c.Config.Redis.Host,
		RedisPassword: c.Config.Redis.Password,
		RedisDB:       c.Config.Redis.DB,
		SweepInterval: getEnvDuration("PAYMENT_SWEEP_INTERVAL", time.Minute),
	}

	logger.Info("worker configuration loaded", map[string]interface{}{
		"redis":         cfg.RedisAddr,
		"sweepInterval": cfg.SweepInterval.String(),
	})

	return cfg
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
