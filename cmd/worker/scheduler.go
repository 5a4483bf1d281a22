package main

import (
	"os"

	"shopsphere-backend/internal/infrastructure/queue"
	"shopsphere-backend/pkg/logger"
)

// asynqScheduler wraps queue.Scheduler for the worker process.
type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(cfg *Config) *asynqScheduler {
	scheduler := queue.NewScheduler(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	if err := scheduler.RegisterMaintenanceJobs(cfg.SweepInterval); err != nil {
		logger.Error("failed to register maintenance jobs", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("scheduler starting", nil)
		if err := scheduler.Run(); err != nil {
			logger.Error("scheduler failed", err)
			os.Exit(1)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	logger.Info("scheduler shutting down", nil)
	s.Scheduler.Shutdown()
}
