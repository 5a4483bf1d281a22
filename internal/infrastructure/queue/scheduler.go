package queue

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"shopsphere-backend/internal/shared"
	"shopsphere-backend/pkg/logger"
)

// Scheduler registers periodic maintenance tasks with asynq.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr, password string, db int) *Scheduler {
	return &Scheduler{
		scheduler: asynq.NewScheduler(
			asynq.RedisClientOpt{Addr: redisAddr, Password: password, DB: db},
			&asynq.SchedulerOpts{},
		),
	}
}

// RegisterMaintenanceJobs wires the recurring jobs. Currently only the
// stale-payment sweep.
func (s *Scheduler) RegisterMaintenanceJobs(sweepInterval time.Duration) error {
	task := asynq.NewTask(shared.TypeSweepStalePayment, nil)

	entryID, err := s.scheduler.Register(
		fmt.Sprintf("@every %s", sweepInterval),
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
	)
	if err != nil {
		return fmt.Errorf("failed to register stale payment sweep: %w", err)
	}

	logger.Info("registered stale payment sweep", map[string]interface{}{
		"entryId":  entryID,
		"interval": sweepInterval.String(),
	})

	return nil
}

// Run blocks until Shutdown is called.
func (s *Scheduler) Run() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
