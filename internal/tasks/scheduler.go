package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"eduport/internal/models"
	console "eduport/internal/utils/logger"
)

// Scheduler handles periodic task scheduling
type Scheduler struct {
	scheduler *asynq.Scheduler
	logger    *console.Logger
}

// NewScheduler creates a new task scheduler
func NewScheduler(redisAddr, username, password string, db int, logger *console.Logger) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
		&asynq.SchedulerOpts{},
	)

	return &Scheduler{
		scheduler: scheduler,
		logger:    logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if err := s.registerTasks(); err != nil {
		return fmt.Errorf("failed to register tasks: %w", err)
	}

	s.logger.Info("starting task scheduler")
	return s.scheduler.Run()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Shutdown()
	s.logger.Info("task scheduler stopped")
}

// registerTasks registers a nightly CSV snapshot of every catalog resource.
func (s *Scheduler) registerTasks() error {
	for name := range models.Catalog() {
		payload, err := json.Marshal(ResourceExportPayload{Resource: name})
		if err != nil {
			return err
		}

		task := asynq.NewTask(TypeResourceExport, payload, asynq.Queue(QueueLow))
		entryID, err := s.scheduler.Register("0 3 * * *", task)
		if err != nil {
			return fmt.Errorf("failed to register nightly export of %s: %w", name, err)
		}
		s.logger.Info("registered nightly export of %s as %s", name, entryID)
	}

	return nil
}

// RegisterCustomTask registers a custom periodic task
func (s *Scheduler) RegisterCustomTask(spec string, taskType string, payload []byte, opts ...asynq.Option) error {
	entryID, err := s.scheduler.Register(spec, asynq.NewTask(taskType, payload, opts...))
	if err != nil {
		return fmt.Errorf("failed to register custom task: %w", err)
	}

	s.logger.Info("registered custom task %s %s %s", taskType, spec, entryID)
	return nil
}
