package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/edgard/linkguard/internal/bot/tasks"
	"github.com/edgard/linkguard/internal/config"
	"github.com/edgard/linkguard/internal/logger"
)

// pendingFlushTimeout bounds the one-time jobs run during Stop.
const pendingFlushTimeout = 15 * time.Second

// Scheduler manages recurring tasks and one-time jobs using gocron.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	cfg       *config.SchedulerConfig
	taskMap   map[string]tasks.ScheduledTaskFunc
	mu        sync.Mutex
	running   bool

	pendingMu sync.Mutex
	pending   map[string]func(ctx context.Context)
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(log *slog.Logger, cfg *config.SchedulerConfig, taskMap map[string]tasks.ScheduledTaskFunc) (*Scheduler, error) {
	if log == nil {
		log = slog.Default()
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithLogger(logger.NewGocronLogger(log)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    log.With("component", "scheduler"),
		cfg:       cfg,
		taskMap:   taskMap,
		pending:   make(map[string]func(ctx context.Context)),
	}, nil
}

// Start schedules every enabled task from the configuration and starts the
// scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	scheduledCount := 0
	var taskConfigs map[string]config.TaskConfig
	if s.cfg != nil {
		taskConfigs = s.cfg.Tasks
	}
	if len(taskConfigs) == 0 {
		s.logger.Warn("No scheduler tasks configured")
	}
	for taskName, taskConfig := range taskConfigs {
		if !taskConfig.Enabled {
			s.logger.Info("Skipping disabled task", "task_name", taskName)
			continue
		}

		taskFunc, exists := s.taskMap[taskName]
		if !exists {
			s.logger.Warn("Scheduled task configured but not found in registry, skipping", "task_name", taskName)
			continue
		}

		_, err := s.scheduler.NewJob(
			gocron.CronJob(taskConfig.Schedule, true),
			gocron.NewTask(s.wrapTask(taskName, taskFunc), context.Background()),
			gocron.WithName(taskName),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			s.logger.Error("Failed to schedule task", "task_name", taskName, "schedule", taskConfig.Schedule, "error", err)
			continue
		}

		s.logger.Info("Scheduled task", "task_name", taskName, "schedule", taskConfig.Schedule)
		scheduledCount++
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler started", "tasks_scheduled", scheduledCount)
	return nil
}

// ScheduleOnce runs task once at the given time. Jobs added before Start run
// once the scheduler starts. Jobs still pending at Stop run during Stop.
func (s *Scheduler) ScheduleOnce(name string, at time.Time, task func(ctx context.Context)) error {
	s.pendingMu.Lock()
	s.pending[name] = task
	s.pendingMu.Unlock()

	_, err := s.scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(at)),
		gocron.NewTask(func(ctx context.Context) {
			if !s.claim(name) {
				return
			}
			s.logger.Debug("Running one-time job", "job_name", name)
			task(ctx)
		}, context.Background()),
		gocron.WithName(name),
	)
	if err != nil {
		s.claim(name)
		return fmt.Errorf("failed to schedule one-time job %s: %w", name, err)
	}
	return nil
}

// claim removes a pending one-time job and reports whether it was pending,
// so each job runs at most once.
func (s *Scheduler) claim(name string) bool {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	if _, ok := s.pending[name]; !ok {
		return false
	}
	delete(s.pending, name)
	return true
}

// runPending runs every one-time job that has not fired yet.
func (s *Scheduler) runPending(ctx context.Context) {
	s.pendingMu.Lock()
	jobs := s.pending
	s.pending = make(map[string]func(ctx context.Context))
	s.pendingMu.Unlock()

	if len(jobs) == 0 {
		return
	}
	s.logger.Info("Running pending one-time jobs before shutdown", "count", len(jobs))
	for name, task := range jobs {
		if ctx.Err() != nil {
			s.logger.Warn("Dropping pending one-time jobs", "remaining", len(jobs), "error", ctx.Err())
			return
		}
		s.logger.Debug("Running one-time job early", "job_name", name)
		task(ctx)
		delete(jobs, name)
	}
}

func (s *Scheduler) wrapTask(name string, taskFunc tasks.ScheduledTaskFunc) func(ctx context.Context) {
	return func(ctx context.Context) {
		s.logger.Info("Running scheduled task", "task_name", name)
		startTime := time.Now()
		if err := taskFunc(ctx); err != nil {
			s.logger.Error("Scheduled task failed", "task_name", name, "error", err)
		}
		s.logger.Info("Finished scheduled task", "task_name", name, "duration", time.Since(startTime))
	}
}

// Stop shuts the scheduler down, waiting for running jobs to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.logger.Info("Scheduler is not running, nothing to stop")
		return nil
	}

	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped")
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), pendingFlushTimeout)
	s.runPending(flushCtx)
	cancel()

	s.running = false
	return err
}
