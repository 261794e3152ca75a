// Package scheduler runs refit jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fjacquet/trendfit/internal/logging"

	"github.com/robfig/cron/v3"
)

// Job is a scheduled unit of work. Its error is logged, never propagated.
type Job func(ctx context.Context) error

// Scheduler manages named cron jobs.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	logger logging.Logger

	mu      sync.Mutex
	jobs    map[string]Job
	entries map[string]cron.EntryID
}

// NewScheduler creates a Scheduler whose jobs receive ctx. Overlapping runs of the same
// job are skipped and panics are recovered.
func NewScheduler(ctx context.Context, logger logging.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		ctx:     ctx,
		logger:  logger,
		jobs:    make(map[string]Job),
		entries: make(map[string]cron.EntryID),
	}
}

// ValidateSchedule checks a standard five-field expression or descriptor such as
// "@hourly" or "@every 15m".
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Register adds job under name on the given schedule.
func (s *Scheduler) Register(name, spec string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}
	id, err := s.cron.AddFunc(spec, func() { s.execute(name, job) })
	if err != nil {
		return fmt.Errorf("register %s job: %w", name, err)
	}
	s.jobs[name] = job
	s.entries[name] = id

	s.logger.Info("Job scheduled",
		logging.F("job", name),
		logging.F(logging.FieldSchedule, spec))
	return nil
}

// RunNow executes the named job synchronously, outside the schedule.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.execute(name, job)
}

// Next returns the next activation of the named job, or the zero time when the
// scheduler is not running or the job is unknown.
func (s *Scheduler) Next(name string) time.Time {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

// Start starts the cron scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) execute(name string, job Job) error {
	start := time.Now()
	log := s.logger.WithField("job", name)
	log.Debug("Running job")

	if err := job(s.ctx); err != nil {
		log.WithError(err).Error("Job failed")
		return err
	}
	log.Debug("Job finished", logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return nil
}

// cronLogger forwards cron's own messages to a logging.Logger.
type cronLogger struct {
	logger logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, toFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.WithError(err).Error(msg, toFields(keysAndValues)...)
}

func toFields(keysAndValues []interface{}) []logging.Field {
	fields := make([]logging.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, logging.F(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1]))
	}
	return fields
}
