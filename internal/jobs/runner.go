// Package jobs runs periodic maintenance tasks on a cron schedule.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"docpin/internal/shared/telemetry"
)

// Job is a scheduled task.
type Job interface {
	Name() string
	Schedule() string
	Run(ctx context.Context) error
}

// Runner executes jobs with overlapping runs skipped and panics recovered.
type Runner struct {
	cron    *cron.Cron
	timeout time.Duration
	jobs    []Job
}

// NewRunner constructs a Runner. Each run gets a context bounded by timeout.
func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = time.Minute
	}
	logger := cron.PrintfLogger(telemetry.Logger())
	return &Runner{
		cron: cron.New(cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		)),
		timeout: timeout,
	}
}

// Add registers job on its schedule.
func (r *Runner) Add(job Job) error {
	_, err := r.cron.AddFunc(job.Schedule(), func() {
		r.runOnce(job)
	})
	if err != nil {
		return fmt.Errorf("schedule job %s: %w", job.Name(), err)
	}
	r.jobs = append(r.jobs, job)
	return nil
}

// RunAll runs every registered job once, in registration order, for hosts
// that trigger jobs externally instead of calling Start.
func (r *Runner) RunAll(ctx context.Context) error {
	var errs []error
	for _, job := range r.jobs {
		if err := r.run(ctx, job); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Start begins running jobs in the background.
func (r *Runner) Start() {
	r.cron.Start()
}

// Stop halts scheduling and waits for running jobs or ctx, whichever ends first.
func (r *Runner) Stop(ctx context.Context) {
	telemetry.Info("jobs.stopping", nil)
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (r *Runner) runOnce(job Job) {
	_ = r.run(context.Background(), job)
}

func (r *Runner) run(parent context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(parent, r.timeout)
	defer cancel()

	start := time.Now()
	err := job.Run(ctx)
	fields := map[string]any{
		"job":         job.Name(),
		"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
	}
	if err != nil {
		fields["error"] = err.Error()
		telemetry.Error("job.failed", fields)
		return err
	}
	telemetry.Info("job.completed", fields)
	return nil
}
