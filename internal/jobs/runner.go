// Package jobs runs long operations off the request path with a persisted,
// pollable status record per job.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ysenarath/textflow/internal/domain/job"
	"github.com/ysenarath/textflow/internal/repository"
)

// Func is the body of a background job.
type Func func(ctx context.Context) error

// Runner executes jobs on goroutines and records their lifecycle in the
// job store. Callers poll the record; cancelling means ignoring the result.
type Runner struct {
	jobs   repository.JobRepository
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewRunner creates a new Runner.
func NewRunner(jobs repository.JobRepository, logger *slog.Logger) *Runner {
	return &Runner{jobs: jobs, logger: logger}
}

// Submit persists a pending job record and starts the job. The returned
// record reflects the state at submission; poll the store for progress.
// The job runs on a background context: the submitting request finishing
// must not cancel it.
func (r *Runner) Submit(ctx context.Context, name string, userID, projectID int64, fn Func) (*job.Job, error) {
	now := time.Now()
	j := &job.Job{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProjectID: projectID,
		Name:      name,
		Status:    job.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.jobs.Create(ctx, j); err != nil {
		return nil, err
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(*j, fn)
	}()
	return j, nil
}

func (r *Runner) run(j job.Job, fn Func) {
	ctx := context.Background()
	r.setStatus(ctx, &j, job.StatusRunning, nil)

	if err := fn(ctx); err != nil {
		r.logger.Error("background job failed", "job", j.ID, "name", j.Name, "error", err)
		r.setStatus(ctx, &j, job.StatusFailed, err)
		return
	}
	r.setStatus(ctx, &j, job.StatusSucceeded, nil)
}

func (r *Runner) setStatus(ctx context.Context, j *job.Job, status job.Status, cause error) {
	j.Status = status
	j.UpdatedAt = time.Now()
	if cause != nil {
		j.Error = cause.Error()
	}
	if err := r.jobs.Update(ctx, j); err != nil {
		r.logger.Error("failed to update job status", "job", j.ID, "error", err)
	}
}

// Wait blocks until all submitted jobs have finished. Used on shutdown and
// in tests.
func (r *Runner) Wait() {
	r.wg.Wait()
}
