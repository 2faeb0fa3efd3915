package service

import (
	"github.com/nemanja-m/amstatus/internal/appmaster/core"
	"github.com/nemanja-m/amstatus/internal/shared/logging"
)

type resolver struct {
	registry core.JobRegistry
	logger   logging.Logger
}

func NewResolver(registry core.JobRegistry, logger logging.Logger) core.Resolver {
	return &resolver{
		registry: registry,
		logger:   logger,
	}
}

func (r *resolver) Jobs() []core.Job {
	partials := r.registry.ListPartial()
	jobs := make([]core.Job, 0, len(partials))
	for _, partial := range partials {
		job := r.registry.GetFull(partial.ID)
		if job == nil {
			r.logger.Debug("Skipping job without full view", "job_id", partial.ID.String())
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs
}

func (r *resolver) ResolveJob(id core.JobID) (core.Job, error) {
	job := r.registry.GetFull(id)
	if job == nil {
		return nil, core.ErrNotFound.New("job, %s, is not found", id)
	}
	return job, nil
}

func (r *resolver) ResolveTask(job core.Job, id core.TaskID) (core.Task, error) {
	if id.JobID != job.ID() {
		return nil, core.ErrNotFound.New("task, %s, is not found in job %s", id, job.ID())
	}
	task := job.Task(id)
	if task == nil {
		return nil, core.ErrNotFound.New("task, %s, is not found", id)
	}
	return task, nil
}

func (r *resolver) ResolveAttempt(task core.Task, id core.AttemptID) (core.Attempt, error) {
	if id.TaskID != task.ID() {
		return nil, core.ErrNotFound.New("attempt, %s, is not found in task %s", id, task.ID())
	}
	attempt := task.Attempt(id)
	if attempt == nil {
		return nil, core.ErrNotFound.New("attempt, %s, is not found", id)
	}
	return attempt, nil
}
